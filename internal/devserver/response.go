package devserver

import (
	"encoding/json"
	"net/http"

	"github.com/edvin/mitra-admin/internal/model"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, model.ErrorResponse{Message: message})
}

func writeValidation(w http.ResponseWriter, fields []model.FieldError) {
	writeJSON(w, http.StatusBadRequest, model.ErrorResponse{Message: "validation failed", Errors: fields})
}

func writeData(w http.ResponseWriter, status int, message string, data any) {
	writeJSON(w, status, map[string]any{"message": message, "data": data})
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, model.MessageResponse{Message: message})
}

func writePage[T any](w http.ResponseWriter, message string, p model.Page[T]) {
	p.Message = message
	writeJSON(w, http.StatusOK, p)
}
