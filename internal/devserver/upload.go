package devserver

import (
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/edvin/mitra-admin/internal/model"
)

const maxUploadBytes = 10 << 20

// upload stands in for the external image host: it accepts one multipart
// "file" field and answers with the URL it can be fetched from.
func (s *Server) upload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "expected multipart form data")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing file field")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "could not read file")
		return
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}
	name := uuid.NewString() + strings.ToLower(filepath.Ext(header.Filename))
	s.store.putFile(name, storedFile{contentType: contentType, data: data})

	base := s.cfg.PublicURL
	if base == "" {
		base = "http://" + r.Host
	}
	writeJSON(w, http.StatusOK, model.UploadResponse{URL: strings.TrimRight(base, "/") + "/files/" + name})
}

func (s *Server) serveFile(w http.ResponseWriter, r *http.Request) {
	f, ok := s.store.file(chi.URLParam(r, "name"))
	if !ok {
		writeError(w, http.StatusNotFound, "file not found")
		return
	}
	w.Header().Set("Content-Type", f.contentType)
	w.WriteHeader(http.StatusOK)
	w.Write(f.data)
}
