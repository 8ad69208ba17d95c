package devserver

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/edvin/mitra-admin/internal/model"
)

func (s *Server) profile(w http.ResponseWriter, r *http.Request) {
	u, ok := s.store.account(claimsFrom(r.Context()).Subject)
	if !ok {
		writeError(w, http.StatusNotFound, "user not found")
		return
	}
	writeData(w, http.StatusOK, "profile retrieved", u)
}

func (s *Server) listUsers(w http.ResponseWriter, _ *http.Request) {
	writeData(w, http.StatusOK, "users retrieved", s.store.listAccounts())
}

func (s *Server) getUser(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	u, ok := s.store.account(id)
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Sprintf("user %s not found", id))
		return
	}
	writeData(w, http.StatusOK, "user retrieved", u)
}

// updateUser requires the full record, like every other PUT on this API.
func (s *Server) updateUser(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var pl model.UserPayload
	if !decode(w, r, &pl) {
		return
	}
	if _, ok := s.store.levelByID(pl.LevelID); !ok {
		writeValidation(w, []model.FieldError{{Field: "level_id", Message: "unknown level"}})
		return
	}
	if _, ok := s.store.replaceAccount(id, pl); !ok {
		writeError(w, http.StatusNotFound, fmt.Sprintf("user %s not found", id))
		return
	}
	writeMessage(w, http.StatusOK, "user updated")
}

func (s *Server) deleteUser(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !s.store.deleteAccount(id) {
		writeError(w, http.StatusNotFound, fmt.Sprintf("user %s not found", id))
		return
	}
	writeMessage(w, http.StatusOK, "user deleted")
}

func (s *Server) userProducts(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, ok := s.store.account(id); !ok {
		writeError(w, http.StatusNotFound, fmt.Sprintf("user %s not found", id))
		return
	}
	writeData(w, http.StatusOK, "products retrieved", nonNil(s.store.productsOf(id)))
}

func (s *Server) userArticles(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, ok := s.store.account(id); !ok {
		writeError(w, http.StatusNotFound, fmt.Sprintf("user %s not found", id))
		return
	}
	writeData(w, http.StatusOK, "articles retrieved", nonNil(s.store.listArticles(id)))
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
