package devserver

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/edvin/mitra-admin/internal/model"
)

func (s *Server) listCategories(w http.ResponseWriter, _ *http.Request) {
	writeData(w, http.StatusOK, "business categories retrieved", s.store.listCategories())
}

func (s *Server) getCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := int64Param(w, r, "id")
	if !ok {
		return
	}
	c, ok := s.store.category(id)
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Sprintf("business category %d not found", id))
		return
	}
	writeData(w, http.StatusOK, "business category retrieved", c)
}

func (s *Server) createCategory(w http.ResponseWriter, r *http.Request) {
	var pl model.BusinessCategoryPayload
	if !decode(w, r, &pl) {
		return
	}
	c, _ := s.store.putCategory(0, pl)
	writeData(w, http.StatusCreated, "business category created", c)
}

func (s *Server) updateCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := int64Param(w, r, "id")
	if !ok {
		return
	}
	var pl model.BusinessCategoryPayload
	if !decode(w, r, &pl) {
		return
	}
	c, ok := s.store.putCategory(id, pl)
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Sprintf("business category %d not found", id))
		return
	}
	writeData(w, http.StatusOK, "business category updated", c)
}

func (s *Server) deleteCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := int64Param(w, r, "id")
	if !ok {
		return
	}
	if !s.store.deleteCategory(id) {
		writeError(w, http.StatusNotFound, fmt.Sprintf("business category %d not found", id))
		return
	}
	writeMessage(w, http.StatusOK, "business category deleted")
}

func (s *Server) listSubSectors(w http.ResponseWriter, _ *http.Request) {
	writeData(w, http.StatusOK, "subsectors retrieved", s.store.listSubSectors())
}

func (s *Server) getSubSector(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	ss, ok := s.store.subSector(id)
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Sprintf("subsector %s not found", id))
		return
	}
	writeData(w, http.StatusOK, "subsector retrieved", ss)
}

func (s *Server) createSubSector(w http.ResponseWriter, r *http.Request) {
	var pl model.SubSectorPayload
	if !decode(w, r, &pl) {
		return
	}
	ss := s.store.putSubSector(model.SubSector{ID: uuid.NewString(), Title: pl.Title, Slug: slugify(pl.Title)})
	writeData(w, http.StatusCreated, "subsector created", ss)
}

func (s *Server) updateSubSector(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var pl model.SubSectorPayload
	if !decode(w, r, &pl) {
		return
	}
	ss, ok := s.store.subSector(id)
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Sprintf("subsector %s not found", id))
		return
	}
	ss.Title = pl.Title
	ss.Slug = slugify(pl.Title)
	writeData(w, http.StatusOK, "subsector updated", s.store.putSubSector(ss))
}

func (s *Server) deleteSubSector(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !s.store.deleteSubSector(id) {
		writeError(w, http.StatusNotFound, fmt.Sprintf("subsector %s not found", id))
		return
	}
	writeMessage(w, http.StatusOK, "subsector deleted")
}

func (s *Server) listLevels(w http.ResponseWriter, _ *http.Request) {
	writeData(w, http.StatusOK, "levels retrieved", s.store.listLevels())
}
