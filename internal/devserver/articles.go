package devserver

import (
	"fmt"
	"net/http"

	"github.com/edvin/mitra-admin/internal/model"
)

func (s *Server) listArticles(w http.ResponseWriter, _ *http.Request) {
	writeData(w, http.StatusOK, "articles retrieved", nonNil(s.store.listArticles("")))
}

func (s *Server) getArticle(w http.ResponseWriter, r *http.Request) {
	id, ok := int64Param(w, r, "id")
	if !ok {
		return
	}
	a, ok := s.store.article(id)
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Sprintf("article %d not found", id))
		return
	}
	writeData(w, http.StatusOK, "article retrieved", a)
}

func (s *Server) createArticle(w http.ResponseWriter, r *http.Request) {
	var pl model.ArticlePayload
	if !decode(w, r, &pl) {
		return
	}
	a := s.store.createArticle(model.Article{
		AuthorID:   claimsFrom(r.Context()).Subject,
		CategoryID: pl.CategoryID,
		Title:      pl.Title,
		Slug:       slugify(pl.Title),
		Thumbnail:  pl.Thumbnail,
		Content:    pl.Content,
		IsFeatured: pl.IsFeatured,
	})
	writeData(w, http.StatusCreated, "article created", a)
}

func (s *Server) updateArticle(w http.ResponseWriter, r *http.Request) {
	id, ok := int64Param(w, r, "id")
	if !ok {
		return
	}
	var u model.ArticleUpdate
	if !decode(w, r, &u) {
		return
	}
	a, ok := s.store.updateArticle(id, u)
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Sprintf("article %d not found", id))
		return
	}
	writeData(w, http.StatusOK, "article updated", a)
}

func (s *Server) deleteArticle(w http.ResponseWriter, r *http.Request) {
	id, ok := int64Param(w, r, "id")
	if !ok {
		return
	}
	if !s.store.deleteArticle(id) {
		writeError(w, http.StatusNotFound, fmt.Sprintf("article %d not found", id))
		return
	}
	writeMessage(w, http.StatusOK, "article deleted")
}
