package devserver

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/edvin/mitra-admin/internal/model"
)

func (s *Server) listProducts(w http.ResponseWriter, r *http.Request) {
	q := productQuery{
		text:        r.URL.Query().Get("q"),
		subSectorID: r.URL.Query().Get("subsector"),
	}
	if cat := r.URL.Query().Get("kategori"); cat != "" {
		id, err := strconv.ParseInt(cat, 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid kategori")
			return
		}
		q.categoryID = id
	}

	page := paginate(s.store.listProducts(q), parsePagination(r))
	writePage(w, "products retrieved", page)
}

func (s *Server) getProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := int64Param(w, r, "id")
	if !ok {
		return
	}
	p, ok := s.store.product(id)
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Sprintf("product %d not found", id))
		return
	}
	writeData(w, http.StatusOK, "product retrieved", p)
}

func (s *Server) createProduct(w http.ResponseWriter, r *http.Request) {
	var pl model.ProductPayload
	if !decode(w, r, &pl) {
		return
	}
	if _, ok := s.store.category(pl.BusinessCategoryID); !ok {
		writeValidation(w, []model.FieldError{{Field: "business_category_id", Message: "business category does not exist"}})
		return
	}

	claims := claimsFrom(r.Context())
	p := model.Product{
		Name:               pl.Name,
		OwnerName:          pl.OwnerName,
		Description:        pl.Description,
		Price:              pl.Price,
		Stock:              pl.Stock,
		Image:              pl.Image,
		PhoneNumber:        pl.PhoneNumber,
		Status:             pl.Status,
		UserID:             claims.Subject,
		BusinessCategoryID: pl.BusinessCategoryID,
		SubSectorID:        pl.SubSectorID,
	}
	created := s.store.createProduct(p)
	s.logger.Debug().Int64("product_id", created.ID).Msg("product created")
	writeData(w, http.StatusCreated, "product created", created)
}

// updateProduct validates the body exactly like create: a PUT missing any
// required field is rejected even when the caller meant to change one field.
func (s *Server) updateProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := int64Param(w, r, "id")
	if !ok {
		return
	}
	var pl model.ProductPayload
	if !decode(w, r, &pl) {
		return
	}
	p, ok := s.store.replaceProduct(id, pl)
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Sprintf("product %d not found", id))
		return
	}
	writeData(w, http.StatusOK, "product updated", p)
}

func (s *Server) deleteProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := int64Param(w, r, "id")
	if !ok {
		return
	}
	if !s.store.deleteProduct(id) {
		writeError(w, http.StatusNotFound, fmt.Sprintf("product %d not found", id))
		return
	}
	writeMessage(w, http.StatusOK, "product deleted")
}

func (s *Server) createLink(w http.ResponseWriter, r *http.Request) {
	id, ok := int64Param(w, r, "id")
	if !ok {
		return
	}
	var pl model.LinkPayload
	if !decode(w, r, &pl) {
		return
	}
	l, ok := s.store.createLink(id, pl)
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Sprintf("product %d not found", id))
		return
	}
	writeData(w, http.StatusCreated, "link created", l)
}

func (s *Server) updateLink(w http.ResponseWriter, r *http.Request) {
	id, ok := int64Param(w, r, "id")
	if !ok {
		return
	}
	linkID, ok := int64Param(w, r, "linkID")
	if !ok {
		return
	}
	var u model.LinkUpdate
	if !decode(w, r, &u) {
		return
	}
	l, ok := s.store.updateLink(id, linkID, u)
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Sprintf("link %d not found", linkID))
		return
	}
	writeData(w, http.StatusOK, "link updated", l)
}
