package model

// Envelope wraps single-item and unpaginated list responses.
type Envelope[T any] struct {
	Message string `json:"message"`
	Data    T      `json:"data"`
}

// MessageResponse is returned by deletes and other body-less operations.
type MessageResponse struct {
	Message string `json:"message"`
}

// Page is one page of a paginated list. Pages are 1-indexed.
type Page[T any] struct {
	Message     string `json:"message"`
	Data        []T    `json:"data"`
	TotalPages  int    `json:"totalPages"`
	CurrentPage int    `json:"currentPage"`
}

// Normalize clamps the cursor so that 1 <= CurrentPage <= TotalPages.
// An empty result still counts as one page.
func (p *Page[T]) Normalize() {
	if p.TotalPages < 1 {
		p.TotalPages = 1
	}
	if p.CurrentPage < 1 {
		p.CurrentPage = 1
	}
	if p.CurrentPage > p.TotalPages {
		p.CurrentPage = p.TotalPages
	}
	if p.Data == nil {
		p.Data = []T{}
	}
}

// HasMore reports whether a following page exists.
func (p Page[T]) HasMore() bool {
	return p.CurrentPage < p.TotalPages
}

// FieldError is one field-level validation failure.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ErrorResponse is the body the backend sends with non-2xx statuses.
type ErrorResponse struct {
	Message string       `json:"message"`
	Errors  []FieldError `json:"errors,omitempty"`
}

// UploadResponse is the upload service's reply.
type UploadResponse struct {
	URL string `json:"url"`
}
