package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/JoseMCabreraT/Unit18-BookSearchEngine/models"
)

type BookStore interface {
	AllBooks(ctx context.Context) ([]models.BookRecord, error)
}

type CatalogSearcher interface {
	Search(ctx context.Context, query string) ([]models.Book, error)
}

type BooksHandler struct {
	DB      BookStore
	Catalog CatalogSearcher
}

// List returns every standalone book record ever saved by anyone. This is
// the administrative/debug listing, not a user's saved list.
func (h *BooksHandler) List(w http.ResponseWriter, r *http.Request) {
	books, err := h.DB.AllBooks(r.Context())
	if err != nil {
		http.Error(w, `{"error":"failed to list books"}`, http.StatusInternalServerError)
		return
	}
	if books == nil {
		books = []models.BookRecord{}
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(books)
}

// Search proxies a free-text query to the catalog and returns candidate
// books. It needs no identity; an unauthenticated caller can browse.
func (h *BooksHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		http.Error(w, `{"error":"query parameter q is required"}`, http.StatusBadRequest)
		return
	}
	books, err := h.Catalog.Search(r.Context(), query)
	if err != nil {
		http.Error(w, `{"error":"catalog search failed"}`, http.StatusBadGateway)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(books)
}
