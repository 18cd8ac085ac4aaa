package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/JoseMCabreraT/Unit18-BookSearchEngine/middleware"
	"github.com/JoseMCabreraT/Unit18-BookSearchEngine/models"
	"github.com/JoseMCabreraT/Unit18-BookSearchEngine/store"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SavedBooksStore is the slice of the store the mutation protocol needs.
// *store.DB satisfies it; tests substitute an in-memory double.
type SavedBooksStore interface {
	UserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	AddSavedBook(ctx context.Context, id primitive.ObjectID, book models.Book) (*models.User, error)
	RemoveSavedBook(ctx context.Context, id primitive.ObjectID, bookID string) (*models.User, error)
	UpsertBook(ctx context.Context, book models.Book) error
}

type SavedHandler struct {
	DB SavedBooksStore
}

// Projection is the full saved-books view returned by every mutation.
// Callers overwrite their caches with it wholesale instead of merging
// deltas, so the response must always equal the store's state for the user
// at the moment of the reply.
type Projection struct {
	Username   string        `json:"username"`
	SavedBooks []models.Book `json:"savedBooks"`
	BookCount  int           `json:"bookCount"`
}

func projectionOf(u *models.User) Projection {
	books := u.SavedBooks
	if books == nil {
		books = []models.Book{}
	}
	return Projection{Username: u.Username, SavedBooks: books, BookCount: u.BookCount()}
}

// Me returns the caller's current projection so a device can seed its
// local caches.
func (h *SavedHandler) Me(w http.ResponseWriter, r *http.Request) {
	ident, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
		return
	}
	user, err := h.DB.UserByID(r.Context(), ident.UserID)
	if err != nil {
		http.Error(w, `{"error":"failed to load user"}`, http.StatusInternalServerError)
		return
	}
	if user == nil {
		http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(projectionOf(user))
}

// SaveBook adds a book to the caller's saved list. Identity is checked by
// the auth middleware before this runs; the body is validated before any
// store write. Saving an already-saved bookId is a no-op success.
func (h *SavedHandler) SaveBook(w http.ResponseWriter, r *http.Request) {
	ident, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
		return
	}
	var book models.Book
	if err := json.NewDecoder(r.Body).Decode(&book); err != nil {
		http.Error(w, `{"error":"invalid json"}`, http.StatusBadRequest)
		return
	}
	if !book.Valid() {
		http.Error(w, `{"error":"bookId and title are required"}`, http.StatusBadRequest)
		return
	}
	user, err := h.DB.AddSavedBook(r.Context(), ident.UserID, book)
	if errors.Is(err, store.ErrUserNotFound) {
		http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
		return
	}
	if err != nil {
		http.Error(w, `{"error":"failed to save book"}`, http.StatusInternalServerError)
		return
	}
	// Standalone record for the administrative listing. Losing it does not
	// affect the user's saved list, so a failure here is only logged.
	if err := h.DB.UpsertBook(r.Context(), book); err != nil {
		log.Println("book record upsert:", err)
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(projectionOf(user))
}

// DeleteBook removes a book from the caller's saved list. Deleting an id
// that is not saved is a no-op success.
func (h *SavedHandler) DeleteBook(w http.ResponseWriter, r *http.Request) {
	ident, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
		return
	}
	bookID := chi.URLParam(r, "bookId")
	if bookID == "" {
		http.Error(w, `{"error":"bookId is required"}`, http.StatusBadRequest)
		return
	}
	user, err := h.DB.RemoveSavedBook(r.Context(), ident.UserID, bookID)
	if errors.Is(err, store.ErrUserNotFound) {
		http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
		return
	}
	if err != nil {
		http.Error(w, `{"error":"failed to delete book"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(projectionOf(user))
}
