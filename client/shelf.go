package client

import (
	"context"
	"errors"

	"github.com/JoseMCabreraT/Unit18-BookSearchEngine/handlers"
	"github.com/JoseMCabreraT/Unit18-BookSearchEngine/models"
)

// ErrNotAuthenticated is returned before any request is made when a
// mutation is attempted without a credential.
var ErrNotAuthenticated = errors.New("not logged in")

// Shelf reconciles a device's local state with the server's confirmed
// saved-books projection. It holds three views:
//
//   - candidates: the last successful catalog search result
//   - cache: the last confirmed projection, overwritten whole on every
//     successful mutation, never merged
//   - index: the set of bookIds this device believes saved, updated only
//     after server confirmation and persisted through the IndexStore
//
// Any failed operation leaves every view untouched. Retrying is the
// caller's decision; the store-level idempotence makes retries safe.
type Shelf struct {
	api   *API
	store *IndexStore

	candidates []models.Book
	cache      *handlers.Projection
	index      map[string]struct{}
}

// NewShelf seeds the id index from durable local storage. A previously
// saved index keeps disabling already-saved items even before (or without)
// a login in this session.
func NewShelf(api *API, store *IndexStore) (*Shelf, error) {
	ids, err := store.LoadIDs()
	if err != nil {
		return nil, err
	}
	return &Shelf{api: api, store: store, index: ids}, nil
}

// Search replaces the candidate list on success. On failure the previous
// candidates are kept and the error surfaced. The id index is never
// touched by a search.
func (s *Shelf) Search(ctx context.Context, query string) ([]models.Book, error) {
	books, err := s.api.Search(ctx, query)
	if err != nil {
		return nil, err
	}
	s.candidates = books
	return books, nil
}

// SaveBook sends the candidate with the given bookId to the server and,
// only on confirmation, overwrites the query cache with the returned
// projection, unions the confirmed ids into the index, and persists it.
func (s *Shelf) SaveBook(ctx context.Context, bookID string) error {
	if !s.api.Authenticated() {
		return ErrNotAuthenticated
	}
	book, ok := s.Candidate(bookID)
	if !ok {
		return errors.New("book is not in the current search results")
	}
	proj, err := s.api.SaveBook(ctx, book)
	if err != nil {
		return err
	}
	s.cache = proj
	for _, b := range proj.SavedBooks {
		s.index[b.BookID] = struct{}{}
	}
	return s.store.SaveIDs(s.index)
}

// DeleteBook removes a saved book and, on confirmation, overwrites the
// query cache and drops the id from the index.
func (s *Shelf) DeleteBook(ctx context.Context, bookID string) error {
	if !s.api.Authenticated() {
		return ErrNotAuthenticated
	}
	proj, err := s.api.DeleteBook(ctx, bookID)
	if err != nil {
		return err
	}
	s.cache = proj
	delete(s.index, bookID)
	return s.store.SaveIDs(s.index)
}

// Refresh pulls the current projection and performs a full overwrite of
// both the query cache and the id index.
func (s *Shelf) Refresh(ctx context.Context) error {
	if !s.api.Authenticated() {
		return ErrNotAuthenticated
	}
	proj, err := s.api.Me(ctx)
	if err != nil {
		return err
	}
	s.cache = proj
	s.index = make(map[string]struct{}, len(proj.SavedBooks))
	for _, b := range proj.SavedBooks {
		s.index[b.BookID] = struct{}{}
	}
	return s.store.SaveIDs(s.index)
}

// IsSaved reports whether this device believes the book is already saved.
// Advisory only: it disables redundant save actions in the UI and never
// blocks a delete.
func (s *Shelf) IsSaved(bookID string) bool {
	_, ok := s.index[bookID]
	return ok
}

// Candidate returns the book with the given id from the last search.
func (s *Shelf) Candidate(bookID string) (models.Book, bool) {
	for _, b := range s.candidates {
		if b.BookID == bookID {
			return b, true
		}
	}
	return models.Book{}, false
}

// Candidates returns the last successful search result.
func (s *Shelf) Candidates() []models.Book {
	return s.candidates
}

// RestoreCandidates seeds the candidate list from device-persisted session
// state, for callers that do not keep a Shelf alive between invocations.
func (s *Shelf) RestoreCandidates(books []models.Book) {
	s.candidates = books
}

// Saved returns the last confirmed projection, or nil before any
// confirmed query or mutation in this session.
func (s *Shelf) Saved() *handlers.Projection {
	return s.cache
}

// SavedIDs returns a copy of the local id index.
func (s *Shelf) SavedIDs() map[string]struct{} {
	out := make(map[string]struct{}, len(s.index))
	for id := range s.index {
		out[id] = struct{}{}
	}
	return out
}
