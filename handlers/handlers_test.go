package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/JoseMCabreraT/Unit18-BookSearchEngine/middleware"
	"github.com/JoseMCabreraT/Unit18-BookSearchEngine/models"
	"github.com/JoseMCabreraT/Unit18-BookSearchEngine/store"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const testSecret = "test-secret"

// fakeStore is an in-memory stand-in for *store.DB honoring the same
// contract: guarded idempotent add, idempotent remove, duplicate-user
// rejection.
type fakeStore struct {
	users       map[primitive.ObjectID]*models.User
	bookRecords map[string]models.Book
	mutations   int // store writes attempted, to assert rejected calls never mutate
	failWrites  bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:       make(map[primitive.ObjectID]*models.User),
		bookRecords: make(map[string]models.Book),
	}
}

func (f *fakeStore) addUser(username, email string) *models.User {
	u := &models.User{
		ID:         primitive.NewObjectID(),
		Username:   username,
		Email:      email,
		Password:   "$2a$10$fakefakefakefakefakefakefakefakefakefakefakefakefakef",
		SavedBooks: []models.Book{},
		CreatedAt:  time.Now(),
	}
	f.users[u.ID] = u
	return u
}

func (f *fakeStore) UserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (f *fakeStore) UserByLogin(ctx context.Context, login string) (*models.User, error) {
	for _, u := range f.users {
		if u.Username == login || u.Email == login {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) CreateUser(ctx context.Context, user *models.User) (primitive.ObjectID, error) {
	f.mutations++
	for _, u := range f.users {
		if u.Username == user.Username || u.Email == user.Email {
			return primitive.NilObjectID, store.ErrDuplicateUser
		}
	}
	id := primitive.NewObjectID()
	cp := *user
	cp.ID = id
	f.users[id] = &cp
	return id, nil
}

func (f *fakeStore) ListUsers(ctx context.Context) ([]models.User, error) {
	out := make([]models.User, 0, len(f.users))
	for _, u := range f.users {
		out = append(out, *u)
	}
	return out, nil
}

func (f *fakeStore) AddSavedBook(ctx context.Context, id primitive.ObjectID, book models.Book) (*models.User, error) {
	f.mutations++
	if f.failWrites {
		return nil, errors.New("write failed")
	}
	u, ok := f.users[id]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	if !u.HasSavedBook(book.BookID) {
		u.SavedBooks = append(u.SavedBooks, book)
	}
	cp := *u
	return &cp, nil
}

func (f *fakeStore) RemoveSavedBook(ctx context.Context, id primitive.ObjectID, bookID string) (*models.User, error) {
	f.mutations++
	if f.failWrites {
		return nil, errors.New("write failed")
	}
	u, ok := f.users[id]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	kept := u.SavedBooks[:0]
	for _, b := range u.SavedBooks {
		if b.BookID != bookID {
			kept = append(kept, b)
		}
	}
	u.SavedBooks = kept
	cp := *u
	return &cp, nil
}

func (f *fakeStore) UpsertBook(ctx context.Context, book models.Book) error {
	if _, ok := f.bookRecords[book.BookID]; !ok {
		f.bookRecords[book.BookID] = book
	}
	return nil
}

// newTestRouter wires the handlers the same way main does.
func newTestRouter(fs *fakeStore) http.Handler {
	authHandler := &AuthHandler{DB: fs, JWTSecret: testSecret}
	usersHandler := &UsersHandler{DB: fs, JWTSecret: testSecret}
	savedHandler := &SavedHandler{DB: fs}

	r := chi.NewRouter()
	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/login", authHandler.Login)
		r.Post("/users", usersHandler.CreateUser)
		r.Get("/users", usersHandler.ListUsers)
		r.Get("/users/{id}", usersHandler.GetUser)
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(testSecret))
			r.Get("/me", savedHandler.Me)
			r.Put("/me/books", savedHandler.SaveBook)
			r.Delete("/me/books/{bookId}", savedHandler.DeleteBook)
		})
	})
	return r
}

func newTestServer(fs *fakeStore) *httptest.Server {
	return httptest.NewServer(newTestRouter(fs))
}

func bookFixture(id string) models.Book {
	return models.Book{BookID: id, Title: "Title " + id}
}

func tokenFor(u *models.User) string {
	token, err := createToken(testSecret, u)
	if err != nil {
		panic(err)
	}
	return token
}
