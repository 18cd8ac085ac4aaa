package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/JoseMCabreraT/Unit18-BookSearchEngine/models"
	"github.com/JoseMCabreraT/Unit18-BookSearchEngine/store"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) (primitive.ObjectID, error)
	UserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)
}

type UsersHandler struct {
	DB        UserStore
	JWTSecret string
}

type CreateUserRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserResponse is the public user shape: password never leaves the store,
// bookCount is derived.
type UserResponse struct {
	ID         string        `json:"id"`
	Username   string        `json:"username"`
	Email      string        `json:"email"`
	SavedBooks []models.Book `json:"savedBooks"`
	BookCount  int           `json:"bookCount"`
	CreatedAt  string        `json:"createdAt"`
}

func userToResponse(u *models.User) UserResponse {
	books := u.SavedBooks
	if books == nil {
		books = []models.Book{}
	}
	return UserResponse{
		ID:         u.ID.Hex(),
		Username:   u.Username,
		Email:      u.Email,
		SavedBooks: books,
		BookCount:  u.BookCount(),
		CreatedAt:  u.CreatedAt.Format(time.RFC3339),
	}
}

// CreateUser registers a new account with an empty saved list. Duplicate
// username or email is rejected before any other write happens.
func (h *UsersHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid json"}`, http.StatusBadRequest)
		return
	}
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if req.Username == "" || req.Email == "" || req.Password == "" {
		http.Error(w, `{"error":"username, email and password required"}`, http.StatusBadRequest)
		return
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		http.Error(w, `{"error":"failed to create user"}`, http.StatusInternalServerError)
		return
	}
	user := &models.User{
		Username:   req.Username,
		Email:      req.Email,
		Password:   string(hash),
		SavedBooks: []models.Book{},
		CreatedAt:  time.Now(),
	}
	id, err := h.DB.CreateUser(r.Context(), user)
	if errors.Is(err, store.ErrDuplicateUser) {
		http.Error(w, `{"error":"username or email already in use"}`, http.StatusConflict)
		return
	}
	if err != nil {
		http.Error(w, `{"error":"failed to create user"}`, http.StatusInternalServerError)
		return
	}
	user.ID = id

	token, err := createToken(h.JWTSecret, user)
	if err != nil {
		http.Error(w, `{"error":"could not create token"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(AuthResponse{Token: token, User: userToResponse(user)})
}

// ListUsers returns all users (administrative path).
func (h *UsersHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.DB.ListUsers(r.Context())
	if err != nil {
		http.Error(w, `{"error":"failed to list users"}`, http.StatusInternalServerError)
		return
	}
	out := make([]UserResponse, 0, len(users))
	for i := range users {
		out = append(out, userToResponse(&users[i]))
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(out)
}

// GetUser returns the user with the given id. An unknown id is a miss at
// the store; only here does it become a 404.
func (h *UsersHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, `{"error":"invalid user id"}`, http.StatusBadRequest)
		return
	}
	user, err := h.DB.UserByID(r.Context(), id)
	if err != nil {
		http.Error(w, `{"error":"failed to load user"}`, http.StatusInternalServerError)
		return
	}
	if user == nil {
		http.Error(w, `{"error":"user not found"}`, http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(userToResponse(user))
}
