// Package client keeps a device's view of the saved-books list consistent
// with the server: a query cache overwritten from mutation responses, a
// local id index persisted across sessions, and the API calls that feed
// both.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/JoseMCabreraT/Unit18-BookSearchEngine/handlers"
	"github.com/JoseMCabreraT/Unit18-BookSearchEngine/models"
)

// API is a thin HTTP client for the book search server. Token may be empty
// for unauthenticated browsing; mutations require it.
type API struct {
	BaseURL    string
	Token      string
	HTTPClient *http.Client
}

func NewAPI(baseURL string) *API {
	return &API{
		BaseURL:    baseURL,
		HTTPClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// Authenticated reports whether the client holds a bearer credential. It
// says nothing about whether the server would still accept it.
func (a *API) Authenticated() bool {
	return a.Token != ""
}

type loginRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (a *API) Login(ctx context.Context, login, password string) (*handlers.AuthResponse, error) {
	var out handlers.AuthResponse
	err := a.do(ctx, http.MethodPost, "/api/auth/login", loginRequest{Login: login, Password: password}, &out)
	if err != nil {
		return nil, err
	}
	a.Token = out.Token
	return &out, nil
}

func (a *API) Register(ctx context.Context, username, email, password string) (*handlers.AuthResponse, error) {
	var out handlers.AuthResponse
	err := a.do(ctx, http.MethodPost, "/api/users", registerRequest{Username: username, Email: email, Password: password}, &out)
	if err != nil {
		return nil, err
	}
	a.Token = out.Token
	return &out, nil
}

func (a *API) Search(ctx context.Context, query string) ([]models.Book, error) {
	var out []models.Book
	path := "/api/books/search?q=" + url.QueryEscape(query)
	if err := a.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (a *API) Me(ctx context.Context) (*handlers.Projection, error) {
	var out handlers.Projection
	if err := a.do(ctx, http.MethodGet, "/api/me", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *API) SaveBook(ctx context.Context, book models.Book) (*handlers.Projection, error) {
	var out handlers.Projection
	if err := a.do(ctx, http.MethodPut, "/api/me/books", book, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *API) DeleteBook(ctx context.Context, bookID string) (*handlers.Projection, error) {
	var out handlers.Projection
	path := "/api/me/books/" + url.PathEscape(bookID)
	if err := a.do(ctx, http.MethodDelete, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

type apiError struct {
	Error string `json:"error"`
}

func (a *API) do(ctx context.Context, method, path string, body, out interface{}) error {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return err
		}
	}
	req, err := http.NewRequestWithContext(ctx, method, a.BaseURL+path, &buf)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if a.Token != "" {
		req.Header.Set("Authorization", "Bearer "+a.Token)
	}
	resp, err := a.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var apiErr apiError
		if json.NewDecoder(resp.Body).Decode(&apiErr) == nil && apiErr.Error != "" {
			return fmt.Errorf("server: %s (status %d)", apiErr.Error, resp.StatusCode)
		}
		return fmt.Errorf("server returned status %d", resp.StatusCode)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
