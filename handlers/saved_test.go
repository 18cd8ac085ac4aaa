package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/JoseMCabreraT/Unit18-BookSearchEngine/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func doJSON(t *testing.T, method, url, token string, body interface{}) (*http.Response, []byte) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	var out bytes.Buffer
	_, err = out.ReadFrom(resp.Body)
	require.NoError(t, err)
	return resp, out.Bytes()
}

func decodeProjection(t *testing.T, raw []byte) Projection {
	t.Helper()
	var p Projection
	require.NoError(t, json.Unmarshal(raw, &p))
	return p
}

func TestSaveBookReturnsFullProjection(t *testing.T) {
	fs := newFakeStore()
	user := fs.addUser("ada", "ada@example.com")
	srv := newTestServer(fs)
	defer srv.Close()

	book := models.Book{BookID: "B1", Title: "T", Authors: []string{"A. Author"}}
	resp, raw := doJSON(t, http.MethodPut, srv.URL+"/api/me/books", tokenFor(user), book)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	p := decodeProjection(t, raw)
	assert.Equal(t, "ada", p.Username)
	require.Len(t, p.SavedBooks, 1)
	assert.Equal(t, "B1", p.SavedBooks[0].BookID)
	assert.Equal(t, 1, p.BookCount)

	// The response must equal the store's state at the moment of reply.
	stored := fs.users[user.ID]
	assert.Equal(t, stored.SavedBooks, p.SavedBooks)

	// Saving also records the standalone book.
	_, ok := fs.bookRecords["B1"]
	assert.True(t, ok)
}

func TestSaveBookSameIDIsIdempotent(t *testing.T) {
	fs := newFakeStore()
	user := fs.addUser("ada", "ada@example.com")
	srv := newTestServer(fs)
	defer srv.Close()
	token := tokenFor(user)

	first := models.Book{BookID: "B1", Title: "T"}
	resp, _ := doJSON(t, http.MethodPut, srv.URL+"/api/me/books", token, first)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// Same id, different metadata: no-op success, stored copy unchanged.
	second := models.Book{BookID: "B1", Title: "Different Title"}
	resp, raw := doJSON(t, http.MethodPut, srv.URL+"/api/me/books", token, second)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	p := decodeProjection(t, raw)
	require.Len(t, p.SavedBooks, 1)
	assert.Equal(t, "B1", p.SavedBooks[0].BookID)
	assert.Equal(t, "T", p.SavedBooks[0].Title)
}

func TestSaveBookUnauthenticatedNeverMutates(t *testing.T) {
	fs := newFakeStore()
	fs.addUser("ada", "ada@example.com")
	srv := newTestServer(fs)
	defer srv.Close()

	book := models.Book{BookID: "B1", Title: "T"}

	resp, _ := doJSON(t, http.MethodPut, srv.URL+"/api/me/books", "", book)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = doJSON(t, http.MethodPut, srv.URL+"/api/me/books", "not-a-token", book)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	assert.Equal(t, 0, fs.mutations, "rejected requests must not reach the store")
}

func TestSaveBookValidatesBeforeWrite(t *testing.T) {
	fs := newFakeStore()
	user := fs.addUser("ada", "ada@example.com")
	srv := newTestServer(fs)
	defer srv.Close()

	resp, _ := doJSON(t, http.MethodPut, srv.URL+"/api/me/books", tokenFor(user), models.Book{Title: "no id"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp, _ = doJSON(t, http.MethodPut, srv.URL+"/api/me/books", tokenFor(user), models.Book{BookID: "no-title"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, 0, fs.mutations)
}

func TestDeleteBookIdempotent(t *testing.T) {
	fs := newFakeStore()
	user := fs.addUser("ada", "ada@example.com")
	user.SavedBooks = []models.Book{{BookID: "B1", Title: "T"}}
	srv := newTestServer(fs)
	defer srv.Close()
	token := tokenFor(user)

	resp, raw := doJSON(t, http.MethodDelete, srv.URL+"/api/me/books/B1", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	p := decodeProjection(t, raw)
	assert.Empty(t, p.SavedBooks)

	// Second delete of the same id is a no-op success with the same state.
	resp, raw = doJSON(t, http.MethodDelete, srv.URL+"/api/me/books/B1", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, decodeProjection(t, raw).SavedBooks)
}

func TestDeleteAbsentBookIsNoOp(t *testing.T) {
	fs := newFakeStore()
	user := fs.addUser("ada", "ada@example.com")
	user.SavedBooks = []models.Book{{BookID: "B1", Title: "T"}}
	srv := newTestServer(fs)
	defer srv.Close()

	resp, raw := doJSON(t, http.MethodDelete, srv.URL+"/api/me/books/B2", tokenFor(user), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	p := decodeProjection(t, raw)
	require.Len(t, p.SavedBooks, 1)
	assert.Equal(t, "B1", p.SavedBooks[0].BookID)
}

func TestMutationsRejectUnknownIdentity(t *testing.T) {
	fs := newFakeStore()
	srv := newTestServer(fs)
	defer srv.Close()

	// Valid token for a user the store no longer knows.
	ghost := newFakeStore().addUser("ghost", "ghost@example.com")
	token := tokenFor(ghost)

	resp, _ := doJSON(t, http.MethodPut, srv.URL+"/api/me/books", token, models.Book{BookID: "B1", Title: "T"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp, _ = doJSON(t, http.MethodDelete, srv.URL+"/api/me/books/B1", token, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestStoreFailureSurfacesAsError(t *testing.T) {
	fs := newFakeStore()
	user := fs.addUser("ada", "ada@example.com")
	srv := newTestServer(fs)
	defer srv.Close()
	fs.failWrites = true

	resp, _ := doJSON(t, http.MethodPut, srv.URL+"/api/me/books", tokenFor(user), models.Book{BookID: "B1", Title: "T"})
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	resp, _ = doJSON(t, http.MethodDelete, srv.URL+"/api/me/books/B1", tokenFor(user), nil)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Empty(t, fs.users[user.ID].SavedBooks, "no partial mutation applied")
}

func TestMeReturnsCurrentProjection(t *testing.T) {
	fs := newFakeStore()
	user := fs.addUser("ada", "ada@example.com")
	user.SavedBooks = []models.Book{{BookID: "B1", Title: "T"}, {BookID: "B2", Title: "U"}}
	srv := newTestServer(fs)
	defer srv.Close()

	resp, raw := doJSON(t, http.MethodGet, srv.URL+"/api/me", tokenFor(user), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	p := decodeProjection(t, raw)
	assert.Equal(t, 2, p.BookCount)
	assert.Equal(t, user.SavedBooks, p.SavedBooks)
}
