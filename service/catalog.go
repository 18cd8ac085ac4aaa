package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/JoseMCabreraT/Unit18-BookSearchEngine/models"
)

const googleBooksBase = "https://www.googleapis.com/books/v1/volumes"

// Catalog searches the Google Books volumes API and normalizes results into
// Book values at the boundary. Volumes missing an id or title never enter
// the core.
type Catalog struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewCatalog returns a catalog client. baseURL may be empty to use the
// public Google Books endpoint. The short timeout keeps a slow or hung
// catalog from blocking the search handler.
func NewCatalog(baseURL string) *Catalog {
	if baseURL == "" {
		baseURL = googleBooksBase
	}
	return &Catalog{
		BaseURL:    baseURL,
		HTTPClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// volumesResp is the response from GET /volumes?q=...
type volumesResp struct {
	TotalItems int `json:"totalItems"`
	Items      []struct {
		ID         string `json:"id"`
		VolumeInfo struct {
			Title       string   `json:"title"`
			Subtitle    string   `json:"subtitle"`
			Authors     []string `json:"authors"`
			Description string   `json:"description"`
			InfoLink    string   `json:"infoLink"`
			ImageLinks  struct {
				SmallThumbnail string `json:"smallThumbnail"`
				Thumbnail      string `json:"thumbnail"`
			} `json:"imageLinks"`
		} `json:"volumeInfo"`
	} `json:"items"`
}

// Search runs a free-text query and returns zero or more candidate books.
// An empty result is a success, not an error.
func (c *Catalog) Search(ctx context.Context, query string) ([]models.Book, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("query is required")
	}
	q := url.Values{}
	q.Set("q", query)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("catalog returned %d", resp.StatusCode)
	}
	var data volumesResp
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("catalog response malformed: %w", err)
	}

	books := make([]models.Book, 0, len(data.Items))
	for _, item := range data.Items {
		vi := item.VolumeInfo
		book := models.Book{
			BookID:      item.ID,
			Title:       vi.Title,
			Authors:     vi.Authors,
			Description: strings.TrimSpace(vi.Description),
			Image:       secureImageURL(vi.ImageLinks.Thumbnail),
			Link:        vi.InfoLink,
		}
		if vi.Subtitle != "" {
			book.Title = book.Title + ": " + vi.Subtitle
		}
		if !book.Valid() {
			continue
		}
		books = append(books, book)
	}
	return books, nil
}

// secureImageURL upgrades Google Books thumbnail links, which are served
// over plain http, to https.
func secureImageURL(u string) string {
	if strings.HasPrefix(u, "http://") {
		return "https://" + strings.TrimPrefix(u, "http://")
	}
	return u
}
