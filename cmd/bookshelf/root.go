package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/JoseMCabreraT/Unit18-BookSearchEngine/client"
	"github.com/JoseMCabreraT/Unit18-BookSearchEngine/models"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var serverURL string

var rootCmd = &cobra.Command{
	Use:           "bookshelf",
	Short:         "Search a book catalog and manage your saved books",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	_ = godotenv.Load()
	defaultServer := os.Getenv("BOOKSHELF_SERVER")
	if defaultServer == "" {
		defaultServer = "http://localhost:8080"
	}
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", defaultServer, "book search server URL")
}

func configDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	dir := filepath.Join(base, "bookshelf")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	return dir, nil
}

// openShelf restores the device state: bearer token, SQLite-backed id
// index, and the candidates from the last search.
func openShelf() (*client.Shelf, *client.API, func(), error) {
	dir, err := configDir()
	if err != nil {
		return nil, nil, nil, err
	}
	api := client.NewAPI(strings.TrimRight(serverURL, "/"))
	if token, err := os.ReadFile(filepath.Join(dir, "token")); err == nil {
		api.Token = strings.TrimSpace(string(token))
	}
	store, err := client.OpenIndexStore(filepath.Join(dir, "saved_books.db"))
	if err != nil {
		return nil, nil, nil, err
	}
	shelf, err := client.NewShelf(api, store)
	if err != nil {
		store.Close()
		return nil, nil, nil, err
	}
	if books, err := loadCandidates(dir); err == nil {
		shelf.RestoreCandidates(books)
	}
	closer := func() { store.Close() }
	return shelf, api, closer, nil
}

func saveToken(token string) error {
	dir, err := configDir()
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, "token"), []byte(token), 0o600)
}

func clearToken() error {
	dir, err := configDir()
	if err != nil {
		return err
	}
	err = os.Remove(filepath.Join(dir, "token"))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

func loadCandidates(dir string) ([]models.Book, error) {
	raw, err := os.ReadFile(filepath.Join(dir, "last_search.json"))
	if err != nil {
		return nil, err
	}
	var books []models.Book
	if err := json.Unmarshal(raw, &books); err != nil {
		return nil, err
	}
	return books, nil
}

func saveCandidates(books []models.Book) error {
	dir, err := configDir()
	if err != nil {
		return err
	}
	raw, err := json.Marshal(books)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, "last_search.json"), raw, 0o644)
}

func printBook(b models.Book, saved bool) {
	marker := " "
	if saved {
		marker = "*"
	}
	fmt.Printf("%s %s  %s\n", marker, b.BookID, b.Title)
	if len(b.Authors) > 0 {
		fmt.Printf("    by %s\n", strings.Join(b.Authors, ", "))
	}
}
