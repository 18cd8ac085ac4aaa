package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/JoseMCabreraT/Unit18-BookSearchEngine/config"
	"github.com/JoseMCabreraT/Unit18-BookSearchEngine/handlers"
	"github.com/JoseMCabreraT/Unit18-BookSearchEngine/middleware"
	"github.com/JoseMCabreraT/Unit18-BookSearchEngine/service"
	"github.com/JoseMCabreraT/Unit18-BookSearchEngine/store"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("config:", err)
	}
	if cfg.JWTSecret == "change-me-in-production" {
		log.Println("warning: JWT_SECRET not set; using the default secret")
	}

	ctx := context.Background()
	db, err := store.NewMongoDB(ctx, cfg.MongoURI, cfg.DBName)
	if err != nil {
		log.Fatal("mongodb:", err)
	}
	defer func() {
		if err := db.Disconnect(context.Background()); err != nil {
			log.Println("mongodb disconnect:", err)
		}
	}()

	catalog := service.NewCatalog(cfg.GoogleBooksURL)

	authHandler := &handlers.AuthHandler{DB: db, JWTSecret: cfg.JWTSecret}
	usersHandler := &handlers.UsersHandler{DB: db, JWTSecret: cfg.JWTSecret}
	booksHandler := &handlers.BooksHandler{DB: db, Catalog: catalog}
	savedHandler := &handlers.SavedHandler{DB: db}

	r := chi.NewRouter()
	r.Use(middleware.AllowAll())
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.RealIP)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/login", authHandler.Login)
		r.Post("/users", usersHandler.CreateUser)
		r.Get("/users", usersHandler.ListUsers)
		r.Get("/users/{id}", usersHandler.GetUser)
		r.Get("/books", booksHandler.List)
		r.Get("/books/search", booksHandler.Search)
		// Saved-books mutations require a valid identity; the middleware
		// rejects before any store write is attempted.
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWTSecret))
			r.Get("/me", savedHandler.Me)
			r.Put("/me/books", savedHandler.SaveBook)
			r.Delete("/me/books/{bookId}", savedHandler.DeleteBook)
		})
	})

	server := &http.Server{Addr: ":" + cfg.Port, Handler: r}
	go func() {
		log.Println("server listening on :" + cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal(err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Println("shutdown:", err)
	}
}
