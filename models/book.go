package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Book is the catalog-sourced value a user saves. BookID is the stable
// identifier assigned by the catalog provider, not the storage _id.
// A Book is immutable once fetched; re-saving the same BookID never
// rewrites the stored copy.
type Book struct {
	BookID      string   `bson:"bookId" json:"bookId"`
	Title       string   `bson:"title" json:"title"`
	Authors     []string `bson:"authors,omitempty" json:"authors,omitempty"`
	Description string   `bson:"description,omitempty" json:"description,omitempty"`
	Image       string   `bson:"image,omitempty" json:"image,omitempty"`
	Link        string   `bson:"link,omitempty" json:"link,omitempty"`
}

// Valid reports whether the book carries the fields required before it may
// enter the store.
func (b *Book) Valid() bool {
	return b.BookID != "" && b.Title != ""
}

// BookRecord is a standalone copy of a Book kept in the books collection,
// one per distinct BookID ever saved. Serves the administrative listing.
type BookRecord struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Book      `bson:",inline"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}
