package store

import (
	"context"
	"time"

	"github.com/JoseMCabreraT/Unit18-BookSearchEngine/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// UpsertBook records a standalone copy of a saved book, one document per
// bookId. $setOnInsert keeps the first-saved copy; later saves of the same
// id leave it untouched, matching the keep-original rule for savedBooks.
func (db *DB) UpsertBook(ctx context.Context, book models.Book) error {
	rec := models.BookRecord{Book: book, CreatedAt: time.Now()}
	_, err := db.Books().UpdateOne(ctx,
		bson.M{"bookId": book.BookID},
		bson.M{"$setOnInsert": rec},
		options.Update().SetUpsert(true),
	)
	return err
}

// AllBooks returns every standalone book record, newest first. This is the
// administrative listing; it is not scoped to a user.
func (db *DB) AllBooks(ctx context.Context) ([]models.BookRecord, error) {
	cur, err := db.Books().Find(ctx, bson.M{}, options.Find().SetSort(bson.M{"createdAt": -1}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var books []models.BookRecord
	if err := cur.All(ctx, &books); err != nil {
		return nil, err
	}
	return books, nil
}
