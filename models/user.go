package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type User struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Username   string             `bson:"username" json:"username"`
	Email      string             `bson:"email" json:"email"`
	Password   string             `bson:"password" json:"-"` // bcrypt hash
	SavedBooks []Book             `bson:"savedBooks" json:"savedBooks"`
	CreatedAt  time.Time          `bson:"createdAt" json:"createdAt"`
}

// BookCount is the derived cardinality of SavedBooks.
func (u *User) BookCount() int {
	return len(u.SavedBooks)
}

// HasSavedBook reports whether a book with the given catalog id is already
// in SavedBooks.
func (u *User) HasSavedBook(bookID string) bool {
	for i := range u.SavedBooks {
		if u.SavedBooks[i].BookID == bookID {
			return true
		}
	}
	return false
}
