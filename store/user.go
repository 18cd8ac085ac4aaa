package store

import (
	"context"

	"github.com/JoseMCabreraT/Unit18-BookSearchEngine/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (db *DB) UserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var u models.User
	err := db.Users().FindOne(ctx, bson.M{"_id": id}).Decode(&u)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// UserByLogin looks a user up by username or email. A miss is a nil user,
// not an error.
func (db *DB) UserByLogin(ctx context.Context, login string) (*models.User, error) {
	var u models.User
	filter := bson.M{"$or": bson.A{bson.M{"username": login}, bson.M{"email": login}}}
	err := db.Users().FindOne(ctx, filter).Decode(&u)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (db *DB) CreateUser(ctx context.Context, user *models.User) (primitive.ObjectID, error) {
	if user.SavedBooks == nil {
		user.SavedBooks = []models.Book{}
	}
	res, err := db.Users().InsertOne(ctx, user)
	if mongo.IsDuplicateKeyError(err) {
		return primitive.NilObjectID, ErrDuplicateUser
	}
	if err != nil {
		return primitive.NilObjectID, err
	}
	return res.InsertedID.(primitive.ObjectID), nil
}

func (db *DB) ListUsers(ctx context.Context) ([]models.User, error) {
	cur, err := db.Users().Find(ctx, bson.M{}, options.Find().SetSort(bson.M{"createdAt": 1}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var users []models.User
	if err := cur.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// AddSavedBook appends book to the user's savedBooks unless an entry with
// the same bookId is already there. The guard lives in the filter so the
// check and the push are one atomic operation; concurrent saves for the
// same user cannot interleave into a duplicate or a lost update. Re-saving
// an existing bookId keeps the stored copy unchanged and succeeds as a
// no-op, returning the current user.
func (db *DB) AddSavedBook(ctx context.Context, id primitive.ObjectID, book models.Book) (*models.User, error) {
	filter := bson.M{"_id": id, "savedBooks.bookId": bson.M{"$ne": book.BookID}}
	update := bson.M{"$push": bson.M{"savedBooks": book}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var u models.User
	err := db.Users().FindOneAndUpdate(ctx, filter, update, opts).Decode(&u)
	if err == nil {
		return &u, nil
	}
	if err != mongo.ErrNoDocuments {
		return nil, err
	}
	// Filter missed: either the book is already saved or the user does
	// not exist. Tell the two apart with a plain lookup.
	existing, err := db.UserByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, ErrUserNotFound
	}
	return existing, nil
}

// RemoveSavedBook pulls the entry with the given bookId. Removing an id
// that is not there is a no-op success; the returned user always reflects
// the state after the operation.
func (db *DB) RemoveSavedBook(ctx context.Context, id primitive.ObjectID, bookID string) (*models.User, error) {
	filter := bson.M{"_id": id}
	update := bson.M{"$pull": bson.M{"savedBooks": bson.M{"bookId": bookID}}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var u models.User
	err := db.Users().FindOneAndUpdate(ctx, filter, update, opts).Decode(&u)
	if err == mongo.ErrNoDocuments {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}
