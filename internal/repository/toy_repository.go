package repository

import (
	"context"
	"errors"

	"toytopia/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrToyNotFound      = errors.New("toy not found")
	ErrStoreUnavailable = errors.New("toy store unavailable")
)

// ToyRepository defines the interface for toy data access.
// Every method is a single round trip to the backing store.
type ToyRepository interface {
	// List returns every toy in store order.
	List(ctx context.Context) ([]*domain.Toy, error)

	// Search returns toys whose title or category contains text,
	// case-insensitively. text is matched literally.
	Search(ctx context.Context, text string) ([]*domain.Toy, error)

	// Categories returns the category of every toy in store order,
	// duplicates included.
	Categories(ctx context.Context) ([]string, error)

	// FindByID returns ErrToyNotFound when no toy has the identifier.
	FindByID(ctx context.Context, id primitive.ObjectID) (*domain.Toy, error)

	// FindBySellerEmail returns the toys owned by email in store order.
	FindBySellerEmail(ctx context.Context, email string) ([]*domain.Toy, error)

	// Create inserts toy and lets the store assign its identifier.
	Create(ctx context.Context, toy *domain.Toy) (*domain.InsertResult, error)

	// Delete removes the toy with the identifier, if any.
	Delete(ctx context.Context, id primitive.ObjectID) (*domain.DeleteResult, error)

	// Upsert replaces the mutable fields of the toy with the identifier, or
	// inserts a new toy carrying that identifier when none exists.
	Upsert(ctx context.Context, id primitive.ObjectID, update domain.ToyUpdate) (*domain.UpdateResult, error)

	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}
