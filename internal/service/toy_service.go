package service

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"toytopia/internal/domain"
	"toytopia/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrInvalidArgument  = errors.New("invalid argument")
	ErrToyNotFound      = repository.ErrToyNotFound
	ErrStoreUnavailable = repository.ErrStoreUnavailable
)

// SortOrder selects how a seller's toys are ordered by price
type SortOrder string

const (
	SortNone       SortOrder = ""
	SortAscending  SortOrder = "ascending"
	SortDescending SortOrder = "descending"
)

// ToyService defines the interface for toy business logic
type ToyService interface {
	ListToys(ctx context.Context) ([]*domain.Toy, error)
	SearchToys(ctx context.Context, text string) ([]*domain.Toy, error)
	ListCategories(ctx context.Context) ([]string, error)
	GetToy(ctx context.Context, id string) (*domain.Toy, error)
	ListSellerToys(ctx context.Context, email string, order SortOrder) ([]*domain.Toy, error)
	CreateToy(ctx context.Context, toy *domain.Toy) (*domain.InsertResult, error)
	DeleteToy(ctx context.Context, id string) (*domain.DeleteResult, error)
	ReplaceToy(ctx context.Context, id string, update domain.ToyUpdate) (*domain.UpdateResult, error)
	Ping(ctx context.Context) error
}

type toyService struct {
	toyRepo repository.ToyRepository
}

// NewToyService creates a new instance of ToyService
func NewToyService(toyRepo repository.ToyRepository) ToyService {
	return &toyService{toyRepo: toyRepo}
}

// ListToys returns the whole collection in store order
func (s *toyService) ListToys(ctx context.Context) ([]*domain.Toy, error) {
	return s.toyRepo.List(ctx)
}

// SearchToys returns toys whose title or category contains text as a
// literal, case-insensitive substring
func (s *toyService) SearchToys(ctx context.Context, text string) ([]*domain.Toy, error) {
	if text == "" {
		return nil, fmt.Errorf("%w: search text must not be empty", ErrInvalidArgument)
	}
	return s.toyRepo.Search(ctx, text)
}

// ListCategories returns each category once, in first-occurrence order
func (s *toyService) ListCategories(ctx context.Context) ([]string, error) {
	scanned, err := s.toyRepo.Categories(ctx)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(scanned))
	categories := []string{}
	for _, category := range scanned {
		if _, ok := seen[category]; ok {
			continue
		}
		seen[category] = struct{}{}
		categories = append(categories, category)
	}

	return categories, nil
}

// GetToy retrieves one toy; ErrToyNotFound when absent
func (s *toyService) GetToy(ctx context.Context, id string) (*domain.Toy, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	return s.toyRepo.FindByID(ctx, oid)
}

// ListSellerToys returns the toys owned by email, optionally ordered by
// price. Equal prices keep store order.
func (s *toyService) ListSellerToys(ctx context.Context, email string, order SortOrder) ([]*domain.Toy, error) {
	if email == "" {
		return nil, fmt.Errorf("%w: seller email must not be empty", ErrInvalidArgument)
	}

	toys, err := s.toyRepo.FindBySellerEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	switch order {
	case SortNone:
	case SortAscending:
		sort.SliceStable(toys, func(i, j int) bool { return toys[i].Price < toys[j].Price })
	case SortDescending:
		sort.SliceStable(toys, func(i, j int) bool { return toys[i].Price > toys[j].Price })
	default:
		return nil, fmt.Errorf("%w: unknown sort order %q", ErrInvalidArgument, order)
	}

	return toys, nil
}

// CreateToy inserts a toy; any identifier on the input is ignored
func (s *toyService) CreateToy(ctx context.Context, toy *domain.Toy) (*domain.InsertResult, error) {
	if toy == nil {
		return nil, fmt.Errorf("%w: toy must not be nil", ErrInvalidArgument)
	}
	return s.toyRepo.Create(ctx, toy)
}

// DeleteToy removes a toy; deleting a missing toy reports zero deletions
func (s *toyService) DeleteToy(ctx context.Context, id string) (*domain.DeleteResult, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	return s.toyRepo.Delete(ctx, oid)
}

// ReplaceToy overwrites the mutable fields of a toy, creating it under the
// requested identifier when it does not exist. The seller never changes.
func (s *toyService) ReplaceToy(ctx context.Context, id string, update domain.ToyUpdate) (*domain.UpdateResult, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	return s.toyRepo.Upsert(ctx, oid, update)
}

func (s *toyService) Ping(ctx context.Context) error {
	return s.toyRepo.Ping(ctx)
}

func parseID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: malformed toy id %q", ErrInvalidArgument, id)
	}
	return oid, nil
}
