package repository

import (
	"context"
	"strings"
	"sync"

	"toytopia/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemoryToyRepository keeps toys in insertion order in memory. Data is lost
// on restart. Safe for concurrent use.
type MemoryToyRepository struct {
	mu   sync.RWMutex
	toys []domain.Toy
}

// NewMemoryToyRepository creates an empty in-memory repository
func NewMemoryToyRepository() *MemoryToyRepository {
	return &MemoryToyRepository{}
}

func (m *MemoryToyRepository) List(ctx context.Context) ([]*domain.Toy, error) {
	return m.filter(func(*domain.Toy) bool { return true }), nil
}

func (m *MemoryToyRepository) Search(ctx context.Context, text string) ([]*domain.Toy, error) {
	needle := strings.ToLower(text)
	return m.filter(func(t *domain.Toy) bool {
		return strings.Contains(strings.ToLower(t.Title), needle) ||
			strings.Contains(strings.ToLower(t.Category), needle)
	}), nil
}

func (m *MemoryToyRepository) Categories(ctx context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	categories := make([]string, 0, len(m.toys))
	for i := range m.toys {
		categories = append(categories, m.toys[i].Category)
	}
	return categories, nil
}

func (m *MemoryToyRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*domain.Toy, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	i := m.indexOf(id)
	if i < 0 {
		return nil, ErrToyNotFound
	}
	toy := m.toys[i]
	return &toy, nil
}

func (m *MemoryToyRepository) FindBySellerEmail(ctx context.Context, email string) ([]*domain.Toy, error) {
	return m.filter(func(t *domain.Toy) bool { return t.SellerEmail == email }), nil
}

func (m *MemoryToyRepository) Create(ctx context.Context, toy *domain.Toy) (*domain.InsertResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored := *toy
	stored.ID = primitive.NewObjectID()
	m.toys = append(m.toys, stored)

	return &domain.InsertResult{Acknowledged: true, InsertedID: stored.ID}, nil
}

func (m *MemoryToyRepository) Delete(ctx context.Context, id primitive.ObjectID) (*domain.DeleteResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.indexOf(id)
	if i < 0 {
		return &domain.DeleteResult{Acknowledged: true}, nil
	}
	m.toys = append(m.toys[:i], m.toys[i+1:]...)

	return &domain.DeleteResult{Acknowledged: true, DeletedCount: 1}, nil
}

func (m *MemoryToyRepository) Upsert(ctx context.Context, id primitive.ObjectID, update domain.ToyUpdate) (*domain.UpdateResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.indexOf(id)
	if i < 0 {
		toy := domain.Toy{ID: id}
		update.Apply(&toy)
		m.toys = append(m.toys, toy)
		return &domain.UpdateResult{Acknowledged: true, UpsertedCount: 1, UpsertedID: &id}, nil
	}

	before := m.toys[i]
	update.Apply(&m.toys[i])

	result := &domain.UpdateResult{Acknowledged: true, MatchedCount: 1}
	if m.toys[i] != before {
		result.ModifiedCount = 1
	}
	return result, nil
}

func (m *MemoryToyRepository) Ping(ctx context.Context) error {
	return nil
}

func (m *MemoryToyRepository) Close(ctx context.Context) error {
	return nil
}

// indexOf must be called with mu held
func (m *MemoryToyRepository) indexOf(id primitive.ObjectID) int {
	for i := range m.toys {
		if m.toys[i].ID == id {
			return i
		}
	}
	return -1
}

func (m *MemoryToyRepository) filter(keep func(*domain.Toy) bool) []*domain.Toy {
	m.mu.RLock()
	defer m.mu.RUnlock()

	toys := []*domain.Toy{}
	for i := range m.toys {
		if keep(&m.toys[i]) {
			toy := m.toys[i]
			toys = append(toys, &toy)
		}
	}
	return toys
}
