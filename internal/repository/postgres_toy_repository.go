package repository

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"
	"strings"

	"toytopia/internal/domain"

	"github.com/jackc/pgx/v5/pgconn"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const toyColumns = `id, title, category, image, price, rating, quantity, description, seller_email`

type postgresToyRepository struct {
	db *sql.DB
}

// NewPostgresToyRepository creates a ToyRepository backed by the toys table.
// Store order is insertion order, kept by the seq column.
func NewPostgresToyRepository(db *sql.DB) ToyRepository {
	return &postgresToyRepository{db: db}
}

// List retrieves every toy in insertion order
func (r *postgresToyRepository) List(ctx context.Context) ([]*domain.Toy, error) {
	query := `SELECT ` + toyColumns + ` FROM toys ORDER BY seq`

	return r.query(ctx, "list toys", query)
}

// Search uses ILIKE with LIKE wildcards escaped so the text matches literally
func (r *postgresToyRepository) Search(ctx context.Context, text string) ([]*domain.Toy, error) {
	query := `
		SELECT ` + toyColumns + `
		FROM toys
		WHERE title ILIKE $1 OR category ILIKE $1
		ORDER BY seq
	`

	return r.query(ctx, "search toys", query, "%"+escapeLike(text)+"%")
}

// Categories returns the category column of every row in insertion order
func (r *postgresToyRepository) Categories(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT category FROM toys ORDER BY seq`)
	if err != nil {
		return nil, wrapPostgresError("list categories", err)
	}
	defer rows.Close()

	categories := []string{}
	for rows.Next() {
		var category string
		if err := rows.Scan(&category); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, category)
	}

	if err := rows.Err(); err != nil {
		return nil, wrapPostgresError("iterate categories", err)
	}

	return categories, nil
}

// FindByID retrieves a toy by ID using parameterized queries
func (r *postgresToyRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*domain.Toy, error) {
	query := `SELECT ` + toyColumns + ` FROM toys WHERE id = $1`

	toy, err := scanToy(r.db.QueryRowContext(ctx, query, id.Hex()))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrToyNotFound
		}
		return nil, wrapPostgresError("find toy by ID", err)
	}

	return toy, nil
}

// FindBySellerEmail retrieves toys owned by email in insertion order
func (r *postgresToyRepository) FindBySellerEmail(ctx context.Context, email string) ([]*domain.Toy, error) {
	query := `SELECT ` + toyColumns + ` FROM toys WHERE seller_email = $1 ORDER BY seq`

	return r.query(ctx, "find toys by seller", query, email)
}

// Create inserts a toy under a freshly generated ObjectID
func (r *postgresToyRepository) Create(ctx context.Context, toy *domain.Toy) (*domain.InsertResult, error) {
	id := primitive.NewObjectID()
	query := `
		INSERT INTO toys (` + toyColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.db.ExecContext(
		ctx,
		query,
		id.Hex(),
		toy.Title,
		toy.Category,
		toy.Image,
		toy.Price,
		toy.Rating,
		toy.Quantity,
		toy.Description,
		toy.SellerEmail,
	)
	if err != nil {
		return nil, wrapPostgresError("create toy", err)
	}

	return &domain.InsertResult{Acknowledged: true, InsertedID: id}, nil
}

// Delete removes a toy by ID using parameterized queries
func (r *postgresToyRepository) Delete(ctx context.Context, id primitive.ObjectID) (*domain.DeleteResult, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM toys WHERE id = $1`, id.Hex())
	if err != nil {
		return nil, wrapPostgresError("delete toy", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return &domain.DeleteResult{Acknowledged: true, DeletedCount: rowsAffected}, nil
}

// Upsert inserts or updates in one statement. The conflict branch only
// writes when a value differs, so an identical update returns no row and
// counts as matched but unmodified. xmax = 0 marks a freshly inserted row.
func (r *postgresToyRepository) Upsert(ctx context.Context, id primitive.ObjectID, update domain.ToyUpdate) (*domain.UpdateResult, error) {
	query := `
		INSERT INTO toys (id, title, category, image, price, rating, quantity, description)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE
		SET title = EXCLUDED.title, category = EXCLUDED.category, image = EXCLUDED.image,
		    price = EXCLUDED.price, rating = EXCLUDED.rating, quantity = EXCLUDED.quantity,
		    description = EXCLUDED.description
		WHERE (toys.title, toys.category, toys.image, toys.price, toys.rating, toys.quantity, toys.description)
		      IS DISTINCT FROM
		      (EXCLUDED.title, EXCLUDED.category, EXCLUDED.image, EXCLUDED.price, EXCLUDED.rating, EXCLUDED.quantity, EXCLUDED.description)
		RETURNING (xmax = 0) AS inserted
	`

	var inserted bool
	err := r.db.QueryRowContext(
		ctx,
		query,
		id.Hex(),
		update.Title,
		update.Category,
		update.Image,
		update.Price,
		update.Rating,
		update.Quantity,
		update.Description,
	).Scan(&inserted)

	switch {
	case errors.Is(err, sql.ErrNoRows):
		return &domain.UpdateResult{Acknowledged: true, MatchedCount: 1}, nil
	case err != nil:
		return nil, wrapPostgresError("upsert toy", err)
	case inserted:
		return &domain.UpdateResult{Acknowledged: true, UpsertedCount: 1, UpsertedID: &id}, nil
	default:
		return &domain.UpdateResult{Acknowledged: true, MatchedCount: 1, ModifiedCount: 1}, nil
	}
}

func (r *postgresToyRepository) Ping(ctx context.Context) error {
	if err := r.db.PingContext(ctx); err != nil {
		return wrapPostgresError("ping postgres", err)
	}
	return nil
}

func (r *postgresToyRepository) Close(ctx context.Context) error {
	if err := r.db.Close(); err != nil {
		return fmt.Errorf("failed to close postgres connection: %w", err)
	}
	return nil
}

func (r *postgresToyRepository) query(ctx context.Context, op, query string, args ...interface{}) ([]*domain.Toy, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, wrapPostgresError(op, err)
	}
	defer rows.Close()

	toys := []*domain.Toy{}
	for rows.Next() {
		toy, err := scanToy(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan toy: %w", err)
		}
		toys = append(toys, toy)
	}

	if err := rows.Err(); err != nil {
		return nil, wrapPostgresError(op, err)
	}

	return toys, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanToy(row rowScanner) (*domain.Toy, error) {
	var hexID string
	toy := &domain.Toy{}
	err := row.Scan(
		&hexID,
		&toy.Title,
		&toy.Category,
		&toy.Image,
		&toy.Price,
		&toy.Rating,
		&toy.Quantity,
		&toy.Description,
		&toy.SellerEmail,
	)
	if err != nil {
		return nil, err
	}

	toy.ID, err = primitive.ObjectIDFromHex(hexID)
	if err != nil {
		return nil, fmt.Errorf("stored toy id %q is not an ObjectID: %w", hexID, err)
	}

	return toy, nil
}

// escapeLike escapes the LIKE wildcards and the default escape character
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func wrapPostgresError(op string, err error) error {
	if isPostgresUnavailable(err) {
		return fmt.Errorf("failed to %s: %w: %w", op, ErrStoreUnavailable, err)
	}
	return fmt.Errorf("failed to %s: %w", op, err)
}

func isPostgresUnavailable(err error) bool {
	var connectErr *pgconn.ConnectError
	var netErr net.Error
	switch {
	case errors.As(err, &connectErr), errors.As(err, &netErr):
		return true
	case errors.Is(err, driver.ErrBadConn), errors.Is(err, sql.ErrConnDone):
		return true
	case errors.Is(err, context.DeadlineExceeded):
		return true
	}
	return pgconn.Timeout(err)
}
