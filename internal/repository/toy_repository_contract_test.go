package repository

import (
	"context"
	"strings"
	"testing"

	"toytopia/internal/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// runToyRepositoryTests runs a common test suite against any ToyRepository.
// Every subtest tags its data with a fresh suffix so the suite also works
// against a shared, non-empty store.
func runToyRepositoryTests(t *testing.T, repo ToyRepository) {
	t.Helper()
	ctx := context.Background()

	create := func(t *testing.T, toy domain.Toy) primitive.ObjectID {
		t.Helper()
		res, err := repo.Create(ctx, &toy)
		require.NoError(t, err)
		require.True(t, res.Acknowledged)
		require.False(t, res.InsertedID.IsZero())
		return res.InsertedID
	}

	t.Run("Create and FindByID", func(t *testing.T) {
		toy := domain.Toy{
			Title:       "Red Car",
			Category:    "Cars",
			Image:       "https://example.com/red-car.png",
			Price:       10.5,
			Rating:      4.5,
			Quantity:    3,
			Description: "A fast red car",
			SellerEmail: uuid.NewString() + "@example.com",
		}

		id := create(t, toy)

		got, err := repo.FindByID(ctx, id)
		require.NoError(t, err)

		toy.ID = id
		assert.Equal(t, toy, *got)
	})

	t.Run("Create ignores a client identifier", func(t *testing.T) {
		clientID := primitive.NewObjectID()
		id := create(t, domain.Toy{ID: clientID, Title: "Kite"})

		assert.NotEqual(t, clientID, id)
	})

	t.Run("FindByID missing", func(t *testing.T) {
		_, err := repo.FindByID(ctx, primitive.NewObjectID())
		assert.ErrorIs(t, err, ErrToyNotFound)
	})

	t.Run("List keeps store order", func(t *testing.T) {
		tag := uuid.NewString()
		first := create(t, domain.Toy{Title: "first " + tag})
		second := create(t, domain.Toy{Title: "second " + tag})

		toys, err := repo.List(ctx)
		require.NoError(t, err)

		positions := map[primitive.ObjectID]int{}
		for i, toy := range toys {
			positions[toy.ID] = i
		}
		require.Contains(t, positions, first)
		require.Contains(t, positions, second)
		assert.Less(t, positions[first], positions[second])
	})

	t.Run("Search is case-insensitive over title and category", func(t *testing.T) {
		tag := uuid.NewString()
		byTitle := create(t, domain.Toy{Title: "Race Car " + tag, Category: "Vehicles"})
		byCategory := create(t, domain.Toy{Title: "Doll", Category: "Figures " + tag})
		create(t, domain.Toy{Title: "Unrelated", Category: "Other"})

		toys, err := repo.Search(ctx, strings.ToUpper(tag))
		require.NoError(t, err)

		assert.ElementsMatch(t, []primitive.ObjectID{byTitle, byCategory}, ids(toys))
	})

	t.Run("Search treats pattern characters literally", func(t *testing.T) {
		tag := uuid.NewString()
		literal := create(t, domain.Toy{Title: "R.ce C*r (" + tag + ") 100%_off"})
		create(t, domain.Toy{Title: "Race Car (" + tag + ") 1000xoff"})

		for _, text := range []string{"r.ce c*r (" + tag, tag + ") 100%_off"} {
			toys, err := repo.Search(ctx, text)
			require.NoError(t, err, text)
			assert.Equal(t, []primitive.ObjectID{literal}, ids(toys), text)
		}
	})

	t.Run("Search without match is empty, not nil", func(t *testing.T) {
		toys, err := repo.Search(ctx, uuid.NewString())
		require.NoError(t, err)
		assert.NotNil(t, toys)
		assert.Empty(t, toys)
	})

	t.Run("Categories keep duplicates in store order", func(t *testing.T) {
		tag := uuid.NewString()
		for _, c := range []string{"A", "B", "A"} {
			create(t, domain.Toy{Title: "toy", Category: c + "-" + tag})
		}

		categories, err := repo.Categories(ctx)
		require.NoError(t, err)

		var tagged []string
		for _, c := range categories {
			if strings.HasSuffix(c, tag) {
				tagged = append(tagged, strings.TrimSuffix(c, "-"+tag))
			}
		}
		assert.Equal(t, []string{"A", "B", "A"}, tagged)
	})

	t.Run("FindBySellerEmail is exact", func(t *testing.T) {
		seller := uuid.NewString() + "@example.com"
		a := create(t, domain.Toy{Title: "a", SellerEmail: seller})
		b := create(t, domain.Toy{Title: "b", SellerEmail: seller})
		create(t, domain.Toy{Title: "c", SellerEmail: "other-" + seller})
		create(t, domain.Toy{Title: "d", SellerEmail: strings.ToUpper(seller)})

		toys, err := repo.FindBySellerEmail(ctx, seller)
		require.NoError(t, err)
		assert.Equal(t, []primitive.ObjectID{a, b}, ids(toys))
	})

	t.Run("Delete reports what it removed", func(t *testing.T) {
		id := create(t, domain.Toy{Title: "Yo-yo"})

		res, err := repo.Delete(ctx, id)
		require.NoError(t, err)
		assert.True(t, res.Acknowledged)
		assert.EqualValues(t, 1, res.DeletedCount)

		res, err = repo.Delete(ctx, id)
		require.NoError(t, err)
		assert.EqualValues(t, 0, res.DeletedCount)

		_, err = repo.FindByID(ctx, id)
		assert.ErrorIs(t, err, ErrToyNotFound)
	})

	t.Run("Upsert replaces mutable fields and keeps seller", func(t *testing.T) {
		seller := uuid.NewString() + "@example.com"
		id := create(t, domain.Toy{Title: "Old", Category: "Old", Price: 1, SellerEmail: seller})

		update := domain.ToyUpdate{
			Title:       "New",
			Category:    "Puzzles",
			Image:       "https://example.com/new.png",
			Price:       20,
			Rating:      3.5,
			Quantity:    7,
			Description: "Updated",
		}

		res, err := repo.Upsert(ctx, id, update)
		require.NoError(t, err)
		assert.EqualValues(t, 1, res.MatchedCount)
		assert.EqualValues(t, 1, res.ModifiedCount)
		assert.EqualValues(t, 0, res.UpsertedCount)
		assert.Nil(t, res.UpsertedID)

		got, err := repo.FindByID(ctx, id)
		require.NoError(t, err)

		want := domain.Toy{ID: id, SellerEmail: seller}
		update.Apply(&want)
		assert.Equal(t, want, *got)

		res, err = repo.Upsert(ctx, id, update)
		require.NoError(t, err)
		assert.EqualValues(t, 1, res.MatchedCount)
		assert.EqualValues(t, 0, res.ModifiedCount)
	})

	t.Run("Upsert inserts under the requested id", func(t *testing.T) {
		id := primitive.NewObjectID()

		res, err := repo.Upsert(ctx, id, domain.ToyUpdate{Title: "Fresh", Price: 2})
		require.NoError(t, err)
		assert.EqualValues(t, 0, res.MatchedCount)
		assert.EqualValues(t, 1, res.UpsertedCount)
		require.NotNil(t, res.UpsertedID)
		assert.Equal(t, id, *res.UpsertedID)

		got, err := repo.FindByID(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, "Fresh", got.Title)
		assert.Empty(t, got.SellerEmail)
	})

	t.Run("Ping", func(t *testing.T) {
		assert.NoError(t, repo.Ping(ctx))
	})
}

func ids(toys []*domain.Toy) []primitive.ObjectID {
	out := make([]primitive.ObjectID, 0, len(toys))
	for _, toy := range toys {
		out = append(out, toy.ID)
	}
	return out
}
