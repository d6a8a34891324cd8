package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"taniku/internal/database"
	"taniku/internal/domain"
	"taniku/internal/idgen"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *database.Store {
	t.Helper()
	store, err := database.Open(t.TempDir())
	require.NoError(t, err)
	return store
}

func TestItemRepositoryCRUD(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)
	repo := NewItemRepository(store.Items, idgen.New())

	item := &domain.Item{Category: domain.CategoryTool, Name: "Cangkul", Price: 80000}
	require.NoError(t, repo.Create(ctx, item))
	require.NotZero(t, item.ID)

	found, err := repo.FindByID(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, "Cangkul", found.Name)

	found.Price = 90000
	require.NoError(t, repo.Update(ctx, found))
	found, err = repo.FindByID(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, 90000.0, found.Price)

	require.NoError(t, repo.Delete(ctx, item.ID))
	_, err = repo.FindByID(ctx, item.ID)
	assert.ErrorIs(t, err, ErrItemNotFound)

	assert.ErrorIs(t, repo.Delete(ctx, item.ID), ErrItemNotFound)
	assert.ErrorIs(t, repo.Update(ctx, &domain.Item{ID: 12345}), ErrItemNotFound)
}

func TestItemRepositoryIDsAvoidExistingRecords(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	// An id far in the future must not be reissued
	future := time.Now().Add(24 * time.Hour).UnixMilli()
	require.NoError(t, store.Items.Save(ctx, []domain.Item{{ID: future, Name: "future"}}))

	repo := NewItemRepository(store.Items, idgen.New())
	item := &domain.Item{Name: "new"}
	require.NoError(t, repo.Create(ctx, item))
	assert.Greater(t, item.ID, future)
}

func TestItemRepositoryListFilters(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)
	require.NoError(t, store.Items.Save(ctx, database.DefaultItems()))
	repo := NewItemRepository(store.Items, idgen.New())

	fertilizers, err := repo.List(ctx, domain.ItemFilter{Category: "PUPUK"})
	require.NoError(t, err)
	assert.Len(t, fertilizers, 2)

	searched, err := repo.List(ctx, domain.ItemFilter{Search: "kopi"})
	require.NoError(t, err)
	require.Len(t, searched, 1)
	assert.Equal(t, int64(2), searched[0].ID)

	// Search also looks at the description
	byDescription, err := repo.List(ctx, domain.ItemFilter{Search: "HAMA"})
	require.NoError(t, err)
	require.Len(t, byDescription, 1)
	assert.Equal(t, int64(5), byDescription[0].ID)

	all, err := repo.List(ctx, domain.ItemFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 8)
}

func TestOrderRepositoryUpdateAndDelete(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)
	repo := NewOrderRepository(store.Orders, idgen.New())

	order := &domain.Order{UserID: 7, Username: "tani", Status: domain.OrderStatusPending}
	require.NoError(t, repo.Create(ctx, order))

	rejected := errors.New("rejected")
	_, err := repo.Update(ctx, order.ID, func(o *domain.Order) error {
		o.Status = domain.OrderStatusCompleted
		return rejected
	})
	require.ErrorIs(t, err, rejected)

	stored, err := repo.FindByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusPending, stored.Status, "failed update must not be persisted")

	updated, err := repo.Update(ctx, order.ID, func(o *domain.Order) error {
		o.Status = domain.OrderStatusCompleted
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusCompleted, updated.Status)

	require.ErrorIs(t, repo.Delete(ctx, order.ID, func(*domain.Order) error { return rejected }), rejected)
	require.NoError(t, repo.Delete(ctx, order.ID, nil))
	_, err = repo.FindByID(ctx, order.ID)
	assert.ErrorIs(t, err, ErrOrderNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, order.ID, nil), ErrOrderNotFound)

	_, err = repo.Update(ctx, order.ID, func(*domain.Order) error { return nil })
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestOrderRepositoryListings(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)
	repo := NewOrderRepository(store.Orders, idgen.New())

	for _, o := range []*domain.Order{
		{UserID: 1, Username: "budi", ShippingDetails: domain.ShippingDetails{ReceiverName: "Budi", DeliveryCity: "Bandung"}},
		{UserID: 2, Username: "sari", ShippingDetails: domain.ShippingDetails{ReceiverName: "Sari", DeliveryCity: "Bogor"}},
		{UserID: 1, Username: "budi", ShippingDetails: domain.ShippingDetails{ReceiverName: "Ibu Budi", DeliveryCity: "Garut"}},
	} {
		require.NoError(t, repo.Create(ctx, o))
	}

	mine, err := repo.ListByUser(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	none, err := repo.ListByUser(ctx, 99)
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)

	byCity, err := repo.List(ctx, "bogor")
	require.NoError(t, err)
	require.Len(t, byCity, 1)
	assert.Equal(t, "sari", byCity[0].Username)

	all, err := repo.List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestUserRepositoryRejectsDuplicates(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)
	repo := NewUserRepository(store.Users, idgen.New())

	first := &domain.User{Username: "tani", Email: "tani@example.com", Role: domain.RoleUser}
	require.NoError(t, repo.Create(ctx, first))

	assert.ErrorIs(t, repo.Create(ctx, &domain.User{Username: "other", Email: "TANI@example.com"}), ErrUserAlreadyExists)
	assert.ErrorIs(t, repo.Create(ctx, &domain.User{Username: "tani", Email: "new@example.com"}), ErrUserAlreadyExists)

	second := &domain.User{Username: "sari", Email: "sari@example.com", Role: domain.RoleUser}
	require.NoError(t, repo.Create(ctx, second))

	// Taking another user's email on update is a conflict
	clash := *second
	clash.Email = first.Email
	assert.ErrorIs(t, repo.Update(ctx, &clash), ErrUserAlreadyExists)

	// Keeping one's own email is fine
	second.Username = "sari2"
	require.NoError(t, repo.Update(ctx, second))

	found, err := repo.FindByEmail(ctx, "SARI@EXAMPLE.COM")
	require.NoError(t, err)
	assert.Equal(t, "sari2", found.Username)

	_, err = repo.FindByID(ctx, 424242)
	assert.ErrorIs(t, err, ErrUserNotFound)
	assert.ErrorIs(t, repo.Update(ctx, &domain.User{ID: 424242}), ErrUserNotFound)
}

// Property: every created item receives a distinct id
func TestProperty_CreatedItemsHaveUniqueIDs(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("item ids are unique", prop.ForAll(
		func(names []string) bool {
			ctx := context.Background()
			store, err := database.Open(t.TempDir())
			if err != nil {
				return false
			}
			repo := NewItemRepository(store.Items, idgen.New())

			seen := make(map[int64]bool)
			for _, name := range names {
				item := &domain.Item{Name: name, Category: domain.CategorySeed}
				if err := repo.Create(ctx, item); err != nil {
					t.Logf("FAIL: create: %v", err)
					return false
				}
				if seen[item.ID] {
					t.Logf("FAIL: duplicate id %d", item.ID)
					return false
				}
				seen[item.ID] = true
			}
			return true
		},
		gen.SliceOfN(10, gen.AlphaString()),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}
