package database

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"taniku/internal/domain"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type record struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

func TestLoadInitializesMissingFileWithDefault(t *testing.T) {
	ctx := context.Background()
	c := NewCollection[record](t.TempDir(), "things")

	def := []record{{ID: 1, Name: "one"}}
	got, err := c.Load(ctx, def)
	require.NoError(t, err)
	assert.Equal(t, def, got)

	_, err = os.Stat(c.Path())
	require.NoError(t, err, "default should be written to disk")

	// A second load reads the file rather than the new default
	got, err = c.Load(ctx, []record{{ID: 99}})
	require.NoError(t, err)
	assert.Equal(t, def, got)
}

func TestLoadNilDefaultWritesEmptyArray(t *testing.T) {
	c := NewCollection[record](t.TempDir(), "things")

	got, err := c.Load(context.Background(), nil)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)

	data, err := os.ReadFile(c.Path())
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))
}

func TestReadFailureIsStoreIOError(t *testing.T) {
	dir := t.TempDir()
	// A directory where the file should be makes every read fail
	require.NoError(t, os.Mkdir(filepath.Join(dir, "things.json"), 0o755))
	c := NewCollection[record](dir, "things")

	_, err := c.Load(context.Background(), nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrStoreIO))

	var storeErr *StoreError
	require.True(t, errors.As(err, &storeErr))
	assert.Equal(t, "things", storeErr.Collection)
	assert.Equal(t, "read", storeErr.Op)
}

func TestCorruptFileIsStoreIOError(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "things.json"), []byte("{not json"), 0o644))
	c := NewCollection[record](dir, "things")

	_, err := c.Load(context.Background(), nil)
	assert.ErrorIs(t, err, ErrStoreIO)
}

func TestUpdateDoesNotSaveWhenFnFails(t *testing.T) {
	ctx := context.Background()
	c := NewCollection[record](t.TempDir(), "things")
	require.NoError(t, c.Save(ctx, []record{{ID: 1, Name: "keep"}}))

	boom := errors.New("boom")
	err := c.Update(ctx, func(records []record) ([]record, error) {
		return append(records, record{ID: 2}), boom
	})
	require.ErrorIs(t, err, boom)

	got, err := c.Load(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, []record{{ID: 1, Name: "keep"}}, got)
}

func TestConcurrentUpdatesAreSerialized(t *testing.T) {
	ctx := context.Background()
	c := NewCollection[record](t.TempDir(), "things")

	const writers = 25
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			err := c.Update(ctx, func(records []record) ([]record, error) {
				return append(records, record{ID: id}), nil
			})
			assert.NoError(t, err)
		}(int64(i + 1))
	}
	wg.Wait()

	got, err := c.Load(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, got, writers, "no append may be lost")
}

func TestSaveLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	c := NewCollection[record](dir, "things")
	require.NoError(t, c.Save(context.Background(), []record{{ID: 1}}))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "things.json", entries[0].Name())
}

func TestCancelledContextStopsLoad(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	c := NewCollection[record](t.TempDir(), "things")

	_, err := c.Load(ctx, nil)
	assert.ErrorIs(t, err, context.Canceled)
}

// Property: saving a collection then loading it returns an equal collection
func TestProperty_SaveLoadRoundTrip(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("save then load returns the same records", prop.ForAll(
		func(names []string) bool {
			ctx := context.Background()
			c := NewCollection[record](t.TempDir(), "things")

			records := make([]record, len(names))
			for i, name := range names {
				records[i] = record{ID: int64(i + 1), Name: name}
			}

			if err := c.Save(ctx, records); err != nil {
				t.Logf("FAIL: save: %v", err)
				return false
			}
			got, err := c.Load(ctx, nil)
			if err != nil {
				t.Logf("FAIL: load: %v", err)
				return false
			}
			if len(got) != len(records) {
				return false
			}
			for i := range records {
				if got[i] != records[i] {
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.AlphaString()),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestSeedPopulatesEmptyStore(t *testing.T) {
	ctx := context.Background()
	store, err := Open(filepath.Join(t.TempDir(), "data"))
	require.NoError(t, err)

	admin := AdminSeed{Username: "admin", Email: "admin@example.com", Password: "secret123"}
	require.NoError(t, Seed(ctx, store, admin, zap.NewNop()))

	items, err := store.Items.Load(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, items, len(DefaultItems()))

	orders, err := store.Orders.Load(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, orders)

	users, err := store.Users.Load(ctx, nil)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, domain.RoleAdmin, users[0].Role)
	assert.NotEqual(t, admin.Password, users[0].PasswordHash)

	// Seeding again keeps existing data
	require.NoError(t, Seed(ctx, store, AdminSeed{Username: "other", Email: "o@example.com", Password: "x"}, zap.NewNop()))
	users, err = store.Users.Load(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, users, 1)

	health := store.Health()
	assert.Equal(t, "up", health["status"])
	assert.Equal(t, "ok", health[ItemsCollection])
}
