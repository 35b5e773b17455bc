package docstore

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testDoc struct {
	Email string  `json:"email"`
	CNPJ  string  `json:"cnpj,omitempty"`
	Token *string `json:"token,omitempty"`
}

func TestMemoryStore_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore[testDoc]()

	rec, err := store.Create(ctx, "uid-1", testDoc{Email: "a@x.com"})
	require.NoError(t, err)
	assert.Equal(t, "uid-1", rec.ID)

	got, err := store.Get(ctx, "uid-1")
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", got.Data.Email)

	_, err = store.Create(ctx, "uid-1", testDoc{Email: "b@x.com"})
	assert.ErrorIs(t, err, ErrAlreadyExists)

	generated, err := store.Create(ctx, "", testDoc{Email: "c@x.com"})
	require.NoError(t, err)
	assert.NotEmpty(t, generated.ID)

	_, err = store.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore_UpdateSetsAndClearsFields(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore[testDoc]()
	_, err := store.Create(ctx, "uid-1", testDoc{Email: "a@x.com"})
	require.NoError(t, err)

	require.NoError(t, store.Update(ctx, "uid-1", map[string]any{"token": "abc"}))
	got, err := store.Get(ctx, "uid-1")
	require.NoError(t, err)
	require.NotNil(t, got.Data.Token)
	assert.Equal(t, "abc", *got.Data.Token)
	assert.Equal(t, "a@x.com", got.Data.Email, "partial update keeps other fields")

	require.NoError(t, store.Update(ctx, "uid-1", map[string]any{"token": nil}))
	got, err = store.Get(ctx, "uid-1")
	require.NoError(t, err)
	assert.Nil(t, got.Data.Token)

	assert.ErrorIs(t, store.Update(ctx, "missing", map[string]any{"token": "x"}), ErrNotFound)
}

func TestMemoryStore_FindByListDelete(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore[map[string]any]()
	_, _ = store.Create(ctx, "d1", map[string]any{"doadorId": "u1", "quantidade": 3})
	_, _ = store.Create(ctx, "d2", map[string]any{"doadorId": "u2", "quantidade": 3})
	_, _ = store.Create(ctx, "d3", map[string]any{"doadorId": "u1"})

	byDonor, err := store.FindBy(ctx, "doadorId", "u1")
	require.NoError(t, err)
	require.Len(t, byDonor, 2)
	assert.Equal(t, "d1", byDonor[0].ID)
	assert.Equal(t, "d3", byDonor[1].ID)

	byQty, err := store.FindBy(ctx, "quantidade", 3)
	require.NoError(t, err)
	assert.Len(t, byQty, 2, "numbers compare after JSON normalization")

	require.NoError(t, store.Delete(ctx, "d2"))
	require.NoError(t, store.Delete(ctx, "d2"), "delete is idempotent")

	all, err := store.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestMemoryStore_ConcurrentUpdatesLastWriteWins(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore[testDoc]()
	_, err := store.Create(ctx, "uid-1", testDoc{Email: "a@x.com"})
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_ = store.Update(ctx, "uid-1", map[string]any{"token": string(rune('a' + n))})
		}(i)
	}
	wg.Wait()

	got, err := store.Get(ctx, "uid-1")
	require.NoError(t, err)
	require.NotNil(t, got.Data.Token)
	assert.Len(t, *got.Data.Token, 1)
}
