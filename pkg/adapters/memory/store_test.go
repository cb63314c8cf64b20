package memory_test

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/lcm/pkg/adapters/memory"
	"github.com/aretw0/lcm/pkg/domain"
	"github.com/aretw0/lcm/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_Contract(t *testing.T) {
	ports.RunStoreContract(t, memory.NewStore())
}

func TestMemoryStore_Isolation(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()

	run := domain.NewRunRecord("r1", "hello", domain.Params{"a": 1})
	require.NoError(t, store.Save(ctx, run))

	run.Params["a"] = 2
	loaded, err := store.Load(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, 1, loaded.Params["a"])

	loaded.Params["a"] = 3
	again, err := store.Load(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, 1, again.Params["a"])
}

func TestMemoryStore_ListOldestFirst(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()

	older := domain.NewRunRecord("zzz", "hello", nil)
	older.StartedAt = time.Now().Add(-time.Hour)
	newer := domain.NewRunRecord("aaa", "hello", nil)

	require.NoError(t, store.Save(ctx, newer))
	require.NoError(t, store.Save(ctx, older))

	ids, err := store.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"zzz", "aaa"}, ids)
}
