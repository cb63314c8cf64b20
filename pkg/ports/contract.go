package ports

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aretw0/lcm/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunStoreContract runs a suite of tests to verify that a RunStore implementation
// adheres to the defined interface contract.
func RunStoreContract(t *testing.T, store RunStore) {
	ctx := context.Background()
	runID := "contract-test-run-" + time.Now().Format("20060102150405")

	t.Run("Save and Load", func(t *testing.T) {
		run := domain.NewRunRecord(runID, "hello", domain.NewParams(map[string]any{"Foo": "bar", "count": 42}))
		run.Steps = append(run.Steps, domain.StepRecord{
			Index:   0,
			Action:  "hello_world",
			Results: []domain.Record{domain.NewRecord("message", "Hello World!", "at", "now")},
		})
		run.Final = map[string]any{"foo": "bar", "done": true}
		run.Finish(nil)

		require.NoError(t, store.Save(ctx, run), "Save should not return error")

		loaded, err := store.Load(ctx, runID)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, run.ID, loaded.ID)
		assert.Equal(t, "hello", loaded.Mode)
		assert.Equal(t, domain.RunStatusSucceeded, loaded.Status)
		assert.Equal(t, "bar", loaded.Params["foo"])
		// JSON persistence turns ints into floats; only check existence.
		assert.NotNil(t, loaded.Params["count"])
		assert.Equal(t, true, loaded.Final["done"])

		require.Len(t, loaded.Steps, 1)
		assert.Equal(t, []string{"message", "at"}, loaded.Steps[0].Results[0].Keys(), "label order must survive persistence")
	})

	t.Run("Save Overwrites", func(t *testing.T) {
		run := domain.NewRunRecord(runID, "hello", nil)
		run.Finish(errors.New("boom"))
		require.NoError(t, store.Save(ctx, run))

		loaded, err := store.Load(ctx, runID)
		require.NoError(t, err)
		assert.Equal(t, domain.RunStatusFailed, loaded.Status)
		assert.Equal(t, "boom", loaded.Error)
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+runID)
		assert.ErrorIs(t, err, domain.ErrRunNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, domain.NewRunRecord(runID, "hello", nil)))

		require.NoError(t, store.Delete(ctx, runID), "Delete should not return error")

		_, err := store.Load(ctx, runID)
		assert.ErrorIs(t, err, domain.ErrRunNotFound, "Load after Delete should return ErrRunNotFound")

		assert.NoError(t, store.Delete(ctx, runID), "deleting twice is not an error")
	})

	t.Run("List", func(t *testing.T) {
		id1 := runID + "-1"
		id2 := runID + "-2"
		require.NoError(t, store.Save(ctx, domain.NewRunRecord(id1, "hello", nil)))
		require.NoError(t, store.Save(ctx, domain.NewRunRecord(id2, "info", nil)))

		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		ids, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, ids, id1)
		assert.Contains(t, ids, id2)
	})
}

// LockerContract verifies that a DistributedLocker provides mutual exclusion.
// The locker must give up on a held key once ctx is done.
func LockerContract(t *testing.T, locker DistributedLocker) {
	key := "contract-lock-" + time.Now().Format("20060102150405")

	t.Run("Exclusive", func(t *testing.T) {
		ctx := context.Background()
		unlock, err := locker.Lock(ctx, key, time.Minute)
		require.NoError(t, err)

		short, cancel := context.WithTimeout(ctx, 100*time.Millisecond)
		defer cancel()
		_, err = locker.Lock(short, key, time.Minute)
		assert.Error(t, err, "second Lock on a held key must fail")

		require.NoError(t, unlock(ctx))

		unlock2, err := locker.Lock(ctx, key, time.Minute)
		require.NoError(t, err, "Lock after unlock must succeed")
		require.NoError(t, unlock2(ctx))
	})

	t.Run("Independent Keys", func(t *testing.T) {
		ctx := context.Background()
		u1, err := locker.Lock(ctx, key+"-a", time.Minute)
		require.NoError(t, err)
		u2, err := locker.Lock(ctx, key+"-b", time.Minute)
		require.NoError(t, err)
		assert.NoError(t, u1(ctx))
		assert.NoError(t, u2(ctx))
	})
}
