package badger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clearchart/notevault/core"
)

func TestReindexTerms(t *testing.T) {
	f := newRepoFixture(t)
	ctx := context.Background()

	hashA := core.HashTerm("crown")
	hashB := core.HashTerm("prep")
	hashC := core.HashTerm("polish")

	t.Run("indexes terms for lookup", func(t *testing.T) {
		err := f.index.ReindexTerms(ctx, testTenant, 10, []core.TermHash{hashA, hashB})
		require.NoError(t, err)

		ids, err := f.index.LookupTerms(ctx, testTenant, []core.TermHash{hashA})
		require.NoError(t, err)
		assert.Equal(t, []core.ID{10}, ids)
	})

	t.Run("replaces instead of accumulating", func(t *testing.T) {
		err := f.index.ReindexTerms(ctx, testTenant, 10, []core.TermHash{hashC})
		require.NoError(t, err)

		ids, err := f.index.LookupTerms(ctx, testTenant, []core.TermHash{hashA, hashB})
		require.NoError(t, err)
		assert.Empty(t, ids, "previous terms must no longer match")

		ids, err = f.index.LookupTerms(ctx, testTenant, []core.TermHash{hashC})
		require.NoError(t, err)
		assert.Equal(t, []core.ID{10}, ids)
	})

	t.Run("empty set clears the index", func(t *testing.T) {
		err := f.index.ReindexTerms(ctx, testTenant, 10, nil)
		require.NoError(t, err)

		ids, err := f.index.LookupTerms(ctx, testTenant, []core.TermHash{hashC})
		require.NoError(t, err)
		assert.Empty(t, ids)
	})

	t.Run("is idempotent", func(t *testing.T) {
		for i := 0; i < 3; i++ {
			err := f.index.ReindexTerms(ctx, testTenant, 11, []core.TermHash{hashA})
			require.NoError(t, err)
		}
		ids, err := f.index.LookupTerms(ctx, testTenant, []core.TermHash{hashA})
		require.NoError(t, err)
		assert.Equal(t, []core.ID{11}, ids)
	})

	t.Run("zero tenant rejected", func(t *testing.T) {
		err := f.index.ReindexTerms(ctx, 0, 10, []core.TermHash{hashA})
		assert.ErrorIs(t, err, core.ErrTenantRequired)
	})
}

func TestLookupTerms(t *testing.T) {
	f := newRepoFixture(t)
	ctx := context.Background()

	hashA := core.HashTerm("extraction")
	hashB := core.HashTerm("suture")

	require.NoError(t, f.index.ReindexTerms(ctx, testTenant, 1, []core.TermHash{hashA}))
	require.NoError(t, f.index.ReindexTerms(ctx, testTenant, 2, []core.TermHash{hashA, hashB}))
	require.NoError(t, f.index.ReindexTerms(ctx, testTenant, 3, []core.TermHash{hashB}))
	require.NoError(t, f.index.ReindexTerms(ctx, otherTenant, 4, []core.TermHash{hashA}))

	t.Run("OR semantics across terms", func(t *testing.T) {
		ids, err := f.index.LookupTerms(ctx, testTenant, []core.TermHash{hashA, hashB})
		require.NoError(t, err)
		assert.ElementsMatch(t, []core.ID{1, 2, 3}, ids)
	})

	t.Run("deduplicates in first-match order", func(t *testing.T) {
		ids, err := f.index.LookupTerms(ctx, testTenant, []core.TermHash{hashB, hashA})
		require.NoError(t, err)
		// hashB matches notes 2 and 3 first; hashA then adds only note 1.
		assert.Equal(t, []core.ID{2, 3, 1}, ids)
	})

	t.Run("scoped to tenant", func(t *testing.T) {
		ids, err := f.index.LookupTerms(ctx, otherTenant, []core.TermHash{hashA})
		require.NoError(t, err)
		assert.Equal(t, []core.ID{4}, ids)
	})

	t.Run("skips empty hashes", func(t *testing.T) {
		ids, err := f.index.LookupTerms(ctx, testTenant, []core.TermHash{"", hashB})
		require.NoError(t, err)
		assert.ElementsMatch(t, []core.ID{2, 3}, ids)
	})

	t.Run("unknown term returns empty", func(t *testing.T) {
		ids, err := f.index.LookupTerms(ctx, testTenant, []core.TermHash{core.HashTerm("nothing")})
		require.NoError(t, err)
		assert.Empty(t, ids)
	})
}

func TestUpsertVector(t *testing.T) {
	f := newRepoFixture(t)
	ctx := context.Background()

	t.Run("stores and replaces", func(t *testing.T) {
		err := f.index.UpsertVector(ctx, &core.VectorRecord{
			NoteId:   7,
			TenantId: testTenant,
			Vector:   []float32{1, 0, 0},
		})
		require.NoError(t, err)

		// Replace with a vector pointing elsewhere.
		err = f.index.UpsertVector(ctx, &core.VectorRecord{
			NoteId:   7,
			TenantId: testTenant,
			Vector:   []float32{0, 1, 0},
		})
		require.NoError(t, err)

		matches, err := f.index.NearestVectors(ctx, testTenant, []float32{0, 1, 0}, 10)
		require.NoError(t, err)
		require.Len(t, matches, 1, "upsert must not accumulate vectors")
		assert.Equal(t, core.ID(7), matches[0].NoteId)
		assert.InDelta(t, 0, matches[0].Distance, 1e-6)
	})

	t.Run("zero tenant rejected", func(t *testing.T) {
		err := f.index.UpsertVector(ctx, &core.VectorRecord{NoteId: 7, Vector: []float32{1}})
		assert.ErrorIs(t, err, core.ErrTenantRequired)
	})
}

func TestNearestVectors(t *testing.T) {
	f := newRepoFixture(t)
	ctx := context.Background()

	upsert := func(id core.ID, tenant core.TenantID, v []float32) {
		t.Helper()
		require.NoError(t, f.index.UpsertVector(ctx, &core.VectorRecord{
			NoteId:   id,
			TenantId: tenant,
			Vector:   v,
		}))
	}

	upsert(1, testTenant, []float32{1, 0, 0})
	upsert(2, testTenant, []float32{0.7, 0.7, 0})
	upsert(3, testTenant, []float32{0, 1, 0})
	upsert(4, otherTenant, []float32{1, 0, 0})

	t.Run("ranks by ascending cosine distance", func(t *testing.T) {
		matches, err := f.index.NearestVectors(ctx, testTenant, []float32{1, 0, 0}, 10)
		require.NoError(t, err)
		require.Len(t, matches, 3)
		assert.Equal(t, core.ID(1), matches[0].NoteId)
		assert.Equal(t, core.ID(2), matches[1].NoteId)
		assert.Equal(t, core.ID(3), matches[2].NoteId)
		assert.LessOrEqual(t, matches[0].Distance, matches[1].Distance)
		assert.LessOrEqual(t, matches[1].Distance, matches[2].Distance)
	})

	t.Run("respects limit", func(t *testing.T) {
		matches, err := f.index.NearestVectors(ctx, testTenant, []float32{1, 0, 0}, 2)
		require.NoError(t, err)
		assert.Len(t, matches, 2)
	})

	t.Run("scoped to tenant", func(t *testing.T) {
		matches, err := f.index.NearestVectors(ctx, otherTenant, []float32{1, 0, 0}, 10)
		require.NoError(t, err)
		require.Len(t, matches, 1)
		assert.Equal(t, core.ID(4), matches[0].NoteId)
	})

	t.Run("empty index returns empty", func(t *testing.T) {
		matches, err := f.index.NearestVectors(ctx, core.TenantID(99), []float32{1, 0, 0}, 10)
		require.NoError(t, err)
		assert.Empty(t, matches)
	})
}
