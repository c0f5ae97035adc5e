package ledger

import (
	"context"
	"math"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/schematic/internal/run"
	"github.com/vk/schematic/internal/schematic"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(context.Background(), filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, store.Close()) })
	return store
}

func TestRecordAndLatest(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := openTestStore(t)

	// --- Arrange ---
	base := time.Date(2023, 12, 3, 6, 0, 0, 0, time.UTC)
	older := Entry{
		RunName: "day03", InputPath: "03.txt", InputDigest: "abc",
		Computations: schematic.AllComputations, Numbers: 10,
		PartSum: 4361, GearRatioSum: 467835, ComputedAt: base,
	}
	newer := older
	newer.PartSum = 1
	newer.ComputedAt = base.Add(time.Hour)

	// --- Act ---
	id1, err := store.Record(ctx, older)
	require.NoError(t, err)
	id2, err := store.Record(ctx, newer)
	require.NoError(t, err)
	got, err := store.Latest(ctx, "abc")

	// --- Assert ---
	require.NoError(t, err)
	assert.Greater(t, id2, id1)
	assert.Equal(t, id2, got.ID)
	assert.Equal(t, uint64(1), got.PartSum)
	assert.Equal(t, uint64(467835), got.GearRatioSum)
	assert.Equal(t, schematic.AllComputations, got.Computations)
	assert.Equal(t, 10, got.Numbers)
	assert.True(t, newer.ComputedAt.Equal(got.ComputedAt))

	_, err = store.Latest(ctx, "unknown")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRecord_FullUint64Range(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := openTestStore(t)

	_, err := store.Record(ctx, Entry{RunName: "big", InputDigest: "d", PartSum: math.MaxUint64, GearRatioSum: math.MaxUint64 - 1})
	require.NoError(t, err)

	got, err := store.Latest(ctx, "d")
	require.NoError(t, err)
	assert.Equal(t, uint64(math.MaxUint64), got.PartSum)
	assert.Equal(t, uint64(math.MaxUint64-1), got.GearRatioSum)
	assert.Empty(t, got.Computations)
	assert.False(t, got.ComputedAt.IsZero(), "missing timestamps default to now")
}

func TestRecord_Validation(t *testing.T) {
	t.Parallel()
	store := openTestStore(t)

	_, err := store.Record(context.Background(), Entry{RunName: "no-digest"})
	require.Error(t, err)
}

func TestList(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := openTestStore(t)
	base := time.Date(2023, 12, 3, 0, 0, 0, 0, time.UTC)

	for i, name := range []string{"a", "b", "c"} {
		_, err := store.Record(ctx, Entry{RunName: name, InputDigest: name, ComputedAt: base.Add(time.Duration(i) * time.Minute)})
		require.NoError(t, err)
	}

	all, err := store.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "c", all[0].RunName)
	assert.Equal(t, "a", all[2].RunName)

	two, err := store.List(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, two, 2)
}

func TestOpen_ReappliesNothing(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "runs.db")

	first, err := Open(ctx, path)
	require.NoError(t, err)
	_, err = first.Record(ctx, Entry{RunName: "kept", InputDigest: "k"})
	require.NoError(t, err)
	require.NoError(t, first.Close())

	second, err := Open(ctx, path)
	require.NoError(t, err)
	defer second.Close()
	entries, err := second.List(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	_, err = Open(ctx, " ")
	assert.Error(t, err)
}

func TestEntryFromOutcome(t *testing.T) {
	t.Parallel()
	at := time.Now().UTC()
	o := &run.Outcome{
		Name: "day03", InputPath: "03.txt", Digest: "abc", ComputedAt: at,
		Result: &schematic.Result{Computed: []schematic.Computation{schematic.ComputePartSum}, Numbers: 3, PartSum: 9},
	}

	e := EntryFromOutcome(o)

	assert.Equal(t, Entry{
		RunName: "day03", InputPath: "03.txt", InputDigest: "abc",
		Computations: []schematic.Computation{schematic.ComputePartSum},
		Numbers:      3, PartSum: 9, ComputedAt: at,
	}, e)
}
