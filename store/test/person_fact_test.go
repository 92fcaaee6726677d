package test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hello-ai/joebot/store"
)

func TestSeedPersonFacts(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	ts := NewTestingStore(ctx, t)

	facts, err := ts.ListPersonFacts(ctx)
	require.NoError(t, err)
	require.Empty(t, facts)

	require.NoError(t, ts.SeedPersonFacts(ctx))

	facts, err = ts.ListPersonFacts(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, facts)
	seeded := len(facts)

	byKey := make(map[string]*store.PersonFact, len(facts))
	for _, f := range facts {
		byKey[f.Key] = f
	}
	require.Contains(t, byKey, "work_role")
	require.Equal(t, "VP of Customer Success", byKey["work_role"].Value)
	require.NotNil(t, byKey["work_role"].Category)
	require.Equal(t, "work", *byKey["work_role"].Category)

	// Seeding again is a no-op.
	require.NoError(t, ts.SeedPersonFacts(ctx))
	facts, err = ts.ListPersonFacts(ctx)
	require.NoError(t, err)
	require.Len(t, facts, seeded)
}

func TestUpsertPersonFactOverwrites(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	ts := NewTestingStore(ctx, t)

	category := "work"
	err := ts.UpsertPersonFact(ctx, &store.PersonFact{Key: "work_role", Value: "Engineer", Category: &category})
	require.NoError(t, err)
	err = ts.UpsertPersonFact(ctx, &store.PersonFact{Key: "work_role", Value: "VP of Customer Success", Category: &category})
	require.NoError(t, err)

	facts, err := ts.ListPersonFacts(ctx)
	require.NoError(t, err)
	require.Len(t, facts, 1)
	require.Equal(t, "VP of Customer Success", facts[0].Value)
}

// TestEnsureSchemaConcurrent hammers schema setup from several goroutines;
// singleflight should leave one usable schema regardless.
func TestEnsureSchemaConcurrent(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	ts := NewTestingStore(ctx, t)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ts.EnsureSchema(ctx)
		}()
	}
	wg.Wait()

	// The schema is usable afterwards.
	require.NoError(t, ts.SeedPersonFacts(ctx))
}
