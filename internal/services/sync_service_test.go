package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"verdantshop/internal/repos"
	"verdantshop/internal/services"
	"verdantshop/internal/vector"
)

type fakeIndex struct {
	vectors map[string]map[string]any
	upserts int
}

func newFakeIndex() *fakeIndex { return &fakeIndex{vectors: map[string]map[string]any{}} }

func (f *fakeIndex) Upsert(_ context.Context, id string, _ []float64, metadata map[string]any) error {
	f.vectors[id] = metadata
	f.upserts++
	return nil
}

func (f *fakeIndex) Query(_ context.Context, _ []float64, topK int) ([]vector.Match, error) {
	out := []vector.Match{}
	for id, meta := range f.vectors {
		if len(out) == topK {
			break
		}
		out = append(out, vector.Match{ID: id, Score: 0.5, Metadata: meta})
	}
	return out, nil
}

func (f *fakeIndex) Delete(_ context.Context, ids []string) error {
	for _, id := range ids {
		delete(f.vectors, id)
	}
	return nil
}

func (f *fakeIndex) Stats(context.Context) (vector.Stats, error) {
	return vector.Stats{TotalVectorCount: len(f.vectors), Dimension: 384}, nil
}

func (f *fakeIndex) Ready() bool { return true }

type fakeLLM struct {
	reply  string
	broken bool
}

func (f *fakeLLM) Complete(context.Context, string, string) (string, error) {
	if f.broken {
		return "", context.DeadlineExceeded
	}
	return f.reply, nil
}

func (f *fakeLLM) Embed(context.Context, string) ([]float64, error) {
	return make([]float64, 384), nil
}

func (f *fakeLLM) Ready() bool { return true }

func TestSync_SecondRunSkipsUnchanged(t *testing.T) {
	db := testDB(t)
	idx := newFakeIndex()
	svc := services.NewSyncService(
		repos.NewProductRepo(db), repos.NewCategoryRepo(db), repos.NewSyncStateRepo(db),
		idx, &fakeLLM{})

	rep, err := svc.Run(context.Background(), false, 2)
	require.NoError(t, err)
	require.Equal(t, 5, rep.Total)
	require.Equal(t, 5, rep.Synced)
	require.Equal(t, 0, rep.Skipped)

	// Nothing changed, nothing re-embeds.
	rep, err = svc.Run(context.Background(), false, 2)
	require.NoError(t, err)
	require.Equal(t, 0, rep.Synced)
	require.Equal(t, 5, rep.Skipped)
	require.Equal(t, 5, idx.upserts)
}

func TestSync_ChangedProductResyncs(t *testing.T) {
	db := testDB(t)
	prodRepo := repos.NewProductRepo(db)
	idx := newFakeIndex()
	svc := services.NewSyncService(
		prodRepo, repos.NewCategoryRepo(db), repos.NewSyncStateRepo(db), idx, &fakeLLM{})

	_, err := svc.Run(context.Background(), false, 50)
	require.NoError(t, err)

	require.NoError(t, prodRepo.SetPrice("lamp-solar", 29.99))

	rep, err := svc.Run(context.Background(), false, 50)
	require.NoError(t, err)
	require.Equal(t, 1, rep.Synced)
	require.Equal(t, 4, rep.Skipped)
	require.Equal(t, 29.99, idx.vectors["lamp-solar"]["price"])
}

func TestSync_ForceResyncsEverything(t *testing.T) {
	db := testDB(t)
	idx := newFakeIndex()
	svc := services.NewSyncService(
		repos.NewProductRepo(db), repos.NewCategoryRepo(db), repos.NewSyncStateRepo(db), idx, &fakeLLM{})

	_, err := svc.Run(context.Background(), false, 50)
	require.NoError(t, err)

	rep, err := svc.Run(context.Background(), true, 50)
	require.NoError(t, err)
	require.Equal(t, 5, rep.Synced)
	require.Equal(t, 10, idx.upserts)
}

func TestSync_RequiresConfiguredIndex(t *testing.T) {
	db := testDB(t)
	svc := services.NewSyncService(
		repos.NewProductRepo(db), repos.NewCategoryRepo(db), repos.NewSyncStateRepo(db),
		vector.NewPinecone("", ""), &fakeLLM{})

	_, err := svc.Run(context.Background(), false, 50)
	require.ErrorIs(t, err, vector.ErrNotConfigured)
}
