package similarity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/celestial/post-api/internal/domain"
	"github.com/celestial/post-api/internal/trainer"
)

func trainedIndex(t *testing.T, texts ...string) *Index {
	t.Helper()

	recs := make([]*domain.ContentRecord, 0, len(texts))
	for _, text := range texts {
		rec, err := domain.NewContentRecord(text, "https://example.com", 0, 0, 0)
		require.NoError(t, err)
		recs = append(recs, rec)
	}

	profile, err := trainer.Train(recs)
	require.NoError(t, err)

	idx, err := NewIndex(profile)
	require.NoError(t, err)
	return idx
}

func TestNewIndexRejectsUntrainedProfile(t *testing.T) {
	t.Parallel()
	_, err := NewIndex(nil)
	assert.ErrorIs(t, err, ErrNoIndex)

	_, err = NewIndex(&domain.TrainedProfile{})
	assert.ErrorIs(t, err, ErrNoIndex)
}

func TestQueryRanksByOverlap(t *testing.T) {
	t.Parallel()
	idx := trainedIndex(t,
		"fundraising advice for founders seeking fundraising",
		"fundraising tips for seed founders",
		"hiring engineers is hard work",
		"hiring senior engineers takes patience",
	)

	got := idx.Query("fundraising founders", 2)
	require.Len(t, got, 2)
	for _, text := range got {
		assert.Contains(t, text, "fundraising")
	}
}

func TestQueryBlankReturnsNil(t *testing.T) {
	t.Parallel()
	idx := trainedIndex(t, "alpha beta alpha", "alpha gamma beta")

	assert.Nil(t, idx.Query("   ", 3))
	assert.Nil(t, idx.Query("completely unrelated zzz", 3))
	assert.Nil(t, idx.Query("alpha", 0))
}

func TestQueryBoundsResults(t *testing.T) {
	t.Parallel()
	idx := trainedIndex(t,
		"alpha beta one",
		"alpha beta two",
		"alpha beta three",
		"delta epsilon four",
	)

	got := idx.Query("alpha beta", 2)
	assert.Len(t, got, 2)
}
