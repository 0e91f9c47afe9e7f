package trainer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/celestial/post-api/internal/domain"
)

func recordsFrom(t *testing.T, texts ...string) []*domain.ContentRecord {
	t.Helper()
	recs := make([]*domain.ContentRecord, 0, len(texts))
	for _, text := range texts {
		rec, err := domain.NewContentRecord(text, "https://example.com", 0, 0, 0)
		require.NoError(t, err)
		recs = append(recs, rec)
	}
	return recs
}

func TestTrainRejectsEmptyInput(t *testing.T) {
	t.Parallel()
	_, err := Train(nil)
	assert.ErrorIs(t, err, ErrNoRecords)

	_, err = Train([]*domain.ContentRecord{nil, {Content: "   "}})
	assert.ErrorIs(t, err, ErrNoRecords)
}

func TestTrainMinesOpeningsAndClosings(t *testing.T) {
	t.Parallel()
	profile, err := Train(recordsFrom(t,
		"Big lesson today.\nDetails inside.\nWhat would you do?",
		"Big lesson today.\nAnother angle.\nKeep pushing.",
	))
	require.NoError(t, err)

	// "Big lesson today." opens both posts, so it leads the openings.
	require.NotEmpty(t, profile.Patterns.TopOpenings)
	assert.Equal(t, "Big lesson today.", profile.Patterns.TopOpenings[0])

	assert.Contains(t, profile.Patterns.TopClosings, "What would you do?")
	assert.Contains(t, profile.Patterns.TopClosings, "Keep pushing.")
}

func TestTrainCollectsHashtags(t *testing.T) {
	t.Parallel()
	profile, err := Train(recordsFrom(t,
		"Great quarter. #Growth #Startup",
		"New milestone! #Growth",
	))
	require.NoError(t, err)

	require.NotEmpty(t, profile.Patterns.PopularHashtags)
	assert.Equal(t, "#Growth", profile.Patterns.PopularHashtags[0])
	assert.Contains(t, profile.Patterns.PopularHashtags, "#Startup")
}

func TestTrainComputesStats(t *testing.T) {
	t.Parallel()
	profile, err := Train(recordsFrom(t,
		"One line only",                  // 1 line, 3 words, no question
		"First line?\nSecond line here.", // 2 lines, 5 words, question
	))
	require.NoError(t, err)

	assert.InDelta(t, 1.5, profile.Stats.AvgLineCount, 0.001)
	assert.InDelta(t, 4.0, profile.Stats.AvgWordCount, 0.001)
	assert.InDelta(t, 0.5, profile.Stats.QuestionUsage, 0.001)
}

func TestTrainFitsVocabularyWithDocFreqBounds(t *testing.T) {
	t.Parallel()
	// "launch" appears in two posts (kept); "unicorn" in one (dropped
	// by min document frequency).
	profile, err := Train(recordsFrom(t,
		"launch day preparations",
		"launch window confirmed",
		"unicorn dreams",
	))
	require.NoError(t, err)

	assert.Contains(t, profile.Vocabulary, "launch")
	assert.NotContains(t, profile.Vocabulary, "unicorn")
}

func TestTrainVocabularyDropsUbiquitousTerms(t *testing.T) {
	t.Parallel()
	// "everywhere" appears in all five posts: above the max document
	// share, so it is dropped. "pair" appears in two.
	profile, err := Train(recordsFrom(t,
		"everywhere pair one",
		"everywhere pair two",
		"everywhere three",
		"everywhere four",
		"everywhere five",
	))
	require.NoError(t, err)

	assert.NotContains(t, profile.Vocabulary, "everywhere")
	assert.Contains(t, profile.Vocabulary, "pair")
}

func TestTrainKeepsSampleTexts(t *testing.T) {
	t.Parallel()
	profile, err := Train(recordsFrom(t, "alpha", "beta"))
	require.NoError(t, err)

	assert.Equal(t, []string{"alpha", "beta"}, profile.SampleTexts)
	assert.False(t, profile.TrainedAt.IsZero())
	assert.NoError(t, profile.Validate())
}

func TestCounterMostCommonIsStable(t *testing.T) {
	t.Parallel()
	c := newCounter()
	for _, s := range []string{"b", "a", "b", "c", "a", "b"} {
		c.Add(s)
	}

	assert.Equal(t, []string{"b", "a", "c"}, c.MostCommon(0))
	assert.Equal(t, []string{"b", "a"}, c.MostCommon(2))
	assert.Equal(t, 3, c.Count("b"))
}
