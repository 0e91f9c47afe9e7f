package domain

import (
	"errors"
	"time"
)

// ErrProfileEmpty is returned when a trained profile holds no data at all.
var ErrProfileEmpty = errors.New("trained profile cannot be empty")

// PatternSet holds the recurring textual patterns mined from a profile's
// scraped posts. All slices are ordered most-frequent-first.
type PatternSet struct {
	TopOpenings     []string `json:"top_openings"`
	TopClosings     []string `json:"top_closings"`
	CommonPhrases   []string `json:"common_phrases"`
	PopularHashtags []string `json:"popular_hashtags"`
}

// ProfileStats holds aggregate structural statistics over a profile's posts.
type ProfileStats struct {
	AvgLineCount  float64 `json:"avg_line_count"`
	AvgWordCount  float64 `json:"avg_word_count"`
	ListUsage     float64 `json:"list_usage"`
	QuestionUsage float64 `json:"question_usage"`
	EmojiUsage    float64 `json:"emoji_usage"`
}

// TrainedProfile is the artifact produced by training on a profile's
// content records. It is opaque to the cache layer, which only persists
// and restores it. Unknown JSON fields are ignored on load so older
// artifacts remain readable after schema additions.
type TrainedProfile struct {
	Patterns PatternSet   `json:"patterns"`
	Stats    ProfileStats `json:"stats"`

	// Vocabulary maps terms (unigrams and bigrams) to their inverse
	// document frequency weight, fitted over the profile's posts.
	Vocabulary map[string]float64 `json:"vocabulary"`

	// SampleTexts keeps the post texts the profile was trained on, used
	// for similarity lookups at generation time.
	SampleTexts []string `json:"sample_texts"`

	TrainedAt time.Time `json:"trained_at"`
}

// Validate checks that the profile holds at least some trained data.
func (p *TrainedProfile) Validate() error {
	if len(p.SampleTexts) == 0 && len(p.Vocabulary) == 0 {
		return ErrProfileEmpty
	}
	return nil
}
