// Package trainer derives a TrainedProfile from a profile's content
// records: recurring openings, closings, phrases and hashtags, structural
// statistics, and a TF-IDF vocabulary used for similarity lookups.
package trainer

import (
	"errors"
	"math"
	"regexp"
	"strings"
	"time"

	"github.com/celestial/post-api/internal/domain"
)

// Pattern list sizes, most-frequent-first.
const (
	topOpenings   = 30
	topClosings   = 20
	topPhrases    = 100
	topHashtags   = 50
	vocabularyCap = 300
)

// Vocabulary fit bounds: terms must appear in at least minDocFreq posts and
// in at most maxDocShare of them.
const (
	minDocFreq  = 2
	maxDocShare = 0.8
)

// ErrNoRecords is returned when training is attempted without any content.
var ErrNoRecords = errors.New("no content records to train on")

var (
	hashtagPattern = regexp.MustCompile(`#\w+`)
	listPattern    = regexp.MustCompile(`(\d+[.)\-:]|[•\-]\s)`)
	emojiPattern   = regexp.MustCompile(`[^\w\s,.]`)
	tokenPattern   = regexp.MustCompile(`[a-z0-9']+`)
)

// englishStopWords is the short stop list applied when fitting the
// vocabulary; pattern mining keeps stop words since openings and closings
// are verbatim lines.
var englishStopWords = map[string]struct{}{
	"a": {}, "an": {}, "and": {}, "are": {}, "as": {}, "at": {}, "be": {},
	"but": {}, "by": {}, "for": {}, "from": {}, "has": {}, "have": {},
	"i": {}, "in": {}, "is": {}, "it": {}, "its": {}, "my": {}, "not": {},
	"of": {}, "on": {}, "or": {}, "our": {}, "so": {}, "that": {},
	"the": {}, "their": {}, "this": {}, "to": {}, "was": {}, "we": {},
	"were": {}, "will": {}, "with": {}, "you": {}, "your": {},
}

// Train mines patterns and fits a vocabulary over the given records.
// Records with empty content are skipped; ErrNoRecords is returned when
// nothing usable remains.
func Train(records []*domain.ContentRecord) (*domain.TrainedProfile, error) {
	texts := make([]string, 0, len(records))
	for _, rec := range records {
		if rec == nil || strings.TrimSpace(rec.Content) == "" {
			continue
		}
		texts = append(texts, rec.Content)
	}

	if len(texts) == 0 {
		return nil, ErrNoRecords
	}

	patterns, stats := minePatterns(texts)

	return &domain.TrainedProfile{
		Patterns:    patterns,
		Stats:       stats,
		Vocabulary:  fitVocabulary(texts),
		SampleTexts: texts,
		TrainedAt:   time.Now().UTC(),
	}, nil
}

// minePatterns extracts recurring openings, closings, phrases and hashtags
// plus structural statistics from the post texts.
func minePatterns(texts []string) (domain.PatternSet, domain.ProfileStats) {
	openings := newCounter()
	closings := newCounter()
	phrases := newCounter()
	hashtags := newCounter()

	var lineTotal, wordTotal float64
	var listCount, questionCount, emojiCount int

	for _, content := range texts {
		lines := nonBlankLines(content)

		// Openings: first two lines. Closings: last line.
		if len(lines) > 0 {
			openings.Add(lines[0])
			if len(lines) > 1 {
				openings.Add(lines[1])
			}
			closings.Add(lines[len(lines)-1])
		}

		for _, tag := range hashtagPattern.FindAllString(content, -1) {
			hashtags.Add(tag)
		}

		words := strings.Fields(strings.ToLower(content))
		for i := 0; i+2 < len(words); i++ {
			phrases.Add(strings.Join(words[i:i+3], " "))
		}

		lineTotal += float64(len(lines))
		wordTotal += float64(len(words))
		if listPattern.MatchString(content) {
			listCount++
		}
		if strings.Contains(content, "?") {
			questionCount++
		}
		if emojiPattern.MatchString(content) {
			emojiCount++
		}
	}

	n := float64(len(texts))
	return domain.PatternSet{
			TopOpenings:     openings.MostCommon(topOpenings),
			TopClosings:     closings.MostCommon(topClosings),
			CommonPhrases:   phrases.MostCommon(topPhrases),
			PopularHashtags: hashtags.MostCommon(topHashtags),
		}, domain.ProfileStats{
			AvgLineCount:  lineTotal / n,
			AvgWordCount:  wordTotal / n,
			ListUsage:     float64(listCount) / n,
			QuestionUsage: float64(questionCount) / n,
			EmojiUsage:    float64(emojiCount) / n,
		}
}

// fitVocabulary builds a smoothed-IDF weighting over unigrams and bigrams:
// terms below minDocFreq documents or above maxDocShare of them are
// discarded, and the vocabularyCap most document-frequent terms are kept.
func fitVocabulary(texts []string) map[string]float64 {
	docFreq := newCounter()

	for _, content := range texts {
		for term := range termsOf(content) {
			docFreq.Add(term)
		}
	}

	n := len(texts)
	maxDF := int(maxDocShare * float64(n))
	if maxDF < minDocFreq {
		maxDF = minDocFreq
	}

	vocab := make(map[string]float64)
	for _, term := range docFreq.MostCommon(0) {
		df := docFreq.Count(term)
		if df < minDocFreq || df > maxDF {
			continue
		}
		// Smoothed inverse document frequency.
		vocab[term] = math.Log(float64(1+n)/float64(1+df)) + 1
		if len(vocab) == vocabularyCap {
			break
		}
	}

	return vocab
}

// termsOf returns the set of unigram and bigram terms in a text, lower
// cased, with stop-word unigrams removed.
func termsOf(content string) map[string]struct{} {
	tokens := tokenPattern.FindAllString(strings.ToLower(content), -1)

	terms := make(map[string]struct{})
	for i, tok := range tokens {
		if _, stop := englishStopWords[tok]; !stop {
			terms[tok] = struct{}{}
		}
		if i+1 < len(tokens) {
			terms[tok+" "+tokens[i+1]] = struct{}{}
		}
	}
	return terms
}

// Tokenize exposes the trainer's tokenization for similarity scoring.
func Tokenize(text string) []string {
	return tokenPattern.FindAllString(strings.ToLower(text), -1)
}

// Terms exposes the trainer's term extraction for similarity scoring.
func Terms(text string) map[string]struct{} {
	return termsOf(text)
}

func nonBlankLines(content string) []string {
	var lines []string
	for _, line := range strings.Split(content, "\n") {
		if l := strings.TrimSpace(line); l != "" {
			lines = append(lines, l)
		}
	}
	return lines
}
