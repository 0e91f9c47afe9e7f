package service

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/celestial/post-api/internal/cache"
	"github.com/celestial/post-api/internal/domain"
	"github.com/celestial/post-api/internal/generation"
	"github.com/celestial/post-api/internal/postprocess"
	"github.com/celestial/post-api/internal/scraper"
	"github.com/celestial/post-api/internal/similarity"
	"github.com/celestial/post-api/internal/store"
	"github.com/celestial/post-api/internal/trainer"
	"github.com/celestial/post-api/internal/webcontext"
)

// dbContextLimit is how many stored posts feed the prompt's database
// context.
const dbContextLimit = 3

// similarPostsLimit is how many nearest past posts feed the prompt.
const similarPostsLimit = 2

// noContext marks an empty context slot in the prompt.
const noContext = webcontext.NoContext

// ProfileCache is the slice of the cache gate the service depends on.
type ProfileCache interface {
	Resolve(ctx context.Context, profileName string, forceRefresh bool,
		rebuild cache.RebuildFunc) (*domain.TrainedProfile, bool, *float64, error)
	Status(profileName string) (bool, *float64, error)
	Clear(profileName string) error
	TTL() time.Duration
}

// CacheStatus describes the cached profile for a name.
type CacheStatus struct {
	Cached   bool
	AgeHours *float64
}

// PostService orchestrates post generation: profile resolution through
// the cache gate, context gathering, prompt construction, model
// invocation, and normalization.
type PostService struct {
	logger    *slog.Logger
	cache     ProfileCache
	store     store.ContentStore
	scraper   scraper.Scraper
	generator generation.Generator
	web       webcontext.Provider
	now       func() time.Time
}

// NewPostService creates a PostService. The scraper and web provider
// are optional: without a scraper, cache rebuilds train on stored
// content; without a web provider, prompts carry no web context.
func NewPostService(
	logger *slog.Logger,
	profileCache ProfileCache,
	contentStore store.ContentStore,
	postScraper scraper.Scraper,
	generator generation.Generator,
	web webcontext.Provider,
) (*PostService, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	if profileCache == nil {
		return nil, errors.New("profile cache cannot be nil")
	}
	if contentStore == nil {
		return nil, errors.New("content store cannot be nil")
	}
	if generator == nil {
		return nil, errors.New("generator cannot be nil")
	}

	return &PostService{
		logger:    logger.With(slog.String("component", "post_service")),
		cache:     profileCache,
		store:     contentStore,
		scraper:   postScraper,
		generator: generator,
		web:       web,
		now:       time.Now,
	}, nil
}

// Generate produces a post for the request. profileURL identifies the
// feed to scrape on a cache miss and profileName keys the cached
// trained profile.
func (s *PostService) Generate(
	ctx context.Context,
	profileURL, profileName string,
	req domain.GenerationRequest,
	forceRefresh bool,
) (*domain.GenerationResult, error) {
	start := s.now()

	if strings.TrimSpace(profileURL) == "" {
		return nil, domain.MissingFieldError("profileUrl")
	}
	if strings.TrimSpace(profileName) == "" {
		return nil, domain.MissingFieldError("profileName")
	}

	profile, usedCache, ageHours, err := s.cache.Resolve(ctx, profileName, forceRefresh,
		func(ctx context.Context) (*domain.TrainedProfile, error) {
			return s.rebuildProfile(ctx, profileURL)
		})
	if err != nil {
		return nil, &PostServiceError{
			Operation: "generate",
			Message:   "resolving trained profile",
			Err:       err,
		}
	}
	if !usedCache {
		// The artifact was just written; report its age as fresh.
		fresh := 0.0
		ageHours = &fresh
	}

	post, err := s.generate(ctx, req, profile)
	if err != nil {
		return nil, err
	}

	elapsed := math.Round(s.now().Sub(start).Seconds()*100) / 100
	return &domain.GenerationResult{
		Post:           post,
		UsedCache:      usedCache,
		CacheAgeHours:  ageHours,
		GenerationTime: elapsed,
	}, nil
}

// GenerateDirect produces a post without touching the profile cache or
// the scraper. It backs the CLI path: context comes from whatever the
// content store holds plus web snippets.
func (s *PostService) GenerateDirect(ctx context.Context, req domain.GenerationRequest) (string, error) {
	return s.generate(ctx, req, nil)
}

// CacheStatus reports whether a trained profile exists for the name and
// how old it is.
func (s *PostService) CacheStatus(profileName string) (*CacheStatus, error) {
	if strings.TrimSpace(profileName) == "" {
		return nil, domain.MissingFieldError("profileName")
	}

	cached, ageHours, err := s.cache.Status(profileName)
	if err != nil {
		return nil, &PostServiceError{
			Operation: "cache_status",
			Message:   "reading cache entry",
			Err:       err,
		}
	}
	return &CacheStatus{Cached: cached, AgeHours: ageHours}, nil
}

// ClearCache removes the trained profile for the name. Returns
// ErrCacheNotFound when nothing was cached.
func (s *PostService) ClearCache(profileName string) error {
	if strings.TrimSpace(profileName) == "" {
		return domain.MissingFieldError("profileName")
	}

	err := s.cache.Clear(profileName)
	if errors.Is(err, cache.ErrEntryNotFound) {
		return ErrCacheNotFound
	}
	if err != nil {
		return &PostServiceError{
			Operation: "clear_cache",
			Message:   "removing cache entry",
			Err:       err,
		}
	}
	return nil
}

// CacheTTL exposes the gate's freshness window for health reporting.
func (s *PostService) CacheTTL() time.Duration {
	return s.cache.TTL()
}

// generate runs the shared tail of both entry points: gather context,
// build the prompt, call the model, normalize.
func (s *PostService) generate(ctx context.Context, req domain.GenerationRequest, profile *domain.TrainedProfile) (string, error) {
	data := promptData{
		Idea:         req.Idea,
		DBContext:    s.dbContext(ctx),
		WebContext:   s.webContext(ctx, req),
		SimilarPosts: s.similarPosts(ctx, req, profile),
		Founder:      req.Founder,
		Company:      req.Company,
	}

	prompt, err := buildPrompt(data)
	if err != nil {
		return "", &PostServiceError{
			Operation: "generate",
			Message:   "building prompt",
			Err:       err,
		}
	}

	raw, err := s.generator.GeneratePost(ctx, prompt, req.Idea)
	if err != nil {
		return "", &PostServiceError{
			Operation: "generate",
			Message:   "invoking generator",
			Err:       err,
		}
	}

	return postprocess.Normalize(raw, req.Idea), nil
}

// rebuildProfile scrapes the feed, persists what it finds, and trains a
// fresh profile. Store insertion is best effort; training is not.
func (s *PostService) rebuildProfile(ctx context.Context, profileURL string) (*domain.TrainedProfile, error) {
	if s.scraper == nil {
		return nil, domain.ErrAcquisitionFailed
	}

	records, err := s.scraper.RecentPosts(ctx, profileURL)
	if err != nil {
		return nil, errors.Join(domain.ErrAcquisitionFailed, err)
	}

	if len(records) > 0 {
		inserted, skipped, err := s.store.Insert(ctx, records)
		if err != nil {
			s.logger.WarnContext(ctx, "failed to persist scraped posts",
				"error", err)
		} else {
			s.logger.InfoContext(ctx, "persisted scraped posts",
				"inserted", inserted,
				"skipped", skipped)
		}
	}

	return trainer.Train(records)
}

// dbContext joins the newest stored posts, or returns the sentinel.
func (s *PostService) dbContext(ctx context.Context) string {
	records, err := s.store.Recent(ctx, dbContextLimit)
	if err != nil {
		s.logger.WarnContext(ctx, "failed to fetch recent posts for context",
			"error", err)
		return noContext
	}

	contents := make([]string, 0, len(records))
	for _, rec := range records {
		if rec.Content != "" {
			contents = append(contents, rec.Content)
		}
	}
	if len(contents) == 0 {
		return noContext
	}
	return strings.Join(contents, " | ")
}

func (s *PostService) webContext(ctx context.Context, req domain.GenerationRequest) string {
	if s.web == nil {
		return noContext
	}
	return s.web.Snippets(ctx, req.ContextQuery())
}

// similarPosts surfaces the trained profile's nearest past posts for
// the idea. Empty when no profile is in play or nothing matches.
func (s *PostService) similarPosts(ctx context.Context, req domain.GenerationRequest, profile *domain.TrainedProfile) string {
	if profile == nil {
		return ""
	}

	idx, err := similarity.NewIndex(profile)
	if err != nil {
		return ""
	}

	matches := idx.Query(req.Idea, similarPostsLimit)
	if len(matches) == 0 {
		return ""
	}
	return strings.Join(matches, " | ")
}
