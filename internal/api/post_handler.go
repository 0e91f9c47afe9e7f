package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/celestial/post-api/internal/api/shared"
	"github.com/celestial/post-api/internal/domain"
	"github.com/celestial/post-api/internal/service"
)

// GenerateRequest represents the request body for generating a post.
type GenerateRequest struct {
	ProfileURL   string `json:"profileUrl"   validate:"required"`
	ProfileName  string `json:"profileName"  validate:"required"`
	Criteria     string `json:"criteria"     validate:"required"`
	Founder      string `json:"founder"`
	Company      string `json:"company"`
	ForceRefresh bool   `json:"forceRefresh"`
}

// CacheRequest represents the request body for the cache endpoints.
type CacheRequest struct {
	ProfileName string `json:"profileName" validate:"required"`
}

// Meta carries generation metadata alongside the post text.
type Meta struct {
	UsedCache      bool     `json:"used_cache"`
	CacheAgeHours  *float64 `json:"cache_age_hours"`
	GenerationTime float64  `json:"generation_time_seconds"`
}

// GenerateResponse is the success body for POST /api/generate.
type GenerateResponse struct {
	Success bool   `json:"success"`
	Post    string `json:"post"`
	Meta    Meta   `json:"meta"`
}

// CacheStatusResponse is the success body for POST /api/cache-status.
type CacheStatusResponse struct {
	Success       bool     `json:"success"`
	Cached        bool     `json:"cached"`
	CacheAgeHours *float64 `json:"cache_age_hours"`
}

// ClearCacheResponse is the success body for POST /api/clear-cache.
type ClearCacheResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// HealthResponse is the body for GET /health.
type HealthResponse struct {
	Status             string    `json:"status"`
	Timestamp          time.Time `json:"timestamp"`
	CacheDurationHours float64   `json:"cache_duration_hours"`
}

// PostGenerator is the slice of the post service the handlers depend on.
type PostGenerator interface {
	Generate(ctx context.Context, profileURL, profileName string,
		req domain.GenerationRequest, forceRefresh bool) (*domain.GenerationResult, error)
	CacheStatus(profileName string) (*service.CacheStatus, error)
	ClearCache(profileName string) error
	CacheTTL() time.Duration
}

// PostHandler handles post generation HTTP requests.
type PostHandler struct {
	service   PostGenerator
	validator *validator.Validate
}

// NewPostHandler creates a new PostHandler.
func NewPostHandler(svc PostGenerator) *PostHandler {
	return &PostHandler{
		service:   svc,
		validator: validator.New(),
	}
}

// Generate handles POST /api/generate requests.
func (h *PostHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req GenerateRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Missing required fields")
		return
	}

	genReq, err := domain.NewGenerationRequest(req.Criteria, req.Founder, req.Company)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	result, err := h.service.Generate(r.Context(), req.ProfileURL, req.ProfileName, genReq, req.ForceRefresh)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, GenerateResponse{
		Success: true,
		Post:    result.Post,
		Meta: Meta{
			UsedCache:      result.UsedCache,
			CacheAgeHours:  result.CacheAgeHours,
			GenerationTime: result.GenerationTime,
		},
	})
}

// CacheStatus handles POST /api/cache-status requests.
func (h *PostHandler) CacheStatus(w http.ResponseWriter, r *http.Request) {
	var req CacheRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Missing profile name")
		return
	}

	status, err := h.service.CacheStatus(req.ProfileName)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, CacheStatusResponse{
		Success:       true,
		Cached:        status.Cached,
		CacheAgeHours: status.AgeHours,
	})
}

// ClearCache handles POST /api/clear-cache requests.
func (h *PostHandler) ClearCache(w http.ResponseWriter, r *http.Request) {
	var req CacheRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Missing profile name")
		return
	}

	if err := h.service.ClearCache(req.ProfileName); err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, ClearCacheResponse{
		Success: true,
		Message: "Cache cleared.",
	})
}

// Health handles GET /health requests.
func (h *PostHandler) Health(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithJSON(w, r, http.StatusOK, HealthResponse{
		Status:             "ok",
		Timestamp:          time.Now().UTC(),
		CacheDurationHours: h.service.CacheTTL().Hours(),
	})
}
