package domain

// GenerationResult is the final artifact returned for a generation request:
// the normalized post text plus provenance metadata.
type GenerationResult struct {
	// Post is the final normalized post text. Never empty on success.
	Post string `json:"post"`

	// UsedCache reports whether the trained profile was served from cache.
	UsedCache bool `json:"used_cache"`

	// CacheAgeHours is the age of the cache entry in hours, or nil when no
	// entry existed before this request.
	CacheAgeHours *float64 `json:"cache_age_hours"`

	// GenerationTime is the wall-clock duration of the request in seconds.
	GenerationTime float64 `json:"generation_time_seconds"`
}
