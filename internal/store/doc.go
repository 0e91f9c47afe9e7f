// Package store defines the persistence interfaces and error types for
// scraped content records. Concrete implementations live under
// internal/platform.
package store
