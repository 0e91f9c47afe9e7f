// Package config handles configuration loading and validation. Settings
// come from environment variables with the CELESTIAL prefix or an
// optional config.yaml, and are grouped by concern: server, database,
// cache, scraper, search, and LLM.
package config
