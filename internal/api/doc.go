// Package api implements the HTTP handlers for post generation and
// profile cache management, plus the error-to-status mapping that keeps
// internal failure details out of client responses.
package api
