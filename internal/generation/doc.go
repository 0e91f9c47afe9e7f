// Package generation defines the interface and error taxonomy for
// text generation services used by the application core.
package generation
