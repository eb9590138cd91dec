// Package fsutil provides small filesystem collaborators.
package fsutil

import (
	"os"

	"github.com/vibe-stack/vcode-agents/internal/domain"
)

// Checker implements domain.FileChecker against the real filesystem.
type Checker struct{}

// NewChecker creates a Checker.
func NewChecker() Checker {
	return Checker{}
}

// Ensure Checker implements domain.FileChecker.
var _ domain.FileChecker = Checker{}

// Exists reports whether path exists.
func (Checker) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
