// Package gitrepo answers repository-level questions via go-git.
package gitrepo

import (
	"errors"
	"fmt"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"

	"github.com/vibe-stack/vcode-agents/internal/domain"
)

// Inspector validates repositories and checks branch existence without
// spawning git processes.
type Inspector struct{}

// NewInspector creates a new Inspector.
func NewInspector() *Inspector {
	return &Inspector{}
}

// Ensure Inspector implements domain.RepoInspector.
var _ domain.RepoInspector = (*Inspector)(nil)

// Validate checks that path is the root of a git repository.
func (i *Inspector) Validate(path string) error {
	if _, err := git.PlainOpen(path); err != nil {
		if errors.Is(err, git.ErrRepositoryNotExists) {
			return domain.ErrNotGitRepository
		}
		return fmt.Errorf("open repository: %w", err)
	}
	return nil
}

// BranchExists checks if a local branch exists in the repository at path.
func (i *Inspector) BranchExists(path, branch string) (bool, error) {
	repo, err := git.PlainOpen(path)
	if err != nil {
		if errors.Is(err, git.ErrRepositoryNotExists) {
			return false, domain.ErrNotGitRepository
		}
		return false, fmt.Errorf("open repository: %w", err)
	}

	_, err = repo.Reference(plumbing.NewBranchReferenceName(branch), true)
	if err != nil {
		if errors.Is(err, plumbing.ErrReferenceNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("resolve branch %q: %w", branch, err)
	}
	return true, nil
}
