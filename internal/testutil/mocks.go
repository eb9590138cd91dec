// Package testutil provides shared test utilities and mock implementations.
package testutil

import (
	"time"

	"github.com/vibe-stack/vcode-agents/internal/domain"
)

// MockClock is a test double for domain.Clock.
type MockClock struct {
	NowTime time.Time
}

// Now returns the configured time.
func (m *MockClock) Now() time.Time {
	return m.NowTime
}

// Advance moves the clock forward.
func (m *MockClock) Advance(d time.Duration) {
	m.NowTime = m.NowTime.Add(d)
}

// MockFileChecker is a test double for domain.FileChecker. Paths present
// in Files exist; when Files is nil every path exists.
type MockFileChecker struct {
	Files map[string]bool
}

// Exists reports whether the path exists.
func (m *MockFileChecker) Exists(path string) bool {
	if m.Files == nil {
		return true
	}
	return m.Files[path]
}

// RemoveCall records one WorktreeRemove invocation.
type RemoveCall struct {
	Path  string
	Force bool
}

// MockGitRunner is a test double for domain.GitRunner.
// Fields are ordered to minimize memory padding.
type MockGitRunner struct {
	AddErr         error
	RemoveErr      error // Returned for non-forced removes
	RemoveForceErr error // Returned for forced removes
	ListErr        error
	ListInfos      []domain.WorktreeInfo
	AddCalls       []string // Paths passed to WorktreeAdd
	RemoveCalls    []RemoveCall
}

// WorktreeAdd records the call and returns AddErr.
func (m *MockGitRunner) WorktreeAdd(_, path, _ string) error {
	m.AddCalls = append(m.AddCalls, path)
	return m.AddErr
}

// WorktreeRemove records the call and returns the configured error.
func (m *MockGitRunner) WorktreeRemove(_, path string, force bool) error {
	m.RemoveCalls = append(m.RemoveCalls, RemoveCall{Path: path, Force: force})
	if force {
		return m.RemoveForceErr
	}
	return m.RemoveErr
}

// WorktreeList returns the configured list.
func (m *MockGitRunner) WorktreeList(string) ([]domain.WorktreeInfo, error) {
	return m.ListInfos, m.ListErr
}

// MockRepoInspector is a test double for domain.RepoInspector.
type MockRepoInspector struct {
	ValidateErr     error
	BranchExistsErr error
	BranchExistsVal bool
}

// Validate returns the configured error.
func (m *MockRepoInspector) Validate(string) error {
	return m.ValidateErr
}

// BranchExists returns the configured result.
func (m *MockRepoInspector) BranchExists(string, string) (bool, error) {
	return m.BranchExistsVal, m.BranchExistsErr
}

// MockCapturer is a test double for domain.StateCapturer.
type MockCapturer struct {
	Err   error
	Blob  domain.StateBlob
	Calls int
}

// Capture returns the configured blob.
func (m *MockCapturer) Capture() (domain.StateBlob, error) {
	m.Calls++
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Blob, nil
}

// MockRestorer is a test double for domain.StateRestorer. FailAt makes the
// restore with that 1-based call number fail with Err.
type MockRestorer struct {
	Err      error
	Restored []domain.StateBlob
	FailAt   int
}

// Restore records the blob, failing at the configured call.
func (m *MockRestorer) Restore(blob domain.StateBlob) error {
	call := len(m.Restored) + 1
	if m.FailAt > 0 && call == m.FailAt {
		return m.Err
	}
	m.Restored = append(m.Restored, blob)
	return nil
}
