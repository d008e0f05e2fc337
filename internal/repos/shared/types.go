package shared

import (
	"context"
	"errors"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/temirov/recompress/internal/execshell"
)

const (
	gitDirectoryEnvironmentVariableConstant = "GIT_DIR"
	repositoryHandleEmptyMessageConstant    = "repository handle must not be empty"
	repositoryHandleRelativeMessageConstant = "repository handle must be an absolute path"
)

var (
	// ErrRepositoryHandleEmpty indicates a blank repository handle.
	ErrRepositoryHandleEmpty = errors.New(repositoryHandleEmptyMessageConstant)
	// ErrRepositoryHandleRelative indicates a repository handle that is not absolute.
	ErrRepositoryHandleRelative = errors.New(repositoryHandleRelativeMessageConstant)
)

// RepositoryHandle is the canonical absolute path of a repository's git metadata directory.
// Two handles are equal exactly when they identify the same repository.
type RepositoryHandle struct {
	path string
}

// NewRepositoryHandle validates and cleans a canonical metadata directory path.
func NewRepositoryHandle(path string) (RepositoryHandle, error) {
	trimmedPath := strings.TrimSpace(path)
	if len(trimmedPath) == 0 {
		return RepositoryHandle{}, ErrRepositoryHandleEmpty
	}
	if !filepath.IsAbs(trimmedPath) {
		return RepositoryHandle{}, ErrRepositoryHandleRelative
	}
	return RepositoryHandle{path: filepath.Clean(trimmedPath)}, nil
}

// String returns the metadata directory path.
func (handle RepositoryHandle) String() string {
	return handle.path
}

// IsZero reports whether the handle was never initialized.
func (handle RepositoryHandle) IsZero() bool {
	return len(handle.path) == 0
}

// MarshalText renders the handle for YAML and other text encoders.
func (handle RepositoryHandle) MarshalText() ([]byte, error) {
	return []byte(handle.path), nil
}

// GitCommandDetails scopes a git invocation to the repository: it runs inside the metadata
// directory with GIT_DIR pointing at it.
func (handle RepositoryHandle) GitCommandDetails(arguments ...string) execshell.CommandDetails {
	return execshell.CommandDetails{
		Arguments:            arguments,
		WorkingDirectory:     handle.path,
		EnvironmentVariables: map[string]string{gitDirectoryEnvironmentVariableConstant: handle.path},
	}
}

// GitExecutor exposes the subset of shell execution used by accounting and compaction.
type GitExecutor interface {
	ExecuteGit(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// RepositoryDiscoveredHandler receives each repository as soon as a scan first encounters it.
type RepositoryDiscoveredHandler func(repository RepositoryHandle)

// RepositoryScanner enumerates the repositories beneath one or more roots.
// A nil handler is permitted.
type RepositoryScanner interface {
	ScanRoots(roots []string, onDiscovered RepositoryDiscoveredHandler) ([]RepositoryHandle, error)
}

// FileSystem abstracts the filesystem operations used outside of discovery.
type FileSystem interface {
	Abs(path string) (string, error)
	EvalSymlinks(path string) (string, error)
	Stat(path string) (fs.FileInfo, error)
	WriteFile(path string, data []byte, permissions fs.FileMode) error
}
