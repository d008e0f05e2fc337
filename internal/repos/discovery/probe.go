package discovery

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/storage/filesystem"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/temirov/recompress/internal/repos/shared"
)

const (
	// DefaultProbeCacheSizeConstant bounds the number of directories whose probe result is memoized.
	DefaultProbeCacheSizeConstant = 4096
	probeCacheSizeInvalidMessage  = "probe cache size must be positive"
	commonDirectoryFileName       = "commondir"
)

// ErrProbeCacheSizeInvalid indicates a non-positive probe cache size.
var ErrProbeCacheSizeInvalid = errors.New(probeCacheSizeInvalidMessage)

var requiredMetadataDirectoryNames = []string{"objects", "refs"}

// RepositoryProber resolves a filesystem path to the repository that contains it.
type RepositoryProber interface {
	Probe(path string) (shared.RepositoryHandle, bool)
}

type probeResult struct {
	handle shared.RepositoryHandle
	found  bool
}

// GitRepositoryProbe opens paths with go-git and reports the storage directory of the enclosing repository.
type GitRepositoryProbe struct {
	directoryResults *lru.Cache[string, probeResult]
}

// NewGitRepositoryProbe constructs a probe that memoizes up to cacheSize directory results.
func NewGitRepositoryProbe(cacheSize int) (*GitRepositoryProbe, error) {
	if cacheSize <= 0 {
		return nil, ErrProbeCacheSizeInvalid
	}
	directoryResults, cacheError := lru.New[string, probeResult](cacheSize)
	if cacheError != nil {
		return nil, cacheError
	}
	return &GitRepositoryProbe{directoryResults: directoryResults}, nil
}

// Probe returns the canonical metadata directory of the repository at or above path.
// Unreadable paths, dangling symlinks and paths outside any repository report false.
func (probe *GitRepositoryProbe) Probe(path string) (shared.RepositoryHandle, bool) {
	pathInfo, statError := os.Stat(path)
	if statError != nil {
		return shared.RepositoryHandle{}, false
	}

	directoryPath := path
	if !pathInfo.IsDir() {
		directoryPath = filepath.Dir(path)
	}

	if cachedResult, cached := probe.directoryResults.Get(directoryPath); cached {
		return cachedResult.handle, cachedResult.found
	}

	result := probeDirectory(directoryPath)
	probe.directoryResults.Add(directoryPath, result)
	return result.handle, result.found
}

func probeDirectory(directoryPath string) probeResult {
	storageRoot, found := openStorageRoot(directoryPath, false)
	if !found {
		storageRoot, found = openStorageRoot(directoryPath, true)
	}
	if !found {
		return probeResult{}
	}

	handle, handleError := canonicalHandle(storageRoot)
	if handleError != nil {
		return probeResult{}
	}
	return probeResult{handle: handle, found: true}
}

// openStorageRoot opens the directory with go-git and returns the metadata directory of the result.
// Without ancestor detection the directory itself must be a work tree root, a metadata directory or a
// bare repository; with detection the nearest enclosing work tree is used.
func openStorageRoot(directoryPath string, detectEnclosingRepository bool) (string, bool) {
	repository, openError := git.PlainOpenWithOptions(directoryPath, &git.PlainOpenOptions{DetectDotGit: detectEnclosingRepository})
	if openError != nil {
		return "", false
	}

	storage, isFilesystemStorage := repository.Storer.(*filesystem.Storage)
	if !isFilesystemStorage {
		return "", false
	}

	storageRoot := resolveCommonDirectory(storage.Filesystem().Root())
	if !isMetadataDirectory(storageRoot) {
		return "", false
	}
	return storageRoot, true
}

// resolveCommonDirectory maps the private metadata directory of a linked worktree onto the metadata
// directory it shares objects and references with. Other directories are returned unchanged.
func resolveCommonDirectory(storageRoot string) string {
	commonDirectoryContent, readError := os.ReadFile(filepath.Join(storageRoot, commonDirectoryFileName))
	if readError != nil {
		return storageRoot
	}
	commonDirectory := strings.TrimSpace(string(commonDirectoryContent))
	if len(commonDirectory) == 0 {
		return storageRoot
	}
	if !filepath.IsAbs(commonDirectory) {
		commonDirectory = filepath.Join(storageRoot, commonDirectory)
	}
	return filepath.Clean(commonDirectory)
}

// isMetadataDirectory rejects directories that merely contain a HEAD file, such as logs or remote
// reference namespaces inside a metadata directory.
func isMetadataDirectory(storageRoot string) bool {
	for _, requiredDirectoryName := range requiredMetadataDirectoryNames {
		directoryInfo, statError := os.Stat(filepath.Join(storageRoot, requiredDirectoryName))
		if statError != nil || !directoryInfo.IsDir() {
			return false
		}
	}
	return true
}

func canonicalHandle(storageRoot string) (shared.RepositoryHandle, error) {
	absolutePath, absoluteError := filepath.Abs(storageRoot)
	if absoluteError != nil {
		return shared.RepositoryHandle{}, absoluteError
	}
	resolvedPath, resolveError := filepath.EvalSymlinks(absolutePath)
	if resolveError != nil {
		return shared.RepositoryHandle{}, resolveError
	}
	return shared.NewRepositoryHandle(resolvedPath)
}
