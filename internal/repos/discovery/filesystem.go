package discovery

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/temirov/recompress/internal/repos/shared"
)

const (
	rootUnreadableMessageConstant       = "scan root unreadable"
	rootUnreadableErrorTemplateConstant = "%w: %s: %v"
	proberNotConfiguredMessageConstant  = "repository prober not configured"
)

var (
	// ErrRootUnreadable indicates that a scan root could not be opened or listed.
	ErrRootUnreadable = errors.New(rootUnreadableMessageConstant)
	// ErrProberNotConfigured indicates the scanner was constructed without a prober.
	ErrProberNotConfigured = errors.New(proberNotConfiguredMessageConstant)
)

// FilesystemRepositoryScanner locates git repositories by probing every node of a directory tree.
type FilesystemRepositoryScanner struct {
	prober RepositoryProber
}

// NewFilesystemRepositoryScanner constructs a scanner backed by filepath.WalkDir and the provided prober.
func NewFilesystemRepositoryScanner(prober RepositoryProber) (*FilesystemRepositoryScanner, error) {
	if prober == nil {
		return nil, ErrProberNotConfigured
	}
	return &FilesystemRepositoryScanner{prober: prober}, nil
}

// Scan walks root and returns each discovered repository once, in first-discovery order.
func (scanner *FilesystemRepositoryScanner) Scan(root string) ([]shared.RepositoryHandle, error) {
	return scanner.ScanRoots([]string{root}, nil)
}

// ScanRoots walks every root in order and deduplicates repositories across all of them.
// Traversal continues below discovered repositories so nested repositories are reported too.
// onDiscovered, when set, is invoked for each new repository before the walk moves on.
func (scanner *FilesystemRepositoryScanner) ScanRoots(roots []string, onDiscovered shared.RepositoryDiscoveredHandler) ([]shared.RepositoryHandle, error) {
	seen := make(map[shared.RepositoryHandle]struct{})
	repositories := []shared.RepositoryHandle{}

	for _, root := range roots {
		walkError := filepath.WalkDir(root, func(path string, directoryEntry fs.DirEntry, walkError error) error {
			if walkError != nil {
				if path == root {
					return fmt.Errorf(rootUnreadableErrorTemplateConstant, ErrRootUnreadable, root, walkError)
				}
				return nil
			}

			handle, found := scanner.prober.Probe(path)
			if !found {
				return nil
			}
			if _, alreadySeen := seen[handle]; alreadySeen {
				return nil
			}

			seen[handle] = struct{}{}
			repositories = append(repositories, handle)
			if onDiscovered != nil {
				onDiscovered(handle)
			}
			return nil
		})
		if walkError != nil {
			return nil, walkError
		}
	}

	return repositories, nil
}
