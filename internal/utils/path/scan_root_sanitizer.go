package pathutils

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

const windowsOperatingSystemConstant = "windows"

// ScanRootSanitizerConfiguration controls scan root sanitization behavior.
type ScanRootSanitizerConfiguration struct {
	// PruneNestedRoots drops roots that lie inside another root, since scanning the outer root visits them.
	PruneNestedRoots bool
}

// ScanRootSanitizer normalizes scan roots supplied on the command line or in configuration.
type ScanRootSanitizer struct {
	homeExpander  *HomeExpander
	configuration ScanRootSanitizerConfiguration
}

// NewScanRootSanitizer constructs a ScanRootSanitizer that prunes nested roots.
func NewScanRootSanitizer() *ScanRootSanitizer {
	return NewScanRootSanitizerWithConfiguration(nil, ScanRootSanitizerConfiguration{PruneNestedRoots: true})
}

// NewScanRootSanitizerWithConfiguration constructs a ScanRootSanitizer using the provided expander and configuration.
func NewScanRootSanitizerWithConfiguration(homeExpander *HomeExpander, configuration ScanRootSanitizerConfiguration) *ScanRootSanitizer {
	if homeExpander == nil {
		homeExpander = NewHomeExpander()
	}
	return &ScanRootSanitizer{homeExpander: homeExpander, configuration: configuration}
}

// Sanitize trims whitespace, expands the home directory, makes roots absolute and removes duplicates.
// The first occurrence of each root keeps its position. Nil is returned when nothing remains.
func (sanitizer *ScanRootSanitizer) Sanitize(candidateRoots []string) []string {
	sanitizedRoots := make([]string, 0, len(candidateRoots))
	seenComparisons := make(map[string]struct{}, len(candidateRoots))

	for _, candidateRoot := range candidateRoots {
		trimmedCandidate := strings.TrimSpace(candidateRoot)
		if len(trimmedCandidate) == 0 {
			continue
		}

		canonicalRoot := canonicalizePath(sanitizer.homeExpander.Expand(trimmedCandidate))
		comparison := comparisonPath(canonicalRoot)
		if _, duplicate := seenComparisons[comparison]; duplicate {
			continue
		}
		seenComparisons[comparison] = struct{}{}
		sanitizedRoots = append(sanitizedRoots, canonicalRoot)
	}

	if len(sanitizedRoots) == 0 {
		return nil
	}
	if sanitizer.configuration.PruneNestedRoots {
		return pruneNestedPaths(sanitizedRoots)
	}
	return sanitizedRoots
}

func pruneNestedPaths(roots []string) []string {
	prunedRoots := make([]string, 0, len(roots))
	for candidateIndex, candidateRoot := range roots {
		nested := false
		for otherIndex, otherRoot := range roots {
			if candidateIndex != otherIndex && isNestedPath(otherRoot, candidateRoot) {
				nested = true
				break
			}
		}
		if !nested {
			prunedRoots = append(prunedRoots, candidateRoot)
		}
	}
	return prunedRoots
}

func canonicalizePath(path string) string {
	cleanedPath := filepath.Clean(path)
	absolutePath, absoluteError := filepath.Abs(cleanedPath)
	if absoluteError == nil {
		return filepath.Clean(absolutePath)
	}
	return cleanedPath
}

func comparisonPath(path string) string {
	comparison := filepath.Clean(path)
	if runtime.GOOS == windowsOperatingSystemConstant {
		comparison = strings.ToLower(comparison)
	}
	return comparison
}

// isNestedPath reports whether candidate lies strictly below parent.
func isNestedPath(parent string, candidate string) bool {
	parentClean := comparisonPath(parent)
	candidateClean := comparisonPath(candidate)

	if len(candidateClean) <= len(parentClean) || !strings.HasPrefix(candidateClean, parentClean) {
		return false
	}
	if parentClean[len(parentClean)-1] == os.PathSeparator {
		return true
	}
	return candidateClean[len(parentClean)] == os.PathSeparator
}
