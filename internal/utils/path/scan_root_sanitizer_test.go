package pathutils_test

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	pathutils "github.com/temirov/recompress/internal/utils/path"
)

const (
	testCaseTildeRelativePathConstant = "Projects/example"
	testCaseWhitespacePrefixConstant  = "  "
	testCaseWhitespaceSuffixConstant  = "\t"
	testHomeDirectoryConstant         = "/home/tester"
)

func newTestHomeExpander() *pathutils.HomeExpander {
	return pathutils.NewHomeExpanderWithProvider(func() (string, error) {
		return testHomeDirectoryConstant, nil
	})
}

func TestScanRootSanitizerNormalizesInputs(testInstance *testing.T) {
	temporaryDirectory := testInstance.TempDir()
	siblingDirectory := filepath.Join(temporaryDirectory, "sibling")
	nestedDirectory := filepath.Join(temporaryDirectory, "outer", "inner")
	outerDirectory := filepath.Join(temporaryDirectory, "outer")
	tildeInput := filepath.Join("~", testCaseTildeRelativePathConstant)
	expandedTilde := filepath.Join(testHomeDirectoryConstant, testCaseTildeRelativePathConstant)

	testCases := []struct {
		name            string
		configuration   pathutils.ScanRootSanitizerConfiguration
		inputs          []string
		expectedOutputs []string
	}{
		{
			name: "trims_and_expands",
			inputs: []string{
				"",
				testCaseWhitespacePrefixConstant + siblingDirectory + testCaseWhitespaceSuffixConstant,
				testCaseWhitespacePrefixConstant + tildeInput + testCaseWhitespaceSuffixConstant,
			},
			expectedOutputs: []string{siblingDirectory, expandedTilde},
		},
		{
			name:            "removes_duplicates",
			inputs:          []string{siblingDirectory, siblingDirectory + "/", filepath.Join(siblingDirectory, ".")},
			expectedOutputs: []string{siblingDirectory},
		},
		{
			name:            "keeps_nested_roots_without_pruning",
			inputs:          []string{nestedDirectory, outerDirectory},
			expectedOutputs: []string{nestedDirectory, outerDirectory},
		},
		{
			name:            "prunes_nested_roots",
			configuration:   pathutils.ScanRootSanitizerConfiguration{PruneNestedRoots: true},
			inputs:          []string{nestedDirectory, siblingDirectory, outerDirectory},
			expectedOutputs: []string{siblingDirectory, outerDirectory},
		},
		{
			name:            "does_not_treat_prefix_siblings_as_nested",
			configuration:   pathutils.ScanRootSanitizerConfiguration{PruneNestedRoots: true},
			inputs:          []string{outerDirectory, outerDirectory + "-archive"},
			expectedOutputs: []string{outerDirectory, outerDirectory + "-archive"},
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(subTest *testing.T) {
			sanitizer := pathutils.NewScanRootSanitizerWithConfiguration(newTestHomeExpander(), testCase.configuration)
			require.Equal(subTest, testCase.expectedOutputs, sanitizer.Sanitize(testCase.inputs))
		})
	}
}

func TestScanRootSanitizerReturnsNilForEmptyResults(testInstance *testing.T) {
	sanitizer := pathutils.NewScanRootSanitizer()
	require.Nil(testInstance, sanitizer.Sanitize([]string{"   ", "\n"}))
}

func TestScanRootSanitizerMakesRelativeRootsAbsolute(testInstance *testing.T) {
	sanitizer := pathutils.NewScanRootSanitizer()
	sanitized := sanitizer.Sanitize([]string{"."})
	require.Len(testInstance, sanitized, 1)
	require.True(testInstance, filepath.IsAbs(sanitized[0]))
}

func TestHomeExpanderExpandsTildePrefixes(testInstance *testing.T) {
	testCases := []struct {
		name         string
		input        string
		expectedPath string
	}{
		{name: "bare_tilde", input: "~", expectedPath: testHomeDirectoryConstant},
		{name: "tilde_prefix", input: "~/src", expectedPath: filepath.Join(testHomeDirectoryConstant, "src")},
		{name: "other_user_untouched", input: "~other/src", expectedPath: "~other/src"},
		{name: "absolute_untouched", input: "/srv/git", expectedPath: "/srv/git"},
	}

	expander := newTestHomeExpander()
	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(subTest *testing.T) {
			require.Equal(subTest, testCase.expectedPath, expander.Expand(testCase.input))
		})
	}
}

func TestHomeExpanderLeavesPathWhenHomeUnknown(testInstance *testing.T) {
	expander := pathutils.NewHomeExpanderWithProvider(func() (string, error) {
		return "", errors.New("no home")
	})
	require.Equal(testInstance, "~/src", expander.Expand("~/src"))
}
