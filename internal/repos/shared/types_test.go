package shared_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/recompress/internal/repos/shared"
)

func TestNewRepositoryHandle(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name          string
		input         string
		expected      string
		expectedError error
	}{
		{name: "valid_path", input: "/tmp/repo/.git", expected: "/tmp/repo/.git"},
		{name: "strips_whitespace", input: "   /tmp/repo/.git  ", expected: "/tmp/repo/.git"},
		{name: "cleans_path", input: "/tmp/repo/./.git/", expected: "/tmp/repo/.git"},
		{name: "rejects_empty", input: "  ", expectedError: shared.ErrRepositoryHandleEmpty},
		{name: "rejects_relative", input: "repo/.git", expectedError: shared.ErrRepositoryHandleRelative},
	}

	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			handle, err := shared.NewRepositoryHandle(testCase.input)
			if testCase.expectedError != nil {
				require.ErrorIs(t, err, testCase.expectedError)
				require.True(t, handle.IsZero())
				return
			}
			require.NoError(t, err)
			require.Equal(t, testCase.expected, handle.String())
		})
	}
}

func TestRepositoryHandleEquality(t *testing.T) {
	t.Parallel()

	first, firstErr := shared.NewRepositoryHandle("/tmp/repo/.git")
	require.NoError(t, firstErr)
	second, secondErr := shared.NewRepositoryHandle("/tmp/repo/.git/")
	require.NoError(t, secondErr)

	require.Equal(t, first, second)

	seen := map[shared.RepositoryHandle]struct{}{first: {}}
	_, duplicate := seen[second]
	require.True(t, duplicate)
}

func TestRepositoryHandleMarshalText(t *testing.T) {
	t.Parallel()

	handle, err := shared.NewRepositoryHandle("/tmp/repo/.git")
	require.NoError(t, err)

	text, marshalErr := handle.MarshalText()
	require.NoError(t, marshalErr)
	require.Equal(t, "/tmp/repo/.git", string(text))
}

func TestRepositoryHandleGitCommandDetails(t *testing.T) {
	t.Parallel()

	handle, err := shared.NewRepositoryHandle("/tmp/repo/.git")
	require.NoError(t, err)

	details := handle.GitCommandDetails("count-objects", "-v")
	require.Equal(t, []string{"count-objects", "-v"}, details.Arguments)
	require.Equal(t, "/tmp/repo/.git", details.WorkingDirectory)
	require.Equal(t, map[string]string{"GIT_DIR": "/tmp/repo/.git"}, details.EnvironmentVariables)
}
