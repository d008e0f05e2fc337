package discovery_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-git/go-git/v5"
	"github.com/stretchr/testify/require"

	"github.com/temirov/recompress/internal/repos/discovery"
)

func TestGitRepositoryProbeResolvesEnclosingRepository(testFramework *testing.T) {
	temporaryRootDirectory := testFramework.TempDir()
	repository := repositoryDefinition{directorySegments: []string{applicationRepositoryDirectoryName}}
	repositoryPath := repository.repositoryPath(temporaryRootDirectory)
	initializeRepository(testFramework, repositoryPath)
	expectedHandle := repository.expectedHandle(testFramework, temporaryRootDirectory)
	remoteReferencesPath := filepath.Join(repositoryPath, gitMetadataDirectoryName, "refs", "remotes", "origin")
	require.NoError(testFramework, os.MkdirAll(remoteReferencesPath, repositoryDirectoryPermissions))
	require.NoError(testFramework, os.WriteFile(filepath.Join(remoteReferencesPath, "HEAD"), []byte("ref: refs/remotes/origin/master\n"), repositoryFilePermissions))

	testCases := []struct {
		name string
		path string
	}{
		{name: "work_tree_root", path: repositoryPath},
		{name: "metadata_directory", path: filepath.Join(repositoryPath, gitMetadataDirectoryName)},
		{name: "metadata_subdirectory", path: filepath.Join(repositoryPath, gitMetadataDirectoryName, "refs")},
		{name: "metadata_file", path: filepath.Join(repositoryPath, gitMetadataDirectoryName, "HEAD")},
		{name: "remote_reference_namespace", path: remoteReferencesPath},
		{name: "work_tree_subdirectory", path: filepath.Join(repositoryPath, sourceDirectoryName)},
		{name: "work_tree_file", path: filepath.Join(repositoryPath, sourceDirectoryName, sourceFileName)},
	}

	probe, probeError := discovery.NewGitRepositoryProbe(discovery.DefaultProbeCacheSizeConstant)
	require.NoError(testFramework, probeError)

	for _, testCase := range testCases {
		testFramework.Run(testCase.name, func(testFramework *testing.T) {
			handle, found := probe.Probe(testCase.path)
			require.True(testFramework, found)
			require.Equal(testFramework, expectedHandle, handle)
		})
	}
}

func TestGitRepositoryProbeRejectsNonRepositories(testFramework *testing.T) {
	temporaryRootDirectory := testFramework.TempDir()
	plainDirectoryPath := filepath.Join(temporaryRootDirectory, developerDirectoryName)
	require.NoError(testFramework, os.MkdirAll(plainDirectoryPath, repositoryDirectoryPermissions))
	danglingLinkPath := filepath.Join(temporaryRootDirectory, "dangling")
	require.NoError(testFramework, os.Symlink(filepath.Join(temporaryRootDirectory, missingRootDirectoryName), danglingLinkPath))

	testCases := []struct {
		name string
		path string
	}{
		{name: "plain_directory", path: plainDirectoryPath},
		{name: "missing_path", path: filepath.Join(temporaryRootDirectory, missingRootDirectoryName)},
		{name: "dangling_symlink", path: danglingLinkPath},
	}

	probe, probeError := discovery.NewGitRepositoryProbe(discovery.DefaultProbeCacheSizeConstant)
	require.NoError(testFramework, probeError)

	for _, testCase := range testCases {
		testFramework.Run(testCase.name, func(testFramework *testing.T) {
			handle, found := probe.Probe(testCase.path)
			require.False(testFramework, found)
			require.True(testFramework, handle.IsZero())
		})
	}
}

func TestGitRepositoryProbeResolvesSymlinkedRepositories(testFramework *testing.T) {
	temporaryRootDirectory := testFramework.TempDir()
	repository := repositoryDefinition{directorySegments: []string{toolsRepositoryDirectoryName}}
	repositoryPath := repository.repositoryPath(temporaryRootDirectory)
	_, initError := git.PlainInit(repositoryPath, false)
	require.NoError(testFramework, initError)
	linkPath := filepath.Join(temporaryRootDirectory, "linked")
	require.NoError(testFramework, os.Symlink(repositoryPath, linkPath))

	probe, probeError := discovery.NewGitRepositoryProbe(discovery.DefaultProbeCacheSizeConstant)
	require.NoError(testFramework, probeError)

	directHandle, directFound := probe.Probe(repositoryPath)
	require.True(testFramework, directFound)
	linkedHandle, linkedFound := probe.Probe(linkPath)
	require.True(testFramework, linkedFound)
	require.Equal(testFramework, directHandle, linkedHandle)
}

func TestGitRepositoryProbeResolvesLinkedWorktrees(testFramework *testing.T) {
	temporaryRootDirectory := testFramework.TempDir()
	mainRepository := repositoryDefinition{directorySegments: []string{serviceRepositoryDirectoryName}}
	mainRepositoryPath := mainRepository.repositoryPath(temporaryRootDirectory)
	initializeRepository(testFramework, mainRepositoryPath)
	worktreePath := filepath.Join(temporaryRootDirectory, worktreeParentDirectoryName, worktreeDirectoryName)
	linkWorktree(testFramework, mainRepositoryPath, worktreePath)
	expectedHandle := mainRepository.expectedHandle(testFramework, temporaryRootDirectory)

	testCases := []struct {
		name string
		path string
	}{
		{name: "worktree_root", path: worktreePath},
		{name: "worktree_subdirectory", path: filepath.Join(worktreePath, sourceDirectoryName)},
		{name: "worktree_file", path: filepath.Join(worktreePath, sourceDirectoryName, sourceFileName)},
		{name: "private_metadata_directory", path: filepath.Join(mainRepositoryPath, gitMetadataDirectoryName, worktreesDirectoryName, worktreeDirectoryName)},
	}

	probe, probeError := discovery.NewGitRepositoryProbe(discovery.DefaultProbeCacheSizeConstant)
	require.NoError(testFramework, probeError)

	for _, testCase := range testCases {
		testFramework.Run(testCase.name, func(testFramework *testing.T) {
			handle, found := probe.Probe(testCase.path)
			require.True(testFramework, found)
			require.Equal(testFramework, expectedHandle, handle)
		})
	}
}

func TestNewGitRepositoryProbeRejectsInvalidCacheSize(testFramework *testing.T) {
	probe, probeError := discovery.NewGitRepositoryProbe(0)
	require.ErrorIs(testFramework, probeError, discovery.ErrProbeCacheSizeInvalid)
	require.Nil(testFramework, probe)
}
