package filesystem_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/recompress/internal/repos/filesystem"
)

func TestOSFileSystemResolvesSymlinks(testInstance *testing.T) {
	temporaryDirectory := testInstance.TempDir()
	targetDirectory := filepath.Join(temporaryDirectory, "target")
	require.NoError(testInstance, os.Mkdir(targetDirectory, 0o755))
	linkPath := filepath.Join(temporaryDirectory, "link")
	require.NoError(testInstance, os.Symlink(targetDirectory, linkPath))

	fileSystem := filesystem.OSFileSystem{}
	resolvedLink, resolveError := fileSystem.EvalSymlinks(linkPath)
	require.NoError(testInstance, resolveError)
	resolvedTarget, targetError := fileSystem.EvalSymlinks(targetDirectory)
	require.NoError(testInstance, targetError)
	require.Equal(testInstance, resolvedTarget, resolvedLink)
}

func TestOSFileSystemWritesFiles(testInstance *testing.T) {
	reportPath := filepath.Join(testInstance.TempDir(), "report.yaml")

	fileSystem := filesystem.OSFileSystem{}
	require.NoError(testInstance, fileSystem.WriteFile(reportPath, []byte("repositories: []\n"), 0o644))

	fileInfo, statError := fileSystem.Stat(reportPath)
	require.NoError(testInstance, statError)
	require.False(testInstance, fileInfo.IsDir())

	contents, readError := os.ReadFile(reportPath)
	require.NoError(testInstance, readError)
	require.Equal(testInstance, "repositories: []\n", string(contents))
}
