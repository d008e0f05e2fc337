package dependencies

import (
	"time"

	"go.uber.org/zap"

	"github.com/temirov/recompress/internal/execshell"
	"github.com/temirov/recompress/internal/repos/discovery"
	"github.com/temirov/recompress/internal/repos/filesystem"
	"github.com/temirov/recompress/internal/repos/shared"
)

// ResolveRepositoryScanner returns the provided scanner or a go-git backed filesystem scanner.
func ResolveRepositoryScanner(existing shared.RepositoryScanner) (shared.RepositoryScanner, error) {
	if existing != nil {
		return existing, nil
	}

	prober, proberError := discovery.NewGitRepositoryProbe(discovery.DefaultProbeCacheSizeConstant)
	if proberError != nil {
		return nil, proberError
	}
	scanner, scannerError := discovery.NewFilesystemRepositoryScanner(prober)
	if scannerError != nil {
		return nil, scannerError
	}
	return scanner, nil
}

// ResolveFileSystem returns the provided filesystem or an OS-backed default.
func ResolveFileSystem(existing shared.FileSystem) shared.FileSystem {
	if existing != nil {
		return existing
	}
	return filesystem.OSFileSystem{}
}

// ResolveGitExecutor returns the provided executor or constructs a shell-backed default.
// A non-zero commandTimeout bounds every git invocation.
func ResolveGitExecutor(existing shared.GitExecutor, logger *zap.Logger, observer execshell.CommandEventObserver, commandTimeout time.Duration) (shared.GitExecutor, error) {
	if existing != nil {
		return existing, nil
	}

	commandRunner := execshell.NewOSCommandRunner()
	shellExecutor, creationError := execshell.NewShellExecutor(
		logger,
		commandRunner,
		execshell.WithCommandEventObserver(observer),
		execshell.WithCommandTimeout(commandTimeout),
	)
	if creationError != nil {
		return nil, creationError
	}
	return shellExecutor, nil
}
