// Package execshell provides structured helpers for invoking external tools.
//
// ShellExecutor wraps a CommandRunner with zap logging, optional per-command
// timeouts and lifecycle observers. OSCommandRunner is the default os/exec
// backed runner. Non-zero exits surface as CommandFailedError and launch
// failures as CommandExecutionError so callers can classify them with errors.As.
package execshell
