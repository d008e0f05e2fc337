package recompress

import (
	"strings"
	"time"

	"github.com/temirov/recompress/internal/compaction"
)

const (
	configurationRootsKeyConstant          = "roots"
	configurationDryRunKeyConstant         = "dry_run"
	configurationReflogExpiryKeyConstant   = "reflog_expiry"
	configurationCommandTimeoutKeyConstant = "command_timeout"
	configurationReportFileKeyConstant     = "report_file"
	configurationKeySeparatorConstant      = "."
	defaultRepositoryRootConstant          = "."
)

// CommandConfiguration captures persistent settings for the recompress and measure commands.
type CommandConfiguration struct {
	RepositoryRoots []string      `mapstructure:"roots"`
	DryRun          bool          `mapstructure:"dry_run"`
	ReflogExpiry    string        `mapstructure:"reflog_expiry"`
	CommandTimeout  time.Duration `mapstructure:"command_timeout"`
	ReportFile      string        `mapstructure:"report_file"`
}

// DefaultCommandConfiguration returns baseline configuration values.
func DefaultCommandConfiguration() CommandConfiguration {
	return CommandConfiguration{
		RepositoryRoots: []string{defaultRepositoryRootConstant},
		DryRun:          false,
		ReflogExpiry:    compaction.DefaultReflogExpiryConstant,
		CommandTimeout:  0,
		ReportFile:      "",
	}
}

// DefaultConfigurationValues produces Viper defaults keyed beneath rootKey.
func DefaultConfigurationValues(rootKey string) map[string]any {
	defaults := DefaultCommandConfiguration()
	prefix := rootKey + configurationKeySeparatorConstant
	return map[string]any{
		prefix + configurationRootsKeyConstant:          defaults.RepositoryRoots,
		prefix + configurationDryRunKeyConstant:         defaults.DryRun,
		prefix + configurationReflogExpiryKeyConstant:   defaults.ReflogExpiry,
		prefix + configurationCommandTimeoutKeyConstant: defaults.CommandTimeout.String(),
		prefix + configurationReportFileKeyConstant:     defaults.ReportFile,
	}
}

// sanitize trims values and restores defaults for empty roots and reflog expiry.
func (configuration CommandConfiguration) sanitize() CommandConfiguration {
	sanitized := configuration
	sanitized.ReflogExpiry = strings.TrimSpace(configuration.ReflogExpiry)
	if len(sanitized.ReflogExpiry) == 0 {
		sanitized.ReflogExpiry = compaction.DefaultReflogExpiryConstant
	}
	sanitized.ReportFile = strings.TrimSpace(configuration.ReportFile)
	if sanitized.CommandTimeout < 0 {
		sanitized.CommandTimeout = 0
	}

	sanitized.RepositoryRoots = nil
	for _, root := range configuration.RepositoryRoots {
		trimmedRoot := strings.TrimSpace(root)
		if len(trimmedRoot) > 0 {
			sanitized.RepositoryRoots = append(sanitized.RepositoryRoots, trimmedRoot)
		}
	}
	if len(sanitized.RepositoryRoots) == 0 {
		sanitized.RepositoryRoots = []string{defaultRepositoryRootConstant}
	}
	return sanitized
}
