// Package utils exposes reusable helpers consumed by the CLI.
//
// It houses ConfigurationLoader, which layers embedded defaults, configuration files, dotenv files and
// environment variables through Viper, LoggerFactory, which builds zap loggers, and FlushingWriter for
// incremental report output.
package utils
