package cmd

import (
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/natefinch/lumberjack.v2"

	"wavedig.dev/pkg/wavedig/internal/controller"
	"wavedig.dev/pkg/wavedig/internal/domain/dialects"
)

const (
	configVersionKey     = "version"
	currentConfigVersion = 1

	configBaseName   = "wavedig"
	configFileName   = configBaseName + ".yaml"
	configFolderPath = "."

	dialectFlagName = "dialect"
	formatFlagName  = "format"
	logFileFlagName = "log-file"
	verboseFlagName = "verbose"

	batchParallelFlagName = "parallel"
	lenientFlagName       = "lenient"

	dialectConfigKey       = "dialect"
	formatConfigKey        = "format"
	batchParallelConfigKey = "batch.parallel"
	lenientConfigKey       = "query.lenient"
	telemetryEnabledKey    = "telemetry.enabled"

	defaultDialect          = dialects.StandardName
	defaultFormat           = string(controller.FormatTable)
	defaultBatchParallel    = 4
	defaultLenient          = false
	defaultTelemetryEnabled = false

	envPrefix = "WAVEDIG"

	logFilenameKey   = "log.filename"
	logLevelKey      = "log.level"
	logVerboseKey    = "log.verbose"
	logMaxSizeKey    = "log.max_size"
	logMaxBackupsKey = "log.max_backups"
	logMaxAgeKey     = "log.max_age"
	logCompressKey   = "log.compress"

	defaultLogFilename   = ".wavedig.log"
	defaultLogLevel      = int(slog.LevelInfo)
	defaultLogVerbose    = false
	defaultLogMaxSize    = 10
	defaultLogMaxBackups = 3
	defaultLogMaxAge     = 28
	defaultLogCompress   = true
)

var globalLogger *slog.Logger

func init() {
	viper.SetConfigName(configBaseName)
	viper.SetConfigType("yaml")
	viper.AddConfigPath(configFolderPath)
	viper.SetConfigFile(filepath.Join(configFolderPath, configFileName))
	viper.AutomaticEnv()
	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))

	viper.SetDefault(configVersionKey, currentConfigVersion)
	viper.SetDefault(dialectConfigKey, defaultDialect)
	viper.SetDefault(formatConfigKey, defaultFormat)
	viper.SetDefault(batchParallelConfigKey, defaultBatchParallel)
	viper.SetDefault(lenientConfigKey, defaultLenient)
	viper.SetDefault(telemetryEnabledKey, defaultTelemetryEnabled)

	// Logging defaults (used by config/env and as fallbacks for flags).
	viper.SetDefault(logFilenameKey, defaultLogFilename)
	viper.SetDefault(logLevelKey, defaultLogLevel)
	viper.SetDefault(logVerboseKey, defaultLogVerbose)
	viper.SetDefault(logMaxSizeKey, defaultLogMaxSize)
	viper.SetDefault(logMaxBackupsKey, defaultLogMaxBackups)
	viper.SetDefault(logMaxAgeKey, defaultLogMaxAge)
	viper.SetDefault(logCompressKey, defaultLogCompress)

	readConfigFile()
}

// readConfigFile loads wavedig.yaml when present. A missing file is normal; any
// other failure is reported and the defaults, env and flags stay in charge.
func readConfigFile() {
	err := viper.ReadInConfig()
	if err == nil {
		return
	}

	var notFound viper.ConfigFileNotFoundError
	if errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist) {
		return
	}

	slog.Warn("Ignoring unreadable config file", "file", viper.ConfigFileUsed(), "error", err)
}

// configuredFormat returns the output format from flags, env or config.
// Unknown values fall back to table; they are rejected earlier by validateOutput.
func configuredFormat() controller.Format {
	format, err := controller.ParseFormat(viper.GetString(formatConfigKey))
	if err != nil {
		return controller.FormatTable
	}

	return format
}

func validateOutput() error {
	if _, err := controller.ParseFormat(viper.GetString(formatConfigKey)); err != nil {
		return err
	}

	_, err := dialects.Lookup(viper.GetString(dialectConfigKey))

	return err
}

func parseSlogLevel(value string, defaultLevel slog.Level) slog.Level {
	level := strings.ToLower(strings.TrimSpace(value))
	if level == "" {
		return defaultLevel
	}

	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}

	// Allow numeric slog levels as well (e.g. -4 for debug).
	if n, err := strconv.Atoi(level); err == nil {
		return slog.Level(n)
	}

	return defaultLevel
}

// configureLogger configures the global slog logger and returns the rotating
// writer behind it so telemetry can share the same sink.
//
// By default it logs at Info; if verbose is true it logs at Debug.
func configureLogger(logPath string, verbose bool) io.Writer {
	if strings.TrimSpace(logPath) == "" {
		logPath = viper.GetString(logFilenameKey)
	}

	if strings.TrimSpace(logPath) == "" {
		logPath = defaultLogFilename
	}

	var logLevel slog.Level
	if verbose {
		logLevel = slog.LevelDebug
	} else {
		logLevel = parseSlogLevel(viper.GetString(logLevelKey), slog.LevelInfo)
	}

	logWriter := &lumberjack.Logger{
		Filename:   logPath,
		MaxSize:    viper.GetInt(logMaxSizeKey),
		MaxBackups: viper.GetInt(logMaxBackupsKey),
		MaxAge:     viper.GetInt(logMaxAgeKey),
		Compress:   viper.GetBool(logCompressKey),
	}

	handler := slog.NewTextHandler(logWriter, &slog.HandlerOptions{
		AddSource: true,
		Level:     logLevel,
	})

	globalLogger = slog.New(handler)
	slog.SetDefault(globalLogger)

	return logWriter
}
