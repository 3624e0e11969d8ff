package cmd

import (
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/natefinch/lumberjack.v2"
	"vulnsweep.dev/pkg/vulnsweep/internal/controller"
)

const (
	configVersionKey     = "version"
	currentConfigVersion = 1

	configBaseName   = "vulnsweep"
	configFileName   = configBaseName + ".yaml"
	configFolderPath = "."

	outputFlagName        = "output"
	taskRequestFlagName   = "task-request"
	toolchainModeFlagName = "toolchain-mode"
	toolchainHomeFlagName = "toolchain-home"
	toolDirFlagName       = "tool-dir"
	verboseFlagName       = "verbose"
	logFileFlagName       = "log-file"

	scanSourceDirKey     = "scan.source_dir"
	scanTaskRequestKey   = "scan.task_request"
	scanToolchainModeKey = "scan.toolchain_mode"
	scanToolchainHomeKey = "scan.toolchain_home"
	scanToolDirKey       = "scan.tool_dir"
	scanTimeoutKey       = "scan.timeout"

	defaultReportFile     = "result.json"
	defaultSourceDir      = "."
	defaultToolchainMode  = "auto"
	defaultToolDir        = "."
	defaultScanTimeoutSec = 600

	envPrefix = "VULNSWEEP"

	logFilenameKey   = "log.filename"
	logLevelKey      = "log.level"
	logVerboseKey    = "log.verbose"
	logMaxSizeKey    = "log.max_size"
	logMaxBackupsKey = "log.max_backups"
	logMaxAgeKey     = "log.max_age"
	logCompressKey   = "log.compress"

	defaultLogFilename   = ".vulnsweep.log"
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
	viper.SetDefault(outputFlagName, defaultReportFile)
	viper.SetDefault(scanSourceDirKey, defaultSourceDir)
	viper.SetDefault(scanTaskRequestKey, "")
	viper.SetDefault(scanToolchainModeKey, defaultToolchainMode)
	viper.SetDefault(scanToolchainHomeKey, "")
	viper.SetDefault(scanToolDirKey, defaultToolDir)
	viper.SetDefault(scanTimeoutKey, defaultScanTimeoutSec)

	// Logging defaults (used by config/env and as fallbacks for flags).
	viper.SetDefault(logFilenameKey, defaultLogFilename)
	viper.SetDefault(logLevelKey, defaultLogLevel)
	viper.SetDefault(logVerboseKey, defaultLogVerbose)
	viper.SetDefault(logMaxSizeKey, defaultLogMaxSize)
	viper.SetDefault(logMaxBackupsKey, defaultLogMaxBackups)
	viper.SetDefault(logMaxAgeKey, defaultLogMaxAge)
	viper.SetDefault(logCompressKey, defaultLogCompress)

	bindContractEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return
		}

		return
	}
}

// bindContractEnv binds the unprefixed environment variables the tool has
// always consumed. AutomaticEnv keeps the VULNSWEEP_* spellings working next
// to these legacy names.
func bindContractEnv() {
	for key, env := range map[string]string{
		scanSourceDirKey:     "SOURCE_DIR",
		scanTaskRequestKey:   "TASK_REQUEST",
		scanToolchainModeKey: "GOVULNCHECK_MODEL",
		scanToolchainHomeKey: "GOVULNCHECK_HOME",
		scanTimeoutKey:       "GOVULNCHECK_TIMEOUT",
	} {
		_ = viper.BindEnv(key, env)
	}
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

// configureLogger configures the global slog logger.
//
// By default it logs at Info; if verbose is true it logs at Debug. Diagnostics
// go to a rotated file; when stderr is not a terminal they are mirrored there
// as well, so CI logs keep them.
func configureLogger(logPath string, verbose bool) {
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

	var logWriter io.Writer = &lumberjack.Logger{
		Filename:   logPath,
		MaxSize:    viper.GetInt(logMaxSizeKey),
		MaxBackups: viper.GetInt(logMaxBackupsKey),
		MaxAge:     viper.GetInt(logMaxAgeKey),
		Compress:   viper.GetBool(logCompressKey),
	}

	if !controller.IsTTY(os.Stderr) {
		logWriter = io.MultiWriter(os.Stderr, logWriter)
	}

	handler := slog.NewTextHandler(logWriter, &slog.HandlerOptions{
		AddSource: true,
		Level:     logLevel,
	})

	globalLogger = slog.New(handler)
	slog.SetDefault(globalLogger)
}
