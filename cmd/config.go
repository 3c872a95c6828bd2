package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/natefinch/lumberjack.v2"

	"evaldriver.dev/pkg/evaldriver/internal/domain"
	m "evaldriver.dev/pkg/evaldriver/internal/model"
)

const (
	configVersionKey     = "version"
	currentConfigVersion = 1

	configBaseName   = "evaldriver"
	configFileName   = configBaseName + ".yaml"
	configFolderPath = "."

	envPrefix = "EVALDRIVER"

	directoryFlagName       = "directory"
	outputFlagName          = "output"
	fragmentsFlagName       = "fragments"
	runParallelFlagName     = "parallel"
	checkTimeoutFlagName    = "check-timeout"
	errMsgTimeoutFlagName   = "err-msg-timeout"
	buildTimeoutFlagName    = "build-timeout"
	versionFilterFlagName   = "version-filter"
	onlyPropertyFlagName    = "only-property"
	onlyFlagName            = "only"
	noEditsFlagName         = "no-edits"
	templatesFlagName       = "emv"
	checkerFlagName         = "checker"
	logFileFlagName         = "log-file"
	verboseFlagName         = "verbose"
	verboseCommandsFlagName = "verbose-commands"
	runIDFlagName           = "run"
	listRunsFlagName        = "list"

	directoryConfigKey       = "directory"
	outputConfigKey          = "output"
	fragmentsConfigKey       = "fragments"
	runParallelConfigKey     = "run.parallel"
	checkTimeoutConfigKey    = "run.check_timeout"
	errMsgTimeoutConfigKey   = "run.err_msg_timeout"
	buildTimeoutConfigKey    = "run.build_timeout"
	versionsConfigKey        = "matrix.versions"
	propertiesConfigKey      = "matrix.properties"
	onlyConfigKey            = "matrix.only"
	noEditsConfigKey         = "matrix.no_edits"
	templatesConfigKey       = "matrix.templates"
	checkerConfigKey         = "matrix.checker"
	builderConfigKey         = "tools.builder"
	solverConfigKey          = "tools.solver"
	nativeCheckerConfigKey   = "tools.native_checker"
	verboseCommandsConfigKey = "verbose_commands"

	defaultDirectory     = ".."
	defaultOutputDir     = "verification"
	defaultFragmentsDir  = "frg"
	defaultRunParallel   = 1
	defaultCheckTimeout  = 10 * time.Minute
	defaultErrMsgTimeout = time.Hour
	defaultBuildTimeout  = time.Hour

	logFilenameKey   = "log.filename"
	logLevelKey      = "log.level"
	logVerboseKey    = "log.verbose"
	logMaxSizeKey    = "log.max_size"
	logMaxBackupsKey = "log.max_backups"
	logMaxAgeKey     = "log.max_age"
	logCompressKey   = "log.compress"

	defaultLogFilename   = ".evaldriver.log"
	defaultLogLevel      = int(slog.LevelInfo)
	defaultLogVerbose    = false
	defaultLogMaxSize    = 10
	defaultLogMaxBackups = 3
	defaultLogMaxAge     = 28
	defaultLogCompress   = true
)

var globalLogger *slog.Logger

var flagAliases = map[string]string{
	"property-versions": versionFilterFlagName,
	"parallelism":       runParallelFlagName,
	"output-directory":  outputFlagName,
	"forge-source-dir":  fragmentsFlagName,
	"prop-type":         checkerFlagName,
}

var errInvalidTimeout = errors.New("invalid timeout")

func init() {
	viper.SetConfigName(configBaseName)
	viper.SetConfigType("yaml")
	viper.AddConfigPath(configFolderPath)
	viper.SetConfigFile(filepath.Join(configFolderPath, configFileName))
	viper.AutomaticEnv()
	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))

	setConfigDefaults()

	// A missing or unreadable config file leaves the defaults in place.
	_ = viper.ReadInConfig()
}

func setConfigDefaults() {
	tools := domain.DefaultTools()

	viper.SetDefault(configVersionKey, currentConfigVersion)
	viper.SetDefault(directoryConfigKey, defaultDirectory)
	viper.SetDefault(outputConfigKey, defaultOutputDir)
	viper.SetDefault(fragmentsConfigKey, defaultFragmentsDir)
	viper.SetDefault(runParallelConfigKey, defaultRunParallel)
	viper.SetDefault(checkTimeoutConfigKey, defaultCheckTimeout.String())
	viper.SetDefault(errMsgTimeoutConfigKey, defaultErrMsgTimeout.String())
	viper.SetDefault(buildTimeoutConfigKey, defaultBuildTimeout.String())
	viper.SetDefault(versionsConfigKey, m.VersionNames(m.KnownVersions))
	viper.SetDefault(propertiesConfigKey, []string{})
	viper.SetDefault(onlyConfigKey, []string{})
	viper.SetDefault(noEditsConfigKey, false)
	viper.SetDefault(templatesConfigKey, templateNames(m.AllTemplates))
	viper.SetDefault(checkerConfigKey, "")
	viper.SetDefault(builderConfigKey, tools.Builder)
	viper.SetDefault(solverConfigKey, tools.Solver)
	viper.SetDefault(nativeCheckerConfigKey, tools.NativeChecker)
	viper.SetDefault(verboseCommandsConfigKey, false)

	// Logging defaults (used by config/env and as fallbacks for flags).
	viper.SetDefault(logFilenameKey, defaultLogFilename)
	viper.SetDefault(logLevelKey, defaultLogLevel)
	viper.SetDefault(logVerboseKey, defaultLogVerbose)
	viper.SetDefault(logMaxSizeKey, defaultLogMaxSize)
	viper.SetDefault(logMaxBackupsKey, defaultLogMaxBackups)
	viper.SetDefault(logMaxAgeKey, defaultLogMaxAge)
	viper.SetDefault(logCompressKey, defaultLogCompress)
}

func templateNames(templates []m.Template) []string {
	names := make([]string, 0, len(templates))
	for _, t := range templates {
		names = append(names, string(t))
	}

	return names
}

// configureMatrixFlags adds the matrix selection flags shared by run and list.
func configureMatrixFlags(cmd *cobra.Command) {
	cmd.Flags().StringArray(versionFilterFlagName, nil, "specification version to evaluate (can be repeated; default all)")
	cmd.Flags().StringArray(onlyPropertyFlagName, nil, "property to evaluate: del, sc or dis (can be repeated; default all)")
	cmd.Flags().StringArray(onlyFlagName, nil, "edit token such as edit-del-1-b to evaluate (can be repeated; default all)")
	cmd.Flags().Bool(noEditsFlagName, false, "evaluate only the unmodified baseline of each property")
	cmd.Flags().StringArray(templatesFlagName, nil, "error message template to run (can be repeated; \"none\" disables; default all)")
	cmd.Flags().String(checkerFlagName, "", "run only this checker: solver or native (default both)")
}

// bindMatrixFlags binds the matrix keys to the flags of the command being
// executed; run and list share the keys.
func bindMatrixFlags(cmd *cobra.Command) {
	bindFlagToConfig(cmd.Flags().Lookup(versionFilterFlagName), versionsConfigKey)
	bindFlagToConfig(cmd.Flags().Lookup(onlyPropertyFlagName), propertiesConfigKey)
	bindFlagToConfig(cmd.Flags().Lookup(onlyFlagName), onlyConfigKey)
	bindFlagToConfig(cmd.Flags().Lookup(noEditsFlagName), noEditsConfigKey)
	bindFlagToConfig(cmd.Flags().Lookup(templatesFlagName), templatesConfigKey)
	bindFlagToConfig(cmd.Flags().Lookup(checkerFlagName), checkerConfigKey)
}

// matrixOptionsFromConfig resolves the matrix selection from flags, env and
// config file.
func matrixOptionsFromConfig() (domain.MatrixOptions, error) {
	versions, err := m.LookupVersions(m.KnownVersions, viper.GetStringSlice(versionsConfigKey))
	if err != nil {
		return domain.MatrixOptions{}, err
	}

	var properties []m.Property

	for _, token := range viper.GetStringSlice(propertiesConfigKey) {
		property, err := m.ParseProperty(strings.TrimSpace(token))
		if err != nil {
			return domain.MatrixOptions{}, err
		}

		properties = append(properties, property)
	}

	only, err := m.ParseEdits(viper.GetStringSlice(onlyConfigKey))
	if err != nil {
		return domain.MatrixOptions{}, err
	}

	templates, err := m.ParseTemplates(viper.GetStringSlice(templatesConfigKey))
	if err != nil {
		return domain.MatrixOptions{}, err
	}

	checkers, err := m.ParseCheckers(viper.GetString(checkerConfigKey))
	if err != nil {
		return domain.MatrixOptions{}, err
	}

	return domain.MatrixOptions{
		Properties: properties,
		Only:       only,
		NoEdits:    viper.GetBool(noEditsConfigKey),
		Versions:   versions,
		Templates:  templates,
		Checkers:   checkers,
	}, nil
}

func layoutFromConfig() (domain.Layout, error) {
	return domain.NewLayout(
		viper.GetString(directoryConfigKey),
		viper.GetString(outputConfigKey),
		viper.GetString(fragmentsConfigKey),
	)
}

// runArgsFromConfig assembles everything a run needs.
func runArgsFromConfig() (domain.RunArgs, error) {
	matrix, err := matrixOptionsFromConfig()
	if err != nil {
		return domain.RunArgs{}, err
	}

	layout, err := layoutFromConfig()
	if err != nil {
		return domain.RunArgs{}, err
	}

	build, err := durationFromConfig(buildTimeoutConfigKey, buildTimeoutFlagName)
	if err != nil {
		return domain.RunArgs{}, err
	}

	check, err := durationFromConfig(checkTimeoutConfigKey, checkTimeoutFlagName)
	if err != nil {
		return domain.RunArgs{}, err
	}

	errMsg, err := durationFromConfig(errMsgTimeoutConfigKey, errMsgTimeoutFlagName)
	if err != nil {
		return domain.RunArgs{}, err
	}

	verbose := viper.GetBool(logVerboseKey)

	return domain.RunArgs{
		Matrix: matrix,
		Layout: layout,
		Tools: domain.Tools{
			Builder:       viper.GetStringSlice(builderConfigKey),
			Solver:        viper.GetStringSlice(solverConfigKey),
			NativeChecker: viper.GetStringSlice(nativeCheckerConfigKey),
		},
		Timeouts:        domain.Timeouts{Build: build, Check: check, ErrMsg: errMsg},
		Parallel:        viper.GetInt(runParallelConfigKey),
		Verbose:         verbose,
		VerboseCommands: verbose || viper.GetBool(verboseCommandsConfigKey),
	}, nil
}

// durationFromConfig reads a positive duration with an explicit unit. Bare
// numbers are rejected rather than read as nanoseconds.
func durationFromConfig(key, flagName string) (time.Duration, error) {
	raw := strings.TrimSpace(viper.GetString(key))

	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: --%s (%s) %q: %w", errInvalidTimeout, flagName, key, raw, err)
	}

	if d <= 0 {
		return 0, fmt.Errorf("%w: --%s (%s) %q must be positive", errInvalidTimeout, flagName, key, raw)
	}

	return d, nil
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
// By default it logs at Info; if verbose is true it logs at Debug.
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
}
