// Package cmd provides the root command and CLI setup for wavedig.
package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"wavedig.dev/pkg/wavedig/internal/adapter"
	"wavedig.dev/pkg/wavedig/internal/controller"
	"wavedig.dev/pkg/wavedig/internal/domain"
	m "wavedig.dev/pkg/wavedig/internal/model"
	"wavedig.dev/pkg/wavedig/internal/telemetry"
)

var fsAdapter adapter.DumpFSAdapter
var loader domain.Loader
var workflow domain.Workflow
var ui controller.UI

// logFileFlag is a root-level flag overriding log.filename.
var logFileFlag string

// verboseFlag switches logging to debug level.
var verboseFlag bool

var shutdownTelemetry telemetry.ShutdownFunc = func(context.Context) error { return nil }

func init() {
	// Initialize shared dependencies.
	ui = controller.NewConfiguredUI(rootCmd, configuredFormat, controller.IsTTY(os.Stdout))
	fsAdapter = adapter.NewLocalDumpFSAdapter()
	loader = domain.NewLoader(fsAdapter)
	workflow = domain.NewWorkflow(fsAdapter, ui, loader)
}

const dialectHelp = `Dialects:
  standard   IEEE 1364 value change dump (aliases: vcd)
  extended   extended VCD written by $dumpports (aliases: evcd, dumpports)`

const rootLongDescription = `wavedig reads waveform dumps written by digital simulators and answers
signal-history queries: the full timeline of a signal, its value at a
timestamp, or the values it takes over a window.

Signals are addressed by their scope path, e.g. top/cpu/clk.

` + dialectHelp

// rootCmd represents the base command when called without any subcommands.
var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "wavedig",
		Short:        "Query signal histories in VCD waveform dumps",
		Long:         rootLongDescription,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return configureRuntime(cmd.Context())
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	configureRootFlags(cmd)

	return cmd
}

func configureRootFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().String(dialectFlagName, defaultDialect, "dump dialect: standard or extended")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(dialectFlagName), dialectConfigKey)

	cmd.PersistentFlags().StringP(formatFlagName, "f", defaultFormat, "output format: table or yaml")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(formatFlagName), formatConfigKey)

	cmd.PersistentFlags().StringVar(&logFileFlag, logFileFlagName, "", "log file path (default from log.filename)")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(logFileFlagName), logFilenameKey)

	cmd.PersistentFlags().BoolVarP(&verboseFlag, verboseFlagName, "v", defaultLogVerbose, "log at debug level")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(verboseFlagName), logVerboseKey)
}

// configureRuntime validates global settings and installs logging and telemetry.
func configureRuntime(ctx context.Context) error {
	if err := validateOutput(); err != nil {
		return err
	}

	logWriter := configureLogger(viper.GetString(logFilenameKey), viper.GetBool(logVerboseKey))

	if ctx == nil {
		ctx = context.Background()
	}

	shutdown, err := telemetry.Init(ctx, telemetry.Config{
		ServiceName:    configBaseName,
		ServiceVersion: toolVersion(),
		Enabled:        viper.GetBool(telemetryEnabledKey),
		Writer:         logWriter,
	})
	if err != nil {
		return fmt.Errorf("telemetry: %w", err)
	}

	shutdownTelemetry = shutdown

	return nil
}

// bindFlagToConfig wires a Cobra flag to a Viper key so config/env values feed the flag.
func bindFlagToConfig(flag *pflag.Flag, key string) {
	if flag == nil {
		cobra.CheckErr(fmt.Errorf("flag for config key %q not found", key))
		return
	}

	cobra.CheckErr(viper.BindPFlag(key, flag))
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()

	if shutdownErr := shutdownTelemetry(context.Background()); shutdownErr != nil {
		slog.Warn("Failed to flush telemetry", "error", shutdownErr)
	}

	if err != nil {
		os.Exit(1)
	}
}

func toolVersion() string {
	info, ok := debug.ReadBuildInfo()
	if !ok || info.Main.Version == "" {
		return "unknown"
	}

	return info.Main.Version
}

// dumpArgs builds the arguments shared by every dump command.
func dumpArgs(dump string) domain.DumpArgs {
	return domain.DumpArgs{
		Dump:    m.Path(dump),
		Dialect: viper.GetString(dialectConfigKey),
	}
}

func parseSignals(args []string) []m.SignalPath {
	signals := make([]m.SignalPath, 0, len(args))
	for _, arg := range args {
		signals = append(signals, m.SignalPath(arg))
	}

	return signals
}
