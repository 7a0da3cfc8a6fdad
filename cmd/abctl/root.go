package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/joshuapare/slotkit/ab"
	"github.com/joshuapare/slotkit/internal/logger"
	"github.com/joshuapare/slotkit/pkg/slots"
)

var (
	// Global flags
	verbose bool
	quiet   bool
	jsonOut bool
	cfgFile string

	// cfg is loaded by the root PersistentPreRunE.
	cfg = defaultConfig()

	closeLog = func() error { return nil }
)

var rootCmd = &cobra.Command{
	Use:   "abctl",
	Short: "Select and maintain A/B boot slots on GPT disks",
	Long: `abctl picks the slot to boot on disks that record A/B boot state in
GPT partition attributes, and records the attempt so that a slot which keeps
failing is retired automatically.

Two schemes are supported:
  chromeos  ChromeOS kernel partitions (KERN-A, KERN-B)
  qcom      Qualcomm boot image partitions (boot_a, boot_b)`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := loadConfig(cmd, cfgFile)
		if err != nil {
			return err
		}
		cfg = c
		return initLogging(cfg)
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return closeLog()
	},
}

func init() {
	// Global flags
	pf := rootCmd.PersistentFlags()
	pf.BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output and debug logging")
	pf.BoolVarP(&quiet, "quiet", "q", false, "Suppress all output except errors and exported variables")
	pf.BoolVar(&jsonOut, "json", false, "Output in JSON format")
	pf.StringVar(&cfgFile, "config", "", "Config file (default $HOME/.config/abctl/config.yaml)")
	pf.StringP("scheme", "s", defaultScheme, "Attribute scheme: chromeos or qcom")
	pf.Int("max-slots", 0, "Slot capacity of the scheme (0 = 2)")
	pf.Int64("sector-size", 0, "Logical sector size in bytes (0 = detect)")
	pf.Bool("full-sync", false, "Request F_FULLFSYNC when flushing on macOS")
	pf.String("log-level", defaultLogLevel, "Log level: debug, info, warn, error")
	pf.String("log-format", "text", "Log format: text or json")
	pf.String("log-file", "", "Append logs to this file instead of stderr")
}

func execute() {
	if err := rootCmd.Execute(); err != nil {
		printError("%v\n", err)
		_ = closeLog()
		os.Exit(1)
	}
}

func initLogging(c Config) error {
	level, err := logger.ParseLevel(c.Log.Level)
	if err != nil {
		return err
	}
	if verbose {
		level = slog.LevelDebug
	}
	closer, err := logger.Init(logger.Options{
		Enabled: !quiet || c.Log.File != "",
		Level:   level,
		Format:  c.Log.Format,
		File:    c.Log.File,
	})
	if err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	closeLog = closer
	return nil
}

// scheme resolves the configured scheme with its slot capacity applied.
func scheme(c Config) (ab.Scheme, error) {
	s, err := ab.SchemeByName(c.Scheme)
	if err != nil {
		return nil, err
	}
	switch s.(type) {
	case ab.ChromeOS:
		return ab.ChromeOS{MaxSlots: c.MaxSlots}, nil
	case ab.Qualcomm:
		return ab.Qualcomm{MaxSlots: c.MaxSlots}, nil
	}
	return s, nil
}

// slotOptions maps the loaded config onto library options.
func slotOptions(c Config) *slots.Options {
	return &slots.Options{
		SectorSize: c.SectorSize,
		BackupPath: c.Backup,
		FullSync:   c.FullSync,
		Logger:     logger.L,
	}
}

// Helper functions for output

// printInfo prints an info message if not in quiet mode
func printInfo(format string, args ...any) {
	if !quiet {
		fmt.Fprintf(os.Stdout, format, args...)
	}
}

// printStatus prints a progress message to stderr if not in quiet mode.
// stdout is reserved for exported variables.
func printStatus(format string, args ...any) {
	if !quiet {
		fmt.Fprintf(os.Stderr, format, args...)
	}
}

// printError prints an error message
func printError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format, args...)
}

// printVerbose prints a verbose message if verbose mode is enabled
func printVerbose(format string, args ...any) {
	if verbose && !quiet {
		fmt.Fprintf(os.Stderr, format, args...)
	}
}

// printJSON outputs data as JSON
func printJSON(v any) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
