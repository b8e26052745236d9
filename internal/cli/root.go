package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/agentx-labs/splice/internal/branding"
	"github.com/agentx-labs/splice/internal/config"
	"github.com/agentx-labs/splice/internal/logging"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	buildVersion string
	buildCommit  string
	buildDate    string
)

var (
	verbose bool
	logFile string

	// logger is set up by the root PersistentPreRunE.
	logger = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   branding.CLIName(),
	Short: branding.Description(),
	Long: branding.DisplayName() + ` maintains static front-end projects: it injects a script tag (or any
snippet) into HTML pages exactly once, and scaffolds fixed sets of component
source files.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cwd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("getting current directory: %w", err)
		}
		if err := config.Load(cwd); err != nil {
			return err
		}

		settings := config.LogSettings()
		if cmd.Flags().Changed("log-file") {
			settings.File = logFile
		}
		l, err := logging.New(logging.Options{
			Level:   settings.Level,
			Verbose: verbose,
			File:    settings.File,
			Stderr:  cmd.ErrOrStderr(),
		})
		if err != nil {
			return err
		}
		logger = l
		logger.Debug("config loaded", zap.String("cwd", cwd), zap.String("user_config", config.FilePath()))
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Print debug diagnostics to stderr")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Also write diagnostics as JSON to this file (rotated)")
}

// Execute runs the root command with build info injected via ldflags.
// Errors are printed to stderr; the caller decides the exit code.
func Execute(version, commit, date string) error {
	buildVersion = version
	buildCommit = commit
	buildDate = date
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(rootCmd.ErrOrStderr(), "Error: %v\n", err)
		return err
	}
	return nil
}

// targetFs returns the OS filesystem, or a copy-on-write overlay over it when
// dryRun is set so writes land in memory only.
func targetFs(dryRun bool) afero.Fs {
	base := afero.NewOsFs()
	if !dryRun {
		return base
	}
	return afero.NewCopyOnWriteFs(afero.NewReadOnlyFs(base), afero.NewMemMapFs())
}

// bindFlags lets changed flags take precedence over config values. It must run
// after config.Load, which resets Viper.
func bindFlags(cmd *cobra.Command, keys map[string]string) error {
	for key, flag := range keys {
		if err := config.BindFlag(key, cmd.Flags().Lookup(flag)); err != nil {
			return fmt.Errorf("binding --%s: %w", flag, err)
		}
	}
	return nil
}

func dryRunNote(w io.Writer, dryRun bool) {
	if dryRun {
		fmt.Fprintln(w, "(dry run: no files were changed)")
	}
}
