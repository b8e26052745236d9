package cli

import (
	"fmt"
	"io"

	"github.com/agentx-labs/splice/internal/config"
	"github.com/agentx-labs/splice/internal/inject"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	injectRemove bool
	injectDryRun bool
)

func init() {
	f := injectCmd.Flags()
	f.String("root", ".", "Directory to search for target files")
	f.String("pattern", inject.DefaultPattern, "Glob for target files, relative to --root (** crosses directories)")
	f.StringSlice("exclude", []string{inject.DefaultExclude}, "Glob of paths to skip (repeatable)")
	f.String("script", inject.DefaultScript, "Script path substituted for {script} in the snippet")
	f.String("snippet", inject.DefaultSnippetTemplate, "Snippet template to insert")
	f.String("marker", "", "Text whose presence marks a file as done (default: the script path)")
	f.String("anchor", inject.DefaultAnchor, "Text the snippet is inserted in front of")
	f.Bool("require-anchor", false, "Fail instead of leaving a file unchanged when the anchor is missing")
	f.BoolVar(&injectRemove, "remove", false, "Remove the snippet instead of adding it")
	f.BoolVar(&injectDryRun, "dry-run", false, "Report what would change without writing")
	rootCmd.AddCommand(injectCmd)
}

var injectFlagKeys = map[string]string{
	config.KeyInjectRoot:          "root",
	config.KeyInjectPattern:       "pattern",
	config.KeyInjectExclude:       "exclude",
	config.KeyInjectScript:        "script",
	config.KeyInjectSnippet:       "snippet",
	config.KeyInjectMarker:        "marker",
	config.KeyInjectAnchor:        "anchor",
	config.KeyInjectRequireAnchor: "require-anchor",
}

var injectCmd = &cobra.Command{
	Use:   "inject [files...]",
	Short: "Insert a snippet into HTML pages that don't have it yet",
	Long: `Insert a snippet in front of an anchor in every matching file, once.

Files that already contain the marker are skipped, so the command can be run
repeatedly. Without arguments, files are discovered under --root using
--pattern minus --exclude; with arguments, exactly those files are processed
and missing ones are reported and skipped.

A file without the anchor is rewritten unchanged and reported with a warning,
unless --require-anchor is set.

Examples:
  splice inject
  splice inject index.html about.html
  splice inject --root public --anchor '</head>' --script /js/analytics.js
  splice inject --remove`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := bindFlags(cmd, injectFlagKeys); err != nil {
			return err
		}
		settings := config.InjectSettings()
		rule, err := settings.Rule()
		if err != nil {
			return fmt.Errorf("invalid injection rule: %w", err)
		}

		fsys := targetFs(injectDryRun)
		targets := args
		if len(targets) == 0 {
			targets, err = inject.Discover(fsys, settings.Root, settings.Pattern, settings.Exclude)
			if err != nil {
				return err
			}
		}
		logger.Debug("inject targets",
			zap.Int("count", len(targets)),
			zap.String("marker", rule.Marker),
			zap.String("anchor", rule.Anchor),
			zap.Bool("remove", injectRemove),
			zap.Bool("dry_run", injectDryRun))

		return runInject(cmd.OutOrStdout(), fsys, rule, targets, injectRemove, injectDryRun)
	},
}

// runInject applies (or removes) rule over targets and prints a summary.
func runInject(w io.Writer, fsys afero.Fs, rule inject.Rule, targets []string, remove, dryRun bool) error {
	if len(targets) == 0 {
		fmt.Fprintln(w, "No matching files.")
		return nil
	}

	runner := inject.NewRunner(fsys, rule, w, logger)

	var (
		report *inject.Report
		err    error
	)
	if remove {
		fmt.Fprintf(w, "Removing snippet from %d file(s)\n", len(targets))
		report, err = runner.Remove(targets)
	} else {
		fmt.Fprintf(w, "Injecting snippet into %d file(s)\n", len(targets))
		report, err = runner.Inject(targets)
	}
	if err != nil {
		return err
	}

	if remove {
		fmt.Fprintf(w, "\nDone! %d removed, %d without snippet, %d not found\n",
			report.Count(inject.StatusRemoved), report.Count(inject.StatusAbsent), report.Count(inject.StatusNotFound))
	} else {
		fmt.Fprintf(w, "\nDone! %d modified, %d already present, %d not found\n",
			report.Count(inject.StatusModified), report.Count(inject.StatusAlreadyPresent), report.Count(inject.StatusNotFound))
	}
	if len(report.Warnings) > 0 {
		fmt.Fprintln(w, "\nWarnings:")
		for _, msg := range report.Warnings {
			fmt.Fprintf(w, "  - %s\n", msg)
		}
	}
	dryRunNote(w, dryRun)
	return nil
}
