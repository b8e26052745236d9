package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/agentx-labs/splice/internal/config"
	"github.com/agentx-labs/splice/internal/inject"
	"github.com/agentx-labs/splice/internal/manifest"
	"github.com/agentx-labs/splice/internal/scaffold"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

var (
	checkConfig   bool
	checkSets     bool
	checkPages    bool
	checkManifest string
)

func init() {
	doctorCmd.Flags().BoolVar(&checkConfig, "check-config", false, "Show which config files are in use")
	doctorCmd.Flags().BoolVar(&checkSets, "check-sets", false, "Validate the built-in scaffold sets")
	doctorCmd.Flags().BoolVar(&checkPages, "check-pages", false, "Report which pages would be injected")
	doctorCmd.Flags().StringVar(&checkManifest, "check-manifest", "", "Validate a set manifest at the given path")
	rootCmd.AddCommand(doctorCmd)
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check configuration, scaffold sets and target pages",
	Long: `Run diagnostic checks without changing any file.

Without flags, the config, sets and pages checks all run.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		w := cmd.OutOrStdout()
		cwd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("getting current directory: %w", err)
		}
		fsys := afero.NewOsFs()

		anyFlag := checkConfig || checkSets || checkPages || checkManifest != ""
		if !anyFlag {
			runConfigCheck(w, fsys, cwd)
			if err := runSetsCheck(w); err != nil {
				return err
			}
			return runPagesCheck(w, fsys, config.InjectSettings())
		}

		if checkConfig {
			runConfigCheck(w, fsys, cwd)
		}
		if checkSets {
			if err := runSetsCheck(w); err != nil {
				return err
			}
		}
		if checkPages {
			if err := runPagesCheck(w, fsys, config.InjectSettings()); err != nil {
				return err
			}
		}
		if checkManifest != "" {
			if err := runManifestCheck(w, fsys, checkManifest); err != nil {
				return err
			}
		}
		return nil
	},
}

func runConfigCheck(w io.Writer, fsys afero.Fs, projectDir string) {
	fmt.Fprintln(w, "Config check:")
	for _, p := range []string{config.FilePath(), config.ProjectFilePath(projectDir)} {
		if ok, _ := afero.Exists(fsys, p); ok {
			fmt.Fprintf(w, "  [ OK ] %s\n", p)
		} else {
			fmt.Fprintf(w, "  [INFO] %s not present (defaults apply)\n", p)
		}
	}
}

// runSetsCheck loads every built-in set, which validates its manifest and
// checks that each source file exists.
func runSetsCheck(w io.Writer) error {
	fmt.Fprintln(w, "Scaffold sets check:")
	names, err := scaffold.BuiltinNames()
	if err != nil {
		return err
	}
	failed := 0
	for _, name := range names {
		set, err := scaffold.Builtin(name)
		if err != nil {
			fmt.Fprintf(w, "  [FAIL] %s: %v\n", name, err)
			failed++
			continue
		}
		fmt.Fprintf(w, "  [ OK ] %s (v%s, %d file(s))\n", name, set.Manifest.Version, len(set.Manifest.Files))
	}
	if failed > 0 {
		return fmt.Errorf("%d built-in set(s) failed to load", failed)
	}
	return nil
}

// runPagesCheck performs an injection over an in-memory overlay and reports
// what a real run would do.
func runPagesCheck(w io.Writer, fsys afero.Fs, settings config.Inject) error {
	fmt.Fprintln(w, "Pages check:")
	rule, err := settings.Rule()
	if err != nil {
		fmt.Fprintf(w, "  [FAIL] invalid injection rule: %v\n", err)
		return fmt.Errorf("invalid injection rule: %w", err)
	}
	rule.RequireAnchor = false

	targets, err := inject.Discover(fsys, settings.Root, settings.Pattern, settings.Exclude)
	if err != nil {
		fmt.Fprintf(w, "  [FAIL] %v\n", err)
		return err
	}
	if len(targets) == 0 {
		fmt.Fprintf(w, "  [INFO] no files match %q under %s\n", settings.Pattern, settings.Root)
		return nil
	}

	overlay := afero.NewCopyOnWriteFs(afero.NewReadOnlyFs(fsys), afero.NewMemMapFs())
	report, err := inject.NewRunner(overlay, rule, io.Discard, logger).Inject(targets)
	if err != nil {
		fmt.Fprintf(w, "  [FAIL] %v\n", err)
		return err
	}

	pending := 0
	for _, o := range report.Outcomes {
		switch {
		case o.Status == inject.StatusAlreadyPresent:
			fmt.Fprintf(w, "  [ OK ] %s\n", o.Path)
		case o.Status == inject.StatusModified && o.AnchorFound:
			fmt.Fprintf(w, "  [TODO] %s needs the snippet\n", o.Path)
			pending++
		case o.Status == inject.StatusModified:
			fmt.Fprintf(w, "  [WARN] %s has no %q\n", o.Path, rule.Anchor)
		}
	}
	if pending > 0 {
		fmt.Fprintf(w, "  %d page(s) pending; run `splice inject`\n", pending)
	}
	return nil
}

func runManifestCheck(w io.Writer, fsys afero.Fs, path string) error {
	fmt.Fprintf(w, "Manifest validation: %s\n", path)

	result, err := manifest.ValidateFile(fsys, path)
	if err != nil {
		fmt.Fprintf(w, "  [FAIL] %v\n", err)
		return fmt.Errorf("manifest validation failed: %w", err)
	}

	if result.Valid {
		m, err := manifest.Load(fsys, path)
		if err != nil {
			fmt.Fprintf(w, "  [FAIL] %v\n", err)
			return fmt.Errorf("manifest validation failed: %w", err)
		}
		fmt.Fprintf(w, "  [ OK ] Valid set manifest: %s (v%s)\n", m.Name, m.Version)
		return nil
	}

	fmt.Fprintf(w, "  [FAIL] %d validation issue(s):\n", len(result.Issues))
	for _, issue := range result.Issues {
		fmt.Fprintf(w, "    - %s\n", issue)
	}
	return fmt.Errorf("manifest %s has %d validation issue(s)", path, len(result.Issues))
}
