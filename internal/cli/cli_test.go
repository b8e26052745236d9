package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/agentx-labs/splice/internal/config"
	"github.com/agentx-labs/splice/internal/inject"
	"github.com/agentx-labs/splice/internal/scaffold"
	"github.com/spf13/afero"
)

func TestRunInject_Summary(t *testing.T) {
	fsys := afero.NewMemMapFs()
	writeMem(t, fsys, "/site/a.html", "<html><body></body></html>")
	writeMem(t, fsys, "/site/b.html", "<html></html>")

	var buf bytes.Buffer
	err := runInject(&buf, fsys, inject.DefaultRule(), []string{"/site/a.html", "/site/b.html", "/site/c.html"}, false, false)
	if err != nil {
		t.Fatalf("runInject() error: %v", err)
	}

	out := buf.String()
	for _, want := range []string{
		"Injecting snippet into 3 file(s)",
		"Done! 2 modified, 0 already present, 1 not found",
		"Warnings:",
		"/site/b.html",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRunInject_NoTargets(t *testing.T) {
	var buf bytes.Buffer
	if err := runInject(&buf, afero.NewMemMapFs(), inject.DefaultRule(), nil, false, false); err != nil {
		t.Fatalf("runInject() error: %v", err)
	}
	if !strings.Contains(buf.String(), "No matching files.") {
		t.Errorf("unexpected output:\n%s", buf.String())
	}
}

func TestRunInject_RemoveAndDryRunNote(t *testing.T) {
	fsys := afero.NewMemMapFs()
	writeMem(t, fsys, "/site/a.html", "<body>"+inject.DefaultRule().Snippet+"</body>")

	var buf bytes.Buffer
	if err := runInject(&buf, fsys, inject.DefaultRule(), []string{"/site/a.html"}, true, true); err != nil {
		t.Fatalf("runInject() error: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "Done! 1 removed, 0 without snippet, 0 not found") {
		t.Errorf("unexpected summary:\n%s", out)
	}
	if !strings.Contains(out, "dry run") {
		t.Errorf("dry run note missing:\n%s", out)
	}
}

func TestRunScaffold(t *testing.T) {
	set, err := scaffold.Builtin(scaffold.DefaultSet)
	if err != nil {
		t.Fatal(err)
	}
	fsys := afero.NewMemMapFs()

	var buf bytes.Buffer
	if err := runScaffold(&buf, fsys, set, "/app/components", false); err != nil {
		t.Fatalf("runScaffold() error: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "Scaffolding pom-components v1.0.0 into /app/components/") {
		t.Errorf("missing header:\n%s", out)
	}
	if !strings.Contains(out, "Wrote 3 file(s).") {
		t.Errorf("missing summary:\n%s", out)
	}
	if ok, _ := afero.Exists(fsys, "/app/components/NavPanel.jsx"); !ok {
		t.Error("NavPanel.jsx not written")
	}
}

func TestListSets(t *testing.T) {
	var buf bytes.Buffer
	if err := listSets(&buf); err != nil {
		t.Fatalf("listSets() error: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "pom-components (v1.0.0)") {
		t.Errorf("missing default set:\n%s", out)
	}
	if !strings.Contains(out, "DashboardCard.jsx") {
		t.Errorf("missing file listing:\n%s", out)
	}
}

func TestTargetFs_DryRunLeavesDiskAlone(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "index.html")
	if err := os.WriteFile(path, []byte("<body></body>"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := inject.Apply(targetFs(true), path, inject.DefaultRule()); err != nil {
		t.Fatalf("Apply() error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "<body></body>" {
		t.Errorf("dry run wrote to disk: %q", data)
	}
}

func TestRootCommand_InjectEndToEnd(t *testing.T) {
	t.Setenv("SPLICE_HOME", t.TempDir())
	dir := t.TempDir()
	t.Chdir(dir)

	if err := os.WriteFile("splice.yaml", []byte("inject:\n  anchor: </head>\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile("index.html", []byte("<html><head></head><body></body></html>"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll("feedback", 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join("feedback", "panel.html"), []byte("<html><head></head></html>"), 0o644); err != nil {
		t.Fatal(err)
	}

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs([]string{"inject"})
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("inject failed: %v\nstderr:\n%s", err, errOut.String())
	}

	data, err := os.ReadFile("index.html")
	if err != nil {
		t.Fatal(err)
	}
	want := "<html><head>" + inject.DefaultRule().Snippet + "</head><body></body></html>"
	if string(data) != want {
		t.Errorf("index.html = %q, want %q", data, want)
	}

	data, err = os.ReadFile(filepath.Join("feedback", "panel.html"))
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(data), "<script") {
		t.Error("feedback/ should be excluded")
	}

	if !strings.Contains(out.String(), "Done! 1 modified") {
		t.Errorf("unexpected output:\n%s", out.String())
	}
}

func TestRootCommand_Version(t *testing.T) {
	t.Setenv("SPLICE_HOME", t.TempDir())
	t.Chdir(t.TempDir())
	buildVersion, buildCommit, buildDate = "1.2.3", "abc123", "2026-01-01"

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"version"})
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
	})

	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("version failed: %v", err)
	}
	if got := out.String(); got != "splice version 1.2.3 (commit: abc123, built: 2026-01-01)\n" {
		t.Errorf("version output = %q", got)
	}
}

func TestRunPagesCheck(t *testing.T) {
	fsys := afero.NewMemMapFs()
	snippet := inject.DefaultRule().Snippet
	writeMem(t, fsys, "/site/done.html", "<body>"+snippet+"</body>")
	writeMem(t, fsys, "/site/todo.html", "<body></body>")
	writeMem(t, fsys, "/site/partial.html", "<div></div>")
	writeMem(t, fsys, "/site/feedback/panel.html", "<body></body>")

	settings := config.Inject{
		Root:    "/site",
		Pattern: inject.DefaultPattern,
		Exclude: []string{inject.DefaultExclude},
		Script:  inject.DefaultScript,
		Snippet: inject.DefaultSnippetTemplate,
		Anchor:  inject.DefaultAnchor,
	}

	var buf bytes.Buffer
	if err := runPagesCheck(&buf, fsys, settings); err != nil {
		t.Fatalf("runPagesCheck() error: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		"[ OK ] /site/done.html",
		"[TODO] /site/todo.html needs the snippet",
		"[WARN] /site/partial.html",
		"1 page(s) pending",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "panel.html") {
		t.Errorf("excluded page reported:\n%s", out)
	}

	data, err := afero.ReadFile(fsys, "/site/todo.html")
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "<body></body>" {
		t.Errorf("pages check wrote to the filesystem: %q", data)
	}
}

func TestRunSetsCheck(t *testing.T) {
	var buf bytes.Buffer
	if err := runSetsCheck(&buf); err != nil {
		t.Fatalf("runSetsCheck() error: %v", err)
	}
	if !strings.Contains(buf.String(), "[ OK ] pom-components (v1.0.0, 3 file(s))") {
		t.Errorf("unexpected output:\n%s", buf.String())
	}
}

func TestRunManifestCheck(t *testing.T) {
	fsys := afero.NewMemMapFs()
	writeMem(t, fsys, "/good/set.yaml", "name: cards\nversion: 2.1.0\nfiles:\n  - path: Card.jsx\n    source: Card.jsx\n")
	writeMem(t, fsys, "/bad/set.yaml", "name: Cards\nversion: 2.1.0\nfiles: []\n")

	var buf bytes.Buffer
	if err := runManifestCheck(&buf, fsys, "/good/set.yaml"); err != nil {
		t.Fatalf("valid manifest: %v", err)
	}
	if !strings.Contains(buf.String(), "Valid set manifest: cards (v2.1.0)") {
		t.Errorf("unexpected output:\n%s", buf.String())
	}

	buf.Reset()
	if err := runManifestCheck(&buf, fsys, "/bad/set.yaml"); err == nil {
		t.Fatal("expected error for invalid manifest")
	}
	if !strings.Contains(buf.String(), "validation issue(s)") {
		t.Errorf("unexpected output:\n%s", buf.String())
	}
}

// vanishingFs serves the first Open of a file and fails the rest, as if the
// file were removed between two reads.
type vanishingFs struct {
	afero.Fs
	opened map[string]bool
}

func (v *vanishingFs) Open(name string) (afero.File, error) {
	if v.opened[name] {
		return nil, os.ErrNotExist
	}
	v.opened[name] = true
	return v.Fs.Open(name)
}

func TestRunManifestCheck_LoadFailureIsReported(t *testing.T) {
	mem := afero.NewMemMapFs()
	writeMem(t, mem, "/good/set.yaml", "name: cards\nversion: 2.1.0\nfiles:\n  - path: Card.jsx\n    source: Card.jsx\n")
	fsys := &vanishingFs{Fs: mem, opened: map[string]bool{}}

	var buf bytes.Buffer
	if err := runManifestCheck(&buf, fsys, "/good/set.yaml"); err == nil {
		t.Fatal("expected error when the manifest cannot be loaded")
	}
	out := buf.String()
	if strings.Contains(out, "[ OK ]") {
		t.Errorf("failed load reported as valid:\n%s", out)
	}
	if !strings.Contains(out, "[FAIL]") {
		t.Errorf("missing failure line:\n%s", out)
	}
}

func TestRunConfigCheck(t *testing.T) {
	home := t.TempDir()
	t.Setenv("SPLICE_HOME", home)
	project := t.TempDir()
	if err := os.WriteFile(filepath.Join(project, "splice.yaml"), []byte("inject: {}\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	runConfigCheck(&buf, afero.NewOsFs(), project)
	out := buf.String()
	if !strings.Contains(out, "[ OK ] "+filepath.Join(project, "splice.yaml")) {
		t.Errorf("project file not reported:\n%s", out)
	}
	if !strings.Contains(out, "[INFO] "+filepath.Join(home, "config.yaml")+" not present") {
		t.Errorf("user file not reported:\n%s", out)
	}
}

func writeMem(t *testing.T, fsys afero.Fs, path, content string) {
	t.Helper()
	if err := fsys.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := afero.WriteFile(fsys, path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}
