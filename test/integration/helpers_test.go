//go:build integration

package integration_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// testEnv holds paths to isolated test directories.
type testEnv struct {
	HomeDir    string // SPLICE_HOME: user config dir
	ProjectDir string // a mock static site + app checkout
}

// setupTestEnv creates isolated temp directories and points SPLICE_HOME at
// one of them so no real user config is read or written.
func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{
		HomeDir:    t.TempDir(),
		ProjectDir: t.TempDir(),
	}
	t.Setenv("SPLICE_HOME", env.HomeDir)
	return env
}

// setupSite lays out a static site the way the feedback rollout found it:
// a handful of top-level pages, one nested page, a fragment without </body>,
// and the feedback widget's own pages that must never be touched.
func setupSite(t *testing.T, root string) {
	t.Helper()

	page := func(title string) string {
		return "<!DOCTYPE html>\n<html>\n<head><title>" + title + "</title></head>\n<body>\n  <main></main>\n</body>\n</html>\n"
	}

	writeFile(t, filepath.Join(root, "index.html"), page("Home"))
	writeFile(t, filepath.Join(root, "pve-stap-1.html"), page("PVE stap 1"))
	writeFile(t, filepath.Join(root, "gebied.html"), page("Gebied"))
	writeFile(t, filepath.Join(root, "besluit.html"), page("Besluit")+"<!-- /feedback/init-feedback.js -->\n")
	writeFile(t, filepath.Join(root, "docs", "walkthrough.html"), page("Walkthrough"))
	writeFile(t, filepath.Join(root, "partials", "footer.html"), "<footer></footer>\n")
	writeFile(t, filepath.Join(root, "feedback", "panel.html"), page("Feedback"))
	writeFile(t, filepath.Join(root, "styles.css"), "body { margin: 0 }\n")
}

// snapshot reads every regular file under root into a path -> content map.
func snapshot(t *testing.T, root string) map[string]string {
	t.Helper()
	files := map[string]string{}
	err := filepath.Walk(root, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.Mode().IsRegular() {
			data, err := os.ReadFile(p)
			if err != nil {
				return err
			}
			rel, _ := filepath.Rel(root, p)
			files[filepath.ToSlash(rel)] = string(data)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("snapshot %s: %v", root, err)
	}
	return files
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("creating %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading %s: %v", path, err)
	}
	return string(data)
}

func assertContains(t *testing.T, content, substr string) {
	t.Helper()
	if !strings.Contains(content, substr) {
		t.Errorf("content does not contain %q\n--- content ---\n%s", substr, content)
	}
}
