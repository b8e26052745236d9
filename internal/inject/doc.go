// Package inject inserts a snippet in front of an anchor string in text files,
// once. A file that already contains the marker is left untouched, so running
// the injector repeatedly over the same tree is safe. The default rule adds the
// feedback widget's module script before </body> in static HTML pages.
//
// All file access goes through an afero.Fs so callers can run against the OS,
// an in-memory filesystem in tests, or a copy-on-write overlay for dry runs.
package inject
