// Package manifest parses and validates scaffold set manifests (set.yaml).
// A manifest names a set, carries a semver version and lists the files the
// set writes, each mapping a destination path to a source file inside the set.
// Validation runs the manifest through an embedded JSON Schema and then checks
// the rules a schema cannot express.
package manifest
