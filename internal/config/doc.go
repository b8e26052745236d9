// Package config manages settings for splice. Values come, in rising
// precedence, from built-in defaults, the user file ~/.splice/config.yaml, the
// project file splice.yaml in the working directory, and SPLICE_* environment
// variables. Command-line flags are applied on top by the cli package.
package config
