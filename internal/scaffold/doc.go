// Package scaffold writes sets of front-end source files to disk. A set is a
// directory holding a set.yaml manifest and the files it lists; sets ship
// embedded in the binary or are read from a directory on disk. Generation
// overwrites every target unconditionally, so running it twice produces the
// same tree.
package scaffold
