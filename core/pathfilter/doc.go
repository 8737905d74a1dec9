// Package pathfilter implements the wildcard ignore rules read from .bitbackupignore files.
//
// Each pattern is compiled to an anchored regular expression where '*' matches any
// run of characters and '?' matches exactly one. A path is excluded when ANY pattern
// matches. Nested ignore files register their rules with the subdirectory as prefix,
// so they only apply beneath the directory that contains them.
//
// The Filter is an accumulator: rules added while a walk is in progress only affect
// entries visited afterwards.
package pathfilter
