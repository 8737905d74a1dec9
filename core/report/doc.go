// Package report writes the bit rot report of a check run.
//
// The report is a ';'-delimited file with the header file;expected;calculated and one
// row per corrupted file. A report left by an earlier run is renamed to
// <unix-millis>.<name> first, so history is never overwritten.
package report
