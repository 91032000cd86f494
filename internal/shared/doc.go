// Package shared holds helpers used by more than one package.
//
// The testutil subpackage provides a buffered slog handler for asserting on
// log output and fixtures that write small market-basket CSV datasets into a
// test's temporary directory.
package shared
