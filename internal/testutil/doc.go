// Package testutil provides test doubles for the external toolchain.
//
// FakeToolchain writes a fake compiler and a fake simulator as POSIX
// shell scripts that honour the same command-line contracts as cmm and
// spim, so the whole compile → simulate → normalize pipeline can run in
// unit tests without either real tool installed.
package testutil
