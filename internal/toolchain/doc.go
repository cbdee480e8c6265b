// Package toolchain invokes the two external tools the harness drives:
// the C-minus compiler and the MIPS simulator.
//
// Both tools are black boxes reached through fixed command lines:
//
//	<compiler> <source-path> -o <artifact-path>
//	<simulator> -file <artifact-path>
//
// Paths, executable names, and flags come from an explicit Config so the
// same harness runs unchanged across machines. Every invocation is
// synchronous; the caller blocks until the spawned process exits.
package toolchain
