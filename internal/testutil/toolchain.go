package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

// Banner is the first line the fake simulator prints, standing in for
// spim's environment-specific "Loaded: .../exceptions.s" line.
const Banner = "Loaded: /usr/lib/spim/exceptions.s"

// Program headers understood by the fake simulator. A program file whose
// first line is one of these reads standard input; any other file is
// "executed" by printing its own contents without the trailing newline.
const (
	// ProgramEcho prints the first line read from standard input.
	ProgramEcho = "#stdin"

	// ProgramProduct reads two integers and prints their product.
	ProgramProduct = "#stdin-product"

	// ProgramSyntaxError makes the fake compiler exit with status 2
	// without writing an artifact.
	ProgramSyntaxError = "#error"
)

// FakeToolchain is a fake compiler/simulator pair living in a temp dir.
type FakeToolchain struct {
	// Dir holds the scripts and the compile log.
	Dir string

	// Compiler is the path of the fake compiler script.
	Compiler string

	// Simulator is the path of the fake simulator script.
	Simulator string

	// CompileLog receives one line per compiler invocation: the source path.
	CompileLog string
}

const fakeCompilerScript = `#!/bin/sh
if [ "$#" -ne 3 ] || [ "$2" != "-o" ]; then
	echo "Usage: cmm <filename> [-o <output>]"
	exit 1
fi
printf '%%s\n' "$1" >> '%s'
if [ ! -f "$1" ]; then
	echo "cannot read $1" >&2
	exit 1
fi
if [ "$(head -n 1 "$1")" = '%s' ]; then
	echo "Error: syntax error in $1" >&2
	exit 2
fi
cp "$1" "$3"
`

const fakeSimulatorScript = `#!/bin/sh
if [ "$#" -ne 2 ] || [ "$1" != "-file" ]; then
	echo "usage: spim -file <file>" >&2
	exit 1
fi
echo '%s'
if [ ! -f "$2" ]; then
	echo "Cannot open file: $2"
	exit 0
fi
case "$(head -n 1 "$2")" in
'%s')
	read -r a
	read -r b
	printf '%%d' $((a * b))
	;;
'%s')
	read -r a
	printf '%%s' "$a"
	;;
*)
	printf '%%s' "$(cat "$2")"
	;;
esac
`

// NewFakeToolchain writes the fake scripts into a fresh temp dir.
// The test is skipped on platforms without a POSIX shell.
func NewFakeToolchain(t testing.TB) *FakeToolchain {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake toolchain needs a POSIX shell")
	}

	dir := t.TempDir()
	f := &FakeToolchain{
		Dir:        dir,
		Compiler:   filepath.Join(dir, "cmm"),
		Simulator:  filepath.Join(dir, "spim"),
		CompileLog: filepath.Join(dir, "compile.log"),
	}

	writeScript(t, f.Compiler, fmt.Sprintf(fakeCompilerScript, f.CompileLog, ProgramSyntaxError))
	writeScript(t, f.Simulator, fmt.Sprintf(fakeSimulatorScript, Banner, ProgramProduct, ProgramEcho))
	return f
}

// Compilations returns the source paths the fake compiler was invoked
// with, in order.
func (f *FakeToolchain) Compilations(t testing.TB) []string {
	t.Helper()
	data, err := os.ReadFile(f.CompileLog)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		t.Fatalf("read compile log: %v", err)
	}
	return strings.Split(strings.TrimRight(string(data), "\n"), "\n")
}

// WriteFile writes content to root/name, creating parent directories.
func WriteFile(t testing.TB, root, name, content string) string {
	t.Helper()
	path := filepath.Join(root, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("create dir for %s: %v", name, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func writeScript(t testing.TB, path, body string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(body), 0o755); err != nil {
		t.Fatalf("write script %s: %v", path, err)
	}
}
