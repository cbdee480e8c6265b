package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue/token"
	"gopkg.in/yaml.v3"

	"github.com/sameersismail/cmmcheck/internal/toolchain"
)

// InputAuto as a case's input selects the conventional stdin file for
// its source (io.c -> io.c.in).
const InputAuto = "auto"

// Suite is a named, ordered list of cases.
type Suite struct {
	Name        string
	Description string
	Cases       []Case
}

// Case is one end-to-end verification scenario.
type Case struct {
	// Name identifies the case in reports. Unique within a suite.
	Name string

	// Source is the program's filename relative to the test-data root.
	// Unique within a suite because the artifact path derives from it.
	Source string

	// Input is the stdin file relative to the root, InputAuto, or empty
	// for no standard input.
	Input string

	// Expect is the exact normalized output the program must produce.
	Expect []byte

	// Golden takes the expected bytes from <root>/golden/<Name>.golden
	// instead of Expect.
	Golden bool
}

// suiteFile is the on-disk shape shared by the YAML and CUE loaders.
// Expect is a pointer so that an explicit empty expectation ("") is
// distinguishable from a missing one.
type suiteFile struct {
	Name        string     `yaml:"name" json:"name"`
	Description string     `yaml:"description" json:"description"`
	Cases       []caseFile `yaml:"cases" json:"cases"`
}

type caseFile struct {
	Name   string  `yaml:"name" json:"name"`
	Source string  `yaml:"source" json:"source"`
	Input  string  `yaml:"input,omitempty" json:"input,omitempty"`
	Expect *string `yaml:"expect,omitempty" json:"expect,omitempty"`
	Golden bool    `yaml:"golden,omitempty" json:"golden,omitempty"`
}

// LoadError reports a suite that could not be loaded or is invalid.
type LoadError struct {
	Path    string
	Message string
	Pos     token.Pos // CUE position when available
	Err     error
}

func (e *LoadError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Message)
	}
	if e.Path != "" {
		return fmt.Sprintf("%s: %s", e.Path, e.Message)
	}
	return e.Message
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// LoadSuiteFile loads a suite, choosing the format by extension:
// .yaml/.yml or .cue.
func LoadSuiteFile(path string) (*Suite, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		return LoadSuite(path)
	case ".cue":
		return LoadSuiteCUE(path)
	default:
		return nil, &LoadError{Path: path, Message: fmt.Sprintf("unsupported suite format %q (want .yaml, .yml, or .cue)", ext)}
	}
}

// LoadSuite reads and parses a YAML suite file. Unknown fields are
// rejected so typos ("expected:" for "expect:") fail loudly.
func LoadSuite(path string) (*Suite, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Path: path, Message: "failed to read suite file", Err: err}
	}

	var sf suiteFile
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&sf); err != nil {
		return nil, &LoadError{Path: path, Message: fmt.Sprintf("failed to parse YAML: %v", err), Err: err}
	}

	suite, err := sf.toSuite()
	if err != nil {
		return nil, &LoadError{Path: path, Message: fmt.Sprintf("invalid suite: %v", err), Err: err}
	}
	return suite, nil
}

func (sf *suiteFile) toSuite() (*Suite, error) {
	suite := &Suite{
		Name:        sf.Name,
		Description: sf.Description,
		Cases:       make([]Case, 0, len(sf.Cases)),
	}
	for i, cf := range sf.Cases {
		if cf.Expect == nil && !cf.Golden {
			return nil, fmt.Errorf("cases[%d]: expect is required unless golden is set", i)
		}
		if cf.Expect != nil && cf.Golden {
			return nil, fmt.Errorf("cases[%d]: expect and golden are mutually exclusive", i)
		}
		c := Case{
			Name:   cf.Name,
			Source: cf.Source,
			Input:  cf.Input,
			Golden: cf.Golden,
		}
		if cf.Expect != nil {
			c.Expect = []byte(*cf.Expect)
		}
		suite.Cases = append(suite.Cases, c)
	}

	if err := ValidateSuite(suite); err != nil {
		return nil, err
	}
	return suite, nil
}

// ValidateSuite checks required fields and uniqueness. Two cases sharing a
// source would race on the same artifact, so sources must be distinct.
func ValidateSuite(s *Suite) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if len(s.Cases) == 0 {
		return fmt.Errorf("cases list is required and must be non-empty")
	}

	names := make(map[string]int, len(s.Cases))
	sources := make(map[string]int, len(s.Cases))
	for i, c := range s.Cases {
		if c.Name == "" {
			return fmt.Errorf("cases[%d]: name is required", i)
		}
		if err := checkCaseName(c.Name); err != nil {
			return fmt.Errorf("cases[%d]: %w", i, err)
		}
		if c.Source == "" {
			return fmt.Errorf("cases[%d]: source is required", i)
		}
		if filepath.IsAbs(c.Source) {
			return fmt.Errorf("cases[%d]: source must be relative to the test-data root: %s", i, c.Source)
		}
		if prev, ok := names[c.Name]; ok {
			return fmt.Errorf("cases[%d]: duplicate name %q (also cases[%d])", i, c.Name, prev)
		}
		key := filepath.Clean(c.Source)
		if prev, ok := sources[key]; ok {
			return fmt.Errorf("cases[%d]: duplicate source %q (also cases[%d])", i, c.Source, prev)
		}
		names[c.Name] = i
		sources[key] = i
	}
	return nil
}

// checkCaseName rejects names that cannot be used as a golden file name
// under <root>/golden.
func checkCaseName(name string) error {
	if strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return fmt.Errorf("name %q must not contain path separators or be a dot entry", name)
	}
	return nil
}

// ValidateFiles checks that every source and input file a suite refers
// to exists under the configured root.
func ValidateFiles(s *Suite, cfg toolchain.Config) error {
	for i, c := range s.Cases {
		if _, err := os.Stat(cfg.SourcePath(c.Source)); err != nil {
			return fmt.Errorf("cases[%d] (%s): source file not found: %s", i, c.Name, cfg.SourcePath(c.Source))
		}
		if input := resolveInput(c, cfg); input != "" {
			if _, err := os.Stat(cfg.InputPath(input)); err != nil {
				return fmt.Errorf("cases[%d] (%s): input file not found: %s", i, c.Name, cfg.InputPath(input))
			}
		}
	}
	return nil
}

// resolveInput returns the stdin file name for a case, expanding InputAuto.
func resolveInput(c Case, cfg toolchain.Config) string {
	if c.Input == InputAuto {
		return cfg.ConventionalInput(c.Source)
	}
	return c.Input
}

// Filter returns a copy of the suite holding only cases whose name
// matches the glob pattern. An empty pattern keeps every case.
func (s *Suite) Filter(pattern string) (*Suite, error) {
	if pattern == "" {
		return s, nil
	}
	out := &Suite{Name: s.Name, Description: s.Description}
	for _, c := range s.Cases {
		matched, err := filepath.Match(pattern, c.Name)
		if err != nil {
			return nil, fmt.Errorf("invalid filter pattern: %w", err)
		}
		if matched {
			out.Cases = append(out.Cases, c)
		}
	}
	return out, nil
}
