package harness

import (
	"os"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
)

// suiteSchema constrains CUE suite files. Definitions are closed, so an
// unknown field is a CUE error just like an unknown YAML key.
const suiteSchema = `
#Case: {
	name:    string & !=""
	source:  string & !=""
	input?:  string
	expect?: string
	golden?: bool
}

#Suite: {
	name:        string & !=""
	description: string | *""
	cases: [...#Case]
}
`

// LoadSuiteCUE reads a CUE suite file. The suite is the top-level "suite"
// value:
//
//	suite: {
//	    name: "basic"
//	    cases: [
//	        {name: "gcd", source: "gcd.c", expect: "16"},
//	    ]
//	}
//
// CUE evaluates the file against the suite schema before it is converted,
// so constraints and references inside the file are resolved first.
func LoadSuiteCUE(path string) (*Suite, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Path: path, Message: "failed to read suite file", Err: err}
	}

	ctx := cuecontext.New()
	schema := ctx.CompileString(suiteSchema, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return nil, &LoadError{Path: path, Message: "invalid suite schema", Err: err}
	}

	value := ctx.CompileBytes(data, cue.Filename(path))
	if err := value.Err(); err != nil {
		return nil, cueLoadError(path, "failed to compile CUE", err)
	}

	suiteVal := value.LookupPath(cue.ParsePath("suite"))
	if !suiteVal.Exists() {
		return nil, &LoadError{Path: path, Message: "missing top-level \"suite\" value"}
	}

	unified := schema.LookupPath(cue.ParsePath("#Suite")).Unify(suiteVal)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return nil, cueLoadError(path, "suite does not match schema", err)
	}

	var sf suiteFile
	if err := unified.Decode(&sf); err != nil {
		return nil, cueLoadError(path, "failed to decode suite", err)
	}

	suite, err := sf.toSuite()
	if err != nil {
		return nil, &LoadError{Path: path, Message: "invalid suite: " + err.Error(), Err: err}
	}
	return suite, nil
}

// cueLoadError attaches the first CUE position of err, if any.
func cueLoadError(path, message string, err error) *LoadError {
	loadErr := &LoadError{
		Path:    path,
		Message: message + ": " + strings.TrimSpace(cueerrors.Details(err, nil)),
		Err:     err,
	}
	for _, pos := range cueerrors.Positions(err) {
		if pos.IsValid() && pos.Filename() == path {
			loadErr.Pos = pos
			break
		}
	}
	return loadErr
}
