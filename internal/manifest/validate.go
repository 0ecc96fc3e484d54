package manifest

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
)

// schemaSrc is the CUE contract every manifest document must satisfy.
// id and kind are required non-empty strings; config is an open mapping.
const schemaSrc = `
#Entry: {
	id:   string & !=""
	kind: string & !=""
	config?: {...}
}
components: [...#Entry]
`

// Validate checks entries against the manifest contract. The cheap
// per-entry checks run first so callers get a typed *Error naming the
// offending entry; the CUE schema is the structural backstop for anything
// the field checks cannot express.
func Validate(entries []Entry) error {
	if len(entries) == 0 {
		return nil
	}
	for i, e := range entries {
		if e.ID == "" {
			return &Error{Index: i, Field: "id", Message: "required field is missing or empty"}
		}
		if e.Kind == "" {
			return &Error{Index: i, ID: e.ID, Field: "kind", Message: "required field is missing or empty"}
		}
	}

	ctx := cuecontext.New()
	schema := ctx.CompileString(schemaSrc)
	if err := schema.Err(); err != nil {
		// The schema is a compile-time constant; failing to compile it is
		// a programmer error.
		panic(fmt.Sprintf("manifest schema invalid: %v", err))
	}

	data := ctx.Encode(document{Components: entries})
	if err := data.Err(); err != nil {
		return fmt.Errorf("encode manifest for validation: %w", err)
	}

	unified := schema.Unify(data)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return fmt.Errorf("manifest schema violation: %s", cueerrors.Details(err, nil))
	}
	return nil
}
