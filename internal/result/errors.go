package result

import language "github.com/hanpama/authgraph/internal/language"

// Phase identifies which pipeline stage produced an error.
type Phase string

const (
	PhaseExecution     Phase = "execution"
	PhaseValidation    Phase = "validation"
	PhaseAuthorization Phase = "authorization"
)

// Location is a source position in the query document.
type Location struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

// GraphQLError is a located error carried on a node or on the execution.
type GraphQLError struct {
	Message    string         `json:"message"`
	Locations  []Location     `json:"locations,omitempty"`
	Phase      Phase          `json:"phase,omitempty"`
	Extensions map[string]any `json:"extensions,omitempty"`
}

func (e GraphQLError) Error() string {
	return e.Message
}

// LocationsAt converts a parser position into the error location list.
// A nil position yields no locations.
func LocationsAt(pos *language.Position) []Location {
	if pos == nil {
		return nil
	}
	return []Location{{Line: pos.Line, Column: pos.Column}}
}
