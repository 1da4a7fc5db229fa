// Package validation checks a value tree against its entity schema before it
// is submitted, reporting one issue per offending field.
package validation

import (
	"errors"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-entityform/pkg/formstate"
	"github.com/goliatone/go-entityform/pkg/openapi"
	"github.com/goliatone/go-entityform/pkg/schema"
)

// Issue represents a validation error with optional location metadata.
type Issue struct {
	// Path is the RFC 6901 pointer of the offending value.
	Path string `json:"path,omitempty"`
	// Field is the dotted form of Path, as used by formstate.ParsePath.
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

// Result captures validation outcomes.
type Result struct {
	Valid  bool    `json:"valid"`
	Issues []Issue `json:"issues,omitempty"`
}

// Validate checks value against node. Issues are sorted by field.
func Validate(node *schema.Node, value any) Result {
	if node == nil {
		return Result{Valid: true}
	}
	err := openapi.ToOpenAPI(node).VisitJSON(value, openapi3.MultiErrors())
	if err == nil {
		return Result{Valid: true}
	}

	var issues []Issue
	collect(err, &issues)
	sort.SliceStable(issues, func(i, j int) bool {
		return issues[i].Field < issues[j].Field
	})
	return Result{Valid: false, Issues: issues}
}

func collect(err error, out *[]Issue) {
	switch typed := err.(type) {
	case openapi3.MultiError:
		for _, inner := range typed {
			collect(inner, out)
		}
	case *openapi3.SchemaError:
		*out = append(*out, issueFromSchemaError(typed))
	default:
		var schemaErr *openapi3.SchemaError
		if errors.As(err, &schemaErr) {
			*out = append(*out, issueFromSchemaError(schemaErr))
			return
		}
		*out = append(*out, Issue{Message: strings.TrimSpace(err.Error())})
	}
}

func issueFromSchemaError(err *openapi3.SchemaError) Issue {
	path := formstate.FromTokens(err.JSONPointer())
	message := strings.TrimSpace(err.Reason)
	if message == "" {
		message = strings.TrimSpace(err.Error())
	}
	return Issue{
		Path:    path.Pointer(),
		Field:   path.String(),
		Message: message,
	}
}

// Fields returns the issues keyed by dotted field path. Issues without a
// location are keyed by the empty string.
func (r Result) Fields() map[string][]string {
	if len(r.Issues) == 0 {
		return nil
	}
	out := make(map[string][]string, len(r.Issues))
	for _, issue := range r.Issues {
		out[issue.Field] = append(out[issue.Field], issue.Message)
	}
	return out
}
