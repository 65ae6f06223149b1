package cdl

import (
	"regexp"
	"strings"

	"github.com/gemmology-dev/crystal-api/pkg/errors"
)

var (
	blockCommentRe = regexp.MustCompile(`(?s)/\*.*?\*/`)
	lineCommentRe  = regexp.MustCompile(`#[^\n]*`)
	definitionRe   = regexp.MustCompile(`^@([A-Za-z_][A-Za-z0-9_]*)\s*=\s*(.+)$`)
	referenceRe    = regexp.MustCompile(`\$([A-Za-z_][A-Za-z0-9_]*)`)
)

// PreprocessResult is the output of comment stripping and macro expansion.
type PreprocessResult struct {
	// Text is the cleaned expression handed to the lexer.
	Text string

	// DocComments holds the payloads of #! lines in source order.
	DocComments []string

	// Definitions maps each @name to its fully-expanded body, and Order
	// records insertion order.
	Definitions map[string]string
	Order       []string
}

// Preprocess strips doc comments, block comments, and line comments from the
// raw CDL text, extracts @name definitions, and expands $name references.
//
// Definitions may reference earlier definitions; a $name with no matching
// definition fails with CodeUnresolvedReference.  Blank post-preprocess text
// fails with CodeEmptyInput.
func Preprocess(input string) (*PreprocessResult, error) {
	res := &PreprocessResult{Definitions: map[string]string{}}

	// Doc comments: lines whose leftmost non-whitespace starts with "#!".
	var kept []string
	for _, line := range strings.Split(input, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "#!") {
			res.DocComments = append(res.DocComments, strings.TrimSpace(trimmed[2:]))
			continue
		}
		kept = append(kept, line)
	}
	text := strings.Join(kept, "\n")

	// Block comments, then line comments.
	text = blockCommentRe.ReplaceAllString(text, "")
	text = lineCommentRe.ReplaceAllString(text, "")

	// Definitions: @name = body lines, captured in insertion order.  Each
	// body is expanded against previously-resolved definitions before being
	// stored, so later definitions can build on earlier ones.
	var bodyLines []string
	for _, line := range strings.Split(text, "\n") {
		m := definitionRe.FindStringSubmatch(strings.TrimSpace(line))
		if m == nil {
			bodyLines = append(bodyLines, line)
			continue
		}
		name, body := m[1], strings.TrimSpace(m[2])
		body = substituteRefs(body, res.Definitions, res.Order)
		res.Definitions[name] = body
		res.Order = append(res.Order, name)
	}
	text = strings.Join(bodyLines, "\n")
	text = substituteRefs(text, res.Definitions, res.Order)

	// Anything still shaped like a reference is unresolved.
	if m := referenceRe.FindStringSubmatch(text); m != nil {
		return nil, errors.Newf(errors.CodeUnresolvedReference, "unresolved reference $%s", m[1]).
			WithDetail("no matching @" + m[1] + " definition")
	}

	res.Text = strings.TrimSpace(text)
	if res.Text == "" {
		return nil, errors.New(errors.CodeEmptyInput, "expression is empty after preprocessing")
	}
	return res, nil
}

// substituteRefs replaces $name occurrences (not followed by a word
// character) with the resolved definition bodies, in definition order.
func substituteRefs(text string, defs map[string]string, order []string) string {
	for _, name := range order {
		re := regexp.MustCompile(`\$` + regexp.QuoteMeta(name) + `\b`)
		text = re.ReplaceAllString(text, defs[name])
	}
	return text
}
