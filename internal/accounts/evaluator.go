package accounts

import (
	"fmt"
	"regexp"
	"strings"
)

// Evaluator resolves {field} references inside stored field values. It is
// injected so that the expression language stays replaceable without
// touching the record model; the default implementation supports plain
// field substitution and nothing else.
type Evaluator interface {
	Evaluate(a *Account, expr string, depth int) (string, error)
}

// maxEvalDepth bounds reference chains; past this the references are
// considered circular.
const maxEvalDepth = 8

var fieldRef = regexp.MustCompile(`\{([A-Za-z0-9_][A-Za-z0-9_.]*)\}`)

// FieldTemplate is the default Evaluator. It substitutes {name} and
// {name.key} references with the referenced field's resolved value.
type FieldTemplate struct{}

func (FieldTemplate) Evaluate(a *Account, expr string, depth int) (string, error) {
	if depth >= maxEvalDepth {
		return "", fmt.Errorf("circular field reference in %q", expr)
	}

	var evalErr error
	result := fieldRef.ReplaceAllStringFunc(expr, func(match string) string {
		if evalErr != nil {
			return match
		}
		ref := strings.Trim(match, "{}")
		name, key := SplitName(ref)

		value, err := a.resolveRef(name, key, depth+1)
		if err != nil {
			evalErr = fmt.Errorf("reference %s: %w", ref, err)
			return match
		}
		return value
	})
	if evalErr != nil {
		return "", evalErr
	}
	return result, nil
}

// resolveRef resolves one reference target at the given recursion depth,
// bypassing GetField so depth tracking survives nested references.
func (a *Account) resolveRef(name, key string, depth int) (string, error) {
	label := CombineName(name, key)

	if value, ok := a.Secrets[name]; ok {
		return a.evaluate(value, depth)
	}
	if _, ok := a.Generated[name]; ok {
		s, err := a.GetField(label)
		if err != nil {
			return "", err
		}
		return s.Value, nil
	}
	raw, ok := a.Fields[name]
	if !ok {
		return "", fmt.Errorf("no such field")
	}
	value, err := a.index(raw, key, label)
	if err != nil {
		return "", err
	}
	return a.evaluate(value, depth)
}
