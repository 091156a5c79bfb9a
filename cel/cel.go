// Package cel lets scheme repository lookups be filtered by a CEL predicate instead of plain
// field equality.
package cel

import (
	"fmt"
	"sort"
	"strings"

	"github.com/google/cel-go/cel"

	"github.com/sharedcode/lrc"
)

// Filter holds a compiled CEL predicate evaluated against a record and a query.
type Filter struct {
	Expression string
	program    cel.Program
}

// NewFilter compiles expression into a Filter. The expression sees two variables, `record`
// and `query`, both map(string, dyn) keyed by field name, and must yield a bool, e.g.
// "record.groups == query.groups && record.disks >= query.disks".
func NewFilter(expression string) (*Filter, error) {
	if strings.TrimSpace(expression) == "" {
		return nil, fmt.Errorf("expression can't be empty string")
	}

	env, err := cel.NewEnv(
		cel.Variable("record", cel.MapType(cel.StringType, cel.DynType)),
		cel.Variable("query", cel.MapType(cel.StringType, cel.DynType)),
	)
	if err != nil {
		return nil, fmt.Errorf("error creating CEL environment: %w", err)
	}

	ast, issues := env.Compile(expression)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("error compiling CEL expression: %w", issues.Err())
	}
	if ast.OutputType() != cel.BoolType {
		return nil, fmt.Errorf("CEL expression must yield bool, got %v", ast.OutputType())
	}
	p, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("error creating Program: %w", err)
	}
	return &Filter{
		Expression: expression,
		program:    p,
	}, nil
}

// EqualityExpression returns the CEL expression comparing every given field of record and query.
func EqualityExpression(fields ...lrc.Field) string {
	names := make([]string, 0, len(fields))
	for _, f := range fields {
		names = append(names, string(f))
	}
	sort.Strings(names)
	terms := make([]string, 0, len(names))
	for _, n := range names {
		terms = append(terms, fmt.Sprintf("record.%s == query.%s", n, n))
	}
	if len(terms) == 0 {
		return "true"
	}
	return strings.Join(terms, " && ")
}

// Match evaluates the predicate against r and q. It implements lrc.Matcher.
func (f *Filter) Match(r lrc.Record, q lrc.Query) (bool, error) {
	out, _, err := f.program.Eval(map[string]any{
		"record": r.ToMap(),
		"query":  q.ToMap(),
	})
	if err != nil {
		return false, fmt.Errorf("error evaluating CEL expression: %w", err)
	}
	v, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("error converting to bool, got: %v", out.Value())
	}
	return v, nil
}

// NewMatcher returns a CEL backed matcher for expression, or the plain field matcher when
// expression is empty.
func NewMatcher(expression string) (lrc.Matcher, error) {
	if strings.TrimSpace(expression) == "" {
		return lrc.NewFieldMatcher(), nil
	}
	return NewFilter(expression)
}
