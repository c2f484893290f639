package datagrid

import (
	"fmt"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// ExprFilter compiles a boolean expression into a row filter. env maps a
// row to the variables the expression sees. The expression is compiled
// once; a row for which it errors, yields nil or yields a non-bool is
// hidden. An empty expression returns a nil filter, which shows every row.
func ExprFilter[R any](expression string, env func(R) map[string]any) (Filter[R], error) {
	expression = strings.TrimSpace(expression)
	if expression == "" {
		return nil, nil
	}
	program, err := compileFilter(expression)
	if err != nil {
		return nil, err
	}
	return func(row R) bool {
		return runFilter(program, env(row))
	}, nil
}

// RecordFilter compiles a filter over Record rows. Column names are
// variables (numeric columns as numbers); names that are not identifiers
// are reachable as row["Unit price"].
func RecordFilter(c *RecordContract, expression string) (Filter[Record], error) {
	return ExprFilter(expression, c.Env)
}

func compileFilter(expression string) (*vm.Program, error) {
	program, err := expr.Compile(expression, expr.AllowUndefinedVariables(), expr.AsAny())
	if err != nil {
		return nil, fmt.Errorf("compile filter %q: %w", expression, err)
	}
	return program, nil
}

func runFilter(program *vm.Program, env map[string]any) bool {
	result, err := expr.Run(program, env)
	if err != nil || result == nil {
		return false
	}
	b, ok := result.(bool)
	return ok && b
}
