package bot

import (
	"fmt"
	"go/token"
	"go/types"
	"regexp"
)

// Only plain arithmetic gets through: digits, the four operations,
// modulo, parentheses, decimal points and spaces. No identifiers means
// the evaluator below can never reach a function or a named value
var calcRegex = regexp.MustCompile(`^[0-9+\-*/%().\s]+$`)

// Evaluate computes an arithmetic expression as an exact constant.
// Integer operands divide like integers; use a decimal point for real
// division (10/4 is 2, 10.0/4 is 2.5)
func Evaluate(expression string) (string, error) {

	if !calcRegex.MatchString(expression) {
		return "", fmt.Errorf("expression contains invalid characters")
	}

	result, err := types.Eval(token.NewFileSet(), nil, token.NoPos, expression)
	if err != nil {
		return "", fmt.Errorf("could not evaluate expression: %w", err)
	}
	if result.Value == nil {
		return "", fmt.Errorf("expression is not a constant")
	}

	return result.Value.String(), nil
}
