package bot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluate(t *testing.T) {

	cases := map[string]string{
		"2+3*4":     "14",
		"(1+2)*3":   "9",
		"10/4":      "2",
		"10.0/4":    "2.5",
		"7 % 3":     "1",
		"-(2 + 3)":  "-5",
		"2*(3+4)/7": "2",
		"0.1 + 0.2": "0.3",
	}
	for expression, expected := range cases {
		result, err := Evaluate(expression)
		require.NoError(t, err, expression)
		assert.Equal(t, expected, result, expression)
	}
}

func TestEvaluateRejectsNonArithmetic(t *testing.T) {

	// Identifiers, calls and anything beyond plain arithmetic are
	// rejected before evaluation
	for _, expression := range []string{
		"abs(1)",
		"len(\"x\")",
		"1 << 30",
		"x + 1",
		"\"a\" + \"b\"",
	} {
		_, err := Evaluate(expression)
		assert.Error(t, err, expression)
	}
}

func TestEvaluateDivisionByZero(t *testing.T) {

	_, err := Evaluate("1/0")
	assert.Error(t, err)
}

func TestEvaluateMalformed(t *testing.T) {

	_, err := Evaluate("2+")
	assert.Error(t, err)
}
