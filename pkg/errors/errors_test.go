package errors

import (
	stdErrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseErrorWrapsUnderlying(t *testing.T) {
	t.Parallel()

	underlying := fmt.Errorf("unexpected token")
	err := NewParseError("ruleset.yaml", 12, underlying)

	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	require.Equal(t, "ruleset.yaml", parseErr.Path)
	require.Equal(t, 12, parseErr.Line)
	require.True(t, stdErrors.Is(err, underlying))
	require.Contains(t, err.Error(), "ruleset.yaml:12")
}

func TestValidationErrorIncludesField(t *testing.T) {
	t.Parallel()

	err := NewValidationError("components.Panel.validInnerComponents", "references unknown component", nil)

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	require.Equal(t, "components.Panel.validInnerComponents", validationErr.Field)
	require.Contains(t, err.Error(), "references unknown component")
}

func TestExpressionErrorFallsBackToUnderlyingMessage(t *testing.T) {
	t.Parallel()

	underlying := stdErrors.New("unknown function")
	err := NewExpressionError("$nope(#fff)", "", underlying)

	var exprErr *ExpressionError
	require.ErrorAs(t, err, &exprErr)
	require.Equal(t, "$nope(#fff)", exprErr.Expr)
	require.True(t, stdErrors.Is(err, underlying))
	require.Contains(t, err.Error(), "unknown function")
}

func TestConsistencyErrorMentionsSelector(t *testing.T) {
	t.Parallel()

	err := NewConsistencyError("Text", ".panel .text", "no real ancestor emitted")
	require.Contains(t, err.Error(), "Text")
	require.Contains(t, err.Error(), ".panel .text")
}

func TestTaskErrorUnwraps(t *testing.T) {
	t.Parallel()

	underlying := stdErrors.New("boom")
	err := NewTaskError("Root > Post", underlying)

	var taskErr *TaskError
	require.ErrorAs(t, err, &taskErr)
	require.Equal(t, "Root > Post", taskErr.Path)
	require.True(t, stdErrors.Is(err, underlying))
}
