package scan

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// spanAfter finds the argument span following the first occurrence of
// marker in text.
func spanAfter(t *testing.T, text, marker string, d dialect) (string, bool) {
	t.Helper()
	at := strings.Index(text, marker)
	require.GreaterOrEqual(t, at, 0)
	return balancedSpan(text, at+len(marker), d)
}

func TestBalancedSpan_Simple(t *testing.T) {
	span, ok := spanAfter(t, "do_action( 'init', $arg );", "do_action(", phpDialect)
	require.True(t, ok)
	assert.Equal(t, " 'init', $arg ", span)
}

func TestBalancedSpan_NestedBrackets(t *testing.T) {
	span, ok := spanAfter(t, "f( array( 1, array( 2 ) ), [3] ) tail", "f(", phpDialect)
	require.True(t, ok)
	assert.Equal(t, " array( 1, array( 2 ) ), [3] ", span)
}

func TestBalancedSpan_BracketInString(t *testing.T) {
	// The ')' inside the string must not close the span.
	span, ok := spanAfter(t, `f( 'a)b', $x )`, "f(", phpDialect)
	require.True(t, ok)
	assert.Equal(t, ` 'a)b', $x `, span)
}

func TestBalancedSpan_EscapedQuote(t *testing.T) {
	span, ok := spanAfter(t, `f( 'it\'s )fine' )`, "f(", phpDialect)
	require.True(t, ok)
	assert.Equal(t, ` 'it\'s )fine' `, span)
}

func TestBalancedSpan_InterpolatedBrace(t *testing.T) {
	// A bracket inside a {$...} interpolation is invisible to the outer
	// depth count.
	span, ok := spanAfter(t, `f( "pre_{$arr[')']}post" )`, "f(", phpDialect)
	require.True(t, ok)
	assert.Equal(t, ` "pre_{$arr[')']}post" `, span)
}

func TestBalancedSpan_TemplateLiteral(t *testing.T) {
	span, ok := spanAfter(t, "f( `a ${ get(')') } b` )", "f(", jsDialect)
	require.True(t, ok)
	assert.Equal(t, " `a ${ get(')') } b` ", span)
}

func TestBalancedSpan_SkipsComments(t *testing.T) {
	text := "f( $a, // not a ) closer\n $b /* nor ) this */ )"
	span, ok := spanAfter(t, text, "f(", phpDialect)
	require.True(t, ok)
	assert.Contains(t, span, "$b")
}

func TestBalancedSpan_Unbalanced(t *testing.T) {
	_, ok := spanAfter(t, "f( 'never closes'", "f(", phpDialect)
	assert.False(t, ok)
}

func TestBalancedSpan_BoundedScan(t *testing.T) {
	// Pathological input longer than the scan bound never balances and
	// never errors.
	text := "f(" + strings.Repeat("x", maxSpanScan+10)
	_, ok := balancedSpan(text, 2, phpDialect)
	assert.False(t, ok)
}

func TestSplitArgs_TopLevelOnly(t *testing.T) {
	args := splitArgs(` 'name', array( 1, 2 ), $x `, phpDialect)
	require.Len(t, args, 3)
	assert.Equal(t, "'name'", args[0])
	assert.Equal(t, "array( 1, 2 )", args[1])
	assert.Equal(t, "$x", args[2])
}

func TestSplitArgs_CommaInString(t *testing.T) {
	args := splitArgs(`'a,b', $c`, phpDialect)
	require.Len(t, args, 2)
	assert.Equal(t, `'a,b'`, args[0])
}

func TestSplitArgs_DropsEmpty(t *testing.T) {
	args := splitArgs(`'a', , `, phpDialect)
	require.Len(t, args, 1)
	assert.Equal(t, "'a'", args[0])
}

func TestSplitArgs_Empty(t *testing.T) {
	assert.Empty(t, splitArgs("   ", phpDialect))
}
