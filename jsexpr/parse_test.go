package jsexpr_test

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"go.jacobcolvin.com/aggstage/jsexpr"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// parseArray parses src and returns its single top-level array literal.
func parseArray(t *testing.T, src string) *jsexpr.Array {
	t.Helper()

	prog, err := jsexpr.Parse(src)
	require.NoError(t, err)
	require.Len(t, prog.Statements, 1)

	stmt, ok := prog.Statements[0].(*jsexpr.ExprStatement)
	require.True(t, ok, "statement is %T", prog.Statements[0])

	arr, ok := stmt.X.(*jsexpr.Array)
	require.True(t, ok, "expression is %T", stmt.X)

	return arr
}

func TestParseStatements(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		input string
		count int
	}{
		"single array": {
			input: "[1, 2]",
			count: 1,
		},
		"array with terminator": {
			input: "[1, 2];",
			count: 1,
		},
		"leading and trailing comments": {
			input: "// pipeline\n[1] /* done */\n",
			count: 1,
		},
		"two statements": {
			input: "[1]; [2]",
			count: 2,
		},
		"empty input": {
			input: "",
			count: 0,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			prog, err := jsexpr.Parse(tc.input)
			require.NoError(t, err)
			assert.Len(t, prog.Statements, tc.count)
		})
	}
}

func TestParseBareObjectIsNotArray(t *testing.T) {
	t.Parallel()

	prog, err := jsexpr.Parse("{$match: {}}")
	require.NoError(t, err)
	require.Len(t, prog.Statements, 1)

	if stmt, ok := prog.Statements[0].(*jsexpr.ExprStatement); ok {
		_, isArray := stmt.X.(*jsexpr.Array)
		assert.False(t, isArray)
	}
}

func TestParseElements(t *testing.T) {
	t.Parallel()

	arr := parseArray(t, `[{$match: {i: 'long'}}, {/* $sort: {age: -1} */}, 'x', -1]`)
	require.Len(t, arr.Elements, 4)

	match, ok := arr.Elements[0].(*jsexpr.Object)
	require.True(t, ok)
	require.Len(t, match.Properties, 1)
	assert.Equal(t, "$match", jsexpr.KeyName(match.Properties[0]))

	disabled, ok := arr.Elements[1].(*jsexpr.Object)
	require.True(t, ok)
	assert.Empty(t, disabled.Properties)

	lit, ok := arr.Elements[2].(*jsexpr.Literal)
	require.True(t, ok)
	assert.Equal(t, jsexpr.LiteralString, lit.Kind)
	assert.Equal(t, "x", lit.Value())

	neg, ok := arr.Elements[3].(*jsexpr.Unary)
	require.True(t, ok)
	assert.Equal(t, "-", neg.Operator)
}

func TestParseSpans(t *testing.T) {
	t.Parallel()

	src := "[\n  {$limit: 1},\n  {\n    // $skip: 2\n  }\n]"
	arr := parseArray(t, src)
	require.Len(t, arr.Elements, 2)

	assert.Equal(t, "{$limit: 1}", arr.Elements[0].Range().Text(src))
	assert.Equal(t, "{\n    // $skip: 2\n  }", arr.Elements[1].Range().Text(src))
}

func TestParseKeyNames(t *testing.T) {
	t.Parallel()

	arr := parseArray(t, `[{plain: 1, 'single': 2, "double": 3, 'it\'s': 4, 5: 6, [computed]: 7, short}]`)
	require.Len(t, arr.Elements, 1)

	obj, ok := arr.Elements[0].(*jsexpr.Object)
	require.True(t, ok)

	var names []string
	for _, p := range obj.Properties {
		names = append(names, jsexpr.KeyName(p))
	}

	assert.Equal(t, []string{"plain", "single", "double", "it's", "5", "computed", "short"}, names)
	assert.True(t, obj.Properties[5].Computed)
	assert.True(t, obj.Properties[6].Shorthand)
}

func TestLiteralValue(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		input string
		want  string
	}{
		"single quoted":    {input: `['abc']`, want: "abc"},
		"double quoted":    {input: `["abc"]`, want: "abc"},
		"escaped quote":    {input: `['it\'s']`, want: "it's"},
		"newline escape":   {input: `["a\nb"]`, want: "a\nb"},
		"unicode escape":   {input: `['\u0041']`, want: "A"},
		"code point":       {input: `['\u{1F600}']`, want: "\U0001F600"},
		"hex escape":       {input: `['\x41']`, want: "A"},
		"unknown escape":   {input: `['\d']`, want: "d"},
		"number keeps raw": {input: `[1e3]`, want: "1e3"},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			arr := parseArray(t, tc.input)
			require.Len(t, arr.Elements, 1)

			lit, ok := arr.Elements[0].(*jsexpr.Literal)
			require.True(t, ok, "element is %T", arr.Elements[0])
			assert.Equal(t, tc.want, lit.Value())
		})
	}
}

func TestParseToleratesRecoverableObjects(t *testing.T) {
	t.Parallel()

	t.Run("missing value", func(t *testing.T) {
		t.Parallel()

		arr := parseArray(t, "[{i: }]")
		require.Len(t, arr.Elements, 1)

		obj, ok := arr.Elements[0].(*jsexpr.Object)
		require.True(t, ok, "element is %T", arr.Elements[0])
		require.Len(t, obj.Properties, 1)
		assert.Equal(t, "i", jsexpr.KeyName(obj.Properties[0]))

		value, ok := obj.Properties[0].Value.(*jsexpr.Other)
		require.True(t, ok, "value is %T", obj.Properties[0].Value)
		assert.Equal(t, jsexpr.KindMissing, value.Kind)
	})

	t.Run("doubled comma", func(t *testing.T) {
		t.Parallel()

		arr := parseArray(t, "[{a: 1,, b: 2}]")
		require.Len(t, arr.Elements, 1)

		obj, ok := arr.Elements[0].(*jsexpr.Object)
		require.True(t, ok, "element is %T", arr.Elements[0])
		require.Len(t, obj.Properties, 2)
		assert.Equal(t, "a", jsexpr.KeyName(obj.Properties[0]))
		assert.Equal(t, "b", jsexpr.KeyName(obj.Properties[1]))
	})
}

func TestParseArrayHoles(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		input string
		holes []bool
	}{
		"no holes":       {input: "[1, 2]", holes: []bool{false, false}},
		"middle hole":    {input: "[1,,2]", holes: []bool{false, true, false}},
		"leading hole":   {input: "[,1]", holes: []bool{true, false}},
		"trailing comma": {input: "[1,]", holes: []bool{false}},
		"trailing hole":  {input: "[1,,]", holes: []bool{false, true}},
		"only holes":     {input: "[,,]", holes: []bool{true, true}},
		"empty":          {input: "[]", holes: []bool{}},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			arr := parseArray(t, tc.input)
			require.Len(t, arr.Elements, len(tc.holes))

			for i, elem := range arr.Elements {
				other, ok := elem.(*jsexpr.Other)
				isHole := ok && other.Kind == jsexpr.KindHole
				assert.Equal(t, tc.holes[i], isHole, "element %d is %T", i, elem)
			}
		})
	}
}

func TestParseRejectsMissingCloser(t *testing.T) {
	t.Parallel()

	_, err := jsexpr.Parse("[{$limit: 10}")
	require.ErrorIs(t, err, jsexpr.ErrSyntax)
}

func TestParseErrors(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		input string
		line  int
	}{
		"unterminated string": {
			input: "[{$match: {i: 'long}}]",
			line:  1,
		},
		"invalid tokens": {
			input: "[\n  {$match: {i: 1}},\n  ???\n]",
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			_, err := jsexpr.Parse(tc.input)
			require.Error(t, err)
			require.ErrorIs(t, err, jsexpr.ErrSyntax)

			var synErr *jsexpr.SyntaxError
			require.True(t, errors.As(err, &synErr))
			assert.NotEmpty(t, synErr.Msg)

			if tc.line > 0 {
				assert.Equal(t, tc.line, synErr.Line)
			}

			assert.Contains(t, err.Error(), synErr.Msg)
		})
	}
}

func TestParseConcurrent(t *testing.T) {
	t.Parallel()

	const workers = 16

	var wg sync.WaitGroup

	results := make([]string, workers)

	for i := range workers {
		wg.Add(1)

		go func() {
			defer wg.Done()

			prog, err := jsexpr.Parse(`[{$project: {_id: 0, name: 1}}]`)
			if err != nil {
				return
			}

			stmt := prog.Statements[0].(*jsexpr.ExprStatement)
			results[i] = jsexpr.Render(stmt.X)
		}()
	}

	wg.Wait()

	for _, got := range results {
		assert.Equal(t, results[0], got)
	}

	assert.Equal(t, "[{\n  $project: {\n    _id: 0,\n    name: 1\n  }\n}]", results[0])
}
