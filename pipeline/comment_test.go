package pipeline_test

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.jacobcolvin.com/aggstage/pipeline"
	"go.jacobcolvin.com/aggstage/stringtest"
)

func TestStripComments(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		input string
		want  string
	}{
		"line comment": {
			input: "{ // $limit: 20 }",
			want:  "$limit: 20",
		},
		"repeated slashes": {
			input: "{\n  /// $limit: 20\n}",
			want:  "$limit: 20",
		},
		"multi-line line comments": {
			input: "{\n  // $sort: {\n  //   age: -1\n  // }\n}",
			want:  "$sort: {\n     age: -1\n   }",
		},
		"compact block comment": {
			input: "{/*$limit: 20*/}",
			want:  "$limit: 20",
		},
		"doc block comment": {
			input: "{/** $limit: 20 */}",
			want:  "$limit: 20",
		},
		"continuation markers": {
			input: "{\n  /**\n   * $limit:\n   * 20\n   */\n}",
			want:  "$limit:\n    20",
		},
		"empty block comment": {
			input: "{/**/}",
			want:  "",
		},
		"markers inside strings are kept": {
			input: "{\n  // $match: {url: 'http://example.com/*'}\n}",
			want:  "$match: {url: 'http://example.com/*'}",
		},
		"escaped quotes inside strings": {
			input: `{/* $match: {a: 'it\'s // here'} */}`,
			want:  `$match: {a: 'it\'s // here'}`,
		},
		"multiplication is kept": {
			input: "{/* $set: {a: 2 * 3} */}",
			want:  "$set: {a: 2 * 3}",
		},
		"only whitespace": {
			input: "{ \n\t }",
			want:  "",
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tc.want, pipeline.StripComments(tc.input))
		})
	}
}

func TestDecodeComment(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		input string
		want  pipeline.Disabled
	}{
		"single line": {
			input: "{\n  // $sort: {age: -1},\n}",
			want:  pipeline.Disabled{Operator: "$sort", Source: sortSource},
		},
		"operator on its own line": {
			input: "{\n  // $sort\n  //   : {age: -1}\n}",
			want:  pipeline.Disabled{Operator: "$sort", Source: sortSource},
		},
		"inconsistent indentation": {
			input: stringtest.JoinLF(
				"{",
				"      /*",
				"   *    $sort: {",
				"           *age: -1",
				"  *}",
				"*/",
				"}",
			),
			want: pipeline.Disabled{Operator: "$sort", Source: sortSource},
		},
		"scalar argument": {
			input: "{ /* $limit: 20, */ }",
			want:  pipeline.Disabled{Operator: "$limit", Source: "20"},
		},
		"array argument": {
			input: "{\n  // $unionWith: ['a', {b: 1}]\n}",
			want:  pipeline.Disabled{Operator: "$unionWith", Source: "['a', {\n  b: 1\n}]"},
		},
		"double quoted operator": {
			input: "{\n  // \"$count\": \"total\"\n}",
			want:  pipeline.Disabled{Operator: "$count", Source: `"total"`},
		},
		"several expressions": {
			input: "{\n  // $facet: {a: 1}, {b: 2}\n}",
			want:  pipeline.Disabled{Operator: "$facet", Source: "{\n  a: 1\n}, {\n  b: 2\n}"},
		},
		"unparseable argument": {
			input: "{\n  // $match: {a: ???}\n}",
			want:  pipeline.Disabled{Operator: "$match"},
		},
		"nothing recoverable": {
			input: "{}",
			want:  pipeline.Disabled{},
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tc.want, pipeline.DecodeComment(tc.input))
		})
	}
}

func TestDecodeCommentEquivalentForms(t *testing.T) {
	t.Parallel()

	forms := []string{
		"{\n  // $sort: {age: -1},\n}",
		"{\n  // $sort: {\n  //   age: -1\n  // },\n}",
		"{\n  /** $sort: {age: -1}, */\n}",
		"{\n  /**\n   * $sort: {\n   *  age: -1\n   * }\n   */\n}",
		"{/**\n   $sort: {\n   age: -1\n   } */}",
		"{/** $sort: {age: -1} */}",
		"{/*$sort:{age:-1}*/}",
	}

	want := pipeline.DecodeComment(forms[0])
	require.Equal(t, pipeline.Disabled{Operator: "$sort", Source: sortSource}, want)

	for _, form := range forms[1:] {
		assert.Equal(t, want, pipeline.DecodeComment(form), "form: %q", form)
	}
}

func TestDecodeCommentLogsUnparseableArgument(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	p := pipeline.NewParser(pipeline.WithLogger(logger))

	got, err := p.Parse("[{$limit: 1}, {\n  // $match: {a: ???}\n}]")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, pipeline.Stage{Operator: "$match"}, got[1])

	assert.Contains(t, buf.String(), "cannot parse disabled stage")
	assert.Contains(t, buf.String(), "stage=1")
	assert.Contains(t, buf.String(), "operator=$match")
}
