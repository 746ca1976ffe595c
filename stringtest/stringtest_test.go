package stringtest_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"go.jacobcolvin.com/aggstage/stringtest"
)

func TestInput(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		input string
		want  string
	}{
		"empty string": {
			input: "",
			want:  "",
		},
		"single line": {
			input: "[]",
			want:  "[]",
		},
		"surrounding newlines": {
			input: "\n[]\n",
			want:  "[]",
		},
		"common indent spaces": {
			input: `
        [
          {$limit: 1}
        ]`,
			want: "[\n  {$limit: 1}\n]",
		},
		"common indent tabs": {
			input: "\n\t[\n\t\t{$limit: 1}\n\t]",
			want:  "[\n\t{$limit: 1}\n]",
		},
		"blank and whitespace-only lines": {
			input: "\n    {\n      \n\n      // $skip: 1\n    }",
			want:  "{\n\n\n  // $skip: 1\n}",
		},
		"keeps extra leading newline": {
			input: "\n\n[]",
			want:  "\n[]",
		},
		"keeps extra trailing newline": {
			input: "[]\n\n",
			want:  "[]\n",
		},
		"already dedented": {
			input: "[\n  1\n]",
			want:  "[\n  1\n]",
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tc.want, stringtest.Input(tc.input))
		})
	}
}

func TestJoin(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		wantLF   string
		wantCRLF string
		input    []string
	}{
		"empty input": {
			input:    nil,
			wantLF:   "",
			wantCRLF: "",
		},
		"single string": {
			input:    []string{"{}"},
			wantLF:   "{}",
			wantCRLF: "{}",
		},
		"three strings": {
			input:    []string{"{", "  a: 1", "}"},
			wantLF:   "{\n  a: 1\n}",
			wantCRLF: "{\r\n  a: 1\r\n}",
		},
		"with empty string": {
			input:    []string{"a", "", "c"},
			wantLF:   "a\n\nc",
			wantCRLF: "a\r\n\r\nc",
		},
		"already contains newlines": {
			input:    []string{"a\nb", "c"},
			wantLF:   "a\nb\nc",
			wantCRLF: "a\nb\r\nc",
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tc.wantLF, stringtest.JoinLF(tc.input...))
			assert.Equal(t, tc.wantCRLF, stringtest.JoinCRLF(tc.input...))
		})
	}
}
