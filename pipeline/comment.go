package pipeline

import (
	"log/slog"
	"regexp"
	"strings"

	"go.jacobcolvin.com/aggstage/jsexpr"
)

// OperatorRegex matches a stage operator and its colon at the start of
// recovered comment text. The operator may be quoted.
var operatorRegex = regexp.MustCompile(
	`^(\$[A-Za-z0-9_]*|'\$[A-Za-z0-9_]*'|"\$[A-Za-z0-9_]*")\s*:`,
)

// Disabled is the operator and canonical source recovered from a stage whose
// body was commented out.
type Disabled struct {
	Operator string
	Source   string
}

// DecodeComment recovers a disabled stage from the source text of an empty
// object literal whose body holds only comments, such as
//
//	{
//	  // $sort: {age: -1},
//	}
//
// Line comments, block comments with or without continuation markers, and
// compact forms like {/* $limit: 5 */} are all accepted. DecodeComment never
// fails: when no operator is found Operator is empty, and when the argument
// cannot be parsed Source is empty.
func DecodeComment(text string) Disabled {
	return NewParser().DecodeComment(text)
}

// DecodeComment is like the package-level [DecodeComment] but renders with
// the parser's indent and logs through its logger.
func (p *Parser) DecodeComment(text string) Disabled {
	return p.decodeComment(text, -1)
}

func (p *Parser) decodeComment(text string, index int) Disabled {
	code := StripComments(text)

	var d Disabled

	if m := operatorRegex.FindStringSubmatch(code); m != nil {
		d.Operator = strings.Trim(m[1], `'"`)
		code = code[len(m[0]):]
	}

	arg := strings.TrimSpace(code)
	arg = strings.TrimSpace(strings.TrimSuffix(arg, ","))

	if arg == "" {
		return d
	}

	// Parsing the argument as the only element of an array accepts any
	// expression, including object literals that would otherwise parse as
	// blocks.
	prog, err := jsexpr.Parse("[" + arg + "]")
	if err != nil {
		p.log().Debug("cannot parse disabled stage",
			slog.Int("stage", index),
			slog.String("operator", d.Operator),
			slog.Any("error", err),
		)

		return d
	}

	if len(prog.Statements) != 1 {
		return d
	}

	stmt, ok := prog.Statements[0].(*jsexpr.ExprStatement)
	if !ok {
		return d
	}

	arr, ok := stmt.X.(*jsexpr.Array)
	if !ok {
		return d
	}

	d.Source = p.renderer.RenderList(arr.Elements)

	return d
}

// StripComments returns the code hidden in the comments of an empty object
// literal's source text: the outer braces are removed, then every comment
// marker ("//", "/*", "/**", "*/", and leading "*" continuation markers), and
// the result is trimmed.
//
// Markers inside quoted strings are kept, so URLs and glob patterns in string
// values survive.
func StripComments(text string) string {
	text = strings.TrimLeft(text, "{")
	text = strings.TrimRight(text, "}")

	return strings.TrimSpace(stripMarkers(text))
}

// stripMarkers removes comment markers while tracking string literals.
// String state resets at each newline, so an unbalanced quote in prose only
// affects the rest of its line.
func stripMarkers(s string) string {
	var (
		sb        strings.Builder
		quote     byte
		lineStart = true
	)

	sb.Grow(len(s))

	for i := 0; i < len(s); i++ {
		ch := s[i]

		if ch == '\n' {
			quote = 0
			lineStart = true

			sb.WriteByte(ch)

			continue
		}

		if quote != 0 {
			sb.WriteByte(ch)

			switch {
			case ch == '\\' && i+1 < len(s) && s[i+1] != '\n':
				i++
				sb.WriteByte(s[i])
			case ch == quote:
				quote = 0
			}

			continue
		}

		switch {
		case ch == '\'' || ch == '"' || ch == '`':
			quote = ch

		case strings.HasPrefix(s[i:], "//"):
			for i+1 < len(s) && s[i+1] == '/' {
				i++
			}

			continue

		case strings.HasPrefix(s[i:], "/*"):
			end := skipStars(s, i+1)
			if end-i > 2 && end < len(s) && s[end] == '/' {
				// Empty comment, as in /**/.
				end++
			}

			i = end - 1

			continue

		case ch == '*':
			end := skipStars(s, i)
			if end < len(s) && s[end] == '/' {
				// Closing marker.
				i = end

				continue
			}

			if lineStart {
				// Continuation marker.
				i = end - 1

				continue
			}
		}

		if ch != ' ' && ch != '\t' && ch != '\r' {
			lineStart = false
		}

		sb.WriteByte(ch)
	}

	return sb.String()
}

// skipStars returns the index of the first byte at or after i that is not '*'.
func skipStars(s string, i int) int {
	for i < len(s) && s[i] == '*' {
		i++
	}

	return i
}
