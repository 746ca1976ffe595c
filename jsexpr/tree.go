package jsexpr

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

// Span is a half-open byte range [Start, End) into the parsed source.
type Span struct {
	Start int
	End   int
}

// Range returns the span itself. It is promoted to every node that embeds a
// [Span].
func (s Span) Range() Span { return s }

// Text returns the slice of src covered by s, clamped to src.
func (s Span) Text(src string) string {
	start := min(max(s.Start, 0), len(src))
	end := min(max(s.End, start), len(src))

	return src[start:end]
}

// Program is the root of a parsed source text.
type Program struct {
	Statements []Statement
}

// Statement is a top-level statement. Comments are not statements.
type Statement interface {
	Range() Span
	stmtNode()
}

// ExprStatement is a statement consisting of a single expression.
type ExprStatement struct {
	X Expr
	Span
}

// OtherStatement is any statement that is not an expression statement, such
// as a block, a declaration, or an empty statement.
type OtherStatement struct {
	Kind string
	Span
}

func (*ExprStatement) stmtNode()  {}
func (*OtherStatement) stmtNode() {}

// Expr is an expression node. The set of implementations is closed: [*Array],
// [*Object], [*Ident], [*Literal], [*Unary], [*Binary], [*Call], [*Member],
// [*Spread], and [*Other].
type Expr interface {
	Range() Span
	exprNode()
}

// Array is an array literal.
type Array struct {
	Elements []Expr
	Span
}

// Object is an object literal. An object whose body holds only comments has
// no properties.
type Object struct {
	Properties []*Property
	Span
}

// Property is one member of an [Object].
//
// Key is nil for members that have no key, such as spread elements and
// method definitions; Value then holds the whole member.
type Property struct {
	Key       Expr
	Value     Expr
	Computed  bool
	Shorthand bool
}

// Ident is an identifier, including property names and this.
type Ident struct {
	Name string
	Span
}

// LiteralKind classifies a [Literal].
type LiteralKind int

const (
	LiteralString LiteralKind = iota
	LiteralNumber
	LiteralBoolean
	LiteralNull
	LiteralUndefined
	LiteralRegex
	LiteralTemplate
)

// Literal is a scalar literal. Raw is the exact source text, including quotes.
type Literal struct {
	Raw  string
	Kind LiteralKind
	Span
}

// Value returns the literal's value as text. String literals are unquoted and
// unescaped; every other kind returns Raw.
func (l *Literal) Value() string {
	if l.Kind != LiteralString {
		return l.Raw
	}

	return unquote(l.Raw)
}

// Unary is a prefix unary expression such as -1 or typeof x.
type Unary struct {
	X        Expr
	Operator string
	Span
}

// Binary is an infix binary or logical expression.
type Binary struct {
	X        Expr
	Y        Expr
	Operator string
	Span
}

// Call is a call or constructor invocation.
type Call struct {
	Callee Expr
	Args   []Expr
	New    bool
	Span
}

// Member is a property access, either a.b or a[b].
type Member struct {
	X        Expr
	Property Expr
	Computed bool
	Span
}

// Spread is a spread element, ...x.
type Spread struct {
	X Expr
	Span
}

// Kinds of [Other] that do not come from a node in the source.
const (
	// KindHole is an elided array element, as in [a, , b].
	KindHole = "hole"
	// KindMissing is an expression the parser expected but did not find,
	// as in {i: }.
	KindMissing = "missing"
)

// Other is any expression kind without a dedicated node, such as functions
// or arrow functions. Raw is the exact source text, empty for [KindHole]
// and [KindMissing].
type Other struct {
	Kind string
	Raw  string
	Span
}

func (*Array) exprNode()   {}
func (*Object) exprNode()  {}
func (*Ident) exprNode()   {}
func (*Literal) exprNode() {}
func (*Unary) exprNode()   {}
func (*Binary) exprNode()  {}
func (*Call) exprNode()    {}
func (*Member) exprNode()  {}
func (*Spread) exprNode()  {}
func (*Other) exprNode()   {}

// KeyName returns the name declared by a property key: the identifier name
// for unquoted keys, the decoded value for string keys, and the rendered key
// otherwise. It returns "" for members without a key.
func KeyName(p *Property) string {
	if p == nil || p.Key == nil {
		return ""
	}

	switch k := p.Key.(type) {
	case *Ident:
		return k.Name
	case *Literal:
		return k.Value()
	default:
		return Render(k)
	}
}

// unquote decodes a single, double, or backtick quoted JavaScript string.
// Unknown escapes decode to the escaped character.
func unquote(raw string) string {
	if len(raw) < 2 {
		return raw
	}

	q := raw[0]
	body := raw[1:]

	if body[len(body)-1] == q {
		body = body[:len(body)-1]
	}

	if !strings.ContainsRune(body, '\\') {
		return body
	}

	var sb strings.Builder

	for i := 0; i < len(body); i++ {
		ch := body[i]
		if ch != '\\' || i+1 >= len(body) {
			sb.WriteByte(ch)

			continue
		}

		i++

		switch esc := body[i]; esc {
		case 'n':
			sb.WriteByte('\n')
		case 't':
			sb.WriteByte('\t')
		case 'r':
			sb.WriteByte('\r')
		case 'b':
			sb.WriteByte('\b')
		case 'f':
			sb.WriteByte('\f')
		case 'v':
			sb.WriteByte('\v')
		case '0':
			sb.WriteByte(0)
		case '\n':
			// Line continuation.
		case 'x':
			r, n := parseHexRune(body[i+1:], 2)
			sb.WriteRune(r)

			i += n
		case 'u':
			var (
				r rune
				n int
			)

			if strings.HasPrefix(body[i+1:], "{") {
				end := strings.IndexByte(body[i+1:], '}')
				if end < 0 {
					sb.WriteByte(esc)

					continue
				}

				r, _ = parseHexRune(body[i+2:i+1+end], end-1)
				n = end + 1
			} else {
				r, n = parseHexRune(body[i+1:], 4)
			}

			sb.WriteRune(r)

			i += n
		default:
			sb.WriteByte(esc)
		}
	}

	return sb.String()
}

// parseHexRune parses exactly width hex digits from the front of s. It returns
// the replacement character and zero consumed bytes when s is too short or
// not hex.
func parseHexRune(s string, width int) (rune, int) {
	if width <= 0 || len(s) < width {
		return utf8.RuneError, 0
	}

	v, err := strconv.ParseUint(s[:width], 16, 32)
	if err != nil {
		return utf8.RuneError, 0
	}

	return rune(v), width
}
