package jsexpr

import (
	"strings"
)

// DefaultIndent is the indent unit used by [Render].
const DefaultIndent = "  "

// missingPlaceholder is written for [KindMissing] expressions.
const missingPlaceholder = "undefined"

// Renderer renders expression trees as canonical source text.
//
// Output depends only on the tree and the indent unit, so rendering the same
// tree twice always yields identical bytes.
type Renderer struct {
	// Indent is the text written once per nesting level. Empty means
	// [DefaultIndent].
	Indent string
}

// Render renders e with [DefaultIndent].
//
// Expressions the parser had to invent ([KindMissing]) render as
// "undefined", so {i: } renders as a valid object with i: undefined. Array
// holes ([KindHole]) render as nothing between their commas.
func Render(e Expr) string {
	return Renderer{}.Render(e)
}

// Render renders e starting at nesting level zero.
func (r Renderer) Render(e Expr) string {
	var sb strings.Builder

	r.write(&sb, e, 0)

	return sb.String()
}

// RenderList renders each expression at level zero and joins them the way
// array elements are joined, without the surrounding brackets.
func (r Renderer) RenderList(es []Expr) string {
	var sb strings.Builder

	r.writeList(&sb, es, 0)

	return sb.String()
}

func (r Renderer) indent() string {
	if r.Indent == "" {
		return DefaultIndent
	}

	return r.Indent
}

func (r Renderer) writeList(sb *strings.Builder, es []Expr, level int) {
	for i, e := range es {
		if i > 0 {
			sb.WriteString(", ")
		}

		r.write(sb, e, level)
	}
}

func (r Renderer) write(sb *strings.Builder, e Expr, level int) {
	switch n := e.(type) {
	case *Array:
		sb.WriteByte('[')
		r.writeList(sb, n.Elements, level)

		// A trailing hole needs its own comma, or it reads as a trailing comma.
		if len(n.Elements) > 0 && isHole(n.Elements[len(n.Elements)-1]) {
			sb.WriteByte(',')
		}

		sb.WriteByte(']')

	case *Object:
		r.writeObject(sb, n, level)

	case *Ident:
		sb.WriteString(n.Name)

	case *Literal:
		sb.WriteString(n.Raw)

	case *Unary:
		sb.WriteString(n.Operator)

		if isWordOperator(n.Operator) {
			sb.WriteByte(' ')
		}

		r.writeOperand(sb, n.X, level, needsParensInUnary(n))

	case *Binary:
		prec := precedence(n.Operator)

		leftParens := binaryPrec(n.X) < prec

		if n.Operator == "**" {
			// ** is right-associative, and a unary base is a syntax error
			// unless parenthesized, as in (-a) ** 2.
			_, unaryBase := n.X.(*Unary)
			leftParens = binaryPrec(n.X) <= prec || unaryBase
		}

		r.writeOperand(sb, n.X, level, leftParens)
		sb.WriteByte(' ')
		sb.WriteString(n.Operator)
		sb.WriteByte(' ')
		r.writeOperand(sb, n.Y, level, binaryPrec(n.Y) <= prec)

	case *Call:
		if n.New {
			sb.WriteString("new ")
		}

		r.writeOperand(sb, n.Callee, level, isOperation(n.Callee))
		sb.WriteByte('(')
		r.writeList(sb, n.Args, level)
		sb.WriteByte(')')

	case *Member:
		r.writeOperand(sb, n.X, level, isOperation(n.X))

		if n.Computed {
			sb.WriteByte('[')
			r.write(sb, n.Property, level)
			sb.WriteByte(']')
		} else {
			sb.WriteByte('.')
			r.write(sb, n.Property, level)
		}

	case *Spread:
		sb.WriteString("...")
		r.write(sb, n.X, level)

	case *Other:
		if n.Kind == KindMissing {
			sb.WriteString(missingPlaceholder)

			return
		}

		sb.WriteString(strings.Join(strings.Fields(n.Raw), " "))
	}
}

func (r Renderer) writeObject(sb *strings.Builder, o *Object, level int) {
	if len(o.Properties) == 0 {
		sb.WriteString("{}")

		return
	}

	inner := strings.Repeat(r.indent(), level+1)

	sb.WriteString("{\n")

	for i, p := range o.Properties {
		if i > 0 {
			sb.WriteString(",\n")
		}

		sb.WriteString(inner)
		r.writeProperty(sb, p, level+1)
	}

	sb.WriteByte('\n')
	sb.WriteString(strings.Repeat(r.indent(), level))
	sb.WriteByte('}')
}

func (r Renderer) writeProperty(sb *strings.Builder, p *Property, level int) {
	switch {
	case p.Key == nil:
		r.write(sb, p.Value, level)

		return

	case p.Shorthand:
		r.write(sb, p.Key, level)

		return

	case p.Computed:
		sb.WriteByte('[')
		r.write(sb, p.Key, level)
		sb.WriteByte(']')

	default:
		r.write(sb, p.Key, level)
	}

	sb.WriteString(": ")
	r.write(sb, p.Value, level)
}

func (r Renderer) writeOperand(sb *strings.Builder, e Expr, level int, parens bool) {
	if parens {
		sb.WriteByte('(')
	}

	r.write(sb, e, level)

	if parens {
		sb.WriteByte(')')
	}
}

func isWordOperator(op string) bool {
	return op != "" && op[0] >= 'a' && op[0] <= 'z'
}

func isOperation(e Expr) bool {
	switch e.(type) {
	case *Unary, *Binary:
		return true
	default:
		return false
	}
}

// needsParensInUnary reports whether the operand of u must be wrapped so that
// the output does not fuse into another token, as in - -1 or - (a + b).
func isHole(e Expr) bool {
	o, ok := e.(*Other)

	return ok && o.Kind == KindHole
}

func needsParensInUnary(u *Unary) bool {
	switch x := u.X.(type) {
	case *Binary:
		return true
	case *Unary:
		return x.Operator != "" && u.Operator != "" &&
			!isWordOperator(x.Operator) && x.Operator[0] == u.Operator[0]
	default:
		return false
	}
}

// binaryPrec returns the precedence of e if it is a binary expression, and a
// value above every operator otherwise.
func binaryPrec(e Expr) int {
	b, ok := e.(*Binary)
	if !ok {
		return maxPrecedence
	}

	return precedence(b.Operator)
}

const maxPrecedence = 100

func precedence(op string) int {
	switch op {
	case "??":
		return 1
	case "||":
		return 2
	case "&&":
		return 3
	case "|":
		return 4
	case "^":
		return 5
	case "&":
		return 6
	case "==", "!=", "===", "!==":
		return 7
	case "<", ">", "<=", ">=", "instanceof", "in":
		return 8
	case "<<", ">>", ">>>":
		return 9
	case "+", "-":
		return 10
	case "*", "/", "%":
		return 11
	case "**":
		return 12
	default:
		return 0
	}
}
