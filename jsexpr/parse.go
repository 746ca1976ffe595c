package jsexpr

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
)

// ErrSyntax indicates that source text could not be parsed.
var ErrSyntax = errors.New("syntax error")

// SyntaxError describes the first unrecoverable problem found in the source.
// Line and Column are 1-based; Column counts bytes.
type SyntaxError struct {
	Msg    string
	Line   int
	Column int
	Offset int
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s (%d:%d)", e.Msg, e.Line, e.Column)
}

// Unwrap returns [ErrSyntax].
func (e *SyntaxError) Unwrap() error {
	return ErrSyntax
}

// Node type names from the tree-sitter JavaScript grammar.
const (
	nodeError                = "ERROR"
	nodeComment              = "comment"
	nodeExpressionStatement  = "expression_statement"
	nodeArray                = "array"
	nodeObject               = "object"
	nodePair                 = "pair"
	nodeShorthandProperty    = "shorthand_property_identifier"
	nodeComputedPropertyName = "computed_property_name"
	nodeSpread               = "spread_element"
	nodeString               = "string"
	nodeNumber               = "number"
	nodeTemplate             = "template_string"
	nodeRegex                = "regex"
	nodeUnary                = "unary_expression"
	nodeBinary               = "binary_expression"
	nodeCall                 = "call_expression"
	nodeNew                  = "new_expression"
	nodeArguments            = "arguments"
	nodeMember               = "member_expression"
	nodeSubscript            = "subscript_expression"
	nodeParenthesized        = "parenthesized_expression"
)

// unterminated lists the delimiters whose absence cannot be recovered from.
// Tree-sitter may report an unclosed literal as a missing closing delimiter;
// accepting that placeholder would swallow the rest of the line into the
// literal.
var unterminated = map[string]string{
	`'`: "unterminated string literal",
	`"`: "unterminated string literal",
	"`": "unterminated template literal",
}

// Parse parses src as a JavaScript program and returns its statements.
//
// Each call uses its own tree-sitter parser, so Parse is safe for concurrent
// use. Recoverable errors (tokens tree-sitter could insert as placeholders)
// are tolerated; anything else returns a [*SyntaxError].
func Parse(src string) (*Program, error) {
	content := []byte(src)

	parser := sitter.NewParser()
	defer parser.Close()

	parser.SetLanguage(javascript.GetLanguage())

	tree, err := parser.ParseCtx(context.Background(), nil, content)
	if err != nil {
		return nil, fmt.Errorf("%w: tree-sitter: %w", ErrSyntax, err)
	}
	defer tree.Close()

	root := tree.RootNode()

	if root.HasError() {
		synErr := firstError(root, content)
		if synErr != nil {
			return nil, synErr
		}
	}

	c := &converter{src: content}

	prog := &Program{}

	for _, n := range c.namedChildren(root) {
		prog.Statements = append(prog.Statements, c.statement(n))
	}

	return prog, nil
}

// firstError returns the first ERROR node, or the first missing literal
// delimiter, in document order. Other missing nodes are accepted.
func firstError(n *sitter.Node, src []byte) *SyntaxError {
	if n.Type() == nodeError {
		return newSyntaxError(n, src, "unexpected token "+quoteSnippet(n.Content(src)))
	}

	if n.IsMissing() {
		if msg, ok := unterminated[n.Type()]; ok {
			return newSyntaxError(n, src, msg)
		}

		return nil
	}

	if !n.HasError() {
		return nil
	}

	for i := range int(n.ChildCount()) {
		child := n.Child(i)
		if child == nil {
			continue
		}

		if synErr := firstError(child, src); synErr != nil {
			return synErr
		}
	}

	return nil
}

func newSyntaxError(n *sitter.Node, src []byte, msg string) *SyntaxError {
	offset := int(n.StartByte())
	line := 1 + strings.Count(string(src[:offset]), "\n")
	lineStart := strings.LastIndexByte(string(src[:offset]), '\n') + 1

	return &SyntaxError{
		Msg:    msg,
		Line:   line,
		Column: offset - lineStart + 1,
		Offset: offset,
	}
}

// quoteSnippet quotes the first line of s, shortened to a readable length.
func quoteSnippet(s string) string {
	const maxSnippet = 20

	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}

	if utf8.RuneCountInString(s) > maxSnippet {
		s = string([]rune(s)[:maxSnippet]) + "..."
	}

	return fmt.Sprintf("%q", s)
}

// converter copies a tree-sitter tree into detached [Expr] values.
type converter struct {
	src []byte
}

func (c *converter) span(n *sitter.Node) Span {
	return Span{Start: int(n.StartByte()), End: int(n.EndByte())}
}

// namedChildren returns the named children of n, skipping comments.
func (c *converter) namedChildren(n *sitter.Node) []*sitter.Node {
	count := int(n.NamedChildCount())
	children := make([]*sitter.Node, 0, count)

	for i := range count {
		child := n.NamedChild(i)
		if child == nil || child.Type() == nodeComment {
			continue
		}

		children = append(children, child)
	}

	return children
}

func (c *converter) statement(n *sitter.Node) Statement {
	if n.Type() == nodeExpressionStatement {
		children := c.namedChildren(n)
		if len(children) == 1 {
			return &ExprStatement{X: c.expr(children[0]), Span: c.span(n)}
		}
	}

	return &OtherStatement{Kind: n.Type(), Span: c.span(n)}
}

// field converts the child stored under name. A missing child becomes a
// [KindMissing] placeholder so callers never see nil expressions.
func (c *converter) field(n *sitter.Node, name string) Expr {
	child := n.ChildByFieldName(name)
	if child == nil {
		end := int(n.EndByte())

		return &Other{Kind: KindMissing, Span: Span{Start: end, End: end}}
	}

	return c.expr(child)
}

func (c *converter) expr(n *sitter.Node) Expr {
	span := c.span(n)

	if n.IsMissing() {
		return &Other{Kind: KindMissing, Span: span}
	}

	switch n.Type() {
	case nodeArray:
		return &Array{Elements: c.elements(n), Span: span}

	case nodeObject:
		children := c.namedChildren(n)
		props := make([]*Property, 0, len(children))

		for _, child := range children {
			props = append(props, c.property(child))
		}

		return &Object{Properties: props, Span: span}

	case "identifier", "property_identifier", nodeShorthandProperty,
		"private_property_identifier", "this", "super":
		return &Ident{Name: n.Content(c.src), Span: span}

	case nodeString:
		return &Literal{Raw: n.Content(c.src), Kind: LiteralString, Span: span}
	case nodeNumber:
		return &Literal{Raw: n.Content(c.src), Kind: LiteralNumber, Span: span}
	case "true", "false":
		return &Literal{Raw: n.Content(c.src), Kind: LiteralBoolean, Span: span}
	case "null":
		return &Literal{Raw: n.Content(c.src), Kind: LiteralNull, Span: span}
	case "undefined":
		return &Literal{Raw: n.Content(c.src), Kind: LiteralUndefined, Span: span}
	case nodeRegex:
		return &Literal{Raw: n.Content(c.src), Kind: LiteralRegex, Span: span}
	case nodeTemplate:
		return &Literal{Raw: n.Content(c.src), Kind: LiteralTemplate, Span: span}

	case nodeUnary:
		op := n.ChildByFieldName("operator")
		if op == nil {
			break
		}

		return &Unary{Operator: op.Content(c.src), X: c.field(n, "argument"), Span: span}

	case nodeBinary:
		op := n.ChildByFieldName("operator")
		if op == nil {
			break
		}

		return &Binary{
			Operator: op.Content(c.src),
			X:        c.field(n, "left"),
			Y:        c.field(n, "right"),
			Span:     span,
		}

	case nodeCall, nodeNew:
		calleeField := "function"
		if n.Type() == nodeNew {
			calleeField = "constructor"
		}

		call := &Call{Callee: c.field(n, calleeField), New: n.Type() == nodeNew, Span: span}

		args := n.ChildByFieldName("arguments")
		if args != nil {
			// Tagged templates store the template under "arguments".
			if args.Type() != nodeArguments {
				break
			}

			for _, arg := range c.namedChildren(args) {
				call.Args = append(call.Args, c.expr(arg))
			}
		}

		return call

	case nodeMember:
		return &Member{X: c.field(n, "object"), Property: c.field(n, "property"), Span: span}
	case nodeSubscript:
		return &Member{X: c.field(n, "object"), Property: c.field(n, "index"), Computed: true, Span: span}

	case nodeParenthesized:
		children := c.namedChildren(n)
		if len(children) == 1 {
			return c.expr(children[0])
		}

	case nodeSpread:
		children := c.namedChildren(n)
		if len(children) == 1 {
			return &Spread{X: c.expr(children[0]), Span: span}
		}
	}

	return &Other{Kind: n.Type(), Raw: n.Content(c.src), Span: span}
}

// elements converts the elements of an array node. Tree-sitter keeps only
// the commas of an elision, so a comma that follows the opening bracket or
// another comma becomes a [KindHole] element. A single trailing comma is not
// a hole.
func (c *converter) elements(n *sitter.Node) []Expr {
	var (
		elems      []Expr
		expectElem = true
	)

	for i := range int(n.ChildCount()) {
		child := n.Child(i)
		if child == nil || child.Type() == nodeComment {
			continue
		}

		switch {
		case child.Type() == ",":
			if expectElem {
				pos := int(child.StartByte())
				elems = append(elems, &Other{Kind: KindHole, Span: Span{Start: pos, End: pos}})
			}

			expectElem = true

		case child.IsNamed():
			elems = append(elems, c.expr(child))
			expectElem = false
		}
	}

	if elems == nil {
		elems = []Expr{}
	}

	return elems
}

func (c *converter) property(n *sitter.Node) *Property {
	switch n.Type() {
	case nodePair:
		prop := &Property{Value: c.field(n, "value")}

		key := n.ChildByFieldName("key")
		if key == nil {
			prop.Key = &Other{Span: c.span(n)}

			return prop
		}

		if key.Type() == nodeComputedPropertyName {
			prop.Computed = true

			if inner := c.namedChildren(key); len(inner) == 1 {
				key = inner[0]
			}
		}

		prop.Key = c.expr(key)

		return prop

	case nodeShorthandProperty:
		ident := c.expr(n)

		return &Property{Key: ident, Value: ident, Shorthand: true}
	}

	return &Property{Value: c.expr(n)}
}
