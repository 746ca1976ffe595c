// Package jsexpr parses JavaScript object and array literal expressions into
// a small, closed expression tree and renders that tree back to canonical
// source text.
//
// Parsing is backed by the tree-sitter JavaScript grammar, which recovers
// from many local syntax errors by inserting placeholder nodes. [Parse]
// accepts such recovered trees and only fails with a [*SyntaxError] when the
// text contains tokens that tree-sitter had to discard, or a string literal
// that never terminates.
//
// The returned tree is plain Go data with byte offsets into the parsed
// source. It holds no reference to tree-sitter memory and is safe to share
// between goroutines.
//
// [Render] produces deterministic text: objects are expanded one property per
// line with a fixed indent unit, arrays stay inline, and literals keep the
// raw text they were written with. Comments are never rendered.
//
//	prog, err := jsexpr.Parse(`[{$sort: {age: -1}}]`)
//	if err != nil {
//	    return err
//	}
//
//	stmt := prog.Statements[0].(*jsexpr.ExprStatement)
//	fmt.Println(jsexpr.Render(stmt.X))
package jsexpr
