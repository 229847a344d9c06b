// ABOUTME: Typed SQL predicate tree with parameter binding
// ABOUTME: Nodes render to a WHERE fragment plus positional arguments
package query

import (
	"strings"
)

// Expr is a node in a predicate tree.
type Expr interface {
	render(r *renderer)
}

type renderer struct {
	sb   strings.Builder
	args []any
}

// Render turns an expression into SQL text with ? placeholders and its bound arguments.
func Render(e Expr) (string, []any) {
	r := &renderer{}
	e.render(r)
	return r.sb.String(), r.args
}

type eqExpr struct {
	col string
	val any
}

func (e eqExpr) render(r *renderer) {
	r.sb.WriteString(e.col)
	r.sb.WriteString(" = ?")
	r.args = append(r.args, e.val)
}

// Eq matches a column exactly.
func Eq(col string, val any) Expr {
	return eqExpr{col: col, val: val}
}

type gteExpr struct {
	col string
	val any
}

func (e gteExpr) render(r *renderer) {
	r.sb.WriteString(e.col)
	r.sb.WriteString(" >= ?")
	r.args = append(r.args, e.val)
}

// Gte matches rows whose column is at least val.
func Gte(col string, val any) Expr {
	return gteExpr{col: col, val: val}
}

type likeExpr struct {
	col    string
	substr string
}

func (e likeExpr) render(r *renderer) {
	r.sb.WriteString(e.col)
	r.sb.WriteString(` LIKE ? ESCAPE '\'`)
	r.args = append(r.args, "%"+escapeLike(e.substr)+"%")
}

// Like matches rows whose column contains substr. SQLite LIKE is
// case-insensitive for ASCII.
func Like(col, substr string) Expr {
	return likeExpr{col: col, substr: substr}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

type groupExpr struct {
	op    string
	exprs []Expr
}

func (g groupExpr) render(r *renderer) {
	switch len(g.exprs) {
	case 0:
		// An empty AND is vacuously true, an empty OR matches nothing.
		if g.op == "AND" {
			r.sb.WriteString("1 = 1")
		} else {
			r.sb.WriteString("1 = 0")
		}
		return
	case 1:
		g.exprs[0].render(r)
		return
	}

	r.sb.WriteString("(")
	for i, e := range g.exprs {
		if i > 0 {
			r.sb.WriteString(" ")
			r.sb.WriteString(g.op)
			r.sb.WriteString(" ")
		}
		e.render(r)
	}
	r.sb.WriteString(")")
}

// And requires every child expression to match.
func And(exprs ...Expr) Expr {
	return groupExpr{op: "AND", exprs: exprs}
}

// Or requires at least one child expression to match.
func Or(exprs ...Expr) Expr {
	return groupExpr{op: "OR", exprs: exprs}
}
