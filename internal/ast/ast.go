package ast

import (
	"bytes"
	"strings"

	"lox/internal/diag"
	"lox/internal/token"
)

// The base Node interface
type Node interface {
	TokenLiteral() string
	String() string
	Span() diag.Span
}

type Statement interface {
	Node
	statementNode()
}

type Expression interface {
	Node
	expressionNode()
}

type Program struct {
	Statements []Statement
}

func (p *Program) TokenLiteral() string {
	if len(p.Statements) > 0 {
		return p.Statements[0].TokenLiteral()
	}
	return ""
}

func (p *Program) String() string {
	var out bytes.Buffer

	for _, s := range p.Statements {
		out.WriteString(s.String())
	}

	return out.String()
}

func (p *Program) Span() diag.Span {
	if len(p.Statements) == 0 {
		return diag.Span{}
	}
	return diag.Span{
		Start: p.Statements[0].Span().Start,
		End:   p.Statements[len(p.Statements)-1].Span().End,
	}
}

// ----- statements -----

type VarStatement struct {
	Token token.Token // the token.VAR token
	Name  *Identifier
	Value Expression // nil when declared without an initializer
}

func (vs *VarStatement) statementNode()       {}
func (vs *VarStatement) TokenLiteral() string { return vs.Token.Literal }
func (vs *VarStatement) String() string {
	var out bytes.Buffer

	out.WriteString(vs.TokenLiteral() + " ")
	out.WriteString(vs.Name.String())

	if vs.Value != nil {
		out.WriteString(" = ")
		out.WriteString(vs.Value.String())
	}

	out.WriteString(";")

	return out.String()
}
func (vs *VarStatement) Span() diag.Span {
	end := vs.Name.Span().End
	if vs.Value != nil {
		end = vs.Value.Span().End
	}
	return diag.Span{Start: vs.Token.Start, End: end}
}

type ReturnStatement struct {
	Token       token.Token // the token.RETURN token
	ReturnValue Expression  // nil for a bare return
}

func (rs *ReturnStatement) statementNode()       {}
func (rs *ReturnStatement) TokenLiteral() string { return rs.Token.Literal }
func (rs *ReturnStatement) String() string {
	var out bytes.Buffer

	out.WriteString(rs.TokenLiteral())
	if rs.ReturnValue != nil {
		out.WriteString(" ")
		out.WriteString(rs.ReturnValue.String())
	}
	out.WriteString(";")

	return out.String()
}
func (rs *ReturnStatement) Span() diag.Span {
	end := rs.Token.End
	if rs.ReturnValue != nil {
		end = rs.ReturnValue.Span().End
	}
	return diag.Span{Start: rs.Token.Start, End: end}
}

type PrintStatement struct {
	Token token.Token // the token.PRINT token
	Value Expression
}

func (ps *PrintStatement) statementNode()       {}
func (ps *PrintStatement) TokenLiteral() string { return ps.Token.Literal }
func (ps *PrintStatement) String() string {
	var out bytes.Buffer

	out.WriteString(ps.TokenLiteral() + " ")
	out.WriteString(ps.Value.String())
	out.WriteString(";")

	return out.String()
}
func (ps *PrintStatement) Span() diag.Span {
	return diag.Span{Start: ps.Token.Start, End: ps.Value.Span().End}
}

type ExpressionStatement struct {
	Token      token.Token // the first token of the expression
	Expression Expression
}

func (es *ExpressionStatement) statementNode()       {}
func (es *ExpressionStatement) TokenLiteral() string { return es.Token.Literal }
func (es *ExpressionStatement) String() string {
	if es.Expression != nil {
		return es.Expression.String() + ";"
	}
	return ""
}
func (es *ExpressionStatement) Span() diag.Span {
	if es.Expression != nil {
		return es.Expression.Span()
	}
	return es.Token.Span()
}

type BlockStatement struct {
	Token      token.Token // the token.LBRACE token
	Statements []Statement
	RBrace     token.Token
}

func (bs *BlockStatement) statementNode()       {}
func (bs *BlockStatement) TokenLiteral() string { return bs.Token.Literal }
func (bs *BlockStatement) String() string {
	var out bytes.Buffer

	out.WriteString("{ ")
	for _, s := range bs.Statements {
		out.WriteString(s.String())
	}
	out.WriteString(" }")

	return out.String()
}
func (bs *BlockStatement) Span() diag.Span {
	return diag.Span{Start: bs.Token.Start, End: bs.RBrace.End}
}

type IfStatement struct {
	Token      token.Token // the token.IF token
	Condition  Expression
	ThenBranch Statement
	ElseBranch Statement // nil when there is no else
}

func (is *IfStatement) statementNode()       {}
func (is *IfStatement) TokenLiteral() string { return is.Token.Literal }
func (is *IfStatement) String() string {
	var out bytes.Buffer

	out.WriteString("if (")
	out.WriteString(is.Condition.String())
	out.WriteString(") ")
	out.WriteString(is.ThenBranch.String())
	if is.ElseBranch != nil {
		out.WriteString(" else ")
		out.WriteString(is.ElseBranch.String())
	}

	return out.String()
}
func (is *IfStatement) Span() diag.Span {
	end := is.ThenBranch.Span().End
	if is.ElseBranch != nil {
		end = is.ElseBranch.Span().End
	}
	return diag.Span{Start: is.Token.Start, End: end}
}

type WhileStatement struct {
	Token     token.Token // the token.WHILE token
	Condition Expression
	Body      Statement
}

func (ws *WhileStatement) statementNode()       {}
func (ws *WhileStatement) TokenLiteral() string { return ws.Token.Literal }
func (ws *WhileStatement) String() string {
	var out bytes.Buffer

	out.WriteString("while (")
	out.WriteString(ws.Condition.String())
	out.WriteString(") ")
	out.WriteString(ws.Body.String())

	return out.String()
}
func (ws *WhileStatement) Span() diag.Span {
	return diag.Span{Start: ws.Token.Start, End: ws.Body.Span().End}
}

// FunctionStatement declares a named function or a class method. The
// literal carries the parameters and body; the statement owns the name.
type FunctionStatement struct {
	Token    token.Token // the token.FUNCTION token; for methods, the name token
	Name     *Identifier
	Function *FunctionLiteral
}

func (fs *FunctionStatement) statementNode()       {}
func (fs *FunctionStatement) TokenLiteral() string { return fs.Token.Literal }
func (fs *FunctionStatement) String() string {
	var out bytes.Buffer

	out.WriteString("fun ")
	out.WriteString(fs.Name.String())
	out.WriteString(fs.Function.String())

	return out.String()
}
func (fs *FunctionStatement) Span() diag.Span {
	return diag.Span{Start: fs.Token.Start, End: fs.Function.Span().End}
}

type ClassStatement struct {
	Token      token.Token // the token.CLASS token
	Name       *Identifier
	Superclass *Identifier // nil when the class has no superclass
	Methods    []*FunctionStatement
	RBrace     token.Token
}

func (cs *ClassStatement) statementNode()       {}
func (cs *ClassStatement) TokenLiteral() string { return cs.Token.Literal }
func (cs *ClassStatement) String() string {
	var out bytes.Buffer

	out.WriteString("class ")
	out.WriteString(cs.Name.String())
	if cs.Superclass != nil {
		out.WriteString(" < ")
		out.WriteString(cs.Superclass.String())
	}
	out.WriteString(" { ")
	for _, m := range cs.Methods {
		out.WriteString(m.String())
	}
	out.WriteString(" }")

	return out.String()
}
func (cs *ClassStatement) Span() diag.Span {
	return diag.Span{Start: cs.Token.Start, End: cs.RBrace.End}
}

// ----- expressions -----

type Identifier struct {
	Token token.Token // the token.IDENT token
	Value string
}

func (i *Identifier) expressionNode()      {}
func (i *Identifier) TokenLiteral() string { return i.Token.Literal }
func (i *Identifier) String() string       { return i.Value }
func (i *Identifier) Span() diag.Span      { return i.Token.Span() }

type NumberLiteral struct {
	Token token.Token
	Value float64
}

func (nl *NumberLiteral) expressionNode()      {}
func (nl *NumberLiteral) TokenLiteral() string { return nl.Token.Literal }
func (nl *NumberLiteral) String() string       { return nl.Token.Literal }
func (nl *NumberLiteral) Span() diag.Span      { return nl.Token.Span() }

type StringLiteral struct {
	Token token.Token
	Value string
}

func (sl *StringLiteral) expressionNode()      {}
func (sl *StringLiteral) TokenLiteral() string { return sl.Token.Literal }
func (sl *StringLiteral) String() string       { return "\"" + sl.Value + "\"" }
func (sl *StringLiteral) Span() diag.Span      { return sl.Token.Span() }

type Boolean struct {
	Token token.Token
	Value bool
}

func (b *Boolean) expressionNode()      {}
func (b *Boolean) TokenLiteral() string { return b.Token.Literal }
func (b *Boolean) String() string       { return b.Token.Literal }
func (b *Boolean) Span() diag.Span      { return b.Token.Span() }

type Nil struct {
	Token token.Token
}

func (n *Nil) expressionNode()      {}
func (n *Nil) TokenLiteral() string { return n.Token.Literal }
func (n *Nil) String() string       { return "nil" }
func (n *Nil) Span() diag.Span      { return n.Token.Span() }

type PrefixExpression struct {
	Token    token.Token // the prefix token, e.g. !
	Operator string
	Right    Expression
}

func (pe *PrefixExpression) expressionNode()      {}
func (pe *PrefixExpression) TokenLiteral() string { return pe.Token.Literal }
func (pe *PrefixExpression) String() string {
	var out bytes.Buffer

	out.WriteString("(")
	out.WriteString(pe.Operator)
	out.WriteString(pe.Right.String())
	out.WriteString(")")

	return out.String()
}
func (pe *PrefixExpression) Span() diag.Span {
	return diag.Span{Start: pe.Token.Start, End: pe.Right.Span().End}
}

type InfixExpression struct {
	Token    token.Token // the operator token, e.g. +
	Left     Expression
	Operator string
	Right    Expression
}

func (ie *InfixExpression) expressionNode()      {}
func (ie *InfixExpression) TokenLiteral() string { return ie.Token.Literal }
func (ie *InfixExpression) String() string {
	var out bytes.Buffer

	out.WriteString("(")
	out.WriteString(ie.Left.String())
	out.WriteString(" " + ie.Operator + " ")
	out.WriteString(ie.Right.String())
	out.WriteString(")")

	return out.String()
}
func (ie *InfixExpression) Span() diag.Span {
	return diag.Span{Start: ie.Left.Span().Start, End: ie.Right.Span().End}
}

// LogicalExpression is kept apart from InfixExpression because and/or
// short-circuit: the right operand may never be evaluated.
type LogicalExpression struct {
	Token    token.Token // the token.AND or token.OR token
	Left     Expression
	Operator string
	Right    Expression
}

func (le *LogicalExpression) expressionNode()      {}
func (le *LogicalExpression) TokenLiteral() string { return le.Token.Literal }
func (le *LogicalExpression) String() string {
	var out bytes.Buffer

	out.WriteString("(")
	out.WriteString(le.Left.String())
	out.WriteString(" " + le.Operator + " ")
	out.WriteString(le.Right.String())
	out.WriteString(")")

	return out.String()
}
func (le *LogicalExpression) Span() diag.Span {
	return diag.Span{Start: le.Left.Span().Start, End: le.Right.Span().End}
}

type AssignExpression struct {
	Token token.Token // the token.ASSIGN token
	Name  *Identifier
	Value Expression
}

func (ae *AssignExpression) expressionNode()      {}
func (ae *AssignExpression) TokenLiteral() string { return ae.Token.Literal }
func (ae *AssignExpression) String() string {
	var out bytes.Buffer

	out.WriteString(ae.Name.String())
	out.WriteString(" = ")
	out.WriteString(ae.Value.String())

	return out.String()
}
func (ae *AssignExpression) Span() diag.Span {
	return diag.Span{Start: ae.Name.Span().Start, End: ae.Value.Span().End}
}

type GroupingExpression struct {
	Token      token.Token // the token.LPAREN token
	Expression Expression
	RParen     token.Token
}

func (ge *GroupingExpression) expressionNode()      {}
func (ge *GroupingExpression) TokenLiteral() string { return ge.Token.Literal }
func (ge *GroupingExpression) String() string {
	return "(" + ge.Expression.String() + ")"
}
func (ge *GroupingExpression) Span() diag.Span {
	return diag.Span{Start: ge.Token.Start, End: ge.RParen.End}
}

type CallExpression struct {
	Token     token.Token // the token.LPAREN token
	Function  Expression  // identifier, property access, or nested call
	Arguments []Expression
	RParen    token.Token
}

func (ce *CallExpression) expressionNode()      {}
func (ce *CallExpression) TokenLiteral() string { return ce.Token.Literal }
func (ce *CallExpression) String() string {
	var out bytes.Buffer

	args := []string{}
	for _, a := range ce.Arguments {
		args = append(args, a.String())
	}

	out.WriteString(ce.Function.String())
	out.WriteString("(")
	out.WriteString(strings.Join(args, ", "))
	out.WriteString(")")

	return out.String()
}
func (ce *CallExpression) Span() diag.Span {
	return diag.Span{Start: ce.Function.Span().Start, End: ce.RParen.End}
}

type GetExpression struct {
	Token  token.Token // the token.PERIOD token
	Object Expression
	Name   *Identifier
}

func (ge *GetExpression) expressionNode()      {}
func (ge *GetExpression) TokenLiteral() string { return ge.Token.Literal }
func (ge *GetExpression) String() string {
	return ge.Object.String() + "." + ge.Name.String()
}
func (ge *GetExpression) Span() diag.Span {
	return diag.Span{Start: ge.Object.Span().Start, End: ge.Name.Span().End}
}

type SetExpression struct {
	Token  token.Token // the token.PERIOD token
	Object Expression
	Name   *Identifier
	Value  Expression
}

func (se *SetExpression) expressionNode()      {}
func (se *SetExpression) TokenLiteral() string { return se.Token.Literal }
func (se *SetExpression) String() string {
	return se.Object.String() + "." + se.Name.String() + " = " + se.Value.String()
}
func (se *SetExpression) Span() diag.Span {
	return diag.Span{Start: se.Object.Span().Start, End: se.Value.Span().End}
}

type ThisExpression struct {
	Token token.Token // the token.THIS token
}

func (te *ThisExpression) expressionNode()      {}
func (te *ThisExpression) TokenLiteral() string { return te.Token.Literal }
func (te *ThisExpression) String() string       { return "this" }
func (te *ThisExpression) Span() diag.Span      { return te.Token.Span() }

type SuperExpression struct {
	Token  token.Token // the token.SUPER token
	Method *Identifier
}

func (se *SuperExpression) expressionNode()      {}
func (se *SuperExpression) TokenLiteral() string { return se.Token.Literal }
func (se *SuperExpression) String() string {
	return "super." + se.Method.String()
}
func (se *SuperExpression) Span() diag.Span {
	return diag.Span{Start: se.Token.Start, End: se.Method.Span().End}
}

// FunctionLiteral carries the parameter list and body shared by function
// declarations and class methods.
type FunctionLiteral struct {
	Token      token.Token // the token.LPAREN opening the parameter list
	Parameters []*Identifier
	Body       *BlockStatement
}

func (fl *FunctionLiteral) expressionNode()      {}
func (fl *FunctionLiteral) TokenLiteral() string { return fl.Token.Literal }
func (fl *FunctionLiteral) String() string {
	var out bytes.Buffer

	params := []string{}
	for _, p := range fl.Parameters {
		params = append(params, p.String())
	}

	out.WriteString("(")
	out.WriteString(strings.Join(params, ", "))
	out.WriteString(") ")
	out.WriteString(fl.Body.String())

	return out.String()
}
func (fl *FunctionLiteral) Span() diag.Span {
	return diag.Span{Start: fl.Token.Start, End: fl.Body.Span().End}
}

// InvalidGet is produced only by the completion-tolerant parse mode for a
// property access left unfinished after the dot ("receiver."). The strict
// mode reports a syntax error instead.
type InvalidGet struct {
	Token  token.Token // the token.PERIOD token
	Object Expression
}

func (ig *InvalidGet) expressionNode()      {}
func (ig *InvalidGet) TokenLiteral() string { return ig.Token.Literal }
func (ig *InvalidGet) String() string       { return ig.Object.String() + "." }
func (ig *InvalidGet) Span() diag.Span {
	return diag.Span{Start: ig.Object.Span().Start, End: ig.Token.End}
}

// InvalidSuper is the completion-mode counterpart for "super.".
type InvalidSuper struct {
	Token  token.Token // the token.SUPER token
	Period token.Token
}

func (is *InvalidSuper) expressionNode()      {}
func (is *InvalidSuper) TokenLiteral() string { return is.Token.Literal }
func (is *InvalidSuper) String() string       { return "super." }
func (is *InvalidSuper) Span() diag.Span {
	return diag.Span{Start: is.Token.Start, End: is.Period.End}
}
