package parser

import (
	"fmt"
	"strconv"
	"strings"

	"lox/internal/ast"
)

// RenderProgram produces the compact s-expression form of every top-level
// statement, one block per statement. It is optimized for eyeballing
// precedence, desugaring, and nesting.
func RenderProgram(program *ast.Program) string {
	var sb strings.Builder
	for _, s := range program.Statements {
		sb.WriteString(RenderStatement(s))
	}
	return sb.String()
}

// RenderStatement renders one statement, ending with a newline. Nested
// statements indent by four spaces per level.
func RenderStatement(stmt ast.Statement) string {
	return renderStatement(0, stmt)
}

func renderStatement(indent int, stmt ast.Statement) string {
	sp := strings.Repeat(" ", 4*indent)

	switch n := stmt.(type) {
	case *ast.BlockStatement:
		var sb strings.Builder
		sb.WriteString(sp + "(block\n")
		for _, s := range n.Statements {
			sb.WriteString(renderStatement(indent+1, s))
		}
		sb.WriteString(sp + ")\n")
		return sb.String()

	case *ast.ClassStatement:
		var sb strings.Builder
		sb.WriteString(sp + "(class " + n.Name.Value)
		if n.Superclass != nil {
			sb.WriteString(" < " + n.Superclass.Value)
		}
		sb.WriteString("\n")
		for _, m := range n.Methods {
			sb.WriteString(renderStatement(indent+1, m))
		}
		sb.WriteString(sp + ")\n")
		return sb.String()

	case *ast.ExpressionStatement:
		return sp + "(; " + RenderExpression(n.Expression) + ")\n"

	case *ast.FunctionStatement:
		params := []string{}
		for _, p := range n.Function.Parameters {
			params = append(params, p.Value)
		}
		var sb strings.Builder
		sb.WriteString(fmt.Sprintf("%s(fun %s(%s)\n", sp, n.Name.Value, strings.Join(params, " ")))
		for _, s := range n.Function.Body.Statements {
			sb.WriteString(renderStatement(indent+1, s))
		}
		sb.WriteString(sp + ")\n")
		return sb.String()

	case *ast.IfStatement:
		form := "(if "
		if n.ElseBranch != nil {
			form = "(if-else "
		}
		var sb strings.Builder
		sb.WriteString(sp + form + RenderExpression(n.Condition) + "\n")
		sb.WriteString(renderStatement(indent+1, n.ThenBranch))
		if n.ElseBranch != nil {
			sb.WriteString(renderStatement(indent+1, n.ElseBranch))
		}
		sb.WriteString(sp + ")\n")
		return sb.String()

	case *ast.PrintStatement:
		return sp + "(print " + RenderExpression(n.Value) + ")\n"

	case *ast.ReturnStatement:
		if n.ReturnValue == nil {
			return sp + "(return)\n"
		}
		return sp + "(return " + RenderExpression(n.ReturnValue) + ")\n"

	case *ast.VarStatement:
		if n.Value == nil {
			return sp + "(var " + n.Name.Value + ")\n"
		}
		return sp + "(var " + n.Name.Value + " = " + RenderExpression(n.Value) + ")\n"

	case *ast.WhileStatement:
		var sb strings.Builder
		sb.WriteString(sp + "(while " + RenderExpression(n.Condition) + "\n")
		sb.WriteString(renderStatement(indent+1, n.Body))
		sb.WriteString(sp + ")\n")
		return sb.String()

	default:
		return fmt.Sprintf("%s<unknown:%T>\n", sp, stmt)
	}
}

// RenderExpression renders one expression on a single line.
func RenderExpression(expr ast.Expression) string {
	switch n := expr.(type) {
	case *ast.AssignExpression:
		return "(= " + n.Name.Value + " " + RenderExpression(n.Value) + ")"

	case *ast.InfixExpression:
		return "(" + n.Operator + " " + RenderExpression(n.Left) + " " + RenderExpression(n.Right) + ")"

	case *ast.LogicalExpression:
		return "(" + n.Operator + " " + RenderExpression(n.Left) + " " + RenderExpression(n.Right) + ")"

	case *ast.PrefixExpression:
		return "(" + n.Operator + " " + RenderExpression(n.Right) + ")"

	case *ast.CallExpression:
		var sb strings.Builder
		sb.WriteString("(call " + RenderExpression(n.Function))
		for _, a := range n.Arguments {
			sb.WriteString(" " + RenderExpression(a))
		}
		sb.WriteString(")")
		return sb.String()

	case *ast.GetExpression:
		return "(" + RenderExpression(n.Object) + "." + n.Name.Value + ")"

	case *ast.SetExpression:
		return "(= " + RenderExpression(n.Object) + " " + n.Name.Value + " " + RenderExpression(n.Value) + ")"

	case *ast.GroupingExpression:
		return "(group " + RenderExpression(n.Expression) + ")"

	case *ast.SuperExpression:
		return "(super " + n.Method.Value + ")"

	case *ast.ThisExpression:
		return "this"

	case *ast.InvalidGet:
		return "(" + RenderExpression(n.Object) + "." + n.Token.Literal + ")"

	case *ast.InvalidSuper:
		return "(super " + n.Period.Literal + ")"

	case *ast.Identifier:
		return n.Value

	case *ast.NumberLiteral:
		return strconv.FormatFloat(n.Value, 'f', -1, 64)

	case *ast.StringLiteral:
		return "\"" + n.Value + "\""

	case *ast.Boolean:
		return strconv.FormatBool(n.Value)

	case *ast.Nil:
		return "Nil"

	default:
		return fmt.Sprintf("<unknown:%T>", expr)
	}
}
