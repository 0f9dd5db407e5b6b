package parser

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"reflect"

	"lox/internal/ast"
)

// WalkAST recursively traverses an AST and serializes it into a
// machine-centric map structure. This output is designed for stability,
// canonical representation, and tool-chain consumption.
func WalkAST(node ast.Node) interface{} {
	if node == nil || (reflect.ValueOf(node).Kind() == reflect.Ptr && reflect.ValueOf(node).IsNil()) {
		return nil
	}

	switch n := node.(type) {
	case *ast.Program:
		statements := make([]interface{}, len(n.Statements))
		for i, s := range n.Statements {
			statements[i] = WalkAST(s)
		}
		return map[string]interface{}{
			"type":       "Program",
			"statements": statements,
		}

	case *ast.VarStatement:
		return map[string]interface{}{
			"type":  "VarStatement",
			"span":  n.Span().String(),
			"name":  WalkAST(n.Name),
			"value": WalkAST(n.Value),
		}

	case *ast.ReturnStatement:
		return map[string]interface{}{
			"type":        "ReturnStatement",
			"span":        n.Span().String(),
			"returnValue": WalkAST(n.ReturnValue),
		}

	case *ast.PrintStatement:
		return map[string]interface{}{
			"type":  "PrintStatement",
			"span":  n.Span().String(),
			"value": WalkAST(n.Value),
		}

	case *ast.ExpressionStatement:
		return map[string]interface{}{
			"type":       "ExpressionStatement",
			"span":       n.Span().String(),
			"expression": WalkAST(n.Expression),
		}

	case *ast.BlockStatement:
		statements := make([]interface{}, len(n.Statements))
		for i, s := range n.Statements {
			statements[i] = WalkAST(s)
		}
		return map[string]interface{}{
			"type":       "BlockStatement",
			"span":       n.Span().String(),
			"statements": statements,
		}

	case *ast.IfStatement:
		return map[string]interface{}{
			"type":      "IfStatement",
			"span":      n.Span().String(),
			"condition": WalkAST(n.Condition),
			"then":      WalkAST(n.ThenBranch),
			"else":      WalkAST(n.ElseBranch),
		}

	case *ast.WhileStatement:
		return map[string]interface{}{
			"type":      "WhileStatement",
			"span":      n.Span().String(),
			"condition": WalkAST(n.Condition),
			"body":      WalkAST(n.Body),
		}

	case *ast.FunctionStatement:
		return map[string]interface{}{
			"type":     "FunctionStatement",
			"span":     n.Span().String(),
			"name":     WalkAST(n.Name),
			"function": WalkAST(n.Function),
		}

	case *ast.ClassStatement:
		methods := make([]interface{}, len(n.Methods))
		for i, m := range n.Methods {
			methods[i] = WalkAST(m)
		}
		return map[string]interface{}{
			"type":       "ClassStatement",
			"span":       n.Span().String(),
			"name":       WalkAST(n.Name),
			"superclass": WalkAST(n.Superclass),
			"methods":    methods,
		}

	case *ast.Identifier:
		return map[string]interface{}{
			"type":  "Identifier",
			"span":  n.Span().String(),
			"value": n.Value,
		}

	case *ast.NumberLiteral:
		return map[string]interface{}{
			"type":  "NumberLiteral",
			"span":  n.Span().String(),
			"value": n.Value,
		}

	case *ast.StringLiteral:
		return map[string]interface{}{
			"type":  "StringLiteral",
			"span":  n.Span().String(),
			"value": n.Value,
		}

	case *ast.Boolean:
		return map[string]interface{}{
			"type":  "Boolean",
			"span":  n.Span().String(),
			"value": n.Value,
		}

	case *ast.Nil:
		return map[string]interface{}{
			"type": "Nil",
			"span": n.Span().String(),
		}

	case *ast.PrefixExpression:
		return map[string]interface{}{
			"type":     "PrefixExpression",
			"span":     n.Span().String(),
			"operator": n.Operator,
			"right":    WalkAST(n.Right),
		}

	case *ast.InfixExpression:
		return map[string]interface{}{
			"type":     "InfixExpression",
			"span":     n.Span().String(),
			"left":     WalkAST(n.Left),
			"operator": n.Operator,
			"right":    WalkAST(n.Right),
		}

	case *ast.LogicalExpression:
		return map[string]interface{}{
			"type":     "LogicalExpression",
			"span":     n.Span().String(),
			"left":     WalkAST(n.Left),
			"operator": n.Operator,
			"right":    WalkAST(n.Right),
		}

	case *ast.AssignExpression:
		return map[string]interface{}{
			"type":  "AssignExpression",
			"span":  n.Span().String(),
			"name":  WalkAST(n.Name),
			"value": WalkAST(n.Value),
		}

	case *ast.GroupingExpression:
		return map[string]interface{}{
			"type":       "GroupingExpression",
			"span":       n.Span().String(),
			"expression": WalkAST(n.Expression),
		}

	case *ast.CallExpression:
		args := make([]interface{}, len(n.Arguments))
		for i, a := range n.Arguments {
			args[i] = WalkAST(a)
		}
		return map[string]interface{}{
			"type":      "CallExpression",
			"span":      n.Span().String(),
			"function":  WalkAST(n.Function),
			"arguments": args,
		}

	case *ast.GetExpression:
		return map[string]interface{}{
			"type":   "GetExpression",
			"span":   n.Span().String(),
			"object": WalkAST(n.Object),
			"name":   WalkAST(n.Name),
		}

	case *ast.SetExpression:
		return map[string]interface{}{
			"type":   "SetExpression",
			"span":   n.Span().String(),
			"object": WalkAST(n.Object),
			"name":   WalkAST(n.Name),
			"value":  WalkAST(n.Value),
		}

	case *ast.ThisExpression:
		return map[string]interface{}{
			"type": "ThisExpression",
			"span": n.Span().String(),
		}

	case *ast.SuperExpression:
		return map[string]interface{}{
			"type":   "SuperExpression",
			"span":   n.Span().String(),
			"method": WalkAST(n.Method),
		}

	case *ast.FunctionLiteral:
		parameters := make([]interface{}, len(n.Parameters))
		for i, param := range n.Parameters {
			parameters[i] = WalkAST(param)
		}
		return map[string]interface{}{
			"type":       "FunctionLiteral",
			"span":       n.Span().String(),
			"parameters": parameters,
			"body":       WalkAST(n.Body),
		}

	case *ast.InvalidGet:
		return map[string]interface{}{
			"type":   "InvalidGet",
			"span":   n.Span().String(),
			"object": WalkAST(n.Object),
		}

	case *ast.InvalidSuper:
		return map[string]interface{}{
			"type": "InvalidSuper",
			"span": n.Span().String(),
		}

	default:
		return map[string]interface{}{
			"type": fmt.Sprintf("Unknown: %T", node),
		}
	}
}

// RenderASTAsJSON encodes the AST as indented JSON.
func RenderASTAsJSON(node ast.Node) (string, error) {
	astMap := WalkAST(node)
	buf := new(bytes.Buffer)
	encoder := json.NewEncoder(buf)
	encoder.SetIndent("", "  ")
	encoder.SetEscapeHTML(false)

	if err := encoder.Encode(astMap); err != nil {
		return "", fmt.Errorf("failed to encode JSON: %v", err)
	}
	return buf.String(), nil
}

// WriteASTToJSON takes a root AST node and writes it to a JSON file.
func WriteASTToJSON(node ast.Node, filename string) error {
	rendered, err := RenderASTAsJSON(node)
	if err != nil {
		return err
	}

	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create JSON file: %v", err)
	}
	defer file.Close()

	if _, err := file.WriteString(rendered); err != nil {
		return fmt.Errorf("failed to write JSON: %v", err)
	}
	return nil
}
