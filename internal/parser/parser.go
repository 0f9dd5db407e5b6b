package parser

import (
	"errors"
	"fmt"
	"strconv"

	"lox/internal/ast"
	"lox/internal/diag"
	"lox/internal/token"
)

const maxCallArguments = 255

const (
	_           int = iota
	LOWEST          //
	ASSIGNMENT      // =
	LOGICAL_OR      // or
	LOGICAL_AND     // and
	EQUALS          // == !=
	COMPARISON      // > or <
	SUM             // +
	PRODUCT         // *
	PREFIX          // -X or !X
	CALL            // callee(X) or obj.name
)

var precedences = map[token.TokenType]int{
	token.ASSIGN:   ASSIGNMENT,
	token.OR:       LOGICAL_OR,
	token.AND:      LOGICAL_AND,
	token.EQ:       EQUALS,
	token.NOT_EQ:   EQUALS,
	token.LT:       COMPARISON,
	token.LT_EQ:    COMPARISON,
	token.GT:       COMPARISON,
	token.GT_EQ:    COMPARISON,
	token.PLUS:     SUM,
	token.MINUS:    SUM,
	token.SLASH:    PRODUCT,
	token.ASTERISK: PRODUCT,
	token.PERIOD:   CALL,
	token.LPAREN:   CALL,
}

type (
	prefixParseFn func() (ast.Expression, error)
	infixParseFn  func(ast.Expression) (ast.Expression, error)
)

// Parser consumes a scanned token sequence and produces an AST, reporting
// syntax errors through the shared reporter. A failed statement does not
// abort the whole program: the parser synchronizes to the next plausible
// statement boundary and continues, so one run can surface several
// independent diagnostics.
type Parser struct {
	tokens []token.Token
	pos    int
	steps  int

	curToken  token.Token
	peekToken token.Token

	lastToken token.Token // most recently consumed token, for error locations
	hasLast   bool

	reporter     diag.Reporter
	allowInvalid bool

	prefixParseFns map[token.TokenType]prefixParseFn
	infixParseFns  map[token.TokenType]infixParseFn
}

func New(reporter diag.Reporter, tokens []token.Token) *Parser {
	return newParser(reporter, tokens, false)
}

// NewAllowInvalid builds a parser that tolerates a dangling property access
// ("receiver." or "super." with nothing after the dot) by producing
// InvalidGet/InvalidSuper nodes, and a missing ';' after an expression
// statement. Completion lookups parse with this mode so the receiver of an
// unfinished access survives into the AST.
func NewAllowInvalid(reporter diag.Reporter, tokens []token.Token) *Parser {
	return newParser(reporter, tokens, true)
}

func newParser(reporter diag.Reporter, tokens []token.Token, allowInvalid bool) *Parser {
	if len(tokens) == 0 {
		tokens = []token.Token{{Type: token.EOF}}
	}

	p := &Parser{
		tokens:       tokens,
		reporter:     reporter,
		allowInvalid: allowInvalid,
	}

	p.prefixParseFns = make(map[token.TokenType]prefixParseFn)
	p.registerPrefix(token.NIL, p.parseNil)
	p.registerPrefix(token.IDENT, p.parseIdentifier)
	p.registerPrefix(token.NUMBER, p.parseNumberLiteral)
	p.registerPrefix(token.STRING, p.parseStringLiteral)
	p.registerPrefix(token.TRUE, p.parseBoolean)
	p.registerPrefix(token.FALSE, p.parseBoolean)
	p.registerPrefix(token.BANG, p.parsePrefixExpression)
	p.registerPrefix(token.MINUS, p.parsePrefixExpression)
	p.registerPrefix(token.LPAREN, p.parseGroupedExpression)
	p.registerPrefix(token.THIS, p.parseThisExpression)
	p.registerPrefix(token.SUPER, p.parseSuperExpression)

	p.infixParseFns = make(map[token.TokenType]infixParseFn)
	p.registerInfix(token.PLUS, p.parseInfixExpression)
	p.registerInfix(token.MINUS, p.parseInfixExpression)
	p.registerInfix(token.SLASH, p.parseInfixExpression)
	p.registerInfix(token.ASTERISK, p.parseInfixExpression)
	p.registerInfix(token.EQ, p.parseInfixExpression)
	p.registerInfix(token.NOT_EQ, p.parseInfixExpression)
	p.registerInfix(token.LT, p.parseInfixExpression)
	p.registerInfix(token.LT_EQ, p.parseInfixExpression)
	p.registerInfix(token.GT, p.parseInfixExpression)
	p.registerInfix(token.GT_EQ, p.parseInfixExpression)
	p.registerInfix(token.AND, p.parseLogicalExpression)
	p.registerInfix(token.OR, p.parseLogicalExpression)
	p.registerInfix(token.ASSIGN, p.parseAssignExpression)
	p.registerInfix(token.LPAREN, p.parseCallExpression)
	p.registerInfix(token.PERIOD, p.parseGetExpression)

	// Load curToken and peekToken.
	p.nextToken()
	p.nextToken()

	return p
}

func (p *Parser) registerPrefix(tokenType token.TokenType, fn prefixParseFn) {
	p.prefixParseFns[tokenType] = fn
}

func (p *Parser) registerInfix(tokenType token.TokenType, fn infixParseFn) {
	p.infixParseFns[tokenType] = fn
}

// ParseProgram parses until EOF. Statements that fail to parse are dropped
// after their diagnostics are reported; the rest of the program is kept.
func (p *Parser) ParseProgram() *ast.Program {
	program := &ast.Program{}

	for !p.curTokenIs(token.EOF) {
		before := p.steps
		stmt, err := p.parseDeclaration()
		if err != nil {
			p.reporter.AddMessage(err.Error())
			if p.steps == before {
				// The failure consumed nothing; skip a token so the
				// recovery loop always makes progress.
				p.nextToken()
			}
			continue
		}
		program.Statements = append(program.Statements, stmt)
	}

	return program
}

// ParseExpression parses the token sequence as one bare expression, for
// callers evaluating a selected fragment rather than a program. Trailing
// tokens after the expression are an error. Returns nil when parsing failed.
func (p *Parser) ParseExpression() ast.Expression {
	expr, err := p.parseExpression(LOWEST)
	if err != nil {
		p.reporter.AddMessage(err.Error())
		return nil
	}
	if !p.curTokenIs(token.EOF) {
		err := p.addDiagnostic("Expect end of expression")
		p.reporter.AddMessage(err.Error())
		return nil
	}
	return expr
}

// ----- statements -----

func (p *Parser) parseDeclaration() (ast.Statement, error) {
	var stmt ast.Statement
	var err error

	tok := p.curToken
	switch p.curToken.Type {
	case token.CLASS:
		p.nextToken()
		stmt, err = p.parseClassDeclaration(tok)
	case token.FUNCTION:
		p.nextToken()
		var fn *ast.FunctionStatement
		fn, err = p.parseFunctionDeclaration(tok, "function")
		if err == nil {
			stmt = fn
		}
	case token.VAR:
		p.nextToken()
		stmt, err = p.parseVarDeclaration(tok)
	default:
		stmt, err = p.parseStatement()
	}

	if err != nil {
		p.synchronize()
		return nil, err
	}
	return stmt, nil
}

func (p *Parser) parseClassDeclaration(classTok token.Token) (ast.Statement, error) {
	nameTok, err := p.expect(token.IDENT, "Expect class name")
	if err != nil {
		return nil, err
	}
	name := &ast.Identifier{Token: nameTok, Value: nameTok.Literal}

	var superclass *ast.Identifier
	if p.match(token.LT) {
		superTok, err := p.expect(token.IDENT, "Expect superclass name")
		if err != nil {
			return nil, err
		}
		superclass = &ast.Identifier{Token: superTok, Value: superTok.Literal}
	}

	if _, err := p.expect(token.LBRACE, "Expect '{' before class body"); err != nil {
		return nil, err
	}

	methods := []*ast.FunctionStatement{}
	for !p.curTokenIs(token.RBRACE) && !p.curTokenIs(token.EOF) {
		method, err := p.parseFunctionDeclaration(p.curToken, "method")
		if err != nil {
			return nil, err
		}
		methods = append(methods, method)
	}

	rbrace, err := p.expect(token.RBRACE, "Expect '}' after class body")
	if err != nil {
		return nil, err
	}

	return &ast.ClassStatement{
		Token:      classTok,
		Name:       name,
		Superclass: superclass,
		Methods:    methods,
		RBrace:     rbrace,
	}, nil
}

func (p *Parser) parseFunctionDeclaration(keyword token.Token, kind string) (*ast.FunctionStatement, error) {
	nameTok, err := p.expect(token.IDENT, "Expect "+kind+" name")
	if err != nil {
		return nil, err
	}
	name := &ast.Identifier{Token: nameTok, Value: nameTok.Literal}

	lparen, err := p.expect(token.LPAREN, fmt.Sprintf("Expect '(' after %s name", kind))
	if err != nil {
		return nil, err
	}

	params := []*ast.Identifier{}
	if !p.curTokenIs(token.RPAREN) {
		for {
			if len(params) > maxCallArguments {
				// Report and carry on parsing.
				_ = p.addDiagnostic(fmt.Sprintf("Cannot have more than %d parameters", maxCallArguments))
			}

			paramTok, err := p.expect(token.IDENT, "Expect parameter name")
			if err != nil {
				return nil, err
			}
			params = append(params, &ast.Identifier{Token: paramTok, Value: paramTok.Literal})

			if !p.match(token.COMMA) {
				break
			}
		}
	}
	if _, err := p.expect(token.RPAREN, fmt.Sprintf("Expect ')' after %s parameters", kind)); err != nil {
		return nil, err
	}

	lbrace, err := p.expect(token.LBRACE, fmt.Sprintf("Expect '{' before %s body", kind))
	if err != nil {
		return nil, err
	}
	body, err := p.parseBlockStatement(lbrace)
	if err != nil {
		return nil, err
	}

	return &ast.FunctionStatement{
		Token: keyword,
		Name:  name,
		Function: &ast.FunctionLiteral{
			Token:      lparen,
			Parameters: params,
			Body:       body,
		},
	}, nil
}

func (p *Parser) parseVarDeclaration(varTok token.Token) (ast.Statement, error) {
	nameTok, err := p.expect(token.IDENT, "Expect a variable name")
	if err != nil {
		return nil, err
	}
	name := &ast.Identifier{Token: nameTok, Value: nameTok.Literal}

	var value ast.Expression
	if p.match(token.ASSIGN) {
		expr, err := p.parseExpression(LOWEST)
		if err != nil {
			return nil, err
		}
		value = expr
	}

	if _, err := p.expect(token.SEMICOLON, "Expect ';' after variable declaration"); err != nil {
		return nil, err
	}

	return &ast.VarStatement{Token: varTok, Name: name, Value: value}, nil
}

func (p *Parser) parseStatement() (ast.Statement, error) {
	tok := p.curToken
	switch p.curToken.Type {
	case token.FOR:
		p.nextToken()
		return p.parseForStatement(tok)
	case token.IF:
		p.nextToken()
		return p.parseIfStatement(tok)
	case token.PRINT:
		p.nextToken()
		return p.parsePrintStatement(tok)
	case token.RETURN:
		p.nextToken()
		return p.parseReturnStatement(tok)
	case token.WHILE:
		p.nextToken()
		return p.parseWhileStatement(tok)
	case token.LBRACE:
		p.nextToken()
		block, err := p.parseBlockStatement(tok)
		if err != nil {
			return nil, err
		}
		return block, nil
	default:
		return p.parseExpressionStatement()
	}
}

func (p *Parser) parseIfStatement(ifTok token.Token) (ast.Statement, error) {
	if _, err := p.expect(token.LPAREN, "Expect '(' after 'if'"); err != nil {
		return nil, err
	}
	condition, err := p.parseExpression(LOWEST)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.RPAREN, "Expect ')' after 'if' condition"); err != nil {
		return nil, err
	}

	thenBranch, err := p.parseStatement()
	if err != nil {
		return nil, err
	}

	var elseBranch ast.Statement
	if p.match(token.ELSE) {
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		elseBranch = stmt
	}

	return &ast.IfStatement{
		Token:      ifTok,
		Condition:  condition,
		ThenBranch: thenBranch,
		ElseBranch: elseBranch,
	}, nil
}

func (p *Parser) parsePrintStatement(printTok token.Token) (ast.Statement, error) {
	value, err := p.parseExpression(LOWEST)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.SEMICOLON, "Expect ';' after value"); err != nil {
		return nil, err
	}
	return &ast.PrintStatement{Token: printTok, Value: value}, nil
}

func (p *Parser) parseReturnStatement(returnTok token.Token) (ast.Statement, error) {
	var value ast.Expression
	if !p.curTokenIs(token.SEMICOLON) {
		expr, err := p.parseExpression(LOWEST)
		if err != nil {
			return nil, err
		}
		value = expr
	}
	if _, err := p.expect(token.SEMICOLON, "Expect ';' after return value"); err != nil {
		return nil, err
	}
	return &ast.ReturnStatement{Token: returnTok, ReturnValue: value}, nil
}

func (p *Parser) parseWhileStatement(whileTok token.Token) (ast.Statement, error) {
	if _, err := p.expect(token.LPAREN, "Expect '(' after 'while'"); err != nil {
		return nil, err
	}
	condition, err := p.parseExpression(LOWEST)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.RPAREN, "Expect ')' after 'while' condition"); err != nil {
		return nil, err
	}
	body, err := p.parseStatement()
	if err != nil {
		return nil, err
	}
	return &ast.WhileStatement{Token: whileTok, Condition: condition, Body: body}, nil
}

// parseForStatement desugars for loops at parse time:
//
//	for (init; cond; incr) body  =>  { init; while (cond) { body; incr; } }
//
// so the resolver and the evaluator never see a dedicated loop node.
func (p *Parser) parseForStatement(forTok token.Token) (ast.Statement, error) {
	if _, err := p.expect(token.LPAREN, "Expect '(' after 'for'"); err != nil {
		return nil, err
	}

	var initialiser ast.Statement
	switch {
	case p.match(token.SEMICOLON):
		// no initialiser
	case p.curTokenIs(token.VAR):
		varTok := p.curToken
		p.nextToken()
		stmt, err := p.parseVarDeclaration(varTok)
		if err != nil {
			return nil, err
		}
		initialiser = stmt
	default:
		stmt, err := p.parseExpressionStatement()
		if err != nil {
			return nil, err
		}
		initialiser = stmt
	}

	var condition ast.Expression
	if !p.curTokenIs(token.SEMICOLON) {
		expr, err := p.parseExpression(LOWEST)
		if err != nil {
			return nil, err
		}
		condition = expr
	} else {
		// An omitted condition loops forever.
		loc := p.nearbySpan().Start
		condition = &ast.Boolean{
			Token: token.Token{Type: token.TRUE, Literal: "true", Start: loc, End: loc},
			Value: true,
		}
	}
	if _, err := p.expect(token.SEMICOLON, "Expect ';' after 'for' loop condition"); err != nil {
		return nil, err
	}

	var increment ast.Expression
	if !p.curTokenIs(token.RPAREN) {
		expr, err := p.parseExpression(LOWEST)
		if err != nil {
			return nil, err
		}
		increment = expr
	}
	if _, err := p.expect(token.RPAREN, "Expect ')' after 'for' clauses"); err != nil {
		return nil, err
	}

	body, err := p.parseStatement()
	if err != nil {
		return nil, err
	}

	if increment != nil {
		body = syntheticBlock(body, &ast.ExpressionStatement{Expression: increment})
	}
	var loop ast.Statement = &ast.WhileStatement{Token: forTok, Condition: condition, Body: body}
	if initialiser != nil {
		loop = syntheticBlock(initialiser, loop)
	}
	return loop, nil
}

// syntheticBlock wraps desugared statements in a block with brace tokens
// synthesized from the spans of its contents.
func syntheticBlock(stmts ...ast.Statement) *ast.BlockStatement {
	start := stmts[0].Span().Start
	end := stmts[0].Span().End
	for _, s := range stmts[1:] {
		if s.Span().Start.Before(start) {
			start = s.Span().Start
		}
		if end.Before(s.Span().End) {
			end = s.Span().End
		}
	}
	return &ast.BlockStatement{
		Token:      token.Token{Type: token.LBRACE, Literal: "{", Start: start, End: start},
		Statements: stmts,
		RBrace:     token.Token{Type: token.RBRACE, Literal: "}", Start: end, End: end},
	}
}

func (p *Parser) parseBlockStatement(lbrace token.Token) (*ast.BlockStatement, error) {
	statements := []ast.Statement{}

	for !p.curTokenIs(token.RBRACE) && !p.curTokenIs(token.EOF) {
		stmt, err := p.parseDeclaration()
		if err != nil {
			return nil, err
		}
		statements = append(statements, stmt)
	}

	rbrace, err := p.expect(token.RBRACE, "Expect '}' after block")
	if err != nil {
		return nil, err
	}

	return &ast.BlockStatement{Token: lbrace, Statements: statements, RBrace: rbrace}, nil
}

func (p *Parser) parseExpressionStatement() (ast.Statement, error) {
	firstTok := p.curToken
	expr, err := p.parseExpression(LOWEST)
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(token.SEMICOLON, "Expect ';' after expression"); err != nil {
		if !p.allowInvalid {
			return nil, err
		}
	}

	return &ast.ExpressionStatement{Token: firstTok, Expression: expr}, nil
}

// ----- expressions -----

func (p *Parser) parseExpression(precedence int) (ast.Expression, error) {
	prefix := p.prefixParseFns[p.curToken.Type]
	if prefix == nil {
		return nil, p.addDiagnostic("Expect expression")
	}
	left, err := prefix()
	if err != nil {
		return nil, err
	}

	for precedence < p.curPrecedence() {
		infix := p.infixParseFns[p.curToken.Type]
		if infix == nil {
			return left, nil
		}
		left, err = infix(left)
		if err != nil {
			return nil, err
		}
	}

	return left, nil
}

func (p *Parser) parseIdentifier() (ast.Expression, error) {
	tok := p.curToken
	p.nextToken()
	return &ast.Identifier{Token: tok, Value: tok.Literal}, nil
}

func (p *Parser) parseNumberLiteral() (ast.Expression, error) {
	tok := p.curToken
	value, err := strconv.ParseFloat(tok.Literal, 64)
	if err != nil {
		return nil, p.addDiagnostic(fmt.Sprintf("could not parse %q as number", tok.Literal))
	}
	p.nextToken()
	return &ast.NumberLiteral{Token: tok, Value: value}, nil
}

func (p *Parser) parseStringLiteral() (ast.Expression, error) {
	tok := p.curToken
	p.nextToken()
	return &ast.StringLiteral{Token: tok, Value: tok.Literal}, nil
}

func (p *Parser) parseBoolean() (ast.Expression, error) {
	tok := p.curToken
	p.nextToken()
	return &ast.Boolean{Token: tok, Value: tok.Type == token.TRUE}, nil
}

func (p *Parser) parseNil() (ast.Expression, error) {
	tok := p.curToken
	p.nextToken()
	return &ast.Nil{Token: tok}, nil
}

func (p *Parser) parsePrefixExpression() (ast.Expression, error) {
	opTok := p.curToken
	p.nextToken()

	right, err := p.parseExpression(PREFIX)
	if err != nil {
		return nil, err
	}

	return &ast.PrefixExpression{Token: opTok, Operator: opTok.Literal, Right: right}, nil
}

func (p *Parser) parseInfixExpression(left ast.Expression) (ast.Expression, error) {
	opTok := p.curToken
	precedence := p.curPrecedence()
	p.nextToken()

	right, err := p.parseExpression(precedence)
	if err != nil {
		return nil, err
	}

	return &ast.InfixExpression{Token: opTok, Left: left, Operator: opTok.Literal, Right: right}, nil
}

func (p *Parser) parseLogicalExpression(left ast.Expression) (ast.Expression, error) {
	opTok := p.curToken
	precedence := p.curPrecedence()
	p.nextToken()

	right, err := p.parseExpression(precedence)
	if err != nil {
		return nil, err
	}

	return &ast.LogicalExpression{Token: opTok, Left: left, Operator: opTok.Literal, Right: right}, nil
}

func (p *Parser) parseAssignExpression(left ast.Expression) (ast.Expression, error) {
	assignTok := p.curToken
	p.nextToken()

	// Right-associative: a = b = c assigns c to b first.
	value, err := p.parseExpression(ASSIGNMENT - 1)
	if err != nil {
		return nil, err
	}

	switch target := left.(type) {
	case *ast.Identifier:
		return &ast.AssignExpression{Token: assignTok, Name: target, Value: value}, nil
	case *ast.GetExpression:
		return &ast.SetExpression{
			Token:  target.Token,
			Object: target.Object,
			Name:   target.Name,
			Value:  value,
		}, nil
	}

	// Report and carry on with the unmodified target expression.
	_ = p.addDiagnostic("Invalid assignment target")
	return left, nil
}

func (p *Parser) parseGroupedExpression() (ast.Expression, error) {
	lparen := p.curToken
	p.nextToken()

	expr, err := p.parseExpression(LOWEST)
	if err != nil {
		return nil, err
	}

	rparen, err := p.expect(token.RPAREN, "Expect ')' after expression")
	if err != nil {
		return nil, err
	}

	return &ast.GroupingExpression{Token: lparen, Expression: expr, RParen: rparen}, nil
}

func (p *Parser) parseCallExpression(function ast.Expression) (ast.Expression, error) {
	lparen := p.curToken
	p.nextToken()

	arguments := []ast.Expression{}
	if !p.curTokenIs(token.RPAREN) {
		for {
			if len(arguments) > maxCallArguments {
				// Report and carry on parsing.
				_ = p.addDiagnostic(fmt.Sprintf("Cannot have more than %d arguments", maxCallArguments))
			}

			arg, err := p.parseExpression(LOWEST)
			if err != nil {
				return nil, err
			}
			arguments = append(arguments, arg)

			if !p.curTokenIs(token.COMMA) {
				break
			}
			p.nextToken()
		}
	}

	rparen, err := p.expect(token.RPAREN, "Expect ')' after function arguments")
	if err != nil {
		return nil, err
	}

	return &ast.CallExpression{
		Token:     lparen,
		Function:  function,
		Arguments: arguments,
		RParen:    rparen,
	}, nil
}

func (p *Parser) parseGetExpression(object ast.Expression) (ast.Expression, error) {
	dotTok := p.curToken
	p.nextToken()

	if !p.curTokenIs(token.IDENT) {
		err := p.addDiagnostic("Expect property name after '.'")
		if !p.allowInvalid {
			return nil, err
		}
		return &ast.InvalidGet{Token: dotTok, Object: object}, nil
	}

	nameTok := p.curToken
	p.nextToken()
	return &ast.GetExpression{
		Token:  dotTok,
		Object: object,
		Name:   &ast.Identifier{Token: nameTok, Value: nameTok.Literal},
	}, nil
}

func (p *Parser) parseThisExpression() (ast.Expression, error) {
	tok := p.curToken
	p.nextToken()
	return &ast.ThisExpression{Token: tok}, nil
}

func (p *Parser) parseSuperExpression() (ast.Expression, error) {
	superTok := p.curToken
	p.nextToken()

	dot, err := p.expect(token.PERIOD, "Expect '.' after 'super'")
	if err != nil {
		return nil, err
	}

	if !p.curTokenIs(token.IDENT) {
		err := p.addDiagnostic("Expect superclass method name")
		if !p.allowInvalid {
			return nil, err
		}
		return &ast.InvalidSuper{Token: superTok, Period: dot}, nil
	}

	methodTok := p.curToken
	p.nextToken()
	return &ast.SuperExpression{
		Token:  superTok,
		Method: &ast.Identifier{Token: methodTok, Value: methodTok.Literal},
	}, nil
}

// ----- token cursor -----

func (p *Parser) nextToken() {
	if p.curToken.Type != "" {
		p.lastToken = p.curToken
		p.hasLast = true
	}
	p.steps++

	p.curToken = p.peekToken
	if p.pos < len(p.tokens) {
		p.peekToken = p.tokens[p.pos]
		p.pos++
	}
}

func (p *Parser) curTokenIs(t token.TokenType) bool {
	return p.curToken.Type == t
}

func (p *Parser) curPrecedence() int {
	if precedence, ok := precedences[p.curToken.Type]; ok {
		return precedence
	}
	return LOWEST
}

// match consumes the current token and reports true when it has the given
// type; otherwise it leaves the cursor alone.
func (p *Parser) match(t token.TokenType) bool {
	if p.curTokenIs(t) {
		p.nextToken()
		return true
	}
	return false
}

// expect consumes and returns the current token when it has the given type;
// otherwise it reports a diagnostic and fails.
func (p *Parser) expect(t token.TokenType, message string) (token.Token, error) {
	if p.curTokenIs(t) {
		tok := p.curToken
		p.nextToken()
		return tok, nil
	}
	return token.Token{}, p.addDiagnostic(message)
}

// addDiagnostic reports message at the most recently consumed token's span,
// falling back to the current token, and returns the matching error.
func (p *Parser) addDiagnostic(message string) error {
	span := p.nearbySpan()
	p.reporter.AddDiagnostic(span.Start, span.End, message)
	return errors.New(message)
}

func (p *Parser) nearbySpan() diag.Span {
	if p.hasLast {
		return p.lastToken.Span()
	}
	return p.curToken.Span()
}

// synchronize discards tokens after a syntax error until a plausible
// statement boundary: just past a semicolon, or just after one of the
// keywords that begin a statement.
func (p *Parser) synchronize() {
	for !p.curTokenIs(token.EOF) {
		if p.curTokenIs(token.SEMICOLON) {
			p.nextToken()
			return
		}
		if p.hasLast && token.StatementStart(p.lastToken.Type) {
			return
		}
		p.nextToken()
	}
}
