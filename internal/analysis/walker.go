package analysis

import (
	"lox/internal/ast"
	"lox/internal/diag"
	"lox/internal/resolver"
)

// classInfo is the analysis-side view of one class declaration: the
// names an instance can complete to and the superclass link the
// lookups chase.
type classInfo struct {
	name       string
	superclass string // empty without one
	methods    []resolver.Symbol
	fields     []resolver.Symbol
}

// propertyTarget captures a property access under the position: the
// receiver's resolved inheritance chain, empty when no class could be
// inferred.
type propertyTarget struct {
	chain   []*classInfo
	isSuper bool
}

// frame is one live lexical scope during the walk.
type frame struct {
	symbols []resolver.Symbol
	types   map[string]string // variable name -> class name
	classes map[string]*classInfo
}

// walker runs one position query over the whole tree in source order.
// It keeps the scope frames live the way the resolver would, infers
// receiver classes for property accesses, and collects whichever
// answers the position asks for: declaration sites, the completion
// scope snapshot, or a property target.
type walker struct {
	pos        diag.FileLocation
	program    *ast.Program
	resolution *resolver.Resolution

	frames       []*frame
	currentClass *classInfo

	definitions []diag.Span
	snapshot    [][]resolver.Symbol
	property    *propertyTarget
}

func newWalker(program *ast.Program, resolution *resolver.Resolution, pos diag.FileLocation) *walker {
	w := &walker{pos: pos, program: program, resolution: resolution}
	w.pushFrame()
	return w
}

func (w *walker) run() {
	w.takeSnapshot()
	w.walkStatements(w.program.Statements)
}

func (w *walker) pushFrame() {
	w.frames = append(w.frames, &frame{
		types:   map[string]string{},
		classes: map[string]*classInfo{},
	})
}

func (w *walker) popFrame() {
	w.frames = w.frames[:len(w.frames)-1]
}

func (w *walker) top() *frame {
	return w.frames[len(w.frames)-1]
}

func (w *walker) defineSymbol(name string, kind resolver.Kind, span diag.Span) {
	top := w.top()
	top.symbols = append(top.symbols, resolver.Symbol{Name: name, Kind: kind, Span: span})
}

func (w *walker) findType(name string) (string, bool) {
	for i := len(w.frames) - 1; i >= 0; i-- {
		if class, ok := w.frames[i].types[name]; ok {
			return class, true
		}
	}
	return "", false
}

func (w *walker) findClass(name string) *classInfo {
	for i := len(w.frames) - 1; i >= 0; i-- {
		if class, ok := w.frames[i].classes[name]; ok {
			return class
		}
	}
	return nil
}

// takeSnapshot freezes the current scope frames as the completion
// scopes, outermost first. The walk keeps overwriting it while it is
// still before the position, so the last snapshot taken is the scope
// state right at the position. The base frame is dropped: top-level
// names come from the resolver's globals, which also cover forward
// references.
func (w *walker) takeSnapshot() {
	snapshot := make([][]resolver.Symbol, 0, len(w.frames)-1)
	for _, f := range w.frames[1:] {
		snapshot = append(snapshot, append([]resolver.Symbol(nil), f.symbols...))
	}
	w.snapshot = snapshot
}

// walkStatements visits a list sharing one already-pushed scope frame,
// refreshing the snapshot after each statement that ends before the
// position.
func (w *walker) walkStatements(statements []ast.Statement) {
	for _, statement := range statements {
		w.walkStatement(statement)
		if statement.Span().End.Before(w.pos) {
			w.takeSnapshot()
		}
	}
}

func (w *walker) walkStatement(statement ast.Statement) {
	switch node := statement.(type) {
	case *ast.BlockStatement:
		w.pushFrame()
		if node.Span().Contains(w.pos) {
			w.takeSnapshot()
		}
		w.walkStatements(node.Statements)
		w.popFrame()

	case *ast.ClassStatement:
		w.walkClass(node)

	case *ast.ExpressionStatement:
		w.walkExpression(node.Expression)

	case *ast.FunctionStatement:
		w.defineSymbol(node.Name.Value, resolver.KindFunction, node.Name.Span())
		w.walkFunction(node.Function)

	case *ast.IfStatement:
		w.walkExpression(node.Condition)
		w.walkStatement(node.ThenBranch)
		if node.ElseBranch != nil {
			w.walkStatement(node.ElseBranch)
		}

	case *ast.PrintStatement:
		w.walkExpression(node.Value)

	case *ast.ReturnStatement:
		if node.ReturnValue != nil {
			w.walkExpression(node.ReturnValue)
		}

	case *ast.VarStatement:
		if node.Value != nil {
			w.walkExpression(node.Value)
			w.inferVarType(node)
		}
		w.defineSymbol(node.Name.Value, resolver.KindVariable, node.Name.Span())

	case *ast.WhileStatement:
		w.walkExpression(node.Condition)
		w.walkStatement(node.Body)
	}
}

// walkFunction visits a function in a fresh frame holding the
// parameters; the body's statements share that frame.
func (w *walker) walkFunction(fn *ast.FunctionLiteral) {
	w.pushFrame()
	for _, parameter := range fn.Parameters {
		w.defineSymbol(parameter.Value, resolver.KindParameter, parameter.Span())
	}
	if fn.Body.Span().Contains(w.pos) {
		w.takeSnapshot()
	}
	w.walkStatements(fn.Body.Statements)
	w.popFrame()
}

// walkClass registers the class and its full method and field tables
// before any body is visited, so accesses in an earlier method see
// members introduced by a later one.
func (w *walker) walkClass(class *ast.ClassStatement) {
	info := &classInfo{name: class.Name.Value}
	if class.Superclass != nil {
		info.superclass = class.Superclass.Value
	}
	for _, method := range class.Methods {
		info.methods = append(info.methods, resolver.Symbol{
			Name: method.Name.Value,
			Kind: resolver.KindMethod,
			Span: method.Name.Span(),
		})
	}
	info.fields = collectFields(class)

	w.defineSymbol(class.Name.Value, resolver.KindClass, class.Name.Span())
	w.top().classes[class.Name.Value] = info

	if class.Superclass != nil {
		w.walkExpression(class.Superclass)
	}

	enclosing := w.currentClass
	w.currentClass = info
	for _, method := range class.Methods {
		w.walkFunction(method.Function)
	}
	w.currentClass = enclosing
}

func (w *walker) walkExpression(expression ast.Expression) {
	switch node := expression.(type) {
	case *ast.Identifier:
		w.lexicalHit(node, node.Span())

	case *ast.AssignExpression:
		w.lexicalHit(node, node.Name.Span())
		w.walkExpression(node.Value)

	case *ast.GetExpression:
		if node.Name.Span().Contains(w.pos) {
			w.propertyHit(node.Object, node.Name.Value)
		}
		w.walkExpression(node.Object)

	case *ast.SetExpression:
		if node.Name.Span().Contains(w.pos) {
			w.propertyHit(node.Object, node.Name.Value)
		}
		w.walkExpression(node.Object)
		w.walkExpression(node.Value)

	case *ast.SuperExpression:
		if node.Method.Span().Contains(w.pos) {
			w.superHit(node.Method.Value)
		}

	case *ast.InvalidGet:
		// Produced by the tolerant parse for "receiver." — a property
		// completion request when the cursor sits right after the dot.
		if w.pos == node.Token.End {
			w.property = &propertyTarget{chain: w.classChain(w.inferClass(node.Object))}
		}
		w.walkExpression(node.Object)

	case *ast.InvalidSuper:
		if w.pos == node.Period.End {
			w.superTarget()
		}

	case *ast.CallExpression:
		w.walkExpression(node.Function)
		for _, argument := range node.Arguments {
			w.walkExpression(argument)
		}

	case *ast.PrefixExpression:
		w.walkExpression(node.Right)

	case *ast.InfixExpression:
		w.walkExpression(node.Left)
		w.walkExpression(node.Right)

	case *ast.LogicalExpression:
		w.walkExpression(node.Left)
		w.walkExpression(node.Right)

	case *ast.GroupingExpression:
		w.walkExpression(node.Expression)
	}
}

// lexicalHit records the declaration site for a reference under the
// position. The resolver's symbol index already did the binding work.
func (w *walker) lexicalHit(reference ast.Expression, span diag.Span) {
	if !span.Contains(w.pos) {
		return
	}
	if definition, ok := w.resolution.Definitions[reference]; ok {
		w.definitions = append(w.definitions, definition)
	}
}

// propertyHit resolves a property name under the position against the
// receiver's inferred class: methods first, then fields assigned in
// method bodies, chained through superclasses.
func (w *walker) propertyHit(object ast.Expression, name string) {
	chain := w.classChain(w.inferClass(object))
	w.property = &propertyTarget{chain: chain}

	if span, ok := findMethodSpan(chain, name); ok {
		w.definitions = append(w.definitions, span)
		return
	}
	if span, ok := findFieldSpan(chain, name); ok {
		w.definitions = append(w.definitions, span)
	}
}

func (w *walker) superHit(name string) {
	target := w.superTarget()
	if span, ok := findMethodSpan(target.chain, name); ok {
		w.definitions = append(w.definitions, span)
	}
}

// superTarget points the property target at the enclosing class's
// superclass, so lookups start one level up.
func (w *walker) superTarget() *propertyTarget {
	target := &propertyTarget{isSuper: true}
	if w.currentClass != nil {
		target.chain = w.classChain(w.findClass(w.currentClass.superclass))
	}
	w.property = target
	return target
}

// inferClass guesses the class of a receiver expression. Three shapes
// are recognised: a variable declared as var x = C(...), a direct
// constructor call C(...), and this.
func (w *walker) inferClass(object ast.Expression) *classInfo {
	switch node := object.(type) {
	case *ast.Identifier:
		if class, ok := w.findType(node.Value); ok {
			return w.findClass(class)
		}
	case *ast.CallExpression:
		if callee, ok := node.Function.(*ast.Identifier); ok {
			return w.findClass(callee.Value)
		}
	case *ast.ThisExpression:
		return w.currentClass
	}
	return nil
}

// inferVarType records "x is an instance of C" for var x = C(...); C
// must already be a visible class where the declaration sits.
func (w *walker) inferVarType(node *ast.VarStatement) {
	call, ok := node.Value.(*ast.CallExpression)
	if !ok {
		return
	}
	callee, ok := call.Function.(*ast.Identifier)
	if !ok {
		return
	}
	if w.findClass(callee.Value) != nil {
		w.top().types[node.Name.Value] = callee.Value
	}
}

// classChain resolves the inheritance chain starting at class with the
// scopes live right now. A missing or cyclic superclass link ends the
// chain.
func (w *walker) classChain(class *classInfo) []*classInfo {
	var chain []*classInfo
	seen := map[string]bool{}
	for current := class; current != nil && !seen[current.name]; current = w.findClass(current.superclass) {
		seen[current.name] = true
		chain = append(chain, current)
	}
	return chain
}

func findMethodSpan(chain []*classInfo, name string) (diag.Span, bool) {
	for _, class := range chain {
		for _, method := range class.methods {
			if method.Name == name {
				return method.Span, true
			}
		}
	}
	return diag.Span{}, false
}

func findFieldSpan(chain []*classInfo, name string) (diag.Span, bool) {
	for _, class := range chain {
		for _, field := range class.fields {
			if field.Name == name {
				return field.Span, true
			}
		}
	}
	return diag.Span{}, false
}

// collectFields finds the instance fields a class assigns through this
// anywhere in its method bodies, keeping the first assignment site per
// name.
func collectFields(class *ast.ClassStatement) []resolver.Symbol {
	var fields []resolver.Symbol
	seen := map[string]bool{}

	var fromStatement func(statement ast.Statement)
	var fromExpression func(expression ast.Expression)

	fromExpression = func(expression ast.Expression) {
		switch node := expression.(type) {
		case *ast.SetExpression:
			if _, ok := node.Object.(*ast.ThisExpression); ok && !seen[node.Name.Value] {
				seen[node.Name.Value] = true
				fields = append(fields, resolver.Symbol{
					Name: node.Name.Value,
					Kind: resolver.KindField,
					Span: node.Name.Span(),
				})
			}
			fromExpression(node.Object)
			fromExpression(node.Value)
		case *ast.AssignExpression:
			fromExpression(node.Value)
		case *ast.PrefixExpression:
			fromExpression(node.Right)
		case *ast.InfixExpression:
			fromExpression(node.Left)
			fromExpression(node.Right)
		case *ast.LogicalExpression:
			fromExpression(node.Left)
			fromExpression(node.Right)
		case *ast.GroupingExpression:
			fromExpression(node.Expression)
		case *ast.CallExpression:
			fromExpression(node.Function)
			for _, argument := range node.Arguments {
				fromExpression(argument)
			}
		case *ast.GetExpression:
			fromExpression(node.Object)
		}
	}

	fromStatement = func(statement ast.Statement) {
		switch node := statement.(type) {
		case *ast.BlockStatement:
			for _, inner := range node.Statements {
				fromStatement(inner)
			}
		case *ast.ExpressionStatement:
			fromExpression(node.Expression)
		case *ast.IfStatement:
			fromExpression(node.Condition)
			fromStatement(node.ThenBranch)
			if node.ElseBranch != nil {
				fromStatement(node.ElseBranch)
			}
		case *ast.WhileStatement:
			fromExpression(node.Condition)
			fromStatement(node.Body)
		case *ast.PrintStatement:
			fromExpression(node.Value)
		case *ast.ReturnStatement:
			if node.ReturnValue != nil {
				fromExpression(node.ReturnValue)
			}
		case *ast.VarStatement:
			if node.Value != nil {
				fromExpression(node.Value)
			}
		}
	}

	for _, method := range class.Methods {
		fromStatement(method.Function.Body)
	}
	return fields
}
