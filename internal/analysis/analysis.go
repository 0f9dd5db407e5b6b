// Package analysis answers editor queries against a program: where the
// name under a position is declared, and which names are valid
// completions at a position. Queries never execute anything; they run
// the scanner, the completion-tolerant parser, and the resolver, then
// walk the tree around the position.
package analysis

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"lox/internal/ast"
	"lox/internal/diag"
	"lox/internal/foreign"
	"lox/internal/lexer"
	"lox/internal/parser"
	"lox/internal/resolver"
)

// Completion is one candidate name visible at the queried position.
type Completion struct {
	Name string
	Kind resolver.Kind
}

// ProvideDefinition returns the declaration sites for the name at pos:
// nothing when the name is undeclared or the position is not on a
// reference, one span otherwise. Lexical names resolve through the
// resolver's symbol index; property and super accesses resolve against
// the best-effort inferred receiver class.
func ProvideDefinition(r diag.Reporter, source string, pos diag.FileLocation) []diag.Span {
	program, resolution := analyse(r, source)
	w := newWalker(program, resolution, pos)
	w.run()
	return w.definitions
}

// ProvideCompletions returns the names that complete at pos, ordered
// inner scope before outer and collated within each rank. Right after a
// property dot the candidates switch from lexical names to the inferred
// receiver class's fields and methods.
func ProvideCompletions(r diag.Reporter, source string, pos diag.FileLocation) []Completion {
	program, resolution := analyse(r, source)
	w := newWalker(program, resolution, pos)
	w.run()

	collator := collate.New(language.Und)
	if w.property != nil {
		return propertyCandidates(w.property, collator)
	}
	return lexicalCandidates(w, resolution, collator)
}

// analyse runs the static pipeline in completion-tolerant mode. The
// queries work best effort on whatever tree comes back, so no stage is
// gated on an earlier stage's diagnostics.
func analyse(r diag.Reporter, source string) (*ast.Program, *resolver.Resolution) {
	tokens := lexer.Scan(source, r)
	program := parser.NewAllowInvalid(r, tokens).ParseProgram()
	return program, resolver.Resolve(r, program)
}

// propertyCandidates lists the receiver class's fields and methods,
// own class before ancestors. Super accesses see methods only.
func propertyCandidates(target *propertyTarget, collator *collate.Collator) []Completion {
	var out []Completion
	seen := map[string]bool{}
	for _, class := range target.chain {
		if !target.isSuper {
			out = appendRank(out, class.fields, seen, collator)
		}
		out = appendRank(out, class.methods, seen, collator)
	}
	return out
}

// lexicalCandidates lists the names on the scope path to the position,
// innermost rank first, then the top-level declarations, then the
// native functions every program can call.
func lexicalCandidates(w *walker, resolution *resolver.Resolution, collator *collate.Collator) []Completion {
	var out []Completion
	seen := map[string]bool{}

	for i := len(w.snapshot) - 1; i >= 0; i-- {
		out = appendRank(out, w.snapshot[i], seen, collator)
	}
	out = appendRank(out, resolution.Globals, seen, collator)

	natives := make([]resolver.Symbol, 0, len(foreign.GetForeignFunctions()))
	for name := range foreign.GetForeignFunctions() {
		natives = append(natives, resolver.Symbol{Name: name, Kind: resolver.KindFunction})
	}
	return appendRank(out, natives, seen, collator)
}

// appendRank adds one rank of symbols to the candidate list: names not
// already claimed by an inner rank, collated within the rank.
func appendRank(out []Completion, symbols []resolver.Symbol, seen map[string]bool, collator *collate.Collator) []Completion {
	rank := make([]Completion, 0, len(symbols))
	for _, symbol := range symbols {
		if seen[symbol.Name] {
			continue
		}
		seen[symbol.Name] = true
		rank = append(rank, Completion{Name: symbol.Name, Kind: symbol.Kind})
	}
	sort.SliceStable(rank, func(i, j int) bool {
		return collator.CompareString(rank[i].Name, rank[j].Name) < 0
	})
	return append(out, rank...)
}
