// parser.go - Turtle language parser
// Completion: 100%
//
// First pass of the two-pass front end. The statement grammar is ambiguous
// without arity information ("square 100" may be a call with one argument
// or a call with none followed by a stray expression), so this pass stays
// arity-agnostic: a declared procedure name becomes a LabelStmt and every
// expression in statement position becomes an ExpressionStmt. The resolver
// (resolver.go) binds them once the registry is complete.

package logo

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Statement keywords
const (
	kwForward = "forward"
	kwBack    = "back"
	kwTurn    = "turn"
	kwRight   = "right"
	kwLeft    = "left"
	kwRepeat  = "repeat"
	kwIf      = "if"
	kwStop    = "stop"
)

var keywords = map[string]bool{
	kwForward: true, kwBack: true, kwTurn: true, kwRight: true,
	kwLeft: true, kwRepeat: true, kwIf: true, kwStop: true,
	defineKeyword: true, endKeyword: true,
}

// keywordAliases are the classic Logo abbreviations. A procedure with the
// same name takes precedence over the alias.
var keywordAliases = map[string]string{
	"fd": kwForward,
	"bk": kwBack,
	"rt": kwRight,
	"lt": kwLeft,
}

// Keywords returns the statement keywords and their aliases, sorted
func Keywords() []string {
	words := make([]string, 0, len(keywords)+len(keywordAliases))
	for kw := range keywords {
		words = append(words, kw)
	}
	for alias := range keywordAliases {
		words = append(words, alias)
	}
	sort.Strings(words)
	return words
}

type Parser struct {
	labels map[string]bool // procedure names declared so far
	tokens []Token
	pos    int
}

// NewParser creates a parser that already knows the procedures in procs
func NewParser(procs *Procedures) *Parser {
	p := &Parser{labels: make(map[string]bool)}
	if procs != nil {
		for _, name := range procs.Names() {
			p.labels[name] = true
		}
	}
	return p
}

// Parse parses and resolves a complete program
func Parse(src string) (*Program, error) {
	return ParseWith(NewProcedures(), src)
}

// ParseWith parses src into procs. Definitions are pushed into procs as they
// are met; top-level statements are resolved against the final registry.
func ParseWith(procs *Procedures, src string) (*Program, error) {
	p := NewParser(procs)
	var stmts []Statement
	for _, chunk := range Partition(Tokenize(src)) {
		if chunk.Kind == DefinitionChunk {
			proc, err := p.ParseDefinition(chunk.Tokens)
			if err != nil {
				return nil, attachSource(err, src)
			}
			procs.Push(proc.Name, proc.Body, proc.Params)
			continue
		}
		body, err := p.ParseStatements(chunk.Tokens)
		if err != nil {
			return nil, attachSource(err, src)
		}
		stmts = append(stmts, body...)
	}

	resolved, err := Resolve(stmts, procs)
	if err != nil {
		return nil, attachSource(err, src)
	}
	return &Program{Statements: resolved, Procedures: procs}, nil
}

func (p *Parser) reset(tokens []Token) {
	p.tokens = tokens
	p.pos = 0
}

func (p *Parser) current() Token {
	if p.pos < len(p.tokens) {
		return p.tokens[p.pos]
	}
	return Token{Line: lastToken(p.tokens).Line}
}

func (p *Parser) atEnd() bool { return p.pos >= len(p.tokens) }

// ParseStatements parses a top-level statement sequence
func (p *Parser) ParseStatements(tokens []Token) ([]Statement, error) {
	p.reset(tokens)
	return p.parseSequence(false)
}

// ParseDefinition parses "to name :a :b body" (the terminating end has
// already been split off). The name is declared before the body is parsed
// so the body may call itself.
func (p *Parser) ParseDefinition(tokens []Token) (*Procedure, error) {
	p.reset(tokens)
	head := p.current()
	if head.Text != defineKeyword {
		return nil, SyntaxFault(ErrMalformedHeader, head, "procedure definition must start with '%s'", defineKeyword)
	}
	p.pos++

	if p.atEnd() {
		return nil, SyntaxFault(ErrMalformedHeader, head, "procedure definition without a name")
	}
	nameTok := p.current()
	name := nameTok.Text
	if strings.HasPrefix(name, paramSigil) || name == "[" || name == "]" || keywords[name] {
		return nil, SyntaxFault(ErrMalformedHeader, nameTok, "invalid procedure name '%s'", name)
	}
	if _, err := strconv.ParseFloat(name, 64); err == nil {
		return nil, SyntaxFault(ErrMalformedHeader, nameTok, "invalid procedure name '%s'", name)
	}
	p.pos++

	var params []string
	seen := make(map[string]bool)
	for !p.atEnd() && strings.HasPrefix(p.current().Text, paramSigil) {
		tok := p.current()
		param := strings.TrimPrefix(tok.Text, paramSigil)
		if param == "" {
			return nil, SyntaxFault(ErrMalformedHeader, tok, "empty parameter name in procedure '%s'", name)
		}
		if seen[param] {
			return nil, SyntaxFault(ErrMalformedHeader, tok, "duplicate parameter '%s' in procedure '%s'", tok.Text, name)
		}
		seen[param] = true
		params = append(params, param)
		p.pos++
	}

	if p.atEnd() {
		return nil, SyntaxFault(ErrMalformedHeader, nameTok, "procedure '%s' has an empty body", name)
	}

	p.labels[name] = true
	body, err := p.parseSequence(false)
	if err != nil {
		return nil, err
	}
	return &Procedure{Name: name, Params: params, Body: body}, nil
}

// parseSequence parses statements until the input ends or a ']' is found.
// The ']' is left for parseBlock; outside a block it is an error.
func (p *Parser) parseSequence(inBlock bool) ([]Statement, error) {
	var stmts []Statement
	for !p.atEnd() {
		tok := p.current()
		if tok.Text == "]" {
			if inBlock {
				return stmts, nil
			}
			return nil, UnmatchedBracketFault(tok)
		}
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
	}
	return stmts, nil
}

// parseBlock parses "[ statements ]"
func (p *Parser) parseBlock(owner string) (*Block, error) {
	open := p.current()
	if p.atEnd() || open.Text != "[" {
		if p.atEnd() {
			return nil, &Fault{
				Stage:   StageParse,
				Kind:    ErrExpectedBlock,
				Message: fmt.Sprintf("expected '[' after %s, got end of input", owner),
				Line:    open.Line,
			}
		}
		return nil, SyntaxFault(ErrExpectedBlock, open, "expected '[' after %s, got '%s'", owner, open.Text)
	}
	p.pos++

	stmts, err := p.parseSequence(true)
	if err != nil {
		return nil, err
	}
	if p.atEnd() {
		return nil, UnmatchedBracketFault(open)
	}
	p.pos++ // ']'
	return &Block{Statements: stmts}, nil
}

func (p *Parser) parseExpr() (Expression, error) {
	return ParseExpr(p.tokens, &p.pos)
}

func (p *Parser) parseStatement() (Statement, error) {
	tok := p.current()
	word := tok.Text
	if alias, ok := keywordAliases[word]; ok && !p.labels[word] {
		word = alias
	}

	switch word {
	case kwStop:
		p.pos++
		return &StopStmt{}, nil

	case kwForward, kwBack, kwTurn, kwRight, kwLeft:
		p.pos++
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		switch word {
		case kwForward:
			return &ForwardStmt{Distance: e}, nil
		case kwBack:
			return &BackStmt{Distance: e}, nil
		case kwLeft:
			return &LeftStmt{Angle: e}, nil
		default:
			return &RightStmt{Angle: e}, nil
		}

	case kwRepeat:
		p.pos++
		count, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		body, err := p.parseBlock("'repeat'")
		if err != nil {
			return nil, err
		}
		return &RepeatStmt{Count: count, Body: body}, nil

	case kwIf:
		p.pos++
		return p.parseIf()

	case "[":
		return p.parseBlock("statement")

	case defineKeyword:
		f := SyntaxFault(ErrMalformedHeader, tok, "'%s' must start a new block", defineKeyword)
		f.Context.HelpText = fmt.Sprintf("close the previous definition with '%s' before defining another procedure", endKeyword)
		return nil, f
	}

	if p.labels[tok.Text] {
		p.pos++
		return &LabelStmt{Name: tok.Text, Line: tok.Line}, nil
	}

	if _, ok := parseOperand(tok.Text); ok {
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		return &ExpressionStmt{Expr: e, Line: tok.Line}, nil
	}

	return nil, p.unknownStatement(tok)
}

func (p *Parser) parseIf() (Statement, error) {
	lhs, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	opTok := p.current()
	if p.atEnd() {
		return nil, &Fault{
			Stage:   StageParse,
			Kind:    ErrInvalidComparison,
			Message: "expected comparison operator, got end of input",
			Line:    opTok.Line,
		}
	}
	if opTok.Text != ">" && opTok.Text != "<" {
		f := SyntaxFault(ErrInvalidComparison, opTok, "invalid comparison operator '%s'", opTok.Text)
		f.Context.HelpText = "only '>' and '<' are supported"
		return nil, f
	}
	p.pos++
	rhs, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	body, err := p.parseBlock("'if'")
	if err != nil {
		return nil, err
	}
	return &IfStmt{
		Cond: &CompareExpr{Left: lhs, Operator: opTok.Text, Right: rhs},
		Body: body,
	}, nil
}

func (p *Parser) unknownStatement(tok Token) *Fault {
	f := SyntaxFault(ErrUnknownStatement, tok, "unknown statement '%s'", tok.Text)

	candidates := Keywords()
	for label := range p.labels {
		candidates = append(candidates, label)
	}
	sort.Strings(candidates)

	if similar := findSimilarWords(tok.Text, candidates, 3); len(similar) > 0 {
		f.Context.Suggestion = fmt.Sprintf("did you mean '%s'?", strings.Join(similar, "', '"))
	} else {
		f.Context.HelpText = "procedures must be defined before the first statement that calls them"
	}
	return f
}
