package search

import (
	"fmt"
	"strings"
	"unicode"
)

// TokenType represents the type of a token in the search query
type TokenType int

const (
	TokenEOF TokenType = iota
	TokenText
	TokenQuoted
	TokenFilter
	TokenRegex  // /pattern/
	TokenAnd    // + (explicit)
	TokenOr     // |
	TokenNot    // -
	TokenLParen // (
	TokenRParen // )
)

// Token represents a single token in the search query
type Token struct {
	Type  TokenType
	Value string
}

// FilterType represents the type of filter
type FilterType string

const (
	FilterTypeType FilterType = "t"
	FilterTypeID   FilterType = "id"
	FilterTypeIn   FilterType = "in"
	FilterTypeOut  FilterType = "out"
)

// ComparisonOp represents comparison operators
type ComparisonOp string

const (
	OpEqual        ComparisonOp = "="
	OpNotEqual     ComparisonOp = "!="
	OpGreater      ComparisonOp = ">"
	OpGreaterEqual ComparisonOp = ">="
	OpLess         ComparisonOp = "<"
	OpLessEqual    ComparisonOp = "<="
)

// Tokenizer converts a search query string into tokens
type Tokenizer struct {
	input []rune
	pos   int
}

// NewTokenizer creates a new tokenizer for the given input
func NewTokenizer(input string) *Tokenizer {
	return &Tokenizer{input: []rune(input), pos: 0}
}

// NextToken returns the next token in the input
func (t *Tokenizer) NextToken() Token {
	t.skipWhitespace()

	if t.pos >= len(t.input) {
		return Token{Type: TokenEOF}
	}

	switch ch := t.input[t.pos]; ch {
	case '(':
		t.pos++
		return Token{Type: TokenLParen, Value: "("}
	case ')':
		t.pos++
		return Token{Type: TokenRParen, Value: ")"}
	case '|':
		t.pos++
		return Token{Type: TokenOr, Value: "|"}
	case '+':
		t.pos++
		return Token{Type: TokenAnd, Value: "+"}
	case '-':
		t.pos++
		return Token{Type: TokenNot, Value: "-"}
	case '"':
		return t.readQuotedText()
	case '/':
		return t.readRegex()
	case '@', '~':
		word := t.readWord()
		return Token{Type: TokenFilter, Value: word}
	default:
		word := t.readWord()
		if isFilterWord(word) {
			return Token{Type: TokenFilter, Value: word}
		}
		return Token{Type: TokenText, Value: word}
	}
}

// AllTokens returns all tokens up to and including EOF
func (t *Tokenizer) AllTokens() []Token {
	var tokens []Token
	for {
		tok := t.NextToken()
		tokens = append(tokens, tok)
		if tok.Type == TokenEOF {
			return tokens
		}
	}
}

func (t *Tokenizer) skipWhitespace() {
	for t.pos < len(t.input) && unicode.IsSpace(t.input[t.pos]) {
		t.pos++
	}
}

func (t *Tokenizer) readQuotedText() Token {
	t.pos++ // opening quote
	start := t.pos
	for t.pos < len(t.input) && t.input[t.pos] != '"' {
		t.pos++
	}
	value := string(t.input[start:t.pos])
	if t.pos < len(t.input) {
		t.pos++ // closing quote
	}
	return Token{Type: TokenQuoted, Value: value}
}

func (t *Tokenizer) readRegex() Token {
	t.pos++ // opening slash
	var b strings.Builder
	for t.pos < len(t.input) && t.input[t.pos] != '/' {
		if t.input[t.pos] == '\\' && t.pos+1 < len(t.input) && t.input[t.pos+1] == '/' {
			t.pos++
		}
		b.WriteRune(t.input[t.pos])
		t.pos++
	}
	if t.pos < len(t.input) {
		t.pos++ // closing slash
	}
	return Token{Type: TokenRegex, Value: b.String()}
}

// readWord reads up to the next whitespace or structural character
func (t *Tokenizer) readWord() string {
	start := t.pos
	for t.pos < len(t.input) {
		ch := t.input[t.pos]
		if unicode.IsSpace(ch) || ch == '(' || ch == ')' || ch == '|' {
			break
		}
		t.pos++
	}
	return string(t.input[start:t.pos])
}

func isFilterWord(word string) bool {
	key, _, ok := strings.Cut(word, ":")
	if !ok {
		return false
	}
	switch FilterType(key) {
	case FilterTypeType, FilterTypeID, FilterTypeIn, FilterTypeOut:
		return true
	}
	return false
}

// Parser converts tokens into a FilterExpr tree
type Parser struct {
	tokens []Token
	pos    int
}

// NewParser creates a new parser for the given tokens
func NewParser(tokens []Token) *Parser {
	return &Parser{tokens: tokens, pos: 0}
}

// ParseQuery parses a complete search query and returns the root expression
func ParseQuery(query string) (FilterExpr, error) {
	tokens := NewTokenizer(query).AllTokens()

	if len(tokens) == 1 {
		// Empty query
		return NewAlwaysMatchExpr(), nil
	}

	parser := NewParser(tokens)
	expr, err := parser.parseOr()
	if err != nil {
		return nil, err
	}

	if parser.currentToken().Type != TokenEOF {
		return nil, fmt.Errorf("unexpected token: %s", parser.currentToken().Value)
	}

	return expr, nil
}

func (p *Parser) currentToken() Token {
	if p.pos >= len(p.tokens) {
		return Token{Type: TokenEOF}
	}
	return p.tokens[p.pos]
}

func (p *Parser) advance() {
	if p.pos < len(p.tokens) {
		p.pos++
	}
}

// Operator precedence: OR < AND < NOT < Atoms

func (p *Parser) parseOr() (FilterExpr, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}

	for p.currentToken().Type == TokenOr {
		p.advance() // consume |
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = NewOrExpr(left, right)
	}

	return left, nil
}

func (p *Parser) parseAnd() (FilterExpr, error) {
	left, err := p.parseNot()
	if err != nil {
		return nil, err
	}

	for {
		if p.currentToken().Type == TokenAnd {
			p.advance() // consume +
		}
		switch p.currentToken().Type {
		case TokenEOF, TokenRParen, TokenOr:
			return left, nil
		}
		right, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		left = NewAndExpr(left, right)
	}
}

func (p *Parser) parseNot() (FilterExpr, error) {
	if p.currentToken().Type == TokenNot {
		p.advance()
		expr, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		return NewNotExpr(expr), nil
	}

	return p.parseAtom()
}

func (p *Parser) parseAtom() (FilterExpr, error) {
	tok := p.currentToken()
	switch tok.Type {
	case TokenLParen:
		p.advance() // consume (
		expr, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		if p.currentToken().Type != TokenRParen {
			return nil, fmt.Errorf("expected ')', got %q", p.currentToken().Value)
		}
		p.advance() // consume )
		return expr, nil

	case TokenText:
		p.advance()
		return NewFuzzyExpr(tok.Value), nil

	case TokenQuoted:
		p.advance()
		return NewTextExpr(tok.Value), nil

	case TokenFilter:
		p.advance()
		return parseFilterValue(tok.Value)

	case TokenRegex:
		p.advance()
		return NewRegexExpr(tok.Value)

	case TokenEOF:
		return nil, fmt.Errorf("unexpected end of input")

	default:
		return nil, fmt.Errorf("unexpected token: %s", tok.Value)
	}
}

// parseFilterValue converts a filter token value into the appropriate FilterExpr
func parseFilterValue(value string) (FilterExpr, error) {
	if term, ok := strings.CutPrefix(value, "~"); ok {
		return NewFuzzyExpr(term), nil
	}

	if criteria, ok := strings.CutPrefix(value, "@"); ok {
		return parseAttrFilter(criteria)
	}

	key, criteria, _ := strings.Cut(value, ":")
	switch FilterType(key) {
	case FilterTypeType:
		return NewTypeFilter(criteria)
	case FilterTypeID:
		if criteria == "" {
			return nil, fmt.Errorf("id filter needs a value")
		}
		return NewIDFilter(criteria), nil
	case FilterTypeIn, FilterTypeOut:
		op, n, err := parseComparison(criteria)
		if err != nil {
			return nil, fmt.Errorf("invalid %s filter: %w", key, err)
		}
		return NewDegreeFilter(FilterType(key), op, n)
	}
	return nil, fmt.Errorf("unknown filter: %s", value)
}

// parseAttrFilter parses "key", "key=value" and "key!=value"
func parseAttrFilter(criteria string) (FilterExpr, error) {
	if criteria == "" {
		return nil, fmt.Errorf("attribute filter needs a name")
	}
	for _, op := range []ComparisonOp{OpNotEqual, OpEqual} {
		if key, value, ok := strings.Cut(criteria, string(op)); ok {
			return NewAttrFilter(key, op, value)
		}
	}
	return NewAttrFilter(criteria, "", "")
}

// parseComparison splits ">=2" into its operator and number. A bare number
// compares for equality.
func parseComparison(criteria string) (ComparisonOp, string, error) {
	for _, op := range []ComparisonOp{OpGreaterEqual, OpLessEqual, OpNotEqual, OpGreater, OpLess, OpEqual} {
		if rest, ok := strings.CutPrefix(criteria, string(op)); ok {
			if rest == "" {
				return "", "", fmt.Errorf("missing value after %s", op)
			}
			return op, rest, nil
		}
	}
	if criteria == "" {
		return "", "", fmt.Errorf("missing value")
	}
	return OpEqual, criteria, nil
}
