// Package scanner implements the indentation-sensitive lexer for Waifu
// source text: it turns a buffer into a finite token stream, synthesizing
// NEWLINE/INDENT/DEDENT tokens from whitespace the way an off-side-rule
// language's scanner does.
package scanner

import (
	"strconv"

	"github.com/waifu-lang/waifu/lang/token"
)

// ErrorSink receives lexical diagnostics as they are discovered. The scanner
// never aborts on error: it keeps scanning to EOF so that a single pass can
// surface every lexical problem in the source.
type ErrorSink interface {
	Errorf(line int, format string, args ...any)
}

// Scanner tokenizes a single source buffer.
type Scanner struct {
	text string
	err  ErrorSink

	start int // offset of the token currently being scanned
	pos   int // offset of the next unread byte
	line  int

	indentStack []int
	indentPos   int
	emptyLine   bool

	tokens []token.Token
}

// New creates a Scanner over text, reporting lexical errors to err.
func New(text string, err ErrorSink) *Scanner {
	return &Scanner{
		text:      text,
		err:       err,
		line:      1,
		emptyLine: true,
	}
}

// Scan tokenizes the whole buffer and returns the resulting token list. The
// list always ends with an EOF token, and for every INDENT it contains there
// is a matching later DEDENT (the indent stack is fully closed out at EOF).
func (s *Scanner) Scan() []token.Token {
	for !s.atEOF() {
		s.start = s.pos
		s.scanOne()
	}
	s.closeBlocks()
	s.add(token.EOF)
	return s.tokens
}

func (s *Scanner) atEOF() bool { return s.pos >= len(s.text) }

func (s *Scanner) closeBlocks() {
	for len(s.indentStack) > 0 {
		s.add(token.DEDENT)
		s.indentPos = s.indentStack[len(s.indentStack)-1]
		s.indentStack = s.indentStack[:len(s.indentStack)-1]
	}
}

func (s *Scanner) add(kind token.Kind) {
	s.tokens = append(s.tokens, token.Token{Kind: kind, Line: s.line})
}

func (s *Scanner) addIndent(kind token.Kind, col int) {
	s.tokens = append(s.tokens, token.Token{Kind: kind, Line: s.line, Indent: col})
}

func (s *Scanner) addLexeme(kind token.Kind, lexeme string) {
	s.tokens = append(s.tokens, token.Token{Kind: kind, Line: s.line, Lexeme: lexeme})
}

func (s *Scanner) addNumber(v float64) {
	s.tokens = append(s.tokens, token.Token{Kind: token.NUMBER, Line: s.line, Number: v})
}

func (s *Scanner) lastKind() token.Kind {
	if len(s.tokens) == 0 {
		return token.ILLEGAL
	}
	return s.tokens[len(s.tokens)-1].Kind
}

func (s *Scanner) errorf(format string, args ...any) {
	s.err.Errorf(s.line, format, args...)
}

func (s *Scanner) advance() byte {
	c := s.text[s.pos]
	s.pos++
	return c
}

func (s *Scanner) peek() byte {
	if s.atEOF() {
		return 0
	}
	return s.text[s.pos]
}

// match consumes the current byte if it equals want, returning whether it
// did. If mustMatch is set and it does not match, a lexical error is
// reported.
func (s *Scanner) match(want byte, mustMatch bool) bool {
	if s.atEOF() || s.peek() != want {
		if mustMatch {
			s.errorf("Expected %c but got end of input.", want)
		}
		return false
	}
	s.pos++
	return true
}

var simpleTokens = map[byte]token.Kind{
	'(': token.OP_PAR,
	')': token.CL_PAR,
	'+': token.PLUS,
	'-': token.MINUS,
	'*': token.TIMES,
	'/': token.DIVIDE,
	'.': token.DOT,
	'=': token.EQUAL,
	':': token.COLON,
	',': token.COMMA,
	'?': token.QUESTION,
	'@': token.AT,
}

func (s *Scanner) scanOne() {
	c := s.advance()
	switch {
	case c == '\n':
		s.scanNewline()
		return
	case isSpace(c):
		s.scanWhitespace()
		return
	case c == '#':
		s.scanComment()
		return
	}
	// Anything reaching here produces a real token, so the current logical
	// line is no longer empty and is owed a NEWLINE once it ends.
	s.emptyLine = false
	switch {
	case isIdentStart(c):
		s.scanIdentifier()
	case c == '"':
		s.scanString()
	case isDigit(c):
		s.scanNumber()
	default:
		if kind, ok := simpleTokens[c]; ok {
			s.add(kind)
			return
		}
		switch c {
		case '<':
			switch {
			case s.match('-', false):
				s.add(token.ASSIGNMENT)
			case s.match('=', false):
				s.add(token.LESS_EQ)
			default:
				s.add(token.LESS)
			}
		case '>':
			if s.match('=', false) {
				s.add(token.GREATER_EQ)
			} else {
				s.add(token.GREATER)
			}
		case '!':
			if s.match('=', true) {
				s.add(token.UNEQUAL)
			}
		default:
			s.errorf("Tried all automatons but none could match current character: %c.", c)
		}
	}
}

func (s *Scanner) scanIdentifier() {
	for !s.atEOF() && isIdentPart(s.peek()) {
		s.advance()
	}
	lit := s.text[s.start:s.pos]
	if kind, ok := token.Keywords[lit]; ok {
		s.add(kind)
		return
	}
	s.addLexeme(token.IDENTIFIER, lit)
}

func (s *Scanner) scanComment() {
	for !s.atEOF() && s.peek() != '\n' {
		s.advance()
	}
}

func (s *Scanner) scanString() {
	for !s.atEOF() && s.peek() != '"' {
		if s.peek() == '\n' {
			s.line++
		}
		s.advance()
	}
	if s.atEOF() {
		s.errorf("Unterminated string.")
		return
	}
	s.advance() // closing quote
	s.addLexeme(token.STRING, s.text[s.start+1:s.pos-1])
}

func (s *Scanner) scanNumber() {
	for !s.atEOF() && isDigit(s.peek()) {
		s.advance()
	}
	if !s.atEOF() && s.peek() == '.' {
		s.advance()
		for !s.atEOF() && isDigit(s.peek()) {
			s.advance()
		}
	}
	v, err := strconv.ParseFloat(s.text[s.start:s.pos], 64)
	if err != nil {
		s.errorf("Invalid number literal %q.", s.text[s.start:s.pos])
		return
	}
	s.addNumber(v)
}

func (s *Scanner) scanWhitespace() {
	for !s.atEOF() && isSpace(s.peek()) {
		s.advance()
	}
}

// scanNewline handles the newline that terminates a logical line, then
// measures the indentation of the following line and emits INDENT/DEDENT as
// needed. Blank lines and comment-only lines never affect block state.
func (s *Scanner) scanNewline() {
	// The colon check must look at the token preceding the logical line's
	// NEWLINE, not at NEWLINE itself, so it is captured before NEWLINE is
	// appended.
	colonOpener := false
	if !s.emptyLine {
		colonOpener = s.lastKind() == token.COLON
		s.add(token.NEWLINE)
	} else if n := len(s.tokens); n >= 2 && s.tokens[n-1].Kind == token.NEWLINE {
		// A blank or comment-only line emits nothing, so a block opened by
		// the last logical line is still pending: its colon sits just before
		// that line's NEWLINE.
		colonOpener = s.tokens[n-2].Kind == token.COLON
	}
	s.line++
	s.emptyLine = true

	spaces := 0
	for !s.atEOF() && s.peek() == ' ' {
		spaces++
		s.advance()
	}
	if s.atEOF() || s.peek() == '#' || s.peek() == '\n' || isSpace(s.peek()) {
		return
	}

	switch {
	case spaces > s.indentPos:
		s.handleIndent(spaces, colonOpener)
	case spaces == s.indentPos:
		s.handleSameIndent(colonOpener)
	default:
		s.handleDedent(spaces, colonOpener)
	}
}

func (s *Scanner) handleIndent(spaces int, colonOpener bool) {
	if !colonOpener {
		s.errorf("Can not indent without block creation.")
		return
	}
	s.indentStack = append(s.indentStack, s.indentPos)
	s.indentPos = spaces
	s.addIndent(token.INDENT, s.indentPos)
}

func (s *Scanner) handleSameIndent(colonOpener bool) {
	if colonOpener {
		s.errorf("Expect indentation after block creation.")
	}
}

func (s *Scanner) handleDedent(spaces int, colonOpener bool) {
	if colonOpener {
		s.errorf("Can not dedent after block creation.")
		return
	}
	for spaces < s.indentPos {
		s.add(token.DEDENT)
		if len(s.indentStack) == 0 {
			s.indentPos = 0
			break
		}
		s.indentPos = s.indentStack[len(s.indentStack)-1]
		s.indentStack = s.indentStack[:len(s.indentStack)-1]
	}
	if spaces != s.indentPos {
		s.errorf("Can not dedent to unknown indentation level.")
	}
}

func isSpace(c byte) bool { return c == ' ' || c == '\t' || c == '\r' }
func isDigit(c byte) bool { return c >= '0' && c <= '9' }
func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
func isIdentPart(c byte) bool { return isIdentStart(c) || isDigit(c) }
