// Package cparse provides one concrete implementation of the "C
// preprocessor and parser" collaborator that §1 names as external to the
// specification's core: it turns preprocessed C source text into the
// cast package's abstraction-level AST. Nothing in cast, callseq,
// namemap, callmap, or analyzer imports this package or depends on its
// choices — they only depend on the cast types, exactly as the teacher's
// own config package separates its declarative-syntax parser from the
// Config type the analyzer actually consumes.
//
// The grammar recognized here is deliberately narrower than ISO C: it
// tracks just enough structure to find function declarators and to walk
// the statement/expression shapes §4.2 enumerates, treating everything
// else (type specifiers, declarators of non-function entities, local
// declarations) as opaque token runs to skip over. A real, standards-
// compliant C front end is out of scope for the same reason the
// specification places it out of scope for the core.
package cparse

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/wardcheck/ward/cast"
)

type tokKind int

const (
	tEOF tokKind = iota
	tIdent
	tNumber
	tString
	tChar
	tPunct
)

type token struct {
	kind tokKind
	text string
	pos  cast.Position
}

// punctuation, longest match first.
var puncts = []string{
	"...", "<<=", ">>=",
	"->", "++", "--", "<<", ">>", "<=", ">=", "==", "!=", "&&", "||",
	"+=", "-=", "*=", "/=", "%=", "&=", "^=", "|=",
	"(", ")", "{", "}", "[", "]", ";", ",", ".", "?", ":", "=",
	"&", "*", "+", "-", "~", "!", "/", "%", "<", ">", "^", "|",
}

// tokenize runs the whole of src through the lexer, honoring GCC-style
// line markers (`# linenum "filename" flags`) that the preprocessor
// emits so that positions in the result point back at the original
// source file rather than the preprocessor's flattened output.
func tokenize(filename string, src string) ([]token, error) {
	l := &lexer{src: src, file: filename, line: 1}
	var out []token
	for {
		t, err := l.next()
		if err != nil {
			return nil, err
		}
		out = append(out, t)
		if t.kind == tEOF {
			return out, nil
		}
	}
}

type lexer struct {
	src        string
	pos        int
	file       string
	line       int
	atLineHead bool
}

func (l *lexer) peek(off int) byte {
	if l.pos+off >= len(l.src) {
		return 0
	}
	return l.src[l.pos+off]
}

func (l *lexer) cur() byte {
	if l.pos >= len(l.src) {
		return 0
	}
	return l.src[l.pos]
}

func (l *lexer) next() (token, error) {
	for {
		l.skipSpaceAndComments()
		if l.pos < len(l.src) && l.src[l.pos] == '#' && l.atLineStart() {
			if err := l.consumeLineMarker(); err != nil {
				return token{}, err
			}
			continue
		}
		break
	}
	pos := cast.Position{Filename: l.file, Line: l.line}
	if l.pos >= len(l.src) {
		return token{kind: tEOF, pos: pos}, nil
	}
	c := l.src[l.pos]
	switch {
	case c == '"':
		return l.scanString(pos)
	case c == '\'':
		return l.scanChar(pos)
	case isIdentStart(c):
		return l.scanIdent(pos), nil
	case c >= '0' && c <= '9', c == '.' && isDigit(l.peek(1)):
		return l.scanNumber(pos), nil
	default:
		for _, p := range puncts {
			if strings.HasPrefix(l.src[l.pos:], p) {
				l.pos += len(p)
				return token{kind: tPunct, text: p, pos: pos}, nil
			}
		}
		return token{}, fmt.Errorf("%s: unexpected character %q", pos, c)
	}
}

// atLineStart reports whether every character since the last newline (or
// start of file) has been whitespace, so a leading '#' can only be a
// preprocessor directive, never a bitwise-AND-adjacent token sequence.
func (l *lexer) atLineStart() bool {
	for i := l.pos - 1; i >= 0; i-- {
		switch l.src[i] {
		case ' ', '\t', '\r':
			continue
		case '\n':
			return true
		default:
			return false
		}
	}
	return true
}

func (l *lexer) consumeLineMarker() error {
	l.pos++ // '#'
	for l.cur() == ' ' || l.cur() == '\t' {
		l.pos++
	}
	if strings.HasPrefix(l.src[l.pos:], "line") {
		l.pos += len("line")
		for l.cur() == ' ' || l.cur() == '\t' {
			l.pos++
		}
	}
	start := l.pos
	for isDigit(l.cur()) {
		l.pos++
	}
	numText := l.src[start:l.pos]
	for l.cur() == ' ' || l.cur() == '\t' {
		l.pos++
	}
	if l.cur() == '"' {
		l.pos++
		fstart := l.pos
		for l.pos < len(l.src) && l.src[l.pos] != '"' {
			l.pos++
		}
		l.file = l.src[fstart:l.pos]
		if l.pos < len(l.src) {
			l.pos++ // closing quote
		}
	}
	for l.pos < len(l.src) && l.src[l.pos] != '\n' {
		l.pos++
	}
	if l.pos < len(l.src) {
		l.pos++ // newline
	}
	if n, err := strconv.Atoi(numText); err == nil {
		l.line = n
		return nil
	}
	l.line++
	return nil
}

func (l *lexer) skipSpaceAndComments() {
	for l.pos < len(l.src) {
		switch {
		case l.src[l.pos] == '\n':
			l.line++
			l.pos++
		case l.src[l.pos] == ' ' || l.src[l.pos] == '\t' || l.src[l.pos] == '\r' || l.src[l.pos] == '\v' || l.src[l.pos] == '\f':
			l.pos++
		case l.src[l.pos] == '/' && l.peek(1) == '/':
			for l.pos < len(l.src) && l.src[l.pos] != '\n' {
				l.pos++
			}
		case l.src[l.pos] == '/' && l.peek(1) == '*':
			l.pos += 2
			for l.pos < len(l.src) && !(l.src[l.pos] == '*' && l.peek(1) == '/') {
				if l.src[l.pos] == '\n' {
					l.line++
				}
				l.pos++
			}
			l.pos += 2
		default:
			return
		}
	}
}

func (l *lexer) scanString(pos cast.Position) (token, error) {
	start := l.pos
	l.pos++
	for l.pos < len(l.src) && l.src[l.pos] != '"' {
		if l.src[l.pos] == '\\' && l.pos+1 < len(l.src) {
			l.pos += 2
			continue
		}
		if l.src[l.pos] == '\n' {
			return token{}, fmt.Errorf("%s: unterminated string literal", pos)
		}
		l.pos++
	}
	if l.pos >= len(l.src) {
		return token{}, fmt.Errorf("%s: unterminated string literal", pos)
	}
	l.pos++
	return token{kind: tString, text: l.src[start:l.pos], pos: pos}, nil
}

func (l *lexer) scanChar(pos cast.Position) (token, error) {
	start := l.pos
	l.pos++
	for l.pos < len(l.src) && l.src[l.pos] != '\'' {
		if l.src[l.pos] == '\\' && l.pos+1 < len(l.src) {
			l.pos += 2
			continue
		}
		if l.src[l.pos] == '\n' {
			return token{}, fmt.Errorf("%s: unterminated character literal", pos)
		}
		l.pos++
	}
	if l.pos >= len(l.src) {
		return token{}, fmt.Errorf("%s: unterminated character literal", pos)
	}
	l.pos++
	return token{kind: tChar, text: l.src[start:l.pos], pos: pos}, nil
}

func (l *lexer) scanIdent(pos cast.Position) token {
	start := l.pos
	for l.pos < len(l.src) && isIdentCont(l.src[l.pos]) {
		l.pos++
	}
	return token{kind: tIdent, text: l.src[start:l.pos], pos: pos}
}

func (l *lexer) scanNumber(pos cast.Position) token {
	start := l.pos
	for l.pos < len(l.src) {
		c := l.src[l.pos]
		switch {
		case isIdentCont(c), c == '.':
			l.pos++
		case (c == '+' || c == '-') && l.pos > start && isExponentMarker(l.src[l.pos-1]):
			l.pos++
		default:
			return token{kind: tNumber, text: l.src[start:l.pos], pos: pos}
		}
	}
	return token{kind: tNumber, text: l.src[start:l.pos], pos: pos}
}

func isExponentMarker(c byte) bool { return c == 'e' || c == 'E' || c == 'p' || c == 'P' }

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentCont(c byte) bool {
	return isIdentStart(c) || isDigit(c)
}
