// Package parser implements a small hand-written lexer and
// recursive-descent parser for the SELECT dialect: keyword-table
// dispatch for tokens, single-pass byte scanning over the input.
// Keywords are case-insensitive; identifiers are case-sensitive.
package parser

import (
	"fmt"
	"strings"

	"github.com/celect/celect/internal/celecterr"
)

type tokenKind int

const (
	tEOF tokenKind = iota
	tIdent
	tNumber
	tString // single-quoted
	tStar
	tComma
	tLParen
	tRParen
	tEq
	tNeq
	tLt
	tLte
	tGt
	tGte

	// keywords
	tSelect
	tFrom
	tWhere
	tLimit
	tOffset
	tAnd
	tOr
	tNot
	tCount
	tNull
	tTrue
	tFalse
)

var keywords = map[string]tokenKind{
	"select": tSelect,
	"from":   tFrom,
	"where":  tWhere,
	"limit":  tLimit,
	"offset": tOffset,
	"and":    tAnd,
	"or":     tOr,
	"not":    tNot,
	"count":  tCount,
	"null":   tNull,
	"true":   tTrue,
	"false":  tFalse,
}

type token struct {
	kind tokenKind
	text string // raw text for idents/numbers; unescaped content for strings
}

type lexer struct {
	src string
	pos int
}

func newLexer(src string) *lexer { return &lexer{src: src} }

func (l *lexer) peekByte() byte {
	if l.pos >= len(l.src) {
		return 0
	}
	return l.src[l.pos]
}

func (l *lexer) skipSpace() {
	for l.pos < len(l.src) {
		c := l.src[l.pos]
		if c == ' ' || c == '\t' || c == '\n' || c == '\r' {
			l.pos++
			continue
		}
		break
	}
}

// next returns the next token, or a celecterr.Parse error for malformed
// SQL text.
func (l *lexer) next() (token, error) {
	l.skipSpace()
	if l.pos >= len(l.src) {
		return token{kind: tEOF}, nil
	}

	c := l.src[l.pos]

	switch {
	case c == '*':
		l.pos++
		return token{kind: tStar, text: "*"}, nil
	case c == ',':
		l.pos++
		return token{kind: tComma, text: ","}, nil
	case c == '(':
		l.pos++
		return token{kind: tLParen, text: "("}, nil
	case c == ')':
		l.pos++
		return token{kind: tRParen, text: ")"}, nil
	case c == '=':
		l.pos++
		return token{kind: tEq, text: "="}, nil
	case c == '!':
		if l.pos+1 < len(l.src) && l.src[l.pos+1] == '=' {
			l.pos += 2
			return token{kind: tNeq, text: "!="}, nil
		}
		return token{}, celecterr.New(celecterr.Parse, fmt.Sprintf("unexpected character %q", c))
	case c == '<':
		if l.pos+1 < len(l.src) && l.src[l.pos+1] == '>' {
			l.pos += 2
			return token{kind: tNeq, text: "<>"}, nil
		}
		if l.pos+1 < len(l.src) && l.src[l.pos+1] == '=' {
			l.pos += 2
			return token{kind: tLte, text: "<="}, nil
		}
		l.pos++
		return token{kind: tLt, text: "<"}, nil
	case c == '>':
		if l.pos+1 < len(l.src) && l.src[l.pos+1] == '=' {
			l.pos += 2
			return token{kind: tGte, text: ">="}, nil
		}
		l.pos++
		return token{kind: tGt, text: ">"}, nil
	case c == '\'':
		return l.lexString()
	case isDigit(c) || (c == '-' && l.pos+1 < len(l.src) && isDigit(l.src[l.pos+1])):
		return l.lexNumber()
	case isIdentStart(c):
		return l.lexIdentOrKeyword()
	default:
		return token{}, celecterr.New(celecterr.Parse, fmt.Sprintf("unexpected character %q", c))
	}
}

// lexString reads a single-quoted string literal. Celect's SQL dialect
// reserves the CSV double-quote for field quoting, so the string
// delimiter here is strictly '.
func (l *lexer) lexString() (token, error) {
	start := l.pos
	l.pos++ // skip opening quote
	var sb strings.Builder
	for {
		if l.pos >= len(l.src) {
			return token{}, celecterr.New(celecterr.Parse, fmt.Sprintf("unterminated string starting at %d", start))
		}
		c := l.src[l.pos]
		if c == '\'' {
			// Doubled '' is an escaped quote inside the string.
			if l.pos+1 < len(l.src) && l.src[l.pos+1] == '\'' {
				sb.WriteByte('\'')
				l.pos += 2
				continue
			}
			l.pos++
			break
		}
		sb.WriteByte(c)
		l.pos++
	}
	return token{kind: tString, text: sb.String()}, nil
}

func (l *lexer) lexNumber() (token, error) {
	start := l.pos
	if l.src[l.pos] == '-' {
		l.pos++
	}
	for l.pos < len(l.src) && isDigit(l.src[l.pos]) {
		l.pos++
	}
	if l.pos < len(l.src) && l.src[l.pos] == '.' {
		l.pos++
		for l.pos < len(l.src) && isDigit(l.src[l.pos]) {
			l.pos++
		}
	}
	return token{kind: tNumber, text: l.src[start:l.pos]}, nil
}

func (l *lexer) lexIdentOrKeyword() (token, error) {
	start := l.pos
	for l.pos < len(l.src) && isIdentPart(l.src[l.pos]) {
		l.pos++
	}
	text := l.src[start:l.pos]
	if kind, ok := keywords[strings.ToLower(text)]; ok {
		return token{kind: kind, text: text}, nil
	}
	return token{kind: tIdent, text: text}, nil
}

func isDigit(c byte) bool      { return c >= '0' && c <= '9' }
func isIdentStart(c byte) bool { return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') }
func isIdentPart(c byte) bool  { return isIdentStart(c) || isDigit(c) }
