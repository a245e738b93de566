package parser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/celect/celect/internal/ast"
	"github.com/celect/celect/internal/celecterr"
)

// Parse parses sql text into a *ast.SelectStmt. Returns a
// celecterr.Parse-kind error on malformed input.
func Parse(sql string) (*ast.SelectStmt, error) {
	p := &parser{lex: newLexer(sql)}
	if err := p.advance(); err != nil {
		return nil, err
	}
	stmt, err := p.parseSelect()
	if err != nil {
		return nil, err
	}
	if p.cur.kind != tEOF {
		return nil, celecterr.New(celecterr.Parse, fmt.Sprintf("unexpected trailing input near %q", p.cur.text))
	}
	return stmt, nil
}

type parser struct {
	lex *lexer
	cur token
}

func (p *parser) advance() error {
	tok, err := p.lex.next()
	if err != nil {
		return err
	}
	p.cur = tok
	return nil
}

func (p *parser) expect(k tokenKind, what string) (token, error) {
	if p.cur.kind != k {
		return token{}, celecterr.New(celecterr.Parse, fmt.Sprintf("expected %s, got %q", what, p.cur.text))
	}
	tok := p.cur
	if err := p.advance(); err != nil {
		return token{}, err
	}
	return tok, nil
}

func (p *parser) parseSelect() (*ast.SelectStmt, error) {
	if _, err := p.expect(tSelect, "SELECT"); err != nil {
		return nil, err
	}

	items, err := p.parseSelectList()
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(tFrom, "FROM"); err != nil {
		return nil, err
	}
	from, err := p.parseFileRef()
	if err != nil {
		return nil, err
	}

	stmt := &ast.SelectStmt{Items: items, From: from}

	if p.cur.kind == tWhere {
		if err := p.advance(); err != nil {
			return nil, err
		}
		where, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		stmt.Where = where
	}

	if p.cur.kind == tLimit {
		if err := p.advance(); err != nil {
			return nil, err
		}
		n, err := p.parseIntLiteral("LIMIT")
		if err != nil {
			return nil, err
		}
		stmt.Limit, stmt.HasLim = n, true
	}

	if p.cur.kind == tOffset {
		if err := p.advance(); err != nil {
			return nil, err
		}
		n, err := p.parseIntLiteral("OFFSET")
		if err != nil {
			return nil, err
		}
		stmt.Offset, stmt.HasOff = n, true
	}

	if err := validateSelectItems(stmt.Items); err != nil {
		return nil, err
	}

	return stmt, nil
}

// validateSelectItems rejects mixing an aggregate COUNT with any other
// select item; mixed aggregate/non-aggregate projections have no
// well-defined row shape, so this is rejected at parse time rather than
// guessed at execution.
func validateSelectItems(items []ast.SelectItem) error {
	hasCount := false
	for _, it := range items {
		if it.Count {
			hasCount = true
		}
	}
	if hasCount && len(items) > 1 {
		return celecterr.New(celecterr.Plan, "COUNT cannot be combined with other select items")
	}
	return nil
}

func (p *parser) parseIntLiteral(clause string) (int, error) {
	if p.cur.kind != tNumber {
		return 0, celecterr.New(celecterr.Parse, fmt.Sprintf("expected integer after %s, got %q", clause, p.cur.text))
	}
	text := p.cur.text
	if err := p.advance(); err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(text)
	if err != nil {
		return 0, celecterr.Wrap(celecterr.Parse, fmt.Sprintf("invalid integer in %s clause", clause), err)
	}
	return n, nil
}

func (p *parser) parseFileRef() (string, error) {
	switch p.cur.kind {
	case tString:
		text := p.cur.text
		return text, p.advance()
	case tIdent:
		text := p.cur.text
		return text, p.advance()
	default:
		return "", celecterr.New(celecterr.Parse, fmt.Sprintf("expected file reference, got %q", p.cur.text))
	}
}

func (p *parser) parseSelectList() ([]ast.SelectItem, error) {
	if p.cur.kind == tStar {
		if err := p.advance(); err != nil {
			return nil, err
		}
		return []ast.SelectItem{{Star: true}}, nil
	}

	var items []ast.SelectItem
	for {
		item, err := p.parseSelectItem()
		if err != nil {
			return nil, err
		}
		items = append(items, item)
		if p.cur.kind != tComma {
			break
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
	}
	return items, nil
}

func (p *parser) parseSelectItem() (ast.SelectItem, error) {
	if p.cur.kind == tCount {
		if err := p.advance(); err != nil {
			return ast.SelectItem{}, err
		}
		if _, err := p.expect(tLParen, "("); err != nil {
			return ast.SelectItem{}, err
		}
		var col string
		if p.cur.kind == tStar {
			if err := p.advance(); err != nil {
				return ast.SelectItem{}, err
			}
		} else {
			tok, err := p.expect(tIdent, "column or *")
			if err != nil {
				return ast.SelectItem{}, err
			}
			col = tok.text
		}
		if _, err := p.expect(tRParen, ")"); err != nil {
			return ast.SelectItem{}, err
		}
		return ast.SelectItem{Count: true, CountCol: col}, nil
	}

	tok, err := p.expect(tIdent, "column name")
	if err != nil {
		return ast.SelectItem{}, err
	}
	return ast.SelectItem{ColumnRef: tok.text}, nil
}

// parseExpr implements expr := or_expr.
func (p *parser) parseExpr() (ast.Expr, error) { return p.parseOr() }

// or_expr := and_expr ('OR' and_expr)* -- left-assoc
func (p *parser) parseOr() (ast.Expr, error) {
	lhs, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.cur.kind == tOr {
		if err := p.advance(); err != nil {
			return nil, err
		}
		rhs, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		lhs = ast.Or{Lhs: lhs, Rhs: rhs}
	}
	return lhs, nil
}

// and_expr := not_expr ('AND' not_expr)* -- left-assoc
func (p *parser) parseAnd() (ast.Expr, error) {
	lhs, err := p.parseNot()
	if err != nil {
		return nil, err
	}
	for p.cur.kind == tAnd {
		if err := p.advance(); err != nil {
			return nil, err
		}
		rhs, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		lhs = ast.And{Lhs: lhs, Rhs: rhs}
	}
	return lhs, nil
}

// not_expr := 'NOT' not_expr | cmp_expr
func (p *parser) parseNot() (ast.Expr, error) {
	if p.cur.kind == tNot {
		if err := p.advance(); err != nil {
			return nil, err
		}
		inner, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		return ast.Not{Inner: inner}, nil
	}
	return p.parseCmp()
}

var cmpOps = map[tokenKind]ast.CmpOp{
	tEq:  ast.Eq,
	tNeq: ast.Neq,
	tLt:  ast.Lt,
	tLte: ast.Lte,
	tGt:  ast.Gt,
	tGte: ast.Gte,
}

// cmp_expr := prim (('='|'!='|'<>'|'<'|'<='|'>'|'>=') prim)?
func (p *parser) parseCmp() (ast.Expr, error) {
	lhs, err := p.parsePrim()
	if err != nil {
		return nil, err
	}
	if op, ok := cmpOps[p.cur.kind]; ok {
		if err := p.advance(); err != nil {
			return nil, err
		}
		rhs, err := p.parsePrim()
		if err != nil {
			return nil, err
		}
		return ast.Cmp{Op: op, Lhs: lhs, Rhs: rhs}, nil
	}
	return lhs, nil
}

// prim := column | literal | '(' expr ')'
func (p *parser) parsePrim() (ast.Expr, error) {
	switch p.cur.kind {
	case tLParen:
		if err := p.advance(); err != nil {
			return nil, err
		}
		inner, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(tRParen, ")"); err != nil {
			return nil, err
		}
		return inner, nil
	case tNull:
		return ast.Lit{Kind: ast.LitNull}, p.advance()
	case tTrue:
		return ast.Lit{Kind: ast.LitBool, Bool: true}, p.advance()
	case tFalse:
		return ast.Lit{Kind: ast.LitBool, Bool: false}, p.advance()
	case tNumber:
		text := p.cur.text
		return ast.Lit{Kind: ast.LitNumber, Num: text}, p.advance()
	case tString:
		text := p.cur.text
		return ast.Lit{Kind: ast.LitString, Str: text}, p.advance()
	case tIdent:
		text := p.cur.text
		return ast.Column{Name: text}, p.advance()
	default:
		return nil, celecterr.New(celecterr.Parse, fmt.Sprintf("expected expression, got %q", p.cur.text))
	}
}

// TrimStatement trims a trailing ';' and surrounding whitespace from one
// line of REPL input before it's handed to Parse.
func TrimStatement(line string) string {
	return strings.TrimSuffix(strings.TrimSpace(line), ";")
}
