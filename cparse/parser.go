package cparse

import (
	"fmt"
	"strings"

	"github.com/wardcheck/ward/cast"
)

// Parse turns the preprocessed contents of a single translation unit
// into a *cast.TranslationUnit. filename seeds the position of any
// tokens that precede the first line marker the preprocessor emits.
func Parse(filename string, src []byte) (*cast.TranslationUnit, error) {
	toks, err := tokenize(filename, string(src))
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks, typedefNames: map[string]bool{}}
	var decls []*cast.FuncDecl
	for p.cur().kind != tEOF {
		d, matched, err := p.tryFuncDecl()
		if err != nil {
			return nil, err
		}
		if matched {
			if d != nil {
				decls = append(decls, d)
			}
			continue
		}
		p.skipNonFuncDecl()
	}
	return &cast.TranslationUnit{Decls: decls}, nil
}

type parser struct {
	toks         []token
	pos          int
	typedefNames map[string]bool
}

func (p *parser) cur() token { return p.toks[p.pos] }

func (p *parser) peekAt(off int) token {
	i := p.pos + off
	if i >= len(p.toks) {
		return p.toks[len(p.toks)-1] // EOF
	}
	return p.toks[i]
}

func (p *parser) advance() token {
	t := p.toks[p.pos]
	if t.kind != tEOF {
		p.pos++
	}
	return t
}

func (p *parser) isPunct(s string) bool {
	t := p.cur()
	return t.kind == tPunct && t.text == s
}

func (p *parser) expectPunct(s string) error {
	if !p.isPunct(s) {
		t := p.cur()
		return fmt.Errorf("%s: expected %q, found %q", t.pos, s, t.text)
	}
	p.advance()
	return nil
}

func (p *parser) expectIdent() (token, error) {
	t := p.cur()
	if t.kind != tIdent {
		return token{}, fmt.Errorf("%s: expected an identifier, found %q", t.pos, t.text)
	}
	return p.advance(), nil
}

var typeKeywords = map[string]bool{
	"void": true, "char": true, "short": true, "int": true, "long": true,
	"float": true, "double": true, "signed": true, "unsigned": true,
	"_Bool": true, "bool": true, "struct": true, "union": true, "enum": true,
	"const": true, "volatile": true, "static": true, "register": true,
	"auto": true, "extern": true, "inline": true, "restrict": true,
	"_Atomic": true, "typedef": true, "_Noreturn": true, "complex": true,
}

func (p *parser) isTypeStart(word string) bool {
	return typeKeywords[word] || p.typedefNames[word]
}

func (p *parser) looksLikeType(off int) bool {
	t := p.peekAt(off)
	return t.kind == tIdent && p.isTypeStart(t.text)
}

// ---- top-level declarations ----

// tryFuncDecl attempts to parse a function declaration or definition
// starting at the current position. It never leaves the cursor mid-way
// through a non-function construct: on a non-match it rewinds to where
// it started so the caller can fall back to skipNonFuncDecl.
func (p *parser) tryFuncDecl() (*cast.FuncDecl, bool, error) {
	start := p.pos
	var specAttrs, declAttrs []cast.RawAttribute
	storage := cast.StorageExtern
	var nameTok token
	haveName := false

	for {
		t := p.cur()
		switch {
		case t.kind == tEOF:
			p.pos = start
			return nil, false, nil
		case t.kind == tPunct && (t.text == ";" || t.text == "{"):
			p.pos = start
			return nil, false, nil
		case t.kind == tIdent && t.text == "typedef":
			p.pos = start
			return nil, false, nil
		case t.kind == tIdent && t.text == "static":
			storage = cast.StorageStatic
			p.advance()
		case t.kind == tIdent && t.text == "__attribute__":
			attrs, err := p.parseGNUAttribute()
			if err != nil {
				return nil, false, err
			}
			specAttrs = append(specAttrs, attrs...)
		case t.kind == tPunct && t.text == "[" && p.peekAt(1).kind == tPunct && p.peekAt(1).text == "[":
			attrs, err := p.parseBracketAttribute()
			if err != nil {
				return nil, false, err
			}
			specAttrs = append(specAttrs, attrs...)
		case t.kind == tPunct && t.text == "(":
			if !haveName {
				p.pos = start
				return nil, false, nil
			}
			goto paramsFound
		case t.kind == tIdent:
			nameTok = t
			haveName = true
			p.advance()
		default:
			p.advance()
		}
	}

paramsFound:
	p.skipBalancedParens()

	for {
		if p.cur().kind == tIdent && p.cur().text == "__attribute__" {
			attrs, err := p.parseGNUAttribute()
			if err != nil {
				return nil, false, err
			}
			declAttrs = append(declAttrs, attrs...)
			continue
		}
		if p.isPunct("[") && p.peekAt(1).kind == tPunct && p.peekAt(1).text == "[" {
			attrs, err := p.parseBracketAttribute()
			if err != nil {
				return nil, false, err
			}
			declAttrs = append(declAttrs, attrs...)
			continue
		}
		break
	}

	switch {
	case p.isPunct(";"):
		p.advance()
		return &cast.FuncDecl{
			Name: nameTok.text, Position: nameTok.pos, Storage: storage,
			SpecifierAttributes: specAttrs, DeclaratorAttributes: declAttrs,
		}, true, nil
	case p.isPunct("{"):
		block, err := p.parseBlock()
		if err != nil {
			return nil, false, err
		}
		return &cast.FuncDecl{
			Name: nameTok.text, Position: nameTok.pos, Storage: storage,
			SpecifierAttributes: specAttrs, DeclaratorAttributes: declAttrs, Body: block,
		}, true, nil
	default:
		// K&R-style parameter declarations between the parameter list and
		// the body; skip to whichever of '{' or ';' shows up first.
		for {
			t := p.cur()
			if t.kind == tEOF {
				p.pos = start
				return nil, false, nil
			}
			if t.kind == tPunct && t.text == "{" {
				break
			}
			if t.kind == tPunct && t.text == ";" {
				p.pos = start
				return nil, false, nil
			}
			p.advance()
		}
		block, err := p.parseBlock()
		if err != nil {
			return nil, false, err
		}
		return &cast.FuncDecl{
			Name: nameTok.text, Position: nameTok.pos, Storage: storage,
			SpecifierAttributes: specAttrs, DeclaratorAttributes: declAttrs, Body: block,
		}, true, nil
	}
}

// skipNonFuncDecl consumes one top-level construct that tryFuncDecl
// declined (a type/variable declaration, a struct/union/enum/typedef, or
// a stray semicolon), so the driving loop in Parse always makes progress.
func (p *parser) skipNonFuncDecl() {
	if p.cur().text == "typedef" {
		p.parseDeclAsOpaque(true)
		return
	}
	depth := 0
	for {
		t := p.cur()
		if t.kind == tEOF {
			return
		}
		if t.kind == tPunct {
			switch t.text {
			case "(", "[", "{":
				depth++
			case ")", "]", "}":
				if depth == 0 {
					p.advance()
					return
				}
				depth--
			case ";":
				if depth == 0 {
					p.advance()
					return
				}
			}
		}
		p.advance()
	}
}

func (p *parser) skipBalancedParens() {
	depth := 0
	for {
		t := p.cur()
		if t.kind == tEOF {
			return
		}
		if t.kind == tPunct {
			switch t.text {
			case "(":
				depth++
			case ")":
				depth--
				if depth == 0 {
					p.advance()
					return
				}
			}
		}
		p.advance()
	}
}

// ---- attributes ----

func (p *parser) parseGNUAttribute() ([]cast.RawAttribute, error) {
	p.advance() // __attribute__
	if err := p.expectPunct("("); err != nil {
		return nil, err
	}
	if err := p.expectPunct("("); err != nil {
		return nil, err
	}
	attrs, err := p.parseAttributeItems(")")
	if err != nil {
		return nil, err
	}
	if err := p.expectPunct(")"); err != nil {
		return nil, err
	}
	if err := p.expectPunct(")"); err != nil {
		return nil, err
	}
	return attrs, nil
}

func (p *parser) parseBracketAttribute() ([]cast.RawAttribute, error) {
	p.advance() // [
	p.advance() // [
	attrs, err := p.parseAttributeItems("]")
	if err != nil {
		return nil, err
	}
	if err := p.expectPunct("]"); err != nil {
		return nil, err
	}
	if err := p.expectPunct("]"); err != nil {
		return nil, err
	}
	return attrs, nil
}

func (p *parser) parseAttributeItems(closer string) ([]cast.RawAttribute, error) {
	var attrs []cast.RawAttribute
	for !p.isPunct(closer) {
		text, pos, err := p.captureAttributeItem(closer)
		if err != nil {
			return nil, err
		}
		if text != "" {
			attrs = append(attrs, cast.RawAttribute{Position: pos, Text: text})
		}
		if p.isPunct(",") {
			p.advance()
			continue
		}
		break
	}
	return attrs, nil
}

// captureAttributeItem reconstructs the source text of a single
// attribute (e.g. "ward(need(lock))") by concatenating token text up to
// the next top-level comma or closer.
func (p *parser) captureAttributeItem(closer string) (string, cast.Position, error) {
	pos := p.cur().pos
	var b strings.Builder
	depth := 0
	for {
		t := p.cur()
		if t.kind == tEOF {
			return "", pos, fmt.Errorf("%s: unterminated attribute", pos)
		}
		if t.kind == tPunct {
			switch t.text {
			case "(":
				depth++
			case ")":
				if depth == 0 {
					return b.String(), pos, nil
				}
				depth--
			case ",":
				if depth == 0 {
					return b.String(), pos, nil
				}
			default:
				if depth == 0 && t.text == closer {
					return b.String(), pos, nil
				}
			}
		}
		b.WriteString(t.text)
		p.advance()
	}
}

// ---- statements ----

func (p *parser) parseBlock() (*cast.Block, error) {
	if err := p.expectPunct("{"); err != nil {
		return nil, err
	}
	var stmts []cast.Stmt
	for !p.isPunct("}") {
		if p.cur().kind == tEOF {
			return nil, fmt.Errorf("%s: unterminated block", p.cur().pos)
		}
		s, err := p.parseStmt()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, s)
	}
	p.advance() // }
	return &cast.Block{Stmts: stmts}, nil
}

func (p *parser) parseStmt() (cast.Stmt, error) {
	t := p.cur()
	if t.kind == tPunct && t.text == "{" {
		return p.parseBlock()
	}
	if t.kind == tPunct && t.text == ";" {
		p.advance()
		return &cast.Opaque{}, nil
	}
	if t.kind == tIdent {
		switch t.text {
		case "if":
			return p.parseIf()
		case "switch":
			return p.parseSwitch()
		case "while":
			return p.parseWhile()
		case "for":
			return p.parseFor()
		case "do":
			return p.parseDoWhile()
		case "return":
			return p.parseReturn()
		case "goto":
			p.advance()
			p.skipDeclTokens()
			if err := p.expectPunct(";"); err != nil {
				return nil, err
			}
			return &cast.Opaque{}, nil
		case "break", "continue":
			p.advance()
			if err := p.expectPunct(";"); err != nil {
				return nil, err
			}
			return &cast.Opaque{}, nil
		case "case":
			return p.parseCase()
		case "default":
			p.advance()
			if err := p.expectPunct(":"); err != nil {
				return nil, err
			}
			inner, err := p.parseStmt()
			if err != nil {
				return nil, err
			}
			return &cast.Labeled{Stmt: inner}, nil
		case "typedef":
			return p.parseDeclAsOpaque(true), nil
		}
		if p.isTypeStart(t.text) {
			return p.parseDeclAsOpaque(false), nil
		}
		if p.peekAt(1).kind == tPunct && p.peekAt(1).text == ":" {
			p.advance() // label name
			p.advance() // ':'
			inner, err := p.parseStmt()
			if err != nil {
				return nil, err
			}
			return &cast.Labeled{Stmt: inner}, nil
		}
	}
	return p.parseExprStmt()
}

func (p *parser) parseExprStmt() (cast.Stmt, error) {
	x, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if err := p.expectPunct(";"); err != nil {
		return nil, err
	}
	return &cast.ExprStmt{X: x}, nil
}

func (p *parser) parseIf() (cast.Stmt, error) {
	p.advance() // if
	if err := p.expectPunct("("); err != nil {
		return nil, err
	}
	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if err := p.expectPunct(")"); err != nil {
		return nil, err
	}
	then, err := p.parseStmt()
	if err != nil {
		return nil, err
	}
	var elseStmt cast.Stmt
	if p.cur().kind == tIdent && p.cur().text == "else" {
		p.advance()
		elseStmt, err = p.parseStmt()
		if err != nil {
			return nil, err
		}
	}
	return &cast.If{Cond: cond, Then: then, Else: elseStmt}, nil
}

func (p *parser) parseSwitch() (cast.Stmt, error) {
	p.advance() // switch
	if err := p.expectPunct("("); err != nil {
		return nil, err
	}
	tag, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if err := p.expectPunct(")"); err != nil {
		return nil, err
	}
	body, err := p.parseStmt()
	if err != nil {
		return nil, err
	}
	return &cast.Switch{Tag: tag, Body: body}, nil
}

func (p *parser) parseWhile() (cast.Stmt, error) {
	p.advance() // while
	if err := p.expectPunct("("); err != nil {
		return nil, err
	}
	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if err := p.expectPunct(")"); err != nil {
		return nil, err
	}
	body, err := p.parseStmt()
	if err != nil {
		return nil, err
	}
	return &cast.Loop{Cond: cond, Body: body}, nil
}

func (p *parser) parseFor() (cast.Stmt, error) {
	p.advance() // for
	if err := p.expectPunct("("); err != nil {
		return nil, err
	}
	var init cast.Expr
	if !p.isPunct(";") {
		if p.isTypeStart(p.cur().text) {
			p.skipDeclTokens()
		} else {
			var err error
			init, err = p.parseExpr()
			if err != nil {
				return nil, err
			}
		}
	}
	if err := p.expectPunct(";"); err != nil {
		return nil, err
	}
	var cond cast.Expr
	if !p.isPunct(";") {
		var err error
		cond, err = p.parseExpr()
		if err != nil {
			return nil, err
		}
	}
	if err := p.expectPunct(";"); err != nil {
		return nil, err
	}
	var post cast.Expr
	if !p.isPunct(")") {
		var err error
		post, err = p.parseExpr()
		if err != nil {
			return nil, err
		}
	}
	if err := p.expectPunct(")"); err != nil {
		return nil, err
	}
	body, err := p.parseStmt()
	if err != nil {
		return nil, err
	}
	return &cast.Loop{Init: init, Cond: cond, Post: post, Body: body}, nil
}

func (p *parser) parseDoWhile() (cast.Stmt, error) {
	p.advance() // do
	body, err := p.parseStmt()
	if err != nil {
		return nil, err
	}
	if p.cur().kind != tIdent || p.cur().text != "while" {
		return nil, fmt.Errorf("%s: expected 'while', found %q", p.cur().pos, p.cur().text)
	}
	p.advance()
	if err := p.expectPunct("("); err != nil {
		return nil, err
	}
	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if err := p.expectPunct(")"); err != nil {
		return nil, err
	}
	if err := p.expectPunct(";"); err != nil {
		return nil, err
	}
	return &cast.DoWhile{Body: body, Cond: cond}, nil
}

func (p *parser) parseReturn() (cast.Stmt, error) {
	p.advance() // return
	if p.isPunct(";") {
		p.advance()
		return &cast.ExprStmt{}, nil
	}
	x, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if err := p.expectPunct(";"); err != nil {
		return nil, err
	}
	return &cast.ExprStmt{X: x}, nil
}

func (p *parser) parseCase() (cast.Stmt, error) {
	p.advance() // case
	p.skipCaseExpr()
	if err := p.expectPunct(":"); err != nil {
		return nil, err
	}
	inner, err := p.parseStmt()
	if err != nil {
		return nil, err
	}
	return &cast.Labeled{Stmt: inner}, nil
}

// skipCaseExpr skips a case label's constant-expression, which the C
// grammar forbids from containing a function call, tracking nested
// ternaries so their own ':' isn't mistaken for the label terminator.
func (p *parser) skipCaseExpr() {
	depth := 0
	ternary := 0
	for {
		t := p.cur()
		if t.kind == tEOF {
			return
		}
		if t.kind == tPunct {
			switch t.text {
			case "(", "[", "{":
				depth++
			case ")", "]", "}":
				if depth == 0 {
					return
				}
				depth--
			case "?":
				if depth == 0 {
					ternary++
				}
			case ":":
				if depth == 0 {
					if ternary > 0 {
						ternary--
						p.advance()
						continue
					}
					return
				}
			}
		}
		p.advance()
	}
}

// parseDeclAsOpaque consumes a local declaration statement (a construct
// §4.2 does not enumerate, so it contributes no calls even when its
// initializer would otherwise contain one) up to its terminating ';'.
// When isTypedef, the declared name is registered so later statements
// recognize it as a type.
func (p *parser) parseDeclAsOpaque(isTypedef bool) cast.Stmt {
	lastIdent := p.skipDeclTokens()
	if p.isPunct(";") {
		p.advance()
	}
	if isTypedef && lastIdent != "" {
		p.typedefNames[lastIdent] = true
	}
	return &cast.Opaque{}
}

// skipDeclTokens advances past a declaration's tokens up to (but not
// consuming) a top-level ';', returning the last identifier seen — the
// declared name for a simple declarator.
func (p *parser) skipDeclTokens() string {
	lastIdent := ""
	depth := 0
	for {
		t := p.cur()
		if t.kind == tEOF {
			return lastIdent
		}
		if t.kind == tIdent {
			lastIdent = t.text
		}
		if t.kind == tPunct {
			switch t.text {
			case "(", "[", "{":
				depth++
			case ")", "]", "}":
				if depth == 0 {
					return lastIdent
				}
				depth--
			case ";":
				if depth == 0 {
					return lastIdent
				}
			}
		}
		p.advance()
	}
}

// ---- expressions ----

var binPrec = map[string]int{
	"||": 1, "&&": 2, "|": 3, "^": 4, "&": 5,
	"==": 6, "!=": 6,
	"<": 7, ">": 7, "<=": 7, ">=": 7,
	"<<": 8, ">>": 8,
	"+": 9, "-": 9,
	"*": 10, "/": 10, "%": 10,
}

var assignOps = map[string]bool{
	"=": true, "+=": true, "-=": true, "*=": true, "/=": true, "%=": true,
	"&=": true, "^=": true, "|=": true, "<<=": true, ">>=": true,
}

func (p *parser) parseExpr() (cast.Expr, error) {
	x, err := p.parseAssign()
	if err != nil {
		return nil, err
	}
	for p.isPunct(",") {
		p.advance()
		y, err := p.parseAssign()
		if err != nil {
			return nil, err
		}
		x = &cast.Comma{X: x, Y: y}
	}
	return x, nil
}

func (p *parser) parseAssign() (cast.Expr, error) {
	x, err := p.parseConditional()
	if err != nil {
		return nil, err
	}
	if p.cur().kind == tPunct && assignOps[p.cur().text] {
		p.advance()
		y, err := p.parseAssign()
		if err != nil {
			return nil, err
		}
		return &cast.Assign{Lhs: x, Rhs: y}, nil
	}
	return x, nil
}

func (p *parser) parseConditional() (cast.Expr, error) {
	x, err := p.parseBinary(1)
	if err != nil {
		return nil, err
	}
	if p.isPunct("?") {
		p.advance()
		then, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if err := p.expectPunct(":"); err != nil {
			return nil, err
		}
		els, err := p.parseConditional()
		if err != nil {
			return nil, err
		}
		return &cast.Ternary{Cond: x, Then: then, Else: els}, nil
	}
	return x, nil
}

func (p *parser) parseBinary(minPrec int) (cast.Expr, error) {
	x, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		t := p.cur()
		if t.kind != tPunct {
			break
		}
		prec, ok := binPrec[t.text]
		if !ok || prec < minPrec {
			break
		}
		p.advance()
		y, err := p.parseBinary(prec + 1)
		if err != nil {
			return nil, err
		}
		x = &cast.Binary{X: x, Y: y}
	}
	return x, nil
}

func (p *parser) parseUnary() (cast.Expr, error) {
	t := p.cur()
	if t.kind == tIdent && t.text == "sizeof" {
		p.advance()
		if p.isPunct("(") && p.looksLikeType(1) {
			p.advance()
			p.skipType()
			if err := p.expectPunct(")"); err != nil {
				return nil, err
			}
			return &cast.Opaque{}, nil
		}
		// sizeof does not evaluate its operand (outside VLAs), but the
		// operand still has to be parsed to consume its tokens correctly.
		if _, err := p.parseUnary(); err != nil {
			return nil, err
		}
		return &cast.Opaque{}, nil
	}
	if t.kind == tPunct {
		switch t.text {
		case "++", "--", "+", "-", "!", "~", "&", "*":
			p.advance()
			x, err := p.parseUnary()
			if err != nil {
				return nil, err
			}
			return &cast.Unary{X: x}, nil
		case "(":
			if p.looksLikeType(1) {
				save := p.pos
				p.advance()
				p.skipType()
				if p.isPunct(")") {
					p.advance()
					if !p.isPunct("{") {
						x, err := p.parseUnary()
						if err != nil {
							return nil, err
						}
						return &cast.Unary{X: x}, nil
					}
				}
				p.pos = save
			}
		}
	}
	return p.parsePostfix()
}

func (p *parser) skipType() {
	depth := 0
	for {
		t := p.cur()
		if t.kind == tEOF {
			return
		}
		if t.kind == tPunct {
			switch t.text {
			case "(":
				depth++
			case ")":
				if depth == 0 {
					return
				}
				depth--
			}
		}
		p.advance()
	}
}

func (p *parser) parsePostfix() (cast.Expr, error) {
	x, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for {
		switch {
		case p.isPunct("("):
			pos := p.cur().pos
			args, err := p.parseCallArgs()
			if err != nil {
				return nil, err
			}
			x = &cast.Call{Position: pos, Fun: x, Args: args}
		case p.isPunct("["):
			p.advance()
			sub, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			if err := p.expectPunct("]"); err != nil {
				return nil, err
			}
			x = &cast.Index{X: x, Sub: sub}
		case p.isPunct(".") || p.isPunct("->"):
			p.advance()
			name, err := p.expectIdent()
			if err != nil {
				return nil, err
			}
			x = &cast.Member{X: x, Name: name.text}
		case p.isPunct("++") || p.isPunct("--"):
			p.advance()
			x = &cast.Unary{X: x}
		default:
			return x, nil
		}
	}
}

func (p *parser) parseCallArgs() ([]cast.Expr, error) {
	p.advance() // (
	var args []cast.Expr
	if !p.isPunct(")") {
		for {
			a, err := p.parseAssign()
			if err != nil {
				return nil, err
			}
			args = append(args, a)
			if p.isPunct(",") {
				p.advance()
				continue
			}
			break
		}
	}
	if err := p.expectPunct(")"); err != nil {
		return nil, err
	}
	return args, nil
}

func (p *parser) parsePrimary() (cast.Expr, error) {
	t := p.cur()
	switch {
	case t.kind == tIdent:
		p.advance()
		return &cast.Ident{Position: t.pos, Name: t.text}, nil
	case t.kind == tNumber || t.kind == tString || t.kind == tChar:
		p.advance()
		return &cast.Opaque{}, nil
	case t.kind == tPunct && t.text == "(":
		if p.peekAt(1).kind == tPunct && p.peekAt(1).text == "{" {
			p.advance() // (
			block, err := p.parseBlock()
			if err != nil {
				return nil, err
			}
			if err := p.expectPunct(")"); err != nil {
				return nil, err
			}
			return &cast.StmtExpr{Body: block}, nil
		}
		if p.looksLikeType(1) {
			save := p.pos
			p.advance()
			p.skipType()
			if p.isPunct(")") {
				p.advance()
				if p.isPunct("{") {
					elems, err := p.parseInitList()
					if err != nil {
						return nil, err
					}
					return &cast.CompoundLiteral{Elements: elems}, nil
				}
			}
			p.pos = save
		}
		p.advance() // (
		x, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if err := p.expectPunct(")"); err != nil {
			return nil, err
		}
		return x, nil
	default:
		return nil, fmt.Errorf("%s: expected an expression, found %q", t.pos, t.text)
	}
}

func (p *parser) parseInitList() ([]cast.Expr, error) {
	if err := p.expectPunct("{"); err != nil {
		return nil, err
	}
	var elems []cast.Expr
	for !p.isPunct("}") {
		p.skipDesignator()
		var e cast.Expr
		var err error
		if p.isPunct("{") {
			nested, err := p.parseInitList()
			if err != nil {
				return nil, err
			}
			e = &cast.CompoundLiteral{Elements: nested}
		} else {
			e, err = p.parseAssign()
			if err != nil {
				return nil, err
			}
		}
		elems = append(elems, e)
		if p.isPunct(",") {
			p.advance()
			continue
		}
		break
	}
	if err := p.expectPunct("}"); err != nil {
		return nil, err
	}
	return elems, nil
}

func (p *parser) skipDesignator() {
	changed := false
	for {
		switch {
		case p.isPunct("."):
			p.advance()
			p.advance() // member name
			changed = true
		case p.isPunct("["):
			p.advance()
			depth := 1
			for depth > 0 {
				t := p.cur()
				if t.kind == tEOF {
					break
				}
				if t.kind == tPunct && t.text == "[" {
					depth++
				}
				if t.kind == tPunct && t.text == "]" {
					depth--
				}
				p.advance()
			}
			changed = true
		default:
			if changed && p.isPunct("=") {
				p.advance()
			}
			return
		}
	}
}
