// Package parser implements a hand-written recursive-descent parser for
// Accipit, producing internal/ast nodes directly — there is no separate
// concrete syntax tree, matching the grammar pinned down in the language
// spec.
package parser

import (
	"fmt"

	"github.com/stormckey/accipit/internal/ast"
	"github.com/stormckey/accipit/internal/lexer"
	"github.com/stormckey/accipit/internal/pos"
)

// Parser holds one token of lookahead over a Lexer.
type Parser struct {
	lex  *lexer.Lexer
	file string
	cur  lexer.Token
}

// Parse reads the full text of file (named name, for diagnostics) and
// returns its AST, or the first syntax error encountered.
func Parse(name string, src []byte) (*ast.Program, error) {
	p := &Parser{lex: lexer.New(name, src), file: name}
	if err := p.advance(); err != nil {
		return nil, err
	}
	return p.parseProgram()
}

func (p *Parser) advance() error {
	tok, err := p.lex.Next()
	if err != nil {
		if le, ok := err.(*lexer.Error); ok {
			return &Error{File: le.File, Pos: le.Pos, Message: le.Message, Context: le.Context}
		}
		return err
	}
	p.cur = tok
	return nil
}

func (p *Parser) errorf(format string, args ...interface{}) *Error {
	return &Error{
		File:    p.file,
		Pos:     p.cur.Pos,
		Message: fmt.Sprintf(format, args...),
		Context: p.lex.Context(p.cur.Pos),
	}
}

func (p *Parser) expect(kind lexer.Kind, what string) (lexer.Token, error) {
	if p.cur.Kind != kind {
		return lexer.Token{}, p.errorf("expected %s, got %q", what, p.cur.Text)
	}
	tok := p.cur
	if err := p.advance(); err != nil {
		return lexer.Token{}, err
	}
	return tok, nil
}

// isKeyword reports whether the current token is the bare-word keyword kw
// (the grammar reuses the `name` token class for every reserved word).
func (p *Parser) isKeyword(kw string) bool {
	return p.cur.Kind == lexer.Name && p.cur.Text == kw
}

func (p *Parser) expectKeyword(kw string) error {
	if !p.isKeyword(kw) {
		return p.errorf("expected %q, got %q", kw, p.cur.Text)
	}
	return p.advance()
}

// ---- program ----

func (p *Parser) parseProgram() (*ast.Program, error) {
	prog := &ast.Program{}
	for p.cur.Kind != lexer.EOF {
		decl, err := p.parseDecl()
		if err != nil {
			return nil, err
		}
		prog.Decls = append(prog.Decls, decl)
	}
	return prog, nil
}

func (p *Parser) parseDecl() (ast.Decl, error) {
	switch {
	case p.isKeyword("fn"):
		return p.parseFun()
	case p.cur.Kind == lexer.GlobalIdent:
		return p.parseGlobalDecl()
	default:
		return nil, p.errorf("expected a global declaration or a function, got %q", p.cur.Text)
	}
}

func (p *Parser) parseGlobalDecl() (*ast.GlobalDecl, error) {
	start := p.cur.Pos
	name, err := p.parseGlobalIdent()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.Colon, "':'"); err != nil {
		return nil, err
	}
	if err := p.expectKeyword("region"); err != nil {
		return nil, err
	}
	typ, err := p.parseType()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.Comma, "','"); err != nil {
		return nil, err
	}
	sizeTok, err := p.expect(lexer.Int, "an integer constant")
	if err != nil {
		return nil, err
	}
	decl := &ast.GlobalDecl{Name: name, Type: typ, Size: sizeTok.Value, Pos: start}

	if p.cur.Kind == lexer.Equals {
		if err := p.advance(); err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.LBracket, "'['"); err != nil {
			return nil, err
		}
		vals, err := p.parseValueList()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.RBracket, "']'"); err != nil {
			return nil, err
		}
		decl.Init = vals
	}
	return decl, nil
}

func (p *Parser) parseValueList() ([]ast.Value, error) {
	var vals []ast.Value
	v, err := p.parseValue()
	if err != nil {
		return nil, err
	}
	vals = append(vals, v)
	for p.cur.Kind == lexer.Comma {
		if err := p.advance(); err != nil {
			return nil, err
		}
		v, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		vals = append(vals, v)
	}
	return vals, nil
}

func (p *Parser) parseFun() (ast.Decl, error) {
	start := p.cur.Pos
	if err := p.advance(); err != nil { // consume 'fn'
		return nil, err
	}
	name, err := p.parseGlobalIdent()
	if err != nil {
		return nil, err
	}
	var params []ast.Parameter
	if p.cur.Kind == lexer.Unit {
		// An empty parameter list `()` arrives as a single Unit token.
		if err := p.advance(); err != nil {
			return nil, err
		}
	} else {
		if _, err := p.expect(lexer.LParen, "'('"); err != nil {
			return nil, err
		}
		params, err = p.parsePList()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.RParen, "')'"); err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(lexer.Arrow, "'->'"); err != nil {
		return nil, err
	}
	ret, err := p.parseType()
	if err != nil {
		return nil, err
	}

	if p.cur.Kind == lexer.Semi {
		if err := p.advance(); err != nil {
			return nil, err
		}
		return &ast.FunDecl{Name: name, Params: params, Ret: ret, Pos: start}, nil
	}

	blocks, err := p.parseBody()
	if err != nil {
		return nil, err
	}
	return &ast.FunDefn{Name: name, Params: params, Ret: ret, Blocks: blocks, Pos: start}, nil
}

func (p *Parser) parsePList() ([]ast.Parameter, error) {
	var params []ast.Parameter
	if p.cur.Kind != lexer.ParamIdent {
		return params, nil
	}
	for {
		pname, err := p.parseParamIdent()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.Colon, "':'"); err != nil {
			return nil, err
		}
		typ, err := p.parseType()
		if err != nil {
			return nil, err
		}
		params = append(params, ast.Parameter{Name: pname, Type: typ})
		if p.cur.Kind != lexer.Comma {
			break
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
	}
	return params, nil
}

func (p *Parser) parseBody() ([]*ast.BasicBlock, error) {
	if _, err := p.expect(lexer.LBrace, "'{'"); err != nil {
		return nil, err
	}
	var blocks []*ast.BasicBlock
	for p.cur.Kind == lexer.LocalIdent {
		bb, err := p.parseBB()
		if err != nil {
			return nil, err
		}
		blocks = append(blocks, bb)
	}
	if _, err := p.expect(lexer.RBrace, "'}'"); err != nil {
		return nil, err
	}
	return blocks, nil
}

func (p *Parser) parseBB() (*ast.BasicBlock, error) {
	label, err := p.parseLocalIdent()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.Colon, "':'"); err != nil {
		return nil, err
	}
	bb := &ast.BasicBlock{Label: label}
	for p.isKeyword("let") {
		binding, err := p.parseBinding()
		if err != nil {
			return nil, err
		}
		bb.Bindings = append(bb.Bindings, binding)
	}
	term, err := p.parseTerminator()
	if err != nil {
		return nil, err
	}
	bb.Term = term
	return bb, nil
}

func (p *Parser) parseBinding() (*ast.ValueBinding, error) {
	start := p.cur.Pos
	if err := p.expectKeyword("let"); err != nil {
		return nil, err
	}
	name, err := p.parseIdent()
	if err != nil {
		return nil, err
	}
	binding := &ast.ValueBinding{Name: name, Pos: start}
	if p.cur.Kind == lexer.Colon {
		if err := p.advance(); err != nil {
			return nil, err
		}
		typ, err := p.parseType()
		if err != nil {
			return nil, err
		}
		binding.Type = typ
	}
	if _, err := p.expect(lexer.Equals, "'='"); err != nil {
		return nil, err
	}
	op, err := p.parseOp()
	if err != nil {
		return nil, err
	}
	binding.Op = op
	return binding, nil
}

var binOps = map[string]ast.BinOp{
	"add": ast.OpAdd, "sub": ast.OpSub, "mul": ast.OpMul, "div": ast.OpDiv,
	"rem": ast.OpRem, "and": ast.OpAnd, "or": ast.OpOr, "xor": ast.OpXor,
	"eq": ast.OpEq, "ne": ast.OpNe, "lt": ast.OpLt, "le": ast.OpLe,
	"gt": ast.OpGt, "ge": ast.OpGe,
}

func (p *Parser) parseOp() (ast.Op, error) {
	start := p.cur.Pos
	if p.cur.Kind == lexer.Name {
		if binop, ok := binOps[p.cur.Text]; ok {
			if err := p.advance(); err != nil {
				return nil, err
			}
			v1, err := p.parseValue()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(lexer.Comma, "','"); err != nil {
				return nil, err
			}
			v2, err := p.parseValue()
			if err != nil {
				return nil, err
			}
			return &ast.BinExpr{Op: binop, V1: v1, V2: v2, Pos: start}, nil
		}
		switch p.cur.Text {
		case "alloca":
			return p.parseAlloca(start)
		case "load":
			return p.parseLoad(start)
		case "store":
			return p.parseStore(start)
		case "offset":
			return p.parseGep(start)
		case "call":
			return p.parseCall(start)
		}
	}
	return nil, p.errorf("expected a binary operator, alloca, load, store, offset, or call, got %q", p.cur.Text)
}

func (p *Parser) parseAlloca(start pos.Position) (ast.Op, error) {
	if err := p.advance(); err != nil { // 'alloca'
		return nil, err
	}
	typ, err := p.parseType()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.Comma, "','"); err != nil {
		return nil, err
	}
	size, err := p.expect(lexer.Int, "an integer constant")
	if err != nil {
		return nil, err
	}
	return &ast.Alloca{Type: typ, Size: size.Value, Pos: start}, nil
}

func (p *Parser) parseLoad(start pos.Position) (ast.Op, error) {
	if err := p.advance(); err != nil { // 'load'
		return nil, err
	}
	ptr, err := p.parseIdent()
	if err != nil {
		return nil, err
	}
	return &ast.Load{Ptr: ptr, Pos: start}, nil
}

func (p *Parser) parseStore(start pos.Position) (ast.Op, error) {
	if err := p.advance(); err != nil { // 'store'
		return nil, err
	}
	v, err := p.parseValue()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.Comma, "','"); err != nil {
		return nil, err
	}
	ptr, err := p.parseIdent()
	if err != nil {
		return nil, err
	}
	return &ast.Store{Value: v, Ptr: ptr, Pos: start}, nil
}

func (p *Parser) parseGep(start pos.Position) (ast.Op, error) {
	if err := p.advance(); err != nil { // 'offset'
		return nil, err
	}
	typ, err := p.parseType()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.Comma, "','"); err != nil {
		return nil, err
	}
	ptr, err := p.parseIdent()
	if err != nil {
		return nil, err
	}
	gep := &ast.Gep{Type: typ, Ptr: ptr, Pos: start}
	for p.cur.Kind == lexer.Comma {
		if err := p.advance(); err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.LBracket, "'['"); err != nil {
			return nil, err
		}
		idx, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.Lt, "'<'"); err != nil {
			return nil, err
		}
		var dim *int32
		if p.isKeyword("none") {
			if err := p.advance(); err != nil {
				return nil, err
			}
		} else {
			tok, err := p.expect(lexer.Int, "an integer constant or 'none'")
			if err != nil {
				return nil, err
			}
			v := tok.Value
			dim = &v
		}
		if _, err := p.expect(lexer.RBracket, "']'"); err != nil {
			return nil, err
		}
		gep.Dims = append(gep.Dims, ast.GepDim{Index: idx, Dim: dim})
	}
	if len(gep.Dims) == 0 {
		return nil, p.errorf("offset requires at least one [i < d] dimension")
	}
	return gep, nil
}

func (p *Parser) parseCall(start pos.Position) (ast.Op, error) {
	if err := p.advance(); err != nil { // 'call'
		return nil, err
	}
	fn, err := p.parseGlobalIdent()
	if err != nil {
		return nil, err
	}
	call := &ast.Call{Fn: fn, Pos: start}
	for p.cur.Kind == lexer.Comma {
		if err := p.advance(); err != nil {
			return nil, err
		}
		v, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		call.Args = append(call.Args, v)
	}
	return call, nil
}

func (p *Parser) parseTerminator() (ast.Terminator, error) {
	start := p.cur.Pos
	switch {
	case p.isKeyword("br"):
		if err := p.advance(); err != nil {
			return nil, err
		}
		cond, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.Comma, "','"); err != nil {
			return nil, err
		}
		t, err := p.parseLabelRef()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.Comma, "','"); err != nil {
			return nil, err
		}
		f, err := p.parseLabelRef()
		if err != nil {
			return nil, err
		}
		return &ast.Br{Cond: cond, True: t, False: f, Pos: start}, nil

	case p.isKeyword("jmp"):
		if err := p.advance(); err != nil {
			return nil, err
		}
		target, err := p.parseLabelRef()
		if err != nil {
			return nil, err
		}
		return &ast.Jmp{Target: target, Pos: start}, nil

	case p.isKeyword("ret"):
		if err := p.advance(); err != nil {
			return nil, err
		}
		v, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		return &ast.Ret{Value: v, Pos: start}, nil
	}
	return nil, p.errorf("expected a terminator (br, jmp, or ret), got %q", p.cur.Text)
}

func (p *Parser) parseLabelRef() (ast.Ident, error) {
	if err := p.expectKeyword("label"); err != nil {
		return ast.Ident{}, err
	}
	return p.parseLocalIdent()
}

// ---- values, types, idents ----

func (p *Parser) parseValue() (ast.Value, error) {
	switch p.cur.Kind {
	case lexer.GlobalIdent, lexer.ParamIdent, lexer.LocalIdent:
		return p.parseIdent()
	case lexer.Int:
		v := p.cur.Value
		if err := p.advance(); err != nil {
			return nil, err
		}
		return ast.IntConst{Value: v}, nil
	case lexer.Unit:
		if err := p.advance(); err != nil {
			return nil, err
		}
		return ast.UnitConst{}, nil
	case lexer.Name:
		if p.cur.Text == "none" {
			if err := p.advance(); err != nil {
				return nil, err
			}
			return ast.NoneConst{}, nil
		}
	}
	return nil, p.errorf("expected a value, got %q", p.cur.Text)
}

func (p *Parser) parseIdent() (ast.Ident, error) {
	switch p.cur.Kind {
	case lexer.GlobalIdent:
		return p.parseGlobalIdent()
	case lexer.ParamIdent:
		return p.parseParamIdent()
	case lexer.LocalIdent:
		return p.parseLocalIdent()
	}
	return ast.Ident{}, p.errorf("expected an identifier, got %q", p.cur.Text)
}

func (p *Parser) parseGlobalIdent() (ast.Ident, error) {
	tok, err := p.expect(lexer.GlobalIdent, "a global identifier (@...)")
	if err != nil {
		return ast.Ident{}, err
	}
	return ast.Ident{Region: ast.Global, Name: tok.Text}, nil
}

func (p *Parser) parseParamIdent() (ast.Ident, error) {
	tok, err := p.expect(lexer.ParamIdent, "a parameter identifier (#...)")
	if err != nil {
		return ast.Ident{}, err
	}
	return ast.Ident{Region: ast.Param, Name: tok.Text}, nil
}

func (p *Parser) parseLocalIdent() (ast.Ident, error) {
	tok, err := p.expect(lexer.LocalIdent, "a local identifier (%...)")
	if err != nil {
		return ast.Ident{}, err
	}
	return ast.Ident{Region: ast.Local, Name: tok.Text}, nil
}

func (p *Parser) parseType() (ast.Type, error) {
	var base ast.Type
	switch {
	case p.cur.Kind == lexer.Unit:
		if err := p.advance(); err != nil {
			return nil, err
		}
		base = ast.UnitType{}
	case p.isKeyword("i32"):
		if err := p.advance(); err != nil {
			return nil, err
		}
		base = ast.I32Type{}
	case p.isKeyword("fn"):
		if err := p.advance(); err != nil {
			return nil, err
		}
		var params []ast.Type
		if p.cur.Kind == lexer.Unit {
			// `fn() -> T`: the empty list arrives as a single Unit token.
			if err := p.advance(); err != nil {
				return nil, err
			}
		} else {
			if _, err := p.expect(lexer.LParen, "'('"); err != nil {
				return nil, err
			}
			if p.cur.Kind != lexer.RParen {
				for {
					t, err := p.parseType()
					if err != nil {
						return nil, err
					}
					params = append(params, t)
					if p.cur.Kind != lexer.Comma {
						break
					}
					if err := p.advance(); err != nil {
						return nil, err
					}
				}
			}
			if _, err := p.expect(lexer.RParen, "')'"); err != nil {
				return nil, err
			}
		}
		if _, err := p.expect(lexer.Arrow, "'->'"); err != nil {
			return nil, err
		}
		ret, err := p.parseType()
		if err != nil {
			return nil, err
		}
		base = ast.FuncType{Params: params, Ret: ret}
	default:
		return nil, p.errorf("expected a type, got %q", p.cur.Text)
	}
	for p.cur.Kind == lexer.Star {
		if err := p.advance(); err != nil {
			return nil, err
		}
		base = ast.PointerType{Elem: base}
	}
	return base, nil
}
