package typesystem

import "unicode"

// Parse reads a type expression:
//
//	int | bool | string | void | ClassName
//	list(int, name: bool, list(string))
//	fptr(int, bool -> void)
func Parse(s string) (Type, error) {
	p := &typeParser{src: s}
	t, err := p.parseType()
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if p.pos != len(p.src) {
		return nil, newSyntaxError(s, p.pos, "unexpected %q", p.src[p.pos:])
	}
	return t, nil
}

// MustParse is Parse for literals known to be valid.
func MustParse(s string) Type {
	t, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return t
}

type typeParser struct {
	src string
	pos int
}

func (p *typeParser) skipSpace() {
	for p.pos < len(p.src) && unicode.IsSpace(rune(p.src[p.pos])) {
		p.pos++
	}
}

func (p *typeParser) ident() string {
	p.skipSpace()
	start := p.pos
	for p.pos < len(p.src) {
		c := rune(p.src[p.pos])
		if !unicode.IsLetter(c) && !unicode.IsDigit(c) && c != '_' {
			break
		}
		p.pos++
	}
	return p.src[start:p.pos]
}

func (p *typeParser) peek(s string) bool {
	p.skipSpace()
	return len(p.src)-p.pos >= len(s) && p.src[p.pos:p.pos+len(s)] == s
}

func (p *typeParser) expect(s string) error {
	if !p.peek(s) {
		return newSyntaxError(p.src, p.pos, "expected %q", s)
	}
	p.pos += len(s)
	return nil
}

func (p *typeParser) parseType() (Type, error) {
	start := p.pos
	name := p.ident()
	switch name {
	case "":
		return nil, newSyntaxError(p.src, start, "expected type")
	case "int":
		return TInt{}, nil
	case "bool":
		return TBool{}, nil
	case "string":
		return TString{}, nil
	case "void":
		return TVoid{}, nil
	case "list":
		if p.peek("(") {
			return p.parseList()
		}
	case "fptr":
		if p.peek("(") {
			return p.parseFptr()
		}
	}
	return TClass{Name: name}, nil
}

func (p *typeParser) parseList() (Type, error) {
	if err := p.expect("("); err != nil {
		return nil, err
	}
	l := TList{}
	if p.peek(")") {
		p.pos++
		return l, nil
	}
	for {
		var elem ListElement
		save := p.pos
		if name := p.ident(); name != "" && p.peek(":") {
			p.pos++
			elem.Name = name
		} else {
			p.pos = save
		}
		t, err := p.parseType()
		if err != nil {
			return nil, err
		}
		elem.Type = t
		l.Elements = append(l.Elements, elem)

		if p.peek(",") {
			p.pos++
			continue
		}
		if err := p.expect(")"); err != nil {
			return nil, err
		}
		return l, nil
	}
}

func (p *typeParser) parseFptr() (Type, error) {
	if err := p.expect("("); err != nil {
		return nil, err
	}
	f := TFptr{Params: []Type{}}
	for !p.peek("->") {
		t, err := p.parseType()
		if err != nil {
			return nil, err
		}
		f.Params = append(f.Params, t)
		if p.peek(",") {
			p.pos++
		}
	}
	p.pos += len("->")
	ret, err := p.parseType()
	if err != nil {
		return nil, err
	}
	f.Return = ret
	if err := p.expect(")"); err != nil {
		return nil, err
	}
	return f, nil
}
