// Package dejson implements a hand-written recursive-descent JSON decoder
// producing an order-preserving Value tree. It exists so that malformed
// registry payloads fail with precise line/column positions instead of the
// byte offsets of the stock decoders.
//
// Decode is pure: one transient cursor per call, no shared state, safe for
// concurrent use with distinct inputs. Streaming or partial decoding is not
// supported; the full document must be in memory.
package dejson

import (
	"fmt"
	"strconv"
	"strings"
)

// Fixed character sets reused by every Decode call.
const (
	whitespaceChars = " \t\r\n"

	// delimiterChars terminate an unquoted token (number or literal).
	delimiterChars = " \t\r\n]},"
)

// escapeChar maps characters valid after a backslash (except 'u') to the
// byte they denote.
var escapeChar = map[byte]byte{
	'"':  '"',
	'\\': '\\',
	'/':  '/',
	'b':  '\b',
	'f':  '\f',
	'n':  '\n',
	'r':  '\r',
	't':  '\t',
}

// literalValue maps unquoted keyword tokens to their values.
var literalValue = map[string]Value{
	"true":  Bool(true),
	"false": Bool(false),
	"null":  Null(),
}

// Decode parses src as exactly one JSON document. Leading and trailing
// whitespace is permitted; any other remainder after the top-level value is
// a "trailing garbage" error. On failure the returned error is a
// *SyntaxError and the Value is the zero Value: decoding is atomic, a call
// either yields one complete tree or none. The input is assumed to be valid
// UTF-8; raw bytes are not validated outside escape-sequence construction.
func Decode[S []byte | string](src S) (Value, error) {
	p := &parser{src: string(src)}
	p.skipSpace()
	if p.pos == len(p.src) {
		return Value{}, p.syntaxErr(p.pos, "unexpected end of input")
	}
	v, err := p.parseValue()
	if err != nil {
		return Value{}, err
	}
	p.skipSpace()
	if p.pos != len(p.src) {
		return Value{}, p.syntaxErr(p.pos, "trailing garbage")
	}
	return v, nil
}

// parser is the transient cursor of a single Decode call. Line/column are
// not maintained incrementally; they are derived on demand when an error is
// constructed.
type parser struct {
	src string
	pos int
}

// scan returns the offset of the first position at or after from whose
// character is a member of set, or with invert, is not a member. Returns
// len(src) as the end-of-input sentinel when no such position exists.
func (p *parser) scan(from int, set string, invert bool) int {
	for i := from; i < len(p.src); i++ {
		if (strings.IndexByte(set, p.src[i]) >= 0) != invert {
			return i
		}
	}
	return len(p.src)
}

func (p *parser) skipSpace() {
	p.pos = p.scan(p.pos, whitespaceChars, true)
}

func (p *parser) syntaxErr(off int, format string, args ...any) *SyntaxError {
	line, col := lineCol(p.src, off)
	return &SyntaxError{Msg: fmt.Sprintf(format, args...), Line: line, Col: col}
}

// parseValue dispatches on the current character to the matching grammar
// production. The caller guarantees pos < len(src).
func (p *parser) parseValue() (Value, error) {
	switch c := p.src[p.pos]; {
	case c == '"':
		return p.parseString()
	case c == '-' || (c >= '0' && c <= '9'):
		return p.parseNumber()
	case c == 't' || c == 'f' || c == 'n':
		return p.parseLiteral()
	case c == '[':
		return p.parseArray()
	case c == '{':
		return p.parseObject()
	}
	return Value{}, p.syntaxErr(p.pos, "unexpected character %q", p.src[p.pos])
}

// parseString decodes a string token starting at the opening quote.
// Unescaped spans are copied in bulk; escapes are resolved one at a time.
// A string without escapes is returned as a subslice of the input.
func (p *parser) parseString() (Value, error) {
	var b strings.Builder
	i := p.pos + 1
	start := i
	for i < len(p.src) {
		switch c := p.src[i]; {
		case c == '"':
			p.pos = i + 1
			if b.Len() == 0 {
				return String(p.src[start:i]), nil
			}
			b.WriteString(p.src[start:i])
			return String(b.String()), nil
		case c == '\\':
			b.WriteString(p.src[start:i])
			var err error
			if i, err = p.unescape(&b, i); err != nil {
				return Value{}, err
			}
			start = i
		case c < 0x20:
			return Value{}, p.syntaxErr(i, "unexpected control character in string")
		default:
			i++
		}
	}
	return Value{}, p.syntaxErr(len(p.src), "expected closing quote")
}

// unescape resolves one escape sequence beginning at the backslash at i and
// returns the offset just past it.
func (p *parser) unescape(b *strings.Builder, i int) (int, error) {
	if i+1 >= len(p.src) {
		return 0, p.syntaxErr(len(p.src), "expected closing quote")
	}
	c := p.src[i+1]
	if c == 'u' {
		return p.unescapeUnicode(b, i)
	}
	lit, ok := escapeChar[c]
	if !ok {
		return 0, p.syntaxErr(i+1, "invalid escape char %q", c)
	}
	b.WriteByte(lit)
	return i + 2, nil
}

// unescapeUnicode resolves \uXXXX, combining a UTF-16 surrogate pair into a
// single code point when a high surrogate is immediately followed by a \u
// escape holding a low surrogate. An unpaired surrogate is encoded as-is.
func (p *parser) unescapeUnicode(b *strings.Builder, i int) (int, error) {
	cp, err := p.hex4(i + 2)
	if err != nil {
		return 0, err
	}
	next := i + 6
	if cp >= 0xD800 && cp <= 0xDBFF &&
		next+1 < len(p.src) && p.src[next] == '\\' && p.src[next+1] == 'u' {
		if lo, err := p.hex4(next + 2); err == nil && lo >= 0xDC00 && lo <= 0xDFFF {
			cp = 0x10000 + ((cp - 0xD800) << 10) + (lo - 0xDC00)
			next += 6
		}
	}
	if cp > 0x10FFFF {
		return 0, p.syntaxErr(i, "invalid unicode codepoint %#x", cp)
	}
	appendRune(b, cp)
	return next, nil
}

// hex4 reads exactly 4 hex digits at off.
func (p *parser) hex4(off int) (int, error) {
	if off+4 > len(p.src) {
		return 0, p.syntaxErr(len(p.src), "expected closing quote")
	}
	v, err := strconv.ParseUint(p.src[off:off+4], 16, 32)
	if err != nil {
		return 0, p.syntaxErr(off, "invalid unicode escape %q", p.src[off:off+4])
	}
	return int(v), nil
}

// appendRune writes the UTF-8 encoding of cp using the standard 1 to 4 byte
// forms. cp must be <= 0x10FFFF.
func appendRune(b *strings.Builder, cp int) {
	switch {
	case cp <= 0x7F:
		b.WriteByte(byte(cp))
	case cp <= 0x7FF:
		b.WriteByte(0xC0 | byte(cp>>6))
		b.WriteByte(0x80 | byte(cp)&0x3F)
	case cp <= 0xFFFF:
		b.WriteByte(0xE0 | byte(cp>>12))
		b.WriteByte(0x80 | byte(cp>>6)&0x3F)
		b.WriteByte(0x80 | byte(cp)&0x3F)
	default:
		b.WriteByte(0xF0 | byte(cp>>18))
		b.WriteByte(0x80 | byte(cp>>12)&0x3F)
		b.WriteByte(0x80 | byte(cp>>6)&0x3F)
		b.WriteByte(0x80 | byte(cp)&0x3F)
	}
}

// parseNumber scans to the next delimiter and parses the token as a
// double-precision float covering the integer, fractional and exponent
// forms of the JSON grammar.
func (p *parser) parseNumber() (Value, error) {
	end := p.scan(p.pos, delimiterChars, false)
	tok := p.src[p.pos:end]
	f, err := strconv.ParseFloat(tok, 64)
	if err != nil {
		return Value{}, p.syntaxErr(p.pos, "invalid number '%s'", tok)
	}
	p.pos = end
	return Number(f), nil
}

// parseLiteral scans to the next delimiter and resolves the keyword token.
func (p *parser) parseLiteral() (Value, error) {
	end := p.scan(p.pos, delimiterChars, false)
	tok := p.src[p.pos:end]
	v, ok := literalValue[tok]
	if !ok {
		return Value{}, p.syntaxErr(p.pos, "invalid literal '%s'", tok)
	}
	p.pos = end
	return v, nil
}

// parseArray decodes an array starting at '['. A comma must be followed by
// another element; trailing commas surface as an "unexpected character"
// error from the value dispatch.
func (p *parser) parseArray() (Value, error) {
	p.pos++
	p.skipSpace()
	if p.pos < len(p.src) && p.src[p.pos] == ']' {
		p.pos++
		return Array(), nil
	}
	var elems []Value
	for {
		p.skipSpace()
		if p.pos == len(p.src) {
			return Value{}, p.syntaxErr(p.pos, "expected ']' or ','")
		}
		v, err := p.parseValue()
		if err != nil {
			return Value{}, err
		}
		elems = append(elems, v)
		p.skipSpace()
		if p.pos == len(p.src) {
			return Value{}, p.syntaxErr(p.pos, "expected ']' or ','")
		}
		switch p.src[p.pos] {
		case ',':
			p.pos++
		case ']':
			p.pos++
			return Array(elems...), nil
		default:
			return Value{}, p.syntaxErr(p.pos, "expected ']' or ','")
		}
	}
}

// parseObject decodes an object starting at '{'. Duplicate keys overwrite
// the earlier value in place (last write wins).
func (p *parser) parseObject() (Value, error) {
	p.pos++
	obj := NewObject()
	p.skipSpace()
	if p.pos < len(p.src) && p.src[p.pos] == '}' {
		p.pos++
		return obj.value(), nil
	}
	for {
		p.skipSpace()
		if p.pos == len(p.src) || p.src[p.pos] != '"' {
			return Value{}, p.syntaxErr(p.pos, "expected string for key")
		}
		key, err := p.parseString()
		if err != nil {
			return Value{}, err
		}
		p.skipSpace()
		if p.pos == len(p.src) || p.src[p.pos] != ':' {
			return Value{}, p.syntaxErr(p.pos, "expected ':' after key")
		}
		p.pos++
		p.skipSpace()
		if p.pos == len(p.src) {
			return Value{}, p.syntaxErr(p.pos, "expected '}' or ','")
		}
		v, err := p.parseValue()
		if err != nil {
			return Value{}, err
		}
		obj.Set(key.Str(), v)
		p.skipSpace()
		if p.pos == len(p.src) {
			return Value{}, p.syntaxErr(p.pos, "expected '}' or ','")
		}
		switch p.src[p.pos] {
		case ',':
			p.pos++
		case '}':
			p.pos++
			return obj.value(), nil
		default:
			return Value{}, p.syntaxErr(p.pos, "expected '}' or ','")
		}
	}
}
