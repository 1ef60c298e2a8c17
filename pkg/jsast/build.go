package jsast

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

// NewString creates a string literal from source text that already carries
// its quotes, e.g. NewString(`"test string"`).
func NewString(raw string) *String {
	return &String{Value: raw}
}

// Quote creates a double quoted string literal holding s.
func Quote(s string) *String {
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		case '\u2028', '\u2029':
			fmt.Fprintf(&b, `\u%04x`, r)
		default:
			if r < 0x20 || r == utf8.RuneError {
				fmt.Fprintf(&b, `\u%04x`, r)
				continue
			}
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return &String{Value: b.String()}
}

// Unquote returns the value of the string literal. Only the common escapes
// are decoded; anything else is kept as written.
func (s *String) Unquote() string {
	v := s.Value
	if len(v) < 2 {
		return v
	}
	quote := v[0]
	if (quote != '"' && quote != '\'') || v[len(v)-1] != quote {
		return v
	}
	v = v[1 : len(v)-1]
	if !strings.ContainsRune(v, '\\') {
		return v
	}

	var b strings.Builder
	for i := 0; i < len(v); i++ {
		c := v[i]
		if c != '\\' || i+1 == len(v) {
			b.WriteByte(c)
			continue
		}
		i++
		switch v[i] {
		case 'n':
			b.WriteByte('\n')
		case 'r':
			b.WriteByte('\r')
		case 't':
			b.WriteByte('\t')
		case 'u':
			if i+4 < len(v) {
				if n, err := strconv.ParseUint(v[i+1:i+5], 16, 32); err == nil {
					b.WriteRune(rune(n))
					i += 4
					continue
				}
			}
			b.WriteString(`\u`)
		default:
			b.WriteByte(v[i])
		}
	}
	return b.String()
}

// NewIdentifier creates an identifier.
func NewIdentifier(name string) *Identifier {
	return &Identifier{Name: name}
}

// NewCall creates a call of callee with args.
func NewCall(callee Node, args ...Node) *Call {
	return &Call{Callee: callee, Args: args}
}

// NewMember creates the dotted access object.property.
func NewMember(object Node, property string) *Member {
	return &Member{Object: object, Property: NewIdentifier(property)}
}

// NewExprStatement wraps expr as a statement.
func NewExprStatement(expr Node) *ExprStatement {
	return &ExprStatement{Expr: expr}
}

// NewObject creates an object literal from key/value tuples.
func NewObject(properties ...*Tuple) *Object {
	return &Object{Properties: properties}
}
