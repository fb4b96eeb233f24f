// Package boundary parses the compact boundary notation used on the command
// line and in edit plans: a comma separated list of tensor names, each
// optionally followed by a bracketed shape, e.g. "images:0[1,3,224,224],mask".
package boundary

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"onnxcut/internal/domain"
)

// ErrMalformed is returned for any input that does not follow the notation.
// No partial result is returned alongside it.
var ErrMalformed = errors.New("malformed boundary specification")

// Parse reads a boundary list such as "a[1,2],b,c[3]".
//
// The returned Boundary keeps names in order. Its Shapes map is nil unless at
// least one token carries a shape. An empty or all-blank string yields an empty
// Boundary.
func Parse(s string) (domain.Boundary, error) {
	var b domain.Boundary
	if strings.TrimSpace(s) == "" {
		return b, nil
	}

	p := &parser{src: []rune(s)}
	for {
		p.skipSpace()
		name, err := p.name()
		if err != nil {
			return domain.Boundary{}, err
		}
		b.Names = append(b.Names, name)

		p.skipSpace()
		if p.peek() == '[' {
			dims, err := p.shape()
			if err != nil {
				return domain.Boundary{}, err
			}
			if b.Shapes == nil {
				b.Shapes = make(map[string][]int64)
			}
			b.Shapes[name] = dims
			p.skipSpace()
		}

		if p.done() {
			return b, nil
		}
		if p.peek() != ',' {
			return domain.Boundary{}, p.errorf("unexpected %q after %q", p.peek(), name)
		}
		p.pos++
		p.skipSpace()
		if p.done() {
			// a single trailing comma is tolerated
			return b, nil
		}
	}
}

// ParseAll parses several boundary lists and concatenates them in order.
// Shapes given later for the same name replace earlier ones.
func ParseAll(specs []string) (domain.Boundary, error) {
	var out domain.Boundary
	for _, s := range specs {
		b, err := Parse(s)
		if err != nil {
			return domain.Boundary{}, err
		}
		out.Names = append(out.Names, b.Names...)
		for name, dims := range b.Shapes {
			if out.Shapes == nil {
				out.Shapes = make(map[string][]int64)
			}
			out.Shapes[name] = dims
		}
	}
	return out, nil
}

// Format renders a Boundary back into the notation accepted by Parse
func Format(b domain.Boundary) string {
	var sb strings.Builder
	for i, name := range b.Names {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(name)
		dims, ok := b.Shapes[name]
		if !ok {
			continue
		}
		sb.WriteByte('[')
		for j, d := range dims {
			if j > 0 {
				sb.WriteByte(',')
			}
			sb.WriteString(strconv.FormatInt(d, 10))
		}
		sb.WriteByte(']')
	}
	return sb.String()
}

type parser struct {
	src []rune
	pos int
}

func (p *parser) done() bool {
	return p.pos >= len(p.src)
}

func (p *parser) peek() rune {
	if p.done() {
		return 0
	}
	return p.src[p.pos]
}

func (p *parser) skipSpace() {
	for !p.done() && unicode.IsSpace(p.src[p.pos]) {
		p.pos++
	}
}

func (p *parser) errorf(format string, args ...any) error {
	return fmt.Errorf("%w: at offset %d: %s", ErrMalformed, p.pos, fmt.Sprintf(format, args...))
}

// isNameRune reports whether r may appear in a tensor name
func isNameRune(r rune) bool {
	if unicode.IsLetter(r) || unicode.IsDigit(r) {
		return true
	}
	switch r {
	case '/', '-', '.', '_', ':':
		return true
	}
	return false
}

func (p *parser) name() (string, error) {
	start := p.pos
	for !p.done() && isNameRune(p.src[p.pos]) {
		p.pos++
	}
	if p.pos == start {
		if p.done() {
			return "", p.errorf("expected a name")
		}
		return "", p.errorf("expected a name, found %q", p.peek())
	}
	return string(p.src[start:p.pos]), nil
}

func (p *parser) shape() ([]int64, error) {
	open := p.pos
	p.pos++ // '['

	dims := make([]int64, 0)
	p.skipSpace()
	if p.peek() == ']' {
		p.pos++
		return dims, nil
	}

	for {
		p.skipSpace()
		start := p.pos
		if r := p.peek(); r == '-' || r == '+' {
			p.pos++
		}
		for !p.done() && p.src[p.pos] >= '0' && p.src[p.pos] <= '9' {
			p.pos++
		}
		tok := string(p.src[start:p.pos])
		v, err := strconv.ParseInt(tok, 10, 64)
		if err != nil {
			if p.done() {
				return nil, fmt.Errorf("%w: at offset %d: unbalanced '['", ErrMalformed, open)
			}
			return nil, p.errorf("invalid dimension %q", tok+string(p.peek()))
		}
		dims = append(dims, v)

		p.skipSpace()
		switch p.peek() {
		case ',':
			p.pos++
		case ']':
			p.pos++
			return dims, nil
		case 0:
			return nil, fmt.Errorf("%w: at offset %d: unbalanced '['", ErrMalformed, open)
		default:
			return nil, p.errorf("invalid dimension character %q", p.peek())
		}
	}
}
