// Package parser turns JSON text into a models.Value tree.
//
// The grammar is standard JSON with two deliberate restrictions: \uXXXX
// escapes are checked but collapse to a single '?' byte, and numbers are
// always read as float64. Parsing stops at the first violation; there is no
// recovery and no partial result.
package parser

import (
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/yirassssindaba-coder/asset-inventory/internal/errors"
	"github.com/yirassssindaba-coder/asset-inventory/internal/models"
)

// MaxDepth bounds container nesting so that hostile input cannot exhaust
// the stack.
const MaxDepth = 512

// ParseError reports malformed input. Reason is a short fixed description
// of what was expected.
type ParseError struct {
	Reason string
}

func (e *ParseError) Error() string {
	return "parse error: " + e.Reason
}

// Unwrap lets errors.Is match errors.ErrInvalidJSON.
func (e *ParseError) Unwrap() error { return errors.ErrInvalidJSON }

func fail(reason string) error {
	return &ParseError{Reason: reason}
}

type parser struct {
	data  string
	pos   int
	depth int
}

// ParseString parses text as a single JSON value optionally surrounded by
// whitespace. Any failure is a *ParseError.
func ParseString(text string) (models.Value, error) {
	p := &parser{data: text}
	v, err := p.value()
	if err != nil {
		return models.Value{}, err
	}
	p.skipSpace()
	if p.pos != len(p.data) {
		return models.Value{}, fail("trailing data")
	}
	return v, nil
}

// ParseBytes is ParseString for a byte slice.
func ParseBytes(data []byte) (models.Value, error) {
	return ParseString(string(data))
}

// Valid reports whether text is a single well-formed JSON value.
func Valid(text string) bool {
	_, err := ParseString(text)
	return err == nil
}

// Parse reads the whole of reader and parses it. The document must fit in
// memory; callers reading from the network cap the size first.
func Parse(reader io.Reader) (models.Value, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return models.Value{}, errors.NewInputError("failed to read JSON input", err)
	}
	if strings.TrimSpace(string(data)) == "" {
		return models.Value{}, errors.NewInputError("input is empty", errors.ErrEmptyInput)
	}
	v, err := ParseBytes(data)
	if err != nil {
		return models.Value{}, errors.NewParsingError("failed to parse JSON input", err)
	}
	return v, nil
}

// ParseFile parses the JSON document stored at filePath.
func ParseFile(filePath string) (models.Value, error) {
	if strings.TrimSpace(filePath) == "" {
		return models.Value{}, errors.NewInputError("file path is empty", errors.ErrFileNotFound)
	}
	file, err := os.Open(filePath)
	if err != nil {
		if stderrors.Is(err, os.ErrNotExist) {
			return models.Value{}, errors.NewInputError(
				fmt.Sprintf("file '%s' not found", filePath),
				errors.ErrFileNotFound,
			)
		}
		return models.Value{}, errors.NewInputError(
			fmt.Sprintf("failed to open file '%s'", filePath),
			err,
		)
	}
	defer func() {
		if err := file.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "Error closing file: %v\n", err)
		}
	}()

	return Parse(file)
}

func (p *parser) skipSpace() {
	for p.pos < len(p.data) {
		switch p.data[p.pos] {
		case ' ', '\t', '\n', '\r':
			p.pos++
		default:
			return
		}
	}
}

// peek skips whitespace and returns the next byte, or 0 at end of input.
func (p *parser) peek() byte {
	p.skipSpace()
	if p.pos >= len(p.data) {
		return 0
	}
	return p.data[p.pos]
}

func (p *parser) value() (models.Value, error) {
	switch c := p.peek(); {
	case c == '"':
		s, err := p.str()
		if err != nil {
			return models.Value{}, err
		}
		return models.StringValue(s), nil
	case c == '{':
		return p.object()
	case c == '[':
		return p.array()
	case c == 't':
		return models.BoolValue(true), p.literal("true")
	case c == 'f':
		return models.BoolValue(false), p.literal("false")
	case c == 'n':
		return models.NullValue(), p.literal("null")
	case c == '-' || isDigit(c):
		return p.number()
	default:
		return models.Value{}, fail("invalid json value")
	}
}

func (p *parser) literal(lit string) error {
	if !strings.HasPrefix(p.data[p.pos:], lit) {
		return fail("expected literal: " + lit)
	}
	p.pos += len(lit)
	return nil
}

func (p *parser) str() (string, error) {
	if p.peek() != '"' {
		return "", fail("expected string quote")
	}
	p.pos++

	var b strings.Builder
	for p.pos < len(p.data) {
		c := p.data[p.pos]
		p.pos++
		switch c {
		case '"':
			return b.String(), nil
		case '\\':
			if p.pos >= len(p.data) {
				return "", fail("unterminated string")
			}
			e := p.data[p.pos]
			p.pos++
			switch e {
			case '"', '\\', '/':
				b.WriteByte(e)
			case 'b':
				b.WriteByte('\b')
			case 'f':
				b.WriteByte('\f')
			case 'n':
				b.WriteByte('\n')
			case 'r':
				b.WriteByte('\r')
			case 't':
				b.WriteByte('\t')
			case 'u':
				for k := 0; k < 4; k++ {
					if p.pos >= len(p.data) || !isHex(p.data[p.pos]) {
						return "", fail(`bad \u escape`)
					}
					p.pos++
				}
				// code points are not decoded
				b.WriteByte('?')
			default:
				return "", fail("bad escape")
			}
		default:
			b.WriteByte(c)
		}
	}
	return "", fail("unterminated string")
}

func (p *parser) number() (models.Value, error) {
	start := p.pos
	if p.data[p.pos] == '-' {
		p.pos++
	}
	if !p.digits() {
		return models.Value{}, fail("bad number")
	}
	if p.pos < len(p.data) && p.data[p.pos] == '.' {
		p.pos++
		if !p.digits() {
			return models.Value{}, fail("bad number")
		}
	}
	if p.pos < len(p.data) && (p.data[p.pos] == 'e' || p.data[p.pos] == 'E') {
		p.pos++
		if p.pos < len(p.data) && (p.data[p.pos] == '+' || p.data[p.pos] == '-') {
			p.pos++
		}
		if !p.digits() {
			return models.Value{}, fail("bad number")
		}
	}
	f, err := strconv.ParseFloat(p.data[start:p.pos], 64)
	if err != nil {
		return models.Value{}, fail("bad number")
	}
	return models.NumberValue(f), nil
}

// digits consumes a run of decimal digits and reports whether it was
// non-empty.
func (p *parser) digits() bool {
	start := p.pos
	for p.pos < len(p.data) && isDigit(p.data[p.pos]) {
		p.pos++
	}
	return p.pos > start
}

func (p *parser) enter() error {
	p.depth++
	if p.depth > MaxDepth {
		return fail("nesting too deep")
	}
	return nil
}

func (p *parser) array() (models.Value, error) {
	p.pos++ // '['
	if err := p.enter(); err != nil {
		return models.Value{}, err
	}
	defer func() { p.depth-- }()

	var elems []models.Value
	if p.peek() == ']' {
		p.pos++
		return models.ArrayValue(), nil
	}
	for {
		v, err := p.value()
		if err != nil {
			return models.Value{}, err
		}
		elems = append(elems, v)

		c := p.peek()
		if c == 0 {
			return models.Value{}, fail("expected , or ]")
		}
		p.pos++
		if c == ']' {
			return models.ArrayValue(elems...), nil
		}
		if c != ',' {
			return models.Value{}, fail("expected , or ]")
		}
	}
}

func (p *parser) object() (models.Value, error) {
	p.pos++ // '{'
	if err := p.enter(); err != nil {
		return models.Value{}, err
	}
	defer func() { p.depth-- }()

	members := make(map[string]models.Value)
	if p.peek() == '}' {
		p.pos++
		return models.ObjectValue(members), nil
	}
	for {
		key, err := p.str()
		if err != nil {
			return models.Value{}, err
		}
		if p.peek() != ':' {
			return models.Value{}, fail("expected ':'")
		}
		p.pos++
		v, err := p.value()
		if err != nil {
			return models.Value{}, err
		}
		// a repeated key overwrites the earlier member
		members[key] = v

		c := p.peek()
		if c == 0 {
			return models.Value{}, fail("expected , or }")
		}
		p.pos++
		if c == '}' {
			return models.ObjectValue(members), nil
		}
		if c != ',' {
			return models.Value{}, fail("expected , or }")
		}
	}
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isHex(c byte) bool {
	return isDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}
