// Package formatter writes models.Value trees back out as JSON text.
//
// Output is byte-stable: object members are emitted in lexicographic key
// order, numbers use 15 significant digits, and control characters that
// have no two-character escape are replaced by '?'.
package formatter

import (
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/yirassssindaba-coder/asset-inventory/internal/models"
)

const indentUnit = "  "

// Colorizer holds the ANSI sequences used to highlight keys and scalars.
// A nil *Colorizer disables highlighting.
type Colorizer struct {
	KeyCode    string
	ScalarCode [models.Object + 1]string
	ResetCode  string
}

// DefaultColorizer returns the palette used for terminal output.
func DefaultColorizer() *Colorizer {
	c := &Colorizer{
		KeyCode:   "\x1b[1;34m",
		ResetCode: "\x1b[0m",
	}
	c.ScalarCode[models.Null] = "\x1b[2m"
	c.ScalarCode[models.Bool] = "\x1b[33m"
	c.ScalarCode[models.Number] = "\x1b[36m"
	c.ScalarCode[models.String] = "\x1b[32m"
	return c
}

// Formatter is responsible for turning a Value into text
type Formatter struct {
	Pretty bool
	Color  *Colorizer
}

// NewFormatter creates a new Formatter instance
func NewFormatter(pretty bool) *Formatter {
	return &Formatter{Pretty: pretty}
}

// Stringify renders v as compact or pretty JSON. It never fails.
func Stringify(v models.Value, pretty bool) string {
	return NewFormatter(pretty).Format(v)
}

// Write renders v to w.
func Write(w io.Writer, v models.Value, pretty bool) error {
	_, err := io.WriteString(w, Stringify(v, pretty))
	return err
}

// Format renders v with the formatter's settings.
func (f *Formatter) Format(v models.Value) string {
	var b strings.Builder
	f.value(&b, v, 0)
	return b.String()
}

// WriteTo renders v to w with the formatter's settings.
func (f *Formatter) WriteTo(w io.Writer, v models.Value) error {
	_, err := io.WriteString(w, f.Format(v))
	return err
}

func (f *Formatter) value(b *strings.Builder, v models.Value, level int) {
	switch v.Kind() {
	case models.Null:
		f.scalar(b, models.Null, "null")
	case models.Bool:
		if v.AsBool() {
			f.scalar(b, models.Bool, "true")
		} else {
			f.scalar(b, models.Bool, "false")
		}
	case models.Number:
		f.scalar(b, models.Number, FormatNumber(v.AsNumber()))
	case models.String:
		f.scalar(b, models.String, Quote(v.AsString()))
	case models.Array:
		f.array(b, v.Elems(), level)
	case models.Object:
		f.object(b, v, level)
	}
}

func (f *Formatter) scalar(b *strings.Builder, k models.Kind, text string) {
	if f.Color == nil {
		b.WriteString(text)
		return
	}
	b.WriteString(f.Color.ScalarCode[k])
	b.WriteString(text)
	b.WriteString(f.Color.ResetCode)
}

func (f *Formatter) key(b *strings.Builder, k string) {
	if f.Color != nil {
		b.WriteString(f.Color.KeyCode)
	}
	b.WriteString(Quote(k))
	if f.Color != nil {
		b.WriteString(f.Color.ResetCode)
	}
	b.WriteByte(':')
	if f.Pretty {
		b.WriteByte(' ')
	}
}

func (f *Formatter) array(b *strings.Builder, elems []models.Value, level int) {
	b.WriteByte('[')
	if len(elems) > 0 {
		f.newline(b)
		for i, e := range elems {
			f.indent(b, level+1)
			f.value(b, e, level+1)
			if i+1 < len(elems) {
				b.WriteByte(',')
			}
			f.newline(b)
		}
		f.indent(b, level)
	}
	b.WriteByte(']')
}

func (f *Formatter) object(b *strings.Builder, v models.Value, level int) {
	keys := v.Keys()
	b.WriteByte('{')
	if len(keys) > 0 {
		f.newline(b)
		for i, k := range keys {
			f.indent(b, level+1)
			f.key(b, k)
			m, _ := v.At(k)
			f.value(b, m, level+1)
			if i+1 < len(keys) {
				b.WriteByte(',')
			}
			f.newline(b)
		}
		f.indent(b, level)
	}
	b.WriteByte('}')
}

func (f *Formatter) newline(b *strings.Builder) {
	if f.Pretty {
		b.WriteByte('\n')
	}
}

func (f *Formatter) indent(b *strings.Builder, level int) {
	if f.Pretty {
		b.WriteString(strings.Repeat(indentUnit, level))
	}
}

// FormatNumber prints f with at most 15 significant digits, switching to
// exponent form the way C's %.15g does. NaN and infinities have no JSON
// spelling and are written as null.
func FormatNumber(f float64) string {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return "null"
	}
	return strconv.FormatFloat(f, 'g', 15, 64)
}

// Quote wraps s in double quotes, escaping '"', '\\' and the control
// characters that have a short escape. Other bytes below 0x20 become '?'.
func Quote(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte('"')
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch c {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\b':
			b.WriteString(`\b`)
		case '\f':
			b.WriteString(`\f`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			if c < 0x20 {
				b.WriteByte('?')
			} else {
				b.WriteByte(c)
			}
		}
	}
	b.WriteByte('"')
	return b.String()
}
