package formatter

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/andreyvit/diff"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yirassssindaba-coder/asset-inventory/internal/models"
)

func sampleDoc() models.Value {
	return models.ObjectValue(map[string]models.Value{
		"name":   models.StringValue("web-1"),
		"cores":  models.NumberValue(4),
		"active": models.BoolValue(true),
		"extra":  models.NullValue(),
		"disks": models.ArrayValue(
			models.ObjectValue(map[string]models.Value{
				"mount":    models.StringValue("/"),
				"total_gb": models.NumberValue(100),
			}),
		),
		"tags":  models.ArrayValue(),
		"attrs": models.ObjectValue(nil),
	})
}

func TestStringify_Scalars(t *testing.T) {
	tests := []struct {
		name string
		v    models.Value
		want string
	}{
		{"null", models.NullValue(), "null"},
		{"true", models.BoolValue(true), "true"},
		{"false", models.BoolValue(false), "false"},
		{"integer", models.NumberValue(42), "42"},
		{"whole float", models.NumberValue(3.0), "3"},
		{"negative", models.NumberValue(-31.25), "-31.25"},
		{"fraction", models.NumberValue(0.1), "0.1"},
		{"rounded to 15 digits", models.NumberValue(1.0 / 3.0), "0.333333333333333"},
		{"large integer", models.NumberValue(8192), "8192"},
		{"fifteen digits", models.NumberValue(123456789012345), "123456789012345"},
		{"exponent large", models.NumberValue(1e20), "1e+20"},
		{"exponent at precision", models.NumberValue(1e15), "1e+15"},
		{"exponent small", models.NumberValue(0.00001), "1e-05"},
		{"NaN", models.NumberValue(math.NaN()), "null"},
		{"infinity", models.NumberValue(math.Inf(1)), "null"},
		{"plain string", models.StringValue("hello"), `"hello"`},
		{"escaped string", models.StringValue("a\"b\\c\n\t\r\b\f"), `"a\"b\\c\n\t\r\b\f"`},
		{"slash not escaped", models.StringValue("/var/log"), `"/var/log"`},
		{"control chars lossy", models.StringValue("a\x01b\x1fc"), `"a?b?c"`},
		{"utf-8 untouched", models.StringValue("Jörg"), `"Jörg"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Stringify(tt.v, false))
			assert.Equal(t, tt.want, Stringify(tt.v, true))
		})
	}
}

func TestStringify_Compact(t *testing.T) {
	want := `{"active":true,"attrs":{},"cores":4,"disks":[{"mount":"/","total_gb":100}],"extra":null,"name":"web-1","tags":[]}`
	assert.Equal(t, want, Stringify(sampleDoc(), false))
}

func TestStringify_Pretty(t *testing.T) {
	want := `{
  "active": true,
  "attrs": {},
  "cores": 4,
  "disks": [
    {
      "mount": "/",
      "total_gb": 100
    }
  ],
  "extra": null,
  "name": "web-1",
  "tags": []
}`
	got := Stringify(sampleDoc(), true)
	if got != want {
		t.Errorf("pretty output mismatch:\n%s", diff.LineDiff(want, got))
	}
}

func TestStringify_EmptyContainers(t *testing.T) {
	assert.Equal(t, "[]", Stringify(models.ArrayValue(), true))
	assert.Equal(t, "{}", Stringify(models.ObjectValue(nil), true))
	assert.Equal(t, "[]", Stringify(models.ArrayValue(), false))
	assert.Equal(t, "{}", Stringify(models.ObjectValue(nil), false))
}

func TestStringify_KeysAreEscaped(t *testing.T) {
	v := models.ObjectValue(map[string]models.Value{"a\"b": models.NumberValue(1)})
	assert.Equal(t, `{"a\"b":1}`, Stringify(v, false))
}

func TestStringify_Idempotent(t *testing.T) {
	v := sampleDoc()
	assert.Equal(t, Stringify(v, false), Stringify(v, false))
	assert.Equal(t, Stringify(v, true), Stringify(v, true))
}

func TestWrite(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, models.ArrayValue(models.NumberValue(1), models.NumberValue(2)), true))
	assert.Equal(t, "[\n  1,\n  2\n]", buf.String())
}

func TestFormatter_Colorizer(t *testing.T) {
	f := &Formatter{
		Pretty: false,
		Color: &Colorizer{
			KeyCode:    "<k>",
			ScalarCode: [models.Object + 1]string{models.Null: "<n>", models.Bool: "<b>", models.Number: "<#>", models.String: "<s>"},
			ResetCode:  "</>",
		},
	}
	v := models.ObjectValue(map[string]models.Value{
		"a": models.NumberValue(1),
		"b": models.ArrayValue(models.StringValue("x"), models.NullValue(), models.BoolValue(false)),
	})
	assert.Equal(t, `{<k>"a"</>:<#>1</>,<k>"b"</>:[<s>"x"</>,<n>null</>,<b>false</>]}`, f.Format(v))

	var buf bytes.Buffer
	require.NoError(t, NewFormatter(true).WriteTo(&buf, v))
	assert.Equal(t, Stringify(v, true), buf.String())
	assert.False(t, strings.Contains(buf.String(), "\x1b"))
}

func TestDefaultColorizer(t *testing.T) {
	f := NewFormatter(false)
	f.Color = DefaultColorizer()
	out := f.Format(models.ObjectValue(map[string]models.Value{"k": models.StringValue("v")}))

	assert.True(t, strings.HasPrefix(out, "{"+f.Color.KeyCode+`"k"`+f.Color.ResetCode+":"))
	assert.Contains(t, out, f.Color.ScalarCode[models.String]+`"v"`)
	assert.Equal(t, `{"k":"v"}`, strings.NewReplacer("\x1b[1;34m", "", "\x1b[32m", "", "\x1b[0m", "").Replace(out))
}

func BenchmarkStringify(b *testing.B) {
	v := sampleDoc()
	for i := 0; i < b.N; i++ {
		_ = Stringify(v, true)
	}
}
