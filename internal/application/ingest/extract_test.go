package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReadString(t *testing.T) {
	assert.Equal(t, "value", readString("value"))
	assert.Equal(t, "value", readString("  value  "))
	assert.Equal(t, "", readString("   "))
	assert.Equal(t, "", readString(42))
	assert.Equal(t, "", readString(nil))
}

func TestGetString(t *testing.T) {
	record := map[string]any{
		"blank":  "   ",
		"number": 7,
		"second": "fallback",
		"first":  "primary",
	}
	assert.Equal(t, "primary", getString(record, "first", "second"))
	assert.Equal(t, "fallback", getString(record, "missing", "blank", "number", "second"))
	assert.Equal(t, "", getString(record, "missing", "blank"))
	assert.Equal(t, "", getString(nil, "first"))
}

func TestPickLocalizedText(t *testing.T) {
	tests := []struct {
		name    string
		entries []localizedEntry
		want    string
	}{
		{"english preferred over first", []localizedEntry{{Text: "Foo", Language: "de"}, {Text: "Bar", Language: "en"}}, "Bar"},
		{"english prefix match", []localizedEntry{{Text: "Foo", Language: "fr"}, {Text: "Bar", Language: "en-US"}}, "Bar"},
		{"case insensitive", []localizedEntry{{Text: "Bar", Language: "EN"}}, "Bar"},
		{"falls back to first", []localizedEntry{{Text: "Foo", Language: "de"}, {Text: "Baz", Language: "ja"}}, "Foo"},
		{"empty list", nil, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, pickLocalizedText(tt.entries))
		})
	}
}

func TestAsLocalized(t *testing.T) {
	raw := []any{
		map[string]any{"text": "Foo", "language": "de"},
		map[string]any{"text": "Bar", "language": "en"},
		"not a map",
	}
	entries := asLocalized(raw)
	assert.Len(t, entries, 2)
	assert.Equal(t, "Bar", entries[1].Text)
	assert.Nil(t, asLocalized("scalar"))
}

func TestAsStringSlice(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, asStringSlice([]string{"a", " ", "b"}))
	assert.Equal(t, []string{"a"}, asStringSlice([]any{"a", 42, ""}))
	assert.Nil(t, asStringSlice("scalar"))
}

func TestSplitName(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantFirst string
		wantLast  string
	}{
		{"two parts", "Jane Doe", "Jane", "Doe"},
		{"three parts", "Jane Q Doe", "Jane Q", "Doe"},
		{"single token", "Cher", "Cher", ""},
		{"extra whitespace", "  Jane   Doe  ", "Jane", "Doe"},
		{"empty", "", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			first, last := splitName(tt.input)
			assert.Equal(t, tt.wantFirst, first)
			assert.Equal(t, tt.wantLast, last)
		})
	}
}
