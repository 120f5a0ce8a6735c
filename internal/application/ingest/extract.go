// Package ingest implements the patent ingestion pipeline: paginated
// fetching from an external source, normalization of heterogeneous raw
// records into the canonical model, and idempotent persistence through the
// repository layer.
package ingest

import "strings"

// RawRecord is one loosely typed patent record as returned by a source
// integration. Field names and value shapes vary by source; the extractor
// functions below are the only code that touches it directly.
type RawRecord map[string]any

// readString returns the trimmed string form of v, or "" when v is not a
// non-blank string. Blank and non-string values are indistinguishable from
// absent on purpose.
func readString(v any) string {
	s, ok := v.(string)
	if !ok {
		return ""
	}
	return strings.TrimSpace(s)
}

// getString returns the first non-blank string found in record at any of the
// candidate keys, in priority order. A nil record yields "".
func getString(record map[string]any, keys ...string) string {
	if record == nil {
		return ""
	}
	for _, key := range keys {
		if v := readString(record[key]); v != "" {
			return v
		}
	}
	return ""
}

// localizedEntry is one {text, language} variant of a localized field.
type localizedEntry struct {
	Text     string
	Language string
}

// asLocalized converts a raw localized-text list into typed entries. The
// value arrives either as []map[string]any (file source) or []any of maps
// (generic JSON decoding); anything else yields nil.
func asLocalized(v any) []localizedEntry {
	var out []localizedEntry
	for _, item := range asRecordSlice(v) {
		out = append(out, localizedEntry{
			Text:     readString(item["text"]),
			Language: readString(item["language"]),
		})
	}
	return out
}

// pickLocalizedText selects the text of the first entry whose language code
// starts with "en" (case-insensitive), falling back to the first entry, or
// "" when the list is empty.
func pickLocalizedText(entries []localizedEntry) string {
	for _, entry := range entries {
		if strings.HasPrefix(strings.ToLower(entry.Language), "en") {
			return entry.Text
		}
	}
	if len(entries) > 0 {
		return entries[0].Text
	}
	return ""
}

// asRecordSlice normalizes a raw list-of-objects value into []map[string]any,
// tolerating the two decodings that actually occur ([]any and the already
// typed slice). Non-map elements are skipped.
func asRecordSlice(v any) []map[string]any {
	switch list := v.(type) {
	case []map[string]any:
		return list
	case []RawRecord:
		out := make([]map[string]any, 0, len(list))
		for _, item := range list {
			out = append(out, map[string]any(item))
		}
		return out
	case []any:
		var out []map[string]any
		for _, item := range list {
			switch m := item.(type) {
			case map[string]any:
				out = append(out, m)
			case RawRecord:
				out = append(out, map[string]any(m))
			}
		}
		return out
	default:
		return nil
	}
}

// asStringSlice normalizes a raw list-of-strings value, dropping blank and
// non-string elements.
func asStringSlice(v any) []string {
	var out []string
	appendOne := func(item any) {
		if s := readString(item); s != "" {
			out = append(out, s)
		}
	}
	switch list := v.(type) {
	case []string:
		for _, item := range list {
			appendOne(item)
		}
	case []any:
		for _, item := range list {
			appendOne(item)
		}
	}
	return out
}

// splitName splits a full name on whitespace: the final token becomes the
// last name and everything before it the first name. A single token is
// treated as a first name only.
func splitName(name string) (firstName, lastName string) {
	parts := strings.Fields(name)
	switch len(parts) {
	case 0:
		return "", ""
	case 1:
		return parts[0], ""
	default:
		return strings.Join(parts[:len(parts)-1], " "), parts[len(parts)-1]
	}
}
