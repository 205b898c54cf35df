package entity

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

var nonAlnum = regexp.MustCompile(`[^A-Za-z0-9]`)

// NormalizeKey strips non-alphanumerics and lower-cases, so "Content Name",
// "content_name" and "ContentName" all resolve to the same document key.
func NormalizeKey(k string) string {
	return strings.ToLower(nonAlnum.ReplaceAllString(k, ""))
}

// Document is the in-memory copy of one extracted record. Values are read-only
// input except for deliberate corrections applied during fallback search
// (e.g. flipping the GST registration type), which are written back here so
// the persisted report reflects what was actually entered.
type Document struct {
	values map[string]any
	byNorm map[string]string
}

func NewDocument(values map[string]any) *Document {
	d := &Document{
		values: values,
		byNorm: make(map[string]string, len(values)),
	}
	for k := range values {
		d.byNorm[NormalizeKey(k)] = k
	}
	return d
}

// Get returns the first non-empty value among the candidate key spellings,
// trying exact keys before normalized matching.
func (d *Document) Get(candidates ...string) string {
	for _, k := range candidates {
		if v, ok := d.values[k]; ok {
			if s := stringify(v); s != "" {
				return s
			}
		}
	}
	for _, k := range candidates {
		if real, ok := d.byNorm[NormalizeKey(k)]; ok {
			if s := stringify(d.values[real]); s != "" {
				return s
			}
		}
	}
	return ""
}

// Set overwrites (or adds) a value, keeping the normalized index consistent.
func (d *Document) Set(key string, value string) {
	if real, ok := d.byNorm[NormalizeKey(key)]; ok {
		d.values[real] = value
		return
	}
	d.values[key] = value
	d.byNorm[NormalizeKey(key)] = key
}

// Raw returns the underlying map for persistence.
func (d *Document) Raw() map[string]any {
	return d.values
}

func stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	case float64:
		if t == float64(int64(t)) {
			return fmt.Sprintf("%d", int64(t))
		}
		return fmt.Sprintf("%g", t)
	case bool:
		return fmt.Sprintf("%t", t)
	default:
		return strings.TrimSpace(fmt.Sprintf("%v", t))
	}
}

// ParseDocument decodes the JSON column content into a Document. The column
// sometimes holds a double-encoded string ("{\"a\":1}") and sometimes wraps
// the record in a "final_data" envelope; both are unwrapped here.
func ParseDocument(raw []byte) (*Document, error) {
	txt := strings.TrimSpace(string(raw))
	if txt == "" {
		return nil, fmt.Errorf("empty document payload")
	}

	if strings.HasPrefix(txt, `"`) && strings.HasSuffix(txt, `"`) {
		var unquoted string
		if err := json.Unmarshal([]byte(txt), &unquoted); err == nil {
			txt = unquoted
		} else {
			txt = strings.ReplaceAll(txt[1:len(txt)-1], `\"`, `"`)
		}
	}

	var data map[string]any
	if err := json.Unmarshal([]byte(txt), &data); err != nil {
		return nil, fmt.Errorf("decode document json: %w", err)
	}

	if inner, ok := data["final_data"].(map[string]any); ok {
		data = inner
	}
	return NewDocument(data), nil
}
