// Package extract recovers a JSON object from free-form generator text.
package extract

import (
	"encoding/json"
	"regexp"
	"strings"
)

var (
	fencedJSON     = regexp.MustCompile("(?s)```json\\s*(.*?)\\s*```")
	widestBraces   = regexp.MustCompile(`(?s)\{.*\}`)
	controlChars   = regexp.MustCompile(`[\x00-\x1f\x7f-\x9f]`)
	quotedNumeral  = regexp.MustCompile(`"(\d{1,3})((?:,\d{3})+)"`)
	trailingCommas = regexp.MustCompile(`,\s*([}\]])`)
)

// JSON returns the first object it can recover from raw, or nil.
// A fenced ```json block wins over a bare brace span. If the chosen candidate
// does not parse, line breaks are collapsed and parsing is retried once.
func JSON(raw string) map[string]any {
	candidate, ok := locate(raw)
	if !ok {
		return nil
	}
	if obj, err := decode(clean(candidate)); err == nil {
		return obj
	}
	flat := strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ").Replace(candidate)
	if obj, err := decode(clean(flat)); err == nil {
		return obj
	}
	return nil
}

// Into recovers an object from raw and decodes it into out.
func Into(raw string, out any) bool {
	obj := JSON(raw)
	if obj == nil {
		return false
	}
	b, err := json.Marshal(obj)
	if err != nil {
		return false
	}
	return json.Unmarshal(b, out) == nil
}

// HasMarker reports whether text looks like it carries structured data:
// a fenced json block or a quoted key followed by a colon.
func HasMarker(text string) bool {
	return strings.Contains(text, "```json") || keyShaped.MatchString(text)
}

var keyShaped = regexp.MustCompile(`"[A-Za-z_][A-Za-z0-9_]*"\s*:`)

func locate(raw string) (string, bool) {
	if m := fencedJSON.FindStringSubmatch(raw); m != nil {
		return m[1], true
	}
	if m := widestBraces.FindString(raw); m != "" {
		return m, true
	}
	return "", false
}

func clean(s string) string {
	s = controlChars.ReplaceAllString(s, " ")
	s = quotedNumeral.ReplaceAllStringFunc(s, func(m string) string {
		return strings.ReplaceAll(m, ",", "")
	})
	return trailingCommas.ReplaceAllString(s, "$1")
}

func decode(s string) (map[string]any, error) {
	var obj map[string]any
	if err := json.Unmarshal([]byte(s), &obj); err != nil {
		return nil, err
	}
	if obj == nil {
		return nil, errNotObject
	}
	return obj, nil
}

type extractError string

func (e extractError) Error() string { return string(e) }

const errNotObject = extractError("not a json object")
