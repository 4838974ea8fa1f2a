package usecases

import (
	"encoding/json"
	"fmt"
	"strings"
)

// commandPatch is a partially-specified viewport change extracted from
// a [COMMAND: {...}] token. Pointer fields distinguish "absent" from
// zero so missing keys leave the camera untouched.
type commandPatch struct {
	Lat  *float64 `json:"lat"`
	Lng  *float64 `json:"lng"`
	Zoom *float64 `json:"zoom"`
}

// parseCommandObject decodes the directive body: strict JSON first,
// then a permissive pass that tolerates Python-literal style maps,
// which smaller models emit with some regularity.
func parseCommandObject(s string) (*commandPatch, error) {
	var p commandPatch
	if err := json.Unmarshal([]byte(s), &p); err == nil {
		return &p, nil
	}

	loose := normalizeLooseObject(s)
	if err := json.Unmarshal([]byte(loose), &p); err != nil {
		return nil, fmt.Errorf("strict and loose parse both failed: %w", err)
	}
	return &p, nil
}

// normalizeLooseObject rewrites a Python-literal style map into strict
// JSON: single-quoted strings become double-quoted, and the constants
// True/False/None become their JSON spellings. Content inside quoted
// strings is preserved.
func normalizeLooseObject(s string) string {
	var out strings.Builder
	out.Grow(len(s))

	runes := []rune(s)
	for i := 0; i < len(runes); i++ {
		switch r := runes[i]; r {
		case '"':
			// Copy a double-quoted string verbatim, honoring escapes.
			out.WriteRune(r)
			for i++; i < len(runes); i++ {
				out.WriteRune(runes[i])
				if runes[i] == '\\' && i+1 < len(runes) {
					i++
					out.WriteRune(runes[i])
					continue
				}
				if runes[i] == '"' {
					break
				}
			}
		case '\'':
			// Re-quote a single-quoted string, escaping any embedded
			// double quotes.
			out.WriteRune('"')
			for i++; i < len(runes); i++ {
				if runes[i] == '\\' && i+1 < len(runes) {
					out.WriteRune(runes[i])
					i++
					out.WriteRune(runes[i])
					continue
				}
				if runes[i] == '\'' {
					break
				}
				if runes[i] == '"' {
					out.WriteString(`\"`)
					continue
				}
				out.WriteRune(runes[i])
			}
			out.WriteRune('"')
		default:
			if isWordStart(r) {
				word, end := readWord(runes, i)
				switch word {
				case "True":
					out.WriteString("true")
				case "False":
					out.WriteString("false")
				case "None":
					out.WriteString("null")
				default:
					out.WriteString(word)
				}
				i = end
				continue
			}
			out.WriteRune(r)
		}
	}
	return out.String()
}

func isWordStart(r rune) bool {
	return r == '_' || (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z')
}

func isWordRune(r rune) bool {
	return isWordStart(r) || (r >= '0' && r <= '9')
}

// readWord returns the identifier starting at i and the index of its
// last rune.
func readWord(runes []rune, i int) (string, int) {
	j := i
	for j+1 < len(runes) && isWordRune(runes[j+1]) {
		j++
	}
	return string(runes[i : j+1]), j
}
