// Package jsonextract recovers a JSON value from free-form model output that
// may wrap it in prose or markdown fences.
package jsonextract

import (
	"encoding/json"
	"regexp"
	"strings"
)

// Kind is the JSON value a caller expects.
type Kind int

const (
	Object Kind = iota
	Array
)

func (k Kind) delims() (byte, byte) {
	if k == Array {
		return '[', ']'
	}
	return '{', '}'
}

var fenceRe = regexp.MustCompile("(?s)```(?:json|JSON)?\\s*(.*?)```")

// Extract returns the first JSON value of the wanted kind found in text.
//
// The whole text is tried first, then the body of a ```json fence, then the
// first balanced {...} or [...] substring that parses, then the span between
// the first opening and the last closing delimiter. For Array, a whole-body
// object is also accepted since schema-constrained replies wrap arrays in one.
// ok is false when nothing parses.
func Extract(text string, want Kind) (json.RawMessage, bool) {
	s := strings.TrimSpace(strings.TrimPrefix(text, "\uFEFF"))
	if s == "" {
		return nil, false
	}
	if v, ok := whole(s, want); ok {
		return v, true
	}
	if m := fenceRe.FindStringSubmatch(s); len(m) == 2 {
		if v, ok := whole(strings.TrimSpace(m[1]), want); ok {
			return v, true
		}
	}
	open, shut := want.delims()
	if v, ok := firstBalanced(s, open, shut); ok {
		return v, true
	}
	if v, ok := greedy(s, open, shut); ok {
		return v, true
	}
	return nil, false
}

func whole(s string, want Kind) (json.RawMessage, bool) {
	if s == "" || !json.Valid([]byte(s)) {
		return nil, false
	}
	switch s[0] {
	case '{':
		return json.RawMessage(s), true
	case '[':
		if want == Array {
			return json.RawMessage(s), true
		}
	}
	return nil, false
}

// firstBalanced scans every opening delimiter in order and returns the first
// balanced span that is valid JSON. Delimiters inside string literals are
// ignored.
func firstBalanced(s string, open, shut byte) (json.RawMessage, bool) {
	for i := 0; i < len(s); i++ {
		if s[i] != open {
			continue
		}
		end := matchClose(s, i, open, shut)
		if end < 0 {
			continue
		}
		if cand := s[i : end+1]; json.Valid([]byte(cand)) {
			return json.RawMessage(cand), true
		}
	}
	return nil, false
}

// matchClose returns the index of the delimiter closing s[start], or -1.
func matchClose(s string, start int, open, shut byte) int {
	depth := 0
	inString, escaped := false, false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case open:
			depth++
		case shut:
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

func greedy(s string, open, shut byte) (json.RawMessage, bool) {
	i := strings.IndexByte(s, open)
	j := strings.LastIndexByte(s, shut)
	if i < 0 || j <= i {
		return nil, false
	}
	cand := s[i : j+1]
	if !json.Valid([]byte(cand)) {
		return nil, false
	}
	return json.RawMessage(cand), true
}
