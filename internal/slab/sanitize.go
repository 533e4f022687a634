package slab

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"lajed/pkg/types"
)

// Shape is the reply contract a profile asks the model for.
type Shape int

const (
	// Single expects one JSON object.
	Single Shape = iota
	// Many expects a JSON array of objects, one per slab.
	Many
)

func (s Shape) String() string {
	if s == Many {
		return "many"
	}
	return "single"
}

// ParseShape maps "single"/"many" (and the aliases object/array) to a Shape.
func ParseShape(s string) (Shape, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "single", "object", "":
		return Single, true
	case "many", "array", "list":
		return Many, true
	}
	return Single, false
}

// Defaults returns the values substituted for missing or malformed fields.
func Defaults(s Shape) types.Laje {
	if s == Many {
		return types.Laje{Largura: 0, Comprimento: 0, AlturaViga: DefaultBeamClass}
	}
	return types.Laje{Largura: 2.0, Comprimento: 5.0, AlturaViga: DefaultBeamClass}
}

// Result is a sanitized extraction. It encodes as a single object for the
// Single shape and as an array (never null) for Many.
type Result struct {
	Shape Shape
	One   types.Laje
	Many  []types.Laje
}

func (r Result) MarshalJSON() ([]byte, error) {
	if r.Shape == Many {
		if r.Many == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(r.Many)
	}
	return json.Marshal(r.One)
}

// Fallback is the result returned when no JSON could be recovered from the reply.
func Fallback(s Shape) Result {
	if s == Many {
		return Result{Shape: Many, Many: []types.Laje{}}
	}
	return Result{Shape: Single, One: Defaults(Single)}
}

// Sanitize coerces a parsed model reply into a Result of the given shape.
// raw may be empty, in which case the shape's fallback is returned.
func Sanitize(s Shape, raw json.RawMessage) Result {
	if s == Many {
		return Result{Shape: Many, Many: SanitizeMany(raw)}
	}
	return Result{Shape: Single, One: SanitizeOne(raw)}
}

// SanitizeOne coerces a JSON object into a Laje with Single defaults.
// Anything that is not an object yields the defaults.
func SanitizeOne(raw json.RawMessage) types.Laje {
	obj, _ := decodeObject(raw)
	return sanitizeRecord(obj, Defaults(Single))
}

// SanitizeMany coerces a JSON array into Lajes with Many defaults. An object
// holding the array under "lajes" is unwrapped, and a lone record object is
// treated as a one element list. Array elements that are not objects are
// dropped.
func SanitizeMany(raw json.RawMessage) []types.Laje {
	out := []types.Laje{}
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return out
	}
	var items []json.RawMessage
	switch raw[0] {
	case '[':
		if err := json.Unmarshal(raw, &items); err != nil {
			return out
		}
	case '{':
		var wrapper map[string]json.RawMessage
		if err := json.Unmarshal(raw, &wrapper); err != nil {
			return out
		}
		if inner, ok := wrapper["lajes"]; ok {
			if err := json.Unmarshal(inner, &items); err != nil {
				return out
			}
		} else {
			items = []json.RawMessage{raw}
		}
	default:
		return out
	}
	def := Defaults(Many)
	for _, it := range items {
		obj, ok := decodeObject(it)
		if !ok {
			continue
		}
		out = append(out, sanitizeRecord(obj, def))
	}
	return out
}

var (
	widthKeys  = []string{"largura", "width"}
	lengthKeys = []string{"comprimento", "length"}
	beamKeys   = []string{"alturaViga", "altura_viga", "beamHeightClass", "beamHeight"}
)

func sanitizeRecord(obj map[string]any, def types.Laje) types.Laje {
	return types.Laje{
		Largura:     coerceNumber(lookup(obj, widthKeys), def.Largura),
		Comprimento: coerceNumber(lookup(obj, lengthKeys), def.Comprimento),
		AlturaViga:  coerceBeamClass(lookup(obj, beamKeys)),
	}
}

func decodeObject(raw json.RawMessage) (map[string]any, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '{' {
		return nil, false
	}
	// numbers stay json.Number so an out-of-range value only costs its field
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var obj map[string]any
	if err := dec.Decode(&obj); err != nil {
		return nil, false
	}
	return obj, true
}

func lookup(obj map[string]any, keys []string) any {
	for _, k := range keys {
		if v, ok := obj[k]; ok {
			return v
		}
	}
	return nil
}

// coerceNumber converts v to a positive finite float, or returns def.
func coerceNumber(v any, def float64) float64 {
	var f float64
	switch x := v.(type) {
	case json.Number:
		p, err := x.Float64()
		if err != nil {
			return def
		}
		f = p
	case float64:
		f = x
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return def
		}
		if !strings.Contains(s, ".") {
			s = strings.Replace(s, ",", ".", 1)
		}
		p, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return def
		}
		f = p
	case bool:
		if x {
			f = 1
		}
	default:
		return def
	}
	if math.IsNaN(f) || math.IsInf(f, 0) || f <= 0 {
		return def
	}
	return f
}

func coerceBeamClass(v any) string {
	switch x := v.(type) {
	case string:
		return NormalizeBeamClass(x)
	case json.Number:
		return NormalizeBeamClass(x.String())
	case float64:
		return NormalizeBeamClass(strconv.FormatFloat(x, 'f', -1, 64))
	}
	return DefaultBeamClass
}
