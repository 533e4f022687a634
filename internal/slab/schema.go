package slab

// Schema is the structured-output constraint sent upstream with a profile.
type Schema struct {
	// Name identifies the schema to the provider (OpenAI requires one).
	Name string
}

// recordSchema describes one slab with every field required and the beam
// class restricted to the enumeration.
func recordSchema() map[string]any {
	enum := make([]any, len(BeamClasses))
	for i, c := range BeamClasses {
		enum[i] = c
	}
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"largura":     map[string]any{"type": "number"},
			"comprimento": map[string]any{"type": "number"},
			"alturaViga":  map[string]any{"type": "string", "enum": enum},
		},
		"required":             []any{"largura", "comprimento", "alturaViga"},
		"additionalProperties": false,
	}
}

// JSONSchema returns the JSON schema for the given shape. Providers require an
// object at the root, so the Many shape wraps its array under "lajes".
func (s *Schema) JSONSchema(shape Shape) map[string]any {
	if shape != Many {
		return recordSchema()
	}
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"lajes": map[string]any{
				"type":  "array",
				"items": recordSchema(),
			},
		},
		"required":             []any{"lajes"},
		"additionalProperties": false,
	}
}
