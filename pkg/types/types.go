package types

// Laje is the set of slab dimensions extracted from a construction plan.
type Laje struct {
	// Slab width in metres.
	// example: 3.5
	Largura float64 `json:"largura" example:"3.5"`
	// Slab length in metres.
	// example: 6
	Comprimento float64 `json:"comprimento" example:"6"`
	// Beam height class, one of H8..H32 in steps of two.
	// example: H12
	AlturaViga string `json:"alturaViga" example:"H12"`
}

// Upload is the file received with an extraction request. It is held in
// memory for the duration of a single request only.
type Upload struct {
	// Raw file contents.
	Data []byte `json:"-"`
	// Media type declared by the client, possibly empty.
	// example: image/png
	MediaType string `json:"mediaType,omitempty" example:"image/png"`
	// Original filename as sent by the client.
	// example: planta-terreo.png
	Filename string `json:"filename,omitempty" example:"planta-terreo.png"`
}

// ErrorResponse is a consistent JSON error payload.
type ErrorResponse struct {
	// Human readable error message.
	// example: Arquivo obrigatório (campo 'file').
	Error string `json:"error" example:"Arquivo obrigatório (campo 'file')."`
	// Diagnostic text, e.g. the upstream provider's body for 502 responses.
	Detail string `json:"detail,omitempty"`
	// HTTP status code.
	// example: 400
	Code int `json:"code" example:"400"`
}

// ProbeResponse is returned by GET on an extraction route.
type ProbeResponse struct {
	// example: extract
	Route string `json:"route" example:"extract"`
	// example: true
	OK bool `json:"ok" example:"true"`
}

// ProfileInfo describes an extraction profile exposed by GET /profiles.
type ProfileInfo struct {
	// example: laje
	Name string `json:"name" example:"laje"`
	// example: Single slab via chat completions, prompt-only contract.
	Description string `json:"description,omitempty"`
	// API surface used upstream: chat or responses.
	// example: chat
	Surface string `json:"surface" example:"chat"`
	// Output shape: single (one object) or many (array of objects).
	// example: single
	Shape string `json:"shape" example:"single"`
	// Model identifier sent upstream.
	// example: gpt-4o
	Model string `json:"model" example:"gpt-4o"`
	// Whether the reply shape is constrained by a JSON schema.
	Schema bool `json:"schema"`
	// Whether this is the profile served by /extract.
	Default bool `json:"default,omitempty"`
}

// ProfilesResponse wraps the list returned by GET /profiles.
type ProfilesResponse struct {
	Profiles []ProfileInfo `json:"profiles"`
}
