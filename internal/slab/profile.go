package slab

import (
	"fmt"
	"strings"
)

// Surface names the upstream API a profile is written for.
type Surface string

const (
	// SurfaceChat is the chat completions API, contract enforced by prompt only.
	SurfaceChat Surface = "chat"
	// SurfaceResponses is the responses API, optionally with a JSON schema.
	SurfaceResponses Surface = "responses"
)

// ParseSurface validates a surface name.
func ParseSurface(s string) (Surface, error) {
	switch Surface(strings.ToLower(strings.TrimSpace(s))) {
	case SurfaceChat, "":
		return SurfaceChat, nil
	case SurfaceResponses:
		return SurfaceResponses, nil
	}
	return "", fmt.Errorf("unknown surface %q (want chat or responses)", s)
}

// Profile is the prompt/shape/schema contract for one extraction endpoint.
type Profile struct {
	Name        string
	Description string
	Surface     Surface
	Model       string
	Shape       Shape
	// SystemPrompt fixes the persona and output contract.
	SystemPrompt string
	// UserPrompt carries the extraction rules; the image is appended to it.
	UserPrompt string
	// Schema constrains the reply when the provider supports it. Nil means the
	// contract is enforced by prompt wording only.
	Schema *Schema
	// DefaultMediaType tags the image when the upload declares none.
	DefaultMediaType string
}

const beamList = "H8,H10,H12,H14,H16,H18,H20,H22,H24,H26,H28,H30,H32"

// Builtins returns the four stock profiles: single or many slabs, each over
// chat completions (prompt only) or the responses API (JSON schema).
func Builtins() []Profile {
	return []Profile{
		{
			Name:        "laje",
			Description: "Uma laje via chat completions, contrato apenas por prompt.",
			Surface:     SurfaceChat,
			Model:       "gpt-4o",
			Shape:       Single,
			SystemPrompt: "Você é um engenheiro de cálculo de lajes. Extraia do desenho/plantas:\n" +
				"- largura (metros, número)\n" +
				"- comprimento (metros, número)\n" +
				"- alturaViga (uma das: " + beamList + ")\n" +
				"Responda APENAS JSON com as chaves: largura, comprimento, alturaViga.",
			UserPrompt: "Analise a imagem e devolva JSON. Defaults conservadores se faltar info:\n" +
				"- largura: 2.0\n" +
				"- comprimento: 5.0\n" +
				"- alturaViga: H12",
			DefaultMediaType: "image/png",
		},
		{
			Name:        "laje-schema",
			Description: "Uma laje via responses API com JSON schema.",
			Surface:     SurfaceResponses,
			Model:       "gpt-4o-mini",
			Shape:       Single,
			SystemPrompt: "Você é um engenheiro civil que extrai medidas de lajes a partir de plantas ou PDFs. " +
				"Responda sempre em JSON no formato {largura, comprimento, alturaViga}.",
			UserPrompt:       "Identifique a largura (m), comprimento (m) e altura da viga (H8 a H32). Retorne números com ponto decimal.",
			Schema:           &Schema{Name: "laje_schema"},
			DefaultMediaType: "application/octet-stream",
		},
		{
			Name:        "lajes",
			Description: "Todas as lajes da planta via chat completions, contrato apenas por prompt.",
			Surface:     SurfaceChat,
			Model:       "gpt-4o",
			Shape:       Many,
			SystemPrompt: "Você é um engenheiro de cálculo de lajes. Identifique TODAS as lajes do desenho/planta e, para cada uma, extraia:\n" +
				"- largura (metros, número)\n" +
				"- comprimento (metros, número)\n" +
				"- alturaViga (uma das: " + beamList + ")\n" +
				"Responda APENAS um array JSON de objetos com as chaves: largura, comprimento, alturaViga.",
			UserPrompt: "Analise a imagem e devolva o array JSON, uma entrada por laje, na ordem em que aparecem. " +
				"Se nenhuma laje for identificada, responda []. Use ponto decimal nos números.",
			DefaultMediaType: "image/png",
		},
		{
			Name:        "lajes-schema",
			Description: "Todas as lajes da planta via responses API com JSON schema.",
			Surface:     SurfaceResponses,
			Model:       "gpt-4o-mini",
			Shape:       Many,
			SystemPrompt: "Você é um engenheiro civil que extrai medidas de lajes a partir de plantas ou PDFs. " +
				"Responda sempre em JSON no formato {lajes: [{largura, comprimento, alturaViga}]}.",
			UserPrompt: "Liste todas as lajes com largura (m), comprimento (m) e altura da viga (H8 a H32). " +
				"Retorne números com ponto decimal e lajes vazio se não houver nenhuma.",
			Schema:           &Schema{Name: "lajes_schema"},
			DefaultMediaType: "application/octet-stream",
		},
	}
}

// Registry holds profiles by name, preserving insertion order for listing.
type Registry struct {
	byName map[string]Profile
	order  []string
}

// NewRegistry builds a registry from ps; later duplicates replace earlier ones.
func NewRegistry(ps ...Profile) *Registry {
	r := &Registry{byName: make(map[string]Profile, len(ps))}
	for _, p := range ps {
		r.Set(p)
	}
	return r
}

// Set adds or replaces a profile.
func (r *Registry) Set(p Profile) {
	if _, ok := r.byName[p.Name]; !ok {
		r.order = append(r.order, p.Name)
	}
	r.byName[p.Name] = p
}

// Get looks a profile up by name.
func (r *Registry) Get(name string) (Profile, bool) {
	p, ok := r.byName[name]
	return p, ok
}

// List returns profiles in insertion order.
func (r *Registry) List() []Profile {
	out := make([]Profile, 0, len(r.order))
	for _, n := range r.order {
		out = append(out, r.byName[n])
	}
	return out
}
