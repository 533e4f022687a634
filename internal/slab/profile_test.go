package slab

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestBuiltinsCoverEveryVariant(t *testing.T) {
	seen := map[string]bool{}
	for _, p := range Builtins() {
		key := string(p.Surface) + "/" + p.Shape.String()
		if seen[key] {
			t.Fatalf("duplicate variant %s", key)
		}
		seen[key] = true
		if p.SystemPrompt == "" || p.UserPrompt == "" || p.Model == "" || p.DefaultMediaType == "" {
			t.Fatalf("profile %s incomplete: %+v", p.Name, p)
		}
		if p.Surface == SurfaceResponses && p.Schema == nil {
			t.Fatalf("responses profile %s has no schema", p.Name)
		}
	}
	if len(seen) != 4 {
		t.Fatalf("expected 4 variants, got %v", seen)
	}
}

func TestRegistry_SetReplacesAndKeepsOrder(t *testing.T) {
	r := NewRegistry(Builtins()...)
	p, ok := r.Get("lajes")
	if !ok { t.Fatalf("lajes missing") }
	p.Model = "gpt-4.1"
	r.Set(p)
	r.Set(Profile{Name: "custom", Surface: SurfaceChat})

	list := r.List()
	if len(list) != 5 { t.Fatalf("len=%d", len(list)) }
	if list[2].Name != "lajes" || list[2].Model != "gpt-4.1" { t.Fatalf("unexpected: %+v", list[2]) }
	if list[4].Name != "custom" { t.Fatalf("custom not appended: %+v", list[4]) }
	if _, ok := r.Get("nope"); ok { t.Fatalf("unexpected profile") }
}

func TestSchemaEnumerationAndRequired(t *testing.T) {
	s := &Schema{Name: "laje_schema"}
	b, err := json.Marshal(s.JSONSchema(Single))
	if err != nil { t.Fatalf("marshal: %v", err) }
	for _, want := range []string{`"required":["largura","comprimento","alturaViga"]`, `"H8"`, `"H32"`} {
		if !strings.Contains(string(b), want) {
			t.Fatalf("schema missing %s: %s", want, b)
		}
	}
	many := s.JSONSchema(Many)
	if many["type"] != "object" { t.Fatalf("many root must be an object") }
	props := many["properties"].(map[string]any)
	if props["lajes"].(map[string]any)["type"] != "array" { t.Fatalf("lajes must be an array") }
}

func TestParseSurface(t *testing.T) {
	if s, err := ParseSurface("Responses"); err != nil || s != SurfaceResponses { t.Fatalf("got %v %v", s, err) }
	if s, err := ParseSurface(""); err != nil || s != SurfaceChat { t.Fatalf("got %v %v", s, err) }
	if _, err := ParseSurface("grpc"); err == nil { t.Fatalf("expected error") }
}
