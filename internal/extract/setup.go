package extract

import (
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"lajed/internal/config"
	"lajed/internal/slab"
	"lajed/internal/upstream"
)

// NewFromConfig wires a Service from loaded configuration: upstream clients
// for the chosen provider and the built-in profiles merged with cfg.Profiles.
func NewFromConfig(cfg config.Config, logger zerolog.Logger) (*Service, error) {
	reg, err := BuildRegistry(cfg.Profiles)
	if err != nil {
		return nil, err
	}
	if _, ok := reg.Get(cfg.DefaultProfile); cfg.DefaultProfile != "" && !ok {
		return nil, fmt.Errorf("default profile %q is not defined", cfg.DefaultProfile)
	}

	timeout := time.Duration(cfg.UpstreamTimeoutSec) * time.Second
	opts := Options{
		Profiles:       reg,
		DefaultProfile: cfg.DefaultProfile,
		ModelOverride:  cfg.Model,
		Logger:         logger,
	}
	switch cfg.Provider {
	case "gemini":
		g := upstream.NewGemini(cfg.GeminiAPIKey)
		g.Timeout = timeout
		opts.Clients = map[slab.Surface]upstream.Client{slab.SurfaceChat: g, slab.SurfaceResponses: g}
		if opts.ModelOverride == "" {
			opts.ModelOverride = cfg.GeminiModel
		}
	case "openai", "":
		opts.Clients = map[slab.Surface]upstream.Client{
			slab.SurfaceChat:      upstream.NewOpenAIChat(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, timeout),
			slab.SurfaceResponses: upstream.NewOpenAIResponses(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, timeout),
		}
	default:
		return nil, fmt.Errorf("unknown provider %q", cfg.Provider)
	}
	return New(opts), nil
}

// BuildRegistry starts from the built-in profiles and applies overrides in order.
// An override naming an existing profile (or a Base) inherits its fields.
func BuildRegistry(overrides []config.ProfileConfig) (*slab.Registry, error) {
	reg := slab.NewRegistry(slab.Builtins()...)
	for i, pc := range overrides {
		name := strings.TrimSpace(pc.Name)
		if name == "" {
			return nil, fmt.Errorf("profiles[%d]: name is required", i)
		}
		base, ok := reg.Get(name)
		if pc.Base != "" {
			if base, ok = reg.Get(pc.Base); !ok {
				return nil, fmt.Errorf("profiles[%d]: unknown base %q", i, pc.Base)
			}
		}
		if !ok {
			base = slab.Profile{Surface: slab.SurfaceChat, Model: "gpt-4o", Shape: slab.Single, DefaultMediaType: "image/png"}
		}
		p := base
		p.Name = name
		if pc.Description != "" {
			p.Description = pc.Description
		}
		if pc.Surface != "" {
			s, err := slab.ParseSurface(pc.Surface)
			if err != nil {
				return nil, fmt.Errorf("profiles[%d]: %w", i, err)
			}
			p.Surface = s
		}
		if pc.Model != "" {
			p.Model = pc.Model
		}
		if pc.Shape != "" {
			sh, ok := slab.ParseShape(pc.Shape)
			if !ok {
				return nil, fmt.Errorf("profiles[%d]: unknown shape %q", i, pc.Shape)
			}
			p.Shape = sh
		}
		if pc.SystemPrompt != "" {
			p.SystemPrompt = pc.SystemPrompt
		}
		if pc.UserPrompt != "" {
			p.UserPrompt = pc.UserPrompt
		}
		if pc.Schema != nil {
			if *pc.Schema {
				if p.Schema == nil {
					p.Schema = &slab.Schema{Name: schemaName(name)}
				}
			} else {
				p.Schema = nil
			}
		}
		if p.SystemPrompt == "" && p.UserPrompt == "" {
			return nil, fmt.Errorf("profiles[%d]: %q needs prompts or a base", i, name)
		}
		reg.Set(p)
	}
	return reg, nil
}

func schemaName(profile string) string {
	return strings.NewReplacer("-", "_", " ", "_").Replace(profile) + "_schema"
}
