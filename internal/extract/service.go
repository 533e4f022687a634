// Package extract turns an uploaded plan image into sanitized slab dimensions:
// it builds the prompt for the selected profile, makes one upstream call and
// recovers a JSON result from whatever text comes back.
package extract

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"lajed/internal/jsonextract"
	"lajed/internal/slab"
	"lajed/internal/upstream"
	"lajed/pkg/types"
)

// Options configures a Service.
type Options struct {
	Profiles       *slab.Registry
	DefaultProfile string
	// Clients maps each surface to the client serving it.
	Clients map[slab.Surface]upstream.Client
	// ModelOverride replaces every profile's model when non-empty.
	ModelOverride string
	Logger        zerolog.Logger
}

// Service is stateless across calls and safe for concurrent use.
type Service struct {
	profiles       *slab.Registry
	defaultProfile string
	clients        map[slab.Surface]upstream.Client
	modelOverride  string
	log            zerolog.Logger
}

// New builds a Service. A nil registry gets the built-in profiles.
func New(opts Options) *Service {
	reg := opts.Profiles
	if reg == nil {
		reg = slab.NewRegistry(slab.Builtins()...)
	}
	def := opts.DefaultProfile
	if def == "" {
		def = "laje"
	}
	return &Service{
		profiles:       reg,
		defaultProfile: def,
		clients:        opts.Clients,
		modelOverride:  strings.TrimSpace(opts.ModelOverride),
		log:            opts.Logger,
	}
}

// DefaultProfile is the profile used when the caller names none.
func (s *Service) DefaultProfile() string { return s.defaultProfile }

// Extract runs one upload through the named profile (the default when empty).
//
// Errors: unknown profile, empty upload, missing credential (checked before
// any network I/O) and *upstream.Error for non-2xx replies. A reply that holds
// no usable JSON is not an error; the shape's fallback is returned instead.
func (s *Service) Extract(ctx context.Context, profile string, up types.Upload) (slab.Result, error) {
	if profile == "" {
		profile = s.defaultProfile
	}
	p, ok := s.profiles.Get(profile)
	if !ok {
		return slab.Result{}, ErrUnknownProfile(profile)
	}
	if len(up.Data) == 0 {
		return slab.Result{}, ErrEmptyUpload
	}
	client := s.clients[p.Surface]
	if client == nil || !client.Configured() {
		return slab.Result{}, upstream.ErrMissingCredential
	}

	req := s.buildRequest(p, up)
	l := s.log.With().Str("profile", p.Name).Str("client", client.Name()).Str("model", req.Model).Logger()
	start := time.Now()
	reply, err := client.Complete(ctx, req)
	if err != nil {
		outcome := "transport_error"
		if ue, ok := upstream.AsError(err); ok {
			outcome = "upstream_error"
			l.Warn().Int("upstream_status", ue.Status).Dur("dur", time.Since(start)).Msg("upstream rejected request")
		} else {
			l.Error().Err(err).Dur("dur", time.Since(start)).Msg("upstream call failed")
		}
		upstreamCalls.WithLabelValues(p.Name, outcome).Inc()
		return slab.Result{}, err
	}
	upstreamCalls.WithLabelValues(p.Name, "ok").Inc()
	l.Debug().Dur("dur", time.Since(start)).Int("reply_len", len(reply.Text)).Msg("upstream replied")

	return s.interpret(p, reply.Text), nil
}

// interpret is the pure tail of Extract: locate JSON in the reply and sanitize it.
func (s *Service) interpret(p slab.Profile, text string) slab.Result {
	kind := jsonextract.Object
	if p.Shape == slab.Many {
		kind = jsonextract.Array
	}
	raw, ok := jsonextract.Extract(text, kind)
	if !ok {
		replyFallbacks.WithLabelValues(p.Name).Inc()
		s.log.Warn().Str("profile", p.Name).Str("reply", clip(text, 200)).Msg("no JSON in model reply, returning defaults")
		return slab.Fallback(p.Shape)
	}
	return slab.Sanitize(p.Shape, raw)
}

func (s *Service) buildRequest(p slab.Profile, up types.Upload) upstream.Request {
	model := p.Model
	if s.modelOverride != "" {
		model = s.modelOverride
	}
	req := upstream.Request{
		Model:       model,
		Temperature: 0,
		System:      p.SystemPrompt,
		User:        p.UserPrompt,
		Image: upstream.Image{
			Data:      up.Data,
			MediaType: pickMediaType(up.MediaType, up.Data, p.DefaultMediaType),
		},
	}
	if p.Schema != nil {
		req.Schema = p.Schema.JSONSchema(p.Shape)
		req.SchemaName = p.Schema.Name
	}
	return req
}

// pickMediaType keeps a declared type, then sniffs image/PDF content, then
// falls back to def. application/octet-stream counts as undeclared since
// browsers send it for files they cannot classify.
func pickMediaType(declared string, data []byte, def string) string {
	d := strings.TrimSpace(declared)
	if i := strings.IndexByte(d, ';'); i >= 0 {
		d = strings.TrimSpace(d[:i])
	}
	if d != "" && !strings.EqualFold(d, "application/octet-stream") {
		return d
	}
	if sniffed := http.DetectContentType(data); strings.HasPrefix(sniffed, "image/") || sniffed == "application/pdf" {
		return sniffed
	}
	if def == "" {
		def = "application/octet-stream"
	}
	return def
}

// Profiles lists the registered profiles.
func (s *Service) Profiles() []types.ProfileInfo {
	list := s.profiles.List()
	out := make([]types.ProfileInfo, 0, len(list))
	for _, p := range list {
		model := p.Model
		if s.modelOverride != "" {
			model = s.modelOverride
		}
		out = append(out, types.ProfileInfo{
			Name:        p.Name,
			Description: p.Description,
			Surface:     string(p.Surface),
			Shape:       p.Shape.String(),
			Model:       model,
			Schema:      p.Schema != nil,
			Default:     p.Name == s.defaultProfile,
		})
	}
	return out
}

// HasProfile reports whether name is registered.
func (s *Service) HasProfile(name string) bool {
	_, ok := s.profiles.Get(name)
	return ok
}

// Ready reports whether the default profile can reach its upstream.
func (s *Service) Ready() bool {
	p, ok := s.profiles.Get(s.defaultProfile)
	if !ok {
		return false
	}
	c := s.clients[p.Surface]
	return c != nil && c.Configured()
}

func clip(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "…"
}
