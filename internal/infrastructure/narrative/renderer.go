// Package narrative renders remodel sentences from Liquid templates.
package narrative

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/osteele/liquid"
	"github.com/spf13/cast"
	"gopkg.in/yaml.v3"

	"github.com/kirillkom/insurance-consult-kit/internal/core/domain"
	"github.com/kirillkom/insurance-consult-kit/internal/core/report"
)

//go:embed templates.yaml
var defaultTemplates []byte

type Renderer struct {
	templates map[string]*liquid.Template
}

// NewRenderer compiles the built-in templates.
func NewRenderer() (*Renderer, error) {
	return NewRendererFromYAML(defaultTemplates)
}

// NewRendererFromYAML compiles a key-to-template mapping.
func NewRendererFromYAML(data []byte) (*Renderer, error) {
	var sources map[string]string
	if err := yaml.Unmarshal(data, &sources); err != nil {
		return nil, fmt.Errorf("decode narrative templates: %w", err)
	}

	engine := liquid.NewEngine()
	// {{ amount | won }} -> 1,234,000
	engine.RegisterFilter("won", func(v any) string {
		return report.Grouped(cast.ToInt64(v))
	})

	r := &Renderer{templates: make(map[string]*liquid.Template, len(sources))}
	for key, src := range sources {
		tpl, err := engine.ParseString(src)
		if err != nil {
			return nil, fmt.Errorf("parse template %q: %w", key, err)
		}
		r.templates[key] = tpl
	}
	return r, nil
}

func (r *Renderer) Render(_ context.Context, sentences []domain.Sentence) ([]domain.Sentence, error) {
	out := make([]domain.Sentence, len(sentences))
	for i, s := range sentences {
		tpl, ok := r.templates[s.Key]
		if !ok {
			return nil, domain.WrapError(domain.ErrInvalidInput, "render narrative", fmt.Errorf("no template for %q", s.Key))
		}
		bindings := liquid.Bindings{}
		for k, v := range s.Vars {
			bindings[k] = v
		}
		text, err := tpl.RenderString(bindings)
		if err != nil {
			return nil, fmt.Errorf("render %q: %w", s.Key, err)
		}
		s.Text = text
		out[i] = s
	}
	return out, nil
}
