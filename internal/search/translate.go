package search

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/vijay-prabhu/roomfinder-mcp/internal/textnorm"
)

const translatePrompt = `Translate this property search query to Vietnamese:
"%s"

Reply ONLY with the Vietnamese translation, no explanation.`

// Translator turns non-Vietnamese queries into Vietnamese with the same
// providers the parser uses, in the same order.
type Translator struct {
	providers []Provider
	timeout   time.Duration
	logger    *zap.Logger
}

// NewTranslator creates a translator over providers
func NewTranslator(providers []Provider, timeout time.Duration, logger *zap.Logger) *Translator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Translator{providers: providers, timeout: timeout, logger: logger}
}

// Translate expands university nicknames and returns the result unchanged
// if it already carries Vietnamese diacritics. Otherwise each provider is
// asked in turn; when all fail the original query is returned.
func (t *Translator) Translate(ctx context.Context, query string) string {
	expanded := ExpandUniversityQuery(query)
	if textnorm.HasDiacritics(expanded) {
		return expanded
	}

	for _, p := range t.providers {
		out, err := t.complete(ctx, p, expanded)
		if err != nil {
			t.logger.Warn("translation failed, trying next provider",
				zap.String("provider", p.Name),
				zap.Error(err),
			)
			continue
		}
		t.logger.Debug("query translated",
			zap.String("provider", p.Name),
			zap.String("from", query),
			zap.String("to", out),
		)
		return out
	}
	return query
}

func (t *Translator) complete(ctx context.Context, p Provider, query string) (string, error) {
	if p.Completer == nil {
		return "", fmt.Errorf("%s: no completer configured", p.Name)
	}
	if t.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.timeout)
		defer cancel()
	}

	reply, err := p.Completer.Complete(ctx, fmt.Sprintf(translatePrompt, query))
	if err != nil {
		return "", err
	}
	out := strings.Trim(strings.TrimSpace(reply), `"`)
	if out == "" {
		return "", fmt.Errorf("%s returned an empty translation", p.Name)
	}
	return out, nil
}
