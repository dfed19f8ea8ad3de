package search

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/vijay-prabhu/roomfinder-mcp/internal/listing"
	"github.com/vijay-prabhu/roomfinder-mcp/internal/textnorm"
)

// Completer sends a single user prompt to a language model and returns the
// raw text reply.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Provider is a named completer
type Provider struct {
	Name      string
	Completer Completer
}

// Strategy turns a free-text query into a filter
type Strategy interface {
	Name() string
	Parse(ctx context.Context, query string) (*ParsedFilter, error)
}

// Chain tries each strategy in order and falls back to the deterministic
// parser when all of them fail. It never returns an error.
type Chain struct {
	strategies []Strategy
	fallback   *FallbackParser
	logger     *zap.Logger
}

// NewChain creates a chain over strategies. The fallback parser always runs
// last and does not need to be listed.
func NewChain(logger *zap.Logger, strategies ...Strategy) *Chain {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Chain{
		strategies: strategies,
		fallback:   NewFallbackParser(),
		logger:     logger,
	}
}

// Parse returns the first successful filter and the name of the strategy
// that produced it.
func (c *Chain) Parse(ctx context.Context, query string) (ParsedFilter, string) {
	for _, s := range c.strategies {
		f, err := s.Parse(ctx, query)
		if err == nil && f != nil {
			c.logger.Debug("query parsed", zap.String("strategy", s.Name()), zap.String("query", query))
			return *f, s.Name()
		}
		c.logger.Warn("query parser failed, trying next",
			zap.String("strategy", s.Name()),
			zap.Error(err),
		)
	}

	c.logger.Info("using fallback query parser", zap.String("query", query))
	return c.fallback.ParseQuery(query), c.fallback.Name()
}

// LLMStrategy parses queries by asking a language model for JSON
type LLMStrategy struct {
	provider Provider
	timeout  time.Duration
}

// NewLLMStrategy creates a strategy for provider. Each call is bounded by timeout.
func NewLLMStrategy(provider Provider, timeout time.Duration) *LLMStrategy {
	return &LLMStrategy{provider: provider, timeout: timeout}
}

// Name returns the provider name
func (s *LLMStrategy) Name() string {
	return s.provider.Name
}

// Parse expands university nicknames, prompts the model and decodes its reply
func (s *LLMStrategy) Parse(ctx context.Context, query string) (*ParsedFilter, error) {
	if s.provider.Completer == nil {
		return nil, errors.New("no completer configured")
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	reply, err := s.provider.Completer.Complete(ctx, BuildPrompt(ExpandUniversityQuery(query)))
	if err != nil {
		return nil, fmt.Errorf("%s completion failed: %w", s.provider.Name, err)
	}

	var f ParsedFilter
	if err := json.Unmarshal([]byte(StripCodeFence(reply)), &f); err != nil {
		return nil, fmt.Errorf("%s returned invalid JSON: %w", s.provider.Name, err)
	}
	f.applyUniversity()

	return &f, nil
}

// ExpandUniversityQuery appends the full name, district and city of a
// university nickname found in query, giving the model geographic context.
// Queries that already look expanded are returned unchanged.
func ExpandUniversityQuery(query string) string {
	lower := textnorm.Lower(query)
	if strings.Contains(lower, "gần đại học") || strings.Contains(lower, "tại quận") {
		return query
	}

	u, _, ok := listing.FindUniversity(query)
	if !ok {
		return query
	}
	return fmt.Sprintf("%s gần %s tại %s %s", query, u.Name, u.District, u.City)
}

// StripCodeFence removes a markdown code fence around a model reply and any
// prose outside the outermost JSON object.
func StripCodeFence(reply string) string {
	s := strings.TrimSpace(reply)

	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```")
		if nl := strings.IndexByte(s, '\n'); nl >= 0 && !strings.Contains(s[:nl], "{") {
			s = s[nl+1:]
		}
		if end := strings.LastIndex(s, "```"); end >= 0 {
			s = s[:end]
		}
		s = strings.TrimSpace(s)
	}

	if !strings.HasPrefix(s, "{") {
		start, end := strings.Index(s, "{"), strings.LastIndex(s, "}")
		if start >= 0 && end > start {
			s = s[start : end+1]
		}
	}
	return s
}

// BuildPrompt renders the extraction prompt for query
func BuildPrompt(query string) string {
	return fmt.Sprintf(parsePrompt, query)
}

const parsePrompt = `Bạn là AI chuyên phân tích câu tìm kiếm bất động sản cho thuê.
Hãy phân tích câu sau và trích xuất thông tin theo định dạng JSON chính xác:

Câu tìm kiếm: "%s"

Trả về JSON với các trường (chỉ trả JSON, không giải thích):
{
  "propertyType": "phong-tro" | "nha-nguyen-can" | "can-ho" | "chung-cu-mini" | "homestay" | null,
  "priceMin": number | null,
  "priceMax": number | null,
  "areaMin": number | null,
  "areaMax": number | null,
  "location": {
    "city": string | null,
    "district": string | null,
    "ward": string | null,
    "university": string | null
  },
  "amenities": {
    "wifi": boolean,
    "ac": boolean,
    "parking": boolean,
    "kitchen": boolean,
    "water": boolean,
    "laundry": boolean,
    "balcony": boolean,
    "security": boolean
  },
  "preferences": {
    "gender": "male" | "female" | "all" | null,
    "pets": boolean | null,
    "smoking": boolean | null
  },
  "bedrooms": number | null,
  "bathrooms": number | null,
  "intent": string
}

Lưu ý:
- Giá tính bằng đồng, "tr"/"triệu" là triệu (3tr = 3000000, 5 triệu = 5000000)
- "3-4tr" → priceMin: 3000000, priceMax: 4000000
- "dưới 5tr" → priceMax: 5000000
- "trên 10tr" → priceMin: 10000000
- Diện tích tính bằng m² (20-30m → areaMin: 20, areaMax: 30)
- "gần BK/Bách Khoa" → university: "Đại học Bách Khoa"
- "cho nữ/nữ ở" → gender: "female"
- "cho nam" → gender: "male"
- "ban công" → balcony: true
- "có wifi" → wifi: true
- intent: mô tả ngắn gọn ý định tìm kiếm`
