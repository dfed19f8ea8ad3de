package search

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/vijay-prabhu/roomfinder-mcp/internal/config"
	"github.com/vijay-prabhu/roomfinder-mcp/internal/listing"
)

const defaultMessage = "Tìm kiếm thành công"

// ListingStore supplies broad-phase candidates for a query
type ListingStore interface {
	FindListings(ctx context.Context, q listing.Query) ([]listing.Listing, error)
}

// Result is the response to a search
type Result struct {
	Query           string          `json:"query"`
	Parsed          ParsedFilter    `json:"parsed"`
	ParsedBy        string          `json:"parsedBy"`
	Count           int             `json:"count"`
	TotalMatches    int             `json:"totalMatches"`
	Data            []RankedListing `json:"data"`
	Message         string          `json:"message"`
	OriginalQuery   string          `json:"originalQuery,omitempty"`
	TranslatedQuery *string         `json:"translatedQuery,omitempty"`
}

// Service runs natural-language searches: parse, fetch candidates, rank
type Service struct {
	chain      *Chain
	translator *Translator
	store      ListingStore
	ranker     *Ranker
	broadLimit int
	translate  bool
	logger     *zap.Logger
}

// NewService creates a search service. translator may be nil, in which case
// multi-language searches skip translation.
func NewService(cfg config.SearchConfig, chain *Chain, translator *Translator, store ListingStore, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if chain == nil {
		chain = NewChain(logger)
	}
	return &Service{
		chain:      chain,
		translator: translator,
		store:      store,
		ranker:     NewRanker(cfg),
		broadLimit: cfg.BroadLimit,
		translate:  cfg.Translate,
		logger:     logger,
	}
}

// Ranker returns the ranker used for scoring, so callers can adjust its clock
func (s *Service) Ranker() *Ranker {
	return s.ranker
}

// Parse turns query into a filter without searching
func (s *Service) Parse(ctx context.Context, query string) (ParsedFilter, string) {
	return s.chain.Parse(ctx, query)
}

// Search parses query, fetches up to the broad limit of candidates and
// returns the ranked results. Parsing never fails; only the store can.
func (s *Service) Search(ctx context.Context, query string) (*Result, error) {
	parsed, parsedBy := s.chain.Parse(ctx, query)

	q := BuildQuery(parsed)
	q.Limit = s.broadLimit

	candidates, err := s.store.FindListings(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch listings: %w", err)
	}

	ranked := s.ranker.Rank(parsed, candidates)

	s.logger.Info("search completed",
		zap.String("query", query),
		zap.String("parsed_by", parsedBy),
		zap.Int("candidates", len(candidates)),
		zap.Int("results", len(ranked)),
	)
	for i, rl := range ranked {
		if i == 5 {
			break
		}
		s.logger.Debug("top result",
			zap.Int("rank", i+1),
			zap.Float64("score", rl.RelevanceScore),
			zap.String("title", rl.Title),
		)
	}

	message := parsed.Intent
	if message == "" {
		message = defaultMessage
	}

	return &Result{
		Query:        query,
		Parsed:       parsed,
		ParsedBy:     parsedBy,
		Count:        len(ranked),
		TotalMatches: len(candidates),
		Data:         ranked,
		Message:      message,
	}, nil
}

// SearchMultiLanguage translates a query without Vietnamese diacritics
// before searching. TranslatedQuery is set only when the text changed.
func (s *Service) SearchMultiLanguage(ctx context.Context, query string) (*Result, error) {
	translated := query
	if s.translate && s.translator != nil {
		translated = s.translator.Translate(ctx, query)
	}

	res, err := s.Search(ctx, translated)
	if err != nil {
		return nil, err
	}

	res.OriginalQuery = query
	if translated != query {
		res.TranslatedQuery = ptr(translated)
	}
	return res, nil
}
