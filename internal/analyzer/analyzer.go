package analyzer

import (
	"context"

	"go.uber.org/zap"

	"github.com/head-marketing/backend/internal/models"
)

// Analyzer turns a business URL into a structured website analysis.
type Analyzer interface {
	Analyze(ctx context.Context, url string) (*models.WebsiteAnalysis, error)
}

// Service chains page fetching with AI summarization.
type Service struct {
	fetcher *Fetcher
	ai      *DeepSeekClient
	log     *zap.Logger
}

func NewService(fetcher *Fetcher, ai *DeepSeekClient, log *zap.Logger) *Service {
	return &Service{fetcher: fetcher, ai: ai, log: log}
}

func (s *Service) Analyze(ctx context.Context, url string) (*models.WebsiteAnalysis, error) {
	page, err := s.fetcher.Fetch(ctx, url)
	if err != nil {
		s.log.Warn("website fetch failed", zap.String("url", url), zap.Error(err))
		return nil, err
	}
	return s.ai.Summarize(ctx, page)
}
