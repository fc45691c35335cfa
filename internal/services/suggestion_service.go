package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/ristretto/v2"
	"go.uber.org/zap"

	"comunia/internal/ai"
	"comunia/internal/domain"
	"comunia/internal/repos"
)

// SuggestionService asks the generator for marketing ideas for a business and
// caches the answer per business.
type SuggestionService struct {
	Businesses *repos.BusinessRepo
	Gen        ai.Generator

	cache   *ristretto.Cache[int64, string]
	ttl     time.Duration
	timeout time.Duration
	log     *zap.Logger
}

func NewSuggestionService(b *repos.BusinessRepo, gen ai.Generator, ttl, timeout time.Duration, logger *zap.Logger) (*SuggestionService, error) {
	cache, err := ristretto.NewCache(&ristretto.Config[int64, string]{
		NumCounters: 10_000,
		MaxCost:     1 << 20, // bytes of suggestion text
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("suggestion cache: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	return &SuggestionService{
		Businesses: b,
		Gen:        gen,
		cache:      cache,
		ttl:        ttl,
		timeout:    timeout,
		log:        logger.Named("suggestions"),
	}, nil
}

func (s *SuggestionService) Close() { s.cache.Close() }

func suggestionPrompt(b domain.Business) string {
	return "Eres un asistente de marketing para emprendimientos locales de Santa Cruz, Bolivia. " +
		"Genera 5 sugerencias prácticas y accionables (títulos y bullets) para mejorar la visibilidad y ventas " +
		"del negocio:\n\nNombre: " + b.Name + "\nDescripción: " + b.Description + "\nUbicación: " + b.Location + "\n\n" +
		"Formato:\n- Título breve\n- 2 a 3 bullets con acciones concretas (menciona redes locales, hashtags, alianzas, ferias/mercados cruceños)."
}

// Suggest returns suggestions for an active business. Generator errors,
// including ai.ErrNotConfigured, are returned unchanged and never cached.
func (s *SuggestionService) Suggest(ctx context.Context, businessID int64) (string, error) {
	b, err := s.Businesses.Get(businessID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	if !b.Active {
		return "", ErrNotFound
	}
	if text, ok := s.cache.Get(businessID); ok {
		return text, nil
	}
	if s.Gen == nil {
		return "", ai.ErrNotConfigured
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	text, err := s.Gen.Generate(ctx, suggestionPrompt(b))
	if err != nil {
		return "", err
	}
	s.cache.SetWithTTL(businessID, text, int64(len(text)), s.ttl)
	s.cache.Wait()
	s.log.Debug("cached suggestions", zap.Int64("business_id", businessID), zap.Int("bytes", len(text)))
	return text, nil
}

// Forget drops cached suggestions, e.g. after the business profile changes.
func (s *SuggestionService) Forget(businessID int64) { s.cache.Del(businessID) }
