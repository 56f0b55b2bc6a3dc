package rates

import (
	"context"
	"log/slog"
	"math"
	"sync"
)

// RateClient fetches the live JPY to TWD conversion rate.
type RateClient interface {
	FetchJPYToTWD(ctx context.Context) (float64, error)
}

// Config carries the hard-coded fallback rate.
type Config struct {
	DefaultRate float64
}

// Service converts yen amounts for display. It holds a single rate that
// is refreshed once at startup and never blocks callers.
type Service struct {
	cfg    Config
	client RateClient
	logger *slog.Logger

	mu      sync.RWMutex
	rate    float64
	fetched bool
}

// NewService constructs the converter seeded with the default rate.
func NewService(cfg Config, client RateClient, logger *slog.Logger) *Service {
	return &Service{
		cfg:    cfg,
		client: client,
		logger: logger.With("component", "rates.service"),
		rate:   cfg.DefaultRate,
	}
}

// Refresh attempts one live fetch. Failure keeps the current rate and is
// never fatal.
func (s *Service) Refresh(ctx context.Context) {
	if s.client == nil {
		return
	}
	rate, err := s.client.FetchJPYToTWD(ctx)
	if err != nil {
		s.logger.Warn("exchange rate fetch failed, keeping current rate", "error", err, "rate", s.Rate())
		return
	}
	if rate <= 0 {
		s.logger.Warn("exchange rate fetch returned non-positive value, keeping current rate", "value", rate)
		return
	}
	rounded := math.Round(rate*1000) / 1000

	s.mu.Lock()
	s.rate = rounded
	s.fetched = true
	s.mu.Unlock()

	s.logger.Info("exchange rate refreshed", "rate", rounded)
}

// Rate returns the conversion rate currently in effect.
func (s *Service) Rate() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.rate
}

// Live reports whether the rate came from a successful fetch rather than
// the built-in default.
func (s *Service) Live() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.fetched
}

// ToTWD converts a single yen amount, rounding to the nearest dollar.
func (s *Service) ToTWD(amountJpy int64) int64 {
	return int64(math.Round(float64(amountJpy) * s.Rate()))
}

// TotalTWD converts a running yen total, truncating the fraction.
func (s *Service) TotalTWD(totalJpy int64) int64 {
	return int64(math.Floor(float64(totalJpy) * s.Rate()))
}
