package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/SscSPs/pricing_engine/internal/apperrors"
	"github.com/SscSPs/pricing_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/pricing_engine/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/pricing_engine/internal/core/ports/services"
	"github.com/SscSPs/pricing_engine/internal/dto"
	"github.com/SscSPs/pricing_engine/internal/metrics"
	"golang.org/x/sync/errgroup"
)

const (
	defaultRecalcChunkSize = 500
	defaultRecalcWorkers   = 8
)

type recalculationService struct {
	BaseService
	rates      portssvc.ExchangeRateReaderSvc
	currencies portssvc.CurrencyReaderSvc
	rounding   portssvc.RoundingConfigProvider
	items      portsrepo.PriceableItemReader
	ledger     portssvc.PriceLedgerWriterSvc

	chunkSize int
	workers   int
	now       func() time.Time
}

// RecalculationOption is a functional option for configuring the recalculation service
type RecalculationOption func(*recalculationService)

// WithChunkSize sets how many items are read and applied per batch.
func WithChunkSize(n int) RecalculationOption {
	return func(s *recalculationService) {
		if n > 0 {
			s.chunkSize = n
		}
	}
}

// WithWorkers bounds how many appends of a batch run in parallel.
func WithWorkers(n int) RecalculationOption {
	return func(s *recalculationService) {
		if n > 0 {
			s.workers = n
		}
	}
}

// WithClock replaces time.Now, which decides both the rate date and the append instant.
func WithClock(now func() time.Time) RecalculationOption {
	return func(s *recalculationService) {
		s.now = now
	}
}

// NewRecalculationService creates the recalculation engine.
func NewRecalculationService(
	rates portssvc.ExchangeRateReaderSvc,
	currencies portssvc.CurrencyReaderSvc,
	rounding portssvc.RoundingConfigProvider,
	items portsrepo.PriceableItemReader,
	ledger portssvc.PriceLedgerWriterSvc,
	options ...RecalculationOption,
) portssvc.RecalculationSvcFacade {
	svc := &recalculationService{
		rates:      rates,
		currencies: currencies,
		rounding:   rounding,
		items:      items,
		ledger:     ledger,
		chunkSize:  defaultRecalcChunkSize,
		workers:    defaultRecalcWorkers,
		now:        time.Now,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.RecalculationSvcFacade = (*recalculationService)(nil)

func (s *recalculationService) Simulate(ctx context.Context, req dto.RecalculationRequest) (*domain.RecalculationSummary, error) {
	return s.run(ctx, req, true, "")
}

func (s *recalculationService) Commit(ctx context.Context, req dto.RecalculationRequest, userID string) (*domain.RecalculationSummary, error) {
	return s.run(ctx, req, false, userID)
}

func (s *recalculationService) run(ctx context.Context, req dto.RecalculationRequest, dryRun bool, userID string) (summary *domain.RecalculationSummary, err error) {
	kind := "commit"
	if dryRun {
		kind = "simulate"
	}
	start := time.Now()
	cfg := s.rounding.Current()
	defer func() {
		metrics.RecalculationDuration.WithLabelValues(kind).Observe(time.Since(start).Seconds())
		metrics.RecalculationsTotal.WithLabelValues(kind, string(cfg.Mode), recalcOutcome(summary, err)).Inc()
	}()

	from, to, err := normalizePair(req.OriginCurrencyCode, req.DestinationCurrencyCode)
	if err != nil {
		return nil, err
	}
	if err := s.checkDestinationIsLocal(ctx, to); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	rate, err := s.rates.GetRateEffectiveOn(ctx, from, to, now)
	if err != nil {
		// Never defaulted: a missing rate must reach the caller.
		return nil, err
	}

	note := strings.TrimSpace(req.Note)
	reason := note
	if reason == "" {
		reason = domain.ReasonRecalculation
	}

	logger := s.GetLogger(ctx).With(
		slog.String("recalculation", kind),
		slog.String("origin", from),
		slog.String("destination", to))

	items := make([]domain.RecalculationImpactItem, 0)
	summarize := func(interrupted bool) *domain.RecalculationSummary {
		return &domain.RecalculationSummary{
			OriginCurrency:      from,
			DestinationCurrency: to,
			Rate:                *rate,
			RoundingConfig:      cfg,
			Note:                note,
			DryRun:              dryRun,
			Items:               items,
			Impact:              domain.Summarize(items),
			CalculatedAt:        now,
			Interrupted:         interrupted,
		}
	}

	afterID := ""
	for {
		// Earlier chunks are already applied, so a stop hands back what was done.
		if err := ctx.Err(); err != nil {
			logger.Warn("Recalculation interrupted", slog.Int("processed", len(items)), slog.String("error", err.Error()))
			return summarize(true), fmt.Errorf("recalculation interrupted after %d items: %w", len(items), err)
		}

		chunk, err := s.items.ListPricedItemsByCurrency(ctx, from, afterID, s.chunkSize)
		if err != nil {
			s.LogError(ctx, err, "Failed to read priceable items", slog.String("after_id", afterID))
			err = fmt.Errorf("failed to read items denominated in %s: %w", from, err)
			if len(items) == 0 {
				return nil, err
			}
			return summarize(true), err
		}
		if len(chunk) == 0 {
			break
		}

		impacts := make([]domain.RecalculationImpactItem, len(chunk))
		for i, priced := range chunk {
			newPrice := domain.Round(rate.Convert(priced.Item.ReferencePrice), cfg)
			impacts[i] = classify(domain.NewImpactItem(priced.Item, priced.CurrentPrice, newPrice))
		}
		if !dryRun {
			s.apply(ctx, impacts, reason, now, userID)
		}
		items = append(items, impacts...)

		afterID = chunk[len(chunk)-1].Item.PriceableItemID
		if len(chunk) < s.chunkSize {
			break
		}
	}

	summary = summarize(false)

	logger.Info("Recalculation finished",
		slog.Int("items", len(items)),
		slog.Int("increased", summary.Impact.Increased),
		slog.Int("decreased", summary.Impact.Decreased),
		slog.Int("unchanged", summary.Impact.Unchanged),
		slog.Int("applied", summary.Impact.Applied),
		slog.Int("failed", summary.Impact.Failed))
	return summary, nil
}

// classify settles the items whose outcome does not depend on a write.
func classify(impact domain.RecalculationImpactItem) domain.RecalculationImpactItem {
	switch {
	case !impact.Changed():
		impact.Status = domain.ImpactSkipped
	case !impact.NewPrice.IsPositive():
		impact.Status = domain.ImpactFailed
		impact.Error = apperrors.NewValidationError(
			fmt.Sprintf("rounded price %s is not positive", impact.NewPrice.String())).Error()
	}
	return impact
}

// apply appends every pending impact of a batch. Appends are independent: a failing
// item is reported on its own entry and never cancels the others.
func (s *recalculationService) apply(ctx context.Context, impacts []domain.RecalculationImpactItem, reason string, now time.Time, userID string) {
	var g errgroup.Group
	g.SetLimit(s.workers)

	for i := range impacts {
		if impacts[i].Status != domain.ImpactPending {
			metrics.RecalculationItemsTotal.WithLabelValues(string(impacts[i].Status)).Inc()
			continue
		}
		g.Go(func() error {
			it := &impacts[i]
			reasonCode := reason
			entry, err := s.ledger.Append(ctx, it.PriceableItemID, it.NewPrice, &reasonCode, now, userID)
			if err != nil {
				it.Status = domain.ImpactFailed
				it.Error = err.Error()
				s.LogWarn(ctx, "Recalculated price not applied",
					slog.String("item_id", it.PriceableItemID),
					slog.String("error", err.Error()))
			} else {
				it.Status = domain.ImpactApplied
				it.EntryID = entry.EntryID
			}
			metrics.RecalculationItemsTotal.WithLabelValues(string(it.Status)).Inc()
			return nil
		})
	}
	_ = g.Wait()
}

// checkDestinationIsLocal keeps ledger prices in the local currency.
func (s *recalculationService) checkDestinationIsLocal(ctx context.Context, to string) error {
	local, err := s.currencies.GetLocalCurrency(ctx)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return apperrors.NewValidationError("no local currency is configured")
		}
		return fmt.Errorf("failed to resolve local currency: %w", err)
	}
	if local.CurrencyCode != to {
		return apperrors.NewValidationError(fmt.Sprintf("destination currency must be the local currency %s, got %s", local.CurrencyCode, to))
	}
	return nil
}

func recalcOutcome(summary *domain.RecalculationSummary, err error) string {
	switch {
	case errors.Is(err, apperrors.ErrRateNotFound):
		return "rate_not_found"
	case errors.Is(err, apperrors.ErrValidation):
		return "invalid"
	case summary != nil && summary.Interrupted:
		return "interrupted"
	case err != nil:
		return "error"
	case summary != nil && summary.Impact.Failed > 0:
		return "partial"
	}
	return "ok"
}
