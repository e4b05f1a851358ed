package services

import (
	portsrepo "github.com/SscSPs/pricing_engine/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/pricing_engine/internal/core/ports/services"
	"github.com/SscSPs/pricing_engine/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.Currency = NewCurrencyService(repos.CurrencyRepo)
	container.ExchangeRate = NewExchangeRateService(repos.ExchangeRateRepo, container.Currency)
	container.Rounding = NewRoundingService(repos.RoundingConfigRepo)
	container.PriceLedger = NewPriceLedgerService(repos.PriceLedgerRepo, repos.PriceableItemRepo, repos.CurrencyRepo)

	// Revert and recalculation only write through the ledger service's Append
	container.Revert = NewRevertService(repos.PriceLedgerRepo, container.PriceLedger)
	container.Recalculation = NewRecalculationService(
		container.ExchangeRate,
		container.Currency,
		container.Rounding,
		repos.PriceableItemRepo,
		container.PriceLedger,
		WithChunkSize(cfg.RecalcChunkSize),
		WithWorkers(cfg.RecalcWorkers),
	)

	return container
}
