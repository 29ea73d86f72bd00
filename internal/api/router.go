package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/Arianguy/Banko-sub000/internal/api/handlers"
	custommiddleware "github.com/Arianguy/Banko-sub000/internal/api/middleware"
	"github.com/Arianguy/Banko-sub000/internal/config"
	"github.com/Arianguy/Banko-sub000/internal/service"
)

// NewRouter creates and configures the HTTP router
func NewRouter(
	systemService *service.SystemService,
	instrumentService *service.InstrumentService,
	transactionService *service.TransactionService,
	holdingService *service.HoldingService,
	portfolioService *service.PortfolioService,
	dividendService *service.DividendService,
	cfg *config.Config,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(custommiddleware.Logger)
	r.Use(middleware.Recoverer)

	// CORS middleware
	corsMiddleware := custommiddleware.NewCORS(cfg.CORS.AllowedOrigins)
	r.Use(corsMiddleware.Handler)

	// API routes
	r.Route("/api", func(r chi.Router) {
		// System namespace
		r.Route("/system", func(r chi.Router) {
			systemHandler := handlers.NewSystemHandler(systemService)
			r.Get("/health", systemHandler.Health)
			r.Get("/version", systemHandler.Version)
		})

		r.Route("/instruments", func(r chi.Router) {
			instrumentHandler := handlers.NewInstrumentHandler(instrumentService)
			r.Get("/", instrumentHandler.AllInstruments)
			r.Post("/", instrumentHandler.CreateInstrument)
			r.Route("/{instrumentId}", func(r chi.Router) {
				r.Use(custommiddleware.ValidateUUIDParam("instrumentId"))
				r.Get("/", instrumentHandler.GetInstrument)
				r.Get("/prices/latest", instrumentHandler.LatestPrice)
				r.Post("/prices/refresh", instrumentHandler.RefreshPrice)
			})
		})

		r.Route("/transactions", func(r chi.Router) {
			transactionHandler := handlers.NewTransactionHandler(transactionService)
			r.Get("/", transactionHandler.Transactions)
			r.Post("/", transactionHandler.CreateTransaction)
			r.With(custommiddleware.ValidateUUIDParam("transactionId")).
				Get("/{transactionId}", transactionHandler.GetTransaction)
		})

		holdingHandler := handlers.NewHoldingHandler(holdingService, portfolioService)
		r.Get("/holdings", holdingHandler.Holdings)
		r.Get("/portfolio/summary", holdingHandler.PortfolioSummary)
		r.Get("/realizations", holdingHandler.Realizations)

		dividendHandler := handlers.NewDividendHandler(dividendService)
		r.Route("/dividends", func(r chi.Router) {
			r.Get("/", dividendHandler.AllDividendEvents)
			r.Post("/", dividendHandler.CreateDividendEvent)
			r.With(custommiddleware.ValidateUUIDParam("dividendId")).
				Post("/{dividendId}/evaluate", dividendHandler.EvaluateEntitlement)
		})
		r.Route("/entitlements", func(r chi.Router) {
			r.Get("/", dividendHandler.Entitlements)
			r.With(custommiddleware.ValidateUUIDParam("entitlementId")).
				Post("/{entitlementId}/credit", dividendHandler.ConfirmCredit)
		})
	})

	return r
}
