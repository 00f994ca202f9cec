package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"zakat-service/internal/handler"
)

func SetupRoutes(
	r chi.Router,
	zakatH *handler.ZakatHandler,
	paymentH *handler.PaymentHandler,
	txH *handler.TransactionHandler,
) chi.Router {
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-User-ID"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// ============================================================
	// Public Endpoints (Webhooks & Health)
	// ============================================================
	r.Group(func(pub chi.Router) {
		pub.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte("ok"))
		})

		// Midtrans delivers status updates here; always answered 200
		// except on storage failure.
		pub.Post("/payment/notification", paymentH.Notification)
	})

	// ============================================================
	// API Endpoints (identity injected upstream via X-User-ID)
	// ============================================================
	r.Group(func(api chi.Router) {
		api.Post("/zakat/calculate", zakatH.Calculate)
		api.Get("/zakat/config", zakatH.GetConfig)
		api.Put("/zakat/config", zakatH.UpdateConfig)

		api.Post("/payment", paymentH.CreateZakatPayment)
		api.Post("/infaq/payment", paymentH.CreateInfaqPayment)

		api.Get("/transactions", txH.List)
		api.Get("/transactions/statistics", txH.Statistics)
		api.Get("/transactions/{id}", txH.GetByID)
	})

	return r
}
