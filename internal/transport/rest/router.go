package rest

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"

	"hsaledger/internal/auth"
	"hsaledger/internal/category"
	"hsaledger/internal/expense"
	"hsaledger/internal/image"
	"hsaledger/internal/reimbursement"
	"hsaledger/internal/transport"
	"hsaledger/internal/transport/middleware"
	"hsaledger/internal/transport/swagger"
)

// Handlers bundles everything RegisterAllRoutes mounts.
type Handlers struct {
	Base          *transport.BaseHandler
	Verifier      auth.VerifierAPI
	Expense       *expense.Handler
	Category      *category.Handler
	Reimbursement *reimbursement.Handler
	Image         *image.Handler
	ReceiptDir    string
}

func RegisterAllRoutes(router *chi.Mux, db *sql.DB, h Handlers, allowedOrigins string, logger *slog.Logger) {
	healthHandler := NewHealthHandler(db)

	router.Use(middleware.CORS(allowedOrigins))
	router.Use(chiMiddleware.RequestID)
	router.Use(middleware.RequestID)
	router.Use(middleware.Logging(logger))
	router.Use(middleware.Recovery(logger))

	// OpenAPI spec and Swagger UI live outside the API prefix
	router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "./api/openapi.yml")
	})
	router.Handle("/swagger/*", swagger.Handler())

	router.Get("/health", healthHandler.healthCheckHandler)
	router.Get("/ping", healthHandler.pingHandler)

	// receipt blobs; URLs handed out by the image service point here
	if h.ReceiptDir != "" {
		router.Handle("/files/*", http.StripPrefix("/files/", http.FileServer(http.Dir(h.ReceiptDir))))
	}

	router.Route("/api", func(r chi.Router) {
		r.Use(auth.Middleware(h.Base, h.Verifier))

		r.Route("/expenses", func(er chi.Router) {
			er.Get("/", h.Expense.ListExpenses)
			er.Post("/", h.Expense.CreateExpense)
			er.Get("/{id}", h.Expense.GetExpense)
			er.Put("/{id}", h.Expense.UpdateExpense)
			er.Delete("/{id}", h.Expense.DeleteExpense)
			er.Patch("/{id}/archive", h.Expense.ArchiveExpense)
			er.Patch("/{id}/unarchive", h.Expense.UnarchiveExpense)
		})

		r.Get("/categories", h.Category.GetCategories)

		r.Route("/reimbursements", func(rr chi.Router) {
			rr.Post("/", h.Reimbursement.AddReimbursement)
			rr.Get("/summary/overall", h.Reimbursement.OverallSummary)
			rr.Get("/export", h.Reimbursement.ExportCSV)
			// one wildcard name for both verbs: GET takes an expense id,
			// DELETE a reimbursement id
			rr.Get("/{id}", h.Reimbursement.ListForExpense)
			rr.Delete("/{id}", h.Reimbursement.DeleteReimbursement)
		})

		r.Route("/images", func(ir chi.Router) {
			ir.Post("/upload", h.Image.Upload)
			// same shape as reimbursements: GET lists by expense id,
			// DELETE removes one image by its id
			ir.Get("/{id}", h.Image.ListForExpense)
			ir.Delete("/{id}", h.Image.DeleteImage)
		})
	})
}
