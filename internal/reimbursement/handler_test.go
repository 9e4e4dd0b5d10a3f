package reimbursement_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"time"

	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"

	"hsaledger/internal"
	"hsaledger/internal/reimbursement"
	"hsaledger/internal/transport"
)

// Mock service for handler tests
type mockReimbursementService struct {
	addResult    *reimbursement.Reimbursement
	addError     error
	deleteError  error
	listResult   []*reimbursement.Reimbursement
	summary      reimbursement.SummaryResponse
	exportRows   []reimbursement.ExpenseSummary
	lastListedID string
}

func (m *mockReimbursementService) Add(ctx context.Context, dto reimbursement.AddReimbursementDTO) (*reimbursement.Reimbursement, error) {
	if m.addError != nil {
		return nil, m.addError
	}
	return m.addResult, nil
}

func (m *mockReimbursementService) Delete(ctx context.Context, id string) error {
	return m.deleteError
}

func (m *mockReimbursementService) ListForExpense(ctx context.Context, expenseID string) ([]*reimbursement.Reimbursement, error) {
	m.lastListedID = expenseID
	return m.listResult, nil
}

func (m *mockReimbursementService) Summary(ctx context.Context, r reimbursement.DateRange) (reimbursement.SummaryResponse, error) {
	return m.summary, nil
}

func (m *mockReimbursementService) ExportRows(ctx context.Context, r reimbursement.DateRange) ([]reimbursement.ExpenseSummary, error) {
	return m.exportRows, nil
}

var _ = Describe("ReimbursementHandler", func() {
	var (
		handler     *reimbursement.Handler
		mockService *mockReimbursementService
	)

	BeforeEach(func() {
		mockService = &mockReimbursementService{}
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		handler = reimbursement.NewHandler(transport.NewBaseHandler(logger), mockService)
	})

	Describe("AddReimbursement", func() {
		It("should return 201 with the recorded entry", func() {
			mockService.addResult = reimbursement.NewReimbursement(reimbursement.AddReimbursementDTO{
				ExpenseID: "exp-1",
				Amount:    decimal.RequireFromString("60.00"),
			})
			body, _ := json.Marshal(map[string]string{"expense_id": "exp-1", "amount": "60.00"})
			req := httptest.NewRequest(http.MethodPost, "/api/reimbursements", bytes.NewReader(body))
			rec := httptest.NewRecorder()

			handler.AddReimbursement(rec, req)

			Expect(rec.Code).To(Equal(http.StatusCreated))

			var resp map[string]interface{}
			Expect(json.Unmarshal(rec.Body.Bytes(), &resp)).To(Succeed())
			Expect(resp["expense_id"]).To(Equal("exp-1"))
			// decimal amounts travel as JSON strings
			Expect(resp["amount"]).To(Equal("60"))
		})

		It("should write the over-limit figures flat in the response body", func() {
			mockService.addError = internal.NewOverLimitError(
				decimal.RequireFromString("100.00"),
				decimal.RequireFromString("60.00"),
				decimal.RequireFromString("50.00"),
			)
			body, _ := json.Marshal(map[string]string{"expense_id": "exp-1", "amount": "50.00"})
			req := httptest.NewRequest(http.MethodPost, "/api/reimbursements", bytes.NewReader(body))
			rec := httptest.NewRecorder()

			handler.AddReimbursement(rec, req)

			Expect(rec.Code).To(Equal(http.StatusUnprocessableEntity))

			var resp map[string]interface{}
			Expect(json.Unmarshal(rec.Body.Bytes(), &resp)).To(Succeed())
			Expect(resp["message"]).To(Equal("Reimbursement amount exceeds original expense amount"))
			Expect(resp).To(HaveKey("expenseAmount"))
			Expect(resp).To(HaveKey("currentTotal"))
			Expect(resp).To(HaveKey("attemptedAmount"))
		})

		It("should return 400 for a malformed body", func() {
			req := httptest.NewRequest(http.MethodPost, "/api/reimbursements", bytes.NewReader([]byte("{")))
			rec := httptest.NewRecorder()

			handler.AddReimbursement(rec, req)

			Expect(rec.Code).To(Equal(http.StatusBadRequest))
		})
	})

	Describe("ListForExpense", func() {
		It("should pass the expense id from the route and return a bare array", func() {
			mockService.listResult = []*reimbursement.Reimbursement{}

			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("id", "exp-1")
			req := httptest.NewRequest(http.MethodGet, "/api/reimbursements/exp-1", nil)
			req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
			rec := httptest.NewRecorder()

			handler.ListForExpense(rec, req)

			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(mockService.lastListedID).To(Equal("exp-1"))
			Expect(rec.Body.String()).To(HavePrefix("["))
		})
	})

	Describe("DeleteReimbursement", func() {
		It("should return 204 on success", func() {
			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("id", "rb-1")
			req := httptest.NewRequest(http.MethodDelete, "/api/reimbursements/rb-1", nil)
			req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
			rec := httptest.NewRecorder()

			handler.DeleteReimbursement(rec, req)

			Expect(rec.Code).To(Equal(http.StatusNoContent))
		})

		It("should map not found onto 404", func() {
			mockService.deleteError = internal.ErrReimbursementNotFound

			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("id", "missing")
			req := httptest.NewRequest(http.MethodDelete, "/api/reimbursements/missing", nil)
			req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
			rec := httptest.NewRecorder()

			handler.DeleteReimbursement(rec, req)

			Expect(rec.Code).To(Equal(http.StatusNotFound))
		})
	})

	Describe("OverallSummary", func() {
		It("should reject a bad range before calling the service", func() {
			req := httptest.NewRequest(http.MethodGet, "/api/reimbursements/summary/overall?year=abc", nil)
			rec := httptest.NewRecorder()

			handler.OverallSummary(rec, req)

			Expect(rec.Code).To(Equal(http.StatusBadRequest))
		})

		It("should return the summary as camelCase JSON", func() {
			mockService.summary = reimbursement.SummaryResponse{
				TotalEligible:   150,
				TotalReimbursed: 110,
				Remaining:       40,
				ByCategory:      []reimbursement.CategorySummary{},
				ByExpense:       []reimbursement.ExpenseSummary{},
			}
			req := httptest.NewRequest(http.MethodGet, "/api/reimbursements/summary/overall", nil)
			rec := httptest.NewRecorder()

			handler.OverallSummary(rec, req)

			Expect(rec.Code).To(Equal(http.StatusOK))

			var resp map[string]interface{}
			Expect(json.Unmarshal(rec.Body.Bytes(), &resp)).To(Succeed())
			Expect(resp["totalEligible"]).To(Equal(150.0))
			Expect(resp["totalReimbursed"]).To(Equal(110.0))
			Expect(resp["remaining"]).To(Equal(40.0))
		})
	})

	Describe("ExportCSV", func() {
		It("should set the download headers and stream the rows", func() {
			last := time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC)
			mockService.exportRows = []reimbursement.ExpenseSummary{
				{
					ExpenseID:        "a",
					DatePaid:         time.Date(2024, time.January, 14, 0, 0, 0, 0, time.UTC),
					TotalEligible:    180,
					TotalReimbursed:  180,
					LastReimbursedAt: &last,
				},
			}
			req := httptest.NewRequest(http.MethodGet, "/api/reimbursements/export?year=2024", nil)
			rec := httptest.NewRecorder()

			handler.ExportCSV(rec, req)

			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(rec.Header().Get("Content-Type")).To(ContainSubstring("text/csv"))
			Expect(rec.Header().Get("Content-Disposition")).To(ContainSubstring("hsa-reimbursements-2024.csv"))
			Expect(rec.Body.String()).To(HavePrefix("Date,Description,Amount,Reimbursed,Remaining"))
		})
	})
})
