package expense_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"

	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"

	"hsaledger/internal"
	"hsaledger/internal/expense"
	"hsaledger/internal/transport"
)

// Mock service for handler tests
type mockExpenseService struct {
	expense     *expense.Expense
	list        []*expense.Expense
	err         error
	lastStatus  string
	lastGetID   string
	deleteError error
}

func (m *mockExpenseService) Create(ctx context.Context, dto expense.CreateExpenseDTO) (*expense.Expense, error) {
	return m.expense, m.err
}

func (m *mockExpenseService) Get(ctx context.Context, id string) (*expense.Expense, error) {
	m.lastGetID = id
	return m.expense, m.err
}

func (m *mockExpenseService) List(ctx context.Context, status string) ([]*expense.Expense, error) {
	m.lastStatus = status
	return m.list, m.err
}

func (m *mockExpenseService) Update(ctx context.Context, id string, dto expense.UpdateExpenseDTO) (*expense.Expense, error) {
	return m.expense, m.err
}

func (m *mockExpenseService) Archive(ctx context.Context, id string) (*expense.Expense, error) {
	return m.expense, m.err
}

func (m *mockExpenseService) Unarchive(ctx context.Context, id string) (*expense.Expense, error) {
	return m.expense, m.err
}

func (m *mockExpenseService) Delete(ctx context.Context, id string) error {
	return m.deleteError
}

func withRouteParam(req *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

var _ = Describe("ExpenseHandler", func() {
	var (
		handler     *expense.Handler
		mockService *mockExpenseService
	)

	BeforeEach(func() {
		mockService = &mockExpenseService{}
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		handler = expense.NewHandler(transport.NewBaseHandler(logger), mockService)
	})

	Describe("CreateExpense", func() {
		It("should return 201 and amounts as JSON strings", func() {
			mockService.expense = expense.NewExpense(expense.CreateExpenseDTO{
				Amount:        decimal.RequireFromString("180.00"),
				DatePaid:      "2026-01-14",
				PaymentMethod: "credit_card",
			})
			body, _ := json.Marshal(map[string]string{
				"amount":         "180.00",
				"date_paid":      "2026-01-14",
				"payment_method": "credit_card",
			})
			req := httptest.NewRequest(http.MethodPost, "/api/expenses", bytes.NewReader(body))
			rec := httptest.NewRecorder()

			handler.CreateExpense(rec, req)

			Expect(rec.Code).To(Equal(http.StatusCreated))

			var resp map[string]interface{}
			Expect(json.Unmarshal(rec.Body.Bytes(), &resp)).To(Succeed())
			Expect(resp["amount"]).To(Equal("180"))
			Expect(resp["payment_method"]).To(Equal("credit_card"))
		})

		It("should return 400 for a malformed body", func() {
			req := httptest.NewRequest(http.MethodPost, "/api/expenses", bytes.NewReader([]byte("{")))
			rec := httptest.NewRecorder()

			handler.CreateExpense(rec, req)

			Expect(rec.Code).To(Equal(http.StatusBadRequest))
		})

		It("should map validation errors onto 400", func() {
			mockService.err = internal.NewFieldValidationError("amount", "amount must be greater than 0")
			body, _ := json.Marshal(map[string]string{"amount": "0"})
			req := httptest.NewRequest(http.MethodPost, "/api/expenses", bytes.NewReader(body))
			rec := httptest.NewRecorder()

			handler.CreateExpense(rec, req)

			Expect(rec.Code).To(Equal(http.StatusBadRequest))
		})
	})

	Describe("ListExpenses", func() {
		It("should pass the status filter through and return a bare array", func() {
			mockService.list = []*expense.Expense{}
			req := httptest.NewRequest(http.MethodGet, "/api/expenses?status=archived", nil)
			rec := httptest.NewRecorder()

			handler.ListExpenses(rec, req)

			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(mockService.lastStatus).To(Equal("archived"))
			Expect(rec.Body.String()).To(HavePrefix("["))
		})
	})

	Describe("GetExpense", func() {
		It("should map not found onto 404", func() {
			mockService.err = internal.ErrExpenseNotFound
			req := withRouteParam(httptest.NewRequest(http.MethodGet, "/api/expenses/missing", nil), "id", "missing")
			rec := httptest.NewRecorder()

			handler.GetExpense(rec, req)

			Expect(rec.Code).To(Equal(http.StatusNotFound))
		})
	})

	Describe("DeleteExpense", func() {
		It("should return 204 on success", func() {
			req := withRouteParam(httptest.NewRequest(http.MethodDelete, "/api/expenses/exp-1", nil), "id", "exp-1")
			rec := httptest.NewRecorder()

			handler.DeleteExpense(rec, req)

			Expect(rec.Code).To(Equal(http.StatusNoContent))
			Expect(rec.Body.Len()).To(BeZero())
		})
	})
})
