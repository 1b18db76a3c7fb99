package http

import (
	"bytes"
	"encoding/json"
	stdhttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"microlend-engine/internal/adapter/middleware"
	"microlend-engine/internal/infrastructure/cache"
	"microlend-engine/internal/testutil/dbtest"
	"microlend-engine/internal/usecase/compliance"
	"microlend-engine/internal/usecase/disbursement"
	"microlend-engine/internal/usecase/loan"
	"microlend-engine/internal/usecase/payment"
	"microlend-engine/internal/usecase/risk"
	"microlend-engine/internal/usecase/scoring"
)

// -------- helpers --------

var engineStart = time.Date(2026, 1, 15, 9, 30, 0, 0, time.UTC)

func newEchoWithValidator() *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator()
	return e
}

func mustJSON(v any) *bytes.Reader {
	b, _ := json.Marshal(v)
	return bytes.NewReader(b)
}

func containsFieldMsg(fe []FieldError, field, contains string) bool {
	for _, e := range fe {
		if e.Field == field && strings.Contains(e.Message, contains) {
			return true
		}
	}
	return false
}

type testServer struct {
	e   *echo.Echo
	env *dbtest.Env
}

// newServer wires every route over sqlite and an in-memory idempotency store.
func newServer(t *testing.T) *testServer {
	t.Helper()
	env := dbtest.New(t, engineStart)
	d := env.Deps
	log := d.Log

	e := newEchoWithValidator()
	Register(e, Handlers{
		Base:         NewHandler(d.Metrics),
		Loans:        NewLoanHandler(loan.NewUsecase(d), log),
		Disbursement: NewDisbursementHandler(disbursement.NewUsecase(d), log),
		Payments:     NewPaymentHandler(payment.NewUsecase(d), log),
		Risk:         NewRiskHandler(risk.NewUsecase(d), scoring.NewUsecase(d), log),
		Compliance:   NewComplianceHandler(compliance.NewUsecase(d), log),
	}, middleware.Idempotency(cache.NewMemoryStore(), time.Hour, log))
	return &testServer{e: e, env: env}
}

func (s *testServer) do(t *testing.T, method, path, actor string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var req *stdhttp.Request
	if body == nil {
		req = httptest.NewRequest(method, path, nil)
	} else if raw, ok := body.(string); ok {
		req = httptest.NewRequest(method, path, strings.NewReader(raw))
	} else {
		req = httptest.NewRequest(method, path, mustJSON(body))
	}
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req.Header.Set(middleware.HeaderRequestID, uuid.NewString())
	req.Header.Set(middleware.HeaderRequestAt, time.Now().UTC().Format(time.RFC3339Nano))
	if actor != "" {
		req.Header.Set(middleware.HeaderActorID, actor)
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("bad json: %v; raw=%s", err, rec.Body.String())
	}
	return out
}

func loanBody(requiresAcceptance bool) map[string]any {
	return map[string]any{
		"borrower_id":                  dbtest.Borrower,
		"lender_id":                    dbtest.Lender,
		"currency":                     "ZAR",
		"principal":                    10000,
		"base_rate_percent":            "30",
		"extra_rate_per_installment":   "2",
		"payment_type":                 "installments",
		"installment_count":            3,
		"requires_borrower_acceptance": requiresAcceptance,
	}
}

// createLoan posts a loan as the lender and returns its id.
func (s *testServer) createLoan(t *testing.T, requiresAcceptance bool) string {
	t.Helper()
	rec := s.do(t, stdhttp.MethodPost, "/loans", dbtest.Lender, loanBody(requiresAcceptance))
	if rec.Code != stdhttp.StatusCreated {
		t.Fatalf("create loan: status = %d body=%s", rec.Code, rec.Body.String())
	}
	return decode[loan.LoanDTO](t, rec).LoanID
}

// newRequest builds a mutating request with a fresh Ax-Request-At; callers set the rest.
func newRequest(method, path string, body any) *stdhttp.Request {
	req := httptest.NewRequest(method, path, mustJSON(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req.Header.Set(middleware.HeaderRequestAt, time.Now().UTC().Format(time.RFC3339Nano))
	return req
}

func serve(s *testServer, req *stdhttp.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}
