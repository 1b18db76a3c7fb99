package http

import (
	stdhttp "net/http"
	"testing"

	"microlend-engine/internal/testutil/dbtest"
	uc "microlend-engine/internal/usecase/loan"
)

func TestCreateLoan_Success(t *testing.T) {
	s := newServer(t)

	rec := s.do(t, stdhttp.MethodPost, "/loans", dbtest.Lender, loanBody(false))
	if rec.Code != stdhttp.StatusCreated {
		t.Fatalf("status = %d, want 201; body=%s", rec.Code, rec.Body.String())
	}
	got := decode[uc.LoanDTO](t, rec)
	if got.Status != "active" || got.TotalAmount != 13400 || got.Balance != 13400 {
		t.Fatalf("unexpected dto: %+v", got)
	}
	if len(got.Schedule) != 3 || got.Schedule[0].AmountDue != 4467 || got.Schedule[2].AmountDue != 4466 {
		t.Fatalf("unexpected schedule: %+v", got.Schedule)
	}
}

func TestCreateLoan_BindError(t *testing.T) {
	s := newServer(t)

	rec := s.do(t, stdhttp.MethodPost, "/loans", dbtest.Lender, `{"principal":`)
	if rec.Code != stdhttp.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestCreateLoan_ValidationError(t *testing.T) {
	s := newServer(t)

	body := loanBody(false)
	delete(body, "borrower_id")
	body["payment_type"] = "weekly"
	rec := s.do(t, stdhttp.MethodPost, "/loans", dbtest.Lender, body)
	if rec.Code != stdhttp.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422; body=%s", rec.Code, rec.Body.String())
	}
	resp := decode[ErrorResponse](t, rec)
	if !containsFieldMsg(resp.Details, "BorrowerID", "is required") {
		t.Fatalf("missing BorrowerID detail: %+v", resp.Details)
	}
	if !containsFieldMsg(resp.Details, "PaymentType", "must be one of") {
		t.Fatalf("missing PaymentType detail: %+v", resp.Details)
	}
}

func TestCreateLoan_DomainErrors(t *testing.T) {
	tests := []struct {
		name   string
		actor  string
		mutate func(map[string]any)
		want   int
	}{
		{"actor is not the lender", dbtest.Stranger, func(map[string]any) {}, stdhttp.StatusForbidden},
		{"rate out of range", dbtest.Lender, func(b map[string]any) { b["base_rate_percent"] = "101" }, stdhttp.StatusUnprocessableEntity},
		{"principal below floor", dbtest.Lender, func(b map[string]any) { b["principal"] = 500 }, stdhttp.StatusUnprocessableEntity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newServer(t)
			body := loanBody(false)
			tt.mutate(body)
			rec := s.do(t, stdhttp.MethodPost, "/loans", tt.actor, body)
			if rec.Code != tt.want {
				t.Fatalf("status = %d, want %d; body=%s", rec.Code, tt.want, rec.Body.String())
			}
		})
	}
}

func TestCreateLoan_OpenLoanConflict(t *testing.T) {
	s := newServer(t)
	s.createLoan(t, false)

	rec := s.do(t, stdhttp.MethodPost, "/loans", dbtest.Lender, loanBody(false))
	if rec.Code != stdhttp.StatusConflict {
		t.Fatalf("status = %d, want 409", rec.Code)
	}
}

func TestCreateLoan_MissingActorHeader(t *testing.T) {
	s := newServer(t)

	rec := s.do(t, stdhttp.MethodPost, "/loans", "", loanBody(false))
	if rec.Code != stdhttp.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestGetLoan(t *testing.T) {
	s := newServer(t)
	loanID := s.createLoan(t, true)

	rec := s.do(t, stdhttp.MethodGet, "/loans/"+loanID, "", nil)
	if rec.Code != stdhttp.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	got := decode[uc.LoanDTO](t, rec)
	if got.LoanID != loanID || got.Status != "pending_offer" || !got.SchedulePreview {
		t.Fatalf("unexpected dto: %+v", got)
	}

	rec = s.do(t, stdhttp.MethodGet, "/loans/"+dbtest.Stranger, "", nil)
	if rec.Code != stdhttp.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestOfferTransitions(t *testing.T) {
	t.Run("borrower accepts", func(t *testing.T) {
		s := newServer(t)
		loanID := s.createLoan(t, true)

		rec := s.do(t, stdhttp.MethodPost, "/loans/"+loanID+"/accept", dbtest.Lender, nil)
		if rec.Code != stdhttp.StatusForbidden {
			t.Fatalf("lender accept: status = %d, want 403", rec.Code)
		}
		rec = s.do(t, stdhttp.MethodPost, "/loans/"+loanID+"/accept", dbtest.Borrower, nil)
		if rec.Code != stdhttp.StatusOK {
			t.Fatalf("status = %d, want 200; body=%s", rec.Code, rec.Body.String())
		}
		if got := decode[uc.LoanDTO](t, rec); got.Status != "pending_disbursement" {
			t.Fatalf("status = %s", got.Status)
		}
	})

	t.Run("borrower declines, then cannot accept", func(t *testing.T) {
		s := newServer(t)
		loanID := s.createLoan(t, true)

		rec := s.do(t, stdhttp.MethodPost, "/loans/"+loanID+"/decline", dbtest.Borrower, map[string]any{"reason": "found cheaper"})
		if rec.Code != stdhttp.StatusOK {
			t.Fatalf("status = %d, want 200; body=%s", rec.Code, rec.Body.String())
		}
		if got := decode[uc.LoanDTO](t, rec); got.Status != "declined" {
			t.Fatalf("status = %s", got.Status)
		}
		rec = s.do(t, stdhttp.MethodPost, "/loans/"+loanID+"/accept", dbtest.Borrower, nil)
		if rec.Code != stdhttp.StatusConflict {
			t.Fatalf("accept after decline: status = %d, want 409", rec.Code)
		}
	})

	t.Run("lender writes off", func(t *testing.T) {
		s := newServer(t)
		loanID := s.createLoan(t, false)

		rec := s.do(t, stdhttp.MethodPost, "/loans/"+loanID+"/write-off", dbtest.Lender, map[string]any{"reason": "uncollectable"})
		if rec.Code != stdhttp.StatusOK {
			t.Fatalf("status = %d, want 200; body=%s", rec.Code, rec.Body.String())
		}
		if got := decode[uc.LoanDTO](t, rec); got.Status != "written_off" || got.StatusReason != "uncollectable" {
			t.Fatalf("unexpected dto: %+v", got)
		}
	})
}

func TestGetLoan_MalformedID(t *testing.T) {
	s := newServer(t)

	rec := s.do(t, stdhttp.MethodGet, "/loans/LOAN-1", "", nil)
	if rec.Code != stdhttp.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rec.Code)
	}
	if resp := decode[ErrorResponse](t, rec); !containsFieldMsg(resp.Details, "loan_id", "32-char lowercase hex") {
		t.Fatalf("unexpected details: %+v", resp.Details)
	}
}
