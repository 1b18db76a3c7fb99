package http

import (
	stdhttp "net/http"
	"testing"

	"microlend-engine/internal/testutil/dbtest"
	ucDisbursement "microlend-engine/internal/usecase/disbursement"
	ucLoan "microlend-engine/internal/usecase/loan"
)

func proofBody() map[string]any {
	return map[string]any{
		"amount":    10000,
		"method":    "eft",
		"reference": "TRX-1",
		"proof_url": "https://cdn.example.com/transfer.png",
	}
}

// acceptedLoan returns a loan waiting for disbursement.
func acceptedLoan(t *testing.T, s *testServer) string {
	t.Helper()
	loanID := s.createLoan(t, true)
	rec := s.do(t, stdhttp.MethodPost, "/loans/"+loanID+"/accept", dbtest.Borrower, nil)
	if rec.Code != stdhttp.StatusOK {
		t.Fatalf("accept: status = %d body=%s", rec.Code, rec.Body.String())
	}
	return loanID
}

func TestDisbursement_SubmitThenConfirmActivates(t *testing.T) {
	s := newServer(t)
	loanID := acceptedLoan(t, s)
	path := "/loans/" + loanID + "/disbursement"

	// confirming before the lender submits
	rec := s.do(t, stdhttp.MethodPost, path+"/confirm", dbtest.Borrower, nil)
	if rec.Code != stdhttp.StatusConflict {
		t.Fatalf("early confirm: status = %d, want 409", rec.Code)
	}

	rec = s.do(t, stdhttp.MethodPost, path, dbtest.Lender, proofBody())
	if rec.Code != stdhttp.StatusCreated {
		t.Fatalf("submit: status = %d, want 201; body=%s", rec.Code, rec.Body.String())
	}
	p := decode[ucDisbursement.ProofDTO](t, rec)
	if p.LoanID != loanID || p.Amount != 10000 || p.LenderSubmittedAt.IsZero() {
		t.Fatalf("unexpected proof: %+v", p)
	}

	rec = s.do(t, stdhttp.MethodPost, path, dbtest.Lender, proofBody())
	if rec.Code != stdhttp.StatusConflict {
		t.Fatalf("second submit: status = %d, want 409", rec.Code)
	}

	rec = s.do(t, stdhttp.MethodPost, path+"/confirm", dbtest.Lender, nil)
	if rec.Code != stdhttp.StatusForbidden {
		t.Fatalf("lender confirm: status = %d, want 403", rec.Code)
	}

	rec = s.do(t, stdhttp.MethodPost, path+"/confirm", dbtest.Borrower, nil)
	if rec.Code != stdhttp.StatusOK {
		t.Fatalf("confirm: status = %d, want 200; body=%s", rec.Code, rec.Body.String())
	}
	if got := decode[ucDisbursement.ProofDTO](t, rec); got.LoanStatus != "active" || got.BorrowerConfirmedAt == nil {
		t.Fatalf("unexpected proof: %+v", got)
	}

	rec = s.do(t, stdhttp.MethodGet, "/loans/"+loanID, "", nil)
	if got := decode[ucLoan.LoanDTO](t, rec); got.Status != "active" {
		t.Fatalf("loan status = %s, want active", got.Status)
	}
}

func TestDisbursement_Dispute(t *testing.T) {
	s := newServer(t)
	loanID := acceptedLoan(t, s)
	path := "/loans/" + loanID + "/disbursement"

	if rec := s.do(t, stdhttp.MethodPost, path, dbtest.Lender, proofBody()); rec.Code != stdhttp.StatusCreated {
		t.Fatalf("submit: status = %d", rec.Code)
	}

	rec := s.do(t, stdhttp.MethodPost, path+"/dispute", dbtest.Borrower, map[string]any{})
	if rec.Code != stdhttp.StatusUnprocessableEntity {
		t.Fatalf("dispute without reason: status = %d, want 422", rec.Code)
	}

	rec = s.do(t, stdhttp.MethodPost, path+"/dispute", dbtest.Borrower, map[string]any{"reason": "nothing arrived"})
	if rec.Code != stdhttp.StatusOK {
		t.Fatalf("dispute: status = %d, want 200; body=%s", rec.Code, rec.Body.String())
	}
	p := decode[ucDisbursement.ProofDTO](t, rec)
	if !p.BorrowerDisputed || p.DisputeReason != "nothing arrived" || p.LoanStatus != "pending_disbursement" {
		t.Fatalf("unexpected proof: %+v", p)
	}

	rec = s.do(t, stdhttp.MethodPost, path+"/confirm", dbtest.Borrower, nil)
	if rec.Code != stdhttp.StatusConflict {
		t.Fatalf("confirm disputed: status = %d, want 409", rec.Code)
	}
}

func TestDisbursement_ValidationError(t *testing.T) {
	s := newServer(t)
	loanID := acceptedLoan(t, s)

	body := proofBody()
	body["proof_url"] = "not a url"
	delete(body, "method")
	rec := s.do(t, stdhttp.MethodPost, "/loans/"+loanID+"/disbursement", dbtest.Lender, body)
	if rec.Code != stdhttp.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rec.Code)
	}
	resp := decode[ErrorResponse](t, rec)
	if !containsFieldMsg(resp.Details, "ProofURL", "must be a URL") || !containsFieldMsg(resp.Details, "Method", "is required") {
		t.Fatalf("unexpected details: %+v", resp.Details)
	}
}
