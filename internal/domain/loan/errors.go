package loan

import "microlend-engine/internal/domain/apperr"

var (
	ErrNotFound          = apperr.New(apperr.ErrNotFound, "loan not found")
	ErrInvalidTransition = apperr.New(apperr.ErrInvalidState, "loan not in a state that allows this operation")
	ErrLoanClosed        = apperr.New(apperr.ErrInvalidState, "loan is closed")
	ErrNotActive         = apperr.New(apperr.ErrInvalidState, "loan is not active")
	ErrActiveLoanExists  = apperr.New(apperr.ErrConflict, "borrower already has an active loan")
	ErrNotBorrower       = apperr.New(apperr.ErrUnauthorized, "actor is not the loan's borrower")
	ErrNotLender         = apperr.New(apperr.ErrUnauthorized, "actor is not the loan's lender")
	ErrNotParty          = apperr.New(apperr.ErrUnauthorized, "actor is not a party to the loan")
	ErrSameParty         = apperr.New(apperr.ErrValidation, "borrower and lender must differ")
)
