package obligationerrors

import (
	"net/http"

	"go-payday/internal/shared/apperror"
)

var (
	ErrInvalidCompanyID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid company id",
		http.StatusBadRequest,
	)
	ErrInvalidEmployeeID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid employee id",
		http.StatusBadRequest,
	)
	ErrInvalidActorID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid actor id",
		http.StatusBadRequest,
	)
	ErrInvalidKind = apperror.New(
		apperror.CodeInvalidInput,
		"obligation kind must be ADVANCE, DAMAGE or REIMBURSEMENT",
		http.StatusBadRequest,
	)
	ErrNonPositiveAmount = apperror.New(
		apperror.CodeInvalidInput,
		"obligation amount must be greater than zero",
		http.StatusBadRequest,
	)
	ErrInvalidPeriod = apperror.New(
		apperror.CodeInvalidInput,
		"period must be formatted as YYYY-MM",
		http.StatusBadRequest,
	)
	ErrObligationNotFound = apperror.New(
		apperror.CodeNotFound,
		"obligation not found",
		http.StatusNotFound,
	)
	ErrNotPending = apperror.New(
		apperror.CodeInvalidState,
		"obligation is not in PENDING status",
		http.StatusBadRequest,
	)
	ErrNotApproved = apperror.New(
		apperror.CodeInvalidState,
		"obligation is not in APPROVED status",
		http.StatusBadRequest,
	)
	ErrUnknownEmployee = apperror.New(
		apperror.CodeInvalidInput,
		"employee does not belong to this company",
		http.StatusBadRequest,
	)
)
