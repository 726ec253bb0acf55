package payrecorderrors

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
	ErrInvalidActorID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid actor id",
		http.StatusBadRequest,
	)
	ErrPayRecordNotFound = apperror.New(
		apperror.CodeNotFound,
		"pay record not found",
		http.StatusNotFound,
	)
	ErrDuplicatePeriod = apperror.New(
		apperror.CodeConflict,
		"a pay record already exists for this employee and period",
		http.StatusConflict,
	)
	ErrInvalidTransition = apperror.New(
		apperror.CodeInvalidState,
		"pay record status does not allow this transition",
		http.StatusBadRequest,
	)
)
