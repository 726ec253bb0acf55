package ratetableerrors

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
	ErrNoRateTable = apperror.New(
		apperror.CodeNotFound,
		"no rate table configured for this company",
		http.StatusNotFound,
	)
	ErrRateTableNotFound = apperror.New(
		apperror.CodeNotFound,
		"rate table not found",
		http.StatusNotFound,
	)
	ErrInvalidBands = apperror.New(
		apperror.CodeInvalidInput,
		"tax bands must be ordered, positive-width, with a single unbounded final band",
		http.StatusBadRequest,
	)
	ErrNegativeRate = apperror.New(
		apperror.CodeInvalidInput,
		"rates, ceilings and relief cannot be negative",
		http.StatusBadRequest,
	)
	ErrVersionConflict = apperror.New(
		apperror.CodeConflict,
		"a rate table version was created concurrently, retry",
		http.StatusConflict,
	)
)
