package cmd

import (
	"errors"
	"net/http"

	"github.com/jsphweid/harmonycheck/db"
	"github.com/jsphweid/harmonycheck/score"
	"github.com/jsphweid/harmonycheck/validation"
)

// HTTPStatus returns the status code an analysis or store error maps to.
func HTTPStatus(err error) int {
	var inputErr *score.InputError
	var invalidErr *validation.InvalidScoreError
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.As(err, &inputErr):
		return http.StatusBadRequest
	case errors.As(err, &invalidErr):
		return http.StatusUnprocessableEntity
	case errors.Is(err, db.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
