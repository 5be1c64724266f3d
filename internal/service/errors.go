package service

import (
	"errors"
	"net/http"

	apperrors "github.com/spec-kit/goldennest/pkg/util/errorutil"
)

// Auth failures share one message per code so responses never reveal which check failed.
var (
	ErrInvalidCredentials   = apperrors.NewDomainError(apperrors.CodeInvalidCredentials, "invalid email or password", http.StatusUnauthorized, nil)
	ErrInvalidToken         = apperrors.NewDomainError(apperrors.CodeInvalidToken, "invalid or expired token", http.StatusUnauthorized, nil)
	ErrMissingRefreshCookie = apperrors.NewDomainError(apperrors.CodeMissingRefreshCookie, "refresh cookie missing", http.StatusUnauthorized, nil)
	ErrDuplicateEmail       = apperrors.NewDomainError(apperrors.CodeDuplicateEmail, "email already registered", http.StatusBadRequest, nil)
	ErrStorageUnavailable   = apperrors.NewStorageUnavailable("image storage is not configured")
)

func notFound(resource string) error {
	return apperrors.NewNotFound(resource, nil)
}

func invalid(message string, field string) error {
	if field == "" {
		return apperrors.NewValidationError(message, nil)
	}
	return apperrors.NewValidationError(message, map[string]any{"field": field})
}

func isNotFound(err error) bool {
	var domainErr *apperrors.DomainError
	return errors.As(err, &domainErr) && domainErr.Code == apperrors.CodeNotFound
}
