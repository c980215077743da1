package apperrors

import (
	"errors"
	"net/http"
)

var (
	ErrValidation = errors.New("validation failed")

	ErrUserNotFound      = errors.New("user not found")
	ErrHospitalNotFound  = errors.New("hospital not found")
	ErrAmbulanceNotFound = errors.New("ambulance not found")
	ErrRequestNotFound   = errors.New("request not found")
	ErrSessionNotFound   = errors.New("session not found or revoked")

	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrSessionExpired     = errors.New("session expired")
	ErrForbidden          = errors.New("access denied")

	ErrUserExists             = errors.New("email already registered")
	ErrHospitalExists         = errors.New("hospital name already registered")
	ErrAmbulanceEngaged       = errors.New("ambulance is serving an active request")
	ErrAmbulanceUnavailable   = errors.New("ambulance is not free")
	ErrAmbulanceNotInHospital = errors.New("ambulance does not belong to hospital")
	ErrNoAmbulanceAvailable   = errors.New("no free ambulance available")
	ErrInvalidTransition      = errors.New("invalid request status transition")
)

// StatusCode maps an error chain onto the HTTP status returned to callers.
func StatusCode(err error) int {
	switch {
	case errors.Is(err, ErrValidation), errors.Is(err, ErrAmbulanceNotInHospital):
		return http.StatusBadRequest
	case errors.Is(err, ErrInvalidCredentials), errors.Is(err, ErrSessionNotFound), errors.Is(err, ErrSessionExpired):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrUserNotFound), errors.Is(err, ErrHospitalNotFound),
		errors.Is(err, ErrAmbulanceNotFound), errors.Is(err, ErrRequestNotFound),
		errors.Is(err, ErrNoAmbulanceAvailable):
		return http.StatusNotFound
	case errors.Is(err, ErrUserExists), errors.Is(err, ErrHospitalExists),
		errors.Is(err, ErrAmbulanceUnavailable), errors.Is(err, ErrAmbulanceEngaged),
		errors.Is(err, ErrInvalidTransition):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}
