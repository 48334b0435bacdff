package domain

import "errors"

var (
	// ErrInvalidCredentials covers both unknown-email and wrong-password
	// logins. The two cases are deliberately indistinguishable to callers so
	// that responses cannot be used for account enumeration.
	ErrInvalidCredentials = errors.New("invalid email or password")

	ErrMemberNotFound = errors.New("member not found")
	ErrMemberExists   = errors.New("member already exists")

	// ErrInvalidRefreshToken: the presented token failed signature or expiry
	// validation.
	ErrInvalidRefreshToken = errors.New("invalid refresh token")

	// ErrRefreshTokenNotFound: the token verifies cryptographically but has no
	// stored record — it was never issued here or has been deleted.
	ErrRefreshTokenNotFound = errors.New("refresh token not found")

	// ErrRefreshTokenReused: the stored record was already revoked when the
	// token was presented. Either a client replayed an old token or the token
	// leaked; both warrant rejection.
	ErrRefreshTokenReused = errors.New("refresh token already used")

	ErrInvalidPassword  = errors.New("current password does not match")
	ErrPasswordMismatch = errors.New("password confirmation does not match")

	ErrTooManyAttempts = errors.New("too many failed login attempts")

	ErrNotImplemented = errors.New("not implemented")
)
