package entity

import "errors"

// Domain errors for analysis
var (
	// Caller contract errors
	ErrInvalidProfileReference = errors.New("profile reference does not contain a usable handle")
	ErrComparisonArity         = errors.New("comparison requires exactly two accounts")
	ErrSameAccount             = errors.New("cannot compare an account with itself")
	ErrInvalidVerification     = errors.New("invalid verification tier")
	ErrInvalidLabel            = errors.New("invalid label")

	// Lookup errors
	ErrAnalysisNotFound = errors.New("analysis not found")
	ErrProfileNotFound  = errors.New("profile not found")

	// Upstream errors
	ErrUpstreamFailure       = errors.New("profile source request failed")
	ErrUpstreamRateLimited   = errors.New("profile source rate limit exceeded")
	ErrUpstreamUnauthorized  = errors.New("profile source credentials are invalid or expired")
	ErrUpstreamNotConfigured = errors.New("no profile source is configured")
)
