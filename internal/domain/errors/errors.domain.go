package errors

import "errors"

// Standard Sentinel Errors
// These allow the transport layer to map internal logic to status codes
// (e.g. ErrInvalidInput -> 400, ErrBidNotLower -> 409) without the domain
// packages knowing anything about HTTP.

var (
	// Validation errors: malformed or missing input, never retried.
	ErrInvalidInput   = errors.New("invalid input arguments")
	ErrInvalidPincode = errors.New("pincode must be six digits and not start with zero")

	// Lookup errors.
	ErrNotFound        = errors.New("resource not found")
	ErrAuctionNotFound = errors.New("auction not found")

	// NoQuotesFound is a typed outcome, not a crash: every vendor was
	// excluded, the aggregation itself completed fine.
	ErrNoQuotesFound = errors.New("no eligible vendor quotes")

	// Business-rule rejections, reported distinctly from validation.
	ErrAuctionClosed   = errors.New("auction is closed")
	ErrBidNotLower     = errors.New("bid must be strictly lower than the current lowest")
	ErrBidLimitReached = errors.New("bidder has reached the bid limit for this auction")
	ErrNotEligible     = errors.New("bidder is not eligible for this auction")
	ErrEndTimeTooSoon  = errors.New("auction end time must be at least 2 days from now")

	// System errors. Surfaced as opaque and safely retryable.
	ErrInternalServerError = errors.New("internal server error")
)
