// Package apperr defines the sentinel errors shared by the procurement
// services. Handlers translate them into HTTP statuses with errors.Is
// switches; services never return raw store errors for caller mistakes.
package apperr

import "errors"

// Identity & access.
var (
	ErrEmailTaken         = errors.New("email already in use")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidName        = errors.New("name must be at least 2 characters")
)

// Tender lifecycle. ErrDeadlineTooSoon carries the regulatory citation
// verbatim; it is part of the contract with end users.
var (
	ErrTenderNotFound     = errors.New("tender not found")
	ErrInvalidDeadline    = errors.New("deadline must be a valid RFC 3339 timestamp")
	ErrDeadlineTooSoon    = errors.New("Deadline must be at least 30 days from now (Ethiopian Procurement Directive No. 430/2018)")
	ErrTenderNotOpen      = errors.New("cannot modify closed or cancelled tender")
	ErrDeadlinePassed     = errors.New("cannot modify tender after deadline")
	ErrTenderNotAwardable = errors.New("tender must be closed (or past deadline) before award")
	ErrTenderCancelled    = errors.New("cannot award a cancelled tender")
	ErrAlreadyAwarded     = errors.New("tender already awarded")
)

// Bid submission.
var (
	ErrBidExists       = errors.New("bid already submitted for this tender")
	ErrBidNotFound     = errors.New("bid not found")
	ErrBiddingClosed   = errors.New("tender not open for bids")
	ErrBidDeadlinePast = errors.New("tender deadline has passed")
	ErrNotBidOwner     = errors.New("not authorized to access this bid")
	ErrBidFileMissing  = errors.New("bid file not found")
)

// Evaluation.
var (
	ErrScoreOutOfRange = errors.New("technical score must be within [0,70] and financial score within [0,30]")
	ErrBidNotEvaluated = errors.New("bid must be evaluated before award")
)

// Uploads.
var (
	ErrFileRequired   = errors.New("file is required")
	ErrFileTooLarge   = errors.New("file exceeds maximum allowed size")
	ErrFileTypeDenied = errors.New("file type not allowed")
)
