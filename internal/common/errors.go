package common

import "errors"

// Business logic errors
var (
	// Validation errors — surfaced to the caller immediately, nothing written.
	ErrMissingCampaign = errors.New("campaign id is required")
	ErrMissingIdentity = errors.New("an ip address or email is required to resolve a lead")
	ErrUnknownAction   = errors.New("unknown action kind")

	// Storage errors. A failed lead write fails the event; a failed
	// aggregate increment is logged and retried instead.
	ErrStoreUnavailable = errors.New("storage unavailable")
	ErrLeadNotFound     = errors.New("lead not found")

	// Batch merge errors
	ErrMergeConflict  = errors.New("merge groups target the same primary lead")
	ErrCampaignLocked = errors.New("campaign is locked by another merge run")
)
