package domain

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
)

// ProposeRequest opens a new pending change for a rate.
type ProposeRequest struct {
	RateID           string          `json:"rate_id"`
	ZoneID           string          `json:"zone_id"`
	ZoneName         string          `json:"zone_name"`
	RateName         string          `json:"rate_name"`
	ProposedRateName *string         `json:"proposed_rate_name"`
	CurrentPrice     decimal.Decimal `json:"current_price"`
	ProposedPrice    decimal.Decimal `json:"proposed_price"`
	Currency         string          `json:"currency"`
	ProposedBy       string          `json:"proposed_by"`
	Notes            *string         `json:"notes"`
}

// AmendRequest edits a still-pending change in place. It is an editorial
// correction before review, not a state transition: no log row is written.
type AmendRequest struct {
	ChangeID         string           `json:"change_id"`
	ProposedPrice    *decimal.Decimal `json:"proposed_price"`
	ProposedRateName *string          `json:"proposed_rate_name"`
}

// Service drives a proposal through pending -> approved|rejected, writing
// an audit log row for every transition. Approving a change applies it to
// the external catalog in the same logical unit; if the remote call fails
// the local transition is rolled back rather than left approved-but-
// unapplied.
type Service interface {
	Propose(ctx context.Context, req ProposeRequest) (*PendingChange, error)
	Approve(ctx context.Context, changeID, reviewedBy string) (*PendingChange, error)
	Reject(ctx context.Context, changeID, reviewedBy string, notes *string) (*PendingChange, error)
	Amend(ctx context.Context, req AmendRequest) (*PendingChange, error)

	List(ctx context.Context) ([]PendingChange, error)
	Logs(ctx context.Context, limit int) ([]ChangeLog, error)
	PendingCount(ctx context.Context) (int64, error)
}

var (
	ErrInvalidID        = errors.New("invalid_id")
	ErrInvalidRate      = errors.New("invalid_rate")
	ErrInvalidPrice     = errors.New("invalid_price")
	ErrInvalidActor     = errors.New("invalid_actor")
	ErrNotFound         = errors.New("not_found")
	ErrNotPending       = errors.New("change_not_pending")
	ErrDuplicatePending = errors.New("duplicate_pending_change")
)
