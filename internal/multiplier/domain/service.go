package domain

import (
	"context"
	"errors"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

type CreateRequest struct {
	Name         string          `json:"name"`
	Description  *string         `json:"description"`
	Factor       decimal.Decimal `json:"multiplier"`
	BaseQuantity int             `json:"base_quantity"`
	Active       *bool           `json:"is_active"`
}

type UpdateRequest struct {
	ID           string           `json:"id"`
	Name         *string          `json:"name"`
	Description  *string          `json:"description"`
	Factor       *decimal.Decimal `json:"multiplier"`
	BaseQuantity *int             `json:"base_quantity"`
	Active       *bool            `json:"is_active"`
}

type Service interface {
	List(ctx context.Context) ([]Multiplier, error)
	Get(ctx context.Context, id string) (*Multiplier, error)
	Create(ctx context.Context, req CreateRequest) (*Multiplier, error)
	Update(ctx context.Context, req UpdateRequest) (*Multiplier, error)
	// Delete is terminal: in-flight references to the deleted multiplier
	// degrade to "no multiplier" at resolve time.
	Delete(ctx context.Context, id string) error
	// ResolveFactor returns the factor for a selected multiplier, or nil for
	// an empty/"none"/dangling selection.
	ResolveFactor(ctx context.Context, id string) (*decimal.Decimal, error)
}

func ParseID(raw string) (snowflake.ID, error) {
	return snowflake.ParseString(strings.TrimSpace(raw))
}

var (
	ErrInvalidID     = errors.New("invalid_id")
	ErrInvalidName   = errors.New("invalid_name")
	ErrInvalidFactor = errors.New("invalid_factor")
	ErrNotFound      = errors.New("not_found")
)
