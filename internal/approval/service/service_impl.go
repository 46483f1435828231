package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	approvaldomain "github.com/velobay/freightdesk/internal/approval/domain"
	catalogdomain "github.com/velobay/freightdesk/internal/catalog/domain"
	"github.com/velobay/freightdesk/internal/clock"
)

type Service struct {
	db      *gorm.DB
	log     *zap.Logger
	genID   *snowflake.Node
	clock   clock.Clock
	catalog catalogdomain.Adapter
	repo    approvaldomain.Repository
}

type ServiceParam struct {
	fx.In

	DB      *gorm.DB
	Log     *zap.Logger
	GenID   *snowflake.Node
	Clock   clock.Clock
	Catalog catalogdomain.Adapter
	Repo    approvaldomain.Repository
}

func NewService(p ServiceParam) approvaldomain.Service {
	return &Service{
		db:      p.DB,
		log:     p.Log.Named("approval.service"),
		genID:   p.GenID,
		clock:   p.Clock,
		catalog: p.Catalog,
		repo:    p.Repo,
	}
}

// Propose opens a pending change and writes the "proposed" log row. At most
// one pending change may exist per rate.
func (s *Service) Propose(ctx context.Context, req approvaldomain.ProposeRequest) (*approvaldomain.PendingChange, error) {
	rateID := strings.TrimSpace(req.RateID)
	zoneID := strings.TrimSpace(req.ZoneID)
	if rateID == "" || zoneID == "" {
		return nil, approvaldomain.ErrInvalidRate
	}
	proposedBy := strings.TrimSpace(req.ProposedBy)
	if proposedBy == "" {
		return nil, approvaldomain.ErrInvalidActor
	}
	if req.ProposedPrice.IsNegative() {
		return nil, approvaldomain.ErrInvalidPrice
	}

	proposedName := req.ProposedRateName
	if proposedName == nil || strings.TrimSpace(*proposedName) == "" {
		name := req.RateName
		proposedName = &name
	}

	now := s.clock.Now()
	change := &approvaldomain.PendingChange{
		ID:               s.genID.Generate(),
		RateID:           rateID,
		ZoneID:           zoneID,
		ZoneName:         req.ZoneName,
		RateName:         req.RateName,
		ProposedRateName: proposedName,
		CurrentPrice:     req.CurrentPrice,
		ProposedPrice:    req.ProposedPrice,
		Currency:         req.Currency,
		ProposedBy:       proposedBy,
		Status:           approvaldomain.StatusPending,
		Notes:            req.Notes,
		CreatedAt:        now,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		pending, err := s.repo.CountPendingForRate(ctx, tx, rateID, zoneID)
		if err != nil {
			return err
		}
		if pending > 0 {
			return approvaldomain.ErrDuplicatePending
		}
		if err := s.repo.Insert(ctx, tx, change); err != nil {
			return err
		}
		return s.repo.InsertLog(ctx, tx, &approvaldomain.ChangeLog{
			ID:          s.genID.Generate(),
			RateID:      rateID,
			ZoneID:      zoneID,
			ZoneName:    req.ZoneName,
			RateName:    req.RateName,
			OldPrice:    req.CurrentPrice,
			NewPrice:    req.ProposedPrice,
			Currency:    req.Currency,
			Action:      approvaldomain.ActionProposed,
			PerformedBy: proposedBy,
			Notes:       req.Notes,
			CreatedAt:   now,
		})
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("rate change proposed",
		zap.String("change_id", change.ID.String()),
		zap.String("rate_id", rateID),
		zap.String("proposed_by", proposedBy))
	return change, nil
}

// Approve transitions a pending change to approved, pushes the proposed
// price and name to the external catalog, and writes "approved" and
// "applied" log rows. The remote call happens inside the transaction so a
// remote failure rolls the local transition back instead of leaving the
// change approved-but-unapplied.
func (s *Service) Approve(ctx context.Context, changeID, reviewedBy string) (*approvaldomain.PendingChange, error) {
	id, err := parseID(changeID)
	if err != nil {
		return nil, approvaldomain.ErrInvalidID
	}
	reviewer := strings.TrimSpace(reviewedBy)
	if reviewer == "" {
		return nil, approvaldomain.ErrInvalidActor
	}

	var change *approvaldomain.PendingChange
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		change, err = s.repo.FindByID(ctx, tx, id)
		if err != nil {
			return err
		}
		if change.Status != approvaldomain.StatusPending {
			return approvaldomain.ErrNotPending
		}

		now := s.clock.Now()
		change.Status = approvaldomain.StatusApproved
		change.ReviewedAt = &now
		change.ReviewedBy = &reviewer
		if err := s.repo.Save(ctx, tx, change); err != nil {
			return err
		}

		finalName := change.RateName
		if change.ProposedRateName != nil && strings.TrimSpace(*change.ProposedRateName) != "" {
			finalName = *change.ProposedRateName
		}

		price := change.ProposedPrice
		currency := change.Currency
		if err := s.catalog.UpdateRate(ctx, catalogdomain.RateKey{ZoneID: change.ZoneID, RateID: change.RateID}, catalogdomain.RatePatch{
			Name:     &finalName,
			Price:    &price,
			Currency: &currency,
		}); err != nil {
			return err
		}

		// Approval and application are distinct audit events even though
		// they happen in one call.
		if err := s.repo.InsertLog(ctx, tx, s.logEntry(change, finalName, approvaldomain.ActionApproved, reviewer, nil, now)); err != nil {
			return err
		}
		return s.repo.InsertLog(ctx, tx, s.logEntry(change, finalName, approvaldomain.ActionApplied, approvaldomain.SystemActor, nil, now))
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("rate change approved and applied",
		zap.String("change_id", change.ID.String()),
		zap.String("rate_id", change.RateID),
		zap.String("reviewed_by", reviewer))
	return change, nil
}

// Reject transitions a pending change to rejected. No external call is
// made.
func (s *Service) Reject(ctx context.Context, changeID, reviewedBy string, notes *string) (*approvaldomain.PendingChange, error) {
	id, err := parseID(changeID)
	if err != nil {
		return nil, approvaldomain.ErrInvalidID
	}
	reviewer := strings.TrimSpace(reviewedBy)
	if reviewer == "" {
		return nil, approvaldomain.ErrInvalidActor
	}

	var change *approvaldomain.PendingChange
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		change, err = s.repo.FindByID(ctx, tx, id)
		if err != nil {
			return err
		}
		if change.Status != approvaldomain.StatusPending {
			return approvaldomain.ErrNotPending
		}

		now := s.clock.Now()
		change.Status = approvaldomain.StatusRejected
		change.ReviewedAt = &now
		change.ReviewedBy = &reviewer
		if notes != nil {
			change.Notes = notes
		}
		if err := s.repo.Save(ctx, tx, change); err != nil {
			return err
		}
		return s.repo.InsertLog(ctx, tx, s.logEntry(change, change.RateName, approvaldomain.ActionRejected, reviewer, notes, now))
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("rate change rejected",
		zap.String("change_id", change.ID.String()),
		zap.String("rate_id", change.RateID))
	return change, nil
}

// Amend edits a pending change's proposed price/name in place. No log row:
// it is a correction before review, not a transition.
func (s *Service) Amend(ctx context.Context, req approvaldomain.AmendRequest) (*approvaldomain.PendingChange, error) {
	id, err := parseID(req.ChangeID)
	if err != nil {
		return nil, approvaldomain.ErrInvalidID
	}

	var change *approvaldomain.PendingChange
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		change, err = s.repo.FindByID(ctx, tx, id)
		if err != nil {
			return err
		}
		if change.Status != approvaldomain.StatusPending {
			return approvaldomain.ErrNotPending
		}
		if req.ProposedPrice != nil {
			if req.ProposedPrice.IsNegative() {
				return approvaldomain.ErrInvalidPrice
			}
			change.ProposedPrice = *req.ProposedPrice
		}
		if req.ProposedRateName != nil {
			change.ProposedRateName = req.ProposedRateName
		}
		return s.repo.Save(ctx, tx, change)
	})
	if err != nil {
		return nil, err
	}
	return change, nil
}

func (s *Service) List(ctx context.Context) ([]approvaldomain.PendingChange, error) {
	return s.repo.List(ctx, s.db)
}

func (s *Service) Logs(ctx context.Context, limit int) ([]approvaldomain.ChangeLog, error) {
	return s.repo.ListLogs(ctx, s.db, limit)
}

func (s *Service) PendingCount(ctx context.Context) (int64, error) {
	return s.repo.CountByStatus(ctx, s.db, approvaldomain.StatusPending)
}

func (s *Service) logEntry(change *approvaldomain.PendingChange, rateName string, action approvaldomain.ChangeAction, performedBy string, notes *string, at time.Time) *approvaldomain.ChangeLog {
	return &approvaldomain.ChangeLog{
		ID:          s.genID.Generate(),
		RateID:      change.RateID,
		ZoneID:      change.ZoneID,
		ZoneName:    change.ZoneName,
		RateName:    rateName,
		OldPrice:    change.CurrentPrice,
		NewPrice:    change.ProposedPrice,
		Currency:    change.Currency,
		Action:      action,
		PerformedBy: performedBy,
		Notes:       notes,
		CreatedAt:   at,
	}
}

func parseID(raw string) (snowflake.ID, error) {
	return snowflake.ParseString(strings.TrimSpace(raw))
}
