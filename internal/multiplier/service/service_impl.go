package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	multiplierdomain "github.com/velobay/freightdesk/internal/multiplier/domain"
)

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
}

type ServiceParam struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
}

func NewService(p ServiceParam) multiplierdomain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("multiplier.service"),
		genID: p.GenID,
	}
}

// List returns all multipliers ordered by factor ascending, the order the
// admin screen renders them in.
func (s *Service) List(ctx context.Context) ([]multiplierdomain.Multiplier, error) {
	var rows []multiplierdomain.Multiplier
	if err := s.db.WithContext(ctx).Order("multiplier ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *Service) Get(ctx context.Context, id string) (*multiplierdomain.Multiplier, error) {
	parsed, err := multiplierdomain.ParseID(id)
	if err != nil {
		return nil, multiplierdomain.ErrInvalidID
	}
	return s.findByID(ctx, parsed)
}

func (s *Service) Create(ctx context.Context, req multiplierdomain.CreateRequest) (*multiplierdomain.Multiplier, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, multiplierdomain.ErrInvalidName
	}
	if !req.Factor.IsPositive() {
		return nil, multiplierdomain.ErrInvalidFactor
	}

	baseQuantity := req.BaseQuantity
	if baseQuantity <= 0 {
		baseQuantity = 1
	}
	active := true
	if req.Active != nil {
		active = *req.Active
	}

	now := time.Now().UTC()
	row := multiplierdomain.Multiplier{
		ID:           s.genID.Generate(),
		Name:         name,
		Description:  req.Description,
		Factor:       req.Factor,
		BaseQuantity: baseQuantity,
		Active:       active,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

func (s *Service) Update(ctx context.Context, req multiplierdomain.UpdateRequest) (*multiplierdomain.Multiplier, error) {
	parsed, err := multiplierdomain.ParseID(req.ID)
	if err != nil {
		return nil, multiplierdomain.ErrInvalidID
	}

	row, err := s.findByID(ctx, parsed)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, multiplierdomain.ErrInvalidName
		}
		row.Name = name
	}
	if req.Description != nil {
		row.Description = req.Description
	}
	if req.Factor != nil {
		if !req.Factor.IsPositive() {
			return nil, multiplierdomain.ErrInvalidFactor
		}
		row.Factor = *req.Factor
	}
	if req.BaseQuantity != nil && *req.BaseQuantity > 0 {
		row.BaseQuantity = *req.BaseQuantity
	}
	if req.Active != nil {
		row.Active = *req.Active
	}
	row.UpdatedAt = time.Now().UTC()

	if err := s.db.WithContext(ctx).Save(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	parsed, err := multiplierdomain.ParseID(id)
	if err != nil {
		return multiplierdomain.ErrInvalidID
	}
	result := s.db.WithContext(ctx).Where("id = ?", parsed).Delete(&multiplierdomain.Multiplier{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return multiplierdomain.ErrNotFound
	}
	return nil
}

func (s *Service) ResolveFactor(ctx context.Context, id string) (*decimal.Decimal, error) {
	id = strings.TrimSpace(id)
	if id == "" || id == "none" {
		return nil, nil
	}
	parsed, err := multiplierdomain.ParseID(id)
	if err != nil {
		// Dangling or malformed reference resolves to no multiplier.
		return nil, nil
	}
	row, err := s.findByID(ctx, parsed)
	if errors.Is(err, multiplierdomain.ErrNotFound) {
		s.log.Warn("multiplier reference resolved to nothing", zap.String("multiplier_id", id))
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	factor := row.Factor
	return &factor, nil
}

func (s *Service) findByID(ctx context.Context, id snowflake.ID) (*multiplierdomain.Multiplier, error) {
	var row multiplierdomain.Multiplier
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, multiplierdomain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}
