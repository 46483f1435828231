package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/velobay/freightdesk/internal/carrier/domain"
	"github.com/velobay/freightdesk/internal/clock"
)

const (
	defaultServiceName = "Standard Shipping"
	defaultCurrency    = "USD"
)

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	clock clock.Clock
}

type ServiceParam struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Clock clock.Clock
}

func NewService(p ServiceParam) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("carrier.service"),
		genID: p.GenID,
		clock: p.Clock,
	}
}

func (s *Service) List(ctx context.Context) ([]domain.BaseRate, error) {
	var rates []domain.BaseRate
	err := s.db.WithContext(ctx).
		Order("country_code ASC, service_name ASC").
		Find(&rates).Error
	if err != nil {
		return nil, err
	}
	return rates, nil
}

func (s *Service) Get(ctx context.Context, id string) (*domain.BaseRate, error) {
	rateID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return nil, domain.ErrInvalidID
	}
	var rate domain.BaseRate
	err = s.db.WithContext(ctx).Where("id = ?", rateID).First(&rate).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rate, nil
}

func (s *Service) Create(ctx context.Context, req domain.CreateBaseRateRequest) (*domain.BaseRate, error) {
	code := strings.ToUpper(strings.TrimSpace(req.CountryCode))
	name := strings.TrimSpace(req.CountryName)
	if code == "" || name == "" {
		return nil, domain.ErrInvalidCountry
	}
	if req.PricePerKg.IsNegative() || req.MinPrice.IsNegative() {
		return nil, domain.ErrInvalidPrice
	}

	rate := &domain.BaseRate{
		ID:               s.genID.Generate(),
		CountryCode:      code,
		CountryName:      name,
		ServiceName:      strings.TrimSpace(req.ServiceName),
		PricePerKg:       req.PricePerKg,
		MinPrice:         req.MinPrice,
		Currency:         strings.ToUpper(strings.TrimSpace(req.Currency)),
		EstimatedDaysMin: req.EstimatedDaysMin,
		EstimatedDaysMax: req.EstimatedDaysMax,
		IsActive:         true,
	}
	if rate.ServiceName == "" {
		rate.ServiceName = defaultServiceName
	}
	if rate.Currency == "" {
		rate.Currency = defaultCurrency
	}
	if rate.EstimatedDaysMin <= 0 {
		rate.EstimatedDaysMin = domain.DefaultEstimatedDaysMin
	}
	if rate.EstimatedDaysMax <= 0 {
		rate.EstimatedDaysMax = domain.DefaultEstimatedDaysMax
	}
	if rate.EstimatedDaysMax < rate.EstimatedDaysMin {
		return nil, domain.ErrInvalidDays
	}

	if err := s.db.WithContext(ctx).Create(rate).Error; err != nil {
		return nil, err
	}

	s.log.Info("carrier base rate created",
		zap.String("rate_id", rate.ID.String()),
		zap.String("country_code", rate.CountryCode),
		zap.String("service_name", rate.ServiceName))
	return rate, nil
}

func (s *Service) Update(ctx context.Context, id string, req domain.UpdateBaseRateRequest) (*domain.BaseRate, error) {
	rate, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.CountryName != nil {
		name := strings.TrimSpace(*req.CountryName)
		if name == "" {
			return nil, domain.ErrInvalidCountry
		}
		rate.CountryName = name
	}
	if req.ServiceName != nil && strings.TrimSpace(*req.ServiceName) != "" {
		rate.ServiceName = strings.TrimSpace(*req.ServiceName)
	}
	if req.PricePerKg != nil {
		if req.PricePerKg.IsNegative() {
			return nil, domain.ErrInvalidPrice
		}
		rate.PricePerKg = *req.PricePerKg
	}
	if req.MinPrice != nil {
		if req.MinPrice.IsNegative() {
			return nil, domain.ErrInvalidPrice
		}
		rate.MinPrice = *req.MinPrice
	}
	if req.Currency != nil && strings.TrimSpace(*req.Currency) != "" {
		rate.Currency = strings.ToUpper(strings.TrimSpace(*req.Currency))
	}
	if req.EstimatedDaysMin != nil {
		rate.EstimatedDaysMin = *req.EstimatedDaysMin
	}
	if req.EstimatedDaysMax != nil {
		rate.EstimatedDaysMax = *req.EstimatedDaysMax
	}
	if rate.EstimatedDaysMin <= 0 || rate.EstimatedDaysMax < rate.EstimatedDaysMin {
		return nil, domain.ErrInvalidDays
	}
	if req.IsActive != nil {
		rate.IsActive = *req.IsActive
	}

	if err := s.db.WithContext(ctx).Save(rate).Error; err != nil {
		return nil, err
	}
	return rate, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	rateID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return domain.ErrInvalidID
	}
	res := s.db.WithContext(ctx).Where("id = ?", rateID).Delete(&domain.BaseRate{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (s *Service) Quote(ctx context.Context, req domain.QuoteRequest) ([]domain.Quote, error) {
	country := strings.ToUpper(strings.TrimSpace(req.Rate.Destination.Country))
	if country == "" {
		return []domain.Quote{}, nil
	}

	var totalGrams int64
	for _, item := range req.Rate.Items {
		totalGrams += item.Grams * int64(item.Quantity)
	}
	weightKg := decimal.NewFromInt(totalGrams).Div(decimal.NewFromInt(1000))

	var baseRates []domain.BaseRate
	err := s.db.WithContext(ctx).
		Where("country_code = ? AND is_active = ?", country, true).
		Find(&baseRates).Error
	if err != nil {
		return nil, err
	}
	if len(baseRates) == 0 {
		s.log.Debug("no carrier rates for destination", zap.String("country_code", country))
		return []domain.Quote{}, nil
	}

	today := s.clock.Now()
	quotes := make([]domain.Quote, 0, len(baseRates))
	for _, base := range baseRates {
		price := base.PricePerKg.Mul(weightKg)
		if price.LessThan(base.MinPrice) {
			price = base.MinPrice
		}

		daysMin := base.EstimatedDaysMin
		if daysMin <= 0 {
			daysMin = domain.DefaultEstimatedDaysMin
		}
		daysMax := base.EstimatedDaysMax
		if daysMax <= 0 {
			daysMax = domain.DefaultEstimatedDaysMax
		}

		quotes = append(quotes, domain.Quote{
			ServiceName:     base.ServiceName,
			ServiceCode:     fmt.Sprintf("%s_%s", base.CountryCode, base.ID),
			TotalPrice:      price.Mul(decimal.NewFromInt(100)).Round(0).String(),
			Description:     fmt.Sprintf("%skg - %d-%d days", weightKg.StringFixed(2), daysMin, daysMax),
			Currency:        base.Currency,
			MinDeliveryDate: today.AddDate(0, 0, daysMin).Format("2006-01-02"),
			MaxDeliveryDate: today.AddDate(0, 0, daysMax).Format("2006-01-02"),
		})
	}

	s.log.Info("carrier quote computed",
		zap.String("country_code", country),
		zap.String("weight_kg", weightKg.StringFixed(2)),
		zap.Int("offers", len(quotes)))
	return quotes, nil
}
