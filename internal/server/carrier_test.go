package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	carrierdomain "github.com/velobay/freightdesk/internal/carrier/domain"
	carrierservice "github.com/velobay/freightdesk/internal/carrier/service"
)

type quoteClock struct{ at time.Time }

func (c quoteClock) Now() time.Time { return c.at }

func setupQuoteServer(t *testing.T, limit int) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	// Named per-test in-memory database so rows do not leak between tests.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&carrierdomain.BaseRate{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("snowflake: %v", err)
	}

	svc := carrierservice.NewService(carrierservice.ServiceParam{
		DB:    db,
		Log:   zap.NewNop(),
		GenID: node,
		Clock: quoteClock{at: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)},
	})

	s := &Server{
		log:            zap.NewNop(),
		engine:         gin.New(),
		carrierSvc:     svc,
		webhookLimiter: newRateLimiter(limit, time.Minute),
	}
	s.engine.POST("/carrier/quote", s.CarrierQuote)
	return s
}

func seedQuoteRate(t *testing.T, s *Server) {
	t.Helper()
	_, err := s.carrierSvc.Create(context.Background(), carrierdomain.CreateBaseRateRequest{
		CountryCode:      "DE",
		CountryName:      "Germany",
		PricePerKg:       decimal.NewFromInt(4),
		MinPrice:         decimal.NewFromInt(25),
		Currency:         "EUR",
		EstimatedDaysMin: 10,
		EstimatedDaysMax: 65,
	})
	if err != nil {
		t.Fatalf("seed rate: %v", err)
	}
}

func postQuote(t *testing.T, s *Server, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/carrier/quote", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	req.RemoteAddr = "203.0.113.7:4000"
	rec := httptest.NewRecorder()
	s.engine.ServeHTTP(rec, req)
	return rec
}

type quoteResponse struct {
	Rates []carrierdomain.Quote `json:"rates"`
	Error string                `json:"error"`
}

func TestCarrierQuoteReturnsRates(t *testing.T) {
	s := setupQuoteServer(t, 60)
	seedQuoteRate(t, s)

	body := `{"rate":{"destination":{"country":"de"},"items":[{"name":"Road bike","quantity":2,"grams":15000}],"currency":"EUR"}}`
	rec := postQuote(t, s, body)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var resp quoteResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Rates) != 1 {
		t.Fatalf("rates = %d, want 1", len(resp.Rates))
	}
	q := resp.Rates[0]
	// 30kg at 4/kg is 120.00, above the 25 floor.
	if q.TotalPrice != "12000" {
		t.Fatalf("total price = %q, want 12000", q.TotalPrice)
	}
	if !strings.HasPrefix(q.ServiceCode, "DE_") {
		t.Fatalf("service code = %q, want DE_ prefix", q.ServiceCode)
	}
	if q.Description != "30.00kg - 10-65 days" {
		t.Fatalf("description = %q", q.Description)
	}
	if q.MinDeliveryDate != "2024-06-11" || q.MaxDeliveryDate != "2024-08-05" {
		t.Fatalf("delivery window = %s..%s", q.MinDeliveryDate, q.MaxDeliveryDate)
	}
}

func TestCarrierQuoteUnknownCountryIsEmptyNot404(t *testing.T) {
	s := setupQuoteServer(t, 60)
	seedQuoteRate(t, s)

	body := `{"rate":{"destination":{"country":"JP"},"items":[{"quantity":1,"grams":15000}]}}`
	rec := postQuote(t, s, body)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var resp quoteResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Rates) != 0 {
		t.Fatalf("rates = %d, want 0", len(resp.Rates))
	}
}

func TestCarrierQuoteMalformedBodyStillAnswers200(t *testing.T) {
	s := setupQuoteServer(t, 60)

	rec := postQuote(t, s, `{"rate":`)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var resp quoteResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Rates) != 0 {
		t.Fatalf("rates = %d, want 0", len(resp.Rates))
	}
}

func TestCarrierQuoteRateLimitDegradesTo200(t *testing.T) {
	s := setupQuoteServer(t, 2)
	seedQuoteRate(t, s)

	body := `{"rate":{"destination":{"country":"DE"},"items":[{"quantity":1,"grams":15000}]}}`
	postQuote(t, s, body)
	postQuote(t, s, body)
	rec := postQuote(t, s, body)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var resp quoteResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Rates) != 0 {
		t.Fatalf("rates = %d, want 0 when limited", len(resp.Rates))
	}
	if resp.Error != "rate_limited" {
		t.Fatalf("error = %q, want rate_limited", resp.Error)
	}
}
