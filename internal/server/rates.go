package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	freightdomain "github.com/velobay/freightdesk/internal/freight/domain"
)

type upsertRateRequest struct {
	Name          string          `json:"name"`
	Price         decimal.Decimal `json:"price"`
	Currency      string          `json:"currency"`
	Description   *string         `json:"description"`
	MinWeight     *float64        `json:"min_weight"`
	MaxWeight     *float64        `json:"max_weight"`
	EstimatedDays *string         `json:"estimated_days"`
	Category      *string         `json:"category"`
}

// @Summary      Create Rate
// @Description  Create a new rate in a zone
// @Tags         rates
// @Accept       json
// @Produce      json
// @Param        zone_id  path  string             true  "Zone ID"
// @Param        request  body  upsertRateRequest  true  "Create Rate Request"
// @Success      200  {object}  map[string]string
// @Router       /zones/{zone_id}/rates [post]
func (s *Server) CreateRate(c *gin.Context) {
	var req upsertRateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	zoneID := c.Param("zone_id")
	description := ""
	if req.Description != nil {
		description = *req.Description
	}
	err := s.freightSvc.CreateRate(c.Request.Context(), freightdomain.CreateRateRequest{
		ZoneID:      zoneID,
		Name:        strings.TrimSpace(req.Name),
		Price:       req.Price,
		Currency:    req.Currency,
		Description: description,
		MinWeight:   req.MinWeight,
		MaxWeight:   req.MaxWeight,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if s.auditSvc != nil {
		s.writeAudit(c, "rate.create", "rate", nil, map[string]any{
			"zone_id": zoneID,
			"name":    req.Name,
			"price":   req.Price.String(),
		})
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// @Summary      Update Rate
// @Description  Update a rate's remote fields and local overlay
// @Tags         rates
// @Accept       json
// @Produce      json
// @Param        zone_id  path  string             true  "Zone ID"
// @Param        rate_id  path  string             true  "Rate ID"
// @Param        request  body  upsertRateRequest  true  "Update Rate Request"
// @Success      200  {object}  map[string]string
// @Router       /zones/{zone_id}/rates/{rate_id} [put]
func (s *Server) UpdateRate(c *gin.Context) {
	var req upsertRateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	zoneID := c.Param("zone_id")
	rateID := c.Param("rate_id")
	err := s.freightSvc.UpdateRate(c.Request.Context(), freightdomain.UpdateRateRequest{
		ZoneID:        zoneID,
		RateID:        rateID,
		Name:          strings.TrimSpace(req.Name),
		Price:         req.Price,
		Currency:      req.Currency,
		Description:   req.Description,
		MinWeight:     req.MinWeight,
		MaxWeight:     req.MaxWeight,
		EstimatedDays: req.EstimatedDays,
		Category:      req.Category,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if s.auditSvc != nil {
		s.writeAudit(c, "rate.update", "rate", &rateID, map[string]any{
			"zone_id": zoneID,
			"rate_id": rateID,
			"name":    req.Name,
			"price":   req.Price.String(),
		})
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// @Summary      Delete Rate
// @Description  Delete a rate from a zone
// @Tags         rates
// @Produce      json
// @Param        zone_id  path  string  true  "Zone ID"
// @Param        rate_id  path  string  true  "Rate ID"
// @Success      200  {object}  map[string]string
// @Router       /zones/{zone_id}/rates/{rate_id} [delete]
func (s *Server) DeleteRate(c *gin.Context) {
	zoneID := c.Param("zone_id")
	rateID := c.Param("rate_id")
	if err := s.freightSvc.DeleteRate(c.Request.Context(), zoneID, rateID); err != nil {
		AbortWithError(c, err)
		return
	}

	if s.auditSvc != nil {
		s.writeAudit(c, "rate.delete", "rate", &rateID, map[string]any{
			"zone_id": zoneID,
			"rate_id": rateID,
		})
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

type batchDeleteRequest struct {
	RateIDs []string `json:"rate_ids"`
}

// @Summary      Batch Delete Rates
// @Description  Delete multiple rates from a zone, continuing past failures
// @Tags         rates
// @Accept       json
// @Produce      json
// @Param        zone_id  path  string              true  "Zone ID"
// @Param        request  body  batchDeleteRequest  true  "Batch Delete Request"
// @Success      200  {object}  freightdomain.BatchResult
// @Router       /zones/{zone_id}/rates/batch-delete [post]
func (s *Server) DeleteRates(c *gin.Context) {
	var req batchDeleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	zoneID := c.Param("zone_id")
	result, err := s.freightSvc.DeleteRates(c.Request.Context(), zoneID, req.RateIDs)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if s.auditSvc != nil {
		s.writeAudit(c, "rate.batch_delete", "zone", &zoneID, map[string]any{
			"zone_id":   zoneID,
			"total":     result.Total,
			"succeeded": result.Succeeded,
			"failed":    result.Failed,
		})
	}

	c.JSON(http.StatusOK, gin.H{"data": result})
}
