package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/velobay/freightdesk/internal/freight/combo"
	freightdomain "github.com/velobay/freightdesk/internal/freight/domain"
	"github.com/velobay/freightdesk/internal/freight/pricing"
)

type bulkUpdateRequest struct {
	Categories   []string         `json:"categories"`
	Countries    []string         `json:"countries"`
	ZoneIDs      []string         `json:"zone_ids"`
	Operation    string           `json:"operation"`
	Operand      *decimal.Decimal `json:"operand"`
	MultiplierID string           `json:"multiplier_id"`
}

func (r bulkUpdateRequest) toDomain() freightdomain.BulkUpdateRequest {
	return freightdomain.BulkUpdateRequest{
		Selector: freightdomain.RateSelector{
			Categories: r.Categories,
			Countries:  r.Countries,
			ZoneIDs:    r.ZoneIDs,
		},
		Operation: pricing.Operation{
			Kind:    pricing.Kind(strings.TrimSpace(r.Operation)),
			Operand: r.Operand,
		},
		MultiplierID: r.MultiplierID,
	}
}

// @Summary      Preview Bulk Update
// @Description  Compute the price changes a bulk operation would make
// @Tags         bulk
// @Accept       json
// @Produce      json
// @Param        request  body  bulkUpdateRequest  true  "Bulk Update Request"
// @Success      200  {object}  []freightdomain.PreviewRow
// @Router       /bulk/preview [post]
func (s *Server) PreviewBulkUpdate(c *gin.Context) {
	var req bulkUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	rows, err := s.freightSvc.PreviewBulkUpdate(c.Request.Context(), req.toDomain())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": rows})
}

// @Summary      Apply Bulk Update
// @Description  Apply a previewed bulk operation to the external catalog
// @Tags         bulk
// @Accept       json
// @Produce      json
// @Param        request  body  bulkUpdateRequest  true  "Bulk Update Request"
// @Success      200  {object}  freightdomain.BatchResult
// @Router       /bulk/apply [post]
func (s *Server) ApplyBulkUpdate(c *gin.Context) {
	var req bulkUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	result, err := s.freightSvc.ApplyBulkUpdate(c.Request.Context(), req.toDomain())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if s.auditSvc != nil {
		s.writeAudit(c, "bulk.apply", "catalog", nil, map[string]any{
			"operation":     req.Operation,
			"multiplier_id": req.MultiplierID,
			"total":         result.Total,
			"succeeded":     result.Succeeded,
			"failed":        result.Failed,
		})
	}

	c.JSON(http.StatusOK, gin.H{"data": result})
}

type generateCombinationsRequest struct {
	Units       []combo.Unit `json:"units"`
	MaxUnits    int          `json:"max_units"`
	CustomLabel string       `json:"custom_label"`
}

// @Summary      Generate Combinations
// @Description  Enumerate priced multi-unit shipping combinations
// @Tags         combinations
// @Accept       json
// @Produce      json
// @Param        request  body  generateCombinationsRequest  true  "Generate Request"
// @Success      200  {object}  []combo.Combination
// @Router       /combinations/generate [post]
func (s *Server) GenerateCombinations(c *gin.Context) {
	var req generateCombinationsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	combos, err := s.freightSvc.GenerateCombinations(freightdomain.GenerateRequest{
		Units:       req.Units,
		MaxUnits:    req.MaxUnits,
		CustomLabel: req.CustomLabel,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": combos})
}

type createCombinationsRequest struct {
	Currency     string              `json:"currency"`
	Combinations []combo.Combination `json:"combinations"`
}

// @Summary      Create Combination Rates
// @Description  Create remote rates from confirmed combinations
// @Tags         combinations
// @Accept       json
// @Produce      json
// @Param        zone_id  path  string                     true  "Zone ID"
// @Param        request  body  createCombinationsRequest  true  "Create Combinations Request"
// @Success      200  {object}  freightdomain.BatchResult
// @Router       /zones/{zone_id}/combinations [post]
func (s *Server) CreateCombinationRates(c *gin.Context) {
	var req createCombinationsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	zoneID := c.Param("zone_id")
	result, err := s.freightSvc.CreateCombinationRates(c.Request.Context(), freightdomain.CreateCombinationsRequest{
		ZoneID:       zoneID,
		Currency:     req.Currency,
		Combinations: req.Combinations,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if s.auditSvc != nil {
		s.writeAudit(c, "rate.combinations_create", "zone", &zoneID, map[string]any{
			"zone_id":   zoneID,
			"total":     result.Total,
			"succeeded": result.Succeeded,
			"failed":    result.Failed,
		})
	}

	c.JSON(http.StatusOK, gin.H{"data": result})
}
