package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	multiplierdomain "github.com/velobay/freightdesk/internal/multiplier/domain"
)

// @Summary      List Multipliers
// @Description  List shipping multipliers ordered by factor
// @Tags         multipliers
// @Produce      json
// @Success      200  {object}  []multiplierdomain.Multiplier
// @Router       /multipliers [get]
func (s *Server) ListMultipliers(c *gin.Context) {
	rows, err := s.multiplierSvc.List(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": rows})
}

// @Summary      Create Multiplier
// @Description  Create a named shipping multiplier
// @Tags         multipliers
// @Accept       json
// @Produce      json
// @Param        request  body  multiplierdomain.CreateRequest  true  "Create Multiplier Request"
// @Success      200  {object}  multiplierdomain.Multiplier
// @Router       /multipliers [post]
func (s *Server) CreateMultiplier(c *gin.Context) {
	var req multiplierdomain.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.multiplierSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if s.auditSvc != nil {
		targetID := resp.ID.String()
		s.writeAudit(c, "multiplier.create", "multiplier", &targetID, map[string]any{
			"multiplier_id": targetID,
			"name":          resp.Name,
			"factor":        resp.Factor.String(),
		})
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// @Summary      Update Multiplier
// @Description  Update a shipping multiplier
// @Tags         multipliers
// @Accept       json
// @Produce      json
// @Param        id       path  string                          true  "Multiplier ID"
// @Param        request  body  multiplierdomain.UpdateRequest  true  "Update Multiplier Request"
// @Success      200  {object}  multiplierdomain.Multiplier
// @Router       /multipliers/{id} [put]
func (s *Server) UpdateMultiplier(c *gin.Context) {
	var req multiplierdomain.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	req.ID = c.Param("id")

	resp, err := s.multiplierSvc.Update(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if s.auditSvc != nil {
		targetID := resp.ID.String()
		s.writeAudit(c, "multiplier.update", "multiplier", &targetID, map[string]any{
			"multiplier_id": targetID,
			"name":          resp.Name,
			"factor":        resp.Factor.String(),
		})
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// @Summary      Delete Multiplier
// @Description  Delete a shipping multiplier
// @Tags         multipliers
// @Produce      json
// @Param        id  path  string  true  "Multiplier ID"
// @Success      200  {object}  map[string]string
// @Router       /multipliers/{id} [delete]
func (s *Server) DeleteMultiplier(c *gin.Context) {
	id := c.Param("id")
	if err := s.multiplierSvc.Delete(c.Request.Context(), id); err != nil {
		AbortWithError(c, err)
		return
	}

	if s.auditSvc != nil {
		s.writeAudit(c, "multiplier.delete", "multiplier", &id, map[string]any{
			"multiplier_id": id,
		})
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
