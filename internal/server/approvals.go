package server

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	approvaldomain "github.com/velobay/freightdesk/internal/approval/domain"
)

type reviewChangeRequest struct {
	ReviewedBy string  `json:"reviewed_by"`
	Notes      *string `json:"notes"`
}

// @Summary      List Pending Changes
// @Description  List rate change proposals awaiting review
// @Tags         approvals
// @Produce      json
// @Success      200  {object}  []approvaldomain.PendingChange
// @Router       /pending-changes [get]
func (s *Server) ListPendingChanges(c *gin.Context) {
	rows, err := s.approvalSvc.List(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": rows})
}

// @Summary      Count Pending Changes
// @Description  Count rate change proposals awaiting review
// @Tags         approvals
// @Produce      json
// @Success      200  {object}  map[string]int64
// @Router       /pending-changes/count [get]
func (s *Server) CountPendingChanges(c *gin.Context) {
	count, err := s.approvalSvc.PendingCount(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": gin.H{"count": count}})
}

// @Summary      Propose Change
// @Description  Open a pending price change for a rate
// @Tags         approvals
// @Accept       json
// @Produce      json
// @Param        request  body  approvaldomain.ProposeRequest  true  "Propose Change Request"
// @Success      200  {object}  approvaldomain.PendingChange
// @Router       /pending-changes [post]
func (s *Server) ProposeChange(c *gin.Context) {
	var req approvaldomain.ProposeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.approvalSvc.Propose(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if s.auditSvc != nil {
		targetID := resp.ID.String()
		s.writeAudit(c, "rate_change.propose", "pending_change", &targetID, map[string]any{
			"change_id":      targetID,
			"rate_id":        resp.RateID,
			"proposed_price": resp.ProposedPrice.String(),
			"proposed_by":    resp.ProposedBy,
		})
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// @Summary      Amend Change
// @Description  Edit a still-pending change in place
// @Tags         approvals
// @Accept       json
// @Produce      json
// @Param        id       path  string                        true  "Change ID"
// @Param        request  body  approvaldomain.AmendRequest  true  "Amend Change Request"
// @Success      200  {object}  approvaldomain.PendingChange
// @Router       /pending-changes/{id} [put]
func (s *Server) AmendChange(c *gin.Context) {
	var req approvaldomain.AmendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	req.ChangeID = c.Param("id")

	resp, err := s.approvalSvc.Amend(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// @Summary      Approve Change
// @Description  Approve a pending change and apply it to the catalog
// @Tags         approvals
// @Accept       json
// @Produce      json
// @Param        id       path  string               true  "Change ID"
// @Param        request  body  reviewChangeRequest  true  "Approve Change Request"
// @Success      200  {object}  approvaldomain.PendingChange
// @Router       /pending-changes/{id}/approve [post]
func (s *Server) ApproveChange(c *gin.Context) {
	var req reviewChangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.approvalSvc.Approve(c.Request.Context(), c.Param("id"), req.ReviewedBy)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if s.auditSvc != nil {
		targetID := resp.ID.String()
		s.writeAudit(c, "rate_change.approve", "pending_change", &targetID, map[string]any{
			"change_id":   targetID,
			"rate_id":     resp.RateID,
			"reviewed_by": req.ReviewedBy,
		})
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// @Summary      Reject Change
// @Description  Reject a pending change without touching the catalog
// @Tags         approvals
// @Accept       json
// @Produce      json
// @Param        id       path  string               true  "Change ID"
// @Param        request  body  reviewChangeRequest  true  "Reject Change Request"
// @Success      200  {object}  approvaldomain.PendingChange
// @Router       /pending-changes/{id}/reject [post]
func (s *Server) RejectChange(c *gin.Context) {
	var req reviewChangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.approvalSvc.Reject(c.Request.Context(), c.Param("id"), req.ReviewedBy, req.Notes)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if s.auditSvc != nil {
		targetID := resp.ID.String()
		s.writeAudit(c, "rate_change.reject", "pending_change", &targetID, map[string]any{
			"change_id":   targetID,
			"rate_id":     resp.RateID,
			"reviewed_by": req.ReviewedBy,
		})
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// @Summary      List Change Logs
// @Description  List the rate change audit trail, newest first
// @Tags         approvals
// @Produce      json
// @Param        limit  query  int  false  "Max rows"
// @Success      200  {object}  []approvaldomain.ChangeLog
// @Router       /change-logs [get]
func (s *Server) ListChangeLogs(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			AbortWithError(c, newValidationError("limit", "invalid_limit", "limit must be a non-negative integer"))
			return
		}
		limit = parsed
	}

	rows, err := s.approvalSvc.Logs(c.Request.Context(), limit)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": rows})
}
