package server

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	auditdomain "github.com/velobay/freightdesk/internal/audit/domain"
)

// writeAudit records an admin action best effort. Failures are logged by
// the audit service and never surface to the caller.
func (s *Server) writeAudit(c *gin.Context, action, targetType string, targetID *string, metadata map[string]any) {
	actor := strings.TrimSpace(c.GetHeader("X-Actor"))
	actorType := auditdomain.ActorTypeSystem
	var actorID *string
	if actor != "" {
		actorType = auditdomain.ActorTypeUser
		actorID = &actor
	}
	_ = s.auditSvc.AuditLog(c.Request.Context(), actorType, actorID, action, targetType, targetID, metadata)
}

// @Summary      List Audit Logs
// @Description  List recorded admin actions, newest first
// @Tags         audit
// @Produce      json
// @Param        action       query  string  false  "Action"
// @Param        target_type  query  string  false  "Target Type"
// @Param        limit        query  int     false  "Limit"
// @Success      200  {object}  []auditdomain.AuditLog
// @Router       /audit-logs [get]
func (s *Server) ListAuditLogs(c *gin.Context) {
	if s.auditSvc == nil {
		AbortWithError(c, ErrNotFound)
		return
	}

	limit := 0
	if raw := strings.TrimSpace(c.Query("limit")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			AbortWithError(c, newValidationError("limit", "invalid_limit", "invalid limit"))
			return
		}
		limit = parsed
	}

	logs, err := s.auditSvc.List(c.Request.Context(), auditdomain.ListFilter{
		Action:     strings.TrimSpace(c.Query("action")),
		TargetType: strings.TrimSpace(c.Query("target_type")),
		Limit:      limit,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": logs})
}
