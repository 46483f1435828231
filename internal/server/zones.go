package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// @Summary      List Zones
// @Description  List shipping zones with their merged rate tables
// @Tags         zones
// @Produce      json
// @Success      200  {object}  []catalogdomain.Zone
// @Router       /zones [get]
func (s *Server) ListZones(c *gin.Context) {
	zones, err := s.freightSvc.Zones(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": zones})
}

// @Summary      Refresh Zones
// @Description  Force a resynchronization with the external catalog
// @Tags         zones
// @Produce      json
// @Success      200  {object}  []catalogdomain.Zone
// @Router       /zones/refresh [post]
func (s *Server) RefreshZones(c *gin.Context) {
	zones, err := s.freightSvc.Refresh(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": zones})
}
