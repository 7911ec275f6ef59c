package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// HealthHandler answers the liveness probe. The endpoint always returns 200
// while the process serves traffic; database and broker connectivity are
// reported as booleans for operators rather than failing the probe.
type HealthHandler struct {
	db       *gorm.DB
	brokerUp func() bool
}

func NewHealthHandler(db *gorm.DB, brokerUp func() bool) *HealthHandler {
	return &HealthHandler{db: db, brokerUp: brokerUp}
}

func (h *HealthHandler) Health(c *gin.Context) {
	dbUp := false
	if h.db != nil {
		if sqlDB, err := h.db.DB(); err == nil {
			dbUp = sqlDB.Ping() == nil
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   "healthy",
		"database": dbUp,
		"broker":   h.brokerUp != nil && h.brokerUp(),
	})
}
