package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/codewithmk180105/attendance-portal/pkg/errors"
	"github.com/codewithmk180105/attendance-portal/pkg/response"
)

// Health returns a status payload useful for readiness checks. The database
// connection is pinged so a wedged pool surfaces as unhealthy.
func Health(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if db != nil {
			sqlDB, err := db.DB()
			if err == nil {
				err = sqlDB.PingContext(requestContext(c))
			}
			if err != nil {
				response.Error(c, errors.ErrInternalServer.WithMessage("database unavailable"))
				return
			}
		}
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	}
}
