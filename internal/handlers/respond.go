package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/rajanishsd/Zivohealthv4-sub001/pkg/errors"
)

// respondError renders an AppError with its HTTP status. Unknown errors are
// hidden behind a generic 500 so internals never leak to clients.
func respondError(c *gin.Context, err error) {
	_ = c.Error(err)

	if appErr := apperrors.GetAppError(err); appErr != nil {
		c.JSON(appErr.StatusCode, gin.H{"error": appErr})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": apperrors.ErrInternalError})
}
