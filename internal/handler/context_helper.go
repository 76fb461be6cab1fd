package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/alumni-tracking-api/internal/access"
	"github.com/noah-isme/alumni-tracking-api/internal/middleware"
	appErrors "github.com/noah-isme/alumni-tracking-api/pkg/errors"
)

// principal resolves the authenticated caller attached by the JWT middleware.
func principal(c *gin.Context) (access.Principal, bool) {
	claims := middleware.Claims(c)
	if claims == nil {
		return access.Principal{}, false
	}
	return access.FromClaims(claims), true
}

func pathID(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, appErrors.Clone(appErrors.ErrValidation, "id must be a positive integer")
	}
	return id, nil
}

func invalidPayload(err error, msg string) error {
	return appErrors.Validation(err, msg)
}
