package controller

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/messreview-backend/internal/app/model"
	apperrors "github.com/ikkim/messreview-backend/internal/errors"
)

// parseIDParam reads a positive numeric path parameter, responding 400 when
// it is not one.
func parseIDParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid ID")
		return 0, false
	}
	return uint(id), true
}

func userResponse(user *model.User) gin.H {
	return gin.H{
		"id":    user.ID,
		"email": user.Email,
		"name":  user.Name,
		"role":  user.Role,
	}
}
