package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	apperrors "github.com/medicore/hms-api/pkg/errors"
)

// Context keys populated by the auth middleware
const (
	ContextUserID     = "userID"
	ContextUserRole   = "userRole"
	ContextHospitalID = "hospitalID"
)

// HospitalID reads the caller's hospital scope set during token
// validation. Every tenant-scoped route requires it.
func HospitalID(c *gin.Context) (uuid.UUID, error) {
	raw, ok := c.Get(ContextHospitalID)
	if !ok {
		return uuid.Nil, apperrors.Forbidden("no hospital scope on token", nil)
	}
	id, ok := raw.(uuid.UUID)
	if !ok || id == uuid.Nil {
		return uuid.Nil, apperrors.Forbidden("no hospital scope on token", nil)
	}
	return id, nil
}

func UserID(c *gin.Context) (uuid.UUID, error) {
	raw, ok := c.Get(ContextUserID)
	if !ok {
		return uuid.Nil, apperrors.Unauthorized("missing authentication", nil)
	}
	id, ok := raw.(uuid.UUID)
	if !ok {
		return uuid.Nil, apperrors.Unauthorized("missing authentication", nil)
	}
	return id, nil
}

func Role(c *gin.Context) string {
	return c.GetString(ContextUserRole)
}

// PathID parses a :id style path parameter as a UUID
func PathID(c *gin.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, apperrors.Validation("invalid "+name, err)
	}
	return id, nil
}
