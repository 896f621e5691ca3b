package http

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/khoahotran/devconnector/pkg/apperror"
)

type tokenResponse struct {
	Token string `json:"token"`
}

type messageResponse struct {
	Msg string `json:"msg"`
}

type textRequest struct {
	Text string `json:"text"`
}

// bindJSON decodes the body into dst. Rule checks belong to the use cases; this only
// rejects bodies that are not JSON.
func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		c.Error(apperror.NewInvalidInput("request body is not valid JSON", err))
		return false
	}
	return true
}

// pathID reads a uuid path parameter. Malformed ids name nothing, so they answer NotFound.
func pathID(c *gin.Context, param, resource string) (uuid.UUID, bool) {
	raw := c.Param(param)
	id, err := uuid.Parse(raw)
	if err != nil {
		c.Error(apperror.NewNotFound(resource, raw))
		return uuid.Nil, false
	}
	return id, true
}

// requireUser returns the identity the auth middleware stored.
func requireUser(c *gin.Context) (uuid.UUID, bool) {
	userID, ok := GetUserIDFromGinContext(c)
	if !ok {
		c.Error(apperror.NewUnauthenticated(msgNoToken, nil))
		return uuid.Nil, false
	}
	return userID, true
}
