package http

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/khoahotran/devconnector/pkg/apperror"
	"github.com/khoahotran/devconnector/pkg/auth"
	"github.com/khoahotran/devconnector/pkg/logger"
)

const (
	GinContextKeyUserID = "userID"
)

const (
	msgNoToken      = "No token, authorization denied"
	msgInvalidToken = "Token is not valid"
)

// AuthMiddleware resolves the caller from the credential header. Only the signature and
// expiry are checked; the user is never looked up.
func AuthMiddleware(jwtSvc *auth.JWTService, header string, log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := strings.TrimSpace(strings.TrimPrefix(c.GetHeader(header), "Bearer "))
		if token == "" {
			c.Error(apperror.NewUnauthenticated(msgNoToken, nil))
			c.Abort()
			return
		}

		userID, err := jwtSvc.ResolveIdentity(token)
		if err != nil {
			log.Debug("Rejected credential token", zap.String("path", c.FullPath()), zap.Error(err))
			c.Error(apperror.NewUnauthenticated(msgInvalidToken, err))
			c.Abort()
			return
		}

		c.Set(GinContextKeyUserID, userID)
		c.Next()
	}
}

func GetUserIDFromGinContext(c *gin.Context) (uuid.UUID, bool) {
	v, ok := c.Get(GinContextKeyUserID)
	if !ok {
		return uuid.Nil, false
	}
	userID, ok := v.(uuid.UUID)
	return userID, ok && userID != uuid.Nil
}

// ErrorMiddleware renders the last error a handler attached with c.Error. Internal causes
// are logged and replaced by a generic message.
func ErrorMiddleware(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}
		err := c.Errors.Last().Err
		status := apperror.ToHTTPStatus(err)

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", status),
		}
		if status >= http.StatusInternalServerError {
			var appErr *apperror.AppError
			if errors.As(err, &appErr) && appErr.Cause() != nil {
				fields = append(fields, zap.NamedError("cause", appErr.Cause()))
			}
			log.Error("Request failed", err, fields...)
		} else {
			log.Debug("Request rejected", append(fields, zap.Error(err))...)
		}

		if c.Writer.Written() {
			return
		}
		c.JSON(status, apperror.ToJSON(err))
	}
}

// RequestLogger writes one line per request once the handler chain is done.
func RequestLogger(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		}
		if userID, ok := GetUserIDFromGinContext(c); ok {
			fields = append(fields, zap.String("user_id", userID.String()))
		}
		log.Info("HTTP request", fields...)
	}
}
