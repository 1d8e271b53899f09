package http

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/khoahotran/pawpal/pkg/apperror"
	"github.com/khoahotran/pawpal/pkg/auth"
	"github.com/khoahotran/pawpal/pkg/logger"
)

const (
	GinContextKeyOwnerID   = "ownerID"
	GinContextKeyRequestID = "requestID"
	GinContextKeyTraceID   = "traceID"

	headerRequestID = "X-Request-Id"
	headerTraceID   = "X-Trace-Id"
)

func AuthMiddleware(jwtSvc *auth.JWTService, log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized", "message": "Authorization header is required"})
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized", "message": "Invalid token format"})
			return
		}

		claims, err := jwtSvc.ValidateToken(tokenString)
		if err != nil {
			log.Debug("Rejected token", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized", "message": "Invalid or expired token"})
			return
		}

		c.Set(GinContextKeyOwnerID, claims.OwnerID)
		c.Next()
	}
}

func GetOwnerIDFromGinContext(c *gin.Context) (uuid.UUID, bool) {
	ownerID, ok := c.Get(GinContextKeyOwnerID)
	if !ok {
		return uuid.Nil, false
	}
	ownerIDUUID, ok := ownerID.(uuid.UUID)
	if !ok {
		return uuid.Nil, false
	}
	return ownerIDUUID, true
}

// ErrorMiddleware renders the last error a handler pushed with c.Error.
func ErrorMiddleware(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		err := c.Errors.Last().Err
		status := apperror.ToHTTPStatus(err)
		if status >= http.StatusInternalServerError {
			log.Error("Request failed", err, zap.String("path", c.FullPath()))
		}

		var appErr *apperror.AppError
		if errors.As(err, &appErr) && status < http.StatusInternalServerError {
			body := appErr.ToJSON()
			if appErr.Details != "" {
				body["details"] = appErr.Details
			}
			c.JSON(status, body)
			return
		}
		c.JSON(status, apperror.ToJSON(err))
	}
}

// RequestIDs echoes the request id and the trace id of the span otelgin opened.
func RequestIDs() gin.HandlerFunc {
	return func(c *gin.Context) {
		reqID := strings.TrimSpace(c.GetHeader(headerRequestID))
		if reqID == "" {
			reqID = uuid.NewString()
		}
		traceID := reqID
		if sc := trace.SpanFromContext(c.Request.Context()).SpanContext(); sc.HasTraceID() {
			traceID = sc.TraceID().String()
		}

		c.Set(GinContextKeyRequestID, reqID)
		c.Set(GinContextKeyTraceID, traceID)
		c.Writer.Header().Set(headerRequestID, reqID)
		c.Writer.Header().Set(headerTraceID, traceID)
		c.Next()
	}
}

func RequestLogger(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.Int("status", status),
			zap.Int64("duration_ms", time.Since(start).Milliseconds()),
		}
		if ownerID, ok := GetOwnerIDFromGinContext(c); ok {
			fields = append(fields, zap.String("owner_id", ownerID.String()))
		}
		if traceID := c.GetString(GinContextKeyTraceID); traceID != "" {
			fields = append(fields, zap.String("trace_id", traceID))
		}

		switch {
		case status >= 500:
			log.Error("HTTP request", nil, fields...)
		case status >= 400:
			log.Warn("HTTP request", fields...)
		default:
			log.Info("HTTP request", fields...)
		}
	}
}

func CORS(allowedOrigins []string) gin.HandlerFunc {
	return cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With", headerRequestID},
		ExposeHeaders:    []string{headerRequestID, headerTraceID},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	})
}

// requireOwner fetches the authenticated owner or records a permission error.
func requireOwner(c *gin.Context) (uuid.UUID, bool) {
	id, ok := GetOwnerIDFromGinContext(c)
	if !ok {
		c.Error(apperror.NewPermissionDenied("ownerID not found in context"))
	}
	return id, ok
}

func uuidParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.Error(apperror.NewInvalidInput("invalid "+name, err))
		return uuid.Nil, false
	}
	return id, true
}
