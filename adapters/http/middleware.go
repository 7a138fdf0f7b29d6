package http

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/khoahotran/folio/pkg/apperror"
	"github.com/khoahotran/folio/pkg/auth"
	"github.com/khoahotran/folio/pkg/logger"
)

const (
	GinContextKeyRequestID = "requestID"
	GinContextKeySession   = "session"
	GinContextKeyLocale    = "locale"
	GinContextKeyVisitor   = "visitorKey"

	headerRequestID = "X-Request-ID"
)

func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(headerRequestID)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set(GinContextKeyRequestID, requestID)
		c.Header(headerRequestID, requestID)
		c.Next()
	}
}

func RequestLogger(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		if raw := c.Request.URL.RawQuery; raw != "" {
			path = path + "?" + raw
		}

		c.Next()

		fields := []zap.Field{
			zap.String("request_id", c.GetString(GinContextKeyRequestID)),
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		}
		if sc := trace.SpanContextFromContext(c.Request.Context()); sc.HasTraceID() {
			fields = append(fields, zap.String("trace_id", sc.TraceID().String()))
		}
		log.Info("HTTP request", fields...)
	}
}

// ErrorMiddleware renders the last error pushed with c.Error. Handlers that
// already wrote a response are left alone.
func ErrorMiddleware(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}
		appErr := apperror.As(c.Errors.Last().Err)
		status := apperror.ToHTTPStatus(appErr)

		if status >= http.StatusInternalServerError {
			log.Error("Request failed", appErr,
				zap.String("request_id", c.GetString(GinContextKeyRequestID)),
				zap.String("method", c.Request.Method),
				zap.String("path", c.Request.URL.Path),
			)
		}

		if c.Writer.Written() {
			return
		}
		body := appErr.ToJSON()
		body["request_id"] = c.GetString(GinContextKeyRequestID)
		c.AbortWithStatusJSON(status, body)
	}
}

// AuthMiddleware accepts a bearer token or the session cookie and stores the
// verified session in the gin context.
func AuthMiddleware(verifier *auth.SessionVerifier, cookieName string, log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c.GetHeader("Authorization"))
		if token == "" {
			token, _ = c.Cookie(cookieName)
		}
		if token == "" {
			c.Error(apperror.NewUnauthorized("missing access token", nil))
			c.Abort()
			return
		}

		session, err := verifier.Verify(token)
		if err != nil {
			log.Debug("Rejected access token", zap.Error(err))
			c.Error(apperror.NewUnauthorized("invalid or expired access token", err))
			c.Abort()
			return
		}

		c.Set(GinContextKeySession, session)
		c.Next()
	}
}

func bearerToken(header string) string {
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok {
		return ""
	}
	return strings.TrimSpace(token)
}

func GetSessionFromGinContext(c *gin.Context) (*auth.Session, bool) {
	v, ok := c.Get(GinContextKeySession)
	if !ok {
		return nil, false
	}
	session, ok := v.(*auth.Session)
	return session, ok && session != nil
}

func GetUserIDFromGinContext(c *gin.Context) (uuid.UUID, bool) {
	session, ok := GetSessionFromGinContext(c)
	if !ok {
		return uuid.Nil, false
	}
	return session.UserID, true
}
