package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// maxRequestIDLength caps request IDs copied into span attributes
const maxRequestIDLength = 128

// TracingConfig holds configuration for the tracing middleware
type TracingConfig struct {
	ServiceName string
	Enabled     bool
}

// Tracing returns OpenTelemetry tracing middleware. Spans are named
// "METHOD route_pattern" by otelgin; the request ID and authenticated
// operator are attached as attributes when present.
func Tracing(cfg TracingConfig) gin.HandlerFunc {
	if !cfg.Enabled {
		return func(c *gin.Context) {
			c.Next()
		}
	}

	base := otelgin.Middleware(cfg.ServiceName)

	return func(c *gin.Context) {
		base(c)

		span := trace.SpanFromContext(c.Request.Context())
		if span.IsRecording() {
			enrichSpan(c, span)
		}
	}
}

func enrichSpan(c *gin.Context, span trace.Span) {
	if requestID := spanRequestID(c); requestID != "" {
		span.SetAttributes(attribute.String("request_id", requestID))
	}
	if userID := GetJWTUserID(c); userID != "" {
		span.SetAttributes(attribute.String("user_id", userID))
	}
}

func spanRequestID(c *gin.Context) string {
	if id := c.GetString(RequestIDKey); id != "" {
		return id
	}
	headerID := c.GetHeader("X-Request-ID")
	if len(headerID) > maxRequestIDLength {
		return headerID[:maxRequestIDLength]
	}
	return headerID
}

// SpanErrorMarker marks spans with error status for 4xx/5xx responses.
// Place it after the Tracing middleware in the chain.
func SpanErrorMarker() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		span := trace.SpanFromContext(c.Request.Context())
		if !span.IsRecording() {
			return
		}

		statusCode := c.Writer.Status()
		if statusCode < http.StatusBadRequest {
			return
		}

		message := "Client Error"
		switch {
		case statusCode >= http.StatusInternalServerError:
			message = "Internal Server Error"
		case statusCode == http.StatusUnauthorized:
			message = "Unauthorized"
		case statusCode == http.StatusForbidden:
			message = "Forbidden"
		case statusCode == http.StatusNotFound:
			message = "Not Found"
		case statusCode == http.StatusConflict:
			message = "Conflict"
		}

		span.SetStatus(codes.Error, message)
		span.SetAttributes(attribute.Int("http.status_code", statusCode))
	}
}
