package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/storefront/backend/internal/infrastructure/auth"
	"github.com/storefront/backend/internal/interfaces/http/dto"
)

// JWT context keys
const (
	JWTClaimsKey   = "jwt_claims"
	JWTUserIDKey   = "jwt_user_id"
	JWTUsernameKey = "jwt_username"
	AuthHeaderKey  = "Authorization"
	BearerPrefix   = "Bearer "
)

// JWTMiddlewareConfig holds configuration for JWT middleware
type JWTMiddlewareConfig struct {
	JWTService *auth.JWTService
	// SkipPaths are exact paths that don't require authentication
	SkipPaths []string
	// SkipPathPrefixes are path prefixes that don't require authentication
	SkipPathPrefixes []string
	Logger           *zap.Logger
}

// JWTAuthMiddleware creates JWT authentication middleware
func JWTAuthMiddleware(jwtService *auth.JWTService) gin.HandlerFunc {
	return JWTAuthMiddlewareWithConfig(JWTMiddlewareConfig{JWTService: jwtService})
}

// JWTAuthMiddlewareWithConfig creates JWT authentication middleware with custom config
func JWTAuthMiddlewareWithConfig(cfg JWTMiddlewareConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path

		for _, skipPath := range cfg.SkipPaths {
			if path == skipPath {
				c.Next()
				return
			}
		}
		for _, prefix := range cfg.SkipPathPrefixes {
			if strings.HasPrefix(path, prefix) {
				c.Next()
				return
			}
		}

		authHeader := c.GetHeader(AuthHeaderKey)
		if authHeader == "" {
			handleAuthError(c, cfg, auth.ErrInvalidToken, "Missing authorization header")
			return
		}
		if !strings.HasPrefix(authHeader, BearerPrefix) {
			handleAuthError(c, cfg, auth.ErrInvalidToken, "Invalid authorization header format")
			return
		}

		tokenString := strings.TrimPrefix(authHeader, BearerPrefix)
		if tokenString == "" {
			handleAuthError(c, cfg, auth.ErrInvalidToken, "Missing token")
			return
		}

		claims, err := cfg.JWTService.ValidateToken(tokenString)
		if err != nil {
			handleAuthError(c, cfg, err, "Token validation failed")
			return
		}

		c.Set(JWTClaimsKey, claims)
		c.Set(JWTUserIDKey, claims.UserID)
		c.Set(JWTUsernameKey, claims.Username)

		c.Next()
	}
}

// RequireAdmin rejects requests whose JWT claims lack the admin role.
// Must run after JWT authentication.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetJWTClaims(c)
		if claims == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				dto.NewErrorResponse(dto.ErrCodeUnauthorized, "Authentication required"))
			return
		}
		if !claims.IsAdmin() {
			c.AbortWithStatusJSON(http.StatusForbidden,
				dto.NewErrorResponse(dto.ErrCodeForbidden, "Admin role required"))
			return
		}
		c.Next()
	}
}

// handleAuthError handles authentication errors
func handleAuthError(c *gin.Context, cfg JWTMiddlewareConfig, err error, message string) {
	if cfg.Logger != nil {
		cfg.Logger.Warn("JWT authentication failed",
			zap.Error(err),
			zap.String("message", message),
			zap.String("path", c.Request.URL.Path),
		)
	}

	errorCode := dto.ErrCodeUnauthorized
	errorMessage := "Authentication required"

	switch err {
	case auth.ErrExpiredToken:
		errorCode = dto.ErrCodeTokenExpired
		errorMessage = "Token has expired"
	case auth.ErrInvalidToken:
		errorCode = dto.ErrCodeTokenInvalid
		errorMessage = "Invalid token"
	case auth.ErrTokenNotYetValid:
		errorCode = dto.ErrCodeTokenInvalid
		errorMessage = "Token is not yet valid"
	}

	c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(errorCode, errorMessage))
}

// GetJWTClaims retrieves JWT claims from gin.Context
func GetJWTClaims(c *gin.Context) *auth.Claims {
	if claims, exists := c.Get(JWTClaimsKey); exists {
		if jwtClaims, ok := claims.(*auth.Claims); ok {
			return jwtClaims
		}
	}
	return nil
}

// GetJWTUserID retrieves the user ID from JWT claims in context
func GetJWTUserID(c *gin.Context) string {
	if userID, exists := c.Get(JWTUserIDKey); exists {
		if id, ok := userID.(string); ok {
			return id
		}
	}
	return ""
}
