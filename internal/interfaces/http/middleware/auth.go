package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"token-forge.backend/pkg/jwt"
	"token-forge.backend/pkg/logger"
)

const (
	// AuthorizationHeader is the header key for authorization
	AuthorizationHeader = "Authorization"
	// BearerPrefix is the prefix for bearer tokens
	BearerPrefix = "Bearer "
	// WalletAddressKey is the context key for the caller's wallet address
	WalletAddressKey = "walletAddress"
	// WalletRoleKey is the context key for the caller's role
	WalletRoleKey = "walletRole"
)

// AuthMiddleware validates the bearer token and stores the authenticated
// wallet address in the request context. The token is assumed to have been
// issued only after the wallet proved control of its key upstream.
func AuthMiddleware(jwtService *jwt.JWTService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader(AuthorizationHeader)
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"code":    "ERR_UNAUTHORIZED",
				"message": "Authorization header is required",
			})
			return
		}

		if !strings.HasPrefix(authHeader, BearerPrefix) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"code":    "ERR_UNAUTHORIZED",
				"message": "Invalid authorization format. Use: Bearer <token>",
			})
			return
		}

		tokenString := strings.TrimPrefix(authHeader, BearerPrefix)
		claims, err := jwtService.ValidateToken(tokenString)
		if err != nil {
			logger.Debug(c.Request.Context(), "Token validation failed: "+err.Error())
			if err == jwt.ErrExpiredToken {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
					"code":    "ERR_UNAUTHORIZED",
					"message": "Token has expired",
				})
				return
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"code":    "ERR_UNAUTHORIZED",
				"message": "Invalid token",
			})
			return
		}

		c.Set(WalletAddressKey, strings.ToLower(claims.Address))
		c.Set(WalletRoleKey, claims.Role)

		c.Next()
	}
}

// GetWalletAddress gets the authenticated wallet address from context
func GetWalletAddress(c *gin.Context) (string, bool) {
	address, exists := c.Get(WalletAddressKey)
	if !exists {
		return "", false
	}
	addr, ok := address.(string)
	return addr, ok && addr != ""
}
