package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/tazeembhat/PaymentsApp/internal/token"
	"github.com/tazeembhat/PaymentsApp/internal/utils"
)

const userIDKey = "userId"

// AuthMiddleware gates protected routes: it extracts and verifies the
// bearer token and injects the resolved user ID into the request context.
// No role or permission checks exist beyond this.
func AuthMiddleware(tokens *token.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"message": "Authorization header required",
			})
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"message": "Invalid authorization header format",
			})
			c.Abort()
			return
		}

		userID, err := tokens.Verify(parts[1])
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"message": "Invalid token",
			})
			c.Abort()
			return
		}

		// A valid signature is not enough: the subject must be a user ID
		// this service issued, not a foreign claim signed with a shared key.
		if !utils.ValidateUserID(userID) {
			c.JSON(http.StatusUnauthorized, gin.H{
				"message": "Invalid token",
			})
			c.Abort()
			return
		}

		c.Set(userIDKey, userID)
		c.Next()
	}
}

func GetUserID(c *gin.Context) (string, bool) {
	userID, exists := c.Get(userIDKey)
	if !exists {
		return "", false
	}
	return userID.(string), true
}

// SetUserID exists for tests that need to simulate an authenticated request
// without running the full middleware.
func SetUserID(c *gin.Context, userID string) {
	c.Set(userIDKey, userID)
}
