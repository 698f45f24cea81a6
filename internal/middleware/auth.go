package middleware

import (
	"net/http"
	"os"
	"strings"
	"time"

	"planeteye/backend/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"
)

const ActorKey = "actor"

// AuthMiddleware validates the Bearer token and resolves the current actor
// from the roster. Downstream handlers read the loaded *models.User from
// the context; role and capability decisions always start from the stored
// user, not from claims a client could replay.
func AuthMiddleware(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":   "missing_token",
				"message": "Authorization header is required",
			})
			return
		}

		if !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":   "invalid_token_format",
				"message": "Authorization header must use Bearer token",
			})
			return
		}

		tokenStr := strings.TrimPrefix(authHeader, "Bearer ")

		secret := os.Getenv("JWT_SECRET")
		if secret == "" {
			secret = "your-secret-key"
		}

		token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(secret), nil
		})

		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":   "invalid_token",
				"message": "Token validation failed",
			})
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":   "invalid_claims",
				"message": "Token claims are invalid",
			})
			return
		}

		if exp, ok := claims["exp"].(float64); ok {
			if time.Unix(int64(exp), 0).Before(time.Now()) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
					"error":   "expired_token",
					"message": "Token has expired",
				})
				return
			}
		}

		if iss, ok := claims["iss"].(string); ok && iss != "planeteye-backend" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":   "invalid_issuer",
				"message": "Token issuer is invalid",
			})
			return
		}

		userID, _ := claims["user_id"].(string)
		var actor models.User
		if err := db.Preload("Leaves").First(&actor, "id = ?", userID).Error; err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":   "unknown_user",
				"message": "Token does not reference a roster user",
			})
			return
		}

		c.Set("user_id", actor.ID)
		c.Set(ActorKey, &actor)

		c.Next()
	}
}

// Actor returns the authenticated user loaded by AuthMiddleware.
func Actor(c *gin.Context) (*models.User, bool) {
	value, exists := c.Get(ActorKey)
	if !exists {
		return nil, false
	}
	actor, ok := value.(*models.User)
	return actor, ok
}

// RequireManageEmployees gates directory mutations to Boss and Admin.
func RequireManageEmployees() gin.HandlerFunc {
	return requireCapability(func(u *models.User) bool { return u.CanManageEmployees() })
}

// RequireGroupCapability gates group creation and delegated assignment to
// Boss, Admin, and Team Leader.
func RequireGroupCapability() gin.HandlerFunc {
	return requireCapability(func(u *models.User) bool { return u.CanCreateGroup() })
}

func requireCapability(allowed func(*models.User) bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := Actor(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":   "not_authenticated",
				"message": "Authentication is required",
			})
			return
		}
		if !allowed(actor) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error":     "insufficient_role",
				"message":   "User role does not have access to this resource",
				"user_role": string(actor.Role),
			})
			return
		}
		c.Next()
	}
}
