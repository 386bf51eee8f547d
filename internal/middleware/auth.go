package middleware

import (
	"chosung_quiz_backend/internal/config"
	"chosung_quiz_backend/internal/util"
	"strings"

	"github.com/gin-gonic/gin"
)

// AdminAuth guards the admin surface: bearer JWT with the admin role.
func AdminAuth(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := ""
		authHeader := c.GetHeader("Authorization")
		if authHeader != "" {
			tokenString = strings.TrimPrefix(authHeader, "Bearer ")
		}

		if tokenString == "" {
			util.Unauthorized(c)
			c.Abort()
			return
		}

		claims, err := util.ParseJWT(tokenString, cfg.JWT.Secret)
		if err != nil {
			util.Unauthorized(c)
			c.Abort()
			return
		}

		if claims.Role != util.RoleAdmin {
			util.Forbidden(c)
			c.Abort()
			return
		}

		c.Set("claims", claims)
		c.Next()
	}
}
