package middleware

import (
	"net/http"
	"strings"

	"bookcrossing-backend/pkg/jwt"

	"github.com/gin-gonic/gin"
)

// LoginKey is the gin context key under which the authenticated caller's
// login is stored.
const LoginKey = "login"

// Auth validates the Bearer access token and puts the caller's login into
// the request context. Ownership checks downstream compare against this
// login.
func Auth(manager *jwt.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"token": "Отсутствует токен авторизации"})
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"token": "Некорректный заголовок авторизации"})
			return
		}

		claims, err := manager.ValidateAccessToken(parts[1])
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"token": "Недействительный токен"})
			return
		}

		c.Set(LoginKey, claims.Login)
		c.Next()
	}
}

// CallerLogin returns the login set by Auth. The bool is false when the
// handler is reached without the middleware, which is a routing bug.
func CallerLogin(c *gin.Context) (string, bool) {
	login := c.GetString(LoginKey)
	return login, login != ""
}
