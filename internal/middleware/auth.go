package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/BruksfildServices01/home-scheduler/internal/authz"
	"github.com/BruksfildServices01/home-scheduler/internal/config"
	"github.com/BruksfildServices01/home-scheduler/internal/models"
)

const (
	ContextUserID   = "userID"
	ContextUserRole = "userRole"
)

func AuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error_code": "missing_authorization_header", "message": "Token não informado."})
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error_code": "invalid_authorization_header", "message": "Cabeçalho de autorização inválido."})
			return
		}

		token, err := jwt.Parse(parts[1], func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrTokenMalformed
			}
			return []byte(cfg.JWTSecret), nil
		})
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error_code": "invalid_token", "message": "Token inválido ou expirado."})
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error_code": "invalid_token_claims", "message": "Token inválido."})
			return
		}

		userID, ok1 := claims["sub"].(float64)
		role, ok2 := claims["role"].(string)
		if !ok1 || !ok2 || userID <= 0 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error_code": "invalid_token_payload", "message": "Token inválido."})
			return
		}

		c.Set(ContextUserID, uint(userID))
		c.Set(ContextUserRole, models.Role(role))

		c.Next()
	}
}

// CallerFrom monta a identidade do chamador a partir do contexto autenticado
func CallerFrom(c *gin.Context) authz.Caller {
	caller := authz.Caller{}
	if v, ok := c.Get(ContextUserID); ok {
		caller.UserID, _ = v.(uint)
	}
	if v, ok := c.Get(ContextUserRole); ok {
		caller.Role, _ = v.(models.Role)
	}
	return caller
}
