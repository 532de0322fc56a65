package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// AuthMiddleware creates a Gin middleware handler that validates HS256 bearer tokens.
// The token subject becomes the acting user for audit fields.
func AuthMiddleware(jwtSecret string, issuer string) gin.HandlerFunc {
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if issuer != "" {
		opts = append(opts, jwt.WithIssuer(issuer))
	}
	parser := jwt.NewParser(opts...)

	return func(c *gin.Context) {
		logger := GetLoggerFromCtx(c.Request.Context())

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			logger.Warn("Authorization header missing")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			logger.Warn("Authorization header format invalid")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header format must be Bearer {token}"})
			return
		}

		claims := &jwt.RegisteredClaims{}
		token, err := parser.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (interface{}, error) {
			return []byte(jwtSecret), nil
		})
		if err != nil {
			logger.Warn("Invalid token", slog.String("error", err.Error()))
			msg := "Invalid token"
			if errors.Is(err, jwt.ErrTokenExpired) {
				msg = "Token has expired"
			} else if errors.Is(err, jwt.ErrTokenNotValidYet) {
				msg = "Token not valid yet"
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": msg})
			return
		}

		if !token.Valid || claims.Subject == "" {
			logger.Warn("Token has no subject")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token claims"})
			return
		}

		userID := claims.Subject
		ctx := WithUserID(c.Request.Context(), userID)
		ctx = WithLogger(ctx, logger.With(slog.String("user_id", userID)))
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}
