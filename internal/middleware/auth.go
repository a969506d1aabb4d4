package middleware

import (
	"net/http"
	"os"
	"strings"

	"mystore-be/internal/utils"

	"github.com/golang-jwt/jwt/v5"
)

var jwtKey = []byte(os.Getenv("SECRET_KEY"))

// AuthMiddleware resolves the opaque identity key from a bearer token
// issued by the external identity provider. Requests without a valid
// token pass through unauthenticated; scoped endpoints reject them
// themselves.
func AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			next.ServeHTTP(w, r)
			return
		}

		tokenStr := strings.TrimPrefix(authHeader, "Bearer ")
		token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
			return jwtKey, nil
		})

		if err != nil || !token.Valid {
			next.ServeHTTP(w, r)
			return
		}

		if claims, ok := token.Claims.(jwt.MapClaims); ok {
			identity, _ := claims["sub"].(string)
			email, _ := claims["email"].(string)
			if identity != "" {
				r = r.WithContext(utils.SetUserContext(r.Context(), identity, email))
			}
		}

		next.ServeHTTP(w, r)
	})
}
