package middleware

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Eursukkul/coaching-service/internal/lifecycle"
	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
)

const actorKey = "actor"

// JWTAuth validates the bearer token issued by the auth service and stores
// the caller as a lifecycle.Actor on the echo context.
func JWTAuth(secret []byte) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			if !strings.HasPrefix(authHeader, "Bearer ") {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing or invalid Authorization header")
			}
			tokenString := strings.TrimSpace(authHeader[len("Bearer "):])

			token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
				if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
				}
				return secret, nil
			})
			if err != nil || !token.Valid {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired token")
			}

			claims, ok := token.Claims.(jwt.MapClaims)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token payload")
			}
			actor, ok := actorFromClaims(claims)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "token has no subject")
			}

			SetActor(c, actor)
			return next(c)
		}
	}
}

// RequireAdmin must run after JWTAuth.
func RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		actor, ok := ActorFrom(c)
		if !ok || !actor.IsAdmin() {
			return echo.NewHTTPError(http.StatusForbidden, "admin access required")
		}
		return next(c)
	}
}

func SetActor(c echo.Context, actor lifecycle.Actor) {
	c.Set(actorKey, actor)
}

func ActorFrom(c echo.Context) (lifecycle.Actor, bool) {
	actor, ok := c.Get(actorKey).(lifecycle.Actor)
	return actor, ok
}

// GenerateToken signs an HS256 token the way the auth service does.
func GenerateToken(secret []byte, userID string, role lifecycle.Role, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  userID,
		"role": string(role),
		"iat":  now.Unix(),
		"exp":  now.Add(ttl).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

// actorFromClaims reads the subject from sub, user_id or id. Only "admin"
// grants elevated access; every other role acts as a plain user.
func actorFromClaims(claims jwt.MapClaims) (lifecycle.Actor, bool) {
	var userID string
	for _, key := range []string{"sub", "user_id", "id"} {
		switch v := claims[key].(type) {
		case string:
			userID = v
		case float64:
			userID = strconv.FormatFloat(v, 'f', -1, 64)
		}
		if userID != "" {
			break
		}
	}
	if userID == "" {
		return lifecycle.Actor{}, false
	}

	role := lifecycle.RoleUser
	if r, _ := claims["role"].(string); strings.EqualFold(r, string(lifecycle.RoleAdmin)) {
		role = lifecycle.RoleAdmin
	}
	return lifecycle.Actor{UserID: userID, Role: role}, true
}
