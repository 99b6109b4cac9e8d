package auth

import (
	"errors"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"depot_tracker/internal/models"
)

const (
	accessTokenTTL  = 15 * time.Minute
	refreshTokenTTL = 7 * 24 * time.Hour
)

var (
	accessSecret  = []byte(getSecret("JWT_ACCESS_SECRET", "supersecret"))
	refreshSecret = []byte(getSecret("JWT_REFRESH_SECRET", "supersecret-refresh"))
)

func getSecret(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

// GenerateAccessToken signs a short-lived token carrying the actor identity.
func GenerateAccessToken(user models.User) (string, error) {
	return signToken(user, "access", accessTokenTTL, accessSecret)
}

// GenerateRefreshToken signs the longer-lived refresh token with its own secret.
func GenerateRefreshToken(user models.User) (string, error) {
	return signToken(user, "refresh", refreshTokenTTL, refreshSecret)
}

func signToken(user models.User, typ string, ttl time.Duration, secret []byte) (string, error) {
	claims := jwt.MapClaims{
		"sub":   user.ID,
		"email": user.Email,
		"role":  string(user.Role),
		"type":  typ,
		"iat":   time.Now().Unix(),
		"exp":   time.Now().Add(ttl).Unix(),
	}
	if user.DepotID != nil {
		claims["depot_id"] = *user.DepotID
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// ParseAccessToken validates an access token and rebuilds the Actor.
func ParseAccessToken(tokenStr string) (Actor, error) {
	return parseToken(tokenStr, "access", accessSecret)
}

// ParseRefreshToken validates a refresh token and rebuilds the Actor.
func ParseRefreshToken(tokenStr string) (Actor, error) {
	return parseToken(tokenStr, "refresh", refreshSecret)
}

func parseToken(tokenStr, typ string, secret []byte) (Actor, error) {
	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return secret, nil
	})
	if err != nil || !token.Valid {
		return Actor{}, errors.New("invalid or expired token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return Actor{}, errors.New("invalid token claims")
	}
	if claimType, _ := claims["type"].(string); claimType != typ {
		return Actor{}, errors.New("wrong token type")
	}

	sub, ok := claims["sub"].(float64)
	if !ok {
		return Actor{}, errors.New("missing subject claim")
	}
	email, _ := claims["email"].(string)
	role, _ := claims["role"].(string)

	actor := Actor{
		UserID: uint(sub),
		Email:  email,
		Role:   models.Role(role),
	}
	if depot, ok := claims["depot_id"].(float64); ok {
		depotID := uint(depot)
		actor.DepotID = &depotID
	}
	return actor, nil
}
