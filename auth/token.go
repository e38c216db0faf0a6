package auth

import (
	"errors"
	"time"

	"archersedge/config"

	"github.com/golang-jwt/jwt/v5"
)

type Role string

const (
	RoleArcher Role = "archer"
	RoleCoach  Role = "coach"
	RoleAdmin  Role = "admin"
)

func (r Role) Valid() bool {
	return r == RoleArcher || r == RoleCoach || r == RoleAdmin
}

// Identity is who is acting on a request. ProfileID 0 means no linked profile.
type Identity struct {
	ProfileID int  `json:"profile_id"`
	Role      Role `json:"role"`
}

func (i Identity) HasRole(roles ...Role) bool {
	for _, r := range roles {
		if i.Role == r {
			return true
		}
	}
	return false
}

type Claims struct {
	ProfileID int    `json:"profile_id"`
	Role      string `json:"role"`
	jwt.RegisteredClaims
}

const tokenLifetime = time.Hour * 24 * 21

var ErrInvalidToken = errors.New("invalid token")

func CreateToken(identity Identity) (string, error) {
	return createToken(identity, time.Now().Add(tokenLifetime))
}

func createToken(identity Identity, expiresAt time.Time) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		ProfileID: identity.ProfileID,
		Role:      string(identity.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	})
	return token.SignedString([]byte(config.Env().JWTSecret))
}

func ParseToken(tokenString string) (*Identity, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(config.Env().JWTSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	if !token.Valid || !Role(claims.Role).Valid() {
		return nil, ErrInvalidToken
	}
	return &Identity{ProfileID: claims.ProfileID, Role: Role(claims.Role)}, nil
}
