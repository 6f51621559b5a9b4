package auth

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the verified content of a bearer token.
type Claims struct {
	UserID   uint
	Username string
}

type Manager struct {
	secret []byte
}

func NewManager(secret string) (*Manager, error) {
	if secret == "" {
		return nil, fmt.Errorf("token signing secret must not be empty")
	}
	return &Manager{secret: []byte(secret)}, nil
}

// Generate signs a token carrying the user's id and username. Tokens carry no
// expiry: they stay valid until the signing secret rotates.
func (m *Manager) Generate(userID uint, username string) (string, error) {
	claims := jwt.MapClaims{
		"user_id":  userID,
		"username": username,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

func (m *Manager) Verify(tokenString string) (Claims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return m.secret, nil
	})

	if err != nil || !token.Valid {
		return Claims{}, fmt.Errorf("invalid token")
	}

	mapClaims, ok := token.Claims.(jwt.MapClaims)

	if !ok {
		return Claims{}, fmt.Errorf("invalid token claims")
	}

	userIDFloat, ok := mapClaims["user_id"].(float64)

	if !ok {
		return Claims{}, fmt.Errorf("invalid user ID in token claims")
	}

	username, _ := mapClaims["username"].(string)

	return Claims{UserID: uint(userIDFloat), Username: username}, nil
}
