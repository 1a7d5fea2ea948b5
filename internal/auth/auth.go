package auth

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"appointment-booking-api/internal/model"
)

var ErrBadToken = errors.New("invalid token")

func HashPassword(pw string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.DefaultCost)
	return string(b), err
}

func CheckPassword(hash, pw string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(pw)) == nil
}

// Claims carries the actor a token was issued to.
type Claims struct {
	UserID int64           `json:"id"`
	Type   model.ActorKind `json:"type"`
	jwt.RegisteredClaims
}

func (c *Claims) Actor() model.Actor {
	return model.Actor{Kind: c.Type, ID: c.UserID}
}

func MakeToken(a model.Actor, secret string, ttl time.Duration) (string, error) {
	now := time.Now()
	c := Claims{
		UserID: a.ID,
		Type:   a.Kind,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   string(a.Kind) + ":" + strconv.FormatInt(a.ID, 10),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString([]byte(secret))
}

func ParseToken(raw, secret string) (*Claims, error) {
	tok, err := jwt.ParseWithClaims(raw, &Claims{}, func(t *jwt.Token) (any, error) {
		// block alg confusion
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrBadToken
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	c, ok := tok.Claims.(*Claims)
	if !ok || !tok.Valid {
		return nil, ErrBadToken
	}
	if c.UserID <= 0 || !c.Type.Valid() {
		return nil, ErrBadToken
	}
	return c, nil
}
