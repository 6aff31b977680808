package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid token")

// Claims ties a bearer token to a session slot. UID and Role mirror the
// identity held in that slot at issue time and are informational only.
type Claims struct {
	SID  string `json:"sid"`
	UID  string `json:"uid"`
	Role string `json:"role"`
	jwt.RegisteredClaims
}

type JWTer struct {
	Secret []byte
	Issuer string
	TTL    time.Duration
	Now    func() time.Time
}

func (j *JWTer) now() time.Time {
	if j.Now != nil {
		return j.Now()
	}
	return time.Now()
}

func (j *JWTer) Issue(sid, uid, role string) (string, error) {
	if sid == "" {
		return "", fmt.Errorf("issue token: %w: empty session id", ErrInvalidToken)
	}
	now := j.now()
	claims := Claims{
		SID:  sid,
		UID:  uid,
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    j.Issuer,
			Subject:   uid,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(j.TTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(j.Secret)
}

func (j *JWTer) Parse(tokenStr string) (*Claims, error) {
	t, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected alg %v", token.Header["alg"])
		}
		return j.Secret, nil
	}, jwt.WithIssuer(j.Issuer), jwt.WithLeeway(60*time.Second), jwt.WithTimeFunc(j.now))

	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if c, ok := t.Claims.(*Claims); ok && t.Valid && c.SID != "" {
		return c, nil
	}
	return nil, ErrInvalidToken
}
