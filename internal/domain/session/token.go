package session

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	apperrors "github.com/yanqian/moonwatch/pkg/errors"
	"github.com/yanqian/moonwatch/pkg/util"
)

const tokenIssuer = "moonwatch"

// Issuer signs and verifies session cookies.
type Issuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewIssuer builds an HS256 issuer.
func NewIssuer(cfg Config) (*Issuer, error) {
	if strings.TrimSpace(cfg.Secret) == "" {
		return nil, errors.New("session secret cannot be empty")
	}
	if cfg.TTL <= 0 {
		return nil, errors.New("session ttl must be positive")
	}
	return &Issuer{secret: []byte(cfg.Secret), ttl: cfg.TTL, now: util.NowUTC}, nil
}

// TTL is the lifetime of issued tokens.
func (i *Issuer) TTL() time.Duration {
	return i.ttl
}

// New starts a session and returns its id and signed token.
func (i *Issuer) New() (string, string, error) {
	id := uuid.NewString()
	token, err := i.Issue(id)
	if err != nil {
		return "", "", err
	}
	return id, token, nil
}

// Issue signs a token for an existing session id.
func (i *Issuer) Issue(id string) (string, error) {
	now := i.now()
	claims := jwt.RegisteredClaims{
		Issuer:    tokenIssuer,
		Subject:   id,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", apperrors.Wrap(apperrors.CodeSessionError, "failed to sign session token", err)
	}
	return signed, nil
}

// Parse validates token and returns the session id it carries.
func (i *Issuer) Parse(token string) (string, error) {
	if strings.TrimSpace(token) == "" {
		return "", apperrors.Wrap(apperrors.CodeSessionError, "session token missing", nil)
	}
	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %s", t.Method.Alg())
		}
		return i.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil {
		return "", apperrors.Wrap(apperrors.CodeSessionError, "session token invalid", err)
	}
	if !parsed.Valid {
		return "", apperrors.Wrap(apperrors.CodeSessionError, "session token invalid", nil)
	}
	if _, err := uuid.Parse(claims.Subject); err != nil {
		return "", apperrors.Wrap(apperrors.CodeSessionError, "session id malformed", err)
	}
	return claims.Subject, nil
}
