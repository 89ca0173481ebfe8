package impl

import (
	"context"
	"time"

	"account-auth/internal/domain"
	"account-auth/internal/dto"
	"account-auth/internal/service"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// ====== Config ======

type TokenConfig struct {
	Issuer        string
	AccessSecret  []byte // HS256 secret for access tokens
	RefreshSecret []byte // independent HS256 secret for refresh tokens
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
}

// ====== Claims ======

type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// ====== Service ======

type TokenServiceImpl struct {
	cfg TokenConfig
}

func NewTokenServiceHS256(cfg TokenConfig) *TokenServiceImpl {
	return &TokenServiceImpl{cfg: cfg}
}

// Mint signs the access and refresh tokens concurrently; the two signing
// operations have no ordering dependency and are joined before returning.
func (t *TokenServiceImpl) Mint(ctx context.Context, userID domain.UserID, email string) (*dto.TokenPair, error) {
	now := time.Now().UTC()

	var pair dto.TokenPair
	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		signed, err := t.sign(userID, email, now, t.cfg.AccessTTL, t.cfg.AccessSecret)
		if err != nil {
			return err
		}
		pair.AccessToken = signed
		return nil
	})
	g.Go(func() error {
		signed, err := t.sign(userID, email, now, t.cfg.RefreshTTL, t.cfg.RefreshSecret)
		if err != nil {
			return err
		}
		pair.RefreshToken = signed
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &pair, nil
}

func (t *TokenServiceImpl) VerifyAccess(token string) (*service.TokenClaims, error) {
	return t.verify(token, t.cfg.AccessSecret)
}

func (t *TokenServiceImpl) VerifyRefresh(token string) (*service.TokenClaims, error) {
	return t.verify(token, t.cfg.RefreshSecret)
}

// ====== Helpers ======

func (t *TokenServiceImpl) sign(userID domain.UserID, email string, now time.Time, ttl time.Duration, secret []byte) (string, error) {
	claims := Claims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    t.cfg.Issuer,
			Subject:   userID.String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        uuid.New().String(),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// verify collapses every failure mode (expired, bad signature, malformed,
// wrong issuer) into domain.ErrInvalidToken so callers cannot distinguish.
func (t *TokenServiceImpl) verify(tokenStr string, secret []byte) (*service.TokenClaims, error) {
	claims := &Claims{}
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	tok, err := parser.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		return secret, nil
	})
	if err != nil || !tok.Valid {
		return nil, domain.ErrInvalidToken
	}
	if claims.Issuer != t.cfg.Issuer {
		return nil, domain.ErrInvalidToken
	}
	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, domain.ErrInvalidToken
	}
	return &service.TokenClaims{UserID: userID, Email: claims.Email}, nil
}
