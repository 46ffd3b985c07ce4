package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fastygo/storefront/domain"
	"github.com/fastygo/storefront/internal/docstore"
	"github.com/fastygo/storefront/usecase"
)

const defaultTTL = 12 * time.Hour

// Claims are carried by admin access tokens.
type Claims struct {
	Username string `json:"username"`
	Name     string `json:"name,omitempty"`
	jwt.RegisteredClaims
}

// Token is the result of a successful login.
type Token struct {
	AccessToken string    `json:"accessToken"`
	TokenType   string    `json:"tokenType"`
	ExpiresAt   time.Time `json:"expiresAt"`
	Username    string    `json:"username"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
}

type Options struct {
	Secret string
	Issuer string
	TTL    time.Duration
}

type UseCase struct {
	store  usecase.DocumentStore
	opts   Options
	logger *zap.Logger
}

func New(store usecase.DocumentStore, opts Options, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.TTL <= 0 {
		opts.TTL = defaultTTL
	}
	return &UseCase{
		store:  store,
		opts:   opts,
		logger: logger,
	}
}

// Login checks the credentials against the admin account stored in the
// site document and issues a signed token.
func (uc *UseCase) Login(ctx context.Context, username, password string) (*Token, error) {
	if username == "" || password == "" {
		return nil, domain.Invalidf("username and password are required")
	}
	if uc.opts.Secret == "" {
		return nil, domain.NewError(domain.ErrCodeInternal, "token signing is not configured")
	}

	doc, info := uc.store.Load(ctx)
	if info.Malformed || (info.Degraded && info.Source == docstore.SourceDefault) {
		// Neither the built-in credentials nor an outdated copy may open the
		// admin while the stored document cannot be read.
		return nil, info.Unavailable()
	}

	admin := doc.Admin
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(admin.Username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(admin.Password)) == 1
	if !userOK || !passOK {
		uc.logger.Warn("admin login rejected", zap.String("username", username))
		return nil, domain.ErrUnauthorized
	}

	now := time.Now()
	expires := now.Add(uc.opts.TTL)
	claims := Claims{
		Username: admin.Username,
		Name:     admin.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    uc.opts.Issuer,
			Subject:   admin.Username,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(uc.opts.Secret))
	if err != nil {
		return nil, domain.WrapError(domain.ErrCodeInternal, "sign token", err)
	}

	uc.logger.Info("admin logged in", zap.String("username", admin.Username))
	return &Token{
		AccessToken: signed,
		TokenType:   "Bearer",
		ExpiresAt:   expires.UTC().Truncate(time.Second),
		Username:    admin.Username,
		Name:        admin.Name,
		Email:       admin.Email,
	}, nil
}

// Verify parses and validates an access token.
func (uc *UseCase) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return []byte(uc.opts.Secret), nil
	})
	if err != nil || !token.Valid {
		if err == nil {
			err = errors.New("token is not valid")
		}
		return nil, domain.WrapError(domain.ErrCodeUnauthorized, "invalid token", err)
	}
	if uc.opts.Issuer != "" && !claims.VerifyIssuer(uc.opts.Issuer, true) {
		return nil, domain.NewError(domain.ErrCodeUnauthorized, "invalid token issuer")
	}
	return claims, nil
}
