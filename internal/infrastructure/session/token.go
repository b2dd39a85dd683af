package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/rafabene/pharmacy-authz/internal/domain/entities"
	"github.com/rafabene/pharmacy-authz/internal/domain/valueobjects"
)

var (
	ErrMissingSecret  = errors.New("jwt secret not configured")
	ErrMissingSubject = errors.New("token has no subject")
)

// Claims são as claims emitidas pelo serviço de identidade
type Claims struct {
	Role       string `json:"role"`
	PharmacyID string `json:"pharmacy_id,omitempty"`
	Email      string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// TokenParser valida tokens HS256 e os converte em principais
type TokenParser struct {
	secret []byte
	issuer string
	now    func() time.Time
}

// NewTokenParser cria um parser; issuer vazio não valida o emissor
func NewTokenParser(secret, issuer string) *TokenParser {
	return &TokenParser{
		secret: []byte(secret),
		issuer: issuer,
		now:    time.Now,
	}
}

// Parse valida assinatura, expiração e emissor do token.
// Papel desconhecido não é erro: o principal fica sem papel efetivo.
func (p *TokenParser) Parse(tokenString string) (entities.Principal, error) {
	if len(p.secret) == 0 {
		return entities.Anonymous(), ErrMissingSecret
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(p.now),
	}
	if p.issuer != "" {
		opts = append(opts, jwt.WithIssuer(p.issuer))
	}

	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (interface{}, error) {
		return p.secret, nil
	}, opts...)
	if err != nil {
		return entities.Anonymous(), fmt.Errorf("invalid token: %w", err)
	}

	if claims.Subject == "" {
		return entities.Anonymous(), ErrMissingSubject
	}

	principal := entities.Principal{
		ID:         claims.Subject,
		Role:       entities.Role(claims.Role),
		PharmacyID: claims.PharmacyID,
	}
	if claims.Email != "" {
		if email, err := valueobjects.NewEmail(claims.Email); err == nil {
			principal.Email = email
		}
	}

	return principal, nil
}

// Issue assina um token para o principal com validade ttl
func (p *TokenParser) Issue(principal entities.Principal, ttl time.Duration) (string, error) {
	if len(p.secret) == 0 {
		return "", ErrMissingSecret
	}

	now := p.now()
	claims := Claims{
		Role:       string(principal.Role),
		PharmacyID: principal.PharmacyID,
		Email:      principal.Email.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   principal.ID,
			Issuer:    p.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(p.secret)
}
