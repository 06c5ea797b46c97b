// Package token выпускает и проверяет подписанные JWT токены доступа.
// Проверка не требует обращения к хранилищу: токен нельзя отозвать,
// он просто истекает.
package token

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// MinSecretLength минимальная длина секрета HS256 в байтах (256 бит)
const MinSecretLength = 32

// DefaultLifetime время жизни токена по умолчанию
const DefaultLifetime = 24 * time.Hour

// Ошибки проверки токена
var (
	ErrExpired      = errors.New("token expired")
	ErrBadSignature = errors.New("invalid token signature")
	ErrMalformed    = errors.New("malformed token")
	ErrUnsupported  = errors.New("unsupported token")
)

// ErrWeakSecret возвращается NewCodec, если секрет короче MinSecretLength
var ErrWeakSecret = fmt.Errorf("signing secret must be at least %d bytes", MinSecretLength)

// Codec issues and verifies HS256 tokens bound to a subject.
type Codec struct {
	secret   []byte
	lifetime time.Duration
}

// NewCodec создает Codec. Слабый секрет - фатальная ошибка конфигурации,
// небезопасного значения по умолчанию нет.
func NewCodec(secret []byte, lifetime time.Duration) (*Codec, error) {
	if len(secret) < MinSecretLength {
		return nil, ErrWeakSecret
	}
	if lifetime <= 0 {
		return nil, fmt.Errorf("token lifetime must be positive, got %s", lifetime)
	}

	key := make([]byte, len(secret))
	copy(key, secret)

	return &Codec{
		secret:   key,
		lifetime: lifetime,
	}, nil
}

// Lifetime returns how long issued tokens stay valid.
func (c *Codec) Lifetime() time.Duration {
	return c.lifetime
}

// Issue creates a signed token for subject valid from now until now+lifetime.
func (c *Codec) Issue(subject string, now time.Time) (string, error) {
	if subject == "" {
		return "", errors.New("token subject cannot be empty")
	}

	claims := jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(c.lifetime)),
		// jti делает каждый токен уникальным, даже если выпущен в ту же секунду
		ID: uuid.NewString(),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, nil
}

// Verify checks the signature and expiry of token at the moment now and
// returns its subject. Errors are one of ErrExpired, ErrBadSignature,
// ErrMalformed or ErrUnsupported.
func (c *Codec) Verify(token string, now time.Time) (string, error) {
	var claims jwt.RegisteredClaims

	_, err := jwt.ParseWithClaims(token, &claims, c.keyFunc,
		jwt.WithTimeFunc(func() time.Time { return now }),
		jwt.WithExpirationRequired(),
		jwt.WithStrictDecoding(),
	)
	if err != nil {
		return "", mapError(token, err)
	}

	if claims.Subject == "" {
		return "", ErrMalformed
	}

	return claims.Subject, nil
}

// keyFunc допускает только HMAC, все остальное (включая "none") не поддерживается
func (c *Codec) keyFunc(t *jwt.Token) (any, error) {
	if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("%w: signing method %v", ErrUnsupported, t.Header["alg"])
	}
	return c.secret, nil
}

// mapError сводит ошибки jwt к нашим четырем видам.
// Порядок важен: jwt может объединять несколько ошибок в одну.
func mapError(token string, err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenMalformed):
		// Заголовок и claims читаются, значит испорчен сегмент подписи
		if signedPartReadable(token) {
			return ErrBadSignature
		}
		return ErrMalformed
	case errors.Is(err, ErrUnsupported), errors.Is(err, jwt.ErrTokenUnverifiable):
		return ErrUnsupported
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return ErrBadSignature
	case errors.Is(err, jwt.ErrTokenExpired):
		return ErrExpired
	case errors.Is(err, jwt.ErrTokenRequiredClaimMissing):
		return ErrMalformed
	default:
		return ErrUnsupported
	}
}

// signedPartReadable сообщает, что header и claims токена декодируются
func signedPartReadable(token string) bool {
	i := strings.LastIndex(token, ".")
	if i <= 0 {
		return false
	}
	_, _, err := jwt.NewParser(jwt.WithStrictDecoding()).ParseUnverified(token[:i]+".", &jwt.RegisteredClaims{})
	return err == nil
}
