package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alexedwards/argon2id"
	"github.com/google/uuid"
	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jws"
	"github.com/lestrrat-go/jwx/v2/jwt"
	"github.com/redis/go-redis/v9"

	"github.com/noah-isme/backend-greenmart/internal/common"
)

var ErrInvalidCredentials = errors.New("auth: invalid credentials")

const tokenIssuer = "greenmart-api"

// Service implements account registration, login, and stateless access
// tokens with a Redis revocation denylist for logout.
type Service struct {
	Users     *Store
	Revoked   *redis.Client
	Secret    []byte
	AccessTTL time.Duration
	Now       func() time.Time
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *Service) accessTTL() time.Duration {
	if s.AccessTTL > 0 {
		return s.AccessTTL
	}
	return 15 * time.Minute
}

// Register creates an account and signs in the new user.
func (s *Service) Register(ctx context.Context, email, name, password string) (User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	hash, err := argon2id.CreateHash(password, argon2id.DefaultParams)
	if err != nil {
		return User{}, "", fmt.Errorf("hash password: %w", err)
	}
	u := User{
		ID:           uuid.NewString(),
		Email:        email,
		Name:         strings.TrimSpace(name),
		PasswordHash: hash,
		CreatedAt:    s.now().UTC(),
	}
	if err := s.Users.Create(ctx, u); err != nil {
		return User{}, "", err
	}
	token, err := s.issueAccessToken(u.ID)
	if err != nil {
		return User{}, "", err
	}
	return u, token, nil
}

// Login verifies credentials and issues an access token. Unknown email
// and wrong password collapse into one error so the response does not
// leak which part failed.
func (s *Service) Login(ctx context.Context, email, password string) (User, string, error) {
	u, err := s.Users.ByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return User{}, "", ErrInvalidCredentials
		}
		return User{}, "", err
	}
	ok, err := argon2id.ComparePasswordAndHash(password, u.PasswordHash)
	if err != nil {
		return User{}, "", fmt.Errorf("compare password: %w", err)
	}
	if !ok {
		return User{}, "", ErrInvalidCredentials
	}
	token, err := s.issueAccessToken(u.ID)
	if err != nil {
		return User{}, "", err
	}
	return u, token, nil
}

// Me loads the account behind an authenticated request.
func (s *Service) Me(ctx context.Context, userID string) (User, error) {
	return s.Users.ByID(ctx, userID)
}

// Logout revokes the presented token. The denylist entry expires with
// the token itself so the set stays bounded.
func (s *Service) Logout(ctx context.Context, rawToken string) error {
	parsed, err := s.parse(rawToken)
	if err != nil {
		return err
	}
	jti := parsed.JwtID()
	if jti == "" {
		return errors.New("auth: token missing jti")
	}
	ttl := time.Until(parsed.Expiration())
	if ttl <= 0 {
		return nil
	}
	return s.Revoked.Set(ctx, "auth:revoked:"+jti, "1", ttl).Err()
}

// ParseAccessToken validates an access token and returns the subject.
func (s *Service) ParseAccessToken(ctx context.Context, rawToken string) (string, error) {
	parsed, err := s.parse(rawToken)
	if err != nil {
		return "", err
	}
	if jti := parsed.JwtID(); jti != "" && s.Revoked != nil {
		n, err := s.Revoked.Exists(ctx, "auth:revoked:"+jti).Result()
		if err != nil {
			return "", fmt.Errorf("check revocation: %w", err)
		}
		if n > 0 {
			return "", common.NewAppError("TOKEN_REVOKED", "token has been revoked", 401, nil)
		}
	}
	return parsed.Subject(), nil
}

func (s *Service) parse(rawToken string) (jwt.Token, error) {
	trimmed := strings.TrimSpace(rawToken)
	if trimmed == "" {
		return nil, common.NewAppError("UNAUTHORIZED", "missing token", 401, nil)
	}
	algorithm, err := tokenAlgorithm(trimmed)
	if err != nil {
		return nil, common.NewAppError("UNAUTHORIZED", "malformed token", 401, err)
	}
	if algorithm != jwa.HS256 {
		return nil, common.NewAppError("UNAUTHORIZED", "unexpected token algorithm", 401, nil)
	}
	parsed, err := jwt.ParseString(trimmed,
		jwt.WithKey(algorithm, s.Secret),
		jwt.WithValidate(true),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithClock(jwt.ClockFunc(s.now)),
	)
	if err != nil {
		return nil, common.NewAppError("UNAUTHORIZED", "invalid or expired token", 401, err)
	}
	return parsed, nil
}

func (s *Service) issueAccessToken(userID string) (string, error) {
	now := s.now()
	token, err := jwt.NewBuilder().
		Issuer(tokenIssuer).
		Subject(userID).
		JwtID(uuid.NewString()).
		IssuedAt(now).
		Expiration(now.Add(s.accessTTL())).
		Build()
	if err != nil {
		return "", fmt.Errorf("build token: %w", err)
	}
	signed, err := jwt.Sign(token, jwt.WithKey(jwa.HS256, s.Secret))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return string(signed), nil
}

// tokenAlgorithm reads the signing algorithm off the JWS header so it
// can be pinned before the signature is checked.
func tokenAlgorithm(rawToken string) (jwa.SignatureAlgorithm, error) {
	message, err := jws.ParseString(rawToken)
	if err != nil {
		return "", err
	}
	signatures := message.Signatures()
	if len(signatures) == 0 {
		return "", errors.New("auth: token has no signatures")
	}
	alg := signatures[0].ProtectedHeaders().Algorithm()
	if alg == "" || alg == jwa.NoSignature {
		return "", errors.New("auth: token missing algorithm")
	}
	return alg, nil
}
