package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	AdminRole       = "admin"
	jwtIssuer       = "scs-mail-server"
	defaultAdminTTL = time.Hour
	roleClaim       = "role"
)

var (
	ErrInvalidAdminToken = errors.New("invalid admin token")
	// ErrAdminRoleRequired marks a token that verified but lacks the admin role.
	ErrAdminRoleRequired = errors.New("admin role required")
	// ErrNoSigningSecret means no JWT secret is configured, so no token is trusted.
	ErrNoSigningSecret = errors.New("no admin signing secret configured")
)

var _ JWTGenerator = (*JWTService)(nil)

// JWTService mints and checks the HS256 bearer tokens used by the admin routes.
type JWTService struct {
	jwtSecret []byte
	ttl       time.Duration
}

// NewJWTService creates a JWTService. ttl <= 0 means one hour.
func NewJWTService(secret string, ttl time.Duration) *JWTService {
	if ttl <= 0 {
		ttl = defaultAdminTTL
	}
	return &JWTService{jwtSecret: []byte(secret), ttl: ttl}
}

// GenerateToken creates an admin token for subject
func (s *JWTService) GenerateToken(subject string) (string, error) {
	if len(s.jwtSecret) == 0 {
		return "", ErrNoSigningSecret
	}
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":     subject,
		"iss":     jwtIssuer,
		"exp":     now.Add(s.ttl).Unix(),
		"iat":     now.Unix(),
		"nbf":     now.Unix(),
		roleClaim: AdminRole,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return tokenString, nil
}

// ValidateToken returns the subject of a valid admin token. With an empty
// secret every token is rejected.
func (s *JWTService) ValidateToken(tokenString string) (string, error) {
	if len(s.jwtSecret) == 0 {
		return "", fmt.Errorf("%w: %w", ErrInvalidAdminToken, ErrNoSigningSecret)
	}
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	}, jwt.WithIssuer(jwtIssuer), jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidAdminToken, err)
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", ErrInvalidAdminToken
	}
	return adminSubject(claims)
}

// adminSubject checks the role claim and returns the subject.
func adminSubject(claims jwt.MapClaims) (string, error) {
	if role, _ := claims[roleClaim].(string); role != AdminRole {
		return "", fmt.Errorf("%w: %w", ErrInvalidAdminToken, ErrAdminRoleRequired)
	}
	subject, err := claims.GetSubject()
	if err != nil || subject == "" {
		return "", fmt.Errorf("%w: missing subject", ErrInvalidAdminToken)
	}
	return subject, nil
}
