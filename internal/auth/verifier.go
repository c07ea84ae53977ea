package auth

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jws"
	"github.com/lestrrat-go/jwx/v2/jwt"

	"github.com/noah-isme/backend-turismo/internal/common"
)

const roleClaim = "role"

var (
	errNoSecret    = errors.New("auth: secret is required")
	errNoSubject   = errors.New("auth: token missing subject")
	errUnknownRole = errors.New("auth: token carries an unknown role")
)

// Claims is the identity carried by a verified access token.
type Claims struct {
	UserID string
	Role   string
}

// TokenValidator checks the registered claims of a parsed token.
type TokenValidator struct {
	Issuer    string
	Audience  string
	ClockSkew time.Duration
	Algorithm jwa.SignatureAlgorithm
}

// Validate ensures tok was signed with the expected algorithm, is inside its
// validity window and names the configured issuer and audience.
func (v TokenValidator) Validate(tok jwt.Token, algorithm jwa.SignatureAlgorithm, now time.Time) error {
	if tok == nil {
		return errors.New("auth: token is nil")
	}
	if algorithm == "" {
		return errors.New("auth: token missing algorithm")
	}
	if v.Algorithm != "" && algorithm != v.Algorithm {
		return fmt.Errorf("auth: unexpected token algorithm %s", algorithm)
	}
	options := []jwt.ValidateOption{
		jwt.WithClock(jwt.ClockFunc(func() time.Time { return now })),
	}
	if v.ClockSkew > 0 {
		options = append(options, jwt.WithAcceptableSkew(v.ClockSkew))
	}
	if v.Issuer != "" {
		options = append(options, jwt.WithIssuer(v.Issuer))
	}
	if v.Audience != "" {
		options = append(options, jwt.WithAudience(v.Audience))
	}
	return jwt.Validate(tok, options...)
}

// VerifierConfig configures a Verifier.
type VerifierConfig struct {
	Secret    string
	Issuer    string
	Audience  string
	ClockSkew time.Duration
}

// Verifier validates HS256 access tokens issued by the identity provider.
type Verifier struct {
	secret    []byte
	validator TokenValidator
	now       func() time.Time
}

// NewVerifier builds a Verifier. The shared secret is mandatory.
func NewVerifier(cfg VerifierConfig) (*Verifier, error) {
	secret := strings.TrimSpace(cfg.Secret)
	if secret == "" {
		return nil, errNoSecret
	}
	return &Verifier{
		secret: []byte(secret),
		validator: TokenValidator{
			Issuer:    cfg.Issuer,
			Audience:  cfg.Audience,
			ClockSkew: cfg.ClockSkew,
			Algorithm: jwa.HS256,
		},
		now: time.Now,
	}, nil
}

// WithNow overrides the clock used for expiry checks.
func (v *Verifier) WithNow(now func() time.Time) {
	if now != nil {
		v.now = now
	}
}

// Verify parses token and returns its claims. Tokens without a role claim are
// treated as tourists.
func (v *Verifier) Verify(token string) (Claims, error) {
	trimmed := strings.TrimSpace(token)
	if trimmed == "" {
		return Claims{}, unauthorized("missing token", errNoToken)
	}
	algorithm, err := tokenAlgorithm(trimmed)
	if err != nil {
		return Claims{}, unauthorized("invalid token", err)
	}
	if algorithm != v.validator.Algorithm {
		return Claims{}, unauthorized("invalid token", fmt.Errorf("auth: unexpected token algorithm %s", algorithm))
	}
	parsed, err := jwt.ParseString(trimmed, jwt.WithKey(algorithm, v.secret), jwt.WithValidate(false))
	if err != nil {
		return Claims{}, unauthorized("invalid token", err)
	}
	if err := v.validator.Validate(parsed, algorithm, v.now()); err != nil {
		return Claims{}, unauthorized("invalid token", err)
	}
	subject := strings.TrimSpace(parsed.Subject())
	if subject == "" {
		return Claims{}, unauthorized("invalid token", errNoSubject)
	}
	role, err := roleOf(parsed)
	if err != nil {
		return Claims{}, unauthorized("invalid token", err)
	}
	return Claims{UserID: subject, Role: role}, nil
}

func roleOf(tok jwt.Token) (string, error) {
	raw, ok := tok.Get(roleClaim)
	if !ok {
		return common.RoleTourist, nil
	}
	role, _ := raw.(string)
	switch role {
	case common.RoleTourist, common.RoleProvider, common.RoleAdmin:
		return role, nil
	default:
		return "", errUnknownRole
	}
}

func tokenAlgorithm(token string) (jwa.SignatureAlgorithm, error) {
	message, err := jws.ParseString(token)
	if err != nil {
		return "", err
	}
	signatures := message.Signatures()
	if len(signatures) != 1 {
		return "", errors.New("auth: token must carry exactly one signature")
	}
	headers := signatures[0].ProtectedHeaders()
	if headers == nil {
		return "", errors.New("auth: token missing protected headers")
	}
	alg := headers.Algorithm()
	if alg == "" {
		return "", errors.New("auth: token missing algorithm")
	}
	if alg == jwa.NoSignature {
		return "", errors.New("auth: token uses none algorithm")
	}
	return alg, nil
}

func unauthorized(message string, err error) *common.AppError {
	return common.NewAppError("UNAUTHORIZED", message, http.StatusUnauthorized, err)
}
