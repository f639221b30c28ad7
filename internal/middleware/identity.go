package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// SessionCookie is the cookie the identity provider's browser SDK stores the
// session token in. It is read when no Authorization header is present.
const SessionCookie = "__session"

// IdentityClaims are the session token claims this service relies on.
// The identity provider is configured to include the username claim.
type IdentityClaims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// TokenVerifier checks session tokens issued by the identity provider.
type TokenVerifier struct {
	secret []byte
	parser *jwt.Parser
}

// NewTokenVerifier returns a verifier for HS256 tokens signed with secret.
// If issuer is non-empty the iss claim must equal it. Expiry is always required.
func NewTokenVerifier(secret, issuer string) *TokenVerifier {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if issuer != "" {
		opts = append(opts, jwt.WithIssuer(issuer))
	}
	return &TokenVerifier{secret: []byte(secret), parser: jwt.NewParser(opts...)}
}

// Verify parses token and returns the verified username.
func (v *TokenVerifier) Verify(token string) (string, error) {
	claims := &IdentityClaims{}
	_, err := v.parser.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return v.secret, nil
	})
	if err != nil {
		return "", err
	}
	if claims.Username == "" {
		return "", errors.New("token has no username claim")
	}
	return claims.Username, nil
}

type usernameKey struct{}

// WithUsername returns a copy of ctx carrying the verified username.
// Handler tests use it to stand in for NewIdentity.
func WithUsername(ctx context.Context, username string) context.Context {
	return context.WithValue(ctx, usernameKey{}, username)
}

// UsernameFrom returns the verified username stored by NewIdentity.
func UsernameFrom(ctx context.Context) (string, bool) {
	u, ok := ctx.Value(usernameKey{}).(string)
	return u, ok && u != ""
}

// NewIdentity returns a middleware that rejects requests without a valid
// session token with 401 {"message":"Unauthorized"} and otherwise stores the
// token's username in the request context.
func NewIdentity(v *TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				unauthorized(w)
				return
			}
			username, err := v.Verify(token)
			if err != nil {
				unauthorized(w)
				return
			}
			setLogUsername(r.Context(), username)
			next.ServeHTTP(w, r.WithContext(WithUsername(r.Context(), username)))
		})
	}
}

// bearerToken extracts the token from "Authorization: Bearer <token>", falling
// back to the session cookie.
func bearerToken(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		scheme, token, ok := strings.Cut(h, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") {
			return ""
		}
		return strings.TrimSpace(token)
	}
	if c, err := r.Cookie(SessionCookie); err == nil {
		return c.Value
	}
	return ""
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{"message": "Unauthorized"})
}
