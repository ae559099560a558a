package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"time"

	"github.com/utafrali/BackofficeGo/pkg/httpclient"
)

// defaultTokeninfoEndpoint is Google's ID token introspection endpoint.
const defaultTokeninfoEndpoint = "https://oauth2.googleapis.com/tokeninfo"

// acceptedIssuers are the issuer values Google uses for ID tokens.
var acceptedIssuers = map[string]struct{}{
	"accounts.google.com":         {},
	"https://accounts.google.com": {},
}

// GoogleIdentity is the verified identity extracted from a Google ID token.
type GoogleIdentity struct {
	Email      string
	GivenName  string
	FamilyName string
}

// GoogleVerifier validates Google ID tokens against the tokeninfo endpoint.
// The HTTP call goes through a circuit breaker so a Google outage degrades
// fast instead of tying up request handlers.
type GoogleVerifier struct {
	client   *httpclient.CircuitBreakerClient
	endpoint string
	audience string
	logger   *slog.Logger
}

// NewGoogleVerifier creates a verifier for the given OAuth client ID (the
// expected aud claim).
func NewGoogleVerifier(audience string, logger *slog.Logger) *GoogleVerifier {
	base := httpclient.New(httpclient.Config{
		Timeout:         10 * time.Second,
		MaxRetries:      2,
		RetryWaitMin:    200 * time.Millisecond,
		RetryWaitMax:    time.Second,
		MaxConnsPerHost: 10,
	})

	return &GoogleVerifier{
		client:   httpclient.NewCircuitBreakerClient(base, httpclient.DefaultCircuitBreakerConfig("google-tokeninfo"), logger),
		endpoint: defaultTokeninfoEndpoint,
		audience: audience,
		logger:   logger,
	}
}

// tokeninfoResponse is the subset of Google's tokeninfo payload we consume.
type tokeninfoResponse struct {
	Aud           string `json:"aud"`
	Iss           string `json:"iss"`
	Exp           string `json:"exp"`
	Email         string `json:"email"`
	EmailVerified string `json:"email_verified"`
	GivenName     string `json:"given_name"`
	FamilyName    string `json:"family_name"`
}

// Verify checks the raw ID token and returns the verified identity. Any
// verification failure (network, status, aud/iss/exp mismatch, unverified
// email) is returned as an error; the caller maps it to Unauthorized.
func (v *GoogleVerifier) Verify(ctx context.Context, idToken string) (*GoogleIdentity, error) {
	if idToken == "" {
		return nil, fmt.Errorf("empty id token")
	}

	reqURL := v.endpoint + "?id_token=" + url.QueryEscape(idToken)
	resp, err := v.client.Get(ctx, reqURL)
	if err != nil {
		return nil, fmt.Errorf("call tokeninfo: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		return nil, fmt.Errorf("tokeninfo returned status %d", resp.StatusCode)
	}

	var info tokeninfoResponse
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("decode tokeninfo response: %w", err)
	}

	if info.Aud != v.audience {
		return nil, fmt.Errorf("token audience mismatch")
	}
	if _, ok := acceptedIssuers[info.Iss]; !ok {
		return nil, fmt.Errorf("unexpected token issuer %q", info.Iss)
	}

	exp, err := strconv.ParseInt(info.Exp, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("malformed exp claim: %w", err)
	}
	if time.Now().UTC().After(time.Unix(exp, 0).UTC()) {
		return nil, fmt.Errorf("token expired")
	}

	if info.EmailVerified != "true" {
		return nil, fmt.Errorf("google account email not verified")
	}
	if info.Email == "" {
		return nil, fmt.Errorf("token carries no email claim")
	}

	return &GoogleIdentity{
		Email:      info.Email,
		GivenName:  info.GivenName,
		FamilyName: info.FamilyName,
	}, nil
}
