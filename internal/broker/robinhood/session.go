package robinhood

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"hoodlink/internal/broker"
)

const (
	clientID = "c82SH0WZOsabOXGP2sxqcj34FxkvfnWRZBKlBjFS"

	// Every request carries this timeout. A venue that does not answer
	// is treated as failed, not waited on.
	requestTimeout = 15 * time.Second
)

// Credentials for the password grant. DeviceToken is remembered by the
// venue across logins; leave it empty to mint a fresh one.
type Credentials struct {
	Username    string
	Password    string
	MFACode     string
	DeviceToken string
}

// ErrMFARequired is returned by Login when the venue challenges with MFA;
// retry with Credentials.MFACode set.
var ErrMFARequired = fmt.Errorf("robinhood: mfa code required")

// Session owns the HTTP client and token state for one authenticated user.
// It is passed explicitly to every operation; there is no package-level
// session.
type Session struct {
	http   *resty.Client
	logger *zap.Logger

	authToken    string
	refreshToken string
	deviceToken  string
}

// Option configures a Session.
type Option func(*Session)

// WithLogger attaches a structured logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Session) { s.logger = l }
}

// WithBaseClient replaces the resty client, used by tests to point the
// session at a local server.
func WithBaseClient(c *resty.Client) Option {
	return func(s *Session) { s.http = c }
}

// NewSession builds an unauthenticated session.
func NewSession(opts ...Option) *Session {
	s := &Session{
		http: resty.New().
			SetTransport(&http.Transport{Proxy: http.ProxyFromEnvironment}).
			SetTimeout(requestTimeout).
			SetRetryCount(0),
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.http.SetHeaders(map[string]string{
		"Accept":                   "*/*",
		"Accept-Language":          "en;q=1",
		"X-Robinhood-API-Version":  "1.265.0",
		"Connection":               "keep-alive",
		"User-Agent":               "robinhood/823 (iPhone; iOS 7.1.2; Scale/2.00)",
	})
	return s
}

type loginResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	MFARequired  bool   `json:"mfa_required"`
}

// Login performs the password grant and stores the bearer token. When the
// venue demands MFA the call fails with ErrMFARequired and the caller
// retries with the code filled in.
func (s *Session) Login(ctx context.Context, creds Credentials) error {
	if s.deviceToken == "" {
		s.deviceToken = creds.DeviceToken
	}
	if s.deviceToken == "" {
		s.deviceToken = uuid.New().String()
	}

	payload := map[string]string{
		"username":     creds.Username,
		"password":     creds.Password,
		"grant_type":   "password",
		"device_token": s.deviceToken,
		"token_type":   "Bearer",
		"expires_in":   "603995",
		"scope":        "internal",
		"client_id":    clientID,
	}
	if creds.MFACode != "" {
		payload["mfa_code"] = creds.MFACode
	} else {
		payload["challenge_type"] = "sms"
	}

	var out loginResponse
	resp, err := s.http.R().
		SetContext(ctx).
		SetFormData(payload).
		SetResult(&out).
		Post(epLogin())
	if err != nil {
		return fmt.Errorf("login request: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("login rejected (%d): %s", resp.StatusCode(), resp.String())
	}
	if out.MFARequired {
		return ErrMFARequired
	}
	if out.AccessToken == "" || out.RefreshToken == "" {
		return fmt.Errorf("login response missing tokens")
	}

	s.authToken = out.AccessToken
	s.refreshToken = out.RefreshToken
	s.http.SetAuthToken(s.authToken)
	s.logger.Info("logged in", zap.String("username", creds.Username))
	return nil
}

// Logout revokes the refresh token and clears session state.
func (s *Session) Logout(ctx context.Context) error {
	resp, err := s.http.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"client_id": clientID,
			"token":     s.refreshToken,
		}).
		Post(epLogout())
	if err != nil {
		return fmt.Errorf("logout request: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("logout rejected (%d): %s", resp.StatusCode(), resp.String())
	}
	s.authToken = ""
	s.refreshToken = ""
	s.http.SetAuthToken("")
	return nil
}

// Equity returns the equity-generation transport backed by this session.
func (s *Session) Equity() *Equity { return &Equity{s: s} }

// Crypto returns the nummus-generation transport backed by this session.
func (s *Session) Crypto() *Crypto { return &Crypto{s: s} }

// getJSON issues a GET and decodes into out. 404 maps to NotFoundError so
// callers can classify without looking at status codes.
func (s *Session) getJSON(ctx context.Context, url string, out interface{}, notFound *broker.NotFoundError) error {
	resp, err := s.http.R().SetContext(ctx).SetResult(out).Get(url)
	if err != nil {
		return fmt.Errorf("GET %s: %w", url, err)
	}
	if resp.StatusCode() == http.StatusNotFound && notFound != nil {
		return notFound
	}
	if resp.IsError() {
		return fmt.Errorf("GET %s: status %d: %s", url, resp.StatusCode(), resp.String())
	}
	return nil
}

// postJSON issues a JSON POST and decodes into out (out may be nil). The
// response is returned so callers can build their own typed errors.
func (s *Session) postJSON(ctx context.Context, url string, body interface{}, out interface{}) (*resty.Response, error) {
	req := s.http.R().SetContext(ctx)
	if body != nil {
		req.SetBody(body)
	}
	if out != nil {
		req.SetResult(out)
	}
	resp, err := req.Post(url)
	if err != nil {
		return nil, fmt.Errorf("POST %s: %w", url, err)
	}
	return resp, nil
}
