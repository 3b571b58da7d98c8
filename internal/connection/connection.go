// Package connection builds authenticated sessions against the embeddings
// endpoint. Building a session resolves the credential and sets headers;
// it never touches the network.
package connection

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"embedding-conn/internal/credentials"
)

// DefaultBaseURL is the public OpenAI API root.
const DefaultBaseURL = "https://api.openai.com/v1"

const embeddingsPath = "/embeddings"

// Options configures a session. Credential is the explicit key and takes
// precedence over Secrets, which takes precedence over Env.
type Options struct {
	Credential string
	Secrets    credentials.SecretStore
	Env        credentials.EnvLookup

	BaseURL    string
	Timeout    time.Duration
	HTTPClient *http.Client
	Log        *slog.Logger
}

// Session is a reusable HTTP session carrying the bearer token and JSON
// content type on every request.
type Session struct {
	client   *resty.Client
	endpoint string
	source   credentials.Source
}

// New resolves the credential and builds the session.
func New(opts Options) (*Session, error) {
	key, src, err := credentials.ResolveWithSource(opts.Credential, opts.Secrets, opts.Env)
	if err != nil {
		return nil, err
	}

	var client *resty.Client
	if opts.HTTPClient != nil {
		client = resty.NewWithClient(opts.HTTPClient)
	} else {
		client = resty.New()
	}
	client.
		SetHeader("Authorization", "Bearer "+key).
		SetHeader("Content-Type", "application/json").
		SetRetryCount(0)
	if opts.Timeout > 0 {
		client.SetTimeout(opts.Timeout)
	}
	if opts.Log != nil {
		client.SetLogger(restyLogger{log: opts.Log})
	}

	return &Session{
		client:   client,
		endpoint: baseURL(opts.BaseURL) + embeddingsPath,
		source:   src,
	}, nil
}

// Cursor exposes the underlying HTTP client.
func (s *Session) Cursor() *resty.Client {
	return s.client
}

// Endpoint is the embeddings URL requests are posted to.
func (s *Session) Endpoint() string {
	return s.endpoint
}

// CredentialSource reports which source supplied the key.
func (s *Session) CredentialSource() credentials.Source {
	return s.source
}

// Post sends one request body to the embeddings endpoint. Non-2xx answers
// come back as *StatusError.
func (s *Session) Post(ctx context.Context, body []byte) ([]byte, error) {
	resp, err := s.client.R().
		SetContext(ctx).
		SetBody(body).
		Post(s.endpoint)
	if err != nil {
		return nil, fmt.Errorf("embeddings request: %w", err)
	}
	if resp.IsError() {
		return nil, &StatusError{Code: resp.StatusCode(), Body: resp.Body()}
	}
	return resp.Body(), nil
}

func baseURL(u string) string {
	u = strings.TrimSpace(u)
	if u == "" {
		u = DefaultBaseURL
	}
	return strings.TrimRight(u, "/")
}

// restyLogger routes resty's internal messages through slog.
type restyLogger struct {
	log *slog.Logger
}

func (l restyLogger) Errorf(format string, v ...interface{}) {
	l.log.Error(fmt.Sprintf(format, v...), "component", "resty")
}

func (l restyLogger) Warnf(format string, v ...interface{}) {
	l.log.Warn(fmt.Sprintf(format, v...), "component", "resty")
}

func (l restyLogger) Debugf(format string, v ...interface{}) {
	l.log.Debug(fmt.Sprintf(format, v...), "component", "resty")
}
