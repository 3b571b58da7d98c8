package connection

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"embedding-conn/internal/credentials"
)

// SDKSession posts through the official OpenAI client. The request body is
// sent as raw JSON so passthrough parameters reach the API unchanged.
type SDKSession struct {
	client *openai.Client
	source credentials.Source
}

// NewSDK resolves the credential and builds an openai-go client with
// retries disabled.
func NewSDK(opts Options) (*SDKSession, error) {
	key, src, err := credentials.ResolveWithSource(opts.Credential, opts.Secrets, opts.Env)
	if err != nil {
		return nil, err
	}

	requestOpts := []option.RequestOption{
		option.WithAPIKey(key),
		option.WithBaseURL(baseURL(opts.BaseURL) + "/"),
		option.WithMaxRetries(0),
	}
	if opts.HTTPClient != nil {
		requestOpts = append(requestOpts, option.WithHTTPClient(opts.HTTPClient))
	}
	if opts.Timeout > 0 {
		requestOpts = append(requestOpts, option.WithRequestTimeout(opts.Timeout))
	}

	client := openai.NewClient(requestOpts...)
	return &SDKSession{client: &client, source: src}, nil
}

// CredentialSource reports which source supplied the key.
func (s *SDKSession) CredentialSource() credentials.Source {
	return s.source
}

// Post sends one request body to the embeddings endpoint.
func (s *SDKSession) Post(ctx context.Context, body []byte) ([]byte, error) {
	var raw []byte
	if err := s.client.Post(ctx, "embeddings", json.RawMessage(body), &raw); err != nil {
		var apiErr *openai.Error
		if errors.As(err, &apiErr) {
			return nil, &StatusError{Code: apiErr.StatusCode, Body: []byte(apiErr.RawJSON())}
		}
		return nil, err
	}
	return raw, nil
}
