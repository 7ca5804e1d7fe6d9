package api

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"go.uber.org/zap"

	srvErrors "github.com/mlx-qa/mlx-e2e/pkg/errors"
)

// Result is the raw outcome of a single call. Status inspection is left to the caller.
type Result struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Decode unmarshals the body into v, for callers that want a raw mapping.
func (r *Result) Decode(v any) error {
	if err := json.Unmarshal(r.Body, v); err != nil {
		return fmt.Errorf("error decoding JSON: %w", err)
	}
	return nil
}

type requestOption func(req *http.Request)

func withBearer(token string) requestOption {
	return func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer "+token)
	}
}

func withBasicAuth(username, password string) requestOption {
	return func(req *http.Request) {
		req.SetBasicAuth(username, password)
	}
}

func withQuery(values url.Values) requestOption {
	return func(req *http.Request) {
		req.URL.RawQuery = values.Encode()
	}
}

// requester holds what every client shares: the base URL, the transport and the logger.
type requester struct {
	name       string
	baseURL    string
	httpClient *http.Client
	log        *zap.SugaredLogger
}

func newRequester(name, baseURL string, httpClient *http.Client, log *zap.SugaredLogger) requester {
	if httpClient == nil {
		httpClient = defaultHttpClient()
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return requester{
		name:       name,
		baseURL:    baseURL,
		httpClient: httpClient,
		log:        log,
	}
}

// defaultHttpClient skips TLS verification: the launcher serves a self-signed certificate on localhost.
func defaultHttpClient() *http.Client {
	return &http.Client{
		Transport: &http.Transport{
			TLSClientConfig: &tls.Config{
				InsecureSkipVerify: true,
			},
		},
	}
}

// request sends a single HTTP request and returns its raw result.
// A non-nil body is marshaled to JSON.
func (r requester) request(ctx context.Context, method, rawURL string, body any, opts ...requestOption) (*Result, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshaling request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, opt := range opts {
		opt(req)
	}

	r.log.Infof("[%s] %s [Method: %s]", r.name, req.URL.String(), req.Method)
	res, err := r.httpClient.Do(req)
	if err != nil {
		r.log.Errorw("request failed", "client", r.name, "url", rawURL, "error", err)
		return nil, srvErrors.NewTransportError(method, rawURL, err)
	}
	defer res.Body.Close()

	resBody, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, srvErrors.NewTransportError(method, rawURL, fmt.Errorf("error reading response body: %w", err))
	}

	r.log.Debugw("response received", "client", r.name, "url", rawURL, "status", res.StatusCode)
	return &Result{
		StatusCode: res.StatusCode,
		Header:     res.Header,
		Body:       resBody,
	}, nil
}
