package main

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httputil"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/mlx-qa/mlx-e2e/internal/models"
)

type callKey struct{}

// Proxy forwards to the account API and hands every exchange to its Observer
// before the response reaches the client.
type Proxy struct {
	obs *Observer
	rp  *httputil.ReverseProxy
}

func NewProxy(target *url.URL, obs *Observer) *Proxy {
	p := &Proxy{obs: obs}
	p.rp = &httputil.ReverseProxy{
		Rewrite: func(r *httputil.ProxyRequest) {
			call := &Call{
				Method: r.In.Method,
				Path:   r.In.URL.Path,
				Query:  r.In.URL.Query(),
				Bearer: strings.TrimPrefix(r.In.Header.Get("Authorization"), "Bearer "),
			}
			if r.Out.Body != nil {
				call.Body, _ = io.ReadAll(r.Out.Body)
				r.Out.Body = io.NopCloser(bytes.NewReader(call.Body))
			}

			r.SetURL(target)
			r.Out = r.Out.WithContext(context.WithValue(r.Out.Context(), callKey{}, call))
		},
		Transport: &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
		},
		ModifyResponse: p.record,
	}
	return p
}

func (p *Proxy) Handler() http.Handler {
	return p.rp
}

func (p *Proxy) record(res *http.Response) error {
	call, ok := res.Request.Context().Value(callKey{}).(*Call)
	if !ok {
		return nil
	}

	body, err := io.ReadAll(res.Body)
	res.Body.Close()
	if err != nil {
		return err
	}
	res.Body = io.NopCloser(bytes.NewReader(body))

	call.StatusCode = res.StatusCode
	var envelope struct {
		Status models.Status `json:"status"`
	}
	if json.Unmarshal(body, &envelope) == nil {
		call.Status = envelope.Status
	}

	zap.S().Infow("account API call", "method", call.Method, "path", call.Path, "status", call.StatusCode, "http_code", call.Status.HTTPCode)
	p.obs.Record(*call)
	return nil
}
