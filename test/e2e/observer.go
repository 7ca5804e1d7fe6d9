package main

import (
	"net/url"
	"strings"
	"sync"

	"github.com/mlx-qa/mlx-e2e/internal/models"
)

// Call is one account API exchange seen by the Proxy.
type Call struct {
	Method string
	Path   string
	Query  url.Values
	// Bearer is the token of the Authorization header, empty without one.
	Bearer     string
	Body       []byte
	StatusCode int
	// Status is the envelope's status block, zero when the body is not an envelope.
	Status models.Status
}

// Observer keeps the calls recorded by a Proxy in arrival order.
type Observer struct {
	mu    sync.Mutex
	calls []Call
}

func NewObserver() *Observer {
	return &Observer{}
}

func (o *Observer) Record(c Call) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.calls = append(o.calls, c)
}

func (o *Observer) Calls() []Call {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]Call(nil), o.calls...)
}

// Find returns the calls with method whose path ends with suffix.
func (o *Observer) Find(method, suffix string) []Call {
	found := []Call{}
	for _, c := range o.Calls() {
		if c.Method == method && strings.HasSuffix(c.Path, suffix) {
			found = append(found, c)
		}
	}
	return found
}
