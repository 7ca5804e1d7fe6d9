// Package main provides the end-to-end suite for the account, EMP and launcher APIs.
//
// The suite is a binary: build it with `go build ./test/e2e` and run it with the
// same flags as any ginkgo suite plus its own (see main.go). Without --sandbox it
// targets the environment resolved from --env, $ENV and the config file.
//
// # Components
//
// Stack serves the in-process sandbox on a free loopback port when --sandbox is
// set, and points every service URL at it.
//
// Proxy is a reverse proxy in front of the account API. For every exchange it
// records a Call with the bearer, query, request body and envelope status, before
// the response is written back to the client.
//
// Observer keeps those calls in order. Specs use it to assert on what the client
// actually sent, such as the bearer and token query of the verification call.
//
// # Test Architecture
//
//	┌──────────┐      ┌─────────┐      ┌─────────────┐
//	│  MlxApi  │─────▶│  Proxy  │─────▶│ Account API │
//	└──────────┘      └────┬────┘      └─────────────┘
//	                       │
//	                       ▼
//	                  ┌──────────┐
//	                  │ Observer │
//	                  └──────────┘
//
// EMP and launcher clients talk to their services directly.
//
// # Test Plan
//
// ## 1. Sign-up flow (tests.go)
//   - sign up a fresh owner, fetch the email token from EMP and verify the email
//   - sign in, read the workspace, assign the team plan through EMP
//   - find the default folder, create a profile, launch it and stop it
//   - delete the profile in AfterAll unless --keep-profile is set
//
// ## 2. Credential lifecycle (tokens.go)
//   - run the whole flow with the owner persisted into a scratch credential document
//   - a valid stored token is returned as is
//   - an expired stored token is refreshed and the new pair is written back
package main
