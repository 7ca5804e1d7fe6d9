// Package token decodes bearer tokens and keeps the role credentials of the
// credential document usable.
//
// Tokens are decoded WITHOUT signature verification: the harness only reads
// tokens issued to itself by the service under test. Do not reuse Decode on a
// path that must trust the token's content.
//
// The Manager decides on each call whether the held token can be returned as
// is (expiry in the future, no network call) or has to be refreshed, in which
// case the new token pair is written back to the credential store in a single
// read-modify-write of the whole document.
package token
