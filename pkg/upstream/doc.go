// Package upstream implements a streaming client for an OpenAI-compatible
// Chat Completions backend. A Client is constructed per request with the
// caller's credential and lives no longer than that request.
//
// Failure classification is centralized in MapHTTPError and MapNetworkError,
// which both the call-setup site and the stream-pump site use to produce
// the gateway's error taxonomy.
package upstream
