// Package auth provides the authentication gate of the API.
//
// A request passes if its session was already marked authenticated, or if
// it carries "Authorization: Bearer <token>" with the configured token. In
// the latter case the session is marked authenticated so later requests may
// omit the header. Anything else is answered with 401.
//
// Usage:
//
//	api := app.Group("/api", authmiddleware.New(authmiddleware.Config{
//	    Verifier: verifier,
//	    Store:    session.Store,
//	}))
package auth
