// Package auth verifies the shared API token of the service.
//
// The configured token is never kept in clear text. NewTokenVerifier hashes
// it with Argon2id and every presented token is compared against that hash.
//
// Example usage:
//
//	verifier, err := auth.NewTokenVerifier(cfg.Auth.Token)
//	if err != nil {
//	    return err
//	}
//
//	token, ok := auth.BearerToken(c.Get(fiber.HeaderAuthorization))
//	if ok && verifier.Verify(token) {
//	    // authenticated
//	}
package auth
