// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth extracts and authenticates the caller identity of a request.

# Caller Address

Every request names its caller in the X-Caller-Address header:

	caller, err := auth.CallerFromRequest(r, cfg.CallerTokenSalt)

Addresses are trimmed; 0x-prefixed hex addresses are lower-cased so that
checksummed and plain spellings are the same voter. Anything else is kept
verbatim.

# Caller Tokens

When a token salt is configured, the identity provider issues an
HMAC-SHA256 token per address and the caller sends it in X-Caller-Token:

	token := auth.GenerateCallerToken(address, salt)
	err := auth.ValidateCallerToken(address, token, salt)

The token is URL-safe base64 encoded without padding. Since it's
deterministic, the same address and salt always produce the same token.
This allows validation without storing tokens anywhere.

Without a salt the server trusts the header as-is, which is only safe
behind an authenticating proxy.
*/
package auth
