// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides the identity layer in front of the poll store.

# Tokens

Bearer tokens are HS256 JWTs carrying the user ID:

	tokens, err := auth.NewTokens(secret, 24*time.Hour)
	token, err := tokens.Issue("alice")
	userID, err := tokens.Verify(token)

Verify rejects tokens with another signing method, another issuer, or an
expiry in the past. Every failure wraps models.ErrInvalidToken.

# Accounts

Accounts registers users and logs them in:

	accounts := auth.NewAccounts(store, tokens, bcrypt.DefaultCost)
	err := accounts.Signup(ctx, "alice", "secret")
	token, err := accounts.Login(ctx, "alice", "secret")

Passwords are stored as bcrypt hashes. Unknown users and wrong passwords
both return models.ErrInvalidCredentials.

The poll store trusts the user ID extracted here and performs no
credential checks of its own.
*/
package auth
