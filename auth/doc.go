// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides token and invite code generation utilities.

# Member Tokens

Member tokens are random 24-byte (192-bit) secrets:

	token, err := auth.GenerateMemberToken()

Tokens are URL-safe base64 encoded and sent by clients as the
X-Member-Token header. Each member gets a unique token when creating or
joining a party; the token is the member's identity on every later request.

# Invite Codes

Invite codes create short, shareable identifiers for parties:

	code := auth.GenerateInviteCode(partyID, salt)

Codes are base62 encoded (alphanumeric only) so they can be read out loud.
They are deterministic from the party ID and salt.
*/
package auth
