package common

// AuthorizationHeaderName is the HTTP header carrying the bearer access token.
const AuthorizationHeaderName = "Authorization"

// BearerPrefix is the expected scheme prefix of the Authorization header.
const BearerPrefix = "Bearer "

// RefreshTokenByteLength is the number of random bytes in a refresh token.
// The encoded capability string is twice as long (hex).
const RefreshTokenByteLength = 32
