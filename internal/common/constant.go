package common

// AuthorizationHeaderName is the HTTP header carrying the bearer token.
const AuthorizationHeaderName = "Authorization"

// BearerScheme prefixes the token in the Authorization header.
const BearerScheme = "Bearer"

// BearerValue formats a token for the Authorization header.
func BearerValue(token string) string {
	return BearerScheme + " " + token
}
