package common

// AuthorizationHeader is the HTTP header carrying the bearer access token on
// authenticated requests to the document API.
const AuthorizationHeader = "Authorization"

// BearerPrefix prefixes the token value in the Authorization header.
const BearerPrefix = "Bearer "
