package domain

// RequestIdentity is a snapshot of the routing-relevant facts of an inbound
// request, produced by the calling middleware. The policy core reads it
// during matching and retains nothing afterwards.
type RequestIdentity struct {
	// Endpoint is the request path, e.g. "/api/users".
	Endpoint string
	// Method is the HTTP method, e.g. "GET". Empty means unspecified.
	Method string
	// ClientIP is the originating address as resolved by the caller.
	ClientIP string
	// ClientKey identifies the calling client (API key, token subject, ...).
	// Empty when the request carries no client identity.
	ClientKey string
}
