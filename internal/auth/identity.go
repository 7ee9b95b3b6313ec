package auth

// Identity is what the middleware attaches to a request on successful
// authentication, regardless of whether it came from a bearer token or an
// API key.
type Identity struct {
	Subject     string
	Permissions []Permission
	Scheme      string // "bearer" | "apikey"
}

// HasPermission checks this identity's grants against a required
// permission.
func (id Identity) HasPermission(required Permission) bool {
	return HasPermission(id.Permissions, required)
}
