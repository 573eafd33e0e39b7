package apiclient

import "net/http"

// Header names for propagated end-user identity. The resource server only
// honours these from trusted service accounts.
const (
	HeaderUserID    = "X-MCP-User-ID"
	HeaderUserEmail = "X-MCP-User-Email"
	HeaderUserName  = "X-MCP-User-Name"
)

// UserContext carries the end user a single outbound call acts for. It
// travels with that call only: never cached, never reused across calls.
type UserContext struct {
	ID    string
	Email string
	Name  string
}

// setHeaders forwards the populated fields verbatim; absent fields produce no
// header at all.
func (u *UserContext) setHeaders(req *http.Request) {
	if u == nil {
		return
	}
	if u.ID != "" {
		req.Header.Set(HeaderUserID, u.ID)
	}
	if u.Email != "" {
		req.Header.Set(HeaderUserEmail, u.Email)
	}
	if u.Name != "" {
		req.Header.Set(HeaderUserName, u.Name)
	}
}

// RequestOption customises a single dispatch.
type RequestOption func(*requestOptions)

type requestOptions struct {
	user *UserContext
}

// WithUserContext annotates one call with the end user it acts for.
func WithUserContext(user UserContext) RequestOption {
	return func(o *requestOptions) {
		u := user
		o.user = &u
	}
}
