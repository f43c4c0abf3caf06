package auth

import "strings"

// SourceKind says where a request's identity claim came from.
type SourceKind int

const (
	SourceNone SourceKind = iota
	SourceSession
	SourceBearer
)

func (k SourceKind) String() string {
	switch k {
	case SourceSession:
		return "session"
	case SourceBearer:
		return "bearer"
	default:
		return "none"
	}
}

// IdentitySource is the unverified identity claim of a request: a user id
// from the server-side session, or a raw bearer token.
type IdentitySource struct {
	Kind   SourceKind
	UserID string // SourceSession
	Token  string // SourceBearer
}

// ResolveIdentitySource picks the identity source without touching any
// store. A session user id wins over the Authorization header. A header that
// is present but not of the form "Bearer <token>" yields a bearer source
// with an empty token, which fails verification.
func ResolveIdentitySource(sessionUserID, authorization string) IdentitySource {
	if sessionUserID != "" {
		return IdentitySource{Kind: SourceSession, UserID: sessionUserID}
	}
	authorization = strings.TrimSpace(authorization)
	if authorization == "" {
		return IdentitySource{Kind: SourceNone}
	}
	scheme, token, ok := strings.Cut(authorization, " ")
	if !ok || !strings.EqualFold(scheme, "bearer") {
		return IdentitySource{Kind: SourceBearer}
	}
	return IdentitySource{Kind: SourceBearer, Token: strings.TrimSpace(token)}
}
