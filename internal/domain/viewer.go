package domain

import "strconv"

// Viewer is a best-effort identity of whoever is looking at a post:
// the user id when the request carried a valid token, the remote
// address otherwise. Construct via AuthenticatedViewer or AnonymousViewer.
type Viewer struct {
	userId UserId
	addr   string
}

func AuthenticatedViewer(id UserId) Viewer {
	return Viewer{userId: id}
}

func AnonymousViewer(addr string) Viewer {
	return Viewer{addr: addr}
}

func (v Viewer) Authenticated() bool {
	return v.userId != 0
}

// Key returns the identity in cache-key form: "user-<id>" or "ip-<addr>".
func (v Viewer) Key() string {
	if v.Authenticated() {
		return "user-" + strconv.FormatInt(v.userId, 10)
	}
	return "ip-" + v.addr
}
