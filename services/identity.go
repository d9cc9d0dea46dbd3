package services

import (
	"net/http"
)

// Identity is what the core knows about the current viewer. A zero Identity
// means no wallet is connected.
type Identity struct {
	Address     string
	DisplayName string
	Basename    string
}

func (i Identity) Connected() bool {
	return i.Address != ""
}

// IdentityProvider resolves the viewer behind a request. The real
// implementation lives in the authentication controller and reads the wallet
// session token; tests use StaticIdentity. The core never depends on which.
type IdentityProvider interface {
	Identify(r *http.Request) Identity
}

// StaticIdentity always answers with a fixed identity. Deterministic double
// for tests and local tooling.
type StaticIdentity struct {
	Current Identity
}

func (s StaticIdentity) Identify(_ *http.Request) Identity {
	return s.Current
}
