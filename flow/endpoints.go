package flow

import "fmt"

// Endpoints are the OpenID Connect endpoints of one Keycloak realm.
type Endpoints struct {
	Issuer        string
	Authorization string
	Token         string
	UserInfo      string
	EndSession    string
	Revocation    string
	JWKS          string
}

// NewEndpoints derives a realm's endpoints from the server base URL.
func NewEndpoints(providerURL, realm string) Endpoints {
	issuer := fmt.Sprintf("%s/realms/%s", providerURL, realm)
	base := issuer + "/protocol/openid-connect"
	return Endpoints{
		Issuer:        issuer,
		Authorization: base + "/auth",
		Token:         base + "/token",
		UserInfo:      base + "/userinfo",
		EndSession:    base + "/logout",
		Revocation:    base + "/revoke",
		JWKS:          base + "/certs",
	}
}
