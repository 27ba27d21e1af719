// Package fakekeycloak is an in-process stand-in for a Keycloak realm. It
// implements just enough of the authorization, token, user info, logout,
// revocation and JWKS endpoints to drive the login flow in tests, including
// real PKCE verification and single use codes.
package fakekeycloak

import (
	"crypto/rand"
	"crypto/rsa"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"time"

	jose "github.com/go-jose/go-jose/v4"
	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/jrsteele09/go-keycloak-pkce/pkce"
)

const keyID = "fake-key"

// Tokens is one token endpoint response.
type Tokens struct {
	AccessToken  string
	IDToken      string
	RefreshToken string
}

// Grant is what the authorization endpoint remembers about an issued code.
type Grant struct {
	ClientID    string
	RedirectURI string
	Challenge   string
	Method      string
	Nonce       string
}

// Provider is a running fake realm. Exported fields may be changed by tests
// before the flow reaches the matching endpoint.
type Provider struct {
	Realm        string
	ClientID     string
	ClientSecret string

	// Tokens are returned by the authorization_code grant, Refreshed by the
	// refresh_token grant.
	Tokens    Tokens
	Refreshed Tokens
	ExpiresIn int

	// Claims are served by the user info endpoint.
	Claims map[string]any
	// UserInfoStatus, when set, makes the user info endpoint fail with it.
	UserInfoStatus int
	// BeforeUserInfo, when set, runs at the start of each user info request.
	BeforeUserInfo func()
	// SignIDTokens replaces Tokens.IDToken with an RS256 token signed by the
	// key published at the realm's certs endpoint.
	SignIDTokens bool

	server *httptest.Server
	key    *rsa.PrivateKey

	mu            sync.Mutex
	nextCode      string
	codes         map[string]Grant
	tokenRequests []url.Values
	revoked       []string
	logouts       []url.Values
}

// New starts a fake realm "demorealm" with client "demoapp". Close must be
// called when done.
func New() *Provider {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		panic(fmt.Sprintf("fakekeycloak: generate key: %v", err))
	}

	p := &Provider{
		Realm:        "demorealm",
		ClientID:     "demoapp",
		ClientSecret: "demo-secret",
		Tokens:       Tokens{AccessToken: "AT1", IDToken: "IDT1", RefreshToken: "RT1"},
		Refreshed:    Tokens{AccessToken: "AT2", RefreshToken: "RT2"},
		ExpiresIn:    300,
		Claims: map[string]any{
			"sub":   "1",
			"name":  "Bob",
			"email": "bob@example.com",
		},
		key:      key,
		nextCode: "abc123",
		codes:    make(map[string]Grant),
	}

	mux := http.NewServeMux()
	base := "/realms/{realm}/protocol/openid-connect"
	mux.HandleFunc("GET "+base+"/auth", p.authorize)
	mux.HandleFunc("POST "+base+"/token", p.token)
	mux.HandleFunc("GET "+base+"/userinfo", p.userInfo)
	mux.HandleFunc("GET "+base+"/logout", p.logout)
	mux.HandleFunc("POST "+base+"/revoke", p.revoke)
	mux.HandleFunc("GET "+base+"/certs", p.certs)
	p.server = httptest.NewServer(mux)
	return p
}

// Close shuts the server down.
func (p *Provider) Close() {
	p.server.Close()
}

// URL is the Keycloak base URL, without the realm path.
func (p *Provider) URL() string {
	return p.server.URL
}

// Issuer is the realm issuer URL.
func (p *Provider) Issuer() string {
	return p.server.URL + "/realms/" + p.Realm
}

// SetNextCode sets the code the authorization endpoint issues next.
func (p *Provider) SetNextCode(code string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.nextCode = code
}

// RegisterCode issues code directly, as if the user had logged in at the
// provider with the given challenge.
func (p *Provider) RegisterCode(code string, g Grant) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.codes[code] = g
}

// TokenRequests returns the forms posted to the token endpoint so far.
func (p *Provider) TokenRequests() []url.Values {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]url.Values(nil), p.tokenRequests...)
}

// Revoked returns the tokens posted to the revocation endpoint.
func (p *Provider) Revoked() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.revoked...)
}

// Logouts returns the query of every end-session request.
func (p *Provider) Logouts() []url.Values {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]url.Values(nil), p.logouts...)
}

// Login plays the part of the browser at the provider: it sends the
// authorization request and returns the callback URL the provider redirects to.
func (p *Provider) Login(authorizationURL string) (*url.URL, error) {
	client := &http.Client{
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
	resp, err := client.Get(authorizationURL)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusFound {
		return nil, fmt.Errorf("fakekeycloak: authorize returned %d", resp.StatusCode)
	}
	return resp.Location()
}

func (p *Provider) authorize(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if r.PathValue("realm") != p.Realm || q.Get("client_id") != p.ClientID {
		http.Error(w, "Client not found.", http.StatusBadRequest)
		return
	}
	if q.Get("response_type") != "code" {
		http.Error(w, "Invalid parameter: response_type", http.StatusBadRequest)
		return
	}
	if q.Get("code_challenge") == "" || q.Get("code_challenge_method") != pkce.MethodS256 {
		http.Error(w, "Missing parameter: code_challenge_method", http.StatusBadRequest)
		return
	}

	redirectURI, err := url.Parse(q.Get("redirect_uri"))
	if err != nil || redirectURI.Host == "" {
		http.Error(w, "Invalid parameter: redirect_uri", http.StatusBadRequest)
		return
	}

	p.mu.Lock()
	code := p.nextCode
	p.nextCode = fmt.Sprintf("code-%d", time.Now().UnixNano())
	p.codes[code] = Grant{
		ClientID:    q.Get("client_id"),
		RedirectURI: q.Get("redirect_uri"),
		Challenge:   q.Get("code_challenge"),
		Method:      q.Get("code_challenge_method"),
		Nonce:       q.Get("nonce"),
	}
	p.mu.Unlock()

	back := redirectURI.Query()
	back.Set("code", code)
	back.Set("state", q.Get("state"))
	redirectURI.RawQuery = back.Encode()
	http.Redirect(w, r, redirectURI.String(), http.StatusFound)
}

func (p *Provider) token(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "Malformed form")
		return
	}
	form := r.PostForm

	p.mu.Lock()
	p.tokenRequests = append(p.tokenRequests, form)
	p.mu.Unlock()

	if form.Get("client_id") != p.ClientID || form.Get("client_secret") != p.ClientSecret {
		writeError(w, http.StatusUnauthorized, "unauthorized_client", "Invalid client or Invalid client credentials")
		return
	}

	switch form.Get("grant_type") {
	case "authorization_code":
		p.exchangeCode(w, form)
	case "refresh_token":
		p.refresh(w, form)
	default:
		writeError(w, http.StatusBadRequest, "unsupported_grant_type", "Unsupported grant_type")
	}
}

func (p *Provider) exchangeCode(w http.ResponseWriter, form url.Values) {
	p.mu.Lock()
	grant, ok := p.codes[form.Get("code")]
	delete(p.codes, form.Get("code"))
	p.mu.Unlock()

	switch {
	case !ok:
		writeError(w, http.StatusBadRequest, "invalid_grant", "Code not valid")
	case grant.RedirectURI != form.Get("redirect_uri"):
		writeError(w, http.StatusBadRequest, "invalid_grant", "Incorrect redirect_uri")
	case form.Get("code_verifier") == "":
		writeError(w, http.StatusBadRequest, "invalid_grant", "PKCE code verifier not specified")
	case pkce.DeriveChallenge(form.Get("code_verifier")) != grant.Challenge:
		writeError(w, http.StatusBadRequest, "invalid_grant", "PKCE verification failed: Code mismatch")
	default:
		tokens := p.Tokens
		if p.SignIDTokens {
			idToken, err := p.signIDToken(grant.Nonce)
			if err != nil {
				writeError(w, http.StatusInternalServerError, "server_error", err.Error())
				return
			}
			tokens.IDToken = idToken
		}
		p.writeTokens(w, tokens)
	}
}

func (p *Provider) refresh(w http.ResponseWriter, form url.Values) {
	rt := form.Get("refresh_token")
	if rt == "" || (rt != p.Tokens.RefreshToken && rt != p.Refreshed.RefreshToken) {
		writeError(w, http.StatusBadRequest, "invalid_grant", "Invalid refresh token")
		return
	}
	p.writeTokens(w, p.Refreshed)
}

func (p *Provider) writeTokens(w http.ResponseWriter, t Tokens) {
	resp := map[string]any{
		"access_token": t.AccessToken,
		"token_type":   "Bearer",
		"expires_in":   p.ExpiresIn,
	}
	if t.IDToken != "" {
		resp["id_token"] = t.IDToken
	}
	if t.RefreshToken != "" {
		resp["refresh_token"] = t.RefreshToken
	}
	writeJSON(w, http.StatusOK, resp)
}

func (p *Provider) userInfo(w http.ResponseWriter, r *http.Request) {
	if p.BeforeUserInfo != nil {
		p.BeforeUserInfo()
	}
	if p.UserInfoStatus != 0 {
		writeError(w, p.UserInfoStatus, "server_error", "user info unavailable")
		return
	}
	token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	if token == "" || (token != p.Tokens.AccessToken && token != p.Refreshed.AccessToken) {
		writeError(w, http.StatusUnauthorized, "invalid_token", "Token verification failed")
		return
	}
	writeJSON(w, http.StatusOK, p.Claims)
}

func (p *Provider) logout(w http.ResponseWriter, r *http.Request) {
	p.mu.Lock()
	p.logouts = append(p.logouts, r.URL.Query())
	p.mu.Unlock()
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("You are logged out"))
}

func (p *Provider) revoke(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "Malformed form")
		return
	}
	if r.PostForm.Get("client_id") != p.ClientID || r.PostForm.Get("client_secret") != p.ClientSecret {
		writeError(w, http.StatusUnauthorized, "unauthorized_client", "Invalid client or Invalid client credentials")
		return
	}
	p.mu.Lock()
	p.revoked = append(p.revoked, r.PostForm.Get("token"))
	p.mu.Unlock()
	w.WriteHeader(http.StatusOK)
}

func (p *Provider) certs(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, jose.JSONWebKeySet{Keys: []jose.JSONWebKey{{
		Key:       &p.key.PublicKey,
		KeyID:     keyID,
		Algorithm: string(jose.RS256),
		Use:       "sig",
	}}})
}

func (p *Provider) signIDToken(nonce string) (string, error) {
	now := time.Now()
	claims := jwtlib.MapClaims{
		"iss":   p.Issuer(),
		"aud":   p.ClientID,
		"sub":   p.Claims["sub"],
		"sid":   "fake-session",
		"iat":   now.Unix(),
		"exp":   now.Add(5 * time.Minute).Unix(),
		"nonce": nonce,
	}
	token := jwtlib.NewWithClaims(jwtlib.SigningMethodRS256, claims)
	token.Header["kid"] = keyID
	return token.SignedString(p.key)
}

func writeError(w http.ResponseWriter, status int, code, description string) {
	writeJSON(w, status, map[string]string{"error": code, "error_description": description})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
