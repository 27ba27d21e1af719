package sessions

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	gsessions "github.com/gorilla/sessions"
	"github.com/jrsteele09/go-keycloak-pkce/internal/errors"
)

const (
	// CookieName is the name of the browser session cookie.
	CookieName = "__session"

	dataKey = "data"
)

// DefaultDir is where sessions are kept when StoreOptions.Dir is empty.
var DefaultDir = filepath.Join(os.TempDir(), "keycloak-pkce-sessions")

// StoreOptions configures the session store.
type StoreOptions struct {
	// Secret signs the session ID cookie and the session files; an
	// encryption key is derived from it.
	Secret []byte
	MaxAge time.Duration
	Secure bool
	// Dir holds one file per session. Defaults to DefaultDir.
	Dir string
}

// Store loads and saves typed session Data. The data lives server side in a
// gorilla/sessions filesystem store; the browser only holds the signed
// session ID, so destroying a session invalidates every copy of its cookie.
type Store struct {
	store *gsessions.FilesystemStore
}

// NewStore creates the session directory if needed and builds the store.
func NewStore(opts StoreOptions) (*Store, error) {
	dir := opts.Dir
	if dir == "" {
		dir = DefaultDir
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create session directory: %w", err)
	}

	blockKey := sha256.Sum256(append([]byte("session-encryption:"), opts.Secret...))
	fs := gsessions.NewFilesystemStore(dir, opts.Secret, blockKey[:])
	fs.MaxAge(int(opts.MaxAge.Seconds()))
	// Token sets from Keycloak routinely exceed securecookie's 4 KB default.
	fs.MaxLength(0)
	fs.Options = &gsessions.Options{
		Path:     "/",
		MaxAge:   int(opts.MaxAge.Seconds()),
		HttpOnly: true,
		Secure:   opts.Secure,
		SameSite: http.SameSiteLaxMode,
	}
	return &Store{store: fs}, nil
}

// Session is one request's view of the browser session.
type Session struct {
	Data
	raw *gsessions.Session
}

// Get loads the session for r. An unreadable, tampered or destroyed session
// yields an empty session together with an error wrapping errors.ErrSession;
// callers may carry on with the empty session, which behaves as anonymous
// and is saved under a fresh ID.
func (s *Store) Get(r *http.Request) (*Session, error) {
	raw, err := s.store.Get(r, CookieName)
	if raw == nil {
		raw = gsessions.NewSession(s.store, CookieName)
	}
	sess := &Session{raw: raw}
	if err != nil {
		reset(raw)
		return sess, fmt.Errorf("%w: %v", errors.ErrSession, err)
	}

	encoded, ok := raw.Values[dataKey].(string)
	if !ok {
		return sess, nil
	}
	if err := json.Unmarshal([]byte(encoded), &sess.Data); err != nil {
		sess.Data = Data{}
		reset(raw)
		return sess, fmt.Errorf("%w: %v", errors.ErrSession, err)
	}
	return sess, nil
}

// reset drops a session's ID and values so the next save mints a new one.
func reset(raw *gsessions.Session) {
	raw.ID = ""
	raw.IsNew = true
	for k := range raw.Values {
		delete(raw.Values, k)
	}
}

// Commit saves the session Data and sets the session ID cookie on the
// response. It must be called before the response status is written. On
// error nothing has been written to w.
func (s *Session) Commit(w http.ResponseWriter, r *http.Request) error {
	encoded, err := json.Marshal(s.Data)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	s.raw.Values[dataKey] = string(encoded)
	if err := s.raw.Save(r, w); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// Destroy clears the session, removes its server side file and expires the
// cookie.
func (s *Session) Destroy(w http.ResponseWriter, r *http.Request) error {
	s.Data.Clear()
	for k := range s.raw.Values {
		delete(s.raw.Values, k)
	}
	opts := *s.raw.Options
	opts.MaxAge = -1
	s.raw.Options = &opts
	if err := s.raw.Save(r, w); err != nil {
		return fmt.Errorf("failed to destroy session: %w", err)
	}
	return nil
}
