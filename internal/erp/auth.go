package erp

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"erp-import-platform/internal/logger"
	"erp-import-platform/internal/models"
)

const (
	// sessionDuration is the fixed validity window of an ERP session
	sessionDuration = 20 * time.Minute
	// sessionRefreshMargin forces a fresh login when less time remains
	sessionRefreshMargin = 60 * time.Second
)

// Session holds an authenticated ERP session
type Session struct {
	Cookies     string
	ExpiresAt   time.Time
	InstanceURL string
}

// Valid reports whether the session has more than the refresh margin left
func (s *Session) Valid(now time.Time) bool {
	return s != nil && s.ExpiresAt.After(now.Add(sessionRefreshMargin))
}

type loginCall struct {
	done    chan struct{}
	session *Session
	err     error
}

// SessionCache caches sessions per normalized instance URL and collapses
// concurrent logins for the same instance into one in-flight attempt. It is
// owned by the process-wide client factory, not package state.
type SessionCache struct {
	mu       sync.Mutex
	sessions map[string]*Session
	inflight map[string]*loginCall
}

// NewSessionCache creates an empty session cache
func NewSessionCache() *SessionCache {
	return &SessionCache{
		sessions: make(map[string]*Session),
		inflight: make(map[string]*loginCall),
	}
}

// AuthManager authenticates against one ERP instance and maintains its
// session through the shared cache
type AuthManager struct {
	cache       *SessionCache
	instanceURL string
	apiVersion  string
	httpClient  *http.Client
	logger      *logger.Logger
}

// NewAuthManager creates an auth manager for the given instance. Trailing
// slashes in the instance URL are normalized away so cache keys stay stable.
func NewAuthManager(cache *SessionCache, instanceURL, apiVersion string, log *logger.Logger) *AuthManager {
	return &AuthManager{
		cache:       cache,
		instanceURL: strings.TrimRight(instanceURL, "/"),
		apiVersion:  apiVersion,
		httpClient:  &http.Client{Timeout: 30 * time.Second},
		logger:      log,
	}
}

// BaseEntityURL returns the versioned entity endpoint root
func (m *AuthManager) BaseEntityURL() string {
	return m.instanceURL + "/entity/Default/" + m.apiVersion
}

// InstanceURL returns the normalized instance URL
func (m *AuthManager) InstanceURL() string {
	return m.instanceURL
}

// GetSession returns a cached session when enough validity remains, else
// performs a login. Concurrent callers for the same instance share one
// in-flight login.
func (m *AuthManager) GetSession(ctx context.Context, creds models.Credentials) (*Session, error) {
	m.cache.mu.Lock()
	if s := m.cache.sessions[m.instanceURL]; s.Valid(time.Now()) {
		m.cache.mu.Unlock()
		return s, nil
	}
	if call, ok := m.cache.inflight[m.instanceURL]; ok {
		m.cache.mu.Unlock()
		select {
		case <-call.done:
			return call.session, call.err
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	call := &loginCall{done: make(chan struct{})}
	m.cache.inflight[m.instanceURL] = call
	m.cache.mu.Unlock()

	session, err := m.Login(ctx, creds)

	m.cache.mu.Lock()
	delete(m.cache.inflight, m.instanceURL)
	m.cache.mu.Unlock()

	call.session = session
	call.err = err
	close(call.done)

	return session, err
}

// Login performs a fresh login, bypassing the cache, and stores the result
func (m *AuthManager) Login(ctx context.Context, creds models.Credentials) (*Session, error) {
	payload, err := json.Marshal(map[string]string{
		"name":     creds.Username,
		"password": creds.Password,
		"company":  creds.Company,
		"branch":   creds.Branch,
	})
	if err != nil {
		return nil, err
	}

	url := m.instanceURL + "/entity/auth/login"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return nil, &Error{Kind: KindAuth, Message: "login request failed: " + err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(resp.Body)
		m.logger.WithField("instance_url", m.instanceURL).
			WithField("status_code", resp.StatusCode).
			Warn("ERP login failed")
		return nil, &Error{
			Kind:       KindAuth,
			StatusCode: resp.StatusCode,
			Message:    "login failed: " + strings.TrimSpace(string(body)),
		}
	}

	var cookies []string
	for _, c := range resp.Cookies() {
		cookies = append(cookies, c.Name+"="+c.Value)
	}
	if len(cookies) == 0 {
		return nil, &Error{Kind: KindAuth, Message: "no session cookies received from ERP login"}
	}

	session := &Session{
		Cookies:     strings.Join(cookies, "; "),
		ExpiresAt:   time.Now().Add(sessionDuration),
		InstanceURL: m.instanceURL,
	}

	m.cache.mu.Lock()
	m.cache.sessions[m.instanceURL] = session
	m.cache.mu.Unlock()

	m.logger.WithField("instance_url", m.instanceURL).Debug("ERP login successful")
	return session, nil
}

// Invalidate drops the cached session for this instance
func (m *AuthManager) Invalidate() {
	m.cache.mu.Lock()
	delete(m.cache.sessions, m.instanceURL)
	m.cache.mu.Unlock()
}
