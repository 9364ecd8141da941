package erp

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSession_Valid(t *testing.T) {
	now := time.Now()

	assert.True(t, (&Session{ExpiresAt: now.Add(5 * time.Minute)}).Valid(now))
	// inside the refresh margin counts as expired
	assert.False(t, (&Session{ExpiresAt: now.Add(30 * time.Second)}).Valid(now))
	assert.False(t, (&Session{ExpiresAt: now.Add(-time.Minute)}).Valid(now))

	var nilSession *Session
	assert.False(t, nilSession.Valid(now))
}

func TestAuthManager_URLNormalization(t *testing.T) {
	m := NewAuthManager(NewSessionCache(), "https://erp.example.com/", "24.200.001", testLogger())

	assert.Equal(t, "https://erp.example.com", m.InstanceURL())
	assert.Equal(t, "https://erp.example.com/entity/Default/24.200.001", m.BaseEntityURL())
}

func TestAuthManager_SessionReuse(t *testing.T) {
	var loginCount int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&loginCount, 1)
		http.SetCookie(w, &http.Cookie{Name: ".ASPXAUTH", Value: "token"})
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	m := NewAuthManager(NewSessionCache(), server.URL, "24.200.001", testLogger())

	first, err := m.GetSession(context.Background(), testCreds())
	require.NoError(t, err)
	second, err := m.GetSession(context.Background(), testCreds())
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, int64(1), atomic.LoadInt64(&loginCount))
}

func TestAuthManager_ConcurrentLoginsCollapse(t *testing.T) {
	var loginCount int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&loginCount, 1)
		time.Sleep(50 * time.Millisecond)
		http.SetCookie(w, &http.Cookie{Name: ".ASPXAUTH", Value: "token"})
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	m := NewAuthManager(NewSessionCache(), server.URL, "24.200.001", testLogger())

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			session, err := m.GetSession(context.Background(), testCreds())
			assert.NoError(t, err)
			assert.NotNil(t, session)
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(1), atomic.LoadInt64(&loginCount))
}

func TestAuthManager_SharedCacheAcrossManagers(t *testing.T) {
	var loginCount int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&loginCount, 1)
		http.SetCookie(w, &http.Cookie{Name: ".ASPXAUTH", Value: "token"})
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	cache := NewSessionCache()
	first := NewAuthManager(cache, server.URL, "24.200.001", testLogger())
	second := NewAuthManager(cache, server.URL+"/", "24.200.001", testLogger())

	_, err := first.GetSession(context.Background(), testCreds())
	require.NoError(t, err)
	_, err = second.GetSession(context.Background(), testCreds())
	require.NoError(t, err)

	assert.Equal(t, int64(1), atomic.LoadInt64(&loginCount))
}

func TestAuthManager_LoginFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "invalid credentials", http.StatusUnauthorized)
	}))
	defer server.Close()

	m := NewAuthManager(NewSessionCache(), server.URL, "24.200.001", testLogger())

	_, err := m.GetSession(context.Background(), testCreds())

	require.Error(t, err)
	assert.True(t, IsAuthError(err))
	erpErr := AsError(err)
	require.NotNil(t, erpErr)
	assert.Equal(t, http.StatusUnauthorized, erpErr.StatusCode)
}

func TestAuthManager_LoginWithoutCookiesFails(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	m := NewAuthManager(NewSessionCache(), server.URL, "24.200.001", testLogger())

	_, err := m.Login(context.Background(), testCreds())

	require.Error(t, err)
	assert.True(t, IsAuthError(err))
}

func TestAuthManager_InvalidateForcesRelogin(t *testing.T) {
	var loginCount int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&loginCount, 1)
		http.SetCookie(w, &http.Cookie{Name: ".ASPXAUTH", Value: "token"})
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	m := NewAuthManager(NewSessionCache(), server.URL, "24.200.001", testLogger())

	_, err := m.GetSession(context.Background(), testCreds())
	require.NoError(t, err)

	m.Invalidate()

	_, err = m.GetSession(context.Background(), testCreds())
	require.NoError(t, err)
	assert.Equal(t, int64(2), atomic.LoadInt64(&loginCount))
}

func TestAuthManager_MultipleCookiesJoined(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: ".ASPXAUTH", Value: "token"})
		http.SetCookie(w, &http.Cookie{Name: "UserBranch", Value: "MAIN"})
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	m := NewAuthManager(NewSessionCache(), server.URL, "24.200.001", testLogger())

	session, err := m.Login(context.Background(), testCreds())

	require.NoError(t, err)
	assert.Equal(t, ".ASPXAUTH=token; UserBranch=MAIN", session.Cookies)
}
