package storage

import (
	"log"
	"net/http"
	"net/url"
	"sync"
	"time"
)

// CookieExpiryDays is how long a written cookie stays valid after its last
// write.
const CookieExpiryDays = 7

// CookieJar is a KV whose entries are HTTP cookies: values are URL-encoded on
// write and decoded on read, and every entry carries the attribute set the
// storefront uses (path=/, SameSite=Strict, 7-day expiry from last write).
//
// Import/Export move entries across a real HTTP boundary; between those the
// jar behaves like any other KV.
type CookieJar struct {
	mu      sync.Mutex
	cookies map[string]*http.Cookie
	now     func() time.Time
}

func NewCookieJar() *CookieJar {
	return &CookieJar{
		cookies: make(map[string]*http.Cookie),
		now:     time.Now,
	}
}

func (j *CookieJar) Get(key string) (string, bool) {
	j.mu.Lock()
	defer j.mu.Unlock()

	c, ok := j.cookies[key]
	if !ok {
		return "", false
	}
	if !c.Expires.IsZero() && c.Expires.Before(j.now()) {
		delete(j.cookies, key)
		return "", false
	}
	decoded, err := url.QueryUnescape(c.Value)
	if err != nil {
		log.Printf("Error decoding cookie %q: %v", key, err)
		return "", false
	}
	return decoded, true
}

func (j *CookieJar) Set(key, value string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.cookies[key] = &http.Cookie{
		Name:     key,
		Value:    url.QueryEscape(value),
		Path:     "/",
		Expires:  j.now().Add(CookieExpiryDays * 24 * time.Hour),
		SameSite: http.SameSiteStrictMode,
	}
}

func (j *CookieJar) Delete(key string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	delete(j.cookies, key)
}

// Export returns the current cookie for key, suitable for attaching to an
// outgoing request or a Set-Cookie header. Returns nil when absent.
func (j *CookieJar) Export(key string) *http.Cookie {
	j.mu.Lock()
	defer j.mu.Unlock()
	c, ok := j.cookies[key]
	if !ok {
		return nil
	}
	clone := *c
	return &clone
}

// Import loads cookies received from an HTTP exchange into the jar.
func (j *CookieJar) Import(cookies []*http.Cookie) {
	j.mu.Lock()
	defer j.mu.Unlock()
	for _, c := range cookies {
		clone := *c
		j.cookies[c.Name] = &clone
	}
}
