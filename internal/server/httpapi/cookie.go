package httpapi

import (
	"net/http"
	"time"

	"github.com/dmitrijs2005/techreport/internal/common"
	"github.com/gorilla/sessions"
)

const tokenValueKey = "token"

// SessionCookies keeps the opaque session token in a signed cookie. The
// cookie carries nothing but the token, the session itself lives in the
// database.
type SessionCookies struct {
	store *sessions.CookieStore
	name  string
}

func NewSessionCookies(secret string, ttl time.Duration, secure bool) *SessionCookies {
	store := sessions.NewCookieStore([]byte(secret))
	store.Options = &sessions.Options{
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	store.MaxAge(int(ttl / time.Second))

	return &SessionCookies{store: store, name: common.SessionCookieName}
}

// Token returns the session token carried by r, or "" when the cookie is
// missing or fails signature checks.
func (c *SessionCookies) Token(r *http.Request) string {
	sess, err := c.store.Get(r, c.name)
	if err != nil || sess == nil {
		return ""
	}
	token, _ := sess.Values[tokenValueKey].(string)
	return token
}

func (c *SessionCookies) Set(w http.ResponseWriter, r *http.Request, token string) error {
	// a cookie that fails to decode is replaced
	sess, _ := c.store.Get(r, c.name)
	sess.Values[tokenValueKey] = token
	return sess.Save(r, w)
}

func (c *SessionCookies) Clear(w http.ResponseWriter, r *http.Request) error {
	sess, _ := c.store.Get(r, c.name)
	delete(sess.Values, tokenValueKey)
	sess.Options.MaxAge = -1
	return sess.Save(r, w)
}
