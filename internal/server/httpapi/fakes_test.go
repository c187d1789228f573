package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/techreport/internal/common"
	"github.com/dmitrijs2005/techreport/internal/logging"
	"github.com/dmitrijs2005/techreport/internal/server/models"
	"github.com/dmitrijs2005/techreport/internal/server/services"
)

// fakeAccounts plays both the auth service and the session resolver so a
// login followed by a gated request shares one session table.
type fakeAccounts struct {
	mu        sync.Mutex
	passwords map[string]string
	sessions  map[string]string
	seq       int

	signupErr  error
	resolveErr error
	logoutErr  error
}

func newFakeAccounts() *fakeAccounts {
	return &fakeAccounts{
		passwords: map[string]string{"alice": "secret1"},
		sessions:  map[string]string{},
	}
}

func (f *fakeAccounts) open(userName string) (*models.UserIdentity, *models.Session) {
	f.seq++
	token := fmt.Sprintf("tok-%d", f.seq)
	f.sessions[token] = userName
	return &models.UserIdentity{UserID: "id-" + userName, UserName: userName},
		&models.Session{Token: token, ExpiresAt: time.Now().Add(time.Hour)}
}

func (f *fakeAccounts) Signup(ctx context.Context, in services.SignupInput) (*models.UserIdentity, *models.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.signupErr != nil {
		return nil, nil, f.signupErr
	}
	f.passwords[in.UserName] = in.Password
	id, sess := f.open(in.UserName)
	return id, sess, nil
}

func (f *fakeAccounts) Login(ctx context.Context, userName, password string) (*models.UserIdentity, *models.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if p, ok := f.passwords[userName]; !ok || p != password {
		return nil, nil, common.ErrorInvalidCredentials
	}
	id, sess := f.open(userName)
	return id, sess, nil
}

func (f *fakeAccounts) Logout(ctx context.Context, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.logoutErr != nil {
		return f.logoutErr
	}
	delete(f.sessions, token)
	return nil
}

func (f *fakeAccounts) Resolve(ctx context.Context, token string) (*models.UserIdentity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.resolveErr != nil {
		return nil, f.resolveErr
	}
	name, ok := f.sessions[token]
	if !ok {
		return nil, common.ErrorUnauthorized
	}
	return &models.UserIdentity{UserID: "id-" + name, UserName: name}, nil
}

type fakeReports struct {
	saved     []models.Report
	saveErr   error
	listOut   []models.Report
	listErr   error
	listOrder models.SortOrder
	calls     int
}

func (f *fakeReports) Save(ctx context.Context, r *models.Report) (*models.Report, error) {
	f.calls++
	if f.saveErr != nil {
		return nil, f.saveErr
	}
	out := *r
	out.ID = int64(len(f.saved) + 1)
	f.saved = append(f.saved, out)
	return &out, nil
}

func (f *fakeReports) List(ctx context.Context, order models.SortOrder) ([]models.Report, error) {
	f.calls++
	f.listOrder = order
	return f.listOut, f.listErr
}

type fakeExporter struct {
	export func(ctx context.Context) (string, error)
	calls  int
}

func (f *fakeExporter) Export(ctx context.Context) (string, error) {
	f.calls++
	if f.export == nil {
		return "", common.ErrorNoData
	}
	return f.export(ctx)
}

type fakePinger struct{ err error }

func (f fakePinger) PingContext(ctx context.Context) error { return f.err }

type testEnv struct {
	accounts *fakeAccounts
	reports  *fakeReports
	exporter *fakeExporter
	pinger   *fakePinger
	router   http.Handler
}

func newTestEnv(t *testing.T, staticDir string) *testEnv {
	t.Helper()

	env := &testEnv{
		accounts: newFakeAccounts(),
		reports:  &fakeReports{},
		exporter: &fakeExporter{},
		pinger:   &fakePinger{},
	}

	h := NewHandler(Services{
		Auth:     env.accounts,
		Sessions: env.accounts,
		Reports:  env.reports,
		Exporter: env.exporter,
		DB:       env.pinger,
	}, NewSessionCookies("test-secret-key-0123456789abcdef", time.Hour, false), logging.Nop())

	env.router = NewRouter(h, RouterConfig{StaticDir: staticDir})
	return env
}

func (e *testEnv) do(method, target, body string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

// login signs alice in and returns her session cookie.
func (e *testEnv) login(t *testing.T) *http.Cookie {
	t.Helper()
	rec := e.do(http.MethodPost, "/api/login", `{"username":"alice","password":"secret1"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("login status = %d, body %s", rec.Code, rec.Body.String())
	}
	c := sessionCookie(rec)
	if c == nil {
		t.Fatal("login did not set a session cookie")
	}
	return c
}

func sessionCookie(rec *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == common.SessionCookieName {
			return c
		}
	}
	return nil
}
