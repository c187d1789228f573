// Package httpapi is the HTTP boundary of the report server: the chi router,
// the session gate and the JSON handlers the browser client talks to.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/dmitrijs2005/techreport/internal/common"
	"github.com/dmitrijs2005/techreport/internal/logging"
	"github.com/dmitrijs2005/techreport/internal/server/export"
	"github.com/dmitrijs2005/techreport/internal/server/models"
	"github.com/dmitrijs2005/techreport/internal/server/services"
)

type Authenticator interface {
	Signup(ctx context.Context, in services.SignupInput) (*models.UserIdentity, *models.Session, error)
	Login(ctx context.Context, userName, password string) (*models.UserIdentity, *models.Session, error)
	Logout(ctx context.Context, token string) error
}

type SessionResolver interface {
	Resolve(ctx context.Context, token string) (*models.UserIdentity, error)
}

type ReportStore interface {
	Save(ctx context.Context, report *models.Report) (*models.Report, error)
	List(ctx context.Context, order models.SortOrder) ([]models.Report, error)
}

type Exporter interface {
	Export(ctx context.Context) (string, error)
}

type Pinger interface {
	PingContext(ctx context.Context) error
}

// Services groups what the handlers call into.
type Services struct {
	Auth     Authenticator
	Sessions SessionResolver
	Reports  ReportStore
	Exporter Exporter
	DB       Pinger
}

type Handler struct {
	svc     Services
	cookies *SessionCookies
	logger  logging.Logger
}

func NewHandler(svc Services, cookies *SessionCookies, l logging.Logger) *Handler {
	return &Handler{svc: svc, cookies: cookies, logger: l.With("module", "httpapi")}
}

type signupRequest struct {
	UserName string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	UserName string `json:"username"`
	Password string `json:"password"`
}

func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, msgBadBody)
		return
	}

	id, sess, err := h.svc.Auth.Signup(r.Context(), services.SignupInput{
		UserName: req.UserName,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.fail(w, r, err, msgSignupFields, msgInternal)
		return
	}

	h.startSession(w, r, id, sess, msgSignedUp)
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, msgBadBody)
		return
	}

	id, sess, err := h.svc.Auth.Login(r.Context(), req.UserName, req.Password)
	if err != nil {
		h.fail(w, r, err, msgBadLogin, msgInternal)
		return
	}

	h.startSession(w, r, id, sess, msgLoggedIn)
}

func (h *Handler) startSession(w http.ResponseWriter, r *http.Request, id *models.UserIdentity, sess *models.Session, msg string) {
	if err := h.cookies.Set(w, r, sess.Token); err != nil {
		h.fail(w, r, err, msgInternal, msgInternal)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: msg, UserName: id.UserName})
}

// Logout succeeds whether or not the caller still had a live session.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Auth.Logout(r.Context(), h.cookies.Token(r)); err != nil {
		h.fail(w, r, err, msgInternal, msgInternal)
		return
	}
	if err := h.cookies.Clear(w, r); err != nil {
		h.logger.Warn(r.Context(), "clear session cookie", "error", err)
	}
	writeMessage(w, http.StatusOK, msgLoggedOut)
}

func (h *Handler) AuthCheck(w http.ResponseWriter, r *http.Request) {
	id, err := h.svc.Sessions.Resolve(r.Context(), h.cookies.Token(r))
	if err != nil {
		writeJSON(w, http.StatusOK, authCheckResponse{})
		return
	}
	writeJSON(w, http.StatusOK, authCheckResponse{Authenticated: true, UserName: id.UserName})
}

func (h *Handler) SaveReport(w http.ResponseWriter, r *http.Request) {
	var report models.Report
	if err := decodeJSON(w, r, &report); err != nil {
		writeMessage(w, http.StatusBadRequest, msgFieldsNeeded)
		return
	}
	report.ID = 0

	saved, err := h.svc.Reports.Save(r.Context(), &report)
	if err != nil {
		h.fail(w, r, err, msgFieldsNeeded, msgSaveFailed)
		return
	}

	if id, ok := IdentityFromContext(r.Context()); ok {
		h.logger.Info(r.Context(), "report saved", "id", saved.ID, "user", id.UserName)
	}
	writeMessage(w, http.StatusOK, msgSaved)
}

func (h *Handler) ListReports(w http.ResponseWriter, r *http.Request) {
	reports, err := h.svc.Reports.List(r.Context(), models.OrderDesc)
	if err != nil {
		h.fail(w, r, err, msgReadFailed, msgReadFailed)
		return
	}
	writeJSON(w, http.StatusOK, reports)
}

func (h *Handler) Download(w http.ResponseWriter, r *http.Request) {
	path, err := h.svc.Exporter.Export(r.Context())
	if errors.Is(err, common.ErrorNoData) {
		http.Error(w, msgNoData, http.StatusNotFound)
		return
	}
	if err != nil {
		h.fail(w, r, err, msgInternal, msgInternal)
		return
	}

	f, err := os.Open(path)
	if err != nil {
		h.fail(w, r, err, msgInternal, msgInternal)
		return
	}
	defer f.Close()

	modTime := time.Now()
	if info, err := f.Stat(); err == nil {
		modTime = info.ModTime()
	}

	w.Header().Set("Content-Type", export.ContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+export.FileName+`"`)
	http.ServeContent(w, r, export.FileName, modTime, f)
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.svc.DB.PingContext(ctx); err != nil {
		h.logger.Warn(ctx, "health check failed", "error", err)
		writeJSON(w, http.StatusServiceUnavailable, healthResponse{Status: "unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok"})
}

// fail writes the client view of err and logs whatever is not the client's fault.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error, validationMsg, fallback string) {
	apiErr := toAPIError(err, validationMsg, fallback)
	if apiErr.Status >= http.StatusInternalServerError {
		h.logger.Error(r.Context(), "request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"status", apiErr.Status,
			"error", err)
	}
	writeMessage(w, apiErr.Status, apiErr.Message)
}
