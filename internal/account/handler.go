package account

import (
	"errors"
	"mime"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-backoffice-go/internal/account/entity"
	"github.com/ovaphlow/pitchfork/service-backoffice-go/internal/apperr"
	"github.com/ovaphlow/pitchfork/service-backoffice-go/internal/httpx"
	"github.com/ovaphlow/pitchfork/service-backoffice-go/internal/resource"
	"github.com/ovaphlow/pitchfork/service-backoffice-go/internal/session"
)

// DefaultCallback is where a login lands when no usable callbackUrl was given.
const DefaultCallback = "/admin"

// Handler exposes HTTP endpoints for login, session and account management.
type Handler struct {
	svc          *Service
	sessions     *session.Service
	logger       *zap.SugaredLogger
	secureCookie bool
	list         resource.Handlers[entity.Account]
}

func NewHandler(svc *Service, sessions *session.Service, logger *zap.SugaredLogger, secureCookie bool) *Handler {
	return &Handler{
		svc:          svc,
		sessions:     sessions,
		logger:       logger,
		secureCookie: secureCookie,
		list: resource.Handlers[entity.Account]{
			Store:        svc,
			Logger:       logger,
			Key:          "accounts",
			DefaultLimit: entity.Table.DefaultLimit,
		},
	}
}

// LoginRequest login payload.
type LoginRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	CallbackURL string `json:"callbackUrl"`
}

// LoginResponse is the JSON answer to a successful login.
type LoginResponse struct {
	Success  bool             `json:"success"`
	User     session.Identity `json:"user"`
	Token    string           `json:"token"`
	Redirect string           `json:"redirect,omitempty"`
}

// Login authenticates a JSON or form body. Form posts are answered with a
// 303 to the sanitized callback; JSON callers get the token in the body.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	req, isForm, err := decodeLogin(w, r)
	if err != nil {
		httpx.WriteError(w, h.logger, r, err)
		return
	}
	a, err := h.svc.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		if !errors.Is(err, apperr.ErrInvalidCredentials) {
			httpx.WriteError(w, h.logger, r, err)
			return
		}
		h.logger.Debugw("login failed", "remote", r.RemoteAddr)
		if isForm {
			target := LoginPath(r.URL.Path, req.CallbackURL) + "&error=1"
			http.Redirect(w, r, target, http.StatusSeeOther)
			return
		}
		httpx.WriteError(w, h.logger, r, err)
		return
	}

	id := Identity(a)
	token, _, err := h.sessions.Issue(id)
	if err != nil {
		httpx.WriteError(w, h.logger, r, err)
		return
	}
	session.SetCookie(w, token, h.secureCookie)
	h.logger.Infow("login", "account", a.ID)

	if isForm {
		http.Redirect(w, r, SafeCallback(req.CallbackURL), http.StatusSeeOther)
		return
	}
	resp := LoginResponse{Success: true, User: id, Token: token}
	if req.CallbackURL != "" {
		resp.Redirect = SafeCallback(req.CallbackURL)
	}
	httpx.WriteJSON(w, http.StatusOK, resp)
}

func decodeLogin(w http.ResponseWriter, r *http.Request) (LoginRequest, bool, error) {
	var req LoginRequest
	ct, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch ct {
	case "application/x-www-form-urlencoded", "multipart/form-data":
		r.Body = http.MaxBytesReader(w, r.Body, httpx.MaxBodyBytes)
		if err := r.ParseForm(); err != nil {
			return req, true, apperr.Invalid("body", "invalid payload")
		}
		req.Email = r.PostFormValue("email")
		req.Password = r.PostFormValue("password")
		req.CallbackURL = r.PostFormValue("callbackUrl")
		if req.CallbackURL == "" {
			req.CallbackURL = r.URL.Query().Get("callbackUrl")
		}
		return req, true, nil
	default:
		if err := httpx.DecodeJSON(w, r, &req); err != nil {
			return req, false, err
		}
		return req, false, nil
	}
}

// Logout clears the session cookie. Tokens are stateless, so a copied
// bearer token stays valid until it expires.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	session.ClearCookie(w, h.secureCookie)
	httpx.Message(w, http.StatusOK, "logged out")
}

// Session returns the identity of the current token, or 401.
func (h *Handler) Session(w http.ResponseWriter, r *http.Request) {
	id, err := h.sessions.Verify(session.TokenFromRequest(r))
	if err != nil {
		httpx.WriteError(w, h.logger, r, apperr.ErrUnauthenticated)
		return
	}
	httpx.OK(w, http.StatusOK, map[string]any{"user": id})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) { h.list.List(w, r) }

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) { h.list.Get(w, r) }

func (h *Handler) Restore(w http.ResponseWriter, r *http.Request) { h.list.Restore(w, r) }

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var in CreateInput
	if err := httpx.DecodeJSON(w, r, &in); err != nil {
		httpx.WriteError(w, h.logger, r, err)
		return
	}
	a, err := h.svc.Create(r.Context(), in)
	if err != nil {
		httpx.WriteError(w, h.logger, r, err)
		return
	}
	h.logger.Infow("account created", "account", a.ID, "by", actorID(r))
	httpx.OK(w, http.StatusCreated, map[string]any{"account": a})
}

// PasswordRequest resets an account's password.
type PasswordRequest struct {
	ID       string `json:"id"`
	Password string `json:"password"`
}

func (h *Handler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var req PasswordRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		httpx.WriteError(w, h.logger, r, err)
		return
	}
	id, err := resource.BodyOrQueryID(r, req.ID)
	if err != nil {
		httpx.WriteError(w, h.logger, r, err)
		return
	}
	if err := h.svc.ChangePassword(r.Context(), id, req.Password); err != nil {
		httpx.WriteError(w, h.logger, r, err)
		return
	}
	h.logger.Infow("password changed", "account", id, "by", actorID(r))
	httpx.Message(w, http.StatusOK, "password updated")
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := resource.QueryID(r)
	if err != nil {
		httpx.WriteError(w, h.logger, r, err)
		return
	}
	if err := h.svc.Deactivate(r.Context(), actorID(r), id); err != nil {
		httpx.WriteError(w, h.logger, r, err)
		return
	}
	httpx.Message(w, http.StatusOK, "deleted")
}

func actorID(r *http.Request) string {
	if id := session.FromContext(r.Context()); id != nil {
		return id.ID
	}
	return ""
}

// SafeCallback keeps only same-origin absolute paths. Scheme-relative
// ("//host"), backslash tricks and anything with a host fall back to
// DefaultCallback.
func SafeCallback(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" || !strings.HasPrefix(raw, "/") || strings.HasPrefix(raw, "//") || strings.ContainsAny(raw, "\\\r\n") {
		return DefaultCallback
	}
	u, err := url.Parse(raw)
	if err != nil || u.Scheme != "" || u.Host != "" || u.User != nil {
		return DefaultCallback
	}
	return u.RequestURI()
}

// LoginPath builds loginPath?callbackUrl=<callback>.
func LoginPath(loginPath, callback string) string {
	return loginPath + "?" + url.Values{"callbackUrl": {SafeCallback(callback)}}.Encode()
}
