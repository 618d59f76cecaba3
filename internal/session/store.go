// Package session holds the bearer token and identity of the current
// role profile. Login, Register and Logout are the only writers.
package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Skotchmaster/friendly_mart/internal/apiclient"
	"github.com/Skotchmaster/friendly_mart/internal/apperr"
	"github.com/Skotchmaster/friendly_mart/internal/storage"
	"github.com/Skotchmaster/friendly_mart/pkg/logging"
	"github.com/Skotchmaster/friendly_mart/pkg/tokens"
)

const (
	MsgLoginFailed    = "Login failed. Please check your credentials."
	MsgAdminRequired  = "Admin access required"
	MsgRegisterFailed = "Registration failed"
	MsgSessionExpired = "Your session has expired. Please log in again."
)

type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type Registration struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
}

type Session struct {
	Token           string
	RefreshToken    string
	UserID          string
	Username        string
	IsStaff         bool
	IsSeller        bool
	IsDeliveryAgent bool
}

type loginResponse struct {
	Access          string `json:"access"`
	Refresh         string `json:"refresh"`
	UserID          any    `json:"user_id"`
	Username        string `json:"username"`
	IsStaff         bool   `json:"is_staff"`
	IsSeller        bool   `json:"is_seller"`
	IsDeliveryAgent bool   `json:"is_delivery_agent"`
}

type Store struct {
	role    Role
	api     *apiclient.Client
	storage storage.Storage
	now     func() time.Time
}

func New(role Role, api *apiclient.Client, st storage.Storage) *Store {
	return &Store{role: role, api: api, storage: st, now: time.Now}
}

// WithClock replaces the clock used for local expiry checks.
func (s *Store) WithClock(now func() time.Time) *Store {
	s.now = now
	return s
}

func (s *Store) Role() Role { return s.role }

func (s *Store) Login(ctx context.Context, creds Credentials) (*Session, error) {
	l := logging.FromContext(ctx).With("role", s.role)

	creds.Username = strings.TrimSpace(creds.Username)
	if creds.Username == "" || creds.Password == "" {
		return nil, apperr.Validation(map[string]string{
			"credentials": "Username and password are required",
		})
	}

	cfg := s.role.Config()
	var resp loginResponse
	err := s.api.Do(ctx, apiclient.Request{
		Method: http.MethodPost,
		Path:   cfg.LoginPath,
		Body:   creds,
	}, &resp)
	if err != nil {
		l.Warn("login_failed", "error", err)
		return nil, loginError(err, MsgLoginFailed)
	}
	if resp.Access == "" {
		l.Warn("login_failed", "error", "response without access token")
		return nil, apperr.Rejected(0, MsgLoginFailed)
	}

	sess := s.fromResponse(resp, creds.Username)
	if cfg.RequireStaff && !sess.IsStaff {
		l.Warn("login_denied", "username", sess.Username)
		return nil, apperr.Rejected(http.StatusForbidden, MsgAdminRequired)
	}

	if err := s.persist(ctx, sess); err != nil {
		return nil, apperr.Unavailable(fmt.Errorf("persist session: %w", err))
	}
	l.Info("login_succeeded", "user_id", sess.UserID)
	return sess, nil
}

// Register creates a customer account and logs in with it.
func (s *Store) Register(ctx context.Context, reg Registration) (*Session, error) {
	if s.role != Customer {
		return nil, apperr.Rejected(0, "Registration is only available for customers")
	}
	fields := map[string]string{}
	if strings.TrimSpace(reg.Username) == "" {
		fields["username"] = "Username is required"
	}
	if !strings.Contains(reg.Email, "@") {
		fields["email"] = "Enter a valid email"
	}
	if len(reg.Password) < 6 {
		fields["password"] = "Password must be at least 6 characters"
	}
	if len(fields) > 0 {
		return nil, apperr.Validation(fields)
	}

	err := s.api.Do(ctx, apiclient.Request{
		Method: http.MethodPost,
		Path:   "/auth/register/",
		Body:   reg,
	}, nil)
	if err != nil {
		logging.FromContext(ctx).Warn("register_failed", "error", err)
		return nil, loginError(err, MsgRegisterFailed)
	}
	return s.Login(ctx, Credentials{Username: reg.Username, Password: reg.Password})
}

// Logout clears every persisted session and handoff key. It never fails;
// storage errors are logged.
func (s *Store) Logout(ctx context.Context) {
	if err := s.storage.Delete(ctx, allKeys...); err != nil {
		logging.FromContext(ctx).Error("logout_storage_error", "error", err)
	}
}

// CurrentToken is a pure read of the stored bearer token.
func (s *Store) CurrentToken(ctx context.Context) (string, bool) {
	tok, ok, err := s.storage.Get(ctx, s.role.Config().TokenKey)
	if err != nil || !ok || tok == "" {
		return "", false
	}
	return tok, true
}

// Token returns the bearer token for an authenticated call. An absent
// token is ErrAuthRequired; a JWT whose exp has passed is ErrAuthExpired
// and is reported without any network call.
func (s *Store) Token(ctx context.Context) (string, error) {
	tok, ok := s.CurrentToken(ctx)
	if !ok {
		return "", apperr.AuthRequired()
	}
	if tokens.Expired(tok, s.now()) {
		e := apperr.AuthExpired(0)
		e.Message = MsgSessionExpired
		return "", e
	}
	return tok, nil
}

func (s *Store) Current(ctx context.Context) (*Session, bool) {
	tok, ok := s.CurrentToken(ctx)
	if !ok {
		return nil, false
	}
	get := func(k string) string {
		v, _, _ := s.storage.Get(ctx, k)
		return v
	}
	return &Session{
		Token:           tok,
		RefreshToken:    get(KeyRefreshToken),
		UserID:          get(KeyUserID),
		Username:        get(KeyUsername),
		IsStaff:         get(KeyIsStaff) == "true",
		IsSeller:        get(KeyIsSeller) == "true",
		IsDeliveryAgent: get(KeyIsDeliveryAgent) == "true",
	}, true
}

func (s *Store) fromResponse(resp loginResponse, username string) *Session {
	sess := &Session{
		Token:           resp.Access,
		RefreshToken:    resp.Refresh,
		Username:        resp.Username,
		UserID:          idString(resp.UserID),
		IsStaff:         resp.IsStaff,
		IsSeller:        resp.IsSeller || s.role == Seller,
		IsDeliveryAgent: resp.IsDeliveryAgent || s.role == Delivery,
	}
	if claims, err := tokens.Inspect(resp.Access); err == nil {
		if sess.UserID == "" && claims.UserID != 0 {
			sess.UserID = strconv.FormatUint(uint64(claims.UserID), 10)
		}
		if sess.Username == "" {
			sess.Username = claims.Username
		}
		sess.IsStaff = sess.IsStaff || claims.IsStaff
		sess.IsSeller = sess.IsSeller || claims.IsSeller
		sess.IsDeliveryAgent = sess.IsDeliveryAgent || claims.IsDeliveryAgent
	}
	if sess.Username == "" {
		sess.Username = username
	}
	return sess
}

func (s *Store) persist(ctx context.Context, sess *Session) error {
	if err := s.storage.Delete(ctx, allKeys...); err != nil {
		return err
	}
	kv := [][2]string{
		{s.role.Config().TokenKey, sess.Token},
		{KeyRefreshToken, sess.RefreshToken},
		{KeyUsername, sess.Username},
		{KeyUserID, sess.UserID},
		{KeyIsStaff, strconv.FormatBool(sess.IsStaff)},
		{KeyIsSeller, strconv.FormatBool(sess.IsSeller)},
		{KeyIsDeliveryAgent, strconv.FormatBool(sess.IsDeliveryAgent)},
	}
	for _, p := range kv {
		if err := s.storage.Set(ctx, p[0], p[1]); err != nil {
			return err
		}
	}
	return nil
}

// loginError maps a failed credential exchange to a rejection. A 401 on
// a login endpoint means bad credentials, not an expired session.
func loginError(err error, fallback string) error {
	var e *apperr.Error
	if !errors.As(err, &e) {
		return apperr.Rejected(0, fallback)
	}
	switch e.Kind {
	case apperr.ErrAuthExpired, apperr.ErrRejected:
		msg := e.Message
		if msg == "" {
			msg = fallback
		}
		return apperr.Rejected(e.Status, msg)
	}
	return e
}

func idString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case string:
		return t
	default:
		return fmt.Sprint(t)
	}
}
