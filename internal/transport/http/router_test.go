package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"account-auth/internal/domain"
	"account-auth/internal/dto"
	"account-auth/internal/observability/metrics"
	"account-auth/internal/service/impl"
	"account-auth/internal/store"

	"github.com/google/uuid"
)

func TestMain(m *testing.M) {
	metrics.MustRegister("accounts-test")
	os.Exit(m.Run())
}

// ====== fakes ======

type fakeAuthService struct {
	registerErr error
	loginErr    error
	refreshErr  error
	loggedOut   []uuid.UUID
}

func (f *fakeAuthService) Register(ctx context.Context, r dto.RegisterRequest) (*dto.RegisterResponse, error) {
	if f.registerErr != nil {
		return nil, f.registerErr
	}
	return &dto.RegisterResponse{Message: "Registration successful. Please check your email to verify your account.", Email: strings.ToLower(r.Email)}, nil
}

func (f *fakeAuthService) VerifyEmail(ctx context.Context, token string) (*dto.AuthResponse, error) {
	if token == "" {
		return nil, domain.ErrInvalidVerifyToken
	}
	return &dto.AuthResponse{AccessToken: "a", RefreshToken: "r"}, nil
}

func (f *fakeAuthService) ResendVerification(ctx context.Context, email string) (string, error) {
	return "If an account with that email exists, a verification email has been sent.", nil
}

func (f *fakeAuthService) Login(ctx context.Context, r dto.LoginRequest) (*dto.AuthResponse, error) {
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	return &dto.AuthResponse{AccessToken: "a", RefreshToken: "r", User: dto.UserProfile{Email: r.Email}}, nil
}

func (f *fakeAuthService) ForgotPassword(ctx context.Context, email string) (string, error) {
	return "If an account with that email exists, a password reset email has been sent.", nil
}

func (f *fakeAuthService) ResetPassword(ctx context.Context, token, newPassword string) error {
	return nil
}

func (f *fakeAuthService) Refresh(ctx context.Context, userID domain.UserID, refreshToken string) (*dto.AuthResponse, error) {
	if f.refreshErr != nil {
		return nil, f.refreshErr
	}
	return &dto.AuthResponse{AccessToken: "a2", RefreshToken: "r2"}, nil
}

func (f *fakeAuthService) Logout(ctx context.Context, userID domain.UserID) error {
	f.loggedOut = append(f.loggedOut, userID)
	return nil
}

type fakeUserService struct {
	details map[uuid.UUID]dto.UserDetail
}

func (f *fakeUserService) List(ctx context.Context, filter dto.UserFilter) ([]dto.UserDetail, int64, error) {
	out := make([]dto.UserDetail, 0, len(f.details))
	for _, d := range f.details {
		out = append(out, d)
	}
	return out, int64(len(out)), nil
}

func (f *fakeUserService) Get(ctx context.Context, id domain.UserID) (*dto.UserDetail, error) {
	if d, ok := f.details[id]; ok {
		return &d, nil
	}
	return nil, domain.ErrUserNotFound
}

func (f *fakeUserService) UpdateRoles(ctx context.Context, id domain.UserID, roles domain.RoleList) (*dto.UserDetail, error) {
	d, ok := f.details[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	d.Roles = roles.Strings()
	f.details[id] = d
	return &d, nil
}

func (f *fakeUserService) SetActive(ctx context.Context, id domain.UserID, active bool) error {
	d, ok := f.details[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	d.IsActive = active
	f.details[id] = d
	return nil
}

func (f *fakeUserService) Delete(ctx context.Context, id domain.UserID) error {
	if _, ok := f.details[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(f.details, id)
	return nil
}

type fakeResolver struct {
	users map[uuid.UUID]*domain.User
}

func (f *fakeResolver) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	if u, ok := f.users[id]; ok {
		copied := *u
		return &copied, nil
	}
	return nil, store.ErrRecordNotFound
}

// ====== harness ======

type routerFixture struct {
	handler  http.Handler
	tokens   *impl.TokenServiceImpl
	auth     *fakeAuthService
	users    *fakeUserService
	resolver *fakeResolver
}

func newRouterFixture() *routerFixture {
	tokens := impl.NewTokenServiceHS256(impl.TokenConfig{
		Issuer:        "accounts-test",
		AccessSecret:  []byte("access-secret-for-tests"),
		RefreshSecret: []byte("refresh-secret-for-tests"),
		AccessTTL:     time.Minute,
		RefreshTTL:    time.Hour,
	})
	auth := &fakeAuthService{}
	users := &fakeUserService{details: make(map[uuid.UUID]dto.UserDetail)}
	resolver := &fakeResolver{users: make(map[uuid.UUID]*domain.User)}
	guard := NewAccessGuard(tokens, resolver)
	handler := NewRouter(RouterConfig{}, NewAuthHandler(auth, tokens), NewUsersHandler(users), guard)
	return &routerFixture{handler: handler, tokens: tokens, auth: auth, users: users, resolver: resolver}
}

// addUser registers an identity with the resolver and the user service and
// returns a valid bearer token for it.
func (f *routerFixture) addUser(t *testing.T, roles ...domain.Role) (uuid.UUID, string) {
	t.Helper()
	id := uuid.New()
	user := &domain.User{
		ID:              id,
		Email:           id.String() + "@example.com",
		Name:            "Fixture",
		Roles:           domain.RoleList(roles),
		IsActive:        true,
		IsEmailVerified: true,
	}
	f.resolver.users[id] = user
	f.users.details[id] = dto.UserDetail{
		ID:       id.String(),
		Email:    user.Email,
		Name:     user.Name,
		Roles:    user.Roles.Strings(),
		IsActive: true,
	}
	pair, err := f.tokens.Mint(context.Background(), id, user.Email)
	if err != nil {
		t.Fatalf("mint: %v", err)
	}
	return id, pair.AccessToken
}

func (f *routerFixture) do(t *testing.T, method, target, bearer, body string) (*httptest.ResponseRecorder, Envelope) {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)

	var env Envelope
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
			t.Fatalf("decode envelope: %v (body %q)", err, rec.Body.String())
		}
	}
	return rec, env
}

// ====== tests ======

func TestHealthz(t *testing.T) {
	f := newRouterFixture()
	rec, _ := f.do(t, http.MethodGet, "/healthz", "", "")
	if rec.Code != http.StatusOK || rec.Body.String() != "ok" {
		t.Fatalf("unexpected health response: %d %q", rec.Code, rec.Body.String())
	}
}

func TestPublicRegister(t *testing.T) {
	f := newRouterFixture()
	rec, env := f.do(t, http.MethodPost, "/v1/auth/register", "", `{"email":"A@x.com","password":"secret-password","name":"A"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	if !env.Success || env.Message == "" {
		t.Fatalf("unexpected envelope: %+v", env)
	}
}

func TestRegisterRejectsBadJSON(t *testing.T) {
	f := newRouterFixture()
	rec, env := f.do(t, http.MethodPost, "/v1/auth/register", "", `{"email":`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if env.Success || env.Path != "/v1/auth/register" {
		t.Fatalf("error envelope must carry the path: %+v", env)
	}
}

func TestLoginErrorMapping(t *testing.T) {
	f := newRouterFixture()
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "bad credentials", err: domain.ErrInvalidCredentials, want: http.StatusUnauthorized},
		{name: "unverified", err: domain.ErrEmailNotVerified, want: http.StatusUnauthorized},
		{name: "disabled", err: domain.ErrUserDisabled, want: http.StatusUnauthorized},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f.auth.loginErr = tc.err
			rec, env := f.do(t, http.MethodPost, "/v1/auth/login", "", `{"email":"a@x.com","password":"nope"}`)
			if rec.Code != tc.want {
				t.Fatalf("expected %d, got %d", tc.want, rec.Code)
			}
			if env.Message != tc.err.Error() {
				t.Fatalf("expected the service message, got %q", env.Message)
			}
		})
	}
}

func TestRefreshRejectsForgedToken(t *testing.T) {
	f := newRouterFixture()
	rec, _ := f.do(t, http.MethodPost, "/v1/auth/refresh", "", `{"refreshToken":"not-a-jwt"}`)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestRefreshRejectsAccessTokenAsRefresh(t *testing.T) {
	f := newRouterFixture()
	_, access := f.addUser(t, domain.RoleUser)
	rec, _ := f.do(t, http.MethodPost, "/v1/auth/refresh", "", `{"refreshToken":"`+access+`"}`)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("access tokens must not pass the refresh gate, got %d", rec.Code)
	}
}

func TestGuardRejectsMissingAndInvalidBearer(t *testing.T) {
	f := newRouterFixture()

	rec, env := f.do(t, http.MethodGet, "/v1/users/me", "", "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without a token, got %d", rec.Code)
	}
	if env.Success {
		t.Fatal("error envelopes must not claim success")
	}

	rec, _ = f.do(t, http.MethodGet, "/v1/users/me", "garbage", "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for a forged token, got %d", rec.Code)
	}
}

func TestGuardRejectsDisabledIdentity(t *testing.T) {
	f := newRouterFixture()
	id, token := f.addUser(t, domain.RoleUser)
	f.resolver.users[id].IsActive = false

	rec, env := f.do(t, http.MethodGet, "/v1/users/me", token, "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for a disabled account, got %d", rec.Code)
	}
	if env.Message != domain.ErrUserDisabled.Error() {
		t.Fatalf("unexpected message: %q", env.Message)
	}
}

func TestMeIsOpenToAnyIdentity(t *testing.T) {
	f := newRouterFixture()
	id, token := f.addUser(t, domain.RoleUser)

	rec, env := f.do(t, http.MethodGet, "/v1/users/me", token, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%q)", rec.Code, env.Message)
	}
	data, _ := json.Marshal(env.Data)
	var detail dto.UserDetail
	if err := json.Unmarshal(data, &detail); err != nil {
		t.Fatalf("decode profile: %v", err)
	}
	if detail.ID != id.String() {
		t.Fatalf("profile does not match the bearer: %q", detail.ID)
	}
}

func TestListRequiresAdminRole(t *testing.T) {
	f := newRouterFixture()
	_, userToken := f.addUser(t, domain.RoleUser)
	_, adminToken := f.addUser(t, domain.RoleAdmin)

	rec, env := f.do(t, http.MethodGet, "/v1/users/", userToken, "")
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for plain users, got %d", rec.Code)
	}
	if env.Message != "you do not have permission to access this resource" {
		t.Fatalf("unexpected message: %q", env.Message)
	}

	rec, env = f.do(t, http.MethodGet, "/v1/users/?page=1&limit=10", adminToken, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for admins, got %d (%q)", rec.Code, env.Message)
	}
	if env.Meta == nil || env.Meta.Page != 1 || env.Meta.Limit != 10 {
		t.Fatalf("list responses must be paginated: %+v", env.Meta)
	}
}

func TestRoleEscalationNeedsSuperAdmin(t *testing.T) {
	f := newRouterFixture()
	target, _ := f.addUser(t, domain.RoleUser)
	_, adminToken := f.addUser(t, domain.RoleAdmin)
	_, superToken := f.addUser(t, domain.RoleSuperAdmin)

	body := `{"roles":["user","admin"]}`
	rec, _ := f.do(t, http.MethodPatch, "/v1/users/"+target.String()+"/roles", adminToken, body)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("admins must not assign roles, got %d", rec.Code)
	}

	rec, env := f.do(t, http.MethodPatch, "/v1/users/"+target.String()+"/roles", superToken, body)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for super admins, got %d (%q)", rec.Code, env.Message)
	}

	rec, _ = f.do(t, http.MethodPatch, "/v1/users/"+target.String()+"/roles", superToken, `{"roles":["owner"]}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("unknown role names must be rejected, got %d", rec.Code)
	}
}

func TestDeleteUnknownUser(t *testing.T) {
	f := newRouterFixture()
	_, superToken := f.addUser(t, domain.RoleSuperAdmin)

	rec, _ := f.do(t, http.MethodDelete, "/v1/users/"+uuid.NewString(), superToken, "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}

	rec, _ = f.do(t, http.MethodDelete, "/v1/users/not-a-uuid", superToken, "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("malformed ids must be rejected, got %d", rec.Code)
	}
}

func TestLogoutUsesBearerIdentity(t *testing.T) {
	f := newRouterFixture()
	id, token := f.addUser(t, domain.RoleUser)

	rec, _ := f.do(t, http.MethodPost, "/v1/auth/logout", token, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if len(f.auth.loggedOut) != 1 || f.auth.loggedOut[0] != id {
		t.Fatalf("logout must target the bearer, got %v", f.auth.loggedOut)
	}

	rec, _ = f.do(t, http.MethodPost, "/v1/auth/logout", "", "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("logout is a guarded route, got %d", rec.Code)
	}
}

func TestParseUserFilter(t *testing.T) {
	tests := []struct {
		name    string
		query   string
		wantErr bool
		check   func(t *testing.T, f dto.UserFilter)
	}{
		{
			name:  "defaults",
			query: "",
			check: func(t *testing.T, f dto.UserFilter) {
				if f.Page != 1 || f.Limit != 10 {
					t.Fatalf("unexpected defaults: %+v", f)
				}
			},
		},
		{
			name:  "full set",
			query: "page=3&limit=25&role=admin&isEmailVerified=true&isActive=false&search=ann&sortBy=email&order=desc",
			check: func(t *testing.T, f dto.UserFilter) {
				if f.Page != 3 || f.Limit != 25 || !f.SortDesc || f.SortBy != "email" || f.Search != "ann" {
					t.Fatalf("unexpected filter: %+v", f)
				}
				if f.Role == nil || *f.Role != domain.RoleAdmin {
					t.Fatalf("role not parsed: %v", f.Role)
				}
				if f.Verified == nil || !*f.Verified || f.Active == nil || *f.Active {
					t.Fatalf("bool filters not parsed: %+v", f)
				}
			},
		},
		{name: "zero page", query: "page=0", wantErr: true},
		{name: "limit over cap", query: "limit=1000", wantErr: true},
		{name: "unknown role", query: "role=owner", wantErr: true},
		{name: "bad bool", query: "isActive=maybe", wantErr: true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/v1/users/?"+tc.query, nil)
			filter, err := parseUserFilter(req)
			if tc.wantErr {
				if err == nil {
					t.Fatal("expected an error")
				}
				return
			}
			if err != nil {
				t.Fatalf("parse: %v", err)
			}
			tc.check(t, filter)
		})
	}
}
