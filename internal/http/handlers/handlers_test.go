package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"sync"
	"testing"

	"github.com/dropDatabas3/hirejohn/internal/hr"
	httpx "github.com/dropDatabas3/hirejohn/internal/http"
	jwtx "github.com/dropDatabas3/hirejohn/internal/jwt"
	"github.com/dropDatabas3/hirejohn/internal/service"
	"github.com/dropDatabas3/hirejohn/internal/store/core"
)

// ───────────────────────── fakes ─────────────────────────

type memRepo struct {
	mu       sync.Mutex
	accounts map[string]*core.Account
	profiles map[string]*core.Profile
	configs  []*core.IntegrationConfig
	setups   []*core.AppSetup
	nextID   int64
}

func newMemRepo() *memRepo {
	return &memRepo{
		accounts: map[string]*core.Account{},
		profiles: map[string]*core.Profile{},
		nextID:   1,
	}
}

func (m *memRepo) Ping(ctx context.Context) error                      { return nil }
func (m *memRepo) QueryRaw(ctx context.Context, q string) (any, error) { return 1, nil }
func (m *memRepo) Close(ctx context.Context) error                     { return nil }

func (m *memRepo) GetAccountByEmail(ctx context.Context, email string) (*core.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.accounts[email]
	if !ok {
		return nil, core.ErrNotFound
	}
	c := *a
	return &c, nil
}

func (m *memRepo) GetAccountByID(ctx context.Context, id int64) (*core.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.accounts {
		if a.ID == id {
			c := *a
			return &c, nil
		}
	}
	return nil, core.ErrNotFound
}

func (m *memRepo) CreateAccount(ctx context.Context, a *core.Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.accounts[a.Email]; ok {
		return core.ErrConflict
	}
	a.ID = m.nextID
	m.nextID++
	c := *a
	m.accounts[a.Email] = &c
	return nil
}

func (m *memRepo) apply(a *core.Account, upd core.AccountUpdate) {
	if upd.FullName != nil {
		a.FullName = *upd.FullName
	}
	if upd.PasswordHash != nil {
		a.PasswordHash = *upd.PasswordHash
	}
	if upd.PasswordSalt != nil {
		a.PasswordSalt = *upd.PasswordSalt
	}
	if upd.OTPSecret != nil {
		a.OTPSecret = *upd.OTPSecret
	}
	if upd.OTPExpiry != nil {
		a.OTPExpiry = upd.OTPExpiry
	} else if upd.ClearOTPExpiry {
		a.OTPExpiry = nil
	}
	if upd.Verified != nil {
		a.Verified = *upd.Verified
	}
	if upd.ProfileCreated != nil {
		a.ProfileCreated = *upd.ProfileCreated
	}
}

func (m *memRepo) UpdateAccountByEmail(ctx context.Context, email string, upd core.AccountUpdate) (*core.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.accounts[email]
	if !ok {
		return nil, core.ErrNotFound
	}
	m.apply(a, upd)
	c := *a
	return &c, nil
}

func (m *memRepo) UpdateAccountByID(ctx context.Context, id int64, upd core.AccountUpdate) (*core.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.accounts {
		if a.ID == id {
			m.apply(a, upd)
			c := *a
			return &c, nil
		}
	}
	return nil, core.ErrNotFound
}

func (m *memRepo) GetProfileByEmail(ctx context.Context, email string) (*core.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.profiles[email]
	if !ok {
		return nil, core.ErrNotFound
	}
	c := *p
	return &c, nil
}

func (m *memRepo) CreateProfile(ctx context.Context, p *core.Profile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.profiles[p.Email]; ok {
		return core.ErrConflict
	}
	c := *p
	m.profiles[p.Email] = &c
	return nil
}

func (m *memRepo) UpdateProfileByEmail(ctx context.Context, email string, p *core.Profile) (*core.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.profiles[email]; !ok {
		return nil, core.ErrNotFound
	}
	p.Email = email
	c := *p
	m.profiles[email] = &c
	return &c, nil
}

func (m *memRepo) GetIntegrationConfig(ctx context.Context, id string) (*core.IntegrationConfig, error) {
	for _, c := range m.configs {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, core.ErrNotFound
}

func (m *memRepo) FirstIntegrationConfig(ctx context.Context) (*core.IntegrationConfig, error) {
	if len(m.configs) == 0 {
		return nil, core.ErrNotFound
	}
	return m.configs[0], nil
}

func (m *memRepo) GetAppSetup(ctx context.Context) (*core.AppSetup, error) {
	if len(m.setups) == 0 {
		return nil, core.ErrNotFound
	}
	return m.setups[0], nil
}

func (m *memRepo) CreateAppSetup(ctx context.Context, s *core.AppSetup) error {
	m.setups = append(m.setups, s)
	return nil
}

func (m *memRepo) UpdateAppSetup(ctx context.Context, setupID string, s *core.AppSetup) (*core.AppSetup, error) {
	for _, ex := range m.setups {
		if ex.SetupID == setupID {
			ex.CompanyName = s.CompanyName
			ex.ConfigID = s.ConfigID
			return ex, nil
		}
	}
	return nil, core.ErrNotFound
}

var otpRE = regexp.MustCompile(`\b\d{6}\b`)

type captureSender struct {
	mu   sync.Mutex
	last string
}

func (s *captureSender) Send(to, subject, htmlBody, textBody string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.last = textBody
	return nil
}

func (s *captureSender) lastCode(t *testing.T) string {
	t.Helper()
	s.mu.Lock()
	defer s.mu.Unlock()
	code := otpRE.FindString(s.last)
	if code == "" {
		t.Fatalf("no OTP in captured email: %q", s.last)
	}
	return code
}

// ───────────────────────── harness ─────────────────────────

type env struct {
	repo   *memRepo
	sender *captureSender
	srv    *httptest.Server
}

func newEnv(t *testing.T) *env {
	t.Helper()
	repo := newMemRepo()
	sender := &captureSender{}
	issuer := jwtx.NewIssuer([]byte("test-secret"), "test")
	svc := service.NewAccounts(repo, issuer, sender)
	hrClient := hr.NewClient(repo)

	router := httpx.NewRouter(
		httpx.RouterConfig{},
		&AuthHandler{Svc: svc, Issuer: issuer},
		&ProfileHandler{Svc: svc, Issuer: issuer},
		&TokenHandler{HR: hrClient, Issuer: issuer},
		&AdminHandler{Repo: repo, Issuer: issuer},
		&ReadyzHandler{Repo: repo},
	)
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return &env{repo: repo, sender: sender, srv: srv}
}

func (e *env) request(t *testing.T, method, path, token string, body any) (*http.Response, map[string]any) {
	t.Helper()
	var rd *bytes.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		rd = bytes.NewReader(b)
	} else {
		rd = bytes.NewReader(nil)
	}
	req, err := http.NewRequest(method, e.srv.URL+path, rd)
	if err != nil {
		t.Fatal(err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	var out map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&out)
	return resp, out
}

func (e *env) signUp(t *testing.T, email string) string {
	t.Helper()
	resp, out := e.request(t, http.MethodPost, "/v1/auth/sign-up", "", map[string]string{
		"email": email, "fullName": "A B", "password": "secret1",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("sign-up status = %d, body %v", resp.StatusCode, out)
	}
	tok, _ := out["token"].(string)
	if tok == "" {
		t.Fatal("sign-up response has no token")
	}
	return tok
}

// ───────────────────────── tests ─────────────────────────

func TestSignUpAndDuplicate(t *testing.T) {
	e := newEnv(t)
	e.signUp(t, "a@x.com")

	resp, out := e.request(t, http.MethodPost, "/v1/auth/sign-up", "", map[string]string{
		"email": "a@x.com", "fullName": "A B", "password": "secret1",
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("duplicate sign-up status = %d, body %v", resp.StatusCode, out)
	}
	if out["error"] != "email_taken" {
		t.Fatalf("error code = %v", out["error"])
	}
}

func TestSignUpValidation(t *testing.T) {
	e := newEnv(t)
	resp, out := e.request(t, http.MethodPost, "/v1/auth/sign-up", "", map[string]string{
		"email": "not-an-email",
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	fields, _ := out["fields"].(map[string]any)
	if fields["email"] == nil || fields["password"] == nil {
		t.Fatalf("expected field errors, got %v", out)
	}
}

func TestVerifyFlow(t *testing.T) {
	e := newEnv(t)
	tok := e.signUp(t, "a@x.com")

	resp, out := e.request(t, http.MethodPost, "/v1/auth/verify", tok, map[string]string{
		"otp": "000000",
	})
	if resp.StatusCode != http.StatusBadRequest || out["error"] != "invalid_otp" {
		t.Fatalf("bad otp: status=%d body=%v", resp.StatusCode, out)
	}

	resp, out = e.request(t, http.MethodPost, "/v1/auth/verify", tok, map[string]string{
		"otp": e.sender.lastCode(t),
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("verify: status=%d body=%v", resp.StatusCode, out)
	}
	if out["verified"] != true {
		t.Fatalf("verify response: %v", out)
	}
}

func TestVerifyRequiresBearerToken(t *testing.T) {
	e := newEnv(t)
	tokA := e.signUp(t, "a@x.com")
	codeA := e.sender.lastCode(t)
	e.signUp(t, "b@x.com")

	resp, out := e.request(t, http.MethodPost, "/v1/auth/verify", "", map[string]string{
		"otp": codeA,
	})
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("verify without token: status=%d body=%v", resp.StatusCode, out)
	}
	if acc, _ := e.repo.GetAccountByEmail(context.Background(), "a@x.com"); acc.Verified {
		t.Fatal("account verified without a token")
	}

	// El email sale de los claims: un body con otro email no desvía el flujo.
	resp, out = e.request(t, http.MethodPost, "/v1/auth/verify", tokA, map[string]string{
		"email": "b@x.com", "otp": codeA,
	})
	if resp.StatusCode != http.StatusOK || out["email"] != "a@x.com" {
		t.Fatalf("verify with token: status=%d body=%v", resp.StatusCode, out)
	}
	if acc, _ := e.repo.GetAccountByEmail(context.Background(), "b@x.com"); acc.Verified {
		t.Fatal("body email overrode the token identity")
	}
}

func TestSignInUnverifiedReturns403Marker(t *testing.T) {
	e := newEnv(t)
	e.signUp(t, "a@x.com")

	resp, out := e.request(t, http.MethodPost, "/v1/auth/sign-in", "", map[string]string{
		"email": "a@x.com", "password": "secret1",
	})
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("status = %d, body %v", resp.StatusCode, out)
	}
	if out["code"] != "USER_UNVERIFIED" {
		t.Fatalf("marker = %v", out["code"])
	}
	if out["verified"] != false {
		t.Fatalf("verified = %v", out["verified"])
	}
	if tok, _ := out["token"].(string); tok == "" {
		t.Fatal("403 payload must carry a token")
	}
}

func TestSignInVerified(t *testing.T) {
	e := newEnv(t)
	e.repo.configs = append(e.repo.configs, &core.IntegrationConfig{ID: "c1", CompanyID: "ACME"})
	tok := e.signUp(t, "a@x.com")
	e.request(t, http.MethodPost, "/v1/auth/verify", tok, map[string]string{
		"otp": e.sender.lastCode(t),
	})

	resp, out := e.request(t, http.MethodPost, "/v1/auth/sign-in", "", map[string]string{
		"email": "a@x.com", "password": "secret1",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, body %v", resp.StatusCode, out)
	}
	if out["companyId"] != "ACME" {
		t.Fatalf("companyId = %v", out["companyId"])
	}

	resp, out = e.request(t, http.MethodPost, "/v1/auth/sign-in", "", map[string]string{
		"email": "a@x.com", "password": "wrong",
	})
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("bad password status = %d, body %v", resp.StatusCode, out)
	}
}

func TestMeRequiresAuth(t *testing.T) {
	e := newEnv(t)
	resp, _ := e.request(t, http.MethodGet, "/v1/me", "", nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("unauthenticated /v1/me status = %d", resp.StatusCode)
	}

	tok := e.signUp(t, "a@x.com")
	resp, out := e.request(t, http.MethodGet, "/v1/me", tok, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, body %v", resp.StatusCode, out)
	}
	if out["email"] != "a@x.com" || out["verified"] != false {
		t.Fatalf("me payload: %v", out)
	}
}

func TestProfileCRUD(t *testing.T) {
	e := newEnv(t)
	tok := e.signUp(t, "a@x.com")

	resp, _ := e.request(t, http.MethodGet, "/v1/profile", tok, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("absent profile status = %d", resp.StatusCode)
	}

	resp, out := e.request(t, http.MethodPost, "/v1/profile", tok, map[string]any{
		"firstName": "Ana", "lastName": "Bo", "phone": "123",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create status = %d, body %v", resp.StatusCode, out)
	}

	resp, out = e.request(t, http.MethodPut, "/v1/profile", tok, map[string]any{
		"firstName": "Ana", "lastName": "Bo", "phone": "456",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("update status = %d, body %v", resp.StatusCode, out)
	}
	if out["phone"] != "456" {
		t.Fatalf("update not applied: %v", out)
	}
}

func TestResetPasswordFlow(t *testing.T) {
	e := newEnv(t)
	e.signUp(t, "a@x.com")

	resp, out := e.request(t, http.MethodPost, "/v1/auth/forgot-password", "", map[string]string{"email": "a@x.com"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("forgot status = %d, body %v", resp.StatusCode, out)
	}
	if out["token"] == nil || out["message"] == nil {
		t.Fatalf("forgot body: %v", out)
	}

	resp, out = e.request(t, http.MethodPost, "/v1/auth/verify-reset-otp", "", map[string]string{
		"email": "a@x.com", "otp": e.sender.lastCode(t),
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("verify-reset status = %d, body %v", resp.StatusCode, out)
	}

	resp, out = e.request(t, http.MethodPost, "/v1/auth/reset-password", "", map[string]string{
		"email": "a@x.com", "newPassword": "brand-new",
	})
	if resp.StatusCode != http.StatusOK || out["message"] == nil {
		t.Fatalf("reset status = %d, body %v", resp.StatusCode, out)
	}

	resp, _ = e.request(t, http.MethodPost, "/v1/auth/sign-in", "", map[string]string{
		"email": "a@x.com", "password": "brand-new",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("sign-in with new password status = %d", resp.StatusCode)
	}
}

func TestForgotPasswordUnknownIs404(t *testing.T) {
	e := newEnv(t)
	resp, _ := e.request(t, http.MethodPost, "/v1/auth/forgot-password", "", map[string]string{"email": "ghost@x.com"})
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d", resp.StatusCode)
	}
}

func TestAdminSetupUpsert(t *testing.T) {
	e := newEnv(t)
	tok := e.signUp(t, "admin@x.com")

	resp, _ := e.request(t, http.MethodGet, "/v1/admin/setup", tok, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("empty setup status = %d", resp.StatusCode)
	}

	resp, out := e.request(t, http.MethodPut, "/v1/admin/setup", tok, map[string]string{
		"companyName": "ACME", "configId": "c1",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create status = %d, body %v", resp.StatusCode, out)
	}

	resp, out = e.request(t, http.MethodPut, "/v1/admin/setup", tok, map[string]string{
		"companyName": "ACME Corp",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("update status = %d, body %v", resp.StatusCode, out)
	}

	resp, out = e.request(t, http.MethodGet, "/v1/admin/setup", tok, nil)
	if resp.StatusCode != http.StatusOK || out["companyName"] != "ACME Corp" {
		t.Fatalf("get after update: status=%d body=%v", resp.StatusCode, out)
	}
}

func TestHRTokenPassThrough(t *testing.T) {
	e := newEnv(t)

	// Stub del endpoint OAuth2 del sistema de RRHH.
	oauthSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"access_token":"hr-tok-123","token_type":"Bearer","expires_in":3600}`)
	}))
	t.Cleanup(oauthSrv.Close)

	e.repo.configs = append(e.repo.configs, &core.IntegrationConfig{
		ID: "c1", CompanyID: "ACME",
		TokenURL: oauthSrv.URL, ClientID: "cid", ClientSecret: "cs",
	})

	tok := e.signUp(t, "a@x.com")
	resp, out := e.request(t, http.MethodGet, "/v1/token", tok, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, body %v", resp.StatusCode, out)
	}
	if out["access_token"] != "hr-tok-123" {
		t.Fatalf("token payload: %v", out)
	}
	if cc := resp.Header.Get("Cache-Control"); !strings.Contains(cc, "no-store") {
		t.Fatalf("Cache-Control = %q", cc)
	}
}

func TestHRTokenWithoutConfigIs404(t *testing.T) {
	e := newEnv(t)
	tok := e.signUp(t, "a@x.com")
	resp, out := e.request(t, http.MethodGet, "/v1/token", tok, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d, body %v", resp.StatusCode, out)
	}
}

func TestReadyz(t *testing.T) {
	e := newEnv(t)
	resp, out := e.request(t, http.MethodGet, "/readyz", "", nil)
	if resp.StatusCode != http.StatusOK || out["status"] != "ready" {
		t.Fatalf("status=%d body=%v", resp.StatusCode, out)
	}
}

func TestRequestIDPropagates(t *testing.T) {
	e := newEnv(t)
	req, _ := http.NewRequest(http.MethodGet, e.srv.URL+"/healthz", nil)
	req.Header.Set("X-Request-ID", "rid-42")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if got := resp.Header.Get("X-Request-ID"); got != "rid-42" {
		t.Fatalf("X-Request-ID = %q", got)
	}
}

func TestResendOTPSameAnswerEitherWay(t *testing.T) {
	e := newEnv(t)
	e.signUp(t, "a@x.com")

	for _, mail := range []string{"a@x.com", "ghost@x.com"} {
		resp, out := e.request(t, http.MethodPost, "/v1/auth/resend-otp", "", map[string]string{"email": mail})
		if resp.StatusCode != http.StatusOK || out["message"] == nil {
			t.Fatalf("resend(%s): status=%d body=%v", mail, resp.StatusCode, out)
		}
	}
}
