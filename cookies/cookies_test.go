package cookies_test

import (
	"bytes"
	stderrors "errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/Kagamine/DataProtection/cookies"
	"github.com/Kagamine/DataProtection/errors"
	"github.com/Kagamine/DataProtection/logger"
	"github.com/Kagamine/DataProtection/protection"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func newTestJar(t *testing.T, opts cookies.Options) *cookies.Jar {
	t.Helper()
	provider, err := protection.NewEphemeralProvider(
		protection.WithLogger(logger.NewDefault("test")),
	)
	if err != nil {
		t.Fatalf("NewEphemeralProvider() error = %v", err)
	}
	jar, err := cookies.NewJar(provider, opts)
	if err != nil {
		t.Fatalf("NewJar() error = %v", err)
	}
	return jar
}

// setCookie runs jar.Set against a fresh recorder and returns the
// cookie written on the response.
func setCookie(t *testing.T, jar *cookies.Jar, name string, value []byte) *http.Cookie {
	t.Helper()
	rr := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rr)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	if err := jar.Set(c, name, value); err != nil {
		t.Fatalf("Set(%q) error = %v", name, err)
	}

	for _, ck := range rr.Result().Cookies() {
		if ck.Name == name {
			return ck
		}
	}
	t.Fatalf("Set(%q) wrote no cookie named %q", name, name)
	return nil
}

// getCookie runs jar.Get on a request carrying the given cookie.
func getCookie(jar *cookies.Jar, name string, ck *http.Cookie) ([]byte, error) {
	rr := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rr)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(ck)
	c.Request = req
	return jar.Get(c, name)
}

func TestDefaultOptions(t *testing.T) {
	opts := cookies.DefaultOptions()

	if opts.Path != "/" {
		t.Errorf("Path = %q, want /", opts.Path)
	}
	if !opts.Secure {
		t.Error("Secure should default to true")
	}
	if !opts.HTTPOnly {
		t.Error("HTTPOnly should default to true")
	}
	if opts.SameSite != cookies.SameSiteLax {
		t.Errorf("SameSite = %q, want %q", opts.SameSite, cookies.SameSiteLax)
	}
	if opts.MaxAge != 0 {
		t.Errorf("MaxAge = %d, want 0 (session cookie)", opts.MaxAge)
	}
}

func TestOptionsApplyDefaults(t *testing.T) {
	var opts cookies.Options
	opts.ApplyDefaults()

	if opts.Path != "/" {
		t.Errorf("Path = %q, want /", opts.Path)
	}
	if opts.SameSite != cookies.SameSiteLax {
		t.Errorf("SameSite = %q, want %q", opts.SameSite, cookies.SameSiteLax)
	}
	if opts.Secure || opts.HTTPOnly {
		t.Error("ApplyDefaults should not flip boolean attributes")
	}
}

func TestOptionsValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*cookies.Options)
		wantErr bool
	}{
		{"defaults are valid", func(*cookies.Options) {}, false},
		{"empty path", func(o *cookies.Options) { o.Path = "" }, true},
		{"unknown same_site", func(o *cookies.Options) { o.SameSite = "sideways" }, true},
		{"negative max_age", func(o *cookies.Options) { o.MaxAge = -1 }, true},
		{"max_age beyond browser cap", func(o *cookies.Options) { o.MaxAge = 400*24*60*60 + 1 }, true},
		{"none without secure", func(o *cookies.Options) { o.SameSite = "none"; o.Secure = false }, true},
		{"none with secure", func(o *cookies.Options) { o.SameSite = "none"; o.Secure = true }, false},
		{"domain with space", func(o *cookies.Options) { o.Domain = "exa mple.com" }, true},
		{"valid domain", func(o *cookies.Options) { o.Domain = "example.com" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := cookies.DefaultOptions()
			tt.mutate(&opts)

			err := opts.Validate()
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected validation error, got nil")
				}
				if !errors.IsInvalidArgument(err) {
					t.Errorf("error = %v, want invalid-argument", err)
				}
			} else if err != nil {
				t.Errorf("Validate() error = %v", err)
			}
		})
	}
}

func TestNewJarNilProvider(t *testing.T) {
	_, err := cookies.NewJar(nil, cookies.DefaultOptions())
	if !errors.IsInvalidArgument(err) {
		t.Errorf("error = %v, want invalid-argument", err)
	}
}

func TestNewJarInvalidOptions(t *testing.T) {
	provider, err := protection.NewEphemeralProvider(
		protection.WithLogger(logger.NewDefault("test")),
	)
	if err != nil {
		t.Fatalf("NewEphemeralProvider() error = %v", err)
	}

	opts := cookies.DefaultOptions()
	opts.SameSite = "sideways"

	if _, err := cookies.NewJar(provider, opts); !errors.IsInvalidArgument(err) {
		t.Errorf("error = %v, want invalid-argument", err)
	}
}

func TestSetGetRoundTrip(t *testing.T) {
	jar := newTestJar(t, cookies.DefaultOptions())

	values := [][]byte{
		[]byte("session-8f14e45f"),
		[]byte(`{"uid":42,"role":"admin"}`),
		{0x00, 0xff, 0x10, 0x80},
		{},
	}

	for _, value := range values {
		ck := setCookie(t, jar, "session", value)

		got, err := getCookie(jar, "session", ck)
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if !bytes.Equal(got, value) {
			t.Errorf("round trip = %x, want %x", got, value)
		}
	}
}

func TestSetCookieAttributes(t *testing.T) {
	jar := newTestJar(t, cookies.Options{
		Path:     "/app",
		Domain:   "example.com",
		MaxAge:   3600,
		Secure:   true,
		HTTPOnly: true,
		SameSite: cookies.SameSiteStrict,
	})

	ck := setCookie(t, jar, "session", []byte("v"))

	if ck.Path != "/app" {
		t.Errorf("Path = %q, want /app", ck.Path)
	}
	if ck.Domain != "example.com" {
		t.Errorf("Domain = %q, want example.com", ck.Domain)
	}
	if ck.MaxAge != 3600 {
		t.Errorf("MaxAge = %d, want 3600", ck.MaxAge)
	}
	if !ck.Secure {
		t.Error("Secure attribute missing")
	}
	if !ck.HttpOnly {
		t.Error("HttpOnly attribute missing")
	}
	if ck.SameSite != http.SameSiteStrictMode {
		t.Errorf("SameSite = %v, want Strict", ck.SameSite)
	}
	if strings.ContainsAny(ck.Value, "=+/") {
		t.Errorf("value %q is not unpadded base64url", ck.Value)
	}
}

func TestSetInvalidName(t *testing.T) {
	jar := newTestJar(t, cookies.DefaultOptions())
	rr := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rr)

	names := []string{
		"",
		"has space",
		"semi;colon",
		"equals=",
		"quoted\"name",
		strings.Repeat("n", 65),
	}

	for _, name := range names {
		if err := jar.Set(c, name, []byte("v")); !errors.IsInvalidArgument(err) {
			t.Errorf("Set(%q) error = %v, want invalid-argument", name, err)
		}
	}

	if len(rr.Result().Cookies()) != 0 {
		t.Error("rejected names should write no cookies")
	}
}

func TestSetOversizedValue(t *testing.T) {
	jar := newTestJar(t, cookies.DefaultOptions())
	rr := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rr)

	err := jar.Set(c, "big", make([]byte, 4096))
	if !errors.IsInvalidArgument(err) {
		t.Errorf("error = %v, want invalid-argument", err)
	}
}

func TestGetMissingCookie(t *testing.T) {
	jar := newTestJar(t, cookies.DefaultOptions())
	rr := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rr)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	_, err := jar.Get(c, "session")
	if !stderrors.Is(err, http.ErrNoCookie) {
		t.Errorf("error = %v, want http.ErrNoCookie", err)
	}
}

func TestGetRejectsNonBase64Value(t *testing.T) {
	jar := newTestJar(t, cookies.DefaultOptions())

	_, err := getCookie(jar, "session", &http.Cookie{Name: "session", Value: "@@not-base64@@"})
	if !errors.IsInvalidPayload(err) {
		t.Errorf("error = %v, want invalid-payload", err)
	}
}

func TestGetRejectsTamperedCookie(t *testing.T) {
	jar := newTestJar(t, cookies.DefaultOptions())
	ck := setCookie(t, jar, "session", []byte("session-8f14e45f"))

	// Corrupting a character in the middle lands in the encrypted body.
	mid := len(ck.Value) / 2
	flipped := 'A'
	if ck.Value[mid] == 'A' {
		flipped = 'B'
	}
	tampered := &http.Cookie{
		Name:  "session",
		Value: ck.Value[:mid] + string(flipped) + ck.Value[mid+1:],
	}

	_, err := getCookie(jar, "session", tampered)
	if err == nil {
		t.Fatal("tampered cookie unprotected successfully")
	}
	if !errors.IsAppError(err) {
		t.Errorf("error = %v, want a protection error", err)
	}
}

func TestCookiesAreBoundToName(t *testing.T) {
	jar := newTestJar(t, cookies.DefaultOptions())
	ck := setCookie(t, jar, "session", []byte("session-8f14e45f"))

	// Replay the session value under a different cookie name.
	forged := &http.Cookie{Name: "prefs", Value: ck.Value}

	_, err := getCookie(jar, "prefs", forged)
	if !errors.IsUnprotectFailed(err) {
		t.Errorf("error = %v, want unprotect-failed", err)
	}
}

func TestJarsAreIsolated(t *testing.T) {
	first := newTestJar(t, cookies.DefaultOptions())
	second := newTestJar(t, cookies.DefaultOptions())

	ck := setCookie(t, first, "session", []byte("session-8f14e45f"))

	if _, err := getCookie(second, "session", ck); !errors.IsUnprotectFailed(err) {
		t.Errorf("error = %v, want unprotect-failed", err)
	}
}

func TestDeleteExpiresCookie(t *testing.T) {
	jar := newTestJar(t, cookies.DefaultOptions())
	rr := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rr)

	if err := jar.Delete(c, "session"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	cks := rr.Result().Cookies()
	if len(cks) != 1 {
		t.Fatalf("wrote %d cookies, want 1", len(cks))
	}
	if cks[0].Value != "" {
		t.Errorf("Value = %q, want empty", cks[0].Value)
	}
	if cks[0].MaxAge >= 0 {
		t.Errorf("MaxAge = %d, want negative (expired)", cks[0].MaxAge)
	}
}

func TestMiddlewareRoundTripThroughEngine(t *testing.T) {
	jar := newTestJar(t, cookies.DefaultOptions())

	engine := gin.New()
	engine.Use(jar.Middleware())
	engine.GET("/login", func(c *gin.Context) {
		j, ok := cookies.FromContext(c)
		if !ok {
			c.AbortWithStatus(http.StatusInternalServerError)
			return
		}
		if err := j.Set(c, "session", []byte("s-123")); err != nil {
			c.AbortWithStatus(http.StatusInternalServerError)
			return
		}
		c.Status(http.StatusNoContent)
	})
	engine.GET("/me", func(c *gin.Context) {
		j, ok := cookies.FromContext(c)
		if !ok {
			c.AbortWithStatus(http.StatusInternalServerError)
			return
		}
		value, err := j.Get(c, "session")
		if err != nil {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}
		c.Data(http.StatusOK, "text/plain", value)
	})

	login := httptest.NewRecorder()
	engine.ServeHTTP(login, httptest.NewRequest(http.MethodGet, "/login", nil))
	if login.Code != http.StatusNoContent {
		t.Fatalf("/login status = %d, want 204", login.Code)
	}
	cks := login.Result().Cookies()
	if len(cks) != 1 {
		t.Fatalf("/login wrote %d cookies, want 1", len(cks))
	}

	me := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.AddCookie(cks[0])
	engine.ServeHTTP(me, req)
	if me.Code != http.StatusOK {
		t.Fatalf("/me status = %d, want 200", me.Code)
	}
	if me.Body.String() != "s-123" {
		t.Errorf("/me body = %q, want s-123", me.Body.String())
	}

	// Without the cookie the session is simply absent.
	anon := httptest.NewRecorder()
	engine.ServeHTTP(anon, httptest.NewRequest(http.MethodGet, "/me", nil))
	if anon.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous /me status = %d, want 401", anon.Code)
	}
}

func TestFromContextMissing(t *testing.T) {
	rr := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rr)

	if _, ok := cookies.FromContext(c); ok {
		t.Error("FromContext should report absent without Middleware")
	}
}

func TestConcurrentSetGet(t *testing.T) {
	jar := newTestJar(t, cookies.DefaultOptions())

	const goroutines = 20
	var wg sync.WaitGroup
	errs := make(chan error, goroutines)

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()

			// Half the goroutines share a name, half use their own,
			// so both protector cache paths run concurrently.
			name := "shared"
			if i%2 == 0 {
				name = fmt.Sprintf("own-%d", i)
			}
			value := []byte(fmt.Sprintf("value-%d", i))

			rr := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(rr)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
			if err := jar.Set(c, name, value); err != nil {
				errs <- err
				return
			}

			var ck *http.Cookie
			for _, candidate := range rr.Result().Cookies() {
				if candidate.Name == name {
					ck = candidate
				}
			}
			if ck == nil {
				errs <- fmt.Errorf("no cookie written for %s", name)
				return
			}

			got, err := getCookie(jar, name, ck)
			if err != nil {
				errs <- err
				return
			}
			if !bytes.Equal(got, value) {
				errs <- fmt.Errorf("round trip mismatch for %s", name)
			}
		}(i)
	}

	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}
}
