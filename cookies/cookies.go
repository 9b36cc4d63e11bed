package cookies

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"

	"github.com/Kagamine/DataProtection/errors"
	"github.com/Kagamine/DataProtection/logger"
	"github.com/Kagamine/DataProtection/observability"
	"github.com/Kagamine/DataProtection/protection"
	"github.com/Kagamine/DataProtection/validation"
)

const (
	// purposeRoot anchors every cookie protector under a common purpose
	// segment so cookie payloads never unprotect under other consumers.
	purposeRoot = "cookies"

	// maxNameLength bounds cookie names well below any header limit.
	maxNameLength = 64

	// namePattern is the RFC 6265 cookie-name grammar (an HTTP token).
	namePattern = "^[a-zA-Z0-9!#$%&'*+\\-.^_`|~]+$"

	// maxCookieSize is the name+value limit most browsers enforce
	// per cookie.
	maxCookieSize = 4096
)

// jarContextKey stores the Jar on a gin.Context, see Middleware.
const jarContextKey = "dataprotection.cookies.jar"

// Jar writes and reads protected cookies on gin requests. Each cookie
// name gets its own protector, so a value set under one name is
// rejected when presented under another.
//
// A Jar is safe for concurrent use.
type Jar struct {
	provider protection.Provider
	opts     Options
	log      *logger.Logger

	mu         sync.RWMutex
	protectors map[string]protection.Protector
}

// NewJar creates a Jar over the given provider. Unset options are
// filled from defaults, then validated.
func NewJar(provider protection.Provider, opts Options) (*Jar, error) {
	if provider == nil {
		return nil, errors.InvalidArgument("provider", "must not be nil")
	}
	opts.ApplyDefaults()
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return &Jar{
		provider:   provider,
		opts:       opts,
		log:        logger.Get("cookies"),
		protectors: make(map[string]protection.Protector),
	}, nil
}

// Set protects value and writes it as a cookie on the response.
// The written value is base64url without padding.
func (j *Jar) Set(c *gin.Context, name string, value []byte) error {
	if err := validateName(name); err != nil {
		return err
	}
	p, err := j.protectorFor(c, name)
	if err != nil {
		return err
	}

	ctx, span := observability.StartSpan(c, observability.SpanProtect)
	defer span.End()
	observability.SetSpanAttribute(ctx, observability.AttrPayloadBytes, len(value))

	protected, err := p.Protect(value)
	if err != nil {
		observability.SetSpanError(ctx, err)
		return err
	}
	encoded := base64.RawURLEncoding.EncodeToString(protected)
	if len(name)+len(encoded) > maxCookieSize {
		err := errors.InvalidArgument("value",
			fmt.Sprintf("protected cookie exceeds %d bytes", maxCookieSize))
		observability.SetSpanError(ctx, err)
		return err
	}
	http.SetCookie(c.Writer, j.newCookie(name, encoded, j.opts.MaxAge))
	return nil
}

// Get reads the named cookie from the request and unprotects its
// value. A missing cookie reports http.ErrNoCookie; a cookie that
// fails to unprotect reports the underlying protection error and
// should be treated as absent by most callers.
func (j *Jar) Get(c *gin.Context, name string) ([]byte, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}
	ck, err := c.Request.Cookie(name)
	if err != nil {
		return nil, err
	}
	raw, err := base64.RawURLEncoding.DecodeString(ck.Value)
	if err != nil {
		return nil, errors.InvalidPayload("cookie value is not base64url")
	}
	p, err := j.protectorFor(c, name)
	if err != nil {
		return nil, err
	}

	ctx, span := observability.StartSpan(c, observability.SpanUnprotect)
	defer span.End()

	value, err := p.Unprotect(raw)
	if err != nil {
		observability.SetSpanError(ctx, err)
		j.log.Debug("rejecting protected cookie", logger.Fields(
			"cookie", name,
			logger.FieldError, err.Error(),
		))
		return nil, err
	}
	observability.SetSpanAttribute(ctx, observability.AttrPayloadBytes, len(value))
	return value, nil
}

// Delete writes an expired cookie so the browser drops the named one.
func (j *Jar) Delete(c *gin.Context, name string) error {
	if err := validateName(name); err != nil {
		return err
	}
	http.SetCookie(c.Writer, j.newCookie(name, "", -1))
	return nil
}

// Middleware stores the Jar on each request context so handlers can
// retrieve it with FromContext.
func (j *Jar) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(jarContextKey, j)
		c.Next()
	}
}

// FromContext returns the Jar installed by Middleware, if any.
func FromContext(c *gin.Context) (*Jar, bool) {
	v, ok := c.Get(jarContextKey)
	if !ok {
		return nil, false
	}
	j, ok := v.(*Jar)
	return j, ok
}

// protectorFor returns the cached protector for a cookie name,
// creating it on first use.
func (j *Jar) protectorFor(ctx context.Context, name string) (protection.Protector, error) {
	j.mu.RLock()
	p, ok := j.protectors[name]
	j.mu.RUnlock()
	if ok {
		return p, nil
	}

	j.mu.Lock()
	defer j.mu.Unlock()
	if p, ok := j.protectors[name]; ok {
		return p, nil
	}

	_, span := observability.StartSpan(ctx, observability.SpanCreateProtector)
	defer span.End()

	p, err := j.provider.CreateProtector(purposeRoot, name)
	if err != nil {
		return nil, err
	}
	j.protectors[name] = p
	return p, nil
}

func (j *Jar) newCookie(name, value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     j.opts.Path,
		Domain:   j.opts.Domain,
		MaxAge:   maxAge,
		Secure:   j.opts.Secure,
		HttpOnly: j.opts.HTTPOnly,
		SameSite: j.opts.sameSite(),
	}
}

func validateName(name string) error {
	v := validation.New().
		Required("name", name).
		MaxLength("name", name, maxNameLength).
		Pattern("name", name, namePattern)
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}
