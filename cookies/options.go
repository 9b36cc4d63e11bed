package cookies

import (
	"net/http"

	"github.com/Kagamine/DataProtection/errors"
	"github.com/Kagamine/DataProtection/validation"
)

// SameSite attribute values accepted by Options.
const (
	SameSiteLax    = "lax"
	SameSiteStrict = "strict"
	SameSiteNone   = "none"
)

// maxAgeCap is 400 days in seconds, the longest lifetime modern
// browsers honor before truncating the Expires/Max-Age attribute.
const maxAgeCap = 400 * 24 * 60 * 60

// Options control the attributes written on every cookie a Jar sets.
// The zero value is not usable directly; start from DefaultOptions or
// let NewJar fill the gaps via ApplyDefaults.
type Options struct {
	// Path scopes the cookie to a URL prefix. Defaults to "/".
	Path string `json:"path" validate:"required"`

	// Domain scopes the cookie to a host, without a leading dot.
	// Empty means host-only.
	Domain string `json:"domain" validate:"omitempty,hostname_rfc1123"`

	// MaxAge is the cookie lifetime in seconds. Zero makes a session
	// cookie that lives until the browser closes.
	MaxAge int `json:"max_age" validate:"min=0,max=34560000"`

	// Secure restricts the cookie to HTTPS connections.
	Secure bool `json:"secure"`

	// HTTPOnly hides the cookie from client-side scripts.
	HTTPOnly bool `json:"http_only"`

	// SameSite is one of "lax", "strict" or "none". Defaults to "lax".
	SameSite string `json:"same_site" validate:"omitempty,oneof=lax strict none"`
}

// DefaultOptions returns the recommended attribute set for protected
// cookies: host-only, HTTPS-only, hidden from scripts, SameSite=Lax,
// session lifetime.
func DefaultOptions() Options {
	return Options{
		Path:     "/",
		Secure:   true,
		HTTPOnly: true,
		SameSite: SameSiteLax,
	}
}

// ApplyDefaults fills Path and SameSite when unset. The boolean
// attributes are left alone so a caller can deliberately disable them.
func (o *Options) ApplyDefaults() {
	if o.Path == "" {
		o.Path = "/"
	}
	if o.SameSite == "" {
		o.SameSite = SameSiteLax
	}
}

// Validate checks the options against their field constraints.
func (o *Options) Validate() error {
	if err := validation.Validate(o); err != nil {
		return err
	}
	// Browsers reject SameSite=None cookies sent over plain HTTP.
	if o.SameSite == SameSiteNone && !o.Secure {
		return errors.Validation("same_site: none requires the secure attribute")
	}
	return nil
}

func (o *Options) sameSite() http.SameSite {
	switch o.SameSite {
	case SameSiteStrict:
		return http.SameSiteStrictMode
	case SameSiteNone:
		return http.SameSiteNoneMode
	default:
		return http.SameSiteLaxMode
	}
}
