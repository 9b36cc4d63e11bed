// Package cookies writes and reads protected cookies on gin requests.
//
// A Jar pairs a data protection provider with cookie attributes. Every
// cookie name gets its own protector derived from the chain
// ("cookies", name), so values cannot be replayed across names, and
// values from a different process never unprotect at all when the
// provider is ephemeral.
//
//	provider, _ := protection.NewEphemeralProvider()
//	jar, _ := cookies.NewJar(provider, cookies.DefaultOptions())
//
//	engine.Use(jar.Middleware())
//	engine.GET("/login", func(c *gin.Context) {
//	    _ = jar.Set(c, "session", []byte(sessionID))
//	})
//
// Cookie values on the wire are base64url without padding. A cookie
// that fails to unprotect, because it was tampered with or minted by
// another process, surfaces the protection error; callers normally
// treat that the same as a missing cookie.
package cookies
