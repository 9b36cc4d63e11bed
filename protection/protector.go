package protection

// Provider creates protectors bound to a purpose chain. Two
// protectors with the same chain interoperate; protectors with
// different chains cannot read each other's payloads.
type Provider interface {
	// CreateProtector returns a protector for the given purpose.
	// Additional sub purposes refine the chain. Every segment must be
	// non empty.
	CreateProtector(purpose string, subPurposes ...string) (Protector, error)
}

// Protector protects and unprotects payloads under one purpose
// chain. A Protector is also a Provider: CreateProtector on it
// appends segments to its own chain.
type Protector interface {
	Provider

	// Protect encrypts and authenticates plaintext. The result
	// carries the framing needed to unprotect it later, bound to this
	// protector's purpose chain.
	Protect(plaintext []byte) ([]byte, error)

	// Unprotect reverses Protect. It fails for payloads produced
	// under a different purpose chain, a different key, or tampered
	// in any way.
	Unprotect(protectedData []byte) ([]byte, error)
}
