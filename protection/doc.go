// Package protection is the top level API for protecting payloads.
//
// A Provider creates Protectors bound to purposes; a Protector
// encrypts and authenticates payloads so that only a protector with
// the same purpose chain, backed by the same key, can read them back:
//
//	provider, err := protection.NewEphemeralProvider()
//	if err != nil {
//	    return err
//	}
//	protector, err := provider.CreateProtector("session-tokens")
//	if err != nil {
//	    return err
//	}
//	protected, err := protector.Protect([]byte("payload"))
//	// ...
//	payload, err := protector.Unprotect(protected)
//
// The ephemeral provider keeps its key material in process memory
// only. It is the right choice when protected payloads are consumed
// within the same process run and must become unreadable afterwards.
//
// Failures during Unprotect are deliberately coarse. Malformed
// framing reports INVALID_PAYLOAD and an unknown key reports
// KEY_NOT_FOUND, since both are visible in the clear; but tampering,
// a wrong purpose and a foreign key all report UNPROTECT_FAILED so
// the error cannot be used as a decryption oracle.
package protection
