// Package keyring models rings of data protection keys and the
// providers that hand them out.
//
// The only implementation here is the ephemeral ring: one key, one
// process, no persistence. It backs workloads that protect data for
// their own lifetime only, such as self-contained tests or transient
// caches. Anything protected under an ephemeral ring is unreadable
// once the process exits, and unreadable by every other process
// including other instances of the same program.
package keyring
