// Package datawrapper holds sensitive bytes in memory only in an encoded
// form and exposes the plaintext to callers for the duration of a scoped
// callback.
//
// A [Wrapper] owns a secure allocation (memguard locked memory for
// non-empty values) holding the output of an encode transform. Access goes
// through [MapData] and its variants: the stored bytes are decoded into a
// fresh transient buffer, the callback runs, and the transient buffer is
// zeroed before the call returns, whether the callback returned normally,
// failed, or panicked.
//
// The default transform XORs the data with a random key of the same
// length, generated per wrapper. This is obfuscation, not encryption: it
// keeps the plaintext from sitting verbatim in memory, nothing more.
// Callers that persist the encoded form should supply their own coders
// (see the crypto package for a keyed stream coder).
//
// Only memory the package allocates itself is wiped. Source slices passed
// to [FromBytes], strings, and anything the callback copies the plaintext
// into remain the caller's responsibility.
package datawrapper
