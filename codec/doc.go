// Package codec carries wrappers across structured serialization
// boundaries with an explicit policy.
//
// [Options] is the side channel of a marshal or unmarshal call: whether the
// plaintext is represented as text or as raw bytes, which coders a decoded
// wrapper is bound to, and the context passed to info coders on either
// side. The plaintext is obtained through a single scoped access and
// written straight into the encoder; decoded staging bytes this package
// allocates are wiped once the new wrapper holds them.
//
// Wiping is best effort. Text decoded from JSON without escapes is a
// subslice of the caller's input and stays the caller's; escaped strings
// are unquoted into buffers owned by encoding/json.
//
// CBOR uses Core Deterministic Encoding (RFC 8949 §4.2), the same
// configuration for every call.
package codec
