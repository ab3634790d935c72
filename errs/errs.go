// Package errs defines the sentinel errors shared across the codec, section,
// packet, and channel packages.
//
// Callers should compare with errors.Is, since call sites wrap these with
// fmt.Errorf("%w: ...", errs.ErrX, ...) to attach context.
package errs

import "errors"

var (
	// Header / flag / wire format errors (decoder-fatal, report byte offset and packet index at the call site).
	ErrInvalidHeaderSize  = errors.New("usc: invalid header size")
	ErrInvalidHeaderFlags = errors.New("usc: invalid header flags")
	ErrInvalidMagic       = errors.New("usc: invalid magic number")
	ErrVersionUnsupported = errors.New("usc: unsupported version")
	ErrMalformedInput     = errors.New("usc: malformed input")
	ErrTruncatedPacket    = errors.New("usc: truncated packet")

	// Encoder-side errors.
	ErrTemplateBankOverflow = errors.New("usc: template bank overflow")
	ErrTooManySlots         = errors.New("usc: too many slots in template")
	ErrWindowNotStarted     = errors.New("usc: window not started")
	ErrWindowAlreadyStarted = errors.New("usc: window already started")
	ErrRowCountMismatch     = errors.New("usc: row count mismatch")
	ErrTemplateIDMismatch   = errors.New("usc: template id out of range")
	ErrParamCountMismatch   = errors.New("usc: parameter count does not match template arity")

	// Verification / roundtrip errors (harness-only, never produced by Encoder/Decoder proper).
	ErrRoundtripMismatch = errors.New("usc: roundtrip mismatch")

	// Compression backend errors.
	ErrUnsupportedCompression = errors.New("usc: unsupported compression type")
	ErrNoDictionaryTrained    = errors.New("usc: no trained dictionary available")

	// Container errors.
	ErrEmptyContainer = errors.New("usc: container has no packets")
)
