package audit

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"
)

// Signer produces tamper-evident signatures over audit events.
type Signer interface {
	// Sign computes the signature for an event's canonical form.
	Sign(event *Event) (string, error)

	// Verify reports whether an event's signature matches its content.
	Verify(event *Event) (bool, error)
}

// hmacSigner signs events with HMAC-SHA256 using a key derived from the
// gateway signing secret via HKDF-SHA256.
type hmacSigner struct {
	signingKey []byte
}

// NewSigner derives an audit signing key from the gateway signing secret.
// HKDF separates audit-signing key usage from credential-signing key usage.
// Info parameter: "audit-event-signing-v1" (versioned for future algorithm changes).
func NewSigner(signingSecret []byte) (Signer, error) {
	info := []byte("audit-event-signing-v1")
	kdf := hkdf.New(sha256.New, signingSecret, nil, info)

	signingKey := make([]byte, 32)
	if _, err := io.ReadFull(kdf, signingKey); err != nil {
		return nil, fmt.Errorf("failed to derive audit signing key: %w", err)
	}

	return &hmacSigner{signingKey: signingKey}, nil
}

// Sign computes the HMAC-SHA256 signature of the canonical event representation.
func (s *hmacSigner) Sign(event *Event) (string, error) {
	canonical, err := canonicalizeEvent(event)
	if err != nil {
		return "", err
	}

	mac := hmac.New(sha256.New, s.signingKey)
	mac.Write(canonical)
	return hex.EncodeToString(mac.Sum(nil)), nil
}

// Verify recomputes the signature and compares it in constant time.
func (s *hmacSigner) Verify(event *Event) (bool, error) {
	expected, err := s.Sign(event)
	if err != nil {
		return false, err
	}
	return hmac.Equal([]byte(expected), []byte(event.Signature)), nil
}

// canonicalizeEvent converts an event to a canonical byte representation for signing.
// Format: id || kind || subject || resource || action || granted || reason || payload || created_at
// Uses length-prefixed encoding for variable-length fields to prevent ambiguity.
func canonicalizeEvent(event *Event) ([]byte, error) {
	buf := make([]byte, 0, 512)

	buf = append(buf, event.ID[:]...)
	buf = appendLengthPrefixed(buf, []byte(string(event.Kind)))
	buf = appendLengthPrefixed(buf, []byte(event.Subject))
	buf = appendLengthPrefixed(buf, []byte(event.Resource))
	buf = appendLengthPrefixed(buf, []byte(event.Action))

	if event.Granted {
		buf = append(buf, 1)
	} else {
		buf = append(buf, 0)
	}

	buf = appendLengthPrefixed(buf, []byte(event.Reason))
	buf = appendLengthPrefixed(buf, []byte(event.Severity))

	if event.Payload != nil {
		payloadBytes, err := json.Marshal(event.Payload)
		if err != nil {
			return nil, fmt.Errorf("failed to serialize payload for signing: %w", err)
		}
		buf = appendLengthPrefixed(buf, payloadBytes)
	} else {
		buf = appendLengthPrefixed(buf, nil)
	}

	var ts [8]byte
	binary.BigEndian.PutUint64(ts[:], uint64(event.CreatedAt.UnixNano()))
	buf = append(buf, ts[:]...)

	return buf, nil
}

// appendLengthPrefixed appends a 4-byte big-endian length followed by the data.
func appendLengthPrefixed(buf, data []byte) []byte {
	var length [4]byte
	binary.BigEndian.PutUint32(length[:], uint32(len(data)))
	buf = append(buf, length[:]...)
	return append(buf, data...)
}
