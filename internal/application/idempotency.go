package application

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"
)

// Idempotency keys are deterministic functions of (booking, operation kind,
// amount in minor units), so automatic client retries and at-least-once
// command delivery never produce duplicate charges or refunds. The canonical
// string is hashed in one step; the operation kind participates in the hash
// so keys cannot collide across operations on the same booking.

type Operation string

const (
	OpAuthorize Operation = "authorize"
	OpCapture   Operation = "capture"
	OpRelease   Operation = "release"
	OpRefund    Operation = "refund"
	OpLateFee   Operation = "late_fee"
)

func idempotencyKey(op Operation, parts ...string) string {
	canonical := string(op) + ":" + strings.Join(parts, ":")
	sum := sha256.Sum256([]byte(canonical))
	return hex.EncodeToString(sum[:])
}

func AuthorizeKey(bookingID string, amountMinor int64) string {
	return idempotencyKey(OpAuthorize, bookingID, strconv.FormatInt(amountMinor, 10))
}

func CaptureKey(bookingID string, amountMinor int64) string {
	return idempotencyKey(OpCapture, bookingID, strconv.FormatInt(amountMinor, 10))
}

func ReleaseKey(bookingID string) string {
	return idempotencyKey(OpRelease, bookingID)
}

func RefundKey(bookingID string, amountMinor int64) string {
	return idempotencyKey(OpRefund, bookingID, strconv.FormatInt(amountMinor, 10))
}

// LateFeeKey hashes the canonical late-fee intent
// "late_fee:{bookingID}:{paymentRef}:{amountMinor}".
func LateFeeKey(bookingID, paymentRef string, amountMinor int64) string {
	return idempotencyKey(OpLateFee, bookingID, paymentRef, strconv.FormatInt(amountMinor, 10))
}
