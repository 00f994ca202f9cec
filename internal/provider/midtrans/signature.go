package midtrans

import (
	"crypto/sha512"
	"encoding/hex"
	"strings"
)

// Signature computes the notification digest Midtrans sends alongside every
// webhook: SHA-512 over the concatenation order_id + status_code +
// gross_amount + server key, hex encoded.
func Signature(orderID, statusCode, grossAmount, serverKey string) string {
	sum := sha512.Sum512([]byte(orderID + statusCode + grossAmount + serverKey))
	return hex.EncodeToString(sum[:])
}

// VerifySignature checks a payload's signature_key. Hex compare is
// case-insensitive.
func VerifySignature(orderID, statusCode, grossAmount, serverKey, signatureKey string) bool {
	return strings.EqualFold(Signature(orderID, statusCode, grossAmount, serverKey), signatureKey)
}
