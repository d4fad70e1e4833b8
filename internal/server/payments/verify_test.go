package payments

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"testing"
)

func sign(secret, orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

func TestVerifySignature_Valid(t *testing.T) {
	t.Parallel()

	sig := sign("key-secret", "order_abc", "pay_xyz")
	if !VerifySignature("order_abc", "pay_xyz", sig, "key-secret") {
		t.Fatalf("expected valid signature to verify")
	}
}

func TestVerifySignature_AnyChangedInputFails(t *testing.T) {
	t.Parallel()

	sig := sign("key-secret", "order_abc", "pay_xyz")

	tests := []struct {
		name      string
		orderID   string
		paymentID string
		secret    string
	}{
		{"different order", "order_other", "pay_xyz", "key-secret"},
		{"different payment", "order_abc", "pay_other", "key-secret"},
		{"different secret", "order_abc", "pay_xyz", "other-secret"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if VerifySignature(tc.orderID, tc.paymentID, sig, tc.secret) {
				t.Fatalf("expected verification to fail")
			}
		})
	}
}

func TestVerifySignature_ForgedSignature(t *testing.T) {
	t.Parallel()

	if VerifySignature("order_abc", "pay_xyz", "deadbeef", "key-secret") {
		t.Fatalf("forged signature must be rejected")
	}
	if VerifySignature("order_abc", "pay_xyz", "", "key-secret") {
		t.Fatalf("empty signature must be rejected")
	}
}

func TestVerifySignature_SeparatorNotAmbiguous(t *testing.T) {
	t.Parallel()

	// "a|b" + "c" and "a" + "b|c" must not collide
	sig := sign("s", "a|b", "c")
	if VerifySignature("a", "b|c", sig, "s") {
		t.Fatalf("signature over shifted separator must not verify")
	}
}
