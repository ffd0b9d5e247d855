package mailer

import (
	"testing"
)

func TestGenerateOTPLengthAndDigits(t *testing.T) {
	for i := 0; i < 50; i++ {
		code, err := generateOTP(6)
		if err != nil {
			t.Fatalf("generateOTP returned error: %v", err)
		}
		if len(code) != 6 {
			t.Fatalf("expected 6 digit code, got %q", code)
		}
		for _, r := range code {
			if r < '0' || r > '9' {
				t.Fatalf("expected numeric code, got %q", code)
			}
		}
	}
}
