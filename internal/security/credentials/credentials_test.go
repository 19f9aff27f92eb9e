package credentials

import (
	"testing"
	"time"
)

// Params chicos para que los tests no paguen el costo de producción.
var testParams = Params{Memory: 8 * 1024, Time: 1, Parallelism: 1, KeyLen: 32}

func TestHashPassword_DeterministicWithSameSalt(t *testing.T) {
	salt, err := GenerateSalt()
	if err != nil {
		t.Fatalf("GenerateSalt err: %v", err)
	}
	h1, err := HashPassword(testParams, "secret1", salt)
	if err != nil {
		t.Fatalf("HashPassword err: %v", err)
	}
	h2, err := HashPassword(testParams, "secret1", salt)
	if err != nil {
		t.Fatalf("HashPassword err: %v", err)
	}
	if h1 != h2 {
		t.Fatalf("hash not deterministic: %q vs %q", h1, h2)
	}
}

func TestHashPassword_DifferentSaltDifferentHash(t *testing.T) {
	s1, _ := GenerateSalt()
	s2, _ := GenerateSalt()
	if s1 == s2 {
		t.Fatal("two fresh salts are equal")
	}
	h1, _ := HashPassword(testParams, "secret1", s1)
	h2, _ := HashPassword(testParams, "secret1", s2)
	if h1 == h2 {
		t.Fatal("same hash for different salts")
	}
}

func TestValidatePassword(t *testing.T) {
	salt, _ := GenerateSalt()
	hash, _ := HashPassword(testParams, "secret1", salt)

	if !ValidatePassword(testParams, "secret1", hash, salt) {
		t.Fatal("correct password rejected")
	}
	if ValidatePassword(testParams, "secret2", hash, salt) {
		t.Fatal("wrong password accepted")
	}
	if ValidatePassword(testParams, "secret1", hash, "not-base64!!") {
		t.Fatal("bad salt accepted")
	}
}

func TestHashPassword_EmptyPassword(t *testing.T) {
	salt, _ := GenerateSalt()
	if _, err := HashPassword(testParams, "", salt); err == nil {
		t.Fatal("expected error for empty password")
	}
}

func TestGenerateOTP_SixDigits(t *testing.T) {
	for i := 0; i < 200; i++ {
		otp, err := GenerateOTP()
		if err != nil {
			t.Fatalf("GenerateOTP err: %v", err)
		}
		if len(otp.Code) != 6 {
			t.Fatalf("otp %q is not 6 digits", otp.Code)
		}
		if otp.Code[0] == '0' {
			t.Fatalf("otp %q would print with fewer digits", otp.Code)
		}
		for _, c := range otp.Code {
			if c < '0' || c > '9' {
				t.Fatalf("otp %q has non-digit %q", otp.Code, c)
			}
		}
	}
}

func TestGenerateOTP_Expiry(t *testing.T) {
	before := time.Now().UTC()
	otp, err := GenerateOTP()
	if err != nil {
		t.Fatalf("GenerateOTP err: %v", err)
	}
	after := time.Now().UTC()

	if otp.ExpiresAt.Before(before.Add(OTPTTL)) || otp.ExpiresAt.After(after.Add(OTPTTL)) {
		t.Fatalf("expiry %v not 30m from generation", otp.ExpiresAt)
	}
}

func TestEncryptValidateOTP_RoundTrip(t *testing.T) {
	salt, _ := GenerateSalt()
	otp, _ := GenerateOTP()

	secret, err := EncryptOTP(testParams, otp.Code, salt)
	if err != nil {
		t.Fatalf("EncryptOTP err: %v", err)
	}
	if !ValidateOTP(testParams, otp.Code, salt, secret) {
		t.Fatal("correct otp rejected")
	}
	if ValidateOTP(testParams, "000000", salt, secret) {
		t.Fatal("wrong otp accepted")
	}
}
