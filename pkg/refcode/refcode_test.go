package refcode

import (
	"encoding/base64"
	"errors"
	"testing"
)

const testKey = "lfQVRuulcL2iOhOJ2r8BYTweoSKwVAJnIF9U+AL+M60="

func TestSealOpenRoundTrip(t *testing.T) {
	sealer, err := NewSealer(testKey)
	if err != nil {
		t.Fatalf("NewSealer: %v", err)
	}

	code, err := sealer.Seal("unit-42", "66a1f77bcf86cd7994390000")
	if err != nil {
		t.Fatalf("Seal: %v", err)
	}

	unitID, bookingID, err := sealer.Open(code)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if unitID != "unit-42" || bookingID != "66a1f77bcf86cd7994390000" {
		t.Errorf("Open = (%q, %q), want original ids", unitID, bookingID)
	}
}

func TestSealProducesDistinctCodes(t *testing.T) {
	sealer, err := NewSealer(testKey)
	if err != nil {
		t.Fatalf("NewSealer: %v", err)
	}

	a, _ := sealer.Seal("unit-1", "booking-1")
	b, _ := sealer.Seal("unit-1", "booking-1")
	if a == b {
		t.Error("two seals of the same payload produced identical codes")
	}
}

func TestOpenRejectsGarbage(t *testing.T) {
	sealer, err := NewSealer(testKey)
	if err != nil {
		t.Fatalf("NewSealer: %v", err)
	}

	for _, code := range []string{"", "not-base64!!", "AAAA", base64.RawURLEncoding.EncodeToString([]byte("short"))} {
		if _, _, err := sealer.Open(code); !errors.Is(err, ErrInvalidCode) {
			t.Errorf("Open(%q) error = %v, want ErrInvalidCode", code, err)
		}
	}
}

func TestOpenRejectsTamperedCode(t *testing.T) {
	sealer, err := NewSealer(testKey)
	if err != nil {
		t.Fatalf("NewSealer: %v", err)
	}

	code, err := sealer.Seal("unit-1", "booking-1")
	if err != nil {
		t.Fatalf("Seal: %v", err)
	}

	raw, _ := base64.RawURLEncoding.DecodeString(code)
	raw[len(raw)-1] ^= 0xff
	tampered := base64.RawURLEncoding.EncodeToString(raw)

	if _, _, err := sealer.Open(tampered); !errors.Is(err, ErrInvalidCode) {
		t.Errorf("Open(tampered) error = %v, want ErrInvalidCode", err)
	}
}

func TestNewSealerRejectsBadKeys(t *testing.T) {
	if _, err := NewSealer("!!not base64!!"); err == nil {
		t.Error("expected error for non-base64 key")
	}
	short := base64.StdEncoding.EncodeToString([]byte("tooshort"))
	if _, err := NewSealer(short); err == nil {
		t.Error("expected error for short key")
	}
}
