package models

import (
	"testing"

	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		name    string
		current string
		initial string
		want    string
	}{
		{"full lot", "100", "100", StatusAvailable},
		{"above low threshold", "26", "100", StatusAvailable},
		{"exactly 25 percent", "25", "100", StatusLow},
		{"between thresholds", "15", "100", StatusLow},
		{"exactly 10 percent", "10", "100", StatusCritical},
		{"below critical threshold", "5", "100", StatusCritical},
		{"zero stock", "0", "100", StatusEmpty},
		{"negative stock", "-1", "100", StatusEmpty},
		{"zero initial with stock", "5", "0", StatusCritical},
		{"zero initial zero stock", "0", "0", StatusEmpty},
		{"fractional boundary", "0.1", "1", StatusCritical},
		{"just above fractional boundary", "0.101", "1", StatusLow},
		{"restocked past nominal", "150", "100", StatusAvailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := StatusFor(dec(tt.current), dec(tt.initial))
			if got != tt.want {
				t.Errorf("StatusFor(%s, %s) = %q, want %q", tt.current, tt.initial, got, tt.want)
			}
		})
	}
}

func TestComputeStatus(t *testing.T) {
	r := &Resource{InitialStock: dec("100"), CurrentStock: dec("100")}
	r.ComputeStatus()
	if r.Status != StatusAvailable {
		t.Fatalf("Status = %q, want %q", r.Status, StatusAvailable)
	}

	r.CurrentStock = dec("8")
	r.ComputeStatus()
	if r.Status != StatusCritical {
		t.Fatalf("Status = %q, want %q", r.Status, StatusCritical)
	}
}

func TestIsValidRole(t *testing.T) {
	for _, role := range []string{RoleResearcher, RoleAdmin, RoleManager} {
		if !IsValidRole(role) {
			t.Errorf("IsValidRole(%q) = false, want true", role)
		}
	}
	if IsValidRole("superuser") {
		t.Error("IsValidRole(superuser) = true, want false")
	}
}

func TestUserToResponseHidesPassword(t *testing.T) {
	u := &User{ID: 1, Email: "user@biotech.com", PasswordHash: "secret", FullName: "User", Role: RoleResearcher}
	resp := u.ToResponse()
	if resp.Email != u.Email || resp.FullName != u.FullName || resp.Role != u.Role {
		t.Error("ToResponse dropped profile fields")
	}
}
