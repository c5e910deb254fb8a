package model

import (
	"errors"
	"testing"
)

func TestParseBookingStatusNormalizesCase(t *testing.T) {
	cases := map[string]BookingStatus{
		"PENDING":    BookingPending,
		"pending":    BookingPending,
		"Pending":    BookingPending,
		" approved ": BookingApproved,
		"Rejected":   BookingRejected,
		"cancelled":  BookingCancelled,
	}
	for raw, want := range cases {
		got, err := ParseBookingStatus(raw)
		if err != nil {
			t.Fatalf("parse %q: %v", raw, err)
		}
		if got != want {
			t.Fatalf("parse %q = %s, want %s", raw, got, want)
		}
	}
}

func TestParseBookingStatusRejectsUnknown(t *testing.T) {
	for _, raw := range []string{"", "confirmed", "PAID"} {
		if _, err := ParseBookingStatus(raw); !errors.Is(err, ErrUnknownStatus) {
			t.Fatalf("parse %q err = %v, want ErrUnknownStatus", raw, err)
		}
	}
}

func TestStatusProperties(t *testing.T) {
	if !BookingApproved.HoldsOccupancy() {
		t.Fatalf("approved must hold occupancy")
	}
	for _, s := range []BookingStatus{BookingPending, BookingRejected, BookingCancelled} {
		if s.HoldsOccupancy() {
			t.Fatalf("%s must not hold occupancy", s)
		}
	}
	if BookingPending.Terminal() || BookingApproved.Terminal() {
		t.Fatalf("pending/approved must not be terminal")
	}
	if !BookingRejected.Terminal() || !BookingCancelled.Terminal() {
		t.Fatalf("rejected/cancelled must be terminal")
	}
}

func TestParseRoleAndGender(t *testing.T) {
	if r, err := ParseRole("admin"); err != nil || r != RoleAdmin {
		t.Fatalf("parse role admin = %v, %v", r, err)
	}
	if _, err := ParseRole("owner"); !errors.Is(err, ErrUnknownRole) {
		t.Fatalf("want ErrUnknownRole")
	}
	if g, err := ParseGenderPolicy("Mixed"); err != nil || g != GenderMixed {
		t.Fatalf("parse gender Mixed = %v, %v", g, err)
	}
	if _, err := ParseGenderPolicy("other"); !errors.Is(err, ErrUnknownGenderPolicy) {
		t.Fatalf("want ErrUnknownGenderPolicy")
	}
}
