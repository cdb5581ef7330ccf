package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestCanonicalEmail(t *testing.T) {
	require.Equal(t, "a@x.com", CanonicalEmail("  A@X.COM "))
	require.Equal(t, "lead@example.com", CanonicalEmail("Lead@Example.Com"))
	require.Equal(t, "", CanonicalEmail("   "))
}

func TestHasPendingOTP(t *testing.T) {
	var nilLead *Lead
	require.False(t, nilLead.HasPendingOTP())

	lead := &Lead{}
	require.False(t, lead.HasPendingOTP())

	code := "482913"
	expiry := time.Now().Add(10 * time.Minute)
	lead.OTP = &code
	lead.OTPExpiresAt = &expiry
	require.True(t, lead.HasPendingOTP())
}

func TestBeforeSaveEnforcesOTPPairing(t *testing.T) {
	code := "482913"
	expiry := time.Now().Add(10 * time.Minute)

	lead := &Lead{OTP: &code}
	require.Error(t, lead.BeforeSave(nil))

	lead = &Lead{OTPExpiresAt: &expiry}
	require.Error(t, lead.BeforeSave(nil))

	lead = &Lead{OTP: &code, OTPExpiresAt: &expiry}
	require.NoError(t, lead.BeforeSave(nil))

	lead = &Lead{}
	require.NoError(t, lead.BeforeSave(nil))
}
