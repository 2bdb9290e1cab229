package extraction

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtract_RuleOrder(t *testing.T) {
	testCases := []struct {
		name         string
		text         string
		limits       Limits
		expectedCode string
		expectedRule string
		expectOK     bool
	}{
		{
			name:         "labeled verification code beats fallback",
			text:         "Your verification code: 123456. This expires in 2024.",
			limits:       MailLimits,
			expectedCode: "123456",
			expectedRule: "verification_code_label",
			expectOK:     true,
		},
		{
			name:         "launch code with keyword before digits",
			text:         "GitHub launch code 482913",
			limits:       MailLimits,
			expectedCode: "482913",
			expectedRule: "launch_code_before",
			expectOK:     true,
		},
		{
			name:         "launch code with digits before keyword",
			text:         "482913 is your GitHub launch code",
			limits:       MailLimits,
			expectedCode: "482913",
			expectedRule: "launch_code_after",
			expectOK:     true,
		},
		{
			name:         "code label",
			text:         "code: 7741",
			limits:       MailLimits,
			expectedCode: "7741",
			expectedRule: "code_label",
			expectOK:     true,
		},
		{
			name:         "is your phrasing",
			text:         "90210 is your one-time password",
			limits:       MailLimits,
			expectedCode: "90210",
			expectedRule: "is_your",
			expectOK:     true,
		},
		{
			name:         "enter phrasing",
			text:         "Please enter 556677 on the device",
			limits:       MailLimits,
			expectedCode: "556677",
			expectedRule: "enter",
			expectOK:     true,
		},
		{
			name:         "to verify phrasing",
			text:         "Use 8812 to verify your device",
			limits:       MailLimits,
			expectedCode: "8812",
			expectedRule: "to_verify",
			expectOK:     true,
		},
		{
			name:         "bare digit run fallback",
			text:         "123456",
			limits:       SMSLimits,
			expectedCode: "123456",
			expectedRule: "digit_run",
			expectOK:     true,
		},
		{
			name:     "no digits at all",
			text:     "please verify your account",
			limits:   MailLimits,
			expectOK: false,
		},
		{
			name:     "empty text",
			text:     "",
			limits:   MailLimits,
			expectOK: false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			code, rule, ok := Extract(tc.text, tc.limits)
			assert.Equal(t, tc.expectOK, ok)
			if tc.expectOK {
				assert.Equal(t, tc.expectedCode, code)
				assert.Equal(t, tc.expectedRule, rule)
			} else {
				assert.Empty(t, code)
			}
		})
	}
}

func TestExtract_LengthLimits(t *testing.T) {
	// SMS context only accepts standard OTP lengths.
	_, _, ok := Extract("123", SMSLimits)
	assert.False(t, ok, "3-digit run must be rejected under SMS limits")

	code, _, ok := Extract("1234", SMSLimits)
	assert.True(t, ok)
	assert.Equal(t, "1234", code)

	// Mail context accepts short codes down to two digits.
	code, _, ok = Extract("code: 42", MailLimits)
	assert.True(t, ok)
	assert.Equal(t, "42", code)

	_, _, ok = Extract("9", MailLimits)
	assert.False(t, ok, "single digit is below every threshold")

	// Runs longer than ten digits are not verification codes.
	_, _, ok = Extract("12345678901234", MailLimits)
	assert.False(t, ok)
}

func TestExtract_InvalidCandidateFallsThrough(t *testing.T) {
	// The code label captures "1", which fails mail validation; the enter
	// rule must then still get its chance.
	code, rule, ok := Extract("code: 1 then enter 567890", MailLimits)
	assert.True(t, ok)
	assert.Equal(t, "567890", code)
	assert.Equal(t, "enter", rule)
}
