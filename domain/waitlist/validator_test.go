package waitlist

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	apperrors "github.com/superblogger/waitlist/pkg/errors"
)

func TestValidator_Validate(t *testing.T) {
	v := NewValidator()

	cases := []struct {
		name    string
		req     *CreateWaitlistEntryRequest
		wantMsg string
	}{
		{name: "nil request", req: nil, wantMsg: apperrors.MessageFieldsRequired},
		{name: "missing name", req: &CreateWaitlistEntryRequest{Email: "ada@example.com"}, wantMsg: apperrors.MessageFieldsRequired},
		{name: "missing email", req: &CreateWaitlistEntryRequest{Name: "Ada"}, wantMsg: apperrors.MessageFieldsRequired},
		{name: "whitespace name", req: &CreateWaitlistEntryRequest{Name: "   ", Email: "ada@example.com"}, wantMsg: apperrors.MessageFieldsRequired},
		{name: "required wins over malformed email", req: &CreateWaitlistEntryRequest{Email: "not-an-email"}, wantMsg: apperrors.MessageFieldsRequired},
		{name: "no at sign", req: &CreateWaitlistEntryRequest{Name: "Ada", Email: "ada.example.com"}, wantMsg: apperrors.MessageInvalidEmail},
		{name: "no tld dot", req: &CreateWaitlistEntryRequest{Name: "Ada", Email: "ada@example"}, wantMsg: apperrors.MessageInvalidEmail},
		{name: "inner whitespace", req: &CreateWaitlistEntryRequest{Name: "Ada", Email: "ada lovelace@example.com"}, wantMsg: apperrors.MessageInvalidEmail},
		{name: "no-break space", req: &CreateWaitlistEntryRequest{Name: "Ada", Email: "ada\u00a0x@example.com"}, wantMsg: apperrors.MessageInvalidEmail},
		{name: "vertical tab", req: &CreateWaitlistEntryRequest{Name: "Ada", Email: "ada\vx@example.com"}, wantMsg: apperrors.MessageInvalidEmail},
		{name: "line separator", req: &CreateWaitlistEntryRequest{Name: "Ada", Email: "ada@exa\u2028mple.com"}, wantMsg: apperrors.MessageInvalidEmail},
		{name: "byte order mark", req: &CreateWaitlistEntryRequest{Name: "Ada", Email: "ada@example.\ufeffcom"}, wantMsg: apperrors.MessageInvalidEmail},
		{name: "ideographic space", req: &CreateWaitlistEntryRequest{Name: "Ada", Email: "ada\u3000x@example.com"}, wantMsg: apperrors.MessageInvalidEmail},
		{name: "narrow no-break space", req: &CreateWaitlistEntryRequest{Name: "Ada", Email: "ada\u202fx@example.com"}, wantMsg: apperrors.MessageInvalidEmail},
		{name: "ogham space mark", req: &CreateWaitlistEntryRequest{Name: "Ada", Email: "ada\u1680x@example.com"}, wantMsg: apperrors.MessageInvalidEmail},
		{name: "en quad", req: &CreateWaitlistEntryRequest{Name: "Ada", Email: "ada\u2000x@example.com"}, wantMsg: apperrors.MessageInvalidEmail},
		{name: "two at signs", req: &CreateWaitlistEntryRequest{Name: "Ada", Email: "a@b@example.com"}, wantMsg: apperrors.MessageInvalidEmail},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := v.Validate(tc.req)
			require.Error(t, err)
			assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeInvalidRequest))
			assert.Equal(t, tc.wantMsg, apperrors.GetHumanReadableMessage(err))
		})
	}
}

func TestValidator_ValidateTrims(t *testing.T) {
	clean, err := NewValidator().Validate(&CreateWaitlistEntryRequest{Name: "  Ada Lovelace ", Email: " ada@example.com\n"})
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", clean.Name)
	assert.Equal(t, "ada@example.com", clean.Email)
}

func TestValidator_ValidateTrimsUnicodeWhitespace(t *testing.T) {
	clean, err := NewValidator().Validate(&CreateWaitlistEntryRequest{Name: "\u00a0Ada", Email: "\ufeffada@example.com\u3000"})
	require.NoError(t, err)
	assert.Equal(t, "Ada", clean.Name)
	assert.Equal(t, "ada@example.com", clean.Email)
}

func TestValidator_AcceptsNonWhitespaceUnicode(t *testing.T) {
	_, err := NewValidator().Validate(&CreateWaitlistEntryRequest{Name: "Zoë", Email: "zoë@exämple.com"})
	assert.NoError(t, err)
}
