package waitlist

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"time"
	"unicode"

	"github.com/superblogger/waitlist/internal/models"
)

// CreateWaitlistEntryRequest is the POST /api/waitlist body. It carries no gin `binding`
// tags: the `validate` tags run in the service, after the fields are trimmed.
type CreateWaitlistEntryRequest struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"required,waitlist_email"`
}

var errSubmissionNotObject = errors.New("waitlist submission must be a JSON object")

// UnmarshalJSON rejects a literal null body, which would otherwise decode into an empty
// request and be reported as missing fields.
func (req *CreateWaitlistEntryRequest) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return errSubmissionNotObject
	}

	type fields CreateWaitlistEntryRequest
	return json.Unmarshal(data, (*fields)(req))
}

func (req *CreateWaitlistEntryRequest) trimmed() *CreateWaitlistEntryRequest {
	if req == nil {
		return &CreateWaitlistEntryRequest{}
	}
	return &CreateWaitlistEntryRequest{
		Name:  strings.TrimFunc(req.Name, isTrimmable),
		Email: strings.TrimFunc(req.Email, isTrimmable),
	}
}

func isTrimmable(r rune) bool {
	return unicode.IsSpace(r) || r == '\uFEFF'
}

func ToWaitlistEntryModel(req *CreateWaitlistEntryRequest, signedUpAt time.Time) *models.WaitlistEntry {
	if req == nil {
		return nil
	}
	return &models.WaitlistEntry{
		Name:       req.Name,
		Email:      req.Email,
		SignedUpAt: signedUpAt,
	}
}
