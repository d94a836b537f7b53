package notion

import (
	"fmt"
	"time"

	"github.com/jomei/notionapi"
)

// emailFilter adds the "email" condition key that notionapi.PropertyFilter has no field
// for. The embedded filter keeps it a notionapi.Filter.
type emailFilter struct {
	notionapi.PropertyFilter
	Email *notionapi.TextFilterCondition `json:"email,omitempty"`
}

// EmailEqualsFilter matches rows whose email property equals email exactly.
func EmailEqualsFilter(property, email string) notionapi.Filter {
	return emailFilter{
		PropertyFilter: notionapi.PropertyFilter{Property: property},
		Email:          &notionapi.TextFilterCondition{Equals: email},
	}
}

func TitleProperty(content string) notionapi.TitleProperty {
	return notionapi.TitleProperty{
		Title: []notionapi.RichText{{Text: &notionapi.Text{Content: content}}},
	}
}

func EmailProperty(email string) notionapi.EmailProperty {
	return notionapi.EmailProperty{Email: email}
}

type DateValue struct {
	Start string `json:"start"`
}

// FormattedDateProperty is a date property whose start is sent as given.
// notionapi.Date always encodes RFC 3339 without fractional seconds.
type FormattedDateProperty struct {
	Date DateValue `json:"date"`
}

func (p FormattedDateProperty) GetID() string { return "" }

func (p FormattedDateProperty) GetType() notionapi.PropertyType {
	return notionapi.PropertyTypeDate
}

func DateProperty(t time.Time, layout string) FormattedDateProperty {
	return FormattedDateProperty{Date: DateValue{Start: t.Format(layout)}}
}

// APIError is a non-200 response from the Notion API. Body keeps the raw payload for logs.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
	Body       []byte
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("notion: HTTP %d %s: %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("notion: HTTP %d", e.StatusCode)
}
