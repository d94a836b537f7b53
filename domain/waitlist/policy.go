package waitlist

import (
	"fmt"
	"strings"
)

// QueryErrorPolicy decides what a failed duplicate check does to the submission.
type QueryErrorPolicy string

const (
	// QueryErrorProceed treats the failure as "no known duplicate" and writes anyway.
	QueryErrorProceed QueryErrorPolicy = "proceed"
	// QueryErrorAbort fails the submission with an unexpected error.
	QueryErrorAbort QueryErrorPolicy = "abort"
)

func ParseQueryErrorPolicy(raw string) (QueryErrorPolicy, error) {
	switch policy := QueryErrorPolicy(strings.ToLower(strings.TrimSpace(raw))); policy {
	case "", QueryErrorProceed:
		return QueryErrorProceed, nil
	case QueryErrorAbort:
		return QueryErrorAbort, nil
	default:
		return "", fmt.Errorf("unknown query error policy %q", raw)
	}
}
