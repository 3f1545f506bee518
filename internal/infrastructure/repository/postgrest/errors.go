package postgrest

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
)

var errTransient = crerr.New("postgrest transient failure")

const (
	codeForeignKeyViolation = "23503"
	codeInvalidTextRep      = "22P02"
)

// APIError is the error envelope returned by PostgREST.
type APIError struct {
	StatusCode int    `json:"-"`
	Message    string `json:"message"`
	Code       string `json:"code"`
	Details    string `json:"details"`
	Hint       string `json:"hint"`
}

func (e *APIError) Error() string {
	var b strings.Builder
	b.WriteString(e.Message)
	if b.Len() == 0 {
		b.WriteString(http.StatusText(e.StatusCode))
	}
	if e.Code != "" {
		fmt.Fprintf(&b, " (code=%s)", e.Code)
	}
	if e.Details != "" {
		fmt.Fprintf(&b, " details=%s", e.Details)
	}
	if e.Hint != "" {
		fmt.Fprintf(&b, " hint=%s", e.Hint)
	}
	return b.String()
}

func parseAPIError(statusCode int, body []byte) *APIError {
	apiErr := &APIError{StatusCode: statusCode}
	if err := sonic.Unmarshal(body, apiErr); err != nil || apiErr.Message == "" {
		apiErr.Message = abbreviateBody(body)
	}
	return apiErr
}

func apiErrorCode(err error) string {
	var apiErr *APIError
	if stderrors.As(err, &apiErr) {
		return apiErr.Code
	}
	return ""
}

func isForeignKeyViolation(err error) bool {
	return apiErrorCode(err) == codeForeignKeyViolation
}

func isInvalidUUID(err error) bool {
	return apiErrorCode(err) == codeInvalidTextRep
}

func isRetryableStatus(statusCode int) bool {
	return statusCode == http.StatusRequestTimeout ||
		statusCode == http.StatusTooManyRequests ||
		statusCode >= http.StatusInternalServerError
}

func isCircuitFailure(err error) bool {
	return err != nil && stderrors.Is(err, errTransient)
}

func abbreviateBody(body []byte) string {
	text := strings.TrimSpace(string(body))
	if len(text) > 512 {
		return text[:512] + "...(truncated)"
	}
	return text
}
