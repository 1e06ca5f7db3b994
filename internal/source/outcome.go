package source

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strings"
	"syscall"

	"github.com/sells-group/outreach-cli/pkg/jina"
	"github.com/sells-group/outreach-cli/pkg/tavily"
)

// OutcomeKind tags the result of one adapter invocation.
type OutcomeKind string

const (
	OutcomeSuccess         OutcomeKind = "success"
	OutcomeNoResult        OutcomeKind = "no_result"
	OutcomeSourceError     OutcomeKind = "source_error"
	OutcomeBudgetExhausted OutcomeKind = "budget_exhausted"
)

// ErrorKind classifies a source failure. Failures are contained: the
// controller treats every kind as "this tier yielded nothing".
type ErrorKind string

const (
	ErrTimeout           ErrorKind = "timeout"
	ErrUnreachable       ErrorKind = "unreachable"
	ErrMalformedResponse ErrorKind = "malformed_response"
	ErrAuthFailure       ErrorKind = "auth_failure"
)

// Outcome is the typed result of one source query for one target.
// Spent counts the budget units actually consumed producing it; an
// OutcomeBudgetExhausted with Spent > 0 means the tier issued a real
// query before the denial.
type Outcome struct {
	Kind      OutcomeKind
	Content   string // raw text on OutcomeSuccess
	SourceURL string // where the content came from, when known
	ErrKind   ErrorKind
	Err       error
	Spent     int
}

func success(content, sourceURL string) Outcome {
	return Outcome{Kind: OutcomeSuccess, Content: content, SourceURL: sourceURL}
}

func noResult() Outcome {
	return Outcome{Kind: OutcomeNoResult}
}

func budgetExhausted() Outcome {
	return Outcome{Kind: OutcomeBudgetExhausted}
}

func sourceError(err error) Outcome {
	return Outcome{Kind: OutcomeSourceError, ErrKind: Classify(err), Err: err}
}

// Classify maps a raw client error to an ErrorKind. Unknown errors
// default to unreachable, which downstream treats the same as any
// other contained failure.
func Classify(err error) ErrorKind {
	if err == nil {
		return ErrUnreachable
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return ErrTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return ErrTimeout
	}

	var code int
	var tse *tavily.StatusError
	var jse *jina.StatusError
	switch {
	case errors.As(err, &tse):
		code = tse.Code
	case errors.As(err, &jse):
		code = jse.Code
	}
	switch {
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		return ErrAuthFailure
	case code == http.StatusRequestTimeout || code == http.StatusGatewayTimeout:
		return ErrTimeout
	case code != 0:
		return ErrUnreachable
	}

	if errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.ECONNABORTED) {
		return ErrUnreachable
	}

	// Decode failures from the client wrap json errors; match on message.
	msg := strings.ToLower(err.Error())
	for _, p := range []string{"unmarshal", "invalid character", "unexpected end of json"} {
		if strings.Contains(msg, p) {
			return ErrMalformedResponse
		}
	}

	return ErrUnreachable
}
