package orchestrator

import (
	"errors"

	"newsbrief/news"
)

var (
	ErrEmptyTopic     = news.ErrEmptyTopic
	ErrInvalidRequest = errors.New("invalid request")
	ErrBusy           = errors.New("a summary is already running")
	ErrFetchArticles  = errors.New("could not fetch articles")
	ErrSummarization  = errors.New("summarization failed")
	ErrRunTimeout     = errors.New("summarization timed out")
	ErrCancelled      = errors.New("summarization cancelled")
)

// Error codes carried over the HTTP API so remote clients can recover the sentinel
const (
	CodeEmptyTopic     = "empty_topic"
	CodeInvalidRequest = "invalid_request"
	CodeBusy           = "busy"
	CodeFetchFailed    = "fetch_failed"
	CodeSummarization  = "summarization_failed"
	CodeTimeout        = "timeout"
	CodeCancelled      = "cancelled"
	CodeInternal       = "internal"
)

var codes = []struct {
	err  error
	code string
}{
	{ErrEmptyTopic, CodeEmptyTopic},
	{ErrInvalidRequest, CodeInvalidRequest},
	{ErrBusy, CodeBusy},
	{ErrFetchArticles, CodeFetchFailed},
	{ErrRunTimeout, CodeTimeout},
	{ErrCancelled, CodeCancelled},
	{ErrSummarization, CodeSummarization},
}

// ErrorCode classifies err into one of the Code constants
func ErrorCode(err error) string {
	for _, c := range codes {
		if errors.Is(err, c.err) {
			return c.code
		}
	}
	return CodeInternal
}

// ErrorForCode is the inverse of ErrorCode. Unknown codes return nil.
func ErrorForCode(code string) error {
	for _, c := range codes {
		if c.code == code {
			return c.err
		}
	}
	return nil
}

// UserMessage is the banner text shown for a failed run
func UserMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrEmptyTopic):
		return "Please enter a topic to search for news."
	case errors.Is(err, ErrInvalidRequest):
		return "Please choose a valid mode and analysis focus."
	case errors.Is(err, ErrBusy):
		return "A summary is already running. Please wait for it to finish."
	case errors.Is(err, ErrFetchArticles):
		return "Could not fetch articles. Check the news API key and try again."
	case errors.Is(err, ErrRunTimeout):
		return "Summarization timed out. The assistant did not finish in time."
	case errors.Is(err, ErrCancelled):
		return "The request was cancelled before the summary finished."
	case errors.Is(err, ErrSummarization):
		return "Summarization failed. The assistant could not complete the request."
	default:
		return "Something went wrong: " + err.Error()
	}
}
