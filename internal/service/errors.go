package service

import (
	"errors"
	"fmt"
)

// ErrorKind is the closed set of ways an analysis can fail.
type ErrorKind int

const (
	KindNoKeywords ErrorKind = iota + 1
	KindEmptyResult
	KindProviderFailure
)

func (k ErrorKind) String() string {
	switch k {
	case KindNoKeywords:
		return "no_keywords"
	case KindEmptyResult:
		return "empty_result"
	case KindProviderFailure:
		return "provider_failure"
	default:
		return "unknown"
	}
}

const (
	msgNoKeywords   = "Please enter at least one keyword."
	msgEmptyResult  = "❌ No trend data returned. Try a longer timeframe (e.g., 'today 12-m') or different keywords."
	msgTruncateNote = " Note: only the first 5 keywords are used."
	msgTruncated    = "ℹ️ Only the first 5 keywords were used."
	msgFailure      = "Something went wrong: %v"
)

// AnalysisError is returned by Analyze when no time series is available.
// Detail is the message shown to the user.
type AnalysisError struct {
	Kind   ErrorKind
	Detail string
	Err    error
}

func (e *AnalysisError) Error() string {
	return e.Detail
}

func (e *AnalysisError) Unwrap() error {
	return e.Err
}

func newNoKeywords() *AnalysisError {
	return &AnalysisError{Kind: KindNoKeywords, Detail: msgNoKeywords}
}

func newEmptyResult(truncated bool) *AnalysisError {
	detail := msgEmptyResult
	if truncated {
		detail += msgTruncateNote
	}
	return &AnalysisError{Kind: KindEmptyResult, Detail: detail}
}

func newProviderFailure(err error) *AnalysisError {
	return &AnalysisError{Kind: KindProviderFailure, Detail: fmt.Sprintf(msgFailure, err), Err: err}
}

// KindOf returns the kind of err, or 0 when err is not an AnalysisError.
func KindOf(err error) ErrorKind {
	var ae *AnalysisError
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return 0
}
