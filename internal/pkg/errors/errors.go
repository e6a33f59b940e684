package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound is a generic sentinel for missing resources.
	ErrNotFound = stderrors.New("not found")
	// ErrInvalidArgument is a generic sentinel for invalid input outside the pipeline.
	ErrInvalidArgument = stderrors.New("invalid argument")

	ErrUnreadableDocument    = stderrors.New("unreadable document")
	ErrEmptyDocument         = stderrors.New("empty document")
	ErrExtractionParse       = stderrors.New("extraction parse error")
	ErrExtractionEmptyResult = stderrors.New("extraction produced no topics")
	ErrExtractionUnavailable = stderrors.New("extraction unavailable")
	ErrInvalidRequest        = stderrors.New("invalid request")
	ErrGenerationParse       = stderrors.New("generation parse error")
	ErrGenerationUnavailable = stderrors.New("generation unavailable")
	ErrRender                = stderrors.New("render error")
)

// PipelineError carries one of the sentinels above plus the context needed to
// diagnose it: the document name, the offending field, or a snippet of the raw
// model response.
type PipelineError struct {
	Kind    error
	Source  string
	Field   string
	Snippet string
	Err     error
}

func (e *PipelineError) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind.Error())
	if e.Source != "" {
		fmt.Fprintf(&b, " (source %q)", e.Source)
	}
	if e.Field != "" {
		fmt.Fprintf(&b, " (field %q)", e.Field)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	if e.Snippet != "" {
		fmt.Fprintf(&b, " [response: %q]", e.Snippet)
	}
	return b.String()
}

func (e *PipelineError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// New wraps err under kind.
func New(kind error, err error) *PipelineError {
	return &PipelineError{Kind: kind, Err: err}
}

func (e *PipelineError) WithSource(source string) *PipelineError {
	e.Source = source
	return e
}

func (e *PipelineError) WithField(field string) *PipelineError {
	e.Field = field
	return e
}

// WithSnippet attaches at most SnippetLen runes of the raw response.
func (e *PipelineError) WithSnippet(raw string) *PipelineError {
	e.Snippet = Snippet(raw, SnippetLen)
	return e
}

// InvalidField builds an ErrInvalidRequest naming the offending field.
func InvalidField(field, reason string) error {
	return New(ErrInvalidRequest, stderrors.New(reason)).WithField(field)
}

// FieldOf returns the offending field of an InvalidRequest, if any.
func FieldOf(err error) string {
	var pe *PipelineError
	if stderrors.As(err, &pe) {
		return pe.Field
	}
	return ""
}

const SnippetLen = 240

// Snippet trims s and cuts it to n runes.
func Snippet(s string, n int) string {
	s = strings.TrimSpace(s)
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "…"
}

// Annotate sets the document name on a PipelineError that does not carry one yet.
func Annotate(err error, source string) error {
	var pe *PipelineError
	if source != "" && stderrors.As(err, &pe) && pe.Source == "" {
		pe.Source = source
	}
	return err
}
