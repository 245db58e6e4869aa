package service

import (
	"errors"
	"fmt"
)

// ErrorKind is the closed set of failure categories the pipeline reasons
// about. Vendor-specific codes are classified into these kinds by the
// vendor clients so nothing upstream needs to know vendor vocabularies.
type ErrorKind string

const (
	// KindConfig marks a missing credential for a required vendor. Fatal,
	// detectable at startup, never retried.
	KindConfig ErrorKind = "config"

	// KindInvalidInput marks caller mistakes: no audio, missing device id,
	// audio the vendor cannot parse.
	KindInvalidInput ErrorKind = "invalid_input"

	// KindAudioTooLong marks audio exceeding the duration ceiling.
	KindAudioTooLong ErrorKind = "audio_too_long"

	// KindUnintelligible marks audio the vendor rejected as containing no
	// recognizable speech.
	KindUnintelligible ErrorKind = "unintelligible"

	// KindAuth marks credential rejection or a failed token exchange.
	KindAuth ErrorKind = "auth"

	// KindQuota marks throttling, quota, or billing rejections.
	KindQuota ErrorKind = "quota"

	// KindTransport marks timeouts and connection failures.
	KindTransport ErrorKind = "transport"

	// KindVendor marks any other vendor-side error.
	KindVendor ErrorKind = "vendor"

	// KindNotFound marks a lookup or mutation that matched no record.
	KindNotFound ErrorKind = "not_found"

	// KindStorage marks a record store failure.
	KindStorage ErrorKind = "storage"
)

// ClientCaused reports whether the failure should map to a 4xx status.
func (k ErrorKind) ClientCaused() bool {
	switch k {
	case KindInvalidInput, KindAudioTooLong, KindUnintelligible, KindNotFound:
		return true
	}
	return false
}

// Step names the pipeline stage a failure is attributed to.
type Step string

const (
	StepReceive       Step = "receive"
	StepTranscribe    Step = "transcribe"
	StepGenerateImage Step = "generate_image"
	StepStore         Step = "store"
)

// PipelineError is a failure tagged with the step it occurred in and its
// abstract kind. The persistence step never produces one: the asset
// persister falls back instead of failing.
type PipelineError struct {
	Step    Step
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *PipelineError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Step, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Step, e.Message)
}

func (e *PipelineError) Unwrap() error {
	return e.Err
}

func pipelineErr(step Step, kind ErrorKind, message string, err error) *PipelineError {
	return &PipelineError{Step: step, Kind: kind, Message: message, Err: err}
}

// KindOf extracts the ErrorKind from an error chain, defaulting to
// KindVendor for untagged errors.
func KindOf(err error) ErrorKind {
	var pe *PipelineError
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return KindVendor
}

// MessageOf extracts the step-category message from an error chain without
// exposing raw vendor payloads.
func MessageOf(err error) string {
	var pe *PipelineError
	if errors.As(err, &pe) {
		return pe.Message
	}
	return "generation failed"
}
