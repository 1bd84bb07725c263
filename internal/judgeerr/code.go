// Package judgeerr defines the typed error codes used across the judge pipeline.
package judgeerr

// ErrorCode identifies a class of failure encountered while handling a submission.
type ErrorCode int

// Error code ranges allocation:
// 10000-10099: generic / transport errors
// 13100-13199: judge pipeline errors (compile, checker, sandbox, runtime, dispatch)
const (
	Success ErrorCode = 10000

	InvalidParams      ErrorCode = 10002
	NotFound           ErrorCode = 10003
	ServiceUnavailable ErrorCode = 10007
	Timeout            ErrorCode = 10008
	InternalServerError ErrorCode = 10001

	// Judge pipeline (mirrors the taxonomy in spec.md §7).
	JudgeQueueFull        ErrorCode = 13100
	JudgeSystemError      ErrorCode = 13101
	CompileFailure        ErrorCode = 13102
	CheckerFailure        ErrorCode = 13103
	SandboxFailure        ErrorCode = 13104
	UserRuntimeFailure    ErrorCode = 13105
	CheckerRuntimeFailure ErrorCode = 13106
	DispatchReject        ErrorCode = 13107
	LifecycleWarning      ErrorCode = 13108
)

var errorMessages = map[ErrorCode]string{
	Success:             "success",
	InvalidParams:       "invalid parameters",
	NotFound:            "resource not found",
	ServiceUnavailable:  "service temporarily unavailable",
	Timeout:             "request timeout",
	InternalServerError: "internal server error",

	JudgeQueueFull:        "judge worker pool is full",
	JudgeSystemError:      "judge system error",
	CompileFailure:        "submission failed to compile",
	CheckerFailure:        "checker failed to compile",
	SandboxFailure:        "sandbox returned an unexpected status",
	UserRuntimeFailure:    "user program failed at runtime",
	CheckerRuntimeFailure: "checker failed at runtime",
	DispatchReject:        "submission rejected at dispatch",
	LifecycleWarning:      "non-fatal lifecycle warning",
}

// Message returns the default message for the error code.
func (c ErrorCode) Message() string {
	if msg, ok := errorMessages[c]; ok {
		return msg
	}
	return "unknown error"
}
