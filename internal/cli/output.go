package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// Process exit statuses.
const (
	ExitSuccess = 0
	// ExitFailure covers invalid definitions and missing or duplicate templates.
	ExitFailure = 1
	// ExitCommandError covers bad arguments and unreachable storage.
	ExitCommandError = 2
)

// ExitError carries the process exit status for a failed command.
type ExitError struct {
	Code    int
	Message string
	Err     error
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return e.Message + ": " + e.Err.Error()
}

func (e *ExitError) Unwrap() error { return e.Err }

// NewExitError returns an ExitError without a cause.
func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

// WrapExitError returns an ExitError caused by err.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// exitCode maps err to a process status. Errors that are not an ExitError
// come from cobra's own argument handling.
func exitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitCommandError
}

// Envelope is the single JSON document written per command in --format json.
type Envelope struct {
	Status string   `json:"status"`
	Data   any      `json:"data,omitempty"`
	Error  *Problem `json:"error,omitempty"`
}

// Problem describes a failed command in an Envelope.
type Problem struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Printer renders command results. Out receives results and errors; Diag
// receives verbose progress lines so they never mix into JSON output.
type Printer struct {
	Format  string
	Out     io.Writer
	Diag    io.Writer
	Verbose bool
}

func (p *Printer) json() bool { return p.Format == "json" }

// Result writes a successful result. Text mode prints data with fmt.
func (p *Printer) Result(data any) error {
	if p.json() {
		return json.NewEncoder(p.Out).Encode(Envelope{Status: "ok", Data: data})
	}
	_, err := fmt.Fprintln(p.Out, data)
	return err
}

// Fail writes an error with its E-code.
func (p *Printer) Fail(code, message string) error {
	if p.json() {
		return json.NewEncoder(p.Out).Encode(Envelope{
			Status: "error",
			Error:  &Problem{Code: code, Message: message},
		})
	}
	_, err := fmt.Fprintf(p.Out, "Error [%s]: %s\n", code, message)
	return err
}

// Verbosef writes a progress line to Diag when --verbose is set.
func (p *Printer) Verbosef(format string, args ...any) {
	if !p.Verbose || p.Diag == nil {
		return
	}
	fmt.Fprintf(p.Diag, format+"\n", args...)
}
