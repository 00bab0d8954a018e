package cli

import (
	"fmt"
	"io"

	"github.com/grovetools/kvstore/errors"
)

// ErrorHandler provides user-friendly error messages
type ErrorHandler struct {
	Verbose bool
	Out     io.Writer
}

// NewErrorHandler creates a new error handler writing to out
func NewErrorHandler(verbose bool, out io.Writer) *ErrorHandler {
	return &ErrorHandler{
		Verbose: verbose,
		Out:     out,
	}
}

// Handle prints a message for err based on its error code and returns err.
func (h *ErrorHandler) Handle(err error) error {
	storeErr, _ := err.(*errors.StoreError)
	detail := func(key string) interface{} {
		if storeErr == nil {
			return ""
		}
		return storeErr.Details[key]
	}

	switch errors.GetCode(err) {
	case errors.ErrCodeConfigNotFound:
		fmt.Fprintf(h.Out, "Error: configuration not found at %v\n", detail("path"))

	case errors.ErrCodeConfigInvalid:
		fmt.Fprintf(h.Out, "Error: invalid configuration: %v\n", err)
		fmt.Fprintf(h.Out, "Run 'kvstore schema' to see the accepted settings.\n")

	case errors.ErrCodeUnknownKey:
		fmt.Fprintf(h.Out, "Error: key '%v' does not exist\n", detail("key"))
		fmt.Fprintf(h.Out, "Run 'kvstore keys' to see the stored keys.\n")

	case errors.ErrCodeInvalidTopLevelValue:
		fmt.Fprintf(h.Out, "Error: '%v' must hold a list or an object, got %v\n", detail("key"), detail("type"))

	case errors.ErrCodeStorageRead, errors.ErrCodeStorageWrite:
		fmt.Fprintf(h.Out, "Error: storage failure: %v\n", err)

	default:
		fmt.Fprintf(h.Out, "Error: %v\n", err)
	}

	if h.Verbose && storeErr != nil {
		fmt.Fprintf(h.Out, "\nError details:\n%s\n", storeErr.ToJSON())
	}
	return err
}
