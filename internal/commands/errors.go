package commands

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"fintrack/internal/config"
	"fintrack/internal/exitcode"
	"fintrack/internal/output"
	"fintrack/internal/service"
)

// reportBackendError prints a service error and returns the matching exit code.
// Not-found errors are handled by callers that know which resource was missing.
func reportBackendError(errOut io.Writer, err error) int {
	if errors.Is(err, service.ErrUnauthorized) {
		fmt.Fprintln(errOut, "error: session expired (run: fintrack login)")
		return exitcode.AuthError
	}
	fmt.Fprintf(errOut, "error: backend error: %v\n", err)
	return exitcode.BackendError
}

// parseID parses a positive numeric resource ID.
func parseID(what, s string) (int, error) {
	s = strings.TrimSpace(s)
	id, err := strconv.Atoi(s)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("invalid %s id: %s", what, s)
	}
	return id, nil
}

// singleID extracts exactly one ID argument.
func singleID(what string, args []string, errOut io.Writer) (int, bool) {
	if len(args) == 0 {
		fmt.Fprintf(errOut, "error: %s id required\n", what)
		return 0, false
	}
	if len(args) > 1 {
		fmt.Fprintf(errOut, "error: too many arguments: %s\n", strings.Join(args[1:], " "))
		return 0, false
	}
	id, err := parseID(what, args[0])
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return 0, false
	}
	return id, true
}

// amounts returns the amount formatter for the configured locale.
func amounts(cfg *config.Config) output.AmountFormatter {
	return output.NewAmountFormatter(output.DetectLocale(cfg.Locale))
}
