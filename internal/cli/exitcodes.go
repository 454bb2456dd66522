package cli

import (
	"errors"
	"io/fs"

	"github.com/yaklabco/rtn/internal/configloader"
	"github.com/yaklabco/rtn/pkg/codec"
	"github.com/yaklabco/rtn/pkg/dirnav"
	"github.com/yaklabco/rtn/pkg/fsutil"
	"github.com/yaklabco/rtn/pkg/runner"
	"github.com/yaklabco/rtn/pkg/share"
)

// Exit codes for rtn.
const (
	// ExitSuccess indicates successful execution with no issues.
	ExitSuccess = 0

	// ExitIssues indicates an invalid link, a failed resolution, or a check
	// that found issues.
	ExitIssues = 1

	// ExitInvalidUsage indicates invalid command-line usage.
	ExitInvalidUsage = 64

	// ExitConfigError indicates configuration file errors.
	ExitConfigError = 65

	// ExitInternalError indicates an internal error.
	ExitInternalError = 70

	// ExitIOError indicates file I/O errors.
	ExitIOError = 74
)

// ErrIssuesFound is returned when a command completed but found broken links,
// defects, or unformatted files. Its details were already reported.
var ErrIssuesFound = errors.New("issues found")

// ExitError attaches an exit code to an error.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

func withCode(code int, err error) error {
	if err == nil {
		return nil
	}
	return &ExitError{Code: code, Err: err}
}

func usageError(err error) error {
	return withCode(ExitInvalidUsage, err)
}

// ExitCode maps an error returned by a command to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}

	var validationErr *configloader.ValidationError
	var navErr *dirnav.NavError
	var decodeErr *codec.DecodeError
	var pathErr *fs.PathError

	switch {
	case errors.Is(err, ErrIssuesFound):
		return ExitIssues
	case errors.As(err, &validationErr):
		return ExitConfigError
	case errors.As(err, &navErr), errors.As(err, &decodeErr),
		errors.Is(err, share.ErrNoData), errors.Is(err, share.ErrLinkTooLong):
		return ExitIssues
	case errors.Is(err, fsutil.ErrNotFound), errors.Is(err, fsutil.ErrPermissionDenied),
		errors.Is(err, fsutil.ErrIsDirectory), errors.Is(err, share.ErrInvalidDocument),
		errors.As(err, &pathErr):
		return ExitIOError
	default:
		return ExitInternalError
	}
}

// ExitCodeFromResult determines the exit code of a check run.
func ExitCodeFromResult(result *runner.Result) int {
	if result.HasIssues() {
		return ExitIssues
	}
	return ExitSuccess
}
