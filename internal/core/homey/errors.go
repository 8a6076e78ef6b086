package homey

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrHostRequired  = errors.New("host is required")
	ErrTokenRequired = errors.New("token is required")
	ErrIDRequired    = errors.New("ID is required")
	ErrNameRequired  = errors.New("name is required")
	ErrDuplicateName = errors.New("script name already exists")
)

// DuplicateNameError is returned by CreateScript when the hub already holds a
// script with the requested name.
type DuplicateNameError struct {
	Name string
}

func (e *DuplicateNameError) Error() string {
	return fmt.Sprintf("A script with name %q already exists", e.Name)
}

// Is reports ErrDuplicateName so callers can match with errors.Is.
func (e *DuplicateNameError) Is(target error) bool {
	return target == ErrDuplicateName
}

// HTTPErrorKind classifies a non-2xx response from the hub.
type HTTPErrorKind int

const (
	// HTTPErrUnknown is an unclassified status.
	HTTPErrUnknown HTTPErrorKind = iota
	// HTTPErrUnauthorized means the bearer token was missing or rejected.
	HTTPErrUnauthorized
	// HTTPErrForbidden means the token lacks the homey.app scope.
	HTTPErrForbidden
	// HTTPErrNotFound means the script or the HomeyScript app does not exist.
	HTTPErrNotFound
	// HTTPErrServer means the hub failed while handling the request.
	HTTPErrServer
)

// String returns a human-readable label for the error kind.
func (k HTTPErrorKind) String() string {
	switch k {
	case HTTPErrUnauthorized:
		return "Unauthorized"
	case HTTPErrForbidden:
		return "Forbidden"
	case HTTPErrNotFound:
		return "Not Found"
	case HTTPErrServer:
		return "Server Error"
	default:
		return "Unknown Error"
	}
}

// HTTPError is returned for every non-2xx response.
type HTTPError struct {
	StatusCode int
	Method     string
	URL        string
	Kind       HTTPErrorKind
	Hints      []string // Actionable suggestions for the user
}

// Error implements the error interface.
func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP error: status %d", e.StatusCode)
}

// IsHTTPError checks whether an error chain contains an *HTTPError and returns it.
func IsHTTPError(err error) (*HTTPError, bool) {
	var he *HTTPError
	if errors.As(err, &he) {
		return he, true
	}
	return nil, false
}

// newHTTPError classifies a response status.
func newHTTPError(method, url string, status int) *HTTPError {
	kind := classifyStatus(status)
	return &HTTPError{
		StatusCode: status,
		Method:     method,
		URL:        url,
		Kind:       kind,
		Hints:      hintsForStatus(kind),
	}
}

func classifyStatus(status int) HTTPErrorKind {
	switch {
	case status == http.StatusUnauthorized:
		return HTTPErrUnauthorized
	case status == http.StatusForbidden:
		return HTTPErrForbidden
	case status == http.StatusNotFound:
		return HTTPErrNotFound
	case status >= 500:
		return HTTPErrServer
	default:
		return HTTPErrUnknown
	}
}

func hintsForStatus(kind HTTPErrorKind) []string {
	switch kind {
	case HTTPErrUnauthorized:
		return []string{
			"Check that the API key is valid and has not been revoked.",
			"Create a new key in the Homey web app under Settings > API Keys.",
		}
	case HTTPErrForbidden:
		return []string{
			"The API key needs the homey.app permission to manage HomeyScripts.",
		}
	case HTTPErrNotFound:
		return []string{
			"Make sure the HomeyScript app is installed on the hub.",
			"Run 'hsk list' to see the scripts that exist.",
		}
	case HTTPErrServer:
		return []string{
			"The hub failed to handle the request. Try again in a moment.",
		}
	default:
		return nil
	}
}
