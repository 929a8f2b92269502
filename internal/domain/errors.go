package domain

import "errors"

// ErrMissingURL indicates a download was requested without a URL
var ErrMissingURL = errors.New("download url not found")

// ErrMissingAuthToken indicates the source needs an auth token and none is set
var ErrMissingAuthToken = errors.New("download auth token not found")

// ErrDownloadInProgress indicates a helper process is already running for the URL
var ErrDownloadInProgress = errors.New("download already in progress")

// ErrLaunchFailure indicates the helper process could not be started
var ErrLaunchFailure = errors.New("download helper failed to launch")

// ErrUnknownSource indicates a source ID outside the catalog
var ErrUnknownSource = errors.New("unknown download source")

// ErrNotRunning indicates there is no active download for the URL
var ErrNotRunning = errors.New("no active download for url")

// Status keys delivered to event sinks. The front end owns localization.
const (
	StatusURLNotFound       = "DownloadURLNotFound"
	StatusAuthTokenNotFound = "DownloadAuthTokenNotFound"
	StatusAuthTokenSuccess  = "DownloadAuthTokenSuccess"
	StatusInProgress        = "DownloadInProgress"
	StatusLaunchFailed      = "DownloadLaunchFailed"
	StatusTimedOut          = "DownloadTimedOut"
	StatusUnknownSource     = "DownloadSourceUnknown"
	StatusNotRunning        = "DownloadNotRunning"

	StatusLoginRequired   = "LoginRequired"
	StatusCheckingToken   = "CheckingDownloadAuthToken"
	StatusAllSet          = "AllSet"
	StatusSwitchingSource = "SwitchingSource"
	StatusCommonError     = "CommonError"
)

// StatusKey maps an error to the status key reported to the user.
// Unrecognised errors map to their own message.
func StatusKey(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrMissingURL):
		return StatusURLNotFound
	case errors.Is(err, ErrMissingAuthToken):
		return StatusAuthTokenNotFound
	case errors.Is(err, ErrDownloadInProgress):
		return StatusInProgress
	case errors.Is(err, ErrLaunchFailure):
		return StatusLaunchFailed
	case errors.Is(err, ErrUnknownSource):
		return StatusUnknownSource
	case errors.Is(err, ErrNotRunning):
		return StatusNotRunning
	default:
		return err.Error()
	}
}
