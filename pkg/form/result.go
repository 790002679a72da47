package form

// Status is the outcome of the last submission attempt.
type Status string

const (
	StatusIdle    Status = "idle"
	StatusSuccess Status = "success"
	StatusFailure Status = "failure"
)

// Result describes the last submission: Success carries an optional
// navigation target, Failure a user-facing message.
type Result struct {
	Status     Status `json:"status"`
	Message    string `json:"message,omitempty"`
	NavigateTo string `json:"navigateTo,omitempty"`
}

// Idle is the result before any submission.
func Idle() Result { return Result{Status: StatusIdle} }

// Success builds a successful result.
func Success(navigateTo string) Result {
	return Result{Status: StatusSuccess, NavigateTo: navigateTo}
}

// Failure builds a failed result.
func Failure(message string) Result {
	return Result{Status: StatusFailure, Message: message}
}

func (r Result) IsSuccess() bool { return r.Status == StatusSuccess }
func (r Result) IsFailure() bool { return r.Status == StatusFailure }
