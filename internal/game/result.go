package game

// ActionResult is the common shape for domain-level outcomes. Failures
// that are part of normal play (not enough fatigue, broken weapon, target
// left the room) are carried as unsuccessful results with a readable
// message instead of errors, so callers branch without unwinding.
type ActionResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Failure builds an unsuccessful result with the given message.
func Failure(msg string) ActionResult { return ActionResult{Success: false, Message: msg} }

// OK builds a successful result.
func OK(msg string) ActionResult { return ActionResult{Success: true, Message: msg} }
