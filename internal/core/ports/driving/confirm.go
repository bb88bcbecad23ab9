package driving

// ConfirmFunc asks the user to confirm prompt and reports the answer.
// Returning false aborts the action before any request is made.
type ConfirmFunc func(prompt string) bool

// AlwaysConfirm is a ConfirmFunc for non-interactive callers (e.g. --yes).
func AlwaysConfirm(string) bool { return true }
