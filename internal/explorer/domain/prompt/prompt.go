package prompt

import "context"

// Dialog choices used by the tree's confirmations.
const (
	DialogYes    = "Yes"
	DialogCancel = "Cancel"
)

// InputBoxOptions configures a free-text prompt.
type InputBoxOptions struct {
	Prompt         string
	PlaceHolder    string
	Value          string
	IgnoreFocusOut bool
}

// Prompter is the user-interaction surface of the host.
type Prompter interface {
	// ShowWarningMessage shows a warning with the given choices. ok is false when
	// the user dismissed it without choosing.
	ShowWarningMessage(ctx context.Context, message string, modal bool, choices ...string) (choice string, ok bool)
	// ShowInputBox returns nil when dismissed. An empty string is a valid answer.
	ShowInputBox(ctx context.Context, opts InputBoxOptions) *string
}

// Confirm shows a modal Yes/Cancel warning and reports whether Yes was chosen.
func Confirm(ctx context.Context, p Prompter, message string) bool {
	choice, ok := p.ShowWarningMessage(ctx, message, true, DialogYes, DialogCancel)
	return ok && choice == DialogYes
}
