package http

import (
	"context"

	"docdb-explorer/internal/explorer/domain/prompt"
)

type answersKey struct{}

// Answers carries a request's replies to the prompts a tree operation raises.
type Answers struct {
	// Confirm answers a modal warning. Empty means dismissed.
	Confirm string
	// Input answers an input box. Nil means dismissed.
	Input *string
}

// WithAnswers attaches the prompt answers of one request to ctx.
func WithAnswers(ctx context.Context, answers Answers) context.Context {
	return context.WithValue(ctx, answersKey{}, answers)
}

func answersFromContext(ctx context.Context) Answers {
	answers, _ := ctx.Value(answersKey{}).(Answers)
	return answers
}

// RequestPrompter answers prompts from the answers attached to the request
// context. Without answers every prompt is dismissed.
type RequestPrompter struct{}

var _ prompt.Prompter = RequestPrompter{}

// ShowWarningMessage returns the confirm answer when it names one of choices.
func (RequestPrompter) ShowWarningMessage(ctx context.Context, message string, modal bool, choices ...string) (string, bool) {
	answer := answersFromContext(ctx).Confirm
	for _, choice := range choices {
		if answer == choice {
			return choice, true
		}
	}
	return "", false
}

func (RequestPrompter) ShowInputBox(ctx context.Context, opts prompt.InputBoxOptions) *string {
	return answersFromContext(ctx).Input
}
