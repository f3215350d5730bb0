package actor

import "context"

type promptKey struct{}

// WithPrompt attaches an interaction handle to ctx. The package never looks
// at it; actors retrieve it with PromptFrom.
func WithPrompt(ctx context.Context, p any) context.Context {
	return context.WithValue(ctx, promptKey{}, p)
}

// PromptFrom returns the handle stored by WithPrompt, or nil.
func PromptFrom(ctx context.Context) any {
	return ctx.Value(promptKey{})
}
