package driven

// Prompt names understood by PromptStore implementations.
const (
	// PromptAnswerSystem is the system message that confines answers to the context.
	PromptAnswerSystem = "answer_system"

	// PromptAnswerUser is the user message template. It takes the context and
	// the question, both as %s, in that order.
	PromptAnswerUser = "answer_user"
)

// DefaultPrompts are used when no override exists.
var DefaultPrompts = map[string]string{
	PromptAnswerSystem: "Answer using the context. If answer is not in context, say I don't know",
	PromptAnswerUser:   "Context:\n%s\n\nQuestion:\n%s",
}

// PromptArgs is the number of %s verbs each prompt template must contain.
var PromptArgs = map[string]int{
	PromptAnswerSystem: 0,
	PromptAnswerUser:   2,
}

// PromptStore loads user-editable LLM prompts.
type PromptStore interface {
	// Load returns the prompt with the given name.
	Load(name string) (string, error)
}
