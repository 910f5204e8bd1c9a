package llm

// Role identifies who authored a message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is a single turn in a conversation.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Prompt is the full input to a completion call. SystemPrompt is kept
// separate from Messages because providers prepend it as the first
// message on the wire.
type Prompt struct {
	SystemPrompt string    `json:"system_prompt,omitempty"`
	Messages     []Message `json:"messages"`
}

// UserPrompt builds a single user-turn prompt. Answer generation sends
// the retrieved passages and the question as one such turn.
func UserPrompt(content string) *Prompt {
	return &Prompt{
		Messages: []Message{{Role: RoleUser, Content: content}},
	}
}
