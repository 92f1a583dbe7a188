package domain

import "time"

// Role identifies who produced a transcript message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one turn of the wizard conversation kept in the local
// transcript.
type Message struct {
	ID        string
	Role      Role
	Content   string
	CreatedAt time.Time
}
