package model

// Role tags who a transcript line belongs to.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one line of the conversation log.
type Message struct {
	Role  Role
	Text  string
	Index int // position in the log
}
