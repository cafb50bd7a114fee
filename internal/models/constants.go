// Package models contains data types and constants for the VistulaBot client.
package models

// Backend paths
const (
	PathAsk    = "/ask"
	PathHealth = "/"
)

// Defaults shared by the config layer and the controller
const (
	DefaultBackendURL    = "http://localhost:8000"
	DefaultFallbackReply = "Sorry, backend is not responding."
	CommitKey            = "enter"
)

// DefaultQuickReplies returns the preset questions offered on the welcome view
func DefaultQuickReplies() []string {
	return []string{
		"How can I get my student ID?",
		"Where can I submit my documents?",
	}
}

// Branding shown by the chat surface
const (
	Heading       = "Vistula Academy of Finance and Business"
	Title         = "Hi! I'm VistulaBot!"
	Subtitle      = "How can I help you today?"
	Placeholder   = "Ask Me Anything :)"
	LogoLeft      = "VAFB"
	LogoRight     = "IT CLUB"
	AssistantName = "VistulaBot"
)
