package models

import (
	"fmt"
	"strings"
)

// Sender identifies who produced a message
type Sender string

const (
	SenderUser Sender = "user"
	SenderAI   Sender = "ai"
)

// String returns the sender's wire name
func (s Sender) String() string {
	return string(s)
}

// Message is one entry of the conversation log.
// Messages are only ever appended; they are never edited or removed.
type Message struct {
	Sender Sender `json:"sender"`
	Text   string `json:"text"`
}

// UserMessage builds a message sent by the user
func UserMessage(text string) Message {
	return Message{Sender: SenderUser, Text: text}
}

// AIMessage builds a message produced by the backend (or the fallback text)
func AIMessage(text string) Message {
	return Message{Sender: SenderAI, Text: text}
}

// IsUser reports whether the message was typed by the user
func (m Message) IsUser() bool {
	return m.Sender == SenderUser
}

// LayoutMode selects how the chat surface grows as the conversation starts
type LayoutMode string

const (
	// LayoutCollapsible starts with the compact welcome view and expands
	// once, on the first user message.
	LayoutCollapsible LayoutMode = "collapsible"
	// LayoutFull always renders the full chat view.
	LayoutFull LayoutMode = "full"
)

// LayoutModes lists the accepted layout modes
func LayoutModes() []LayoutMode {
	return []LayoutMode{LayoutCollapsible, LayoutFull}
}

// ParseLayoutMode converts a user supplied name into a LayoutMode
func ParseLayoutMode(name string) (LayoutMode, error) {
	switch LayoutMode(strings.ToLower(strings.TrimSpace(name))) {
	case LayoutCollapsible, "":
		return LayoutCollapsible, nil
	case LayoutFull:
		return LayoutFull, nil
	default:
		return "", fmt.Errorf("unknown layout mode %q (expected %q or %q)", name, LayoutCollapsible, LayoutFull)
	}
}

// LayoutState is the current layout of the chat surface
type LayoutState int

const (
	LayoutCollapsed LayoutState = iota
	LayoutExpanded
)

// String returns a readable name for the state
func (s LayoutState) String() string {
	switch s {
	case LayoutCollapsed:
		return "collapsed"
	case LayoutExpanded:
		return "expanded"
	default:
		return fmt.Sprintf("LayoutState(%d)", int(s))
	}
}
