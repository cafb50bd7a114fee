package models

// AskRequest is the body of POST /ask
type AskRequest struct {
	Question string `json:"question"`
}

// AskResponse is the expected success body of POST /ask
type AskResponse struct {
	Answer string `json:"answer"`
}

// JSON paths read from backend responses
const (
	AnswerPath = "answer"
	HealthPath = "message"
)
