package models

import "encoding/json"

// Message is a chat message received by the bot. Read-only.
type Message struct {
	MessageID    int64     `json:"message_id"`
	UserID       int64     `json:"user_id"`
	UserUsername *string   `json:"user_username"`
	ChatTitle    *string   `json:"chat_title"`
	Text         string    `json:"text"`
	CreatedAt    *string   `json:"created_at,omitempty"`
	Response     *Response `json:"response,omitempty"`
}

func (m Message) Key() int64 {
	return m.MessageID
}

// Response is the recommendation bundle the backend produced for a message.
// Its lists are recommendations, not relation edges.
type Response struct {
	ResponseID int64             `json:"response_id,omitempty"`
	MessageID  int64             `json:"message_id,omitempty"`
	Text       string            `json:"text"`
	CreatedAt  *string           `json:"created_at,omitempty"`
	Problems   []ProblemSummary  `json:"problems"`
	Solutions  []SolutionSummary `json:"solutions"`
	Projects   []ProjectSummary  `json:"projects"`
}

// UnmarshalJSON accepts the reply under "reply_text" as well as "text".
func (r *Response) UnmarshalJSON(data []byte) error {
	type alias Response
	aux := struct {
		*alias
		ReplyText *string `json:"reply_text"`
	}{alias: (*alias)(r)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if r.Text == "" && aux.ReplyText != nil {
		r.Text = *aux.ReplyText
	}
	return nil
}

type ProblemSummary struct {
	ProblemID int64   `json:"problem_id"`
	Name      string  `json:"name"`
	Context   *string `json:"context,omitempty"`
}

type SolutionSummary struct {
	SolutionID int64   `json:"solution_id"`
	Name       string  `json:"name"`
	Context    *string `json:"context,omitempty"`
}

type ProjectSummary struct {
	ProjectID   int64   `json:"project_id"`
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
}
