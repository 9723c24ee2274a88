package Notify

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"

	"Turno/Models"
)

// SlackClient holds the Slack bot token and base URL
type SlackClient struct {
	Token   string
	BaseURL string
	Channel string
}

// SlackMessage represents a message payload
type SlackMessage struct {
	Channel string `json:"channel"`
	Text    string `json:"text"`
}

// SlackResponse represents the API response
type SlackResponse struct {
	OK    bool   `json:"ok"`
	TS    string `json:"ts,omitempty"`
	Error string `json:"error,omitempty"`
}

func NewSlackClient() *SlackClient {
	return &SlackClient{
		Token:   os.Getenv("SLACK_BOT_TOKEN"),
		BaseURL: "https://slack.com/api",
		Channel: os.Getenv("SLACK_PROBLEMS_CHANNEL"),
	}
}

func (s *SlackClient) Enabled() bool {
	return s.Token != "" && s.Channel != ""
}

func (s *SlackClient) postMessage(text string) error {
	payload := SlackMessage{Channel: s.Channel, Text: text}
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequest("POST", s.BaseURL+"/chat.postMessage", bytes.NewBuffer(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.Token)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	var slackResp SlackResponse
	if err := json.NewDecoder(resp.Body).Decode(&slackResp); err != nil {
		return err
	}
	if !slackResp.OK {
		return fmt.Errorf("slack API error: %s", slackResp.Error)
	}
	return nil
}

// ProblemReported posts a short alert when a submitted checklist carries a
// problem report. Best-effort: failures are logged and never surfaced.
func (s *SlackClient) ProblemReported(record *Models.ChecklistRecord, sectorName string) {
	if !s.Enabled() || record.Problems == "" {
		return
	}
	text := fmt.Sprintf(":warning: Problem reported on %s %s checklist by %s:\n> %s",
		sectorName, record.Type, record.Employee, record.Problems)
	if err := s.postMessage(text); err != nil {
		log.Printf("Error sending Slack problem alert: %v", err)
	}
}
