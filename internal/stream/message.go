package stream

import (
	"fmt"
	"strings"

	"github.com/RishiKendai/aegis-origin/internal/fetch"
	"github.com/RishiKendai/aegis-origin/internal/models"
)

// StreamMessage is a decoded Redis stream entry.
type StreamMessage struct {
	ID     string
	Fields map[string]string
}

// ParseCheckRequest builds a check request from stream fields. The check ID
// defaults to one derived from the message ID so redeliveries reuse it.
func ParseCheckRequest(msg *StreamMessage) (*models.CheckRequest, error) {
	repoURL := strings.TrimSpace(msg.Fields["repoUrl"])
	if repoURL == "" {
		return nil, fmt.Errorf("message %s: repoUrl is required", msg.ID)
	}
	if err := fetch.ValidateURL(repoURL); err != nil {
		return nil, fmt.Errorf("message %s: %w", msg.ID, err)
	}

	checkID := strings.TrimSpace(msg.Fields["checkId"])
	if checkID == "" {
		checkID = models.StreamCheckIDPrefix + msg.ID
	}
	if err := models.ValidateCheckID(checkID); err != nil {
		return nil, fmt.Errorf("message %s: %w", msg.ID, err)
	}

	return &models.CheckRequest{
		CheckID: checkID,
		RepoURL: repoURL,
	}, nil
}
