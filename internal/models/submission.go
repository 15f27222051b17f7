package models

import (
	"fmt"
	"regexp"

	"github.com/google/uuid"
)

// CheckRequest asks for one originality check. Exactly one of RepoURL and
// TargetDir is set. Destination is where RepoURL is cloned; when empty the
// clone goes to a temporary workspace directory that is removed afterwards.
type CheckRequest struct {
	CheckID     string `json:"checkId"`
	RepoURL     string `json:"repoUrl,omitempty"`
	TargetDir   string `json:"targetDir,omitempty"`
	Destination string `json:"-"`
}

// StreamCheckIDPrefix prefixes check IDs derived from stream message IDs.
const StreamCheckIDPrefix = "stream-"

var streamCheckID = regexp.MustCompile(`^` + StreamCheckIDPrefix + `[0-9]+-[0-9]+$`)

// ValidateCheckID accepts canonical UUIDs and "stream-<ms>-<seq>" IDs.
func ValidateCheckID(checkID string) error {
	if streamCheckID.MatchString(checkID) {
		return nil
	}
	if len(checkID) == 36 {
		if _, err := uuid.Parse(checkID); err == nil {
			return nil
		}
	}
	return fmt.Errorf("invalid check id %q", checkID)
}
