package models

import (
	"time"
)

type Step string

const (
	StepInitiated Step = "initiated"
)

const (
	StatusPending   = "pending"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// CheckReport is the stored outcome of one originality check
type CheckReport struct {
	CheckID           string     `bson:"checkId" json:"checkId"`
	RepoURL           string     `bson:"repoUrl,omitempty" json:"repoUrl,omitempty"`
	TargetDir         string     `bson:"targetDir,omitempty" json:"targetDir,omitempty"`
	Status            string     `bson:"status" json:"status"` // pending, completed, failed
	Phase             string     `bson:"phase" json:"phase"`
	AverageSimilarity float64    `bson:"averageSimilarity" json:"averageSimilarity"`
	TotalFiles        int        `bson:"totalFiles" json:"totalFiles"`
	ReferenceFiles    int        `bson:"referenceFiles" json:"referenceFiles"`
	SkippedFiles      int        `bson:"skippedFiles" json:"skippedFiles"`
	VocabularySize    int        `bson:"vocabularySize" json:"vocabularySize"`
	PairsScored       int        `bson:"pairsScored" json:"pairsScored"`
	ElapsedSeconds    float64    `bson:"elapsedSeconds" json:"elapsedSeconds"`
	Error             string     `bson:"error,omitempty" json:"error,omitempty"`
	CreatedAt         time.Time  `bson:"createdAt" json:"createdAt"`
	CompletedAt       *time.Time `bson:"completedAt,omitempty" json:"completedAt,omitempty"`
}

// FileResultRecord is the best similarity of one target file
type FileResultRecord struct {
	CheckID       string    `bson:"checkId" json:"checkId"`
	TargetPath    string    `bson:"targetPath" json:"targetPath"`
	MaxSimilarity float64   `bson:"maxSimilarity" json:"maxSimilarity"`
	BestMatch     string    `bson:"bestMatch,omitempty" json:"bestMatch,omitempty"`
	CreatedAt     time.Time `bson:"createdAt" json:"createdAt"`
}

// ComputeRequest is the body of POST /api/v1/checks
type ComputeRequest struct {
	RepoURL string `json:"repoUrl" binding:"required"`
}

// ComputeResponse represents the response from the checks endpoint
type ComputeResponse struct {
	Step    Step   `json:"step"`
	CheckID string `json:"checkId"`
}

// CheckStatusResponse combines the stored report with the live phase
type CheckStatusResponse struct {
	CheckID string       `json:"checkId"`
	Phase   string       `json:"phase"`
	Report  *CheckReport `json:"report,omitempty"`
}
