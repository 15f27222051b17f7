package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/RishiKendai/aegis-origin/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const reportsCollection = "originality_reports"

type ReportsRepository struct {
	mongoRepo *MongoRepository
}

func NewReportsRepository(mongoRepo *MongoRepository) *ReportsRepository {
	return &ReportsRepository{
		mongoRepo: mongoRepo,
	}
}

// UpdateReport replaces the mutable fields of the report with the same checkId,
// inserting it when it does not exist yet.
func (r *ReportsRepository) UpdateReport(ctx context.Context, report *models.CheckReport) error {
	filter := bson.M{"checkId": report.CheckID}
	update := bson.M{
		"$set": bson.M{
			"repoUrl":           report.RepoURL,
			"targetDir":         report.TargetDir,
			"status":            report.Status,
			"phase":             report.Phase,
			"averageSimilarity": report.AverageSimilarity,
			"totalFiles":        report.TotalFiles,
			"referenceFiles":    report.ReferenceFiles,
			"skippedFiles":      report.SkippedFiles,
			"vocabularySize":    report.VocabularySize,
			"pairsScored":       report.PairsScored,
			"elapsedSeconds":    report.ElapsedSeconds,
			"error":             report.Error,
			"completedAt":       report.CompletedAt,
		},
		"$setOnInsert": bson.M{"createdAt": time.Now()},
	}

	_, err := r.mongoRepo.UpdateOne(ctx, reportsCollection, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to update report: %w", err)
	}

	return nil
}

// GetReportByCheckID returns nil, nil when no report exists.
func (r *ReportsRepository) GetReportByCheckID(ctx context.Context, checkID string) (*models.CheckReport, error) {
	filter := bson.M{"checkId": checkID}
	opts := options.FindOne().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	var report models.CheckReport
	err := r.mongoRepo.FindOne(ctx, reportsCollection, filter, opts).Decode(&report)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find report: %w", err)
	}

	return &report, nil
}
