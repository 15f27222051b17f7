package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/RishiKendai/aegis-origin/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const fileResultsCollection = "originality_file_results"

type FileResultsRepository struct {
	mongoRepo *MongoRepository
}

func NewFileResultsRepository(mongoRepo *MongoRepository) *FileResultsRepository {
	return &FileResultsRepository{
		mongoRepo: mongoRepo,
	}
}

func (r *FileResultsRepository) InsertFileResults(ctx context.Context, records []*models.FileResultRecord) error {
	now := time.Now()
	documents := make([]interface{}, 0, len(records))
	for _, record := range records {
		record.CreatedAt = now
		documents = append(documents, record)
	}

	if err := r.mongoRepo.InsertMany(ctx, fileResultsCollection, documents); err != nil {
		return fmt.Errorf("failed to insert file results: %w", err)
	}

	return nil
}

// GetFileResultsByCheckID returns the results of a check, most similar first.
func (r *FileResultsRepository) GetFileResultsByCheckID(ctx context.Context, checkID string) ([]*models.FileResultRecord, error) {
	filter := bson.M{"checkId": checkID}
	opts := options.Find().SetSort(bson.D{{Key: "maxSimilarity", Value: -1}, {Key: "targetPath", Value: 1}})

	cursor, err := r.mongoRepo.FindMany(ctx, fileResultsCollection, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find file results: %w", err)
	}
	defer cursor.Close(ctx)

	records := make([]*models.FileResultRecord, 0)
	if err := cursor.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("failed to decode file results: %w", err)
	}

	return records, nil
}
