package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/retailflow/plm-console/internal/core/ports"
)

const collectionAdvances = "status_advance_requests"

// AdvanceAuditRepository implements ports.AdvanceAuditRepository using MongoDB.
type AdvanceAuditRepository struct {
	col *mongo.Collection
}

func NewAdvanceAuditRepository(db *mongo.Database) *AdvanceAuditRepository {
	return &AdvanceAuditRepository{col: db.Collection(collectionAdvances)}
}

var _ ports.AdvanceAuditRepository = (*AdvanceAuditRepository)(nil)

// InsertAdvance appends one request outcome to the audit collection.
func (r *AdvanceAuditRepository) InsertAdvance(ctx context.Context, rec ports.AdvanceRecord) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.col.InsertOne(ctx, advanceDocument(rec))
	return err
}

// EnsureIndexes creates the lookup indexes on the audit collection.
func (r *AdvanceAuditRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "product_id", Value: 1}, {Key: "requested_at", Value: -1}}},
		{Keys: bson.D{{Key: "username", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}

func advanceDocument(rec ports.AdvanceRecord) bson.M {
	doc := bson.M{
		"product_id":   rec.ProductID,
		"sku":          rec.SKU,
		"from":         string(rec.From),
		"to":           string(rec.To),
		"username":     rec.Username,
		"succeeded":    rec.Succeeded,
		"requested_at": rec.RequestedAt.UTC(),
		"recorded_at":  time.Now().UTC(),
	}
	if rec.Error != "" {
		doc["error"] = rec.Error
	}
	return doc
}
