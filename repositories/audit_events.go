package repositories

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"pastas-console/db"
	"pastas-console/models"
	"pastas-console/pagination"
)

type AuditEventRepository struct {
	col *mongo.Collection
}

func NewAuditEventRepository(d *mongo.Database) *AuditEventRepository {
	return &AuditEventRepository{col: d.Collection(db.CollAuditEvents)}
}

// Insert 는 감사 이벤트를 저장한다. 같은 event_id 가 이미 있으면 재전달로 보고 무시한다.
func (r *AuditEventRepository) Insert(ctx context.Context, e *models.AuditEvent) error {
	if e.RecordedAt.IsZero() {
		e.RecordedAt = time.Now().UTC()
	}
	_, err := r.col.InsertOne(ctx, e)
	if mongo.IsDuplicateKeyError(err) {
		return nil
	}
	return err
}

// List 는 occurred_at 최신순으로 감사 이벤트를 페이지 단위로 조회한다.
// q.Filter 가 있으면 type 또는 subject 가 일치하는 이벤트만 반환한다.
func (r *AuditEventRepository) List(ctx context.Context, q pagination.Query) (pagination.Page[models.AuditEvent], error) {
	filter := bson.M{}
	if q.Filter != "" {
		filter["$or"] = bson.A{bson.M{"type": q.Filter}, bson.M{"subject": q.Filter}}
	}

	total, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		return pagination.Page[models.AuditEvent]{}, err
	}
	if total == 0 {
		return pagination.EmptyPage[models.AuditEvent](q.PageSize), nil
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "occurred_at", Value: -1}}).
		SetSkip(int64((q.Page - 1) * q.PageSize)).
		SetLimit(int64(q.PageSize))
	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return pagination.Page[models.AuditEvent]{}, err
	}
	defer cur.Close(ctx)

	items := make([]models.AuditEvent, 0, q.PageSize)
	if err := cur.All(ctx, &items); err != nil {
		return pagination.Page[models.AuditEvent]{}, err
	}
	return pagination.Page[models.AuditEvent]{
		Items:      items,
		Pagination: pagination.Compute(int(total), q.Page, q.PageSize),
	}, nil
}
