package repositories

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"pastas-console/db"
	"pastas-console/models"
)

// ProductionRepository 는 대시보드용 생산 데이터(tipos_producto, lotes, irregularidades)를 다룬다.
type ProductionRepository struct {
	tipos  *mongo.Collection
	lotes  *mongo.Collection
	irregs *mongo.Collection
}

func NewProductionRepository(d *mongo.Database) *ProductionRepository {
	return &ProductionRepository{
		tipos:  d.Collection(db.CollTiposProducto),
		lotes:  d.Collection(db.CollLotes),
		irregs: d.Collection(db.CollIrregularidades),
	}
}

func (r *ProductionRepository) ListTiposProducto(ctx context.Context) ([]models.TipoProducto, error) {
	return findAll[models.TipoProducto](ctx, r.tipos, bson.D{{Key: "tipo_producto_id", Value: 1}})
}

func (r *ProductionRepository) ListLotes(ctx context.Context) ([]models.Lote, error) {
	return findAll[models.Lote](ctx, r.lotes, bson.D{{Key: "fecha_produccion", Value: 1}, {Key: "lote_id", Value: 1}})
}

func (r *ProductionRepository) ListIrregularidades(ctx context.Context) ([]models.Irregularidad, error) {
	return findAll[models.Irregularidad](ctx, r.irregs, bson.D{{Key: "irregularidad_id", Value: 1}})
}

// ReplaceAll 은 세 컬렉션의 내용을 주어진 데이터로 교체한다.
func (r *ProductionRepository) ReplaceAll(ctx context.Context, tipos []models.TipoProducto, lotes []models.Lote, irregs []models.Irregularidad) error {
	if err := replace(ctx, r.tipos, tipos); err != nil {
		return fmt.Errorf("tipos_producto: %w", err)
	}
	if err := replace(ctx, r.lotes, lotes); err != nil {
		return fmt.Errorf("lotes: %w", err)
	}
	if err := replace(ctx, r.irregs, irregs); err != nil {
		return fmt.Errorf("irregularidades: %w", err)
	}
	return nil
}

func findAll[T any](ctx context.Context, col *mongo.Collection, sort bson.D) ([]T, error) {
	cur, err := col.Find(ctx, bson.M{}, options.Find().SetSort(sort))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	out := make([]T, 0)
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func replace[T any](ctx context.Context, col *mongo.Collection, items []T) error {
	if _, err := col.DeleteMany(ctx, bson.M{}); err != nil {
		return err
	}
	if len(items) == 0 {
		return nil
	}
	docs := make([]interface{}, 0, len(items))
	for _, it := range items {
		docs = append(docs, it)
	}
	_, err := col.InsertMany(ctx, docs, options.InsertMany().SetOrdered(false))
	return err
}
