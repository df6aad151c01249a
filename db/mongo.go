package db

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"pastas-console/config"
)

// Collection names
const (
	CollTiposProducto   = "tipos_producto"
	CollLotes           = "lotes"
	CollIrregularidades = "irregularidades"
	CollAuditEvents     = "audit_events"
)

// ErrNotConfigured 는 MONGO_URI 가 비어 있을 때 반환된다.
var ErrNotConfigured = errors.New("mongo uri not configured")

var (
	clientOnce sync.Once
	client     *mongo.Client
	db         *mongo.Database
)

// Init initializes the global Mongo client and database using config values.
func Init(ctx context.Context, cfg config.MongoConfig) error {
	if cfg.URI == "" {
		return ErrNotConfigured
	}
	var initErr error
	clientOnce.Do(func() {
		ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()

		cl, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
		if err != nil {
			initErr = fmt.Errorf("mongo connect: %w", err)
			return
		}
		if err := cl.Ping(ctx, readpref.Primary()); err != nil {
			_ = cl.Disconnect(context.Background())
			initErr = fmt.Errorf("mongo ping: %w", err)
			return
		}
		d := cl.Database(cfg.Database)
		if err := ensureIndexes(ctx, d); err != nil {
			_ = cl.Disconnect(context.Background())
			initErr = fmt.Errorf("mongo indexes: %w", err)
			return
		}
		client = cl
		db = d
	})
	return initErr
}

func Client() *mongo.Client     { return client }
func Database() *mongo.Database { return db }

// Close disconnects the global client if it was initialized.
func Close(ctx context.Context) error {
	if client == nil {
		return nil
	}
	return client.Disconnect(ctx)
}

type indexSpec struct {
	collection string
	model      mongo.IndexModel
}

var indexes = []indexSpec{
	{CollTiposProducto, mongo.IndexModel{
		Keys:    bson.D{{Key: "tipo_producto_id", Value: 1}},
		Options: options.Index().SetName("uniq_tipo_producto_id").SetUnique(true),
	}},
	{CollLotes, mongo.IndexModel{
		Keys:    bson.D{{Key: "codigo_lote", Value: 1}},
		Options: options.Index().SetName("uniq_codigo_lote").SetUnique(true),
	}},
	{CollLotes, mongo.IndexModel{
		Keys:    bson.D{{Key: "fecha_produccion", Value: -1}},
		Options: options.Index().SetName("idx_fecha_produccion_desc"),
	}},
	{CollIrregularidades, mongo.IndexModel{
		Keys:    bson.D{{Key: "lote_id", Value: 1}},
		Options: options.Index().SetName("idx_lote_id"),
	}},
	{CollAuditEvents, mongo.IndexModel{
		Keys:    bson.D{{Key: "occurred_at", Value: -1}},
		Options: options.Index().SetName("idx_occurred_at_desc"),
	}},
	{CollAuditEvents, mongo.IndexModel{
		Keys:    bson.D{{Key: "event_id", Value: 1}},
		Options: options.Index().SetName("uniq_event_id").SetUnique(true),
	}},
}

func ensureIndexes(ctx context.Context, d *mongo.Database) error {
	for _, ix := range indexes {
		if _, err := d.Collection(ix.collection).Indexes().CreateOne(ctx, ix.model); err != nil {
			return fmt.Errorf("%s: %w", ix.collection, err)
		}
	}
	return nil
}
