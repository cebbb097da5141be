// Package mongostore 以 MongoDB 實作卡片與點數倉儲
package mongostore

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/jackyeh168/credit_ledger/src/internal/config"
)

const (
	colCards   = "cards"
	colCredits = "credits"

	defaultTimeout = 10 * time.Second
)

// Store 持有 MongoDB 連線
type Store struct {
	client  *mongo.Client
	db      *mongo.Database
	timeout time.Duration
}

// Connect 連線並確認可用
//
// 交易需要 replica set 或 sharded cluster；單機 mongod 只能做單筆寫入。
func Connect(ctx context.Context, cfg config.MongoConfig) (*Store, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping mongo: %w", err)
	}
	return &Store{
		client:  client,
		db:      client.Database(cfg.Database),
		timeout: defaultTimeout,
	}, nil
}

// Migrate 建立所有集合的索引
func (s *Store) Migrate(ctx context.Context) error {
	for col, models := range migrationIndexes() {
		if _, err := s.db.Collection(col).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("failed to create %s indexes: %w", col, err)
		}
	}
	return nil
}

// Close 中斷連線
func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// Cards 卡片倉儲
func (s *Store) Cards() *CardRepository {
	return &CardRepository{coll: s.db.Collection(colCards), timeout: s.timeout}
}

// Credits 點數倉儲
func (s *Store) Credits() *CreditRepository {
	return &CreditRepository{coll: s.db.Collection(colCredits), timeout: s.timeout}
}

// TransactionManager 以 session 實作的事務管理器
func (s *Store) TransactionManager() *TransactionManager {
	return &TransactionManager{client: s.client, timeout: s.timeout}
}

func migrationIndexes() map[string][]mongo.IndexModel {
	return map[string][]mongo.IndexModel{
		colCards: {
			{Keys: bson.D{{Key: "company_id", Value: 1}, {Key: "created_at", Value: 1}}},
		},
		colCredits: {
			{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "card_id", Value: 1}, {Key: "status", Value: 1}}},
			{Keys: bson.D{{Key: "company_id", Value: 1}, {Key: "created_at", Value: 1}}},
			{Keys: bson.D{{Key: "company_id", Value: 1}, {Key: "requested_at", Value: 1}}},
		},
	}
}
