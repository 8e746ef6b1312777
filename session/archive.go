package session

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.uber.org/zap"

	"github.com/BaSui01/agentchat/types"
)

// =============================================================================
// 📚 MongoDB 历史归档
// =============================================================================

// ArchiveConfig 归档配置
type ArchiveConfig struct {
	// MongoDB 连接 URI
	URI string `yaml:"uri" json:"uri"`

	// 数据库名
	Database string `yaml:"database" json:"database"`

	// 集合名
	Collection string `yaml:"collection" json:"collection"`

	// 每个会话保留的最近消息数
	MaxHistory int `yaml:"max_history" json:"max_history"`
}

// DefaultArchiveConfig 返回默认归档配置
func DefaultArchiveConfig() ArchiveConfig {
	return ArchiveConfig{
		URI:        "mongodb://localhost:27017",
		Database:   "agentchat",
		Collection: "session_history",
		MaxHistory: 100,
	}
}

// archivedTurn 归档中的单条消息
type archivedTurn struct {
	Content    string    `bson:"content"`
	Timestamp  time.Time `bson:"timestamp"`
	SenderID   string    `bson:"sender_id"`
	AgentID    string    `bson:"agent_id,omitempty"`
	Confidence *float64  `bson:"confidence,omitempty"`
}

// archivedSession 归档中的会话文档，每会话一条，messages 上限截断
type archivedSession struct {
	SessionID string         `bson:"_id"`
	CreatedAt time.Time      `bson:"created_at"`
	UpdatedAt time.Time      `bson:"updated_at"`
	Messages  []archivedTurn `bson:"messages"`
}

// MongoArchive 基于 MongoDB 的会话历史归档。热路径走 Redis，
// 归档只承担长期留存：写入失败记日志但不冒泡。
type MongoArchive struct {
	client     *mongo.Client
	collection *mongo.Collection
	config     ArchiveConfig
	logger     *zap.Logger
}

// NewMongoArchive 连接 MongoDB 并创建归档。
func NewMongoArchive(ctx context.Context, config ArchiveConfig, logger *zap.Logger) (*MongoArchive, error) {
	if config.MaxHistory <= 0 {
		config.MaxHistory = DefaultArchiveConfig().MaxHistory
	}

	client, err := mongo.Connect(options.Client().ApplyURI(config.URI))
	if err != nil {
		return nil, types.NewError(types.ErrStoreUnavailable, "failed to connect to mongodb").WithCause(err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, types.NewError(types.ErrStoreUnavailable, "failed to ping mongodb").WithCause(err)
	}

	logger.Info("mongo archive initialized",
		zap.String("database", config.Database),
		zap.String("collection", config.Collection),
		zap.Int("max_history", config.MaxHistory),
	)

	return &MongoArchive{
		client:     client,
		collection: client.Database(config.Database).Collection(config.Collection),
		config:     config,
		logger:     logger.With(zap.String("component", "mongo_archive")),
	}, nil
}

// Archive 追加消息到会话归档文档，超过上限时裁掉最旧的。
func (a *MongoArchive) Archive(ctx context.Context, sessionID string, turns []types.MessageContext) error {
	if len(turns) == 0 {
		return nil
	}

	docs := make([]archivedTurn, 0, len(turns))
	for _, t := range turns {
		docs = append(docs, archivedTurn{
			Content:    t.Content,
			Timestamp:  t.Timestamp,
			SenderID:   t.SenderID,
			AgentID:    t.AgentID,
			Confidence: t.Confidence,
		})
	}

	now := time.Now().UTC()
	update := bson.M{
		"$push": bson.M{
			"messages": bson.M{
				"$each":  docs,
				"$slice": -a.config.MaxHistory,
			},
		},
		"$set":         bson.M{"updated_at": now},
		"$setOnInsert": bson.M{"created_at": now},
	}

	_, err := a.collection.UpdateOne(ctx,
		bson.M{"_id": sessionID},
		update,
		options.UpdateOne().SetUpsert(true),
	)
	if err != nil {
		return types.NewError(types.ErrStoreUnavailable, "failed to archive session turns").WithCause(err)
	}
	return nil
}

// History 读取归档中的最近消息，limit <= 0 时取全部留存。
func (a *MongoArchive) History(ctx context.Context, sessionID string, limit int) ([]types.MessageContext, error) {
	var doc archivedSession
	err := a.collection.FindOne(ctx, bson.M{"_id": sessionID}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, types.NewError(types.ErrStoreUnavailable, "failed to load session history").WithCause(err)
	}

	turns := doc.Messages
	if limit > 0 && len(turns) > limit {
		turns = turns[len(turns)-limit:]
	}

	out := make([]types.MessageContext, 0, len(turns))
	for _, t := range turns {
		out = append(out, types.MessageContext{
			Content:    t.Content,
			Timestamp:  t.Timestamp,
			SenderID:   t.SenderID,
			AgentID:    t.AgentID,
			Confidence: t.Confidence,
		})
	}
	return out, nil
}

// Purge 删除会话的归档文档。
func (a *MongoArchive) Purge(ctx context.Context, sessionID string) error {
	_, err := a.collection.DeleteOne(ctx, bson.M{"_id": sessionID})
	if err != nil {
		return types.NewError(types.ErrStoreUnavailable, "failed to purge session history").WithCause(err)
	}
	return nil
}

// Close 断开 MongoDB 连接。
func (a *MongoArchive) Close(ctx context.Context) error {
	return a.client.Disconnect(ctx)
}
