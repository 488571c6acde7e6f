package mongo

import (
	"context"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MessageRepo interface {
	Insert(ctx context.Context, msg *Message) error
	ListByChat(ctx context.Context, chatID string) ([]*Message, error)
}

type messageRepoImpl struct {
	col *mongo.Collection
}

func NewMessageRepo(db *mongo.Database) MessageRepo {
	return &messageRepoImpl{col: db.Collection(ColMessages)}
}

// Insert 写入消息。主键冲突视为重复导入（如重复 accept），直接去重返回成功
func (s *messageRepoImpl) Insert(ctx context.Context, msg *Message) error {
	_, err := s.col.InsertOne(ctx, msg)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil
		}
		return errors.Wrap(err, "insert message")
	}
	return nil
}

// ListByChat 按创建时间升序取会话内全部消息，_id 作为稳定 tiebreak
func (s *messageRepoImpl) ListByChat(ctx context.Context, chatID string) ([]*Message, error) {
	findOptions := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})

	cursor, err := s.col.Find(ctx, bson.M{"chat_id": chatID}, findOptions)
	if err != nil {
		return nil, errors.Wrap(err, "list messages")
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	var messages []*Message
	if err := cursor.All(ctx, &messages); err != nil {
		return nil, errors.Wrap(err, "decode messages")
	}
	return messages, nil
}
