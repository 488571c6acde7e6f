package mongo

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type ChatRepo interface {
	Get(ctx context.Context, chatID string) (*Chat, error)
	Create(ctx context.Context, chat *Chat) error
	Merge(ctx context.Context, chat *Chat) error
	UpdateSummary(ctx context.Context, chatID, lastText, senderUID string, at time.Time) error
	ListByMember(ctx context.Context, uid string) ([]*Chat, error)
}

type chatRepoImpl struct {
	col *mongo.Collection
}

func NewChatRepo(db *mongo.Database) ChatRepo {
	return &chatRepoImpl{col: db.Collection(ColChats)}
}

// Get 点查会话，不存在时返回 (nil, nil)
func (s *chatRepoImpl) Get(ctx context.Context, chatID string) (*Chat, error) {
	var chat Chat
	err := s.col.FindOne(ctx, bson.M{"_id": chatID}).Decode(&chat)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "get chat")
	}
	return &chat, nil
}

// Create 仅在会话不存在时写入全部字段，已存在则原样保留（幂等创建）
func (s *chatRepoImpl) Create(ctx context.Context, chat *Chat) error {
	update := bson.M{
		"$setOnInsert": bson.M{
			"type":              chat.Type,
			"member_uids":       chat.MemberUIDs,
			"member_meta":       chat.MemberMeta,
			"last_message_text": chat.LastMessageText,
			"last_sender_uid":   chat.LastSenderUID,
			"last_message_at":   chat.LastMessageAt,
			"created_at":        chat.CreatedAt,
		},
	}
	_, err := s.col.UpdateOne(ctx, bson.M{"_id": chat.ID}, update, options.Update().SetUpsert(true))
	return errors.Wrap(err, "create chat")
}

// Merge 接受路径使用的合并写：摘要与成员快照覆盖，
// 不可变字段仅在首次写入时落盘。重试写入相同内容无副作用
func (s *chatRepoImpl) Merge(ctx context.Context, chat *Chat) error {
	update := bson.M{
		"$set": bson.M{
			"member_meta":       chat.MemberMeta,
			"last_message_text": chat.LastMessageText,
			"last_sender_uid":   chat.LastSenderUID,
			"last_message_at":   chat.LastMessageAt,
		},
		"$setOnInsert": bson.M{
			"type":        chat.Type,
			"member_uids": chat.MemberUIDs,
			"created_at":  chat.CreatedAt,
		},
	}
	_, err := s.col.UpdateOne(ctx, bson.M{"_id": chat.ID}, update, options.Update().SetUpsert(true))
	return errors.Wrap(err, "merge chat")
}

// UpdateSummary 每次消息追加后刷新会话摘要
func (s *chatRepoImpl) UpdateSummary(ctx context.Context, chatID, lastText, senderUID string, at time.Time) error {
	update := bson.M{
		"$set": bson.M{
			"last_message_text": lastText,
			"last_sender_uid":   senderUID,
			"last_message_at":   at,
		},
	}
	_, err := s.col.UpdateOne(ctx, bson.M{"_id": chatID}, update)
	return errors.Wrap(err, "update chat summary")
}

// ListByMember 查询用户参与的所有会话。此查询不排序，
// 最近活跃优先由服务层按 last_message_at 排序（缺少复合索引的折衷）
func (s *chatRepoImpl) ListByMember(ctx context.Context, uid string) ([]*Chat, error) {
	cursor, err := s.col.Find(ctx, bson.M{"member_uids": uid})
	if err != nil {
		return nil, errors.Wrap(err, "list chats")
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	var chats []*Chat
	if err := cursor.All(ctx, &chats); err != nil {
		return nil, errors.Wrap(err, "decode chats")
	}
	return chats, nil
}
