package mongo

import (
	"Chillz/internal/pkg/consts"
	"context"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type PresenceRepo interface {
	Upsert(ctx context.Context, p *Presence) error
	Get(ctx context.Context, uid string) (*Presence, error)
	GetMany(ctx context.Context, uids []string) ([]*Presence, error)
	MarkStaleOffline(ctx context.Context, olderThan time.Time) ([]string, error)
}

type presenceRepoImpl struct {
	col *mongo.Collection
}

func NewPresenceRepo(db *mongo.Database) PresenceRepo {
	return &presenceRepoImpl{col: db.Collection(ColPresence)}
}

// Upsert 每次状态变化或心跳都整条覆盖
func (s *presenceRepoImpl) Upsert(ctx context.Context, p *Presence) error {
	_, err := s.col.ReplaceOne(ctx, bson.M{"_id": p.UID}, p, options.Replace().SetUpsert(true))
	return errors.Wrap(err, "upsert presence")
}

// Get 点查单个用户状态，不存在返回 (nil, nil)
func (s *presenceRepoImpl) Get(ctx context.Context, uid string) (*Presence, error) {
	var p Presence
	err := s.col.FindOne(ctx, bson.M{"_id": uid}).Decode(&p)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "get presence")
	}
	return &p, nil
}

// GetMany 批量点查。调用方负责限制 uids 数量（见服务层上限）
func (s *presenceRepoImpl) GetMany(ctx context.Context, uids []string) ([]*Presence, error) {
	cursor, err := s.col.Find(ctx, bson.M{"_id": bson.M{"$in": uids}})
	if err != nil {
		return nil, errors.Wrap(err, "get presence batch")
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	var records []*Presence
	if err := cursor.All(ctx, &records); err != nil {
		return nil, errors.Wrap(err, "decode presence batch")
	}
	return records, nil
}

// MarkStaleOffline 将心跳超时的 online/away 记录置为 offline，返回受影响的 UID
func (s *presenceRepoImpl) MarkStaleOffline(ctx context.Context, olderThan time.Time) ([]string, error) {
	filter := bson.M{
		"state":     bson.M{"$in": []string{consts.PresenceOnline, consts.PresenceAway}},
		"last_seen": bson.M{"$lt": olderThan},
	}

	cursor, err := s.col.Find(ctx, filter, options.Find().SetProjection(bson.M{"_id": 1}))
	if err != nil {
		return nil, errors.Wrap(err, "find stale presence")
	}
	var stale []struct {
		UID string `bson:"_id"`
	}
	if err := cursor.All(ctx, &stale); err != nil {
		return nil, errors.Wrap(err, "decode stale presence")
	}
	if len(stale) == 0 {
		return nil, nil
	}

	uids := make([]string, 0, len(stale))
	for _, s := range stale {
		uids = append(uids, s.UID)
	}

	_, err = s.col.UpdateMany(ctx,
		bson.M{"_id": bson.M{"$in": uids}},
		bson.M{"$set": bson.M{"state": consts.PresenceOffline, "updated_at": time.Now()}},
	)
	if err != nil {
		return nil, errors.Wrap(err, "mark presence offline")
	}
	return uids, nil
}
