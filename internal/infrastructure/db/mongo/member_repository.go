package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/craftmarket/auth-api/internal/core/domain"
)

const (
	memberCollection  = "members"
	counterCollection = "counters"
	memberIDCounter   = "member_id"
)

type MongoMemberRepository struct {
	coll     *mongo.Collection
	counters *mongo.Collection
}

func NewMemberRepository(db *mongo.Database) *MongoMemberRepository {
	return &MongoMemberRepository{
		coll:     db.Collection(memberCollection),
		counters: db.Collection(counterCollection),
	}
}

type mongoMember struct {
	MemberID          int64  `bson:"member_id"`
	Email             string `bson:"email"`
	Nickname          string `bson:"nickname"`
	PasswordHash      string `bson:"password_hash"`
	Role              string `bson:"role"`
	PasswordChangedAt int64  `bson:"password_changed_at"`
	CreatedAt         int64  `bson:"created_at"`
	UpdatedAt         int64  `bson:"updated_at"`
}

// EnsureIndexes creates the unique indexes backing member identity. Call once
// at startup.
func (r *MongoMemberRepository) EnsureIndexes(ctx context.Context) error {
	unique := options.Index().SetUnique(true)
	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "member_id", Value: 1}}, Options: unique},
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: unique},
		{Keys: bson.D{{Key: "nickname", Value: 1}}, Options: unique},
	})
	if err != nil {
		return fmt.Errorf("create member indexes: %w", err)
	}
	return nil
}

func (r *MongoMemberRepository) Create(ctx context.Context, member *domain.Member) (*domain.Member, error) {
	id, err := r.nextID(ctx)
	if err != nil {
		return nil, err
	}

	doc := mongoMember{
		MemberID:          id,
		Email:             member.Email,
		Nickname:          member.Nickname,
		PasswordHash:      member.PasswordHash,
		Role:              member.Role,
		PasswordChangedAt: member.PasswordChangedAt.Unix(),
		CreatedAt:         member.CreatedAt.Unix(),
		UpdatedAt:         member.UpdatedAt.Unix(),
	}

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrMemberExists
		}
		return nil, fmt.Errorf("insert member: %w", err)
	}

	created := *member
	created.ID = id
	return &created, nil
}

func (r *MongoMemberRepository) FindByEmail(ctx context.Context, email string) (*domain.Member, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *MongoMemberRepository) FindByID(ctx context.Context, id int64) (*domain.Member, error) {
	return r.findOne(ctx, bson.M{"member_id": id})
}

func (r *MongoMemberRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return r.exists(ctx, bson.M{"email": email})
}

func (r *MongoMemberRepository) ExistsByNickname(ctx context.Context, nickname string) (bool, error) {
	return r.exists(ctx, bson.M{"nickname": nickname})
}

func (r *MongoMemberRepository) UpdatePassword(ctx context.Context, id int64, passwordHash string, changedAt time.Time) error {
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"member_id": id},
		bson.M{"$set": bson.M{
			"password_hash":       passwordHash,
			"password_changed_at": changedAt.Unix(),
			"updated_at":          changedAt.Unix(),
		}},
	)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrMemberNotFound
	}
	return nil
}

func (r *MongoMemberRepository) List(ctx context.Context) ([]*domain.Member, error) {
	cursor, err := r.coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "member_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	defer cursor.Close(ctx)

	var members []*domain.Member
	for cursor.Next(ctx) {
		var mm mongoMember
		if err := cursor.Decode(&mm); err != nil {
			return nil, fmt.Errorf("decode member: %w", err)
		}
		members = append(members, fromMongoMember(&mm))
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	return members, nil
}

func (r *MongoMemberRepository) findOne(ctx context.Context, filter bson.M) (*domain.Member, error) {
	var mm mongoMember
	if err := r.coll.FindOne(ctx, filter).Decode(&mm); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrMemberNotFound
		}
		return nil, fmt.Errorf("find member: %w", err)
	}
	return fromMongoMember(&mm), nil
}

func (r *MongoMemberRepository) exists(ctx context.Context, filter bson.M) (bool, error) {
	n, err := r.coll.CountDocuments(ctx, filter, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("count members: %w", err)
	}
	return n > 0, nil
}

// nextID allocates a monotonically increasing member id from the counters
// collection. Mongo has no sequences; the upserted $inc is the standard
// substitute.
func (r *MongoMemberRepository) nextID(ctx context.Context) (int64, error) {
	var doc struct {
		Seq int64 `bson:"seq"`
	}
	err := r.counters.FindOneAndUpdate(ctx,
		bson.M{"_id": memberIDCounter},
		bson.M{"$inc": bson.M{"seq": int64(1)}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		return 0, fmt.Errorf("allocate member id: %w", err)
	}
	return doc.Seq, nil
}

func fromMongoMember(mm *mongoMember) *domain.Member {
	return &domain.Member{
		ID:                mm.MemberID,
		Email:             mm.Email,
		Nickname:          mm.Nickname,
		PasswordHash:      mm.PasswordHash,
		Role:              mm.Role,
		PasswordChangedAt: unixToTime(mm.PasswordChangedAt),
		CreatedAt:         unixToTime(mm.CreatedAt),
		UpdatedAt:         unixToTime(mm.UpdatedAt),
	}
}

func unixToTime(ts int64) time.Time {
	if ts == 0 {
		return time.Time{}
	}
	return time.Unix(ts, 0).UTC()
}
