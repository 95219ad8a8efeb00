package mongostore

import (
	"context"
	"time"

	"myflix-api/internal/shared/model"
	"myflix-api/internal/shared/storage"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// ============================================================================
// UserStore
// ============================================================================

func (s *Store) CreateUser(ctx context.Context, user *model.User) error {
	return insertOne(ctx, s.col(ColUsers), user)
}

func (s *Store) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	return findOne[model.User](ctx, s.col(ColUsers), bson.D{{Key: "Username", Value: username}})
}

func (s *Store) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	return findOne[model.User](ctx, s.col(ColUsers), bson.D{{Key: "_id", Value: id}})
}

func (s *Store) ListUsers(ctx context.Context) ([]*model.User, error) {
	opts := options.Find().SetSort(bson.D{{Key: "CreatedAt", Value: -1}})
	return findMany[model.User](ctx, s.col(ColUsers), bson.D{}, opts)
}

func (s *Store) UpdateUser(ctx context.Context, username string, upd storage.UserUpdate) (*model.User, error) {
	set := bson.D{{Key: "UpdatedAt", Value: time.Now()}}
	if upd.Username != nil {
		set = append(set, bson.E{Key: "Username", Value: *upd.Username})
	}
	if upd.PasswordHash != nil {
		set = append(set, bson.E{Key: "Password", Value: *upd.PasswordHash})
	}
	if upd.Email != nil {
		set = append(set, bson.E{Key: "Email", Value: *upd.Email})
	}
	if upd.Birthday != nil {
		set = append(set, bson.E{Key: "Birthday", Value: *upd.Birthday})
	}
	if upd.IsAdmin != nil {
		set = append(set, bson.E{Key: "Admin", Value: *upd.IsAdmin})
	}

	return findOneAndUpdate[model.User](ctx, s.col(ColUsers),
		bson.D{{Key: "Username", Value: username}},
		bson.D{{Key: "$set", Value: set}})
}

func (s *Store) DeleteUserByUsername(ctx context.Context, username string) error {
	res, err := s.col(ColUsers).DeleteOne(ctx, bson.D{{Key: "Username", Value: username}})
	if err != nil {
		return wrapError(err)
	}
	if res.DeletedCount == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// AddFavorite $push 追加收藏，允许重复条目
func (s *Store) AddFavorite(ctx context.Context, username, movieID string) (*model.User, error) {
	return findOneAndUpdate[model.User](ctx, s.col(ColUsers),
		bson.D{{Key: "Username", Value: username}},
		bson.D{
			{Key: "$push", Value: bson.D{{Key: "FavoriteMovies", Value: movieID}}},
			{Key: "$set", Value: bson.D{{Key: "UpdatedAt", Value: time.Now()}}},
		})
}

// RemoveFavorite $pull 移除收藏（同 ID 的重复条目一并删除）
func (s *Store) RemoveFavorite(ctx context.Context, username, movieID string) (*model.User, error) {
	return findOneAndUpdate[model.User](ctx, s.col(ColUsers),
		bson.D{{Key: "Username", Value: username}},
		bson.D{
			{Key: "$pull", Value: bson.D{{Key: "FavoriteMovies", Value: movieID}}},
			{Key: "$set", Value: bson.D{{Key: "UpdatedAt", Value: time.Now()}}},
		})
}
