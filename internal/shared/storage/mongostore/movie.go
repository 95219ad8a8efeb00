package mongostore

import (
	"context"
	"strconv"

	"myflix-api/internal/shared/model"
	"myflix-api/internal/shared/storage"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// ============================================================================
// MovieStore
// ============================================================================

func (s *Store) ListMovies(ctx context.Context) ([]*model.Movie, error) {
	opts := options.Find().SetSort(bson.D{{Key: "Title", Value: 1}})
	return findMany[model.Movie](ctx, s.col(ColMovies), bson.D{}, opts)
}

func (s *Store) GetMovieByTitle(ctx context.Context, title string) (*model.Movie, error) {
	return findOne[model.Movie](ctx, s.col(ColMovies), bson.D{{Key: "Title", Value: title}})
}

func (s *Store) GetMovieByID(ctx context.Context, id string) (*model.Movie, error) {
	return findOne[model.Movie](ctx, s.col(ColMovies), bson.D{{Key: "_id", Value: id}})
}

func (s *Store) GetGenreByName(ctx context.Context, name string) (*model.Genre, error) {
	movie, err := findOne[model.Movie](ctx, s.col(ColMovies), bson.D{{Key: "Genre.Name", Value: name}})
	if err != nil || movie == nil {
		return nil, err
	}
	return &movie.Genre, nil
}

func (s *Store) GetDirectorByName(ctx context.Context, name string) (*model.Director, error) {
	movie, err := findOne[model.Movie](ctx, s.col(ColMovies), bson.D{{Key: "Director.Name", Value: name}})
	if err != nil || movie == nil {
		return nil, err
	}
	return &movie.Director, nil
}

func (s *Store) SetWatchLinks(ctx context.Context, id string, links model.WatchLinks) (*model.Movie, error) {
	return s.setMovieFields(ctx, id, bson.D{{Key: "WatchLinks", Value: links}})
}

func (s *Store) SetBackdrop(ctx context.Context, id, backdropPath string) (*model.Movie, error) {
	return s.setMovieFields(ctx, id, bson.D{{Key: "BackdropPath", Value: backdropPath}})
}

func (s *Store) SetReleaseYear(ctx context.Context, id string, year int) (*model.Movie, error) {
	return s.setMovieFields(ctx, id, bson.D{{Key: "ReleaseYear", Value: year}})
}

func (s *Store) SetRottenTomatoes(ctx context.Context, id string, entry model.RottenTomatoesEntry) (*model.Movie, error) {
	return s.setMovieFields(ctx, id, bson.D{
		{Key: "RottonTomatoes", Value: []model.RottenTomatoesEntry{entry}},
	})
}

func (s *Store) AppendComment(ctx context.Context, id string, comment model.Comment) (*model.Movie, error) {
	return findOneAndUpdate[model.Movie](ctx, s.col(ColMovies),
		bson.D{{Key: "_id", Value: id}},
		bson.D{{Key: "$push", Value: bson.D{{Key: "Comments", Value: comment}}}})
}

// UpsertMovieByTitle 按 Title 插入，已存在的文档保持不动
//
// Title 由查询条件提供，$setOnInsert 不能重复设置同一路径，
// 因此插入字段逐一列出。
func (s *Store) UpsertMovieByTitle(ctx context.Context, movie *model.Movie) (bool, error) {
	onInsert := bson.D{
		{Key: "_id", Value: movie.ID},
		{Key: "Description", Value: movie.Description},
		{Key: "Genre", Value: movie.Genre},
		{Key: "Director", Value: movie.Director},
		{Key: "Actors", Value: movie.Actors},
		{Key: "Featured", Value: movie.Featured},
		{Key: "Comments", Value: []model.Comment{}},
	}
	if movie.ImagePath != "" {
		onInsert = append(onInsert, bson.E{Key: "ImagePath", Value: movie.ImagePath})
	}
	if movie.BackdropPath != "" {
		onInsert = append(onInsert, bson.E{Key: "BackdropPath", Value: movie.BackdropPath})
	}
	if movie.ReleaseYear != 0 {
		onInsert = append(onInsert, bson.E{Key: "ReleaseYear", Value: movie.ReleaseYear})
	}

	res, err := s.col(ColMovies).UpdateOne(ctx,
		bson.D{{Key: "Title", Value: movie.Title}},
		bson.D{{Key: "$setOnInsert", Value: onInsert}},
		options.UpdateOne().SetUpsert(true))
	if err != nil {
		return false, wrapError(err)
	}
	return res.UpsertedCount > 0, nil
}

// UpdateMovieWatchData 按 _id 或 Title 更新观影链接/烂番茄字段
//
// 沿用原始数据的点路径写法（WatchLinks.*、RottonTomatoes.0.*），
// 百分比字符串 Score 由 NumericScore 推导。
func (s *Store) UpdateMovieWatchData(ctx context.Context, idOrTitle string, upd storage.MovieWatchUpdate) (*model.Movie, error) {
	set := bson.D{}
	if upd.AppleTV != nil {
		set = append(set, bson.E{Key: "WatchLinks.AppleTV", Value: *upd.AppleTV})
	}
	if upd.AmazonPrime != nil {
		set = append(set, bson.E{Key: "WatchLinks.AmazonPrime", Value: *upd.AmazonPrime})
	}
	if upd.RTLink != nil {
		set = append(set, bson.E{Key: "RottonTomatoes.0.Link", Value: *upd.RTLink})
	}
	if upd.RTScore != nil {
		set = append(set,
			bson.E{Key: "RottonTomatoes.0.NumericScore", Value: *upd.RTScore},
			bson.E{Key: "RottonTomatoes.0.Score", Value: formatPercent(*upd.RTScore)},
		)
	}
	if len(set) == 0 {
		return s.GetMovieByID(ctx, idOrTitle)
	}

	filter := bson.D{{Key: "$or", Value: bson.A{
		bson.D{{Key: "_id", Value: idOrTitle}},
		bson.D{{Key: "Title", Value: idOrTitle}},
	}}}
	return findOneAndUpdate[model.Movie](ctx, s.col(ColMovies), filter,
		bson.D{{Key: "$set", Value: set}})
}

// setMovieFields 按 _id 更新电影字段并返回更新后的文档
func (s *Store) setMovieFields(ctx context.Context, id string, set bson.D) (*model.Movie, error) {
	return findOneAndUpdate[model.Movie](ctx, s.col(ColMovies),
		bson.D{{Key: "_id", Value: id}},
		bson.D{{Key: "$set", Value: set}})
}

// formatPercent 85 -> "85%"，84.5 -> "84.5%"
func formatPercent(score float64) string {
	return strconv.FormatFloat(score, 'f', -1, 64) + "%"
}
