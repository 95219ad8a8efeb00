// Package main 电影导入命令
//
// 读取 CSV 中的电影标题，从 TMDB 补全元数据后按标题 upsert 入库。
// 已存在的标题不做任何改动，重复执行是幂等的。
//
// 用法:
//
//	seed-movies -csv data/movies.csv [-dry]
//
// CSV 格式（带表头）:
//
//	Title,Year
//	Inception,2010
package main

import (
	"context"
	"crypto/rand"
	"encoding/csv"
	"encoding/hex"
	"flag"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"myflix-api/internal/config"
	"myflix-api/internal/shared/cache/redis"
	"myflix-api/internal/shared/model"
	"myflix-api/internal/shared/storage/mongostore"
	"myflix-api/internal/tmdb"
)

func main() {
	csvPath := flag.String("csv", "", "CSV file with Title,Year columns")
	dry := flag.Bool("dry", false, "resolve metadata but do not write to the database")
	flag.Parse()

	if *csvPath == "" {
		log.Fatal("usage: seed-movies -csv <file> [-dry]")
	}

	cfg := config.Load()
	if cfg.TMDBKey == "" {
		log.Fatal("TMDB_KEY is required")
	}

	rows, err := readCSV(*csvPath)
	if err != nil {
		log.Fatalf("Failed to read CSV: %v", err)
	}
	log.Printf("Loaded %d rows from %s", len(rows), *csvPath)

	store, err := mongostore.NewStore(cfg.MongoURI, cfg.DatabaseName)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer store.Close()

	client := tmdb.NewClient(cfg.TMDBKey)
	ctx := context.Background()

	var created, skipped, missed int
	for _, row := range rows {
		title := row["Title"]
		if title == "" {
			continue
		}
		year, _ := strconv.Atoi(row["Year"])

		movie, err := resolveMovie(ctx, client, title, year)
		if err != nil {
			log.Printf("[seed] %s: %v", title, err)
			missed++
			continue
		}
		if movie == nil {
			log.Printf("[seed] %s: no TMDB match", title)
			missed++
			continue
		}

		if *dry {
			log.Printf("[seed] (dry) %s directed by %s", movie.Title, movie.Director.Name)
			continue
		}

		inserted, err := store.UpsertMovieByTitle(ctx, movie)
		if err != nil {
			log.Fatalf("Failed to upsert %s: %v", title, err)
		}
		if inserted {
			log.Printf("[seed] created %s (%s)", movie.Title, movie.ID)
			created++
		} else {
			log.Printf("[seed] exists %s, left untouched", movie.Title)
			skipped++
		}

		// TMDB 免费档限流 ~50 req/s，导入不追求速度
		time.Sleep(250 * time.Millisecond)
	}

	if created > 0 {
		invalidateCatalog(ctx, cfg.RedisURL)
	}
	log.Printf("Done: %d created, %d already present, %d unresolved", created, skipped, missed)
}

// resolveMovie 从 TMDB 搜索并拉取详情，组装电影文档；无匹配时返回 (nil, nil)
func resolveMovie(ctx context.Context, client *tmdb.Client, title string, year int) (*model.Movie, error) {
	hit, err := client.SearchMovie(ctx, title, year)
	if err != nil {
		return nil, err
	}
	if hit == nil {
		return nil, nil
	}

	details, err := client.GetMovieDetails(ctx, hit.ID)
	if err != nil {
		return nil, err
	}

	description := details.Overview
	if description == "" {
		// Description 是必填字段，TMDB 偶尔缺简介
		description = "No description available."
	}

	movie := &model.Movie{
		ID:          generateID("movie"),
		Title:       title, // 沿用 CSV 中的标题，保证与库内查询一致
		Description: description,
		Director: model.Director{
			Name:  details.Director(),
			Image: tmdb.ImageURL(details.DirectorProfile(), "w500"),
		},
		Actors:       details.TopCast(5),
		ImagePath:    tmdb.ImageURL(details.PosterPath, "w780"),
		BackdropPath: tmdb.ImageURL(details.BackdropPath, "original"),
		ReleaseYear:  hit.ReleaseYear(),
		Comments:     []model.Comment{},
	}
	if len(details.Genres) > 0 {
		movie.Genre = model.Genre{Name: details.Genres[0].Name}
	}
	return movie, nil
}

// readCSV 读取带表头的 CSV，返回列名到值的映射列表
func readCSV(path string) ([]map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return nil, nil
	}

	header := records[0]
	rows := make([]map[string]string, 0, len(records)-1)
	for _, rec := range records[1:] {
		row := make(map[string]string, len(header))
		for i, col := range header {
			if i < len(rec) {
				row[strings.TrimSpace(col)] = strings.TrimSpace(rec[i])
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// invalidateCatalog 导入后使目录缓存失效，Redis 未配置或失败时只记日志
func invalidateCatalog(ctx context.Context, redisURL string) {
	if redisURL == "" {
		return
	}
	c, err := redis.NewStoreFromURL(redisURL)
	if err != nil {
		log.Printf("[seed] cache connect error: %v", err)
		return
	}
	defer c.Close()
	if err := c.Invalidate(ctx); err != nil {
		log.Printf("[seed] cache invalidate error: %v", err)
	}
}

func generateID(prefix string) string {
	b := make([]byte, 6)
	rand.Read(b)
	return prefix + "-" + hex.EncodeToString(b)
}
