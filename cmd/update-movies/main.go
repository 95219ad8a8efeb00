// Package main 观影数据更新命令
//
// 读取 CSV 中的观影链接和烂番茄数据，按标题（或 _id）逐条更新库内电影。
// 只更新 CSV 中非空的列，库内其余字段不受影响。
//
// 用法:
//
//	update-movies -csv data/watchdata.csv [-dry]
//
// CSV 格式（带表头，_id 与 Title 至少一列有值，其余列可留空）:
//
//	_id,Title,AppleTV,AmazonPrime,RT_Link,RT_Score
//	,Inception,https://tv.apple.com/...,,https://www.rottentomatoes.com/m/inception,87%
package main

import (
	"context"
	"encoding/csv"
	"errors"
	"flag"
	"log"
	"os"
	"strconv"
	"strings"

	"myflix-api/internal/config"
	"myflix-api/internal/shared/cache/redis"
	"myflix-api/internal/shared/storage"
	"myflix-api/internal/shared/storage/mongostore"
)

func main() {
	csvPath := flag.String("csv", "", "CSV file with watch data columns")
	dry := flag.Bool("dry", false, "parse and report but do not write to the database")
	flag.Parse()

	if *csvPath == "" {
		log.Fatal("usage: update-movies -csv <file> [-dry]")
	}

	cfg := config.Load()

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

	ctx := context.Background()

	var updated, empty, missing int
	for _, row := range rows {
		// 行定位：优先 _id，其次 Title
		key := row["_id"]
		if key == "" {
			key = row["Title"]
		}
		if key == "" {
			continue
		}

		upd := buildUpdate(row)
		if upd.Empty() {
			empty++
			continue
		}

		if *dry {
			log.Printf("[update] (dry) %s: %s", key, describe(upd))
			continue
		}

		if _, err := store.UpdateMovieWatchData(ctx, key, upd); err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				log.Printf("[update] %s: not in database", key)
				missing++
				continue
			}
			log.Fatalf("Failed to update %s: %v", key, err)
		}
		log.Printf("[update] %s: %s", key, describe(upd))
		updated++
	}

	if updated > 0 {
		invalidateCatalog(ctx, cfg.RedisURL)
	}
	log.Printf("Done: %d updated, %d rows without data, %d not found", updated, empty, missing)
}

// buildUpdate 把 CSV 行的非空列转换为更新字段
//
// 列名沿用原始数据导出的表头：_id, Title, AppleTV, AmazonPrime, RT_Link, RT_Score。
// RT_Score 既可能是 "85" 也可能是 "85%"，统一归一化为数值。
func buildUpdate(row map[string]string) storage.MovieWatchUpdate {
	var upd storage.MovieWatchUpdate
	if v := row["AppleTV"]; v != "" {
		upd.AppleTV = &v
	}
	if v := row["AmazonPrime"]; v != "" {
		upd.AmazonPrime = &v
	}
	if v := row["RT_Link"]; v != "" {
		upd.RTLink = &v
	}
	if v := row["RT_Score"]; v != "" {
		score, err := strconv.ParseFloat(strings.TrimSuffix(v, "%"), 64)
		if err != nil {
			log.Printf("[update] bad score %q for %s, skipping column", v, row["Title"])
		} else {
			upd.RTScore = &score
		}
	}
	return upd
}

// describe 列出本行将要更新的列名
func describe(upd storage.MovieWatchUpdate) string {
	var cols []string
	if upd.AppleTV != nil {
		cols = append(cols, "AppleTV")
	}
	if upd.AmazonPrime != nil {
		cols = append(cols, "AmazonPrime")
	}
	if upd.RTLink != nil {
		cols = append(cols, "RT link")
	}
	if upd.RTScore != nil {
		cols = append(cols, "RT score")
	}
	return strings.Join(cols, ", ")
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

// invalidateCatalog 更新后使目录缓存失效，Redis 未配置或失败时只记日志
func invalidateCatalog(ctx context.Context, redisURL string) {
	if redisURL == "" {
		return
	}
	c, err := redis.NewStoreFromURL(redisURL)
	if err != nil {
		log.Printf("[update] cache connect error: %v", err)
		return
	}
	defer c.Close()
	if err := c.Invalidate(ctx); err != nil {
		log.Printf("[update] cache invalidate error: %v", err)
	}
}
