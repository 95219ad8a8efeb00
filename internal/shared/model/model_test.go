package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestUser_PasswordHashNeverSerialized 验证密码哈希不会出现在 JSON 输出中
func TestUser_PasswordHashNeverSerialized(t *testing.T) {
	u := User{
		ID:           "user-abc123def456",
		Username:     "bob1",
		PasswordHash: "$2a$10$abcdefghijklmnopqrstuv",
		Email:        "b@x.com",
	}

	data, err := json.Marshal(u)
	require.NoError(t, err)

	var m map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &m))

	assert.NotContains(t, string(data), "$2a$10$")
	assert.NotContains(t, m, "Password")
	assert.Equal(t, "bob1", m["Username"])
}

// TestUser_FavoritesKeepOrderAndDuplicates 收藏列表保序且允许重复
func TestUser_FavoritesKeepOrderAndDuplicates(t *testing.T) {
	u := User{FavoriteMovieIDs: []string{"movie-1", "movie-2", "movie-1"}}

	data, err := json.Marshal(u)
	require.NoError(t, err)

	var got User
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, []string{"movie-1", "movie-2", "movie-1"}, got.FavoriteMovieIDs)
}

// TestMovie_LegacyJSONKeys 验证沿用原始文档的键名（含 RottonTomatoes 拼写）
func TestMovie_LegacyJSONKeys(t *testing.T) {
	m := Movie{
		ID:          "movie-abc123def456",
		Title:       "Chicago",
		Description: "A musical.",
		RottenTomatoes: []RottenTomatoesEntry{
			{Score: "85%", NumericScore: 85, Link: "https://www.rottentomatoes.com/m/chicago"},
		},
		Comments: []Comment{
			{Username: "bob1", Content: "great", Rating: 5, PostedAt: time.Now()},
		},
	}

	data, err := json.Marshal(m)
	require.NoError(t, err)

	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &raw))

	assert.Contains(t, raw, "RottonTomatoes")
	assert.NotContains(t, raw, "RottenTomatoes")
	assert.Contains(t, raw, "Title")
	assert.Contains(t, raw, "Comments")
}
