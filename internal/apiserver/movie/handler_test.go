package movie

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"myflix-api/internal/apiserver/auth"
	"myflix-api/internal/shared/cache"
	"myflix-api/internal/shared/model"
	"myflix-api/internal/shared/storage"
)

// fakeStore 内存版电影存储
type fakeStore struct {
	movies    map[string]*model.Movie // keyed by ID
	listCalls int
}

func newFakeStore(movies ...*model.Movie) *fakeStore {
	s := &fakeStore{movies: map[string]*model.Movie{}}
	for _, m := range movies {
		s.movies[m.ID] = m
	}
	return s
}

func (s *fakeStore) ListMovies(_ context.Context) ([]*model.Movie, error) {
	s.listCalls++
	out := make([]*model.Movie, 0, len(s.movies))
	for _, m := range s.movies {
		out = append(out, m)
	}
	return out, nil
}

func (s *fakeStore) GetMovieByTitle(_ context.Context, title string) (*model.Movie, error) {
	for _, m := range s.movies {
		if m.Title == title {
			return m, nil
		}
	}
	return nil, nil
}

func (s *fakeStore) GetMovieByID(_ context.Context, id string) (*model.Movie, error) {
	return s.movies[id], nil
}

func (s *fakeStore) GetGenreByName(_ context.Context, name string) (*model.Genre, error) {
	for _, m := range s.movies {
		if m.Genre.Name == name {
			g := m.Genre
			return &g, nil
		}
	}
	return nil, nil
}

func (s *fakeStore) GetDirectorByName(_ context.Context, name string) (*model.Director, error) {
	for _, m := range s.movies {
		if m.Director.Name == name {
			d := m.Director
			return &d, nil
		}
	}
	return nil, nil
}

func (s *fakeStore) SetWatchLinks(_ context.Context, id string, links model.WatchLinks) (*model.Movie, error) {
	m, ok := s.movies[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	m.WatchLinks = links
	return m, nil
}

func (s *fakeStore) SetBackdrop(_ context.Context, id, backdropPath string) (*model.Movie, error) {
	m, ok := s.movies[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	m.BackdropPath = backdropPath
	return m, nil
}

func (s *fakeStore) SetReleaseYear(_ context.Context, id string, year int) (*model.Movie, error) {
	m, ok := s.movies[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	m.ReleaseYear = year
	return m, nil
}

func (s *fakeStore) SetRottenTomatoes(_ context.Context, id string, entry model.RottenTomatoesEntry) (*model.Movie, error) {
	m, ok := s.movies[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	m.RottenTomatoes = []model.RottenTomatoesEntry{entry}
	return m, nil
}

func (s *fakeStore) AppendComment(_ context.Context, id string, comment model.Comment) (*model.Movie, error) {
	m, ok := s.movies[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	m.Comments = append(m.Comments, comment)
	return m, nil
}

func (s *fakeStore) UpsertMovieByTitle(_ context.Context, movie *model.Movie) (bool, error) {
	for _, m := range s.movies {
		if m.Title == movie.Title {
			return false, nil
		}
	}
	s.movies[movie.ID] = movie
	return true, nil
}

func (s *fakeStore) UpdateMovieWatchData(_ context.Context, idOrTitle string, upd storage.MovieWatchUpdate) (*model.Movie, error) {
	if m, ok := s.movies[idOrTitle]; ok {
		return m, nil
	}
	return nil, storage.ErrNotFound
}

// fakeCache 内存版目录缓存
type fakeCache struct {
	movies      []*model.Movie
	invalidated int
}

func (c *fakeCache) GetMovieList(_ context.Context) ([]*model.Movie, error) {
	if c.movies == nil {
		return nil, cache.ErrMiss
	}
	return c.movies, nil
}

func (c *fakeCache) SetMovieList(_ context.Context, movies []*model.Movie) error {
	c.movies = movies
	return nil
}

func (c *fakeCache) Invalidate(_ context.Context) error {
	c.movies = nil
	c.invalidated++
	return nil
}

func (c *fakeCache) Close() error { return nil }

func inception() *model.Movie {
	return &model.Movie{
		ID:          "movie-1",
		Title:       "Inception",
		Description: "A thief who steals corporate secrets.",
		Genre:       model.Genre{Name: "Thriller", Description: "Edge of your seat."},
		Director:    model.Director{Name: "Christopher Nolan", Bio: "British-American director."},
		Actors:      []string{"Leonardo DiCaprio"},
	}
}

func TestList(t *testing.T) {
	t.Run("无缓存直接查库", func(t *testing.T) {
		h := NewHandler(newFakeStore(inception()), nil)
		w := httptest.NewRecorder()
		h.List(w, httptest.NewRequest("GET", "/movies", nil))

		if w.Code != 200 {
			t.Fatalf("status = %d", w.Code)
		}
		var movies []model.Movie
		if err := json.Unmarshal(w.Body.Bytes(), &movies); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if len(movies) != 1 || movies[0].Title != "Inception" {
			t.Errorf("movies = %+v", movies)
		}
	})

	t.Run("未命中回填后命中", func(t *testing.T) {
		store := newFakeStore(inception())
		c := &fakeCache{}
		h := NewHandler(store, c)

		h.List(httptest.NewRecorder(), httptest.NewRequest("GET", "/movies", nil))
		h.List(httptest.NewRecorder(), httptest.NewRequest("GET", "/movies", nil))

		if store.listCalls != 1 {
			t.Errorf("listCalls = %d, want 1 (second read served from cache)", store.listCalls)
		}
	})
}

func TestGetByTitle(t *testing.T) {
	h := NewHandler(newFakeStore(inception()), nil)

	t.Run("存在", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/movies/Inception", nil)
		r.SetPathValue("title", "Inception")
		w := httptest.NewRecorder()
		h.GetByTitle(w, r)
		if w.Code != 200 {
			t.Errorf("status = %d", w.Code)
		}
	})

	t.Run("不存在", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/movies/Nope", nil)
		r.SetPathValue("title", "Nope")
		w := httptest.NewRecorder()
		h.GetByTitle(w, r)
		if w.Code != 404 {
			t.Errorf("status = %d, want 404", w.Code)
		}
	})
}

func TestGetGenreAndDirector(t *testing.T) {
	h := NewHandler(newFakeStore(inception()), nil)

	t.Run("类型子文档", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/genre/Thriller", nil)
		r.SetPathValue("name", "Thriller")
		w := httptest.NewRecorder()
		h.GetGenre(w, r)

		if w.Code != 200 {
			t.Fatalf("status = %d", w.Code)
		}
		var g model.Genre
		if err := json.Unmarshal(w.Body.Bytes(), &g); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if g.Name != "Thriller" || g.Description == "" {
			t.Errorf("genre = %+v", g)
		}
	})

	t.Run("类型不存在", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/genre/Opera", nil)
		r.SetPathValue("name", "Opera")
		w := httptest.NewRecorder()
		h.GetGenre(w, r)
		if w.Code != 404 {
			t.Errorf("status = %d, want 404", w.Code)
		}
	})

	t.Run("导演子文档", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/director/Christopher%20Nolan", nil)
		r.SetPathValue("name", "Christopher Nolan")
		w := httptest.NewRecorder()
		h.GetDirector(w, r)

		if w.Code != 200 {
			t.Fatalf("status = %d", w.Code)
		}
		var d model.Director
		if err := json.Unmarshal(w.Body.Bytes(), &d); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if d.Name != "Christopher Nolan" {
			t.Errorf("director = %+v", d)
		}
	})
}

func TestAdminEdits(t *testing.T) {
	t.Run("观影链接", func(t *testing.T) {
		store := newFakeStore(inception())
		c := &fakeCache{movies: []*model.Movie{inception()}}
		h := NewHandler(store, c)

		r := httptest.NewRequest("PUT", "/movies/movie-1/watchlinks",
			strings.NewReader(`{"AppleTV":"https://tv.apple.com/x","AmazonPrime":"https://amazon.com/y"}`))
		r.SetPathValue("movieID", "movie-1")
		w := httptest.NewRecorder()
		h.SetWatchLinks(w, r)

		if w.Code != 200 {
			t.Fatalf("status = %d; body: %s", w.Code, w.Body.String())
		}
		if store.movies["movie-1"].WatchLinks.AppleTV != "https://tv.apple.com/x" {
			t.Errorf("WatchLinks = %+v", store.movies["movie-1"].WatchLinks)
		}
		// 编辑后列表缓存必须失效
		if c.invalidated != 1 {
			t.Errorf("invalidated = %d, want 1", c.invalidated)
		}
	})

	t.Run("背景图", func(t *testing.T) {
		store := newFakeStore(inception())
		h := NewHandler(store, nil)
		r := httptest.NewRequest("PUT", "/movies/movie-1/backdrop",
			strings.NewReader(`{"BackdropPath":"/bd.jpg"}`))
		r.SetPathValue("movieID", "movie-1")
		w := httptest.NewRecorder()
		h.SetBackdrop(w, r)

		if w.Code != 200 {
			t.Fatalf("status = %d", w.Code)
		}
		if store.movies["movie-1"].BackdropPath != "/bd.jpg" {
			t.Errorf("BackdropPath = %q", store.movies["movie-1"].BackdropPath)
		}
	})

	t.Run("背景图缺路径", func(t *testing.T) {
		h := NewHandler(newFakeStore(inception()), nil)
		r := httptest.NewRequest("PUT", "/movies/movie-1/backdrop", strings.NewReader(`{}`))
		r.SetPathValue("movieID", "movie-1")
		w := httptest.NewRecorder()
		h.SetBackdrop(w, r)
		if w.Code != 400 {
			t.Errorf("status = %d, want 400", w.Code)
		}
	})

	t.Run("上映年份", func(t *testing.T) {
		store := newFakeStore(inception())
		h := NewHandler(store, nil)
		r := httptest.NewRequest("PUT", "/movies/movie-1/year", strings.NewReader(`{"ReleaseYear":2010}`))
		r.SetPathValue("movieID", "movie-1")
		w := httptest.NewRecorder()
		h.SetYear(w, r)

		if w.Code != 200 {
			t.Fatalf("status = %d", w.Code)
		}
		if store.movies["movie-1"].ReleaseYear != 2010 {
			t.Errorf("ReleaseYear = %d", store.movies["movie-1"].ReleaseYear)
		}
	})

	t.Run("年份越界", func(t *testing.T) {
		h := NewHandler(newFakeStore(inception()), nil)
		r := httptest.NewRequest("PUT", "/movies/movie-1/year", strings.NewReader(`{"ReleaseYear":1500}`))
		r.SetPathValue("movieID", "movie-1")
		w := httptest.NewRecorder()
		h.SetYear(w, r)
		if w.Code != 400 {
			t.Errorf("status = %d, want 400", w.Code)
		}
	})

	t.Run("烂番茄评分", func(t *testing.T) {
		store := newFakeStore(inception())
		h := NewHandler(store, nil)
		r := httptest.NewRequest("PUT", "/movies/movie-1/rottontomatoes",
			strings.NewReader(`{"Score":"87%","NumericScore":87,"Link":"https://rottentomatoes.com/m/inception"}`))
		r.SetPathValue("movieID", "movie-1")
		w := httptest.NewRecorder()
		h.SetRottenTomatoes(w, r)

		if w.Code != 200 {
			t.Fatalf("status = %d", w.Code)
		}
		got := store.movies["movie-1"].RottenTomatoes
		if len(got) != 1 || got[0].Score != "87%" {
			t.Errorf("RottenTomatoes = %+v", got)
		}
	})

	t.Run("电影不存在", func(t *testing.T) {
		h := NewHandler(newFakeStore(), nil)
		r := httptest.NewRequest("PUT", "/movies/movie-404/backdrop",
			strings.NewReader(`{"BackdropPath":"/bd.jpg"}`))
		r.SetPathValue("movieID", "movie-404")
		w := httptest.NewRecorder()
		h.SetBackdrop(w, r)
		if w.Code != 404 {
			t.Errorf("status = %d, want 404", w.Code)
		}
	})
}

func TestComments(t *testing.T) {
	bob := &model.User{ID: "user-1", Username: "bob1"}

	postComment := func(h *Handler, user *model.User, movieID, body string) *httptest.ResponseRecorder {
		r := httptest.NewRequest("POST", "/movies/"+movieID+"/comments", strings.NewReader(body))
		r.SetPathValue("movieID", movieID)
		if user != nil {
			r = r.WithContext(auth.WithUser(r.Context(), user))
		}
		w := httptest.NewRecorder()
		h.AddComment(w, r)
		return w
	}

	t.Run("评论人取自令牌用户", func(t *testing.T) {
		store := newFakeStore(inception())
		c := &fakeCache{movies: []*model.Movie{inception()}}
		h := NewHandler(store, c)

		w := postComment(h, bob, "movie-1", `{"Content":"Great movie","Rating":5,"Username":"mallory"}`)
		if w.Code != 201 {
			t.Fatalf("status = %d; body: %s", w.Code, w.Body.String())
		}

		comments := store.movies["movie-1"].Comments
		if len(comments) != 1 {
			t.Fatalf("comments = %+v", comments)
		}
		if comments[0].Username != "bob1" {
			t.Errorf("Username = %q, want bob1 (request body must not override)", comments[0].Username)
		}
		if comments[0].PostedAt.IsZero() {
			t.Error("PostedAt not set")
		}
		if c.invalidated != 1 {
			t.Errorf("invalidated = %d, want 1", c.invalidated)
		}
	})

	t.Run("评分越界", func(t *testing.T) {
		h := NewHandler(newFakeStore(inception()), nil)
		for _, body := range []string{
			`{"Content":"x","Rating":0}`,
			`{"Content":"x","Rating":6}`,
			`{"Rating":3}`,
		} {
			if w := postComment(h, bob, "movie-1", body); w.Code != 400 {
				t.Errorf("body %s: status = %d, want 400", body, w.Code)
			}
		}
	})

	t.Run("电影不存在", func(t *testing.T) {
		h := NewHandler(newFakeStore(), nil)
		w := postComment(h, bob, "movie-404", `{"Content":"x","Rating":3}`)
		if w.Code != 404 {
			t.Errorf("status = %d, want 404", w.Code)
		}
	})

	t.Run("读取评论", func(t *testing.T) {
		store := newFakeStore(inception())
		h := NewHandler(store, nil)
		postComment(h, bob, "movie-1", `{"Content":"Great","Rating":5}`)

		r := httptest.NewRequest("GET", "/movies/movie-1/comments", nil)
		r.SetPathValue("movieID", "movie-1")
		w := httptest.NewRecorder()
		h.ListComments(w, r)

		if w.Code != 200 {
			t.Fatalf("status = %d", w.Code)
		}
		var comments []model.Comment
		if err := json.Unmarshal(w.Body.Bytes(), &comments); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if len(comments) != 1 || comments[0].Content != "Great" {
			t.Errorf("comments = %+v", comments)
		}
	})

	t.Run("无评论返回空数组", func(t *testing.T) {
		h := NewHandler(newFakeStore(inception()), nil)
		r := httptest.NewRequest("GET", "/movies/movie-1/comments", nil)
		r.SetPathValue("movieID", "movie-1")
		w := httptest.NewRecorder()
		h.ListComments(w, r)

		if strings.TrimSpace(w.Body.String()) != "[]" {
			t.Errorf("body = %q, want []", w.Body.String())
		}
	})
}
