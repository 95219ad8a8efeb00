package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"myflix-api/internal/tmdb"
)

func newTMDBStub(t *testing.T, overview string) *tmdb.Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/search/movie":
			w.Write([]byte(`{"results":[{"id":27205,"title":"Inception","release_date":"2010-07-15","poster_path":"/p.jpg","backdrop_path":"/bd.jpg"}]}`))
		case strings.HasPrefix(r.URL.Path, "/movie/"):
			w.Write([]byte(`{
				"id":27205,"title":"Inception","overview":"` + overview + `","poster_path":"/p.jpg","backdrop_path":"/bd.jpg",
				"genres":[{"id":53,"name":"Thriller"}],
				"credits":{
					"cast":[
						{"name":"Leonardo DiCaprio","order":0},{"name":"Joseph Gordon-Levitt","order":1},
						{"name":"Elliot Page","order":2},{"name":"Tom Hardy","order":3},
						{"name":"Ken Watanabe","order":4},{"name":"Cillian Murphy","order":5}
					],
					"crew":[{"name":"Christopher Nolan","job":"Director","profile_path":"/nolan.jpg"}]
				}
			}`))
		default:
			t.Errorf("unexpected path %q", r.URL.Path)
			w.WriteHeader(404)
		}
	}))
	t.Cleanup(srv.Close)
	return tmdb.NewClientWithBaseURL("test-key", srv.URL, srv.Client())
}

func TestResolveMovie(t *testing.T) {
	t.Run("完整映射", func(t *testing.T) {
		client := newTMDBStub(t, "A thief who steals corporate secrets.")
		movie, err := resolveMovie(context.Background(), client, "Inception", 2010)
		if err != nil {
			t.Fatalf("resolveMovie: %v", err)
		}
		if movie == nil {
			t.Fatal("movie = nil")
		}

		if movie.Title != "Inception" {
			t.Errorf("Title = %q", movie.Title)
		}
		if movie.Description != "A thief who steals corporate secrets." {
			t.Errorf("Description = %q", movie.Description)
		}
		if movie.Director.Name != "Christopher Nolan" {
			t.Errorf("Director.Name = %q", movie.Director.Name)
		}
		if movie.Director.Image != "https://image.tmdb.org/t/p/w500/nolan.jpg" {
			t.Errorf("Director.Image = %q", movie.Director.Image)
		}
		// 前五位主演
		if len(movie.Actors) != 5 || movie.Actors[4] != "Ken Watanabe" {
			t.Errorf("Actors = %v", movie.Actors)
		}
		if movie.ImagePath != "https://image.tmdb.org/t/p/w780/p.jpg" {
			t.Errorf("ImagePath = %q", movie.ImagePath)
		}
		if movie.BackdropPath != "https://image.tmdb.org/t/p/original/bd.jpg" {
			t.Errorf("BackdropPath = %q", movie.BackdropPath)
		}
		if movie.Genre.Name != "Thriller" {
			t.Errorf("Genre = %+v", movie.Genre)
		}
		if movie.ReleaseYear != 2010 {
			t.Errorf("ReleaseYear = %d", movie.ReleaseYear)
		}
	})

	t.Run("缺简介时回填占位文案", func(t *testing.T) {
		client := newTMDBStub(t, "")
		movie, err := resolveMovie(context.Background(), client, "Inception", 2010)
		if err != nil {
			t.Fatalf("resolveMovie: %v", err)
		}
		if movie.Description != "No description available." {
			t.Errorf("Description = %q", movie.Description)
		}
	})
}
