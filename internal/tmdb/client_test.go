package tmdb

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClientWithBaseURL("test-key", srv.URL, srv.Client())
}

func TestSearchMovie(t *testing.T) {
	t.Run("返回第一个结果", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/search/movie" {
				t.Errorf("path = %q", r.URL.Path)
			}
			if r.URL.Query().Get("api_key") != "test-key" {
				t.Errorf("api_key = %q", r.URL.Query().Get("api_key"))
			}
			if r.URL.Query().Get("query") != "Inception" {
				t.Errorf("query = %q", r.URL.Query().Get("query"))
			}
			if r.URL.Query().Get("primary_release_year") != "2010" {
				t.Errorf("primary_release_year = %q", r.URL.Query().Get("primary_release_year"))
			}
			w.Write([]byte(`{"results":[
				{"id":27205,"title":"Inception","release_date":"2010-07-15","poster_path":"/p.jpg"},
				{"id":99999,"title":"Inception: The Cobol Job"}
			]}`))
		})

		got, err := c.SearchMovie(context.Background(), "Inception", 2010)
		if err != nil {
			t.Fatalf("SearchMovie: %v", err)
		}
		if got == nil || got.ID != 27205 {
			t.Fatalf("result = %+v", got)
		}
		if got.ReleaseYear() != 2010 {
			t.Errorf("ReleaseYear = %d", got.ReleaseYear())
		}
	})

	t.Run("无结果返回 nil", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"results":[]}`))
		})
		got, err := c.SearchMovie(context.Background(), "Nope", 0)
		if err != nil {
			t.Fatalf("SearchMovie: %v", err)
		}
		if got != nil {
			t.Errorf("result = %+v, want nil", got)
		}
	})

	t.Run("错误响应带状态信息", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(401)
			w.Write([]byte(`{"status_code":7,"status_message":"Invalid API key"}`))
		})
		if _, err := c.SearchMovie(context.Background(), "x", 0); err == nil {
			t.Fatal("expected error")
		}
	})
}

func TestGetMovieDetails(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/movie/27205" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if r.URL.Query().Get("append_to_response") != "credits" {
			t.Errorf("append_to_response = %q", r.URL.Query().Get("append_to_response"))
		}
		w.Write([]byte(`{
			"id":27205,"title":"Inception","overview":"A thief.","backdrop_path":"/bd.jpg",
			"genres":[{"id":53,"name":"Thriller"}],
			"credits":{
				"cast":[{"name":"Leonardo DiCaprio","order":0},{"name":"Joseph Gordon-Levitt","order":1},{"name":"Elliot Page","order":2}],
				"crew":[{"name":"Emma Thomas","job":"Producer"},{"name":"Christopher Nolan","job":"Director","profile_path":"/nolan.jpg"}]
			}
		}`))
	})

	d, err := c.GetMovieDetails(context.Background(), 27205)
	if err != nil {
		t.Fatalf("GetMovieDetails: %v", err)
	}
	if d.Director() != "Christopher Nolan" {
		t.Errorf("Director = %q", d.Director())
	}
	if d.DirectorProfile() != "/nolan.jpg" {
		t.Errorf("DirectorProfile = %q", d.DirectorProfile())
	}
	cast := d.TopCast(2)
	if len(cast) != 2 || cast[0] != "Leonardo DiCaprio" {
		t.Errorf("TopCast = %v", cast)
	}
	if len(d.Genres) != 1 || d.Genres[0].Name != "Thriller" {
		t.Errorf("Genres = %+v", d.Genres)
	}
}

func TestImageURL(t *testing.T) {
	if got := ImageURL("/p.jpg", "w500"); got != "https://image.tmdb.org/t/p/w500/p.jpg" {
		t.Errorf("ImageURL = %q", got)
	}
	if got := ImageURL("", "w500"); got != "" {
		t.Errorf("ImageURL(empty) = %q", got)
	}
}
