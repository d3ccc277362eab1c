package gateway

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/inovacc/mornpage/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupGitHub(t *testing.T, opts ...Option) (*http.ServeMux, *httptest.Server, *GitHub) {
	t.Helper()

	mux := http.NewServeMux()
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	opts = append([]Option{WithBaseURL(srv.URL)}, opts...)

	g, err := NewGitHub(context.Background(), "test-token", model.RepoRef{Owner: "me", Name: "journal"}, opts...)
	require.NoError(t, err)

	return mux, srv, g
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func fileJSON(path, content, sha string) map[string]any {
	return map[string]any{
		"type":     "file",
		"encoding": "base64",
		"name":     path,
		"path":     path,
		"sha":      sha,
		"content":  base64.StdEncoding.EncodeToString([]byte(content)),
	}
}

func TestNewGitHub_RequiresRepo(t *testing.T) {
	_, err := NewGitHub(context.Background(), "tok", model.RepoRef{Owner: "me"})
	assert.Error(t, err)
}

func TestGitHub_ReadFile(t *testing.T) {
	mux, _, g := setupGitHub(t)

	mux.HandleFunc("GET /repos/me/journal/contents/2025-01-27.md", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		writeJSON(w, http.StatusOK, fileJSON("2025-01-27.md", "hello", "sha-1"))
	})

	f, err := g.ReadFile(context.Background(), "2025-01-27.md")
	require.NoError(t, err)
	assert.Equal(t, "hello", f.Content)
	assert.Equal(t, "sha-1", f.SHA)
	assert.Equal(t, "2025-01-27.md", f.Path)
}

func TestGitHub_ReadFile_BranchRef(t *testing.T) {
	mux, _, g := setupGitHub(t, WithBranch("pages"))

	mux.HandleFunc("GET /repos/me/journal/contents/a.md", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "pages", r.URL.Query().Get("ref"))
		writeJSON(w, http.StatusOK, fileJSON("a.md", "x", "s"))
	})

	_, err := g.ReadFile(context.Background(), "a.md")
	require.NoError(t, err)
}

func TestGitHub_ErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		status int
		check  func(t *testing.T, err error)
	}{
		{"not found", http.StatusNotFound, func(t *testing.T, err error) {
			assert.ErrorIs(t, err, ErrNotFound)
		}},
		{"unauthorized", http.StatusUnauthorized, func(t *testing.T, err error) {
			assert.ErrorIs(t, err, ErrUnauthorized)
		}},
		{"server error", http.StatusInternalServerError, func(t *testing.T, err error) {
			var remote *RemoteError
			require.ErrorAs(t, err, &remote)
			assert.Equal(t, http.StatusInternalServerError, remote.Status)
			assert.Equal(t, "boom", remote.Message)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mux, _, g := setupGitHub(t)

			mux.HandleFunc("GET /repos/me/journal/contents/x.md", func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, tt.status, map[string]string{"message": "boom"})
			})

			_, err := g.ReadFile(context.Background(), "x.md")
			require.Error(t, err)
			tt.check(t, err)
		})
	}
}

func TestGitHub_TransportError(t *testing.T) {
	_, srv, g := setupGitHub(t)
	srv.Close()

	_, err := g.ReadFile(context.Background(), "x.md")

	var transport *TransportError
	require.ErrorAs(t, err, &transport)
	assert.True(t, IsRetryable(err))
}

func TestGitHub_WriteFile_Create(t *testing.T) {
	mux, _, g := setupGitHub(t)

	mux.HandleFunc("GET /repos/me/journal/contents/2025-01-27.md", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "Not Found"})
	})
	mux.HandleFunc("PUT /repos/me/journal/contents/2025-01-27.md", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))

		assert.Equal(t, "Morning page: 2025-01-27.md", body["message"])
		assert.Nil(t, body["sha"])

		raw, err := base64.StdEncoding.DecodeString(body["content"].(string))
		require.NoError(t, err)
		assert.Equal(t, "today", string(raw))

		writeJSON(w, http.StatusCreated, map[string]any{
			"content": map[string]any{"sha": "new-sha", "path": "2025-01-27.md"},
			"commit":  map[string]any{"sha": "commit-1"},
		})
	})

	res, err := g.WriteFile(context.Background(), "2025-01-27.md", "today", "Morning page: 2025-01-27.md")
	require.NoError(t, err)
	assert.True(t, res.Created)
	assert.Equal(t, "new-sha", res.SHA)
	assert.Equal(t, "commit-1", res.CommitSHA)
}

func TestGitHub_WriteFile_UpdateSendsSHA(t *testing.T) {
	mux, _, g := setupGitHub(t, WithBranch("pages"))

	mux.HandleFunc("GET /repos/me/journal/contents/a.md", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, fileJSON("a.md", "old", "old-sha"))
	})
	mux.HandleFunc("PUT /repos/me/journal/contents/a.md", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))

		assert.Equal(t, "old-sha", body["sha"])
		assert.Equal(t, "pages", body["branch"])

		writeJSON(w, http.StatusOK, map[string]any{
			"content": map[string]any{"sha": "next-sha"},
			"commit":  map[string]any{"sha": "commit-2"},
		})
	})

	res, err := g.WriteFile(context.Background(), "a.md", "new", "msg")
	require.NoError(t, err)
	assert.False(t, res.Created)
	assert.Equal(t, "next-sha", res.SHA)
}

func TestGitHub_WriteFile_Conflict(t *testing.T) {
	for _, status := range []int{http.StatusConflict, http.StatusUnprocessableEntity} {
		t.Run(http.StatusText(status), func(t *testing.T) {
			mux, _, g := setupGitHub(t)

			mux.HandleFunc("GET /repos/me/journal/contents/a.md", func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, http.StatusOK, fileJSON("a.md", "old", "stale"))
			})
			mux.HandleFunc("PUT /repos/me/journal/contents/a.md", func(w http.ResponseWriter, r *http.Request) {
				_, _ = io.Copy(io.Discard, r.Body)
				writeJSON(w, status, map[string]string{"message": "a.md does not match stale"})
			})

			_, err := g.WriteFile(context.Background(), "a.md", "new", "msg")

			var conflict *ConflictError
			require.ErrorAs(t, err, &conflict)
			assert.Equal(t, "a.md", conflict.Path)
			assert.True(t, IsRetryable(err))
		})
	}
}

func TestGitHub_ListDirectory(t *testing.T) {
	mux, _, g := setupGitHub(t)

	mux.HandleFunc("GET /repos/me/journal/contents/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, []map[string]any{
			{"type": "file", "name": "2025-01-27.md", "path": "2025-01-27.md"},
			{"type": "dir", "name": "2024", "path": "2024"},
			{"type": "symlink", "name": "link", "path": "link"},
		})
	})

	entries, err := g.ListDirectory(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, []DirEntry{
		{Name: "2025-01-27.md", Path: "2025-01-27.md", Type: TypeFile},
		{Name: "2024", Path: "2024", Type: TypeDirectory},
		{Name: "link", Path: "link", Type: TypeOther},
	}, entries)
}

func commitJSON(sha, message string, at time.Time) map[string]any {
	return map[string]any{
		"sha": sha,
		"commit": map[string]any{
			"message": message,
			"author":  map[string]any{"date": at.Format(time.RFC3339)},
		},
	}
}

func TestGitHub_ListCommits_Paginates(t *testing.T) {
	mux, srv, g := setupGitHub(t)

	day := time.Date(2025, 1, 27, 7, 30, 0, 0, time.UTC)

	mux.HandleFunc("GET /repos/me/journal/commits", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "2025-01-01T00:00:00Z", r.URL.Query().Get("since"))

		if r.URL.Query().Get("page") == "2" {
			writeJSON(w, http.StatusOK, []any{commitJSON("c2", "second", day.Add(time.Hour))})
			return
		}

		w.Header().Set("Link", fmt.Sprintf(`<%s/repos/me/journal/commits?page=2>; rel="next"`, srv.URL))
		writeJSON(w, http.StatusOK, []any{commitJSON("c1", "first", day)})
	})

	commits, err := g.ListCommits(context.Background(), CommitQuery{
		Since: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	require.Len(t, commits, 2)
	assert.Equal(t, "c1", commits[0].SHA)
	assert.Equal(t, "first", commits[0].Message)
	assert.True(t, day.Equal(commits[0].Timestamp))
	assert.Equal(t, "c2", commits[1].SHA)
}

func TestGitHub_ListCommits_EmptyRepository(t *testing.T) {
	mux, _, g := setupGitHub(t)

	mux.HandleFunc("GET /repos/me/journal/commits", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusConflict, map[string]string{"message": "Git Repository is empty."})
	})

	commits, err := g.ListCommits(context.Background(), CommitQuery{})
	require.NoError(t, err)
	assert.Empty(t, commits)
}

func TestGitHub_LastCommitFor(t *testing.T) {
	mux, _, g := setupGitHub(t)

	at := time.Date(2025, 1, 27, 8, 0, 0, 0, time.UTC)

	mux.HandleFunc("GET /repos/me/journal/commits", func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("path") {
		case "a.md":
			assert.Equal(t, "1", r.URL.Query().Get("per_page"))
			writeJSON(w, http.StatusOK, []any{commitJSON("c1", "Morning page: a.md", at)})
		default:
			writeJSON(w, http.StatusOK, []any{})
		}
	})

	c, err := g.LastCommitFor(context.Background(), "a.md")
	require.NoError(t, err)
	assert.Equal(t, "Morning page: a.md", c.Message)
	assert.True(t, at.Equal(c.Timestamp))

	_, err = g.LastCommitFor(context.Background(), "b.md")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGitHub_UserRepositoryRateLimit(t *testing.T) {
	mux, _, g := setupGitHub(t)

	mux.HandleFunc("GET /user", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"login": "me", "name": "Me"})
	})
	mux.HandleFunc("GET /repos/me/journal", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"full_name": "me/journal", "default_branch": "main", "private": true})
	})
	mux.HandleFunc("GET /rate_limit", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"resources": map[string]any{
				"core": map[string]any{"limit": 5000, "remaining": 4999, "reset": 1735689600},
			},
		})
	})

	ctx := context.Background()

	u, err := g.User(ctx)
	require.NoError(t, err)
	assert.Equal(t, "me", u.Login)

	repo, err := g.Repository(ctx)
	require.NoError(t, err)
	assert.Equal(t, &RepoInfo{FullName: "me/journal", DefaultBranch: "main", Private: true}, repo)

	rate, err := g.RateLimit(ctx)
	require.NoError(t, err)
	assert.Equal(t, 5000, rate.Limit)
	assert.Equal(t, 4999, rate.Remaining)
	assert.Equal(t, int64(1735689600), rate.Reset.Unix())
}

func TestGitHub_Repository_Unauthorized(t *testing.T) {
	mux, _, g := setupGitHub(t)

	mux.HandleFunc("GET /repos/me/journal", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Bad credentials"})
	})

	_, err := g.Repository(context.Background())
	assert.ErrorIs(t, err, ErrUnauthorized)
}
