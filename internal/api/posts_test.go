package api

import (
	"fmt"
	"net/http"
	"strings"
	"testing"
)

func TestCreatePostRequiresAuth(t *testing.T) {
	env := newTestEnv(t)

	w := env.doJSON(http.MethodPost, "/api/posts", map[string]any{
		"title":    "a perfectly fine title",
		"content":  "content long enough to pass",
		"category": "tutorial",
	}, "")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d: %s", w.Code, w.Body.String())
	}
}

func TestCreatePostTitleTooShort(t *testing.T) {
	env := newTestEnv(t)
	token, _ := env.register("alice", "alice@x.com", "secret1")

	w := env.doJSON(http.MethodPost, "/api/posts", map[string]any{
		"title":    "hi",
		"content":  "content long enough to pass",
		"category": "tutorial",
	}, token)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "at least 5") {
		t.Fatalf("expected minimum-length message, got %s", w.Body.String())
	}
}

func TestCreatePostBadCategory(t *testing.T) {
	env := newTestEnv(t)
	token, _ := env.register("alice", "alice@x.com", "secret1")

	w := env.doJSON(http.MethodPost, "/api/posts", map[string]any{
		"title":    "a perfectly fine title",
		"content":  "content long enough to pass",
		"category": "noticias",
	}, token)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}
}

func TestPostOwnership(t *testing.T) {
	env := newTestEnv(t)
	aliceToken, aliceID := env.register("alice", "alice@x.com", "secret1")
	bobToken, _ := env.register("bob", "bob@x.com", "secret1")
	adminToken, _ := env.registerAdmin("root", "root@x.com", "secret1")

	postID := env.createPost(aliceToken, "alice writes about bitcoin")
	path := fmt.Sprintf("/api/posts/%d", postID)
	update := map[string]any{"title": "an updated post title"}

	// A stranger may not edit
	w := env.doJSON(http.MethodPut, path, update, bobToken)
	if w.Code != http.StatusForbidden {
		t.Fatalf("stranger edit: expected 403, got %d: %s", w.Code, w.Body.String())
	}

	// The owner may
	w = env.doJSON(http.MethodPut, path, update, aliceToken)
	if w.Code != http.StatusOK {
		t.Fatalf("owner edit: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var resp struct {
		Post struct {
			Title  string `json:"title"`
			UserID uint   `json:"userId"`
			Author struct {
				Username string `json:"username"`
			} `json:"author"`
		} `json:"post"`
	}
	decode(t, w, &resp)
	if resp.Post.Title != "an updated post title" {
		t.Fatalf("title not updated: %q", resp.Post.Title)
	}
	if resp.Post.UserID != aliceID || resp.Post.Author.Username != "alice" {
		t.Fatalf("author not populated: %+v", resp.Post)
	}

	// An admin may delete someone else's post
	w = env.doJSON(http.MethodDelete, path, nil, adminToken)
	if w.Code != http.StatusOK {
		t.Fatalf("admin delete: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	w = env.do(http.MethodGet, path, nil, "", "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("deleted post still readable: %d", w.Code)
	}
}

func TestLikeToggleIdempotence(t *testing.T) {
	env := newTestEnv(t)
	token, _ := env.register("alice", "alice@x.com", "secret1")
	postID := env.createPost(token, "a post worth liking")
	path := fmt.Sprintf("/api/posts/%d/like", postID)

	var resp struct {
		Likes    int64 `json:"likes"`
		HasLiked bool  `json:"hasLiked"`
	}

	w := env.doJSON(http.MethodPost, path, nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("first toggle: status %d: %s", w.Code, w.Body.String())
	}
	decode(t, w, &resp)
	if !resp.HasLiked || resp.Likes != 1 {
		t.Fatalf("first toggle: expected liked with count 1, got %+v", resp)
	}

	// Toggling again restores the original membership and count
	w = env.doJSON(http.MethodPost, path, nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("second toggle: status %d: %s", w.Code, w.Body.String())
	}
	decode(t, w, &resp)
	if resp.HasLiked || resp.Likes != 0 {
		t.Fatalf("second toggle: expected unliked with count 0, got %+v", resp)
	}
}

func TestPostPaginationLaw(t *testing.T) {
	env := newTestEnv(t)
	token, _ := env.register("alice", "alice@x.com", "secret1")
	const total = 25
	for i := 0; i < total; i++ {
		env.createPost(token, fmt.Sprintf("numbered post title %02d", i))
	}

	seen := make(map[uint]bool)
	var pages int
	for page := 1; ; page++ {
		w := env.do(http.MethodGet, fmt.Sprintf("/api/posts?page=%d&limit=10", page), nil, "", "")
		if w.Code != http.StatusOK {
			t.Fatalf("page %d: status %d: %s", page, w.Code, w.Body.String())
		}
		var resp struct {
			Posts []struct {
				ID uint `json:"id"`
			} `json:"posts"`
			Pagination struct {
				Total int64 `json:"total"`
				Page  int   `json:"page"`
				Pages int   `json:"pages"`
				Limit int   `json:"limit"`
			} `json:"pagination"`
		}
		decode(t, w, &resp)
		if resp.Pagination.Total != total {
			t.Fatalf("page %d: expected total %d, got %d", page, total, resp.Pagination.Total)
		}
		if resp.Pagination.Pages != 3 { // ceil(25/10)
			t.Fatalf("page %d: expected 3 pages, got %d", page, resp.Pagination.Pages)
		}
		for _, p := range resp.Posts {
			if seen[p.ID] {
				t.Fatalf("post %d appeared twice", p.ID)
			}
			seen[p.ID] = true
		}
		pages = resp.Pagination.Pages
		if page == pages {
			if len(resp.Posts) != 5 {
				t.Fatalf("last page: expected 5 posts, got %d", len(resp.Posts))
			}
			break
		}
		if len(resp.Posts) != 10 {
			t.Fatalf("page %d: expected 10 posts, got %d", page, len(resp.Posts))
		}
	}
	if len(seen) != total {
		t.Fatalf("concatenated pages yielded %d posts, want %d", len(seen), total)
	}
}

func TestGetPostInvalidIDVersusMissing(t *testing.T) {
	env := newTestEnv(t)

	// Malformed identifier: 400, not 404
	w := env.do(http.MethodGet, "/api/posts/abc", nil, "", "")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("malformed id: expected 400, got %d: %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "Invalid post ID") {
		t.Fatalf("expected invalid-id message, got %s", w.Body.String())
	}

	// Well-formed but absent: 404
	w = env.do(http.MethodGet, "/api/posts/9999", nil, "", "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("missing id: expected 404, got %d: %s", w.Code, w.Body.String())
	}
}

func TestPostImageUploadAndDeleteBlob(t *testing.T) {
	env := newTestEnv(t)
	token, _ := env.register("alice", "alice@x.com", "secret1")

	w := env.doMultipart(http.MethodPost, "/api/posts", map[string]string{
		"title":    "a post with a chart image",
		"content":  "content long enough to pass",
		"category": "análisis",
	}, "image", "chart.png", []byte("png-bytes"), token)
	if w.Code != http.StatusCreated {
		t.Fatalf("create with image: status %d: %s", w.Code, w.Body.String())
	}
	var resp struct {
		Post struct {
			ID    uint   `json:"id"`
			Image string `json:"image"`
		} `json:"post"`
	}
	decode(t, w, &resp)
	if !strings.Contains(resp.Post.Image, "cryptohub/posts/") {
		t.Fatalf("expected stored image URL, got %q", resp.Post.Image)
	}

	// Deleting the post deletes the blob too
	w = env.doJSON(http.MethodDelete, fmt.Sprintf("/api/posts/%d", resp.Post.ID), nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("delete: status %d: %s", w.Code, w.Body.String())
	}
	if env.blobs.deleteCount() != 1 {
		t.Fatalf("expected 1 blob deletion, got %d", env.blobs.deleteCount())
	}
}

func TestCreatePostUploadFailureAborts(t *testing.T) {
	env := newTestEnv(t)
	token, _ := env.register("alice", "alice@x.com", "secret1")
	env.blobs.failUpload = true

	w := env.doMultipart(http.MethodPost, "/api/posts", map[string]string{
		"title":    "a post with a chart image",
		"content":  "content long enough to pass",
		"category": "análisis",
	}, "image", "chart.png", []byte("png-bytes"), token)
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d: %s", w.Code, w.Body.String())
	}

	// No partial record may survive the failed upload
	w = env.do(http.MethodGet, "/api/posts", nil, "", "")
	var resp struct {
		Pagination struct {
			Total int64 `json:"total"`
		} `json:"pagination"`
	}
	decode(t, w, &resp)
	if resp.Pagination.Total != 0 {
		t.Fatalf("expected no posts, got %d", resp.Pagination.Total)
	}
}
