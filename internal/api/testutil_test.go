package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"cryptohub/internal/config"
	appdb "cryptohub/internal/db"
	"cryptohub/internal/domain"
	"cryptohub/internal/media"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// fakeBlobStore records delegate calls and can be made to fail on demand.
type fakeBlobStore struct {
	mu             sync.Mutex
	uploads        []string
	deleted        []string
	failUpload     bool
	failNextDelete bool
}

func (f *fakeBlobStore) Upload(ctx context.Context, file io.Reader, folder string, kind media.Kind) (*media.UploadResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failUpload {
		return nil, errors.New("media store unavailable")
	}
	publicID := folder + "/" + uuid.NewString()
	f.uploads = append(f.uploads, publicID)
	return &media.UploadResult{
		URL:      "https://cdn.test/" + publicID + ".bin",
		PublicID: publicID,
	}, nil
}

func (f *fakeBlobStore) Delete(ctx context.Context, publicID string, kind media.Kind) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failNextDelete {
		f.failNextDelete = false
		return errors.New("media store unavailable")
	}
	f.deleted = append(f.deleted, publicID)
	return nil
}

func (f *fakeBlobStore) deleteCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.deleted)
}

type testEnv struct {
	t      *testing.T
	db     *gorm.DB
	router *gin.Engine
	blobs  *fakeBlobStore
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)
	dsnName := strings.NewReplacer("/", "_").Replace(t.Name())
	gdb, err := gorm.Open(sqlite.Open("file:"+dsnName+"?mode=memory&cache=shared"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := appdb.AutoMigrate(gdb); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	cfg := &config.Config{JWTSecret: "test-secret"}
	blobs := &fakeBlobStore{}
	return &testEnv{
		t:      t,
		db:     gdb,
		router: BuildRouter(gdb, nil, blobs, cfg),
		blobs:  blobs,
	}
}

func (e *testEnv) do(method, path string, body io.Reader, contentType, token string) *httptest.ResponseRecorder {
	e.t.Helper()
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *testEnv) doJSON(method, path string, payload any, token string) *httptest.ResponseRecorder {
	e.t.Helper()
	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			e.t.Fatalf("marshal payload: %v", err)
		}
		body = bytes.NewReader(b)
	}
	return e.do(method, path, body, "application/json", token)
}

func (e *testEnv) doMultipart(method, path string, fields map[string]string, fileField, fileName string, fileContent []byte, token string) *httptest.ResponseRecorder {
	e.t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			e.t.Fatalf("write field %s: %v", k, err)
		}
	}
	if fileField != "" {
		fw, err := mw.CreateFormFile(fileField, fileName)
		if err != nil {
			e.t.Fatalf("create form file: %v", err)
		}
		if _, err := fw.Write(fileContent); err != nil {
			e.t.Fatalf("write file content: %v", err)
		}
	}
	if err := mw.Close(); err != nil {
		e.t.Fatalf("close multipart writer: %v", err)
	}
	return e.do(method, path, &buf, mw.FormDataContentType(), token)
}

func decode(t *testing.T, w *httptest.ResponseRecorder, dest any) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), dest); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
}

// register creates an account through the API and returns its token and ID.
func (e *testEnv) register(username, email, password string) (string, uint) {
	e.t.Helper()
	w := e.doJSON(http.MethodPost, "/api/auth/register", map[string]any{
		"username": username,
		"email":    email,
		"password": password,
	}, "")
	if w.Code != http.StatusCreated {
		e.t.Fatalf("register %s: status %d, body %s", username, w.Code, w.Body.String())
	}
	var resp struct {
		Token string `json:"token"`
		User  struct {
			ID uint `json:"id"`
		} `json:"user"`
	}
	decode(e.t, w, &resp)
	return resp.Token, resp.User.ID
}

// registerAdmin registers an account and promotes it straight in the store.
// The auth middleware reloads the user per request, so the token stays valid.
func (e *testEnv) registerAdmin(username, email, password string) (string, uint) {
	e.t.Helper()
	token, id := e.register(username, email, password)
	if err := e.db.Model(&domain.User{}).Where("id = ?", id).
		Update("role", domain.RoleAdmin).Error; err != nil {
		e.t.Fatalf("promote %s: %v", username, err)
	}
	return token, id
}

// createPost creates a post through the API and returns its ID.
func (e *testEnv) createPost(token, title string) uint {
	e.t.Helper()
	w := e.doJSON(http.MethodPost, "/api/posts", map[string]any{
		"title":    title,
		"content":  "content long enough to pass validation",
		"category": "tutorial",
	}, token)
	if w.Code != http.StatusCreated {
		e.t.Fatalf("create post: status %d, body %s", w.Code, w.Body.String())
	}
	var resp struct {
		Post struct {
			ID uint `json:"id"`
		} `json:"post"`
	}
	decode(e.t, w, &resp)
	return resp.Post.ID
}

// createComment creates a comment through the API and returns its ID.
func (e *testEnv) createComment(token string, postID uint, content string) uint {
	e.t.Helper()
	w := e.doJSON(http.MethodPost, "/api/comments", map[string]any{
		"postId":  postID,
		"content": content,
	}, token)
	if w.Code != http.StatusCreated {
		e.t.Fatalf("create comment: status %d, body %s", w.Code, w.Body.String())
	}
	var resp struct {
		Comment struct {
			ID uint `json:"id"`
		} `json:"comment"`
	}
	decode(e.t, w, &resp)
	return resp.Comment.ID
}

// createResource creates a resource with a file attachment and returns its ID.
func (e *testEnv) createResource(token, title string) uint {
	e.t.Helper()
	w := e.doMultipart(http.MethodPost, "/api/resources", map[string]string{
		"title":       title,
		"description": "a description long enough",
		"type":        "pdf",
		"category":    "trading",
	}, "file", "guide.pdf", []byte("%PDF-1.4 test"), token)
	if w.Code != http.StatusCreated {
		e.t.Fatalf("create resource: status %d, body %s", w.Code, w.Body.String())
	}
	var resp struct {
		Resource struct {
			ID uint `json:"id"`
		} `json:"resource"`
	}
	decode(e.t, w, &resp)
	return resp.Resource.ID
}
