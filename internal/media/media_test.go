package media

import (
	"context"
	"errors"
	"io"
	"testing"
)

func TestPublicIDFromURL(t *testing.T) {
	cases := []struct {
		name string
		url  string
		want string
	}{
		{
			"stored post image",
			"https://res.cloudinary.com/demo/image/upload/v123/cryptohub/posts/abc123.png",
			"cryptohub/posts/abc123",
		},
		{
			"stored raw file keeps inner dots out of the id",
			"https://res.cloudinary.com/demo/raw/upload/cryptohub/resources/def456.pdf",
			"cryptohub/resources/def456",
		},
		{"external avatar", "https://ui-avatars.com/api/?name=alice", ""},
		{"empty", "", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := PublicIDFromURL(tc.url); got != tc.want {
				t.Fatalf("PublicIDFromURL(%q) = %q, want %q", tc.url, got, tc.want)
			}
		})
	}
}

type recordingStore struct {
	deleted []string
	err     error
}

func (r *recordingStore) Upload(ctx context.Context, file io.Reader, folder string, kind Kind) (*UploadResult, error) {
	return nil, errors.New("not used")
}

func (r *recordingStore) Delete(ctx context.Context, publicID string, kind Kind) error {
	r.deleted = append(r.deleted, publicID)
	return r.err
}

func TestDeleteByURLSkipsForeignURLs(t *testing.T) {
	s := &recordingStore{}
	DeleteByURL(context.Background(), s, "https://ui-avatars.com/api/?name=alice", KindImage)
	DeleteByURL(context.Background(), s, "", KindImage)
	if len(s.deleted) != 0 {
		t.Fatalf("expected no delegate calls, got %v", s.deleted)
	}
}

func TestDeleteByURLSwallowsFailures(t *testing.T) {
	s := &recordingStore{err: errors.New("delegate down")}
	// Must not panic or propagate: the caller's request goes on regardless
	DeleteByURL(context.Background(), s, "https://cdn.x/cryptohub/posts/abc.png", KindImage)
	if len(s.deleted) != 1 || s.deleted[0] != "cryptohub/posts/abc" {
		t.Fatalf("unexpected delete calls: %v", s.deleted)
	}
}
