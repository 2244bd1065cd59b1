// Package uploads persists user-submitted images and returns the reference stored on users and posts.
package uploads

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"

	gcs "cloud.google.com/go/storage"
	"github.com/google/uuid"
)

// Store saves one uploaded file and returns the path or URL to reference it by
type Store interface {
	Save(ctx context.Context, file *multipart.FileHeader) (string, error)
}

// objectName keeps only the extension of the client's file name
func objectName(file *multipart.FileHeader) string {
	return uuid.NewString() + strings.ToLower(filepath.Ext(file.Filename))
}

// DiskStore writes uploads into a directory served under URLPrefix
type DiskStore struct {
	Dir       string
	URLPrefix string
}

// NewDiskStore creates the upload directory if needed
func NewDiskStore(dir, urlPrefix string) (*DiskStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &DiskStore{Dir: dir, URLPrefix: urlPrefix}, nil
}

func (s *DiskStore) Save(_ context.Context, file *multipart.FileHeader) (string, error) {
	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	name := objectName(file)
	dst, err := os.Create(filepath.Join(s.Dir, name))
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		return "", err
	}
	if err := dst.Close(); err != nil {
		return "", err
	}
	return path.Join(s.URLPrefix, name), nil
}

// FirebaseStore writes uploads into a Firebase Storage bucket under the uploads/ prefix
type FirebaseStore struct {
	bucket     *gcs.BucketHandle
	bucketName string
}

func NewFirebaseStore(bucket *gcs.BucketHandle, bucketName string) *FirebaseStore {
	return &FirebaseStore{bucket: bucket, bucketName: bucketName}
}

func (s *FirebaseStore) Save(ctx context.Context, file *multipart.FileHeader) (string, error) {
	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	name := "uploads/" + objectName(file)
	w := s.writer(ctx, name, file.Header.Get("Content-Type"))
	if _, err := io.Copy(w, src); err != nil {
		w.Close()
		return "", err
	}
	if err := w.Close(); err != nil {
		return "", err
	}
	return s.publicURL(name), nil
}

// writer creates the object world-readable so the returned URL works without signing.
// Buckets with uniform bucket-level access reject object ACLs and must grant allUsers
// read on the bucket instead.
func (s *FirebaseStore) writer(ctx context.Context, name, contentType string) *gcs.Writer {
	w := s.bucket.Object(name).NewWriter(ctx)
	w.ContentType = contentType
	w.ACL = []gcs.ACLRule{{Entity: gcs.AllUsers, Role: gcs.RoleReader}}
	return w
}

func (s *FirebaseStore) publicURL(name string) string {
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", s.bucketName, name)
}
