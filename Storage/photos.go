package Storage

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	firebase "firebase.google.com/go/v4"
	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"google.golang.org/api/option"
)

// Photos wider than this are downscaled before storage
const maxPhotoWidth = 1600

// UploadError marks a failed photo save. The caller must abort the enclosing
// submission; no record may be persisted with an unresolved photo reference.
type UploadError struct {
	Err error
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("photo upload failed: %v", e.Err)
}

func (e *UploadError) Unwrap() error {
	return e.Err
}

// PhotoStore turns raw captured image bytes into a stable reference that can
// live inside a checklist record
type PhotoStore interface {
	Save(ctx context.Context, data []byte, contentType string) (string, error)
}

// NewFromEnv selects the storage strategy from PHOTO_STORAGE:
// "inline" (default), "disk" or "firebase"
func NewFromEnv(ctx context.Context) (PhotoStore, error) {
	switch os.Getenv("PHOTO_STORAGE") {
	case "disk":
		dir := os.Getenv("PHOTO_DIR")
		if dir == "" {
			dir = "static/photos"
		}
		return NewDiskStore(dir, "/static/photos")
	case "firebase":
		return NewFirebaseStore(ctx, os.Getenv("FIREBASE_BUCKET"), os.Getenv("FIREBASE_CREDENTIALS"))
	default:
		return &InlineStore{}, nil
	}
}

// objectName generates a collision-safe name: unix timestamp plus a random suffix
func objectName(contentType string) string {
	ext := ".jpg"
	if strings.Contains(contentType, "png") {
		ext = ".png"
	}
	suffix := strings.Split(uuid.NewString(), "-")[0]
	return fmt.Sprintf("%d_%s%s", time.Now().UnixNano(), suffix, ext)
}

// reencode decodes the capture and downscales oversized images. Bytes that do
// not decode as an image are passed through untouched, matching the original
// behavior of accepting anything the picker hands over.
func reencode(data []byte, contentType string) []byte {
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return data
	}
	if img.Bounds().Dx() > maxPhotoWidth {
		img = imaging.Resize(img, maxPhotoWidth, 0, imaging.Lanczos)
	}
	format := imaging.JPEG
	if strings.Contains(contentType, "png") {
		format = imaging.PNG
	}
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, format, imaging.JPEGQuality(85)); err != nil {
		return data
	}
	return buf.Bytes()
}

// InlineStore embeds the image as a self-contained data URI directly in the
// record. No external call, unbounded record size.
type InlineStore struct{}

func (s *InlineStore) Save(_ context.Context, data []byte, contentType string) (string, error) {
	if len(data) == 0 {
		return "", &UploadError{Err: fmt.Errorf("empty image data")}
	}
	if contentType == "" {
		contentType = "image/jpeg"
	}
	encoded := base64.StdEncoding.EncodeToString(reencode(data, contentType))
	return fmt.Sprintf("data:%s;base64,%s", contentType, encoded), nil
}

// DiskStore writes photos under a local directory served by the static route
type DiskStore struct {
	Dir       string
	PublicURL string
}

func NewDiskStore(dir, publicURL string) (*DiskStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("error creating photo directory: %v", err)
	}
	return &DiskStore{Dir: dir, PublicURL: strings.TrimSuffix(publicURL, "/")}, nil
}

func (s *DiskStore) Save(_ context.Context, data []byte, contentType string) (string, error) {
	if len(data) == 0 {
		return "", &UploadError{Err: fmt.Errorf("empty image data")}
	}
	name := objectName(contentType)
	path := filepath.Join(s.Dir, name)
	if err := os.WriteFile(path, reencode(data, contentType), 0644); err != nil {
		return "", &UploadError{Err: err}
	}
	return s.PublicURL + "/" + name, nil
}

// FirebaseStore uploads photos to a Firebase Storage bucket and returns the
// public retrieval URL
type FirebaseStore struct {
	bucket     *storage.BucketHandle
	bucketName string
}

func NewFirebaseStore(ctx context.Context, bucketName, credentialsFile string) (*FirebaseStore, error) {
	if bucketName == "" {
		return nil, fmt.Errorf("FIREBASE_BUCKET is not set")
	}

	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	app, err := firebase.NewApp(ctx, &firebase.Config{StorageBucket: bucketName}, opts...)
	if err != nil {
		return nil, fmt.Errorf("error initializing Firebase app: %v", err)
	}

	client, err := app.Storage(ctx)
	if err != nil {
		return nil, fmt.Errorf("error getting Storage client: %v", err)
	}

	bucket, err := client.DefaultBucket()
	if err != nil {
		return nil, fmt.Errorf("error getting default bucket: %v", err)
	}

	return &FirebaseStore{bucket: bucket, bucketName: bucketName}, nil
}

func (s *FirebaseStore) Save(ctx context.Context, data []byte, contentType string) (string, error) {
	if len(data) == 0 {
		return "", &UploadError{Err: fmt.Errorf("empty image data")}
	}
	name := "photos/" + objectName(contentType)
	obj := s.bucket.Object(name)

	w := obj.NewWriter(ctx)
	w.ContentType = contentType
	if _, err := w.Write(reencode(data, contentType)); err != nil {
		w.Close()
		return "", &UploadError{Err: err}
	}
	if err := w.Close(); err != nil {
		return "", &UploadError{Err: err}
	}

	if err := obj.ACL().Set(ctx, storage.AllUsers, storage.RoleReader); err != nil {
		return "", &UploadError{Err: err}
	}

	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", s.bucketName, name), nil
}
