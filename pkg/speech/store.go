package speech

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"github.com/google/uuid"
)

var (
	ErrInvalidAudioName = errors.New("invalid audio file name")

	audioNamePattern = regexp.MustCompile(`^voice_[0-9a-f]{32}\.mp3$`)
)

// NewFileName returns a fresh voice_<hex>.mp3 name.
func NewFileName() string {
	return "voice_" + strings.ReplaceAll(uuid.NewString(), "-", "") + ".mp3"
}

func ValidFileName(name string) bool {
	return audioNamePattern.MatchString(name)
}

// AudioStore keeps a rendered clip and returns the URL clients fetch it from.
type AudioStore interface {
	Save(ctx context.Context, name string, data []byte) (string, error)
}

// LocalStore writes clips to a directory served under /api/audio.
type LocalStore struct {
	dir     string
	baseURL string
}

func NewLocalStore(dir, baseURL string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create audio dir: %w", err)
	}
	return &LocalStore{dir: dir, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

func (s *LocalStore) Save(_ context.Context, name string, data []byte) (string, error) {
	path, err := s.Path(name)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", err
	}
	return s.baseURL + "/api/audio/" + name, nil
}

// Path resolves a clip name to a file inside the store, rejecting anything
// that is not a generated name.
func (s *LocalStore) Path(name string) (string, error) {
	if !ValidFileName(name) {
		return "", ErrInvalidAudioName
	}
	return filepath.Join(s.dir, name), nil
}

type S3Store struct {
	uploader *s3manager.Uploader
	bucket   string
	prefix   string
}

func NewS3Store(region, bucket, prefix string) (*S3Store, error) {
	sess, err := session.NewSession(&aws.Config{Region: aws.String(region)})
	if err != nil {
		return nil, err
	}
	return &S3Store{uploader: s3manager.NewUploader(sess), bucket: bucket, prefix: prefix}, nil
}

func (s *S3Store) Save(ctx context.Context, name string, data []byte) (string, error) {
	out, err := s.uploader.UploadWithContext(ctx, &s3manager.UploadInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(s.prefix + name),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("audio/mpeg"),
	})
	if err != nil {
		return "", err
	}
	return out.Location, nil
}
