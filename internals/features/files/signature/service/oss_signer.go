package service

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/aliyun/aliyun-oss-go-sdk/oss"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"pesantren_backend/internals/features/files/signature/dto"
	"pesantren_backend/internals/helpers/apperror"
)

var validateUpload = validator.New()

type OSSConfig struct {
	Endpoint     string
	AccessKey    string
	SecretKey    string
	Bucket       string
	Prefix       string
	TTL          time.Duration
	PublicDomain string
}

// OSSSigner membuat presigned PUT URL. SignURL dihitung lokal, tidak ada call ke OSS.
type OSSSigner struct {
	cfg    OSSConfig
	bucket *oss.Bucket
	Now    func() time.Time
}

func NewOSSSigner(cfg OSSConfig) (*OSSSigner, error) {
	cfg.Endpoint = strings.TrimSpace(cfg.Endpoint)
	cfg.Prefix = strings.Trim(cfg.Prefix, "/")
	if cfg.TTL <= 0 {
		cfg.TTL = 15 * time.Minute
	}
	s := &OSSSigner{cfg: cfg, Now: time.Now}

	// kredensial belum lengkap → signer tetap dibuat, Sign akan ConfigMissing
	if s.missing() != "" {
		return s, nil
	}

	client, err := oss.New(cfg.Endpoint, cfg.AccessKey, cfg.SecretKey)
	if err != nil {
		return nil, fmt.Errorf("oss.New: %w", err)
	}
	bkt, err := client.Bucket(cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("client.Bucket: %w", err)
	}
	s.bucket = bkt
	return s, nil
}

func (s *OSSSigner) Provider() string { return ProviderOSS }

func (s *OSSSigner) missing() string {
	switch {
	case s.cfg.Endpoint == "":
		return "ALI_OSS_ENDPOINT"
	case s.cfg.AccessKey == "":
		return "ALI_OSS_ACCESS_KEY"
	case s.cfg.SecretKey == "":
		return "ALI_OSS_SECRET_KEY"
	case s.cfg.Bucket == "":
		return "ALI_OSS_BUCKET"
	}
	return ""
}

func (s *OSSSigner) Sign(_ context.Context, body map[string]any) (any, error) {
	if key := s.missing(); key != "" || s.bucket == nil {
		if key == "" {
			key = "ALI_OSS_BUCKET"
		}
		return nil, apperror.ConfigMissing(key)
	}

	req := dto.OSSUploadRequest{}
	req.Filename, _ = body["filename"].(string)
	req.ContentType, _ = body["content_type"].(string)
	req.Folder, _ = body["folder"].(string)
	if err := validateUpload.Struct(req); err != nil {
		return nil, apperror.BadRequest(err.Error())
	}

	key := s.objectKey(req.Folder, req.Filename)
	ttl := int64(s.cfg.TTL / time.Second)

	var opts []oss.Option
	if req.ContentType != "" {
		opts = append(opts, oss.ContentType(req.ContentType))
	}
	signed, err := s.bucket.SignURL(key, oss.HTTPPut, ttl, opts...)
	if err != nil {
		return nil, fmt.Errorf("sign url: %w", err)
	}

	return dto.OSSUploadResponse{
		Provider:    ProviderOSS,
		Method:      "PUT",
		UploadURL:   signed,
		ObjectKey:   key,
		PublicURL:   s.PublicURL(key),
		ContentType: req.ContentType,
		ExpiresIn:   ttl,
	}, nil
}

// objectKey: <prefix>/<folder>/<yyyy>/<mm>/<uuid><ext>
func (s *OSSSigner) objectKey(folder, filename string) string {
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	t := now()

	parts := make([]string, 0, 5)
	if s.cfg.Prefix != "" {
		parts = append(parts, s.cfg.Prefix)
	}
	if f := strings.Trim(safeSegment(folder), "."); f != "" {
		parts = append(parts, f)
	}
	parts = append(parts, t.Format("2006"), t.Format("01"))
	ext := strings.ToLower(filepath.Ext(filename))
	if len(ext) > 10 {
		ext = ""
	}
	parts = append(parts, uuid.NewString()+safeSegment(ext))
	return strings.Join(parts, "/")
}

func (s *OSSSigner) PublicURL(key string) string {
	if base := strings.TrimSpace(s.cfg.PublicDomain); base != "" {
		return strings.TrimRight(base, "/") + "/" + key
	}
	end := strings.TrimPrefix(strings.TrimPrefix(s.cfg.Endpoint, "https://"), "http://")
	return fmt.Sprintf("https://%s.%s/%s", s.cfg.Bucket, end, key)
}

func safeSegment(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' || r == '_' || r == '.' {
			return r
		}
		return -1
	}, s)
}
