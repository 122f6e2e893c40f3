// internals/features/files/signature/service/signature_service.go
package service

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"pesantren_backend/internals/configs"
	"pesantren_backend/internals/helpers/apperror"
)

const (
	ProviderSignedParams = "signed-params"
	ProviderOSS          = "oss"
)

// Signer menghasilkan kredensial upload. Tidak menyimpan state apa pun.
type Signer interface {
	Provider() string
	Sign(ctx context.Context, body map[string]any) (any, error)
}

// NewSigner memilih provider dari config. Secret kosong tidak error di sini;
// error ConfigMissing baru muncul saat Sign dipanggil.
func NewSigner(cfg *configs.Config) (Signer, error) {
	switch cfg.UploadProvider {
	case "", ProviderSignedParams:
		return &ParamSigner{
			APIKey:    cfg.UploadAPIKey,
			APISecret: cfg.UploadAPISecret,
			CloudName: cfg.UploadCloudName,
			Folder:    cfg.UploadFolder,
			Now:       time.Now,
		}, nil
	case ProviderOSS:
		return NewOSSSigner(OSSConfig{
			Endpoint:     cfg.OSSEndpoint,
			AccessKey:    cfg.OSSAccessKey,
			SecretKey:    cfg.OSSSecretKey,
			Bucket:       cfg.OSSBucket,
			Prefix:       cfg.OSSPrefix,
			TTL:          time.Duration(cfg.OSSSignTTLSec) * time.Second,
			PublicDomain: cfg.OSSPublicDomain,
		})
	default:
		return nil, fmt.Errorf("unknown UPLOAD_PROVIDER %q", cfg.UploadProvider)
	}
}

/* ===============================
   signed-params
=================================*/

// Param yang tidak ikut ditandatangani.
var unsignedParams = map[string]bool{
	"file":          true,
	"api_key":       true,
	"cloud_name":    true,
	"resource_type": true,
	"signature":     true,
}

// ParamSigner: signature = sha1("k1=v1&k2=v2" + secret), key terurut.
type ParamSigner struct {
	APIKey    string
	APISecret string
	CloudName string
	Folder    string
	Now       func() time.Time
}

func (s *ParamSigner) Provider() string { return ProviderSignedParams }

func (s *ParamSigner) Sign(_ context.Context, body map[string]any) (any, error) {
	if strings.TrimSpace(s.APISecret) == "" {
		return nil, apperror.ConfigMissing("UPLOAD_API_SECRET")
	}

	params := make(map[string]string, len(body)+2)
	for k, v := range body {
		if unsignedParams[k] || v == nil {
			continue
		}
		str := paramString(v)
		if str == "" {
			continue
		}
		params[k] = str
	}
	if _, ok := params["timestamp"]; !ok {
		now := time.Now
		if s.Now != nil {
			now = s.Now
		}
		params["timestamp"] = strconv.FormatInt(now().Unix(), 10)
	}
	if _, ok := params["folder"]; !ok && s.Folder != "" {
		params["folder"] = s.Folder
	}

	out := make(map[string]any, len(params)+3)
	for k, v := range params {
		out[k] = v
	}
	out["signature"] = SignParams(params, s.APISecret)
	out["api_key"] = s.APIKey
	out["cloud_name"] = s.CloudName
	return out, nil
}

// SignParams: fungsi murni, dipakai juga oleh test.
func SignParams(params map[string]string, secret string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(params[k])
	}
	b.WriteString(secret)

	sum := sha1.Sum([]byte(b.String()))
	return hex.EncodeToString(sum[:])
}

func paramString(v any) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	case []any:
		parts := make([]string, 0, len(t))
		for _, p := range t {
			parts = append(parts, paramString(p))
		}
		return strings.Join(parts, ",")
	default:
		return fmt.Sprint(t)
	}
}
