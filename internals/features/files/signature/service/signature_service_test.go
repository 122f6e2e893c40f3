package service

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pesantren_backend/internals/configs"
	"pesantren_backend/internals/features/files/signature/dto"
	"pesantren_backend/internals/helpers/apperror"
)

func sha1Hex(s string) string {
	sum := sha1.Sum([]byte(s))
	return hex.EncodeToString(sum[:])
}

func TestSignParamsSortsKeys(t *testing.T) {
	got := SignParams(map[string]string{"timestamp": "1700000000", "folder": "santri", "eager": "w_400"}, "abc")
	assert.Equal(t, sha1Hex("eager=w_400&folder=santri&timestamp=1700000000abc"), got)

	// fungsi murni: input sama → hasil sama
	assert.Equal(t, got, SignParams(map[string]string{"folder": "santri", "eager": "w_400", "timestamp": "1700000000"}, "abc"))
}

func TestParamSigner(t *testing.T) {
	s := &ParamSigner{APIKey: "key", APISecret: "sec", CloudName: "pondok", Folder: "pesantren",
		Now: func() time.Time { return time.Unix(1700000000, 0) }}

	out, err := s.Sign(context.Background(), map[string]any{"public_id": "foto_ali", "file": "ignored", "api_key": "x"})
	require.NoError(t, err)
	m := out.(map[string]any)

	assert.Equal(t, "1700000000", m["timestamp"])
	assert.Equal(t, "pesantren", m["folder"])
	assert.Equal(t, "key", m["api_key"])
	assert.Equal(t, "pondok", m["cloud_name"])
	assert.NotContains(t, m, "file")
	assert.Equal(t, sha1Hex("folder=pesantren&public_id=foto_ali&timestamp=1700000000sec"), m["signature"])
}

func TestMissingSecretIsConfigMissing(t *testing.T) {
	signer, err := NewSigner(&configs.Config{UploadProvider: ProviderSignedParams})
	require.NoError(t, err)
	_, err = signer.Sign(context.Background(), map[string]any{})
	assert.ErrorIs(t, err, apperror.ErrConfigMissing)

	signer, err = NewSigner(&configs.Config{UploadProvider: ProviderOSS, OSSEndpoint: "oss-ap-southeast-5.aliyuncs.com"})
	require.NoError(t, err)
	_, err = signer.Sign(context.Background(), map[string]any{"filename": "a.jpg"})
	assert.ErrorIs(t, err, apperror.ErrConfigMissing)

	_, err = NewSigner(&configs.Config{UploadProvider: "ftp"})
	assert.Error(t, err)
}

func TestOSSSignerPresignsPut(t *testing.T) {
	s, err := NewOSSSigner(OSSConfig{
		Endpoint:  "https://oss-ap-southeast-5.aliyuncs.com",
		AccessKey: "ak",
		SecretKey: "sk",
		Bucket:    "pondok-files",
		Prefix:    "/uploads/",
		TTL:       10 * time.Minute,
	})
	require.NoError(t, err)
	s.Now = func() time.Time { return time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC) }

	out, err := s.Sign(context.Background(), map[string]any{"filename": "Foto Santri.JPG", "content_type": "image/jpeg", "folder": "../santri"})
	require.NoError(t, err)
	res := out.(dto.OSSUploadResponse)

	assert.Equal(t, "PUT", res.Method)
	assert.True(t, strings.HasPrefix(res.ObjectKey, "uploads/santri/2024/07/"), res.ObjectKey)
	assert.True(t, strings.HasSuffix(res.ObjectKey, ".jpg"), res.ObjectKey)
	assert.Contains(t, res.UploadURL, "pondok-files.oss-ap-southeast-5.aliyuncs.com")
	assert.Contains(t, res.UploadURL, "Signature=")
	assert.EqualValues(t, 600, res.ExpiresIn)
	assert.Equal(t, "https://pondok-files.oss-ap-southeast-5.aliyuncs.com/"+res.ObjectKey, res.PublicURL)

	_, err = s.Sign(context.Background(), map[string]any{})
	assert.ErrorIs(t, err, apperror.ErrBadRequest)
}
