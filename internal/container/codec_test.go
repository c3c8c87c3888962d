package container

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bar-access-app/internal/models"
	"bar-access-app/pkg/errors"
)

func sampleMetadata() models.ContainerMetadata {
	return models.ContainerMetadata{
		Filename:          "report.pdf",
		CreatedAt:         "2025-03-01T12:00:00",
		ExpiresAt:         "2025-03-08T12:00:00",
		MaxViews:          3,
		CurrentViews:      1,
		PasswordProtected: true,
		StorageMode:       models.StorageModeClient,
		ViewOnly:          true,
	}
}

func TestParse_RoundTrip_BothEncodings(t *testing.T) {
	meta := sampleMetadata()

	for _, encoding := range []BodyEncoding{EncodingJSON, EncodingBase64} {
		t.Run(string(encoding), func(t *testing.T) {
			data, err := Serialize(meta, encoding, nil)
			require.NoError(t, err)

			parsed, err := Parse(data)
			require.NoError(t, err)
			assert.Equal(t, meta, parsed.Metadata)
			assert.Equal(t, encoding, parsed.Encoding)
			assert.Equal(t, data, parsed.Raw())
		})
	}
}

func TestParse_CarriesEncryptedFieldsOpaquely(t *testing.T) {
	meta := sampleMetadata()
	data, err := Serialize(meta, EncodingJSON, &EncryptedFields{
		EncryptionKey: base64.StdEncoding.EncodeToString([]byte("not-a-real-key")),
		EncryptedData: base64.StdEncoding.EncodeToString([]byte("ciphertext")),
		Salt:          base64.StdEncoding.EncodeToString([]byte("salty")),
	})
	require.NoError(t, err)

	// Metadata must be readable without any key material being interpreted
	parsed, err := Parse(data)
	require.NoError(t, err)
	assert.Equal(t, meta, parsed.Metadata)
}

func TestParse_MissingMarker(t *testing.T) {
	_, err := Parse([]byte(`{"metadata": {}}`))
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrMalformedContainer))
}

func TestParse_WrongMarker(t *testing.T) {
	_, err := Parse([]byte("BAR_FILE_V2\n{}"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrMalformedContainer))
}

func TestParse_BodyNeitherJSONNorBase64(t *testing.T) {
	_, err := Parse([]byte("BAR_FILE_V1\n!!! definitely not json or base64 !!!"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrMalformedContainer))
}

func TestParse_Base64OfGarbage(t *testing.T) {
	garbage := base64.StdEncoding.EncodeToString([]byte("still not json"))
	_, err := Parse([]byte("BAR_FILE_V1\n" + garbage))
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrMalformedContainer))
}

func TestParse_EmptyBody(t *testing.T) {
	_, err := Parse([]byte("BAR_FILE_V1\n"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrMalformedContainer))
}

func TestParse_TrailingNewlineAfterBase64Body(t *testing.T) {
	meta := sampleMetadata()
	data, err := Serialize(meta, EncodingBase64, nil)
	require.NoError(t, err)

	parsed, err := Parse(append(data, '\n'))
	require.NoError(t, err)
	assert.Equal(t, meta, parsed.Metadata)
}

func TestSerialize_UnknownEncoding(t *testing.T) {
	_, err := Serialize(sampleMetadata(), BodyEncoding("gzip"), nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrValidationFailed))
}

func TestValidateContainerFilename(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		wantErr bool
	}{
		{"valid", "secret.bar", false},
		{"valid uppercase", "SECRET.BAR", false},
		{"wrong extension", "secret.zip", true},
		{"no extension", "secret", true},
		{"empty", "", true},
		{"bar in middle", "secret.bar.txt", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateContainerFilename(tt.file)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, errors.ErrValidationFailed))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestViewsRemaining(t *testing.T) {
	meta := sampleMetadata()
	assert.Equal(t, 2, meta.ViewsRemaining())

	meta.CurrentViews = 5
	assert.Equal(t, 0, meta.ViewsRemaining())

	meta.MaxViews = 0
	assert.Equal(t, -1, meta.ViewsRemaining())
}
