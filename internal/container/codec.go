package container

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"

	"bar-access-app/internal/models"
	"bar-access-app/pkg/errors"
)

// FileMarker is the byte-exact first line of every offline container
const FileMarker = "BAR_FILE_V1"

// FileExtension is the required extension for offline containers
const FileExtension = ".bar"

// BodyEncoding identifies how the container body is encoded. Two encodings
// exist in the wild; the parser probes them in a fixed order and records
// which one succeeded so future format versions can be added without
// breaking older files.
type BodyEncoding string

const (
	// EncodingJSON is a raw UTF-8 JSON body
	EncodingJSON BodyEncoding = "json"
	// EncodingBase64 is a base64-encoded UTF-8 JSON body
	EncodingBase64 BodyEncoding = "base64"
)

// body is the container's JSON document. The encrypted fields are carried
// opaquely; parsing never requires the decryption password.
type body struct {
	Metadata      models.ContainerMetadata `json:"metadata"`
	EncryptionKey string                   `json:"encryption_key,omitempty"`
	EncryptedData string                   `json:"encrypted_data,omitempty"`
	Salt          string                   `json:"salt,omitempty"`
}

// Container is the parsed form of an offline container file
type Container struct {
	Metadata models.ContainerMetadata
	Encoding BodyEncoding

	raw []byte // original file bytes, kept for the decrypt-upload call
}

// Raw returns the original container bytes as read from disk
func (c *Container) Raw() []byte {
	return c.raw
}

// Parse extracts the metadata block from raw container bytes. It is a pure
// parse with no side effects and never touches the encrypted payload.
func Parse(data []byte) (*Container, error) {
	marker := []byte(FileMarker + "\n")
	if !bytes.HasPrefix(data, marker) {
		return nil, errors.NewAppError(errors.ErrMalformedContainer,
			"missing container marker line", nil)
	}

	bodyBytes := data[len(marker):]

	// Probe raw JSON first, then base64-of-JSON.
	var parsed body
	if err := json.Unmarshal(bodyBytes, &parsed); err == nil {
		return &Container{Metadata: parsed.Metadata, Encoding: EncodingJSON, raw: data}, nil
	}

	decoded, err := base64.StdEncoding.DecodeString(strings.TrimSpace(string(bodyBytes)))
	if err != nil {
		return nil, errors.NewAppError(errors.ErrMalformedContainer,
			"container body is neither JSON nor base64", err)
	}
	if err := json.Unmarshal(decoded, &parsed); err != nil {
		return nil, errors.NewAppError(errors.ErrMalformedContainer,
			"base64 container body is not valid JSON", err)
	}

	return &Container{Metadata: parsed.Metadata, Encoding: EncodingBase64, raw: data}, nil
}

// Serialize produces container bytes holding the given metadata under the
// requested body encoding. Encrypted fields are carried through untouched
// when provided via opts; callers that only need the metadata block (tests,
// fixtures) can pass nil.
func Serialize(meta models.ContainerMetadata, encoding BodyEncoding, opts *EncryptedFields) ([]byte, error) {
	doc := body{Metadata: meta}
	if opts != nil {
		doc.EncryptionKey = opts.EncryptionKey
		doc.EncryptedData = opts.EncryptedData
		doc.Salt = opts.Salt
	}

	bodyBytes, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, errors.WrapError(err, errors.ErrMalformedContainer, "failed to encode container body")
	}

	switch encoding {
	case EncodingJSON:
		// keep raw
	case EncodingBase64:
		bodyBytes = []byte(base64.StdEncoding.EncodeToString(bodyBytes))
	default:
		return nil, errors.NewAppError(errors.ErrValidationFailed,
			fmt.Sprintf("unknown body encoding: %s", encoding), nil)
	}

	out := make([]byte, 0, len(FileMarker)+1+len(bodyBytes))
	out = append(out, []byte(FileMarker+"\n")...)
	out = append(out, bodyBytes...)
	return out, nil
}

// EncryptedFields carries the opaque encrypted portions of a container body
type EncryptedFields struct {
	EncryptionKey string
	EncryptedData string
	Salt          string
}

// ValidateContainerFilename rejects files that cannot be containers before
// any I/O or network call happens.
func ValidateContainerFilename(name string) error {
	if name == "" {
		return errors.NewAppError(errors.ErrValidationFailed, "no file selected", nil)
	}
	if !strings.HasSuffix(strings.ToLower(name), FileExtension) {
		return errors.NewAppError(errors.ErrValidationFailed,
			fmt.Sprintf("only %s files are accepted", FileExtension), nil)
	}
	return nil
}
