// internal/services/storage_service_test.go
package services

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mp4Payload() []byte {
	return append([]byte{0x00, 0x00, 0x00, 0x18}, []byte("ftypisom payload")...)
}

// stuckFile reads fine but cannot rewind, like a network-backed part whose
// buffer was already consumed.
type stuckFile struct {
	*bytes.Reader
}

func (stuckFile) Close() error { return nil }

func (stuckFile) Seek(offset int64, whence int) (int64, error) {
	return 0, errors.New("seek on closed part")
}

type seekableFile struct {
	*bytes.Reader
}

func (seekableFile) Close() error { return nil }

func TestValidateVideoFile(t *testing.T) {
	t.Run("mp4 container", func(t *testing.T) {
		f := seekableFile{bytes.NewReader(mp4Payload())}
		require.NoError(t, ValidateVideoFile(f))

		// The validator must leave the cursor at byte zero for the upload
		pos, err := f.Seek(0, 1)
		require.NoError(t, err)
		assert.Equal(t, int64(0), pos)
	})

	t.Run("webm container", func(t *testing.T) {
		payload := append([]byte{0x1A, 0x45, 0xDF, 0xA3}, []byte("webm payload")...)
		f := seekableFile{bytes.NewReader(payload)}
		assert.NoError(t, ValidateVideoFile(f))
	})

	t.Run("non-video payload", func(t *testing.T) {
		f := seekableFile{bytes.NewReader([]byte("plain text, definitely not video"))}
		assert.Error(t, ValidateVideoFile(f))
	})

	t.Run("failed rewind is an error", func(t *testing.T) {
		f := stuckFile{bytes.NewReader(mp4Payload())}
		err := ValidateVideoFile(f)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "rewind")
	})
}
