package ocr

import (
	"errors"
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecognizerFunc(t *testing.T) {
	want := []Word{{Text: "1.", Box: image.Rect(0, 0, 10, 10), Confidence: 91}}
	var r Recognizer = RecognizerFunc(func(img []byte) ([]Word, error) {
		if len(img) == 0 {
			return nil, errors.New("empty")
		}
		return want, nil
	})

	got, err := r.Words([]byte{1})
	require.NoError(t, err)
	assert.Equal(t, want, got)

	_, err = r.Words(nil)
	assert.Error(t, err)
}
