package regions

import (
	"errors"
	"image"
	"testing"

	"github.com/fogleman/gg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tsawler/quizdeck/model"
	"github.com/tsawler/quizdeck/ocr"
	"github.com/tsawler/quizdeck/variant"
)

func detection(t *testing.T) variant.Detection {
	t.Helper()
	v, err := variant.Lookup("mcq1")
	require.NoError(t, err)
	return v.Detection
}

// page draws outlined shapes on a white canvas.
func page(w, h int, draw func(dc *gg.Context)) image.Image {
	dc := gg.NewContext(w, h)
	dc.SetRGB(1, 1, 1)
	dc.Clear()
	dc.SetRGB(0, 0, 0)
	dc.SetLineWidth(6)
	draw(dc)
	return dc.Image()
}

func TestDiagrams_Classification(t *testing.T) {
	img := page(1200, 1600, func(dc *gg.Context) {
		dc.DrawRectangle(100, 200, 400, 300)
		dc.Stroke()
		dc.DrawCircle(700, 1000, 200)
		dc.Stroke()
	})

	d, err := New(detection(t), nil, nil)
	require.NoError(t, err)
	got := d.Diagrams(img)
	require.Len(t, got, 2)

	assert.Equal(t, model.ShapeRectangular, got[0].Shape)
	assert.InDelta(t, 100, got[0].Box.X, 8)
	assert.InDelta(t, 200, got[0].Box.Y, 8)
	assert.InDelta(t, 400, got[0].Box.Width, 12)
	assert.InDelta(t, 300, got[0].Box.Height, 12)

	assert.Equal(t, model.ShapeCircular, got[1].Shape)
	assert.InDelta(t, 700, got[1].Box.CenterX(), 8)
	assert.InDelta(t, 1000, got[1].Box.CenterY(), 8)
	assert.InDelta(t, 400, got[1].Box.Width, 12)
}

func TestDiagrams_Filters(t *testing.T) {
	img := page(1000, 1000, func(dc *gg.Context) {
		dc.DrawRectangle(50, 50, 50, 50) // too small
		dc.Stroke()
		dc.DrawLine(100, 400, 900, 400) // too thin
		dc.Stroke()
		dc.DrawRectangle(5, 5, 990, 990) // most of the page
		dc.Stroke()
	})

	d, err := New(detection(t), nil, nil)
	require.NoError(t, err)
	assert.Empty(t, d.Diagrams(img))
}

func TestDiagrams_DropsNested(t *testing.T) {
	img := page(1000, 1000, func(dc *gg.Context) {
		dc.DrawRectangle(100, 100, 600, 600)
		dc.Stroke()
		dc.DrawCircle(400, 400, 150)
		dc.Stroke()
	})

	d, err := New(detection(t), nil, nil)
	require.NoError(t, err)
	got := d.Diagrams(img)
	require.Len(t, got, 1)
	assert.Equal(t, model.ShapeRectangular, got[0].Shape)
	assert.InDelta(t, 600, got[0].Box.Width, 12)
}

func TestAnchors(t *testing.T) {
	calls := 0
	rec := ocr.RecognizerFunc(func(img []byte) ([]ocr.Word, error) {
		calls++
		_, _, err := image.Decode(bytesReader(img))
		require.NoError(t, err)
		switch calls {
		case 1:
			return []ocr.Word{
				{Text: "2.", Box: image.Rect(40, 600, 70, 630), Confidence: 50},
				{Text: "1.", Box: image.Rect(40, 100, 70, 130), Confidence: 80},
				{Text: "12", Box: image.Rect(40, 900, 70, 930), Confidence: 90},
				{Text: "3.5", Box: image.Rect(40, 950, 70, 980), Confidence: 90},
			}, nil
		case 2:
			return []ocr.Word{
				{Text: "2.", Box: image.Rect(42, 602, 72, 632), Confidence: 95},
				{Text: "3.", Box: image.Rect(640, 100, 670, 130), Confidence: 70},
				{Text: "4.", Box: image.Rect(40, 1200, 70, 1230), Confidence: 70},
				{Text: "5.", Box: image.Rect(40, 1500, 70, 1530), Confidence: 70},
			}, nil
		default:
			t.Fatal("passes should stop once enough anchors are found")
			return nil, nil
		}
	})

	d, err := New(detection(t), rec, nil)
	require.NoError(t, err)
	got, err := d.Anchors(image.NewGray(image.Rect(0, 0, 100, 100)))
	require.NoError(t, err)
	assert.Equal(t, 2, calls)

	require.Len(t, got, 5)
	var numbers []int
	for _, a := range got {
		numbers = append(numbers, a.Number)
	}
	// y then x: 1 and 3 share a row.
	assert.Equal(t, []int{1, 3, 2, 4, 5}, numbers)
	assert.Equal(t, 95.0, got[2].Confidence)
	assert.Equal(t, 42, got[2].Box.X)
}

func TestAnchors_PassErrors(t *testing.T) {
	calls := 0
	flaky := ocr.RecognizerFunc(func([]byte) ([]ocr.Word, error) {
		calls++
		if calls == 1 {
			return nil, errors.New("engine hiccup")
		}
		return []ocr.Word{{Text: "7.", Box: image.Rect(0, 0, 5, 5), Confidence: 60}}, nil
	})
	d, err := New(detection(t), flaky, nil)
	require.NoError(t, err)
	got, err := d.Anchors(image.NewGray(image.Rect(0, 0, 10, 10)))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 7, got[0].Number)
	assert.Equal(t, 3, calls)

	broken := ocr.RecognizerFunc(func([]byte) ([]ocr.Word, error) {
		return nil, ocr.ErrOCRNotEnabled
	})
	d, err = New(detection(t), broken, nil)
	require.NoError(t, err)
	_, err = d.Anchors(image.NewGray(image.Rect(0, 0, 10, 10)))
	assert.True(t, errors.Is(err, ocr.ErrOCRNotEnabled))
}

func TestNew_UnknownPass(t *testing.T) {
	cfg := detection(t)
	cfg.AnchorPasses = []string{"gray", "sobel"}
	_, err := New(cfg, nil, nil)
	assert.True(t, errors.Is(err, ErrUnknownPass))
}

func TestDetect(t *testing.T) {
	img := page(1200, 1600, func(dc *gg.Context) {
		dc.DrawRectangle(300, 300, 500, 400)
		dc.Stroke()
	})
	rec := ocr.RecognizerFunc(func([]byte) ([]ocr.Word, error) {
		return []ocr.Word{{Text: "1.", Box: image.Rect(60, 200, 90, 230), Confidence: 88}}, nil
	})

	d, err := New(detection(t), rec, nil)
	require.NoError(t, err)
	res, err := d.Detect(img)
	require.NoError(t, err)
	assert.Equal(t, 1200, res.Width)
	assert.Equal(t, 1600, res.Height)
	require.Len(t, res.Anchors, 1)
	require.Len(t, res.Diagrams, 1)

	d, err = New(detection(t), nil, nil)
	require.NoError(t, err)
	res, err = d.Detect(img)
	require.NoError(t, err)
	assert.Empty(t, res.Anchors)
	assert.Len(t, res.Diagrams, 1)
}
