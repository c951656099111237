package services

import (
	"bytes"
	"context"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"entregas_tracker/internal/apperr"
	"entregas_tracker/internal/faceheuristic"
	"entregas_tracker/internal/models"
)

// pngStripes encodes a w x h image of alternating dark and light columns.
func pngStripes(t *testing.T, w, h int, dark, light uint8) []byte {
	t.Helper()
	img := image.NewGray(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		v := dark
		if x%2 == 1 {
			v = light
		}
		for y := 0; y < h; y++ {
			img.SetGray(x, y, color.Gray{Y: v})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

type stubPhotos struct {
	data []byte
}

func (s stubPhotos) Read(context.Context, uint) ([]byte, error) {
	if s.data == nil {
		return nil, apperr.NotFound("customer has no photo")
	}
	return s.data, nil
}

func newFaceService(photos PhotoSource) (*FaceService, *fakeFaces) {
	faces := newFakeFaces()
	customers := newFakeCustomers(models.Customer{ID: 5, Name: "Ana"}, models.Customer{ID: 6, Name: "Luis"})
	return NewFaceService(faces, customers, photos, DefaultLimits()), faces
}

func TestRegisterAcceptsFaceLikeImage(t *testing.T) {
	svc, faces := newFaceService(nil)
	img := pngStripes(t, 120, 120, 95, 155) // mean 125, stdev 30

	reg, err := svc.Register(context.Background(), 5, img)
	require.NoError(t, err)
	assert.NotZero(t, reg.SampleID)
	assert.Equal(t, 15.0, reg.Confidence)

	stored := faces.samples[5]
	require.NotNil(t, stored)
	assert.Equal(t, base64.StdEncoding.EncodeToString(img), stored.Image)
}

func TestRegisterTwiceIsConflictRegardlessOfImage(t *testing.T) {
	svc, _ := newFaceService(nil)
	_, err := svc.Register(context.Background(), 5, pngStripes(t, 120, 120, 95, 155))
	require.NoError(t, err)

	for _, img := range [][]byte{
		pngStripes(t, 120, 120, 95, 155),
		pngStripes(t, 10, 10, 0, 0),
		[]byte("not an image"),
	} {
		_, err := svc.Register(context.Background(), 5, img)
		assert.True(t, apperr.Is(err, apperr.KindConflict), "got %v", err)
	}
}

func TestRegisterRejectsSmallImagesWithZeroConfidence(t *testing.T) {
	svc, faces := newFaceService(nil)
	for _, size := range [][2]int{{99, 200}, {200, 99}, {50, 50}} {
		_, err := svc.Register(context.Background(), 5, pngStripes(t, size[0], size[1], 95, 155))
		e, ok := apperr.As(err)
		require.True(t, ok)
		assert.Equal(t, apperr.KindRejectedImage, e.Kind)
		assert.Equal(t, 0.0, e.Confidence)
	}
	assert.Empty(t, faces.samples)
}

func TestRegisterRejectedImageCarriesConfidence(t *testing.T) {
	svc, _ := newFaceService(nil)
	svc.evaluate = func([]byte) faceheuristic.Result {
		return faceheuristic.Result{Confidence: 41.6, Reason: faceheuristic.ReasonNotFaceLike}
	}
	_, err := svc.Register(context.Background(), 5, []byte{1})
	e, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, apperr.KindRejectedImage, e.Kind)
	assert.Equal(t, 42.0, e.Confidence)
}

func TestRegisterValidation(t *testing.T) {
	svc, _ := newFaceService(nil)
	_, err := svc.Register(context.Background(), 0, []byte{1})
	assert.True(t, apperr.Is(err, apperr.KindInvalidInput))
	_, err = svc.Register(context.Background(), 5, nil)
	assert.True(t, apperr.Is(err, apperr.KindInvalidInput))
	_, err = svc.Register(context.Background(), 77, []byte{1})
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestVerifyRecordsWithoutEvaluating(t *testing.T) {
	svc, faces := newFaceService(nil)
	svc.evaluate = func([]byte) faceheuristic.Result {
		t.Fatal("verify must not evaluate images")
		return faceheuristic.Result{}
	}

	a, err := svc.Verify(context.Background(), VerifyInput{
		CustomerID: 5, DriverID: 7, Confidence: floatPtr(88), Passed: boolPtr(true), Notes: " ok ",
	})
	require.NoError(t, err)
	assert.Equal(t, "ok", a.Notes)
	assert.Len(t, faces.attempts, 1)

	_, err = svc.Verify(context.Background(), VerifyInput{CustomerID: 5, DriverID: 7})
	assert.True(t, apperr.Is(err, apperr.KindInvalidInput), "verified is required")

	_, err = svc.Verify(context.Background(), VerifyInput{
		CustomerID: 5, DriverID: 7, Confidence: floatPtr(101), Passed: boolPtr(false),
	})
	assert.True(t, apperr.Is(err, apperr.KindInvalidInput))
}

func TestHistoryNewestFirstWithOutcome(t *testing.T) {
	svc, _ := newFaceService(nil)
	for _, passed := range []bool{true, false, true} {
		_, err := svc.Verify(context.Background(), VerifyInput{CustomerID: 5, DriverID: 7, Passed: boolPtr(passed)})
		require.NoError(t, err)
	}
	_, err := svc.Verify(context.Background(), VerifyInput{CustomerID: 6, DriverID: 7, Passed: boolPtr(true)})
	require.NoError(t, err)

	hist, err := svc.History(context.Background(), 5, 2)
	require.NoError(t, err)
	require.Len(t, hist, 2)
	assert.Equal(t, uint(3), hist[0].ID)
	assert.Equal(t, models.OutcomePassed, hist[0].Result)
	assert.Equal(t, models.OutcomeFailed, hist[1].Result)
}

func TestStatusAndFaceImage(t *testing.T) {
	photo := pngStripes(t, 20, 20, 10, 20)
	svc, _ := newFaceService(stubPhotos{data: photo})

	st, err := svc.Status(context.Background(), 5)
	require.NoError(t, err)
	assert.False(t, st.HasRegisteredFace)

	url, err := svc.FaceImage(context.Background(), 5)
	require.NoError(t, err, "falls back to the order photo")
	assert.True(t, strings.HasPrefix(url, "data:image/png;base64,"))

	img := pngStripes(t, 120, 120, 95, 155)
	_, err = svc.Register(context.Background(), 5, img)
	require.NoError(t, err)

	st, err = svc.Status(context.Background(), 5)
	require.NoError(t, err)
	assert.True(t, st.HasRegisteredFace)
	assert.Equal(t, 15.0, *st.Confidence)

	url, err = svc.FaceImage(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, "data:image/png;base64,"+base64.StdEncoding.EncodeToString(img), url)

	none, _ := newFaceService(stubPhotos{})
	_, err = none.FaceImage(context.Background(), 6)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestDecodeImagePayload(t *testing.T) {
	raw := []byte{0x89, 'P', 'N', 'G'}
	enc := base64.StdEncoding.EncodeToString(raw)

	got, err := DecodeImagePayload("data:image/png;base64," + enc)
	require.NoError(t, err)
	assert.Equal(t, raw, got)

	got, err = DecodeImagePayload(enc)
	require.NoError(t, err)
	assert.Equal(t, raw, got)

	_, err = DecodeImagePayload("%%%")
	assert.True(t, apperr.Is(err, apperr.KindInvalidInput))
	_, err = DecodeImagePayload("")
	assert.True(t, apperr.Is(err, apperr.KindInvalidInput))
}
