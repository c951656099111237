// Package faceheuristic scores whether an image plausibly shows a face.
//
// This is a coarse proxy, not biometric matching: it only looks at the
// greyscale brightness and contrast of the whole frame. False positives and
// negatives are expected.
package faceheuristic

import (
	"bytes"
	"math"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp" // registers the WebP decoder
)

const (
	MinWidth  = 100
	MinHeight = 100

	minStdev    = 20.0
	minMean     = 50.0
	maxMean     = 200.0
	maxAccepted = 85.0
	minRejected = 15.0
	neutralMean = 125.0
)

const (
	ReasonFaceLike        = "face-like"
	ReasonNotFaceLike     = "not face-like"
	ReasonTooSmall        = "too small"
	ReasonProcessingError = "processing error"
)

type Result struct {
	IsFaceLike bool    `json:"isFaceLike"`
	Confidence float64 `json:"confidence"` // 0..100
	Reason     string  `json:"reason"`
}

// Stats are the greyscale intensity statistics of an image.
type Stats struct {
	Width, Height int
	Mean, Stdev   float64
}

// Evaluate decodes data and applies the brightness/contrast heuristic.
func Evaluate(data []byte) Result {
	st, err := Measure(data)
	if err != nil {
		return Result{Confidence: 0, Reason: ReasonProcessingError}
	}
	if st.Width < MinWidth || st.Height < MinHeight {
		return Result{Confidence: 0, Reason: ReasonTooSmall}
	}
	ok := Accepts(st.Mean, st.Stdev)
	r := Result{IsFaceLike: ok, Confidence: Score(st.Mean, st.Stdev, ok), Reason: ReasonNotFaceLike}
	if ok {
		r.Reason = ReasonFaceLike
	}
	return r
}

// Measure decodes an image and computes the mean and population standard
// deviation of its greyscale intensity.
func Measure(data []byte) (Stats, error) {
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return Stats{}, err
	}
	b := img.Bounds()
	st := Stats{Width: b.Dx(), Height: b.Dy()}
	if st.Width < MinWidth || st.Height < MinHeight {
		return st, nil
	}

	grey := imaging.Grayscale(img)
	n := float64(st.Width * st.Height)
	var sum, sumSq float64
	// NRGBA: every 4th byte is the (equal) R channel.
	for i := 0; i < len(grey.Pix); i += 4 {
		v := float64(grey.Pix[i])
		sum += v
		sumSq += v * v
	}
	st.Mean = sum / n
	variance := sumSq/n - st.Mean*st.Mean
	if variance < 0 {
		variance = 0
	}
	st.Stdev = math.Sqrt(variance)
	return st, nil
}

// Accepts is the face-like predicate: enough contrast, neither near-black
// nor near-white.
func Accepts(mean, stdev float64) bool {
	return stdev > minStdev && mean > minMean && mean < maxMean
}

// Score is the reported confidence for the given statistics.
func Score(mean, stdev float64, accepted bool) float64 {
	raw := stdev/2 + math.Abs(mean-neutralMean)/10
	if accepted {
		return math.Min(maxAccepted, raw)
	}
	return math.Max(minRejected, raw)
}
