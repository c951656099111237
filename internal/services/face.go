package services

import (
	"context"
	"encoding/base64"
	"math"
	"strings"
	"time"

	logrus "github.com/sirupsen/logrus"

	"entregas_tracker/internal/apperr"
	"entregas_tracker/internal/faceheuristic"
	"entregas_tracker/internal/metrics"
	"entregas_tracker/internal/models"
)

// FaceStore persists reference samples and verification attempts.
type FaceStore interface {
	SampleByCustomer(ctx context.Context, customerID uint) (*models.FaceSample, error)
	CreateSample(ctx context.Context, s *models.FaceSample) error
	CreateAttempt(ctx context.Context, a *models.VerificationAttempt) error
	Attempts(ctx context.Context, customerID uint, limit int) ([]models.VerificationRecord, error)
}

// CustomerFinder loads a single customer.
type CustomerFinder interface {
	FindByID(ctx context.Context, id uint) (*models.Customer, error)
}

// PhotoSource returns the stored order photo of a customer.
type PhotoSource interface {
	Read(ctx context.Context, customerID uint) ([]byte, error)
}

// Registration is the result of a successful face registration.
type Registration struct {
	SampleID   uint    `json:"fotoId"`
	Confidence float64 `json:"confidence"`
}

// VerifyInput is the outcome of a hand-off check performed by a driver.
type VerifyInput struct {
	CustomerID uint     `json:"clienteId"`
	DriverID   uint     `json:"-"`
	Confidence *float64 `json:"confidence"`
	Passed     *bool    `json:"verified"`
	Notes      string   `json:"notes"`
}

// FaceStatus reports whether a customer has a reference sample.
type FaceStatus struct {
	HasRegisteredFace bool       `json:"hasRegisteredFace"`
	RegisteredAt      *time.Time `json:"fechaRegistro,omitempty"`
	Confidence        *float64   `json:"confianza,omitempty"`
}

type FaceService struct {
	faces     FaceStore
	customers CustomerFinder
	photos    PhotoSource
	limits    Limits
	evaluate  func([]byte) faceheuristic.Result
	now       func() time.Time
}

func NewFaceService(faces FaceStore, customers CustomerFinder, photos PhotoSource, limits Limits) *FaceService {
	return &FaceService{
		faces:     faces,
		customers: customers,
		photos:    photos,
		limits:    limits,
		evaluate:  faceheuristic.Evaluate,
		now:       time.Now,
	}
}

// Register stores the customer's one reference sample. A customer moves
// from unregistered to registered exactly once.
func (s *FaceService) Register(ctx context.Context, customerID uint, image []byte) (*Registration, error) {
	if customerID == 0 || len(image) == 0 {
		return nil, apperr.InvalidInput("clienteId and image are required")
	}
	if _, err := s.customers.FindByID(ctx, customerID); err != nil {
		return nil, err
	}

	existing, err := s.faces.SampleByCustomer(ctx, customerID)
	switch {
	case err == nil && existing != nil:
		metrics.FaceRegistrationsTotal.WithLabelValues("duplicate").Inc()
		return nil, apperr.Conflict("customer already has a registered face")
	case err != nil && !apperr.Is(err, apperr.KindNotFound):
		return nil, err
	}

	res := s.evaluate(image)
	conf := math.Round(res.Confidence)
	if !res.IsFaceLike {
		metrics.FaceRegistrationsTotal.WithLabelValues("rejected").Inc()
		logrus.WithFields(logrus.Fields{
			"customer_id": customerID,
			"confidence":  conf,
			"reason":      res.Reason,
		}).Info("Face registration rejected")
		return nil, apperr.RejectedImage("no face-like image detected: "+res.Reason, conf)
	}

	sample := &models.FaceSample{
		CustomerID: customerID,
		Image:      base64.StdEncoding.EncodeToString(image),
		Confidence: conf,
	}
	if err := s.faces.CreateSample(ctx, sample); err != nil {
		if apperr.Is(err, apperr.KindConflict) {
			metrics.FaceRegistrationsTotal.WithLabelValues("duplicate").Inc()
		}
		return nil, err
	}

	metrics.FaceRegistrationsTotal.WithLabelValues("registered").Inc()
	logrus.WithFields(logrus.Fields{"customer_id": customerID, "sample_id": sample.ID}).Info("Face registered")
	return &Registration{SampleID: sample.ID, Confidence: conf}, nil
}

// Verify records a verification outcome. The comparison itself happens on
// the driver's device; nothing is evaluated here.
func (s *FaceService) Verify(ctx context.Context, in VerifyInput) (*models.VerificationAttempt, error) {
	if in.CustomerID == 0 || in.DriverID == 0 || in.Passed == nil {
		return nil, apperr.InvalidInput("clienteId and verified are required")
	}
	var conf float64
	if in.Confidence != nil {
		conf = *in.Confidence
		if math.IsNaN(conf) || conf < 0 || conf > 100 {
			return nil, apperr.InvalidInput("confidence must be between 0 and 100")
		}
	}
	if _, err := s.customers.FindByID(ctx, in.CustomerID); err != nil {
		return nil, err
	}

	a := &models.VerificationAttempt{
		CustomerID: in.CustomerID,
		DriverID:   in.DriverID,
		Confidence: conf,
		Passed:     *in.Passed,
		Notes:      strings.TrimSpace(in.Notes),
		VerifiedAt: s.now().UTC(),
	}
	if err := s.faces.CreateAttempt(ctx, a); err != nil {
		return nil, err
	}
	metrics.FaceVerificationsTotal.WithLabelValues(a.Outcome()).Inc()
	return a, nil
}

// History lists a customer's verifications, newest first.
func (s *FaceService) History(ctx context.Context, customerID uint, limit int) ([]models.VerificationRecord, error) {
	if customerID == 0 {
		return nil, apperr.InvalidInput("clienteId is required")
	}
	out, err := s.faces.Attempts(ctx, customerID, s.limits.page(limit, s.limits.VerificationLimit))
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []models.VerificationRecord{}
	}
	for i := range out {
		out[i].Result = out[i].Outcome()
	}
	return out, nil
}

func (s *FaceService) Status(ctx context.Context, customerID uint) (*FaceStatus, error) {
	sample, err := s.faces.SampleByCustomer(ctx, customerID)
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			return &FaceStatus{}, nil
		}
		return nil, err
	}
	return &FaceStatus{
		HasRegisteredFace: true,
		RegisteredAt:      &sample.RegisteredAt,
		Confidence:        &sample.Confidence,
	}, nil
}

// FaceImage returns the reference sample as a data URL, or the customer's
// order photo when no sample was registered.
func (s *FaceService) FaceImage(ctx context.Context, customerID uint) (string, error) {
	sample, err := s.faces.SampleByCustomer(ctx, customerID)
	if err == nil {
		raw, derr := base64.StdEncoding.DecodeString(sample.Image)
		if derr != nil {
			return "", apperr.Internal(derr, "stored face sample is corrupt")
		}
		return dataURL(raw), nil
	}
	if !apperr.Is(err, apperr.KindNotFound) {
		return "", err
	}

	if s.photos != nil {
		raw, perr := s.photos.Read(ctx, customerID)
		if perr == nil {
			return dataURL(raw), nil
		}
		if !apperr.Is(perr, apperr.KindNotFound) {
			return "", perr
		}
	}
	return "", apperr.NotFound("no image available for this customer")
}
