package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	logrus "github.com/sirupsen/logrus"

	"entregas_tracker/internal/apperr"
	"entregas_tracker/internal/models"
)

const (
	photoMaxWidth  = 800
	photoMaxHeight = 600
	photoQuality   = 80
)

// PhotoStore is the part of the customer table that holds the photo reference.
type PhotoStore interface {
	FindByID(ctx context.Context, id uint) (*models.Customer, error)
	SetPhoto(ctx context.Context, id uint, ref *string) error
}

// PhotoService keeps one order photo per customer on local disk under
// dir/<customer id>.jpg.
type PhotoService struct {
	dir       string
	customers PhotoStore
}

func NewPhotoService(dir string, customers PhotoStore) *PhotoService {
	return &PhotoService{dir: dir, customers: customers}
}

// Save normalises the image and stores it. The file is written first and
// the reference second; both steps are keyed by customer id so a retry
// after a partial failure converges.
func (s *PhotoService) Save(ctx context.Context, customerID uint, data []byte) (string, error) {
	if customerID == 0 || len(data) == 0 {
		return "", apperr.InvalidInput("clienteId and image are required")
	}
	if _, err := s.customers.FindByID(ctx, customerID); err != nil {
		return "", err
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return "", apperr.InvalidInput("unsupported image format")
	}
	img = imaging.Fit(img, photoMaxWidth, photoMaxHeight, imaging.Lanczos)

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", apperr.Internal(err, "could not create photo directory")
	}
	ref := fmt.Sprintf("%d.jpg", customerID)
	tmp := filepath.Join(s.dir, "."+uuid.NewString()+".tmp")
	if err := writeJPEG(tmp, img); err != nil {
		os.Remove(tmp)
		return "", apperr.Internal(err, "could not write photo")
	}
	if err := os.Rename(tmp, filepath.Join(s.dir, ref)); err != nil {
		os.Remove(tmp)
		return "", apperr.Internal(err, "could not store photo")
	}

	if err := s.customers.SetPhoto(ctx, customerID, &ref); err != nil {
		return "", err
	}
	logrus.WithFields(logrus.Fields{"customer_id": customerID, "file": ref}).Info("Order photo stored")
	return ref, nil
}

func writeJPEG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := imaging.Encode(f, img, imaging.JPEG, imaging.JPEGQuality(photoQuality)); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Path returns the file backing the customer's photo.
func (s *PhotoService) Path(ctx context.Context, customerID uint) (string, error) {
	c, err := s.customers.FindByID(ctx, customerID)
	if err != nil {
		return "", err
	}
	if c.PhotoID == nil || *c.PhotoID == "" {
		return "", apperr.NotFound("customer has no photo")
	}
	p := filepath.Join(s.dir, filepath.Base(*c.PhotoID))
	if _, err := os.Stat(p); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", apperr.NotFound("photo file not found")
		}
		return "", apperr.Internal(err, "could not stat photo")
	}
	return p, nil
}

func (s *PhotoService) Read(ctx context.Context, customerID uint) ([]byte, error) {
	p, err := s.Path(ctx, customerID)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(p)
	if err != nil {
		return nil, apperr.Internal(err, "could not read photo")
	}
	return data, nil
}

// Remove deletes the file, then clears the reference.
func (s *PhotoService) Remove(ctx context.Context, customerID uint) error {
	c, err := s.customers.FindByID(ctx, customerID)
	if err != nil {
		return err
	}
	if c.PhotoID == nil {
		return apperr.NotFound("customer has no photo")
	}
	p := filepath.Join(s.dir, filepath.Base(*c.PhotoID))
	if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
		return apperr.Internal(err, "could not delete photo")
	}
	return s.customers.SetPhoto(ctx, customerID, nil)
}
