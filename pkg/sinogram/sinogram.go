// Package sinogram loads the inputs of a tomographic reconstruction: the
// sinogram image, the tilt-angle series that produced it, and the projection
// operator tying the two to the unknown specimen.
package sinogram

import (
	"errors"
	"fmt"

	"ctvm/internal/models"
	"ctvm/pkg/imageio"
)

// Sentinel errors for the sinogram package. Callers match them with errors.Is.
var (
	// ErrNoAngles is returned when a tilt-angle file contains no values.
	ErrNoAngles = errors.New("sinogram: tilt-angle file contains no angles")

	// ErrNonFiniteAngle is returned when a tilt angle is NaN or infinite.
	ErrNonFiniteAngle = errors.New("sinogram: non-finite tilt angle")

	// ErrGeometryMismatch is returned when the sinogram and tilt series
	// disagree on the number of projections.
	ErrGeometryMismatch = errors.New("sinogram: projection count does not match tilt series")
)

// Load decodes the sinogram image at path. Each column of the image is one
// projection; the row count is the detector width, which equals the side
// length of the specimen.
func Load(path string) (*models.Sinogram, error) {
	img, err := imageio.Load(path)
	if err != nil {
		return nil, err
	}
	return &models.Sinogram{
		Image:    img,
		Filename: path,
	}, nil
}

// Validate checks that the sinogram has one projection per tilt angle.
func Validate(s *models.Sinogram, tilts *models.TiltSeries) error {
	if s.NumProjections() != tilts.Count() {
		return fmt.Errorf("sinogram has %d projections, tilt series has %d angles: %w",
			s.NumProjections(), tilts.Count(), ErrGeometryMismatch)
	}
	return nil
}
