package models

import (
	"ctvm/pkg/raster"
)

// Sinogram is a stack of 1-D projections of a square specimen, one column per
// tilt angle. Row count is the detector width, which equals the side length
// of the specimen being reconstructed.
type Sinogram struct {
	// Image holds the projection data; Image.At(r, c) is detector bin r of
	// projection c.
	Image *raster.Image

	// Filename is the file the sinogram was loaded from, kept for reporting.
	Filename string
}

// DetectorWidth returns the number of detector bins per projection.
func (s *Sinogram) DetectorWidth() int {
	return s.Image.Rows()
}

// NumProjections returns the number of projections in the stack.
func (s *Sinogram) NumProjections() int {
	return s.Image.Cols()
}

// MeasurementCount returns the total number of scalar measurements.
func (s *Sinogram) MeasurementCount() int {
	return s.Image.Rows() * s.Image.Cols()
}

// Measurements rasterizes the sinogram column by column into the measurement
// vector b, so one projection occupies one contiguous run.
func (s *Sinogram) Measurements() []float64 {
	return s.Image.ToVector()
}

// TiltSeries is the ordered set of tilt angles, in radians, at which the
// projections of a sinogram were acquired.
type TiltSeries struct {
	// Angles holds one entry per projection.
	Angles []float64

	// Filename is the file the series was read from, kept for reporting.
	Filename string
}

// Count returns the number of tilt angles in the series.
func (t *TiltSeries) Count() int {
	return len(t.Angles)
}
