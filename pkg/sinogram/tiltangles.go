package sinogram

import (
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"ctvm/internal/models"
)

// ReadTiltAngles parses a tilt-angle series from a plain-text file of
// whitespace-separated values in radians.
//
// A trailing newline in the file can make the stream reader of the
// acquisition software emit the final angle twice. A real series never
// repeats its last angle, so a bit-identical trailing duplicate is dropped.
func ReadTiltAngles(path string) (*models.TiltSeries, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read tilt-angle file %s: %w", path, err)
	}

	fields := strings.Fields(string(data))
	if len(fields) == 0 {
		return nil, fmt.Errorf("%s: %w", path, ErrNoAngles)
	}

	angles := make([]float64, 0, len(fields))
	for _, field := range fields {
		v, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return nil, fmt.Errorf("failed to parse tilt angle %q in %s: %w", field, path, err)
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("tilt angle %q in %s: %w", field, path, ErrNonFiniteAngle)
		}
		angles = append(angles, v)
	}

	if n := len(angles); n >= 2 && angles[n-1] == angles[n-2] {
		angles = angles[:n-1]
	}

	return &models.TiltSeries{
		Angles:   angles,
		Filename: path,
	}, nil
}
