package recovery

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"ctvm/pkg/imageio"
	"ctvm/pkg/raster"
	"ctvm/pkg/tval3"
)

// writeInputs produces a small synthetic sinogram image and matching tilt
// series on disk.
func writeInputs(t *testing.T, dir string, side, projections int) (sinoPath, tiltPath string) {
	t.Helper()

	img, err := raster.New(side, projections)
	if err != nil {
		t.Fatalf("raster.New failed: %v", err)
	}
	for r := 0; r < side; r++ {
		for c := 0; c < projections; c++ {
			img.Set(r, c, float64((r+c)%side)/float64(side-1))
		}
	}
	sinoPath = filepath.Join(dir, "sinogram.png")
	if err := imageio.Save(sinoPath, img); err != nil {
		t.Fatalf("failed to write sinogram: %v", err)
	}

	tiltPath = filepath.Join(dir, "angles.tlt")
	contents := ""
	for i := 0; i < projections; i++ {
		contents += fmt.Sprintf("0.%d\n", i+1)
	}
	if err := os.WriteFile(tiltPath, []byte(contents), 0644); err != nil {
		t.Fatalf("failed to write tilt file: %v", err)
	}
	return sinoPath, tiltPath
}

// TestProcessPipeline runs the full pipeline on synthetic inputs through the
// random projection stub and checks the recovered image lands on disk.
func TestProcessPipeline(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping pipeline test in short mode")
	}

	dir := t.TempDir()
	sinoPath, tiltPath := writeInputs(t, dir, 8, 3)
	outPath := filepath.Join(dir, "recovered.png")

	params := &Params{
		SinogramFile:  sinoPath,
		TiltAngleFile: tiltPath,
		OutputFile:    outPath,
		Seed:          7,
		Solver:        tval3.SolverParams{MaxOuterIters: 20},
	}
	rec := NewRecoverer(params)
	if err := rec.Process(); err != nil {
		t.Fatalf("Process failed: %v", err)
	}

	result := rec.Result()
	if result == nil {
		t.Fatal("no result after Process")
	}
	if result.Status == tval3.NumericalFailure {
		t.Fatalf("solver reported %v", result.Status)
	}
	if result.Image.Rows() != 8 || result.Image.Cols() != 8 {
		t.Errorf("recovered image is %dx%d, want 8x8",
			result.Image.Rows(), result.Image.Cols())
	}

	img, err := imageio.Load(outPath)
	if err != nil {
		t.Fatalf("recovered image not decodable: %v", err)
	}
	if img.Rows() != 8 || img.Cols() != 8 {
		t.Errorf("written image is %dx%d, want 8x8", img.Rows(), img.Cols())
	}

	report, err := rec.ReprojectionReport()
	if err != nil {
		t.Fatalf("ReprojectionReport failed: %v", err)
	}
	if report.RMSE < 0 || report.RMSE > 1 {
		t.Errorf("reprojection RMSE %v outside [0,1] on normalized images", report.RMSE)
	}
}

// TestProcessSnapshots verifies the intermediary frames appear when enabled.
func TestProcessSnapshots(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping pipeline test in short mode")
	}

	dir := t.TempDir()
	sinoPath, tiltPath := writeInputs(t, dir, 8, 3)
	snapDir := filepath.Join(dir, "frames")

	params := &Params{
		SinogramFile:            sinoPath,
		TiltAngleFile:           tiltPath,
		OutputFile:              filepath.Join(dir, "recovered.png"),
		Seed:                    7,
		Solver:                  tval3.SolverParams{MaxOuterIters: 5},
		SaveIntermediaryResults: true,
		IntermediaryDir:         snapDir,
	}
	rec := NewRecoverer(params)
	if err := rec.Process(); err != nil {
		t.Fatalf("Process failed: %v", err)
	}

	if _, err := os.Stat(filepath.Join(snapDir, "000.png")); err != nil {
		t.Errorf("first snapshot missing: %v", err)
	}
}

// TestProcessMissingInputs covers the error paths before the solver runs.
func TestProcessMissingInputs(t *testing.T) {
	dir := t.TempDir()

	rec := NewRecoverer(&Params{
		SinogramFile:  filepath.Join(dir, "missing.png"),
		TiltAngleFile: filepath.Join(dir, "missing.tlt"),
		OutputFile:    filepath.Join(dir, "out.png"),
	})
	if err := rec.Process(); err == nil {
		t.Error("missing sinogram: want an error")
	}

	sinoPath, _ := writeInputs(t, dir, 8, 3)
	rec = NewRecoverer(&Params{
		SinogramFile:  sinoPath,
		TiltAngleFile: filepath.Join(dir, "missing.tlt"),
		OutputFile:    filepath.Join(dir, "out.png"),
	})
	if err := rec.Process(); err == nil {
		t.Error("missing tilt file: want an error")
	}
}

// TestProcessGeometryMismatch rejects a tilt series whose length disagrees
// with the sinogram.
func TestProcessGeometryMismatch(t *testing.T) {
	dir := t.TempDir()
	sinoPath, _ := writeInputs(t, dir, 8, 3)

	tiltPath := filepath.Join(dir, "short.tlt")
	if err := os.WriteFile(tiltPath, []byte("0.1\n0.2\n"), 0644); err != nil {
		t.Fatalf("failed to write tilt file: %v", err)
	}

	rec := NewRecoverer(&Params{
		SinogramFile:  sinoPath,
		TiltAngleFile: tiltPath,
		OutputFile:    filepath.Join(dir, "out.png"),
	})
	if err := rec.Process(); err == nil {
		t.Error("mismatched tilt series: want an error")
	}
}
