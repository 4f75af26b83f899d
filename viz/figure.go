package viz

import (
	"fmt"
	"image"
	"io"
	"log/slog"
	"os/exec"
	"path/filepath"
	"runtime"

	"github.com/spf13/afero"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/cwbudde/algo-erds/eeg/tfr"
	"github.com/cwbudde/algo-erds/stats/cluster"
)

// Size is a figure size.
type Size struct {
	Width, Height vg.Length
}

// Inches returns a Size of w x h inches.
func Inches(w, h float64) Size {
	return Size{Width: vg.Length(w) * vg.Inch, Height: vg.Length(h) * vg.Inch}
}

// Figure is a rendered figure together with the values it shows.
type Figure struct {
	// Name is the file name the figure is saved under.
	Name string
	// Path is where the figure was written, empty when it was not saved.
	Path string

	// Heatmap figures.
	Condition string
	Channels  []string
	Average   *tfr.Average
	Masks     []cluster.Mask
	VMin      float64
	VMax      float64

	// Line-plot figures.
	Panels []Panel

	canvas *vgimg.Canvas
}

// WritePNG encodes the figure as PNG.
func (f *Figure) WritePNG(w io.Writer) error {
	if f.canvas == nil {
		return ErrNoData
	}
	if _, err := (vgimg.PngCanvas{Canvas: f.canvas}).WriteTo(w); err != nil {
		return fmt.Errorf("viz: encode %s: %w", f.Name, err)
	}
	return nil
}

// Image returns the rendered raster.
func (f *Figure) Image() image.Image {
	if f.canvas == nil {
		return nil
	}
	return f.canvas.Image()
}

// Viewer displays a saved figure.
type Viewer interface {
	Show(path string) error
}

// SystemViewer opens figures with the desktop's default image viewer.
type SystemViewer struct{}

// Show starts the platform opener for path without waiting for it.
func (SystemViewer) Show(path string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", path)
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", "", path)
	default:
		cmd = exec.Command("xdg-open", path)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("viz: open %s: %w", path, err)
	}
	return nil
}

// output carries the side effects shared by all figure kinds.
type output struct {
	fs     afero.Fs
	dir    string
	save   bool
	show   bool
	viewer Viewer
	logger *slog.Logger
}

func (o output) emit(fig *Figure) error {
	if o.save {
		path := filepath.Join(o.dir, fig.Name)
		if err := o.fs.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return fmt.Errorf("viz: create %s: %w", filepath.Dir(path), err)
		}
		f, err := o.fs.Create(path)
		if err != nil {
			return fmt.Errorf("viz: create %s: %w", path, err)
		}
		if err := fig.WritePNG(f); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return fmt.Errorf("viz: close %s: %w", path, err)
		}
		fig.Path = path
		o.logger.Info("figure saved", "path", path)
	}
	if !o.show {
		return nil
	}

	path := fig.Path
	if path == "" {
		tmp, err := afero.TempFile(o.fs, "", "erds-*.png")
		if err != nil {
			return fmt.Errorf("viz: temp file: %w", err)
		}
		if err := fig.WritePNG(tmp); err != nil {
			tmp.Close()
			return err
		}
		if err := tmp.Close(); err != nil {
			return fmt.Errorf("viz: close %s: %w", tmp.Name(), err)
		}
		path = tmp.Name()
	}
	if o.viewer == nil {
		return nil
	}
	return o.viewer.Show(path)
}
