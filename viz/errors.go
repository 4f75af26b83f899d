package viz

import "errors"

var (
	// ErrNameCount is returned when Titles or FileNames are given with
	// fewer entries than there are conditions.
	ErrNameCount = errors.New("viz: fewer names than conditions")
	// ErrUnknownChannel is returned for a channel the tensor does not hold.
	ErrUnknownChannel = errors.New("viz: unknown channel")
	// ErrNoData is returned when a tensor or row set has nothing to draw.
	ErrNoData = errors.New("viz: no data to plot")
	// ErrColorRange is returned when a colour norm has vmin >= vmax.
	ErrColorRange = errors.New("viz: colour range must satisfy vmin < vmax")
	// ErrColor is returned for a palette colour that is not a hex string.
	ErrColor = errors.New("viz: invalid colour")
)
