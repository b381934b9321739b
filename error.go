package vegheight

import (
	"errors"
	"fmt"
)

var (
	ErrValidation = errors.New("validation error")
	ErrNotFound   = errors.New("raster not found")
	ErrFormat     = errors.New("unreadable raster")
	ErrAlignment  = errors.New("unsupported shape mismatch")
	ErrWrite      = errors.New("raster write failed")
	ErrResample   = errors.New("resample failed")
	ErrConfig     = fmt.Errorf("%w: invalid config", ErrValidation)
)
