package shotdata

import "errors"

var (
	ErrDataDirNotFound = errors.New("shot data directory not found")
	ErrNoData          = errors.New("no shot data")
	ErrBadFile         = errors.New("invalid shot data file")
	ErrMissingColumns  = errors.New("missing required columns")
)
