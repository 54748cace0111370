package utils

import (
	"errors"
	"fmt"
	"os"
)

var (
	ErrExists    = errors.New("output file already exists")
	ErrIsDir     = errors.New("output path is a directory")
	ErrTruncated = errors.New("truncated file")
	ErrNotWAV    = errors.New("not a valid WAV file")
)

// CheckOutput reports whether filename may be written. A directory is never
// writable, an existing file only with force.
func CheckOutput(filename string, force bool) error {
	info, err := os.Stat(filename)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return nil
	case err != nil:
		return err
	case info.IsDir():
		return fmt.Errorf("%w: %s", ErrIsDir, filename)
	case !force:
		return fmt.Errorf("%w: %s (use --force to overwrite)", ErrExists, filename)
	}
	return nil
}
