package coins

import (
	"image"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/pkg/errors"
)

// FrameSource yields frames in order. Next returns io.EOF when there are no more frames
type FrameSource interface {
	Next() (image.Image, error)
}

var frameExtensions = map[string]struct{}{
	".png":  {},
	".jpg":  {},
	".jpeg": {},
	".bmp":  {},
	".gif":  {},
	".tif":  {},
	".tiff": {},
}

// DirSource reads frames from image files of a directory sorted by file name
type DirSource struct {
	paths []string
	next  int
}

// NewDirSource lists image files of the directory
func NewDirSource(dir string) (*DirSource, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrapf(err, "Can't read frames directory '%s'", dir)
	}
	paths := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if _, ok := frameExtensions[strings.ToLower(filepath.Ext(entry.Name()))]; !ok {
			continue
		}
		paths = append(paths, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(paths)
	return &DirSource{paths: paths}, nil
}

// Len returns number of frames found
func (ds *DirSource) Len() int {
	return len(ds.paths)
}

// Next decodes the next frame
func (ds *DirSource) Next() (image.Image, error) {
	if ds.next >= len(ds.paths) {
		return nil, io.EOF
	}
	path := ds.paths[ds.next]
	ds.next++
	img, err := imaging.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "Can't open frame '%s'", path)
	}
	return img, nil
}
