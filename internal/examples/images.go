package examples

import (
	"os"
	"path"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/fjglira/GoRef-SiteGen/internal/domain"
)

// ImageReport summarises an image discovery pass.
type ImageReport struct {
	Found   []string
	Broken  []string
	Removed []string
}

// ImageDiscovery reconciles the images on disk with what examples ask for.
type ImageDiscovery struct {
	OutputDir string
	ImagesDir string // relative to OutputDir, also the URL prefix
	ImageExt  string
	Log       *logrus.Logger
}

// Discover annotates every example of items in place:
//   - image wanted and present: ImagePath is set
//   - image wanted and missing: Broken is set, whether or not the example ran
//   - image not wanted but present: the stray file is deleted
func (d ImageDiscovery) Discover(items []*domain.ReferenceItem) (ImageReport, error) {
	var report ImageReport
	dir := filepath.Join(d.OutputDir, d.ImagesDir)

	for _, item := range items {
		for _, ex := range item.Examples {
			name := ItemName(item.Identifier, ex.Index)
			file := ImagePath(dir, name, d.ImageExt)

			_, err := os.Stat(file)
			exists := err == nil
			if err != nil && !os.IsNotExist(err) {
				return report, domain.NewError("examples", file, 0, "failed to stat example image", err)
			}

			ex.ImagePath = ""
			ex.Broken = false

			switch {
			case ex.WantImage && exists:
				ex.ImagePath = path.Join(filepath.ToSlash(d.ImagesDir), name+d.ImageExt)
				report.Found = append(report.Found, name)
			case ex.WantImage:
				ex.Broken = true
				report.Broken = append(report.Broken, name)
				d.Log.WithField("identifier", item.Identifier).Warnf("example %d wants an image but %s does not exist", ex.Index, file)
			case exists:
				if err := os.Remove(file); err != nil {
					return report, domain.NewError("examples", file, 0, "failed to remove stray example image", err)
				}
				report.Removed = append(report.Removed, name)
				d.Log.WithField("identifier", item.Identifier).Debugf("removed stray image %s", file)
			}
		}
	}
	return report, nil
}
