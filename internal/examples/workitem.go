package examples

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fjglira/GoRef-SiteGen/internal/domain"
)

// ItemName is the deterministic work item name for an example.
func ItemName(identifier string, index int) string {
	return fmt.Sprintf("%s_%d", identifier, index)
}

// ImagePath is where the worker writes the image for a work item name.
func ImagePath(imagesDir, name, imageExt string) string {
	return filepath.Join(imagesDir, name+imageExt)
}

// Planner turns runnable examples into work items and writes their scripts.
type Planner struct {
	ScratchDir string
	ImagesDir  string
	ScriptExt  string
	ImageExt   string
}

// Plan writes one script per runnable example and returns the work items.
// Examples marked not to run are skipped.
func (p Planner) Plan(items []*domain.ReferenceItem) ([]domain.WorkItem, error) {
	if err := os.MkdirAll(p.ScratchDir, 0755); err != nil {
		return nil, domain.NewError("examples", p.ScratchDir, 0, "failed to create scratch directory", err)
	}
	if err := os.MkdirAll(p.ImagesDir, 0755); err != nil {
		return nil, domain.NewError("examples", p.ImagesDir, 0, "failed to create images directory", err)
	}

	var work []domain.WorkItem
	for _, item := range items {
		for _, ex := range item.Examples {
			if !ex.Run {
				continue
			}
			name := ItemName(item.Identifier, ex.Index)
			script := filepath.Join(p.ScratchDir, name+p.ScriptExt)
			if err := os.WriteFile(script, []byte(ex.Code+"\n"), 0644); err != nil {
				return nil, domain.NewError("examples", script, 0, "failed to write example script", err)
			}
			work = append(work, domain.WorkItem{
				Name:       name,
				Identifier: item.Identifier,
				Index:      ex.Index,
				ScriptPath: script,
				ImagePath:  ImagePath(p.ImagesDir, name, p.ImageExt),
				Source:     ex.Code,
			})
		}
	}
	return work, nil
}

// Partition assigns work round-robin to n workers. Empty partitions are dropped.
func Partition(work []domain.WorkItem, n int) [][]domain.WorkItem {
	if n < 1 {
		n = 1
	}
	parts := make([][]domain.WorkItem, n)
	for i, w := range work {
		parts[i%n] = append(parts[i%n], w)
	}
	out := parts[:0]
	for _, p := range parts {
		if len(p) > 0 {
			out = append(out, p)
		}
	}
	return out
}

// Triple encodes a work item as the "name:scriptfile:imagefile" worker argument.
func Triple(w domain.WorkItem) string {
	return fmt.Sprintf("%s:%s:%s", w.Name, w.ScriptPath, w.ImagePath)
}
