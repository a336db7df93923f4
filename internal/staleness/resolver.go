// Package staleness decides which reference pages a build has to render.
package staleness

import (
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/fjglira/GoRef-SiteGen/internal/domain"
	"github.com/fjglira/GoRef-SiteGen/internal/registry"
)

// Mode selects how the build set is chosen.
type Mode string

const (
	ModeFresh  Mode = "fresh"
	ModeAll    Mode = "all"
	ModeOne    Mode = "one"
	ModeRandom Mode = "random"
	ModeNames  Mode = "names"
)

// Selection is a build request: a mode plus, for ModeNames, the source file names.
type Selection struct {
	Mode  Mode
	Names []string
}

// Resolver produces the ordered set of identifiers to rebuild.
type Resolver struct {
	reg        *registry.Registry
	outputDir  string
	extension  string
	exclusions Exclusions
	intN       func(n int) int
	log        *logrus.Logger
}

// NewResolver creates a Resolver comparing sources against pages in outputDir.
func NewResolver(reg *registry.Registry, outputDir, extension string, exclusions Exclusions, log *logrus.Logger) *Resolver {
	return &Resolver{
		reg:        reg,
		outputDir:  outputDir,
		extension:  extension,
		exclusions: exclusions,
		intN:       rand.IntN,
		log:        log,
	}
}

// WithRandom replaces the random source used by ModeRandom.
func (r *Resolver) WithRandom(intN func(n int) int) *Resolver {
	r.intN = intN
	return r
}

// Resolve returns the sorted identifiers selected by sel.
func (r *Resolver) Resolve(sel Selection) ([]string, error) {
	switch sel.Mode {
	case ModeNames:
		return r.named(sel.Names), nil
	case ModeAll:
		return r.Candidates(), nil
	case ModeOne:
		all := r.Candidates()
		if len(all) == 0 {
			return nil, nil
		}
		return all[:1], nil
	case ModeRandom:
		all := r.Candidates()
		if len(all) == 0 {
			return nil, nil
		}
		return []string{all[r.intN(len(all))]}, nil
	case ModeFresh, "":
		var stale []string
		for _, id := range r.Candidates() {
			ok, err := r.IsStale(id)
			if err != nil {
				return nil, err
			}
			if ok {
				stale = append(stale, id)
			}
		}
		return stale, nil
	default:
		return nil, domain.NewError("resolve", "", 0, fmt.Sprintf("unknown selection mode %q", sel.Mode), nil)
	}
}

// IsStale reports whether the page for identifier is missing or older than
// its source.
func (r *Resolver) IsStale(identifier string) (bool, error) {
	item, err := r.reg.Lookup(identifier)
	if err != nil {
		return false, err
	}
	return Stale(item.SourcePath, r.OutputPath(identifier))
}

// Stale reports whether target is missing or its source was modified
// strictly after it. Equal modification times count as fresh.
func Stale(source, target string) (bool, error) {
	src, err := os.Stat(source)
	if err != nil {
		return false, domain.NewError("resolve", source, 0, "failed to stat source document", err)
	}

	out, err := os.Stat(target)
	if os.IsNotExist(err) {
		return true, nil
	}
	if err != nil {
		return false, domain.NewError("resolve", target, 0, "failed to stat rendered page", err)
	}

	return src.ModTime().After(out.ModTime()), nil
}

// OutputPath returns the rendered page path for identifier.
func (r *Resolver) OutputPath(identifier string) string {
	return filepath.Join(r.outputDir, registry.Link(identifier))
}

// Candidates returns every registered identifier not removed by an exclusion rule.
func (r *Resolver) Candidates() []string {
	var out []string
	for _, item := range r.reg.Items() {
		if rule, ok := r.exclusions.Match(item); ok {
			r.log.WithFields(logrus.Fields{
				"identifier": item.Identifier,
				"rule":       rule.String(),
				"reason":     rule.Reason,
			}).Debug("excluded from build")
			continue
		}
		out = append(out, item.Identifier)
	}
	return out
}

// named validates an explicit list of source file names. Invalid entries are
// reported and skipped; exclusion rules do not apply.
func (r *Resolver) named(names []string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, name := range names {
		base := filepath.Base(strings.TrimSpace(name))
		if !strings.HasSuffix(base, r.extension) {
			r.log.Warnf("skipping %q: expected a %s source file", name, r.extension)
			continue
		}
		id := strings.TrimSuffix(base, r.extension)
		if !r.reg.Has(id) {
			r.log.Warnf("skipping %q: no such reference document", name)
			continue
		}
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
