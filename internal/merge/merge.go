package merge

import (
	"log/slog"
	"sort"

	"github.com/stackup-dev/stackup/internal/logging"
	"github.com/stackup-dev/stackup/internal/manifest"
)

// Merger merges template dependency declarations with one strategy.
type Merger struct {
	strategy Strategy
	logger   *slog.Logger
}

// New creates a Merger. A nil logger discards output.
func New(strategy Strategy, logger *slog.Logger) *Merger {
	if strategy == "" {
		strategy = Highest
	}
	return &Merger{strategy: strategy, logger: logging.OrDiscard(logger)}
}

// Merge combines the packages and devPackages of manifests, given in
// selection order.
func Merge(manifests []*manifest.TemplateManifest, strategy Strategy) (*DependencySet, error) {
	return New(strategy, nil).Merge(manifests)
}

// Combine merges previously merged sets as if their templates had been
// selected together, sets[0]'s templates first.
func Combine(strategy Strategy, sets ...*DependencySet) (*DependencySet, error) {
	return New(strategy, nil).Combine(sets...)
}

// Strategy returns the merger's strategy.
func (m *Merger) Strategy() Strategy {
	return m.strategy
}

// Merge combines the packages and devPackages of manifests, given in
// selection order. Under Strict any conflict returns a *ConflictError and
// no set.
func (m *Merger) Merge(manifests []*manifest.TemplateManifest) (*DependencySet, error) {
	var reqs []request
	order := 0
	for _, tm := range manifests {
		for _, p := range tm.Config.Packages {
			reqs = append(reqs, request{namespace: Dependencies, name: p.Name, rng: p.Version, order: order, source: tm.ID()})
			order++
		}
		for _, p := range tm.Config.DevPackages {
			reqs = append(reqs, request{namespace: DevDependencies, name: p.Name, rng: p.Version, order: order, source: tm.ID()})
			order++
		}
	}
	return m.resolve(reqs)
}

// Combine merges previously merged sets, re-resolving every retained
// declaration under the merger's strategy.
func (m *Merger) Combine(sets ...*DependencySet) (*DependencySet, error) {
	var reqs []request
	offset := 0
	for _, s := range sets {
		if s == nil {
			continue
		}
		next := offset
		for _, r := range s.requests {
			r.order += offset
			if r.order >= next {
				next = r.order + 1
			}
			reqs = append(reqs, r)
		}
		offset = next
	}
	return m.resolve(reqs)
}

// grouped collects the requests for one package in one namespace.
type grouped struct {
	ranges  map[string]int // range -> earliest order
	sources map[string]bool
}

func (m *Merger) resolve(reqs []request) (*DependencySet, error) {
	groups := map[Namespace]map[string]*grouped{
		Dependencies:    {},
		DevDependencies: {},
	}
	for _, r := range reqs {
		byName := groups[r.namespace]
		g, ok := byName[r.name]
		if !ok {
			g = &grouped{ranges: map[string]int{}, sources: map[string]bool{}}
			byName[r.name] = g
		}
		if first, seen := g.ranges[r.rng]; !seen || r.order < first {
			g.ranges[r.rng] = r.order
		}
		g.sources[r.source] = true
	}

	set := &DependencySet{
		Dependencies:    map[string]string{},
		DevDependencies: map[string]string{},
		Conflicts:       []Conflict{},
		requests:        append([]request(nil), reqs...),
	}

	for _, ns := range []Namespace{Dependencies, DevDependencies} {
		target := set.Dependencies
		if ns == DevDependencies {
			target = set.DevDependencies
		}
		for _, name := range sortedNames(groups[ns]) {
			g := groups[ns][name]
			runtimeToo := ns == DevDependencies && groups[Dependencies][name] != nil
			if runtimeToo {
				// Reported once below as a classification conflict.
				continue
			}

			ranges := sortedRanges(g.ranges)
			if len(ranges) == 1 {
				target[name] = ranges[0]
				continue
			}

			resolved := m.pick(g.ranges, ranges)
			c := Conflict{
				Package:           name,
				RequestedVersions: ranges,
				ResolvedVersion:   resolved,
				Namespace:         ns,
				Reason:            ReasonVersion,
				Sources:           sortedKeys(g.sources),
			}
			if m.strategy != Strict {
				target[name] = resolved
			}
			set.Conflicts = append(set.Conflicts, c)
		}
	}

	for _, name := range sortedNames(groups[DevDependencies]) {
		runtime := groups[Dependencies][name]
		if runtime == nil {
			continue
		}
		dev := groups[DevDependencies][name]

		all := make(map[string]int, len(runtime.ranges)+len(dev.ranges))
		for rng, o := range dev.ranges {
			all[rng] = o
		}
		for rng, o := range runtime.ranges {
			all[rng] = o
		}
		sources := make(map[string]bool)
		for s := range runtime.sources {
			sources[s] = true
		}
		for s := range dev.sources {
			sources[s] = true
		}

		set.Conflicts = append(set.Conflicts, Conflict{
			Package:           name,
			RequestedVersions: sortedRanges(all),
			ResolvedVersion:   set.Dependencies[name],
			Namespace:         Dependencies,
			Reason:            ReasonClassification,
			Sources:           sortedKeys(sources),
		})
	}

	sortConflicts(set.Conflicts)

	if m.strategy == Strict && len(set.Conflicts) > 0 {
		for i := range set.Conflicts {
			set.Conflicts[i].ResolvedVersion = ""
		}
		return nil, &ConflictError{Conflicts: set.Conflicts}
	}

	for _, c := range set.Conflicts {
		m.logger.Warn("dependency conflict resolved",
			"package", c.Package,
			"namespace", string(c.Namespace),
			"reason", string(c.Reason),
			"requested", c.RequestedVersions,
			"resolved", c.ResolvedVersion,
			"strategy", string(m.strategy),
		)
	}

	return set, nil
}

// pick chooses among several distinct ranges. ranges is sorted ascending
// by compareRanges.
func (m *Merger) pick(firstSeen map[string]int, ranges []string) string {
	switch m.strategy {
	case FirstSelected:
		best := ranges[0]
		for _, r := range ranges[1:] {
			if firstSeen[r] < firstSeen[best] {
				best = r
			}
		}
		return best
	default:
		return ranges[len(ranges)-1]
	}
}

func sortedNames(m map[string]*grouped) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// sortedRanges returns the distinct ranges ordered by floor, then text.
func sortedRanges(m map[string]int) []string {
	ranges := make([]string, 0, len(m))
	for r := range m {
		ranges = append(ranges, r)
	}
	sort.Slice(ranges, func(i, j int) bool {
		return compareRanges(ranges[i], ranges[j]) < 0
	})
	return ranges
}

func sortedKeys(m map[string]bool) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

var namespaceRank = map[Namespace]int{Dependencies: 0, DevDependencies: 1}

func sortConflicts(cs []Conflict) {
	sort.Slice(cs, func(i, j int) bool {
		a, b := cs[i], cs[j]
		if a.Namespace != b.Namespace {
			return namespaceRank[a.Namespace] < namespaceRank[b.Namespace]
		}
		if a.Package != b.Package {
			return a.Package < b.Package
		}
		return a.Reason < b.Reason
	})
}
