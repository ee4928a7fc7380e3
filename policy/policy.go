// Package policy provides ready-made output selectors.
//
// Hosts usually ship one selector per language that inspects the target
// map and workspace settings; the selectors here cover the common
// shapes those boil down to, and can be combined in one registry via
// outputcache.WithSelectors.
package policy

import (
	"path"
	"strings"

	"github.com/meigma/outputcache"
)

// Extensions selects every generated output whose file extension is in
// exts. Extensions are matched with or without a leading dot.
func Extensions(exts ...string) outputcache.Selector {
	normalized := make(map[string]struct{}, len(exts))
	for _, ext := range exts {
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		normalized[ext] = struct{}{}
	}
	return outputcache.SelectorFunc(func(gen outputcache.Generation, _ outputcache.TargetSet, _ outputcache.LanguageSettings) []string {
		var paths []string
		for a := range gen.All() {
			if _, ok := normalized[path.Ext(a.Path())]; ok {
				paths = append(paths, a.Path())
			}
		}
		return paths
	})
}

// Prefix selects every generated output under the given logical path
// prefix.
func Prefix(prefix string) outputcache.Selector {
	return outputcache.SelectorFunc(func(gen outputcache.Generation, _ outputcache.TargetSet, _ outputcache.LanguageSettings) []string {
		var paths []string
		for a := range gen.All() {
			if strings.HasPrefix(a.Path(), prefix) {
				paths = append(paths, a.Path())
			}
		}
		return paths
	})
}

// All selects every artifact in the generation. Mostly useful in tests
// and small workspaces where caching everything is affordable.
func All() outputcache.Selector {
	return outputcache.SelectorFunc(func(gen outputcache.Generation, _ outputcache.TargetSet, _ outputcache.LanguageSettings) []string {
		var paths []string
		for a := range gen.All() {
			paths = append(paths, a.Path())
		}
		return paths
	})
}
