package outputcache

// Plan is the outcome of diffing the desired artifact set against the
// on-disk cache state: artifacts whose bytes must be fetched, and local
// files that are no longer wanted. A cache key never appears on both
// sides.
type Plan struct {
	Fetch map[string]Artifact
	Evict []string
}

// keyArtifacts maps desired artifacts by cache key. When two artifacts
// collapse to the same key, the later one wins.
func keyArtifacts(desired []Artifact) map[string]Artifact {
	keyed := make(map[string]Artifact, len(desired))
	for _, a := range desired {
		keyed[KeyFor(a)] = a
	}
	return keyed
}

// computePlan decides which desired artifacts need fetching and which
// cached files need evicting.
//
// An artifact is fetched when its key is absent from the current index,
// or when it is present but the previous generation's record for the
// same logical path differs from the new one. The second condition
// avoids re-copying unchanged bytes just because the generation
// advanced. A cached file is evicted when its key is not desired.
func computePlan(desired map[string]Artifact, current Index, prev Generation) Plan {
	plan := Plan{Fetch: make(map[string]Artifact)}
	for key, a := range desired {
		if _, cached := current[key]; !cached || changedSince(a, prev) {
			plan.Fetch[key] = a
		}
	}
	for key, path := range current {
		if _, wanted := desired[key]; !wanted {
			plan.Evict = append(plan.Evict, path)
		}
	}
	return plan
}

// changedSince reports whether the artifact differs from the previous
// generation's record at the same logical path. An artifact with no
// previous record counts as changed.
func changedSince(a Artifact, prev Generation) bool {
	if prev == nil {
		return true
	}
	old, ok := prev.Find(a.Path())
	return !ok || old.Key() != a.Key()
}
