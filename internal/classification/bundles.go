package classification

import (
	"context"
	"sort"

	"samplesort/internal/logging"
	"samplesort/internal/pack"
)

// BundleCache maps a bundle key (pack.BundleInfo.Key) to its classification.
// A present nil entry records a bundle that could not be resolved. The caller
// owns the cache and passes it between runs.
type BundleCache map[string]*pack.Classification

// Lookup returns the cached classification for info, or nil.
func (bc BundleCache) Lookup(info *pack.BundleInfo) *pack.Classification {
	if bc == nil || info == nil {
		return nil
	}
	return bc[info.Key()]
}

type bundleGroup struct {
	key      string
	info     *pack.BundleInfo
	children []string
}

func groupBundles(packs []pack.Pack) []bundleGroup {
	byKey := make(map[string]*bundleGroup)
	for _, p := range packs {
		key := p.Bundle.Key()
		if key == "" {
			continue
		}
		g, ok := byKey[key]
		if !ok {
			g = &bundleGroup{key: key, info: p.Bundle}
			byKey[key] = g
		}
		g.children = append(g.children, p.DisplayName())
		g.children = append(g.children, p.Bundle.Siblings...)
	}
	out := make([]bundleGroup, 0, len(byKey))
	for _, g := range byKey {
		g.children = dedupe(g.children)
		out = append(out, *g)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].key < out[j].key })
	return out
}

func dedupe(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := values[:0]
	for _, v := range values {
		if _, ok := seen[v]; ok || v == "" {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// PreclassifyBundles classifies every bundle referenced by packs that is not
// already in cache. Each bundle is tried against the taxonomy using its name
// and keywords, then with its child pack names added, and finally through
// the AI adapter in one batched pass. A classification is recorded when its
// confidence reaches the acceptance floor; otherwise the bundle is recorded
// as unresolved. The (possibly newly allocated) cache is returned.
func (c *Cascade) PreclassifyBundles(ctx context.Context, packs []pack.Pack, cache BundleCache) BundleCache {
	if cache == nil {
		cache = make(BundleCache)
	}
	var (
		pendingKeys  []string
		pendingPacks []pack.Pack
	)
	for _, g := range groupBundles(packs) {
		if _, ok := cache[g.key]; ok {
			continue
		}
		byName := pack.Pack{ID: "bundle:" + g.key, Name: g.info.Name, Tags: g.info.Keywords}
		if cls := c.acceptBundleCandidate(byName, "bundle name"); cls != nil {
			cache[g.key] = cls
			continue
		}
		withChildren := byName
		withChildren.Tags = append(append([]string(nil), g.info.Keywords...), g.children...)
		if cls := c.acceptBundleCandidate(withChildren, "bundle name and child packs"); cls != nil {
			cache[g.key] = cls
			continue
		}
		pendingKeys = append(pendingKeys, g.key)
		pendingPacks = append(pendingPacks, withChildren)
	}

	if len(pendingPacks) > 0 {
		answers, _ := c.submitAI(ctx, pendingPacks)
		for i, key := range pendingKeys {
			res := answers[i]
			if res.status == aiCancelled {
				continue
			}
			cache[key] = nil
			if res.status != aiAnswered {
				continue
			}
			cls, err := c.acceptAI(res.class)
			if err != nil || cls.Confidence < c.thresholds.Confidence {
				continue
			}
			cls.Rules = append(cls.Rules, "bundle")
			cls.AddReason("bundle classified by ai fallback")
			cache[key] = cls
		}
	}

	resolved := 0
	for _, cls := range cache {
		if cls != nil {
			resolved++
		}
	}
	c.logger.Debug("bundle preclassification completed",
		logging.Int("bundles", len(cache)),
		logging.Int("resolved", resolved),
		logging.Int("sent_to_ai", len(pendingPacks)),
	)
	return cache
}

func (c *Cascade) acceptBundleCandidate(synthetic pack.Pack, source string) *pack.Classification {
	cls := c.scoreText(searchableText(synthetic))
	if cls == nil || cls.Confidence < c.thresholds.Confidence {
		return nil
	}
	cls.Rules = append(cls.Rules, "bundle")
	cls.AddReason("bundle classified from %s", source)
	return cls
}
