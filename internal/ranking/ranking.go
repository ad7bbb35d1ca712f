package ranking

import (
	"math/rand"
	"sort"
	"time"

	"github.com/poliux/poliux/pkg/models"
)

// Articles older than the retention window weigh zero and never rank.
const RetentionWindow = 168 * time.Hour

// Defaults and bounds for caller-supplied paging parameters.
const (
	DefaultLimit        = 20
	MaxLimit            = 100
	DefaultMaxPerDomain = 2
	MaxMaxPerDomain     = 10
	CandidateCap        = 200
)

// Params are the untrusted paging knobs of one ranking call.
type Params struct {
	Limit        int
	Offset       int
	MaxPerDomain int
}

// Clamped returns params forced into sane ranges: limit in [1,100], offset
// non-negative, maxPerDomain in [1,10]. Zero values take the defaults.
func (p Params) Clamped() Params {
	if p.Limit <= 0 {
		p.Limit = DefaultLimit
	} else if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
	if p.MaxPerDomain <= 0 {
		p.MaxPerDomain = DefaultMaxPerDomain
	} else if p.MaxPerDomain > MaxMaxPerDomain {
		p.MaxPerDomain = MaxMaxPerDomain
	}
	return p
}

// weighted exists only during one ranking pass.
type weighted struct {
	article *models.Article
	weight  int
	sortKey float64
}

// Weight buckets an article's age into a discrete recency score. Boundaries
// are inclusive on the lower bucket: exactly 24h old still weighs 4.
func Weight(publishedAt, now time.Time) int {
	age := now.Sub(publishedAt)
	switch {
	case age <= 24*time.Hour:
		return 4
	case age <= 72*time.Hour:
		return 2
	case age <= RetentionWindow:
		return 1
	default:
		return 0
	}
}

// diversify caps how many survivors may share a source domain, preserving
// input order. Weight-0 articles must already be gone so they don't consume
// a domain's quota.
func diversify(items []weighted, maxPerDomain int) []weighted {
	counts := map[string]int{}
	out := make([]weighted, 0, len(items))
	for _, it := range items {
		if counts[it.article.SourceDomain] < maxPerDomain {
			out = append(out, it)
			counts[it.article.SourceDomain]++
		}
	}
	return out
}

// shuffle orders items by a random key scaled by weight, so recent articles
// tend to sort first but every surviving article can land anywhere.
func shuffle(items []weighted, rng *rand.Rand) {
	for i := range items {
		items[i].sortKey = rng.Float64() * float64(items[i].weight)
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].sortKey > items[j].sortKey
	})
}

// Rank runs the full newsfeed pipeline over the candidate set: weight and
// drop stale articles, cap per-domain repetition, weighted-shuffle, then
// slice out the requested page. The returned total is the length of the
// full ranked order, not the page.
func Rank(articles []*models.Article, now time.Time, p Params, rng *rand.Rand) ([]*models.Article, int) {
	p = p.Clamped()

	items := make([]weighted, 0, len(articles))
	for _, a := range articles {
		w := Weight(a.PublishedAt, now)
		if w == 0 {
			continue
		}
		items = append(items, weighted{article: a, weight: w})
	}

	items = diversify(items, p.MaxPerDomain)
	shuffle(items, rng)

	total := len(items)
	start := p.Offset
	if start > total {
		start = total
	}
	end := start + p.Limit
	if end > total {
		end = total
	}

	page := make([]*models.Article, 0, end-start)
	for _, it := range items[start:end] {
		page = append(page, it.article)
	}
	return page, total
}
