package search

import (
	"sort"
)

// Rank flattens per-category result lists into one ordered sequence.
//
// Relevance keeps the per-category SQL ordering and concatenates categories in
// a fixed priority: projects, blogs, images, tags. Recent and views re-sort
// the merged list globally; the sort is stable, so the category priority still
// breaks ties.
func Rank(g GroupedResults, mode SortMode) []Result {
	merged := make([]Result, 0, g.Len())
	merged = append(merged, g.Projects...)
	merged = append(merged, g.Blogs...)
	merged = append(merged, g.Images...)
	merged = append(merged, g.Tags...)

	switch mode {
	case SortRecent:
		sort.SliceStable(merged, func(i, j int) bool {
			ti, iok := effectiveTime(merged[i])
			tj, jok := effectiveTime(merged[j])
			if iok != jok {
				return iok // items with no timestamp at all sort last
			}
			if !iok {
				return false
			}
			return ti.After(tj)
		})
	case SortViews:
		sort.SliceStable(merged, func(i, j int) bool {
			if merged[i].Views != merged[j].Views {
				return merged[i].Views > merged[j].Views
			}
			// Entities without a view counter rank below true zero-view entries
			return merged[i].hasViews && !merged[j].hasViews
		})
	}
	return merged
}

// Paginate slices one page out of the ranked sequence. Pages are 1-based;
// a page past the end is empty, not an error.
func Paginate(items []Result, page, limit int) []Result {
	if page < 1 {
		page = 1
	}
	start := (page - 1) * limit
	if start >= len(items) {
		return []Result{}
	}
	end := start + limit
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

// TotalPages is ceil(total/limit); zero results means zero pages.
func TotalPages(total, limit int) int {
	if limit < 1 || total < 1 {
		return 0
	}
	return (total + limit - 1) / limit
}

// Regroup buckets an ordered page back into per-category lists, preserving
// the ranked order within each bucket.
func Regroup(items []Result) GroupedResults {
	g := GroupedResults{
		Projects: []Result{},
		Blogs:    []Result{},
		Images:   []Result{},
		Tags:     []Result{},
	}
	for _, r := range items {
		switch r.Type {
		case TypeProject:
			g.Projects = append(g.Projects, r)
		case TypeBlog:
			g.Blogs = append(g.Blogs, r)
		case TypeImage:
			g.Images = append(g.Images, r)
		case TypeTag:
			g.Tags = append(g.Tags, r)
		}
	}
	return g
}
