package queue

import "sort"

func sortEntries(es []*entry) {
	sort.SliceStable(es, func(i, j int) bool { return es[i].before(es[j]) })
}
