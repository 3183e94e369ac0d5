package knowledge

import "sort"

// DefaultFusionK dampens the weight of top-ranked documents in RRF.
const DefaultFusionK = 60

// ReciprocalRankFusion merges ranked result lists into one ranking.
// Each occurrence of a document contributes 1/(rank+k) to its score,
// where rank is zero-based within its list. Documents are deduplicated
// by content; the first occurrence supplies the metadata, and ties are
// broken by first appearance across the input lists.
func ReciprocalRankFusion(resultLists [][]Document, k int) []Document {
	if k <= 0 {
		k = DefaultFusionK
	}

	type entry struct {
		doc   Document
		score float64
		seen  int
	}

	index := make(map[string]*entry)
	var order []*entry

	for _, results := range resultLists {
		for rank, doc := range results {
			e, ok := index[doc.Content]
			if !ok {
				e = &entry{doc: doc, seen: len(order)}
				index[doc.Content] = e
				order = append(order, e)
			}
			e.score += 1.0 / float64(rank+k)
		}
	}

	sort.SliceStable(order, func(i, j int) bool {
		if order[i].score != order[j].score {
			return order[i].score > order[j].score
		}
		return order[i].seen < order[j].seen
	})

	out := make([]Document, len(order))
	for i, e := range order {
		out[i] = e.doc
	}
	return out
}
