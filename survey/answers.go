package survey

import "Pollster/storage"

// record merges one answer into the per-set collection. Slot i always
// aligns with question i+1 and lists are never compacted or renumbered.
// Re-answering the question that produced the newest slot overwrites
// it; the next unanswered question appends. A write anywhere earlier
// (possible after Back navigation) restarts the set's list at that
// single entry — later answers are discarded, and the transcript only
// renders what is present.
func record(answers map[string][]storage.Answer, set string, index int, answer storage.Answer) map[string][]storage.Answer {
	if answers == nil {
		answers = make(map[string][]storage.Answer)
	}
	list := answers[set]
	switch {
	case index == len(list) && index > 0:
		list[index-1] = answer
	case index-1 == len(list):
		list = append(list, answer)
	default:
		list = []storage.Answer{answer}
	}
	answers[set] = list
	return answers
}
