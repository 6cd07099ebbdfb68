package engine

// WorkItem is one wordlist of a run. Index is its position in the run's
// wordlist slice and keys its FileResult.
type WorkItem struct {
	Index int
	Path  string
}

// queueWork returns a closed channel holding one WorkItem per wordlist, in
// order. Workers range over it; each item is received by exactly one worker.
func queueWork(wordlists []string) <-chan WorkItem {
	items := make(chan WorkItem, len(wordlists))
	for i, path := range wordlists {
		items <- WorkItem{Index: i, Path: path}
	}
	close(items)
	return items
}
