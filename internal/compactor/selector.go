package compactor

// DefaultKeepRecent is how many of the most recent turns are always kept.
const DefaultKeepRecent = 3

// TurnSelection is the outcome of running the selector over a turn list.
type TurnSelection struct {
	KeptTurns        []ConversationTurn
	KeptIndices      []int
	SummarizedTurns  []ConversationTurn
	SummarizedIndices []int
}

// Select is pure: it never performs I/O. It always keeps the last
// keepRecent turns, keeps any turn whose index is an anchor, and returns the
// remaining older, non-anchor turns for summarization.
func Select(turns []ConversationTurn, anchors []AnchorPoint, keepRecent int) TurnSelection {
	if keepRecent <= 0 {
		keepRecent = DefaultKeepRecent
	}

	anchorIdx := make(map[int]struct{}, len(anchors))
	for _, a := range anchors {
		anchorIdx[a.TurnIndex] = struct{}{}
	}

	recentStart := len(turns) - keepRecent
	if recentStart < 0 {
		recentStart = 0
	}

	var sel TurnSelection
	for i, t := range turns {
		_, isAnchor := anchorIdx[i]
		isRecent := i >= recentStart
		if isAnchor || isRecent {
			sel.KeptTurns = append(sel.KeptTurns, t)
			sel.KeptIndices = append(sel.KeptIndices, i)
		} else {
			sel.SummarizedTurns = append(sel.SummarizedTurns, t)
			sel.SummarizedIndices = append(sel.SummarizedIndices, i)
		}
	}
	return sel
}
