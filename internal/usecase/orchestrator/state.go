package orchestrator

// State is the phase of a Process call.
//
//	Idle -> FetchingFeeds -> FetchFailed
//	                      -> FeedsReady -> ExtractingArticles -> Done
//	                                                          -> ExtractFailed
type State int

const (
	StateIdle State = iota
	StateFetchingFeeds
	StateFetchFailed
	StateFeedsReady
	StateExtractingArticles
	StateDone
	StateExtractFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateFetchingFeeds:
		return "fetching_feeds"
	case StateFetchFailed:
		return "fetch_failed"
	case StateFeedsReady:
		return "feeds_ready"
	case StateExtractingArticles:
		return "extracting_articles"
	case StateDone:
		return "done"
	case StateExtractFailed:
		return "extract_failed"
	default:
		return "unknown"
	}
}

// Terminal reports whether a run ends in this state.
func (s State) Terminal() bool {
	return s == StateFetchFailed || s == StateDone || s == StateExtractFailed
}
