package orchestrator

import "fmt"

// ExtractionError reports an article that could not be extracted.
// The orchestrator logs it and omits the entry; it never aborts a run.
type ExtractionError struct {
	URL string
	Err error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extract article %s: %v", e.URL, e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}
