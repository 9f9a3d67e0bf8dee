package report

// ProgressFunc receives human-readable progress messages. Messages are
// delivered strictly in submission order, one goroutine at a time. A nil
// ProgressFunc discards progress.
type ProgressFunc func(msg string)

func (f ProgressFunc) emit(msg string) {
	if f != nil {
		f(msg)
	}
}
