package syncer

// Result records the outcome of syncing one entry, keyed by its day.
type Result struct {
	Day string
	Err error
}

// Report aggregates one push or pull pass. Per-entry failures are collected
// here instead of aborting the batch.
type Report struct {
	Pushed    int
	Pulled    int
	Skipped   int
	Conflicts int
	Failed    int
	Results   []Result
}

func (r *Report) record(day string, err error) {
	r.Results = append(r.Results, Result{Day: day, Err: err})
	if err != nil {
		r.Failed++
	}
}
