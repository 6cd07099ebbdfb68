package engine

// FileResult is the outcome of one wordlist.
type FileResult struct {
	Path string

	// Pairs is the number of pairs persisted by the sink.
	Pairs int64

	// DecodeErrors is the number of skipped lines.
	DecodeErrors int64

	// Err is the wordlist or sink I/O error that ended this file early,
	// nil if the whole file was processed.
	Err error
}

// Report summarizes a run.
type Report struct {
	RunID string
	Mode  Mode
	Files []FileResult
}

// Pairs returns the total number of persisted pairs.
func (r *Report) Pairs() int64 {
	var n int64
	for _, f := range r.Files {
		n += f.Pairs
	}
	return n
}

// DecodeErrors returns the total number of skipped lines.
func (r *Report) DecodeErrors() int64 {
	var n int64
	for _, f := range r.Files {
		n += f.DecodeErrors
	}
	return n
}

// Failed returns the files that ended with an error.
func (r *Report) Failed() []FileResult {
	var out []FileResult
	for _, f := range r.Files {
		if f.Err != nil {
			out = append(out, f)
		}
	}
	return out
}

// FileSummary is the serializable form of a FileResult.
type FileSummary struct {
	Path         string `json:"path"`
	Pairs        int64  `json:"pairs"`
	DecodeErrors int64  `json:"decode_errors,omitempty"`
	Error        string `json:"error,omitempty"`
}

// Summary is the serializable form of a Report.
type Summary struct {
	RunID        string        `json:"run_id,omitempty"`
	Mode         string        `json:"mode"`
	Pairs        int64         `json:"pairs"`
	DecodeErrors int64         `json:"decode_errors"`
	FailedFiles  int           `json:"failed_files"`
	Files        []FileSummary `json:"files"`
}

// Summary converts the report for CLI output.
func (r *Report) Summary() Summary {
	s := Summary{
		RunID:        r.RunID,
		Mode:         r.Mode.String(),
		Pairs:        r.Pairs(),
		DecodeErrors: r.DecodeErrors(),
		FailedFiles:  len(r.Failed()),
		Files:        make([]FileSummary, 0, len(r.Files)),
	}
	for _, f := range r.Files {
		fs := FileSummary{Path: f.Path, Pairs: f.Pairs, DecodeErrors: f.DecodeErrors}
		if f.Err != nil {
			fs.Error = f.Err.Error()
		}
		s.Files = append(s.Files, fs)
	}
	return s
}
