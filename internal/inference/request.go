package inference

// Request carries the fully resolved parameters of one Generate call.
// Length -1 means "use the model context size" and is resolved by the
// Engine. Seed -1 draws a random base seed; sample i then runs with
// base+i, so a pinned seed reproduces every sample of the batch.
type Request struct {
	Prefix   string
	Samples  int
	Parallel int

	Length            int
	Temperature       float64
	TopK              int
	TopP              float64
	RepetitionPenalty float64
	Seed              int64
}

// RequestOptions are per-call overrides; nil fields fall through to the
// defaults.
type RequestOptions struct {
	Prefix   string
	Samples  *int
	Parallel *int

	Length            *int
	Temperature       *float64
	TopK              *int
	TopP              *float64
	RepetitionPenalty *float64
	Seed              *int64
}

// Defaults are soft baseline parameters, typically sourced from flags or a
// config file. Nil (or out-of-range) fields keep the built-in baseline.
type Defaults struct {
	Samples  *int
	Parallel *int

	Length            *int
	Temperature       *float64
	TopK              *int
	TopP              *float64
	RepetitionPenalty *float64
	Seed              *int64
}

// ResolveRequest layers opts over defaults over the built-in baseline
// (length 80, one sample, temperature 1, top-k 8, top-p off, no repetition
// penalty, random seed) and clamps the counts to at least one.
func ResolveRequest(opts RequestOptions, defaults Defaults) Request {
	req := Request{
		Prefix:            opts.Prefix,
		Samples:           1,
		Parallel:          1,
		Length:            80,
		Temperature:       1.0,
		TopK:              8,
		TopP:              0.0,
		RepetitionPenalty: 1.0,
		Seed:              -1,
	}

	if defaults.Samples != nil && *defaults.Samples > 0 {
		req.Samples = *defaults.Samples
	}
	if defaults.Parallel != nil && *defaults.Parallel > 0 {
		req.Parallel = *defaults.Parallel
	}
	if defaults.Length != nil && *defaults.Length != 0 {
		req.Length = *defaults.Length
	}
	if defaults.Temperature != nil && *defaults.Temperature > 0 {
		req.Temperature = *defaults.Temperature
	}
	if defaults.TopK != nil && *defaults.TopK >= 0 {
		req.TopK = *defaults.TopK
	}
	if defaults.TopP != nil && *defaults.TopP >= 0 && *defaults.TopP <= 1 {
		req.TopP = *defaults.TopP
	}
	if defaults.RepetitionPenalty != nil && *defaults.RepetitionPenalty > 0 {
		req.RepetitionPenalty = *defaults.RepetitionPenalty
	}
	if defaults.Seed != nil {
		req.Seed = *defaults.Seed
	}

	if opts.Samples != nil {
		req.Samples = *opts.Samples
	}
	if opts.Parallel != nil {
		req.Parallel = *opts.Parallel
	}
	if opts.Length != nil {
		req.Length = *opts.Length
	}
	if opts.Temperature != nil {
		req.Temperature = *opts.Temperature
	}
	if opts.TopK != nil {
		req.TopK = *opts.TopK
	}
	if opts.TopP != nil {
		req.TopP = *opts.TopP
	}
	if opts.RepetitionPenalty != nil {
		req.RepetitionPenalty = *opts.RepetitionPenalty
	}
	if opts.Seed != nil {
		req.Seed = *opts.Seed
	}

	if req.Samples < 1 {
		req.Samples = 1
	}
	if req.Parallel < 1 {
		req.Parallel = 1
	}

	return req
}
