package catalog

import "github.com/phrayse/VAS-File-Architect/pkg/types"

// Run carries the shared state of one cataloging pass: the logger, the
// name registry, and the skip records accumulated along the way.
type Run struct {
	Logger  types.Logger
	Names   *Registry
	Skipped []types.SkipRecord
}

// NewRun creates a run context. A nil logger disables logging.
func NewRun(logger types.Logger) *Run {
	if logger == nil {
		logger = types.NopLogger{}
	}
	return &Run{
		Logger: logger,
		Names:  NewRegistry(),
	}
}

func (r *Run) skip(path, reason string, err error) {
	r.Skipped = append(r.Skipped, types.SkipRecord{Path: path, Reason: reason, Err: err})
	if reason == ReasonExtension {
		r.Logger.Debug("skipped file", "path", path, "reason", reason)
		return
	}
	if err != nil {
		r.Logger.Warn("skipped file", "path", path, "reason", reason, "err", err)
		return
	}
	r.Logger.Warn("skipped file", "path", path, "reason", reason)
}
