// pattern: Imperative Shell

package rename

import (
	"context"
	"path"
	"strings"

	"casemv/internal/logging"
	"casemv/internal/pathseg"
)

// Repository is the git surface the orchestrator drives. *git.Client
// implements it.
type Repository interface {
	IsRepository(ctx context.Context, dir string) bool
	ResolveRoot(ctx context.Context, dir string) (string, error)
	IsUntracked(ctx context.Context, root, rel string) (bool, error)
	Move(ctx context.Context, root, from, to string) error
}

// Notifier surfaces unexpected failures to the user.
type Notifier interface {
	NotifyError(ctx context.Context, err error)
}

type nopNotifier struct{}

func (nopNotifier) NotifyError(context.Context, error) {}

// Orchestrator relays case-only renames of tracked files through a
// temporary name so git records them as renames.
type Orchestrator struct {
	repo     Repository
	notifier Notifier
	logger   *logging.ScopedLogger
	token    func() string
	exists   func(string) bool
}

// NewOrchestrator creates an Orchestrator. A nil notifier drops reports.
func NewOrchestrator(repo Repository, notifier Notifier, logger *logging.ScopedLogger) *Orchestrator {
	if notifier == nil {
		notifier = nopNotifier{}
	}
	if logger == nil {
		logger = logging.NopLogger()
	}
	return &Orchestrator{
		repo:     repo,
		notifier: notifier,
		logger:   logger,
		token:    NewToken,
		exists:   pathExists,
	}
}

// WithTempNames replaces the token source and the on-disk existence check
// used when picking relay names (for testing).
func (o *Orchestrator) WithTempNames(token func() string, exists func(string) bool) *Orchestrator {
	o.token = token
	o.exists = exists
	return o
}

// Process handles a batch of intents one after another. Each failure is
// reported to the notifier and does not stop the rest of the batch.
func (o *Orchestrator) Process(ctx context.Context, intents []Intent) []Result {
	results := make([]Result, 0, len(intents))
	for _, in := range intents {
		res := o.Handle(ctx, in)
		if res.Status == StatusFailed {
			o.logger.Error("rename failed", "old", in.OldPath, "new", in.NewPath, "error", res.Err.Error())
			o.notifier.NotifyError(ctx, res.Err)
		}
		results = append(results, res)
	}
	return results
}

// Handle runs a single intent through classification, repository checks
// and the relay. Expected no-ops come back as StatusSkipped.
func (o *Orchestrator) Handle(ctx context.Context, in Intent) Result {
	res := Result{Intent: in}
	log := o.logger.With("old", in.OldPath, "new", in.NewPath)

	if reason, ok := Classify(in); !ok {
		return o.skip(log, res, reason)
	}

	dir := parentDir(in.OldPath)
	if !o.repo.IsRepository(ctx, dir) {
		return o.skip(log, res, ReasonNotRepository)
	}

	root, err := o.repo.ResolveRoot(ctx, dir)
	if err != nil {
		return fail(res, err)
	}
	res.GitRoot = root

	oldSeg := pathseg.Segment(in.OldPath, root)
	newSeg := pathseg.Segment(in.NewPath, root)

	untracked, err := o.repo.IsUntracked(ctx, root, oldSeg.RelPath())
	if err != nil {
		return fail(res, err)
	}
	if untracked {
		return o.skip(log, res, ReasonUntracked)
	}

	temp, err := o.tempName(root, oldSeg, newSeg)
	if err != nil {
		return fail(res, err)
	}
	res.TempName = temp

	if err := o.relay(ctx, root, oldSeg.RelPath(), temp, newSeg.RelPath()); err != nil {
		return fail(res, err)
	}

	log.Info("file successfully renamed", "from", oldSeg.Base(), "to", newSeg.Base())
	res.Status = StatusRenamed
	return res
}

// relay moves from -> temp -> to with two git mv calls. The calls ignore
// cancellation so the file is never abandoned under the temporary name.
func (o *Orchestrator) relay(ctx context.Context, root, from, temp, to string) error {
	ctx = context.WithoutCancel(ctx)

	if err := o.repo.Move(ctx, root, from, temp); err != nil {
		return &RelayError{Phase: 1, Root: root, From: from, Temp: temp, To: to, Err: err}
	}
	o.logger.Debug("relay phase 1 complete", "root", root, "temp", temp)

	if err := o.repo.Move(ctx, root, temp, to); err != nil {
		return &RelayError{Phase: 2, Root: root, From: from, Temp: temp, To: to, Err: err}
	}
	return nil
}

func (o *Orchestrator) skip(log *logging.ScopedLogger, res Result, reason SkipReason) Result {
	log.Info(string(reason) + ", no operation needed")
	res.Status = StatusSkipped
	res.Reason = reason
	return res
}

func fail(res Result, err error) Result {
	res.Status = StatusFailed
	res.Err = err
	return res
}

// parentDir returns the directory holding p, which uses forward slashes.
func parentDir(p string) string {
	p = strings.TrimRight(p, "/")
	dir := path.Dir(p)
	switch {
	case dir == ".":
		return ""
	case strings.HasSuffix(dir, ":"):
		return dir + "/" // drive root
	}
	return dir
}
