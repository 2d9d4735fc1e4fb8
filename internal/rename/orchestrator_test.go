package rename

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"casemv/internal/git"
	"casemv/internal/logging"
)

// gitRecorder fakes the git binary: it records every call and answers by
// the arguments that follow "-C <dir>".
type gitRecorder struct {
	calls     [][]string
	cancelled []bool
	outputs   map[string]string
	errors    map[string]error
}

func newGitRecorder() *gitRecorder {
	return &gitRecorder{
		outputs: map[string]string{
			"rev-parse --is-inside-work-tree":      "true\n",
			"rev-parse --show-toplevel":            "/repo\n",
			"ls-files --exclude-standard --others": "",
		},
		errors: make(map[string]error),
	}
}

func (g *gitRecorder) exec(ctx context.Context, name string, args ...string) (string, error) {
	g.calls = append(g.calls, args)
	g.cancelled = append(g.cancelled, ctx.Err() != nil)
	rest := args
	if len(rest) >= 2 && rest[0] == "-C" {
		rest = rest[2:]
	}
	key := strings.Join(rest, " ")
	if err, ok := g.errors[key]; ok {
		return "", err
	}
	return g.outputs[key], nil
}

// moves returns the mv calls as "from -> to".
func (g *gitRecorder) moves() []string {
	var out []string
	for _, c := range g.calls {
		if len(c) == 5 && c[2] == "mv" {
			out = append(out, c[3]+" -> "+c[4])
		}
	}
	return out
}

type recordingNotifier struct {
	errs []error
}

func (n *recordingNotifier) NotifyError(_ context.Context, err error) {
	n.errs = append(n.errs, err)
}

func sequence(tokens ...string) func() string {
	i := 0
	return func() string {
		t := tokens[i%len(tokens)]
		i++
		return t
	}
}

func never(string) bool { return false }

func newTestOrchestrator(g *gitRecorder, n Notifier, logger *logging.ScopedLogger) *Orchestrator {
	client := git.NewClientWithExecutor("git", g.exec, nil)
	return NewOrchestrator(client, n, logger).WithTempNames(sequence("tok1", "tok2", "tok3"), never)
}

func TestHandle_TrackedCaseOnlyRename(t *testing.T) {
	lm := logging.NewTestLogManager(20)
	defer func() { _ = lm.Close() }()

	g := newGitRecorder()
	o := newTestOrchestrator(g, nil, lm.For("rename"))

	res := o.Handle(context.Background(), Intent{OldPath: "/repo/src/Foo.ts", NewPath: "/repo/src/foo.ts"})
	if res.Status != StatusRenamed {
		t.Fatalf("Status = %v (err %v), want renamed", res.Status, res.Err)
	}
	if res.GitRoot != "/repo" {
		t.Errorf("GitRoot = %q, want /repo", res.GitRoot)
	}

	want := []string{
		"src/Foo.ts -> src/casemv-tok1.ts",
		"src/casemv-tok1.ts -> src/foo.ts",
	}
	got := g.moves()
	if fmt.Sprint(got) != fmt.Sprint(want) {
		t.Fatalf("moves = %v, want %v", got, want)
	}
	if res.TempName != "src/casemv-tok1.ts" {
		t.Errorf("TempName = %q", res.TempName)
	}

	// probe runs in the parent directory, the rest in the root
	if g.calls[0][1] != "/repo/src" {
		t.Errorf("probe dir = %q, want /repo/src", g.calls[0][1])
	}
	for _, c := range g.calls[1:] {
		if c[1] != "/repo" && c[1] != "/repo/src" {
			t.Errorf("unexpected -C dir in %v", c)
		}
	}

	var sawSuccess bool
	timeout := time.After(time.Second)
	for !sawSuccess {
		select {
		case e := <-lm.Channel():
			if e.Message == "file successfully renamed" {
				sawSuccess = true
				if e.Fields["from"] != "Foo.ts" || e.Fields["to"] != "foo.ts" {
					t.Errorf("success fields = %v", e.Fields)
				}
			}
		case <-timeout:
			t.Fatal("no success log entry")
		}
	}
}

func TestHandle_TempNameDiffersFromEndpoints(t *testing.T) {
	g := newGitRecorder()
	client := git.NewClientWithExecutor("git", g.exec, nil)
	o := NewOrchestrator(client, nil, nil).WithTempNames(sequence("a", "b"), never)

	res := o.Handle(context.Background(), Intent{OldPath: "/repo/casemv-A.go", NewPath: "/repo/casemv-a.go"})
	if res.Status != StatusRenamed {
		t.Fatalf("Status = %v (err %v), want renamed", res.Status, res.Err)
	}
	if res.TempName != "casemv-b.go" {
		t.Errorf("TempName = %q, want casemv-b.go", res.TempName)
	}
}

func TestHandle_DefaultTempNames(t *testing.T) {
	g := newGitRecorder()
	client := git.NewClientWithExecutor("git", g.exec, nil)
	o := NewOrchestrator(client, nil, nil)

	res := o.Handle(context.Background(), Intent{OldPath: "/repo/definitely-missing-dir/README.md", NewPath: "/repo/definitely-missing-dir/readme.md"})
	if res.Status != StatusRenamed {
		t.Fatalf("Status = %v (err %v), want renamed", res.Status, res.Err)
	}

	moves := g.moves()
	if len(moves) != 2 {
		t.Fatalf("moves = %v, want 2", moves)
	}
	base := res.TempName[strings.LastIndex(res.TempName, "/")+1:]
	if strings.EqualFold(base, "README.md") || !strings.HasPrefix(base, tempPrefix) || !strings.HasSuffix(base, ".md") {
		t.Errorf("temp name %q", res.TempName)
	}
}

func TestHandle_NotCaseOnly_NoCommands(t *testing.T) {
	tests := []Intent{
		{OldPath: "/repo/src/Foo.ts", NewPath: "/repo/src/Bar.ts"},
		{OldPath: "/repo/src/Foo.ts", NewPath: "/repo/src/Foo.js"},
		{OldPath: "/repo/src/Foo.ts", NewPath: "/repo/lib/Foo.ts"},
	}
	for _, in := range tests {
		g := newGitRecorder()
		o := newTestOrchestrator(g, nil, nil)

		res := o.Handle(context.Background(), in)
		if res.Status != StatusSkipped || res.Reason != ReasonNotCaseOnly {
			t.Errorf("Handle(%v) = %v/%q, want skipped/not case-only", in, res.Status, res.Reason)
		}
		if len(g.calls) != 0 {
			t.Errorf("Handle(%v) issued %d git calls, want 0", in, len(g.calls))
		}
	}
}

func TestHandle_Unchanged_NoCommands(t *testing.T) {
	g := newGitRecorder()
	o := newTestOrchestrator(g, nil, nil)

	res := o.Handle(context.Background(), Intent{OldPath: "/repo/foo.ts", NewPath: "/repo/foo.ts"})
	if res.Status != StatusSkipped || res.Reason != ReasonUnchanged {
		t.Errorf("Handle() = %v/%q, want skipped/unchanged", res.Status, res.Reason)
	}
	if len(g.calls) != 0 {
		t.Errorf("issued %d git calls, want 0", len(g.calls))
	}
}

func TestHandle_OutsideRepository_OnlyProbe(t *testing.T) {
	g := newGitRecorder()
	g.errors["rev-parse --is-inside-work-tree"] = errors.New("fatal: not a git repository")
	n := &recordingNotifier{}
	o := newTestOrchestrator(g, n, nil)

	results := o.Process(context.Background(), []Intent{{OldPath: "/tmp/Foo.txt", NewPath: "/tmp/foo.txt"}})
	if results[0].Status != StatusSkipped || results[0].Reason != ReasonNotRepository {
		t.Errorf("result = %v/%q, want skipped/not a repository", results[0].Status, results[0].Reason)
	}
	if len(g.calls) != 1 {
		t.Errorf("issued %d git calls, want 1: %v", len(g.calls), g.calls)
	}
	if len(n.errs) != 0 {
		t.Errorf("notifier got %v, want nothing", n.errs)
	}
}

func TestHandle_Untracked_NoRelay(t *testing.T) {
	g := newGitRecorder()
	g.outputs["ls-files --exclude-standard --others"] = "other.md\nnotes.TXT\n"
	o := newTestOrchestrator(g, nil, nil)

	res := o.Handle(context.Background(), Intent{OldPath: "/repo/notes.TXT", NewPath: "/repo/notes.txt"})
	if res.Status != StatusSkipped || res.Reason != ReasonUntracked {
		t.Errorf("Handle() = %v/%q, want skipped/untracked", res.Status, res.Reason)
	}
	if moves := g.moves(); len(moves) != 0 {
		t.Errorf("moves = %v, want none", moves)
	}
}

func TestProcess_ResolveRootFailureIsReported(t *testing.T) {
	g := newGitRecorder()
	g.errors["rev-parse --show-toplevel"] = errors.New("fatal: repository vanished")
	n := &recordingNotifier{}
	o := newTestOrchestrator(g, n, nil)

	results := o.Process(context.Background(), []Intent{{OldPath: "/repo/A.txt", NewPath: "/repo/a.txt"}})
	if results[0].Status != StatusFailed {
		t.Fatalf("Status = %v, want failed", results[0].Status)
	}
	if len(n.errs) != 1 || !strings.Contains(n.errs[0].Error(), "repository vanished") {
		t.Errorf("notifier errs = %v", n.errs)
	}
	if moves := g.moves(); len(moves) != 0 {
		t.Errorf("moves = %v, want none", moves)
	}
}

func TestProcess_PhaseTwoFailureKeepsRecoveryDetails(t *testing.T) {
	g := newGitRecorder()
	cause := errors.New("fatal: destination exists")
	g.errors["mv src/casemv-tok1.ts src/foo.ts"] = cause
	n := &recordingNotifier{}
	o := newTestOrchestrator(g, n, nil)

	results := o.Process(context.Background(), []Intent{{OldPath: "/repo/src/Foo.ts", NewPath: "/repo/src/foo.ts"}})
	res := results[0]
	if res.Status != StatusFailed {
		t.Fatalf("Status = %v, want failed", res.Status)
	}

	var relayErr *RelayError
	if !errors.As(res.Err, &relayErr) {
		t.Fatalf("Err = %T, want *RelayError", res.Err)
	}
	if relayErr.Phase != 2 || relayErr.Temp != "src/casemv-tok1.ts" || relayErr.To != "src/foo.ts" || relayErr.Root != "/repo" {
		t.Errorf("RelayError = %+v", relayErr)
	}
	if !errors.Is(res.Err, cause) {
		t.Errorf("Err does not wrap the git failure: %v", res.Err)
	}
	if !strings.Contains(res.Err.Error(), "src/casemv-tok1.ts") {
		t.Errorf("message lacks temp path: %q", res.Err.Error())
	}
	if len(n.errs) != 1 {
		t.Errorf("notifier got %d errors, want 1", len(n.errs))
	}
}

func TestProcess_PhaseOneFailure(t *testing.T) {
	g := newGitRecorder()
	g.errors["mv src/Foo.ts src/casemv-tok1.ts"] = errors.New("permission denied")
	o := newTestOrchestrator(g, nil, nil)

	res := o.Process(context.Background(), []Intent{{OldPath: "/repo/src/Foo.ts", NewPath: "/repo/src/foo.ts"}})[0]

	var relayErr *RelayError
	if !errors.As(res.Err, &relayErr) || relayErr.Phase != 1 {
		t.Fatalf("Err = %v, want phase 1 RelayError", res.Err)
	}
	if moves := g.moves(); len(moves) != 1 {
		t.Errorf("moves = %v, want only the first", moves)
	}
}

func TestProcess_ContinuesAfterSkipsAndFailures(t *testing.T) {
	g := newGitRecorder()
	g.errors["mv a/X.txt a/casemv-tok1.txt"] = errors.New("locked")
	n := &recordingNotifier{}
	o := newTestOrchestrator(g, n, nil)

	results := o.Process(context.Background(), []Intent{
		{OldPath: "/repo/src/Foo.ts", NewPath: "/repo/src/Bar.ts"},
		{OldPath: "/repo/a/X.txt", NewPath: "/repo/a/x.txt"},
		{OldPath: "/repo/b/Y.txt", NewPath: "/repo/b/y.txt"},
	})

	if len(results) != 3 {
		t.Fatalf("got %d results, want 3", len(results))
	}
	summary := Summarize(results)
	if summary != (Summary{Renamed: 1, Skipped: 1, Failed: 1}) {
		t.Errorf("Summarize() = %+v", summary)
	}
	if len(n.errs) != 1 {
		t.Errorf("notifier got %d errors, want 1", len(n.errs))
	}
}

func TestProcess_RelayIgnoresCancellation(t *testing.T) {
	g := newGitRecorder()
	o := newTestOrchestrator(g, nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	o.Process(ctx, []Intent{{OldPath: "/repo/Foo.ts", NewPath: "/repo/foo.ts"}})
	for i, c := range g.calls {
		if len(c) > 2 && c[2] == "mv" && g.cancelled[i] {
			t.Errorf("mv call %v ran with a cancelled context", c)
		}
	}
}

func TestTempName_RetriesWhenTaken(t *testing.T) {
	g := newGitRecorder()
	client := git.NewClientWithExecutor("git", g.exec, nil)
	var checked []string
	exists := func(p string) bool {
		checked = append(checked, p)
		return strings.Contains(p, "tok1")
	}
	o := NewOrchestrator(client, nil, nil).WithTempNames(sequence("tok1", "tok2"), exists)

	res := o.Handle(context.Background(), Intent{OldPath: "/repo/Foo.ts", NewPath: "/repo/foo.ts"})
	if res.TempName != "casemv-tok2.ts" {
		t.Errorf("TempName = %q, want casemv-tok2.ts", res.TempName)
	}
	if len(checked) != 2 {
		t.Errorf("checked %v, want two candidates", checked)
	}
}

func TestTempName_GivesUp(t *testing.T) {
	g := newGitRecorder()
	client := git.NewClientWithExecutor("git", g.exec, nil)
	o := NewOrchestrator(client, nil, nil).WithTempNames(sequence("x"), func(string) bool { return true })

	res := o.Handle(context.Background(), Intent{OldPath: "/repo/Foo.ts", NewPath: "/repo/foo.ts"})
	if !errors.Is(res.Err, ErrNoTempName) {
		t.Errorf("Err = %v, want ErrNoTempName", res.Err)
	}
	if moves := g.moves(); len(moves) != 0 {
		t.Errorf("moves = %v, want none", moves)
	}
}
