package judgedriver

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"judgecore/internal/compiledrv"
	"judgecore/internal/sandboxclient"
	"judgecore/internal/submission"
	"judgecore/internal/verdict"
)

// fakeSandbox is a scripted sandboxclient.Client double: each call to Exec
// pops the next queued response in order.
type fakeSandbox struct {
	execResponses []sandboxclient.ExecResponse
	execCalls     int
	deletedIDs    []string
}

func (f *fakeSandbox) Init(ctx context.Context, cfg sandboxclient.InitConfig) error { return nil }

func (f *fakeSandbox) Exec(ctx context.Context, req sandboxclient.ExecRequest) (sandboxclient.ExecResponse, error) {
	idx := f.execCalls
	f.execCalls++
	if idx < len(f.execResponses) {
		return f.execResponses[idx], nil
	}
	return sandboxclient.ExecResponse{Results: []sandboxclient.CmdResult{{Status: sandboxclient.StatusAccepted}}}, nil
}

func (f *fakeSandbox) FileDelete(ctx context.Context, fileID string) error {
	f.deletedIDs = append(f.deletedIDs, fileID)
	return nil
}

func (f *fakeSandbox) DiffStrict(a, b []byte) bool { return string(a) == string(b) }
func (f *fakeSandbox) DiffIgnoreTrailingSpace(a, b []byte) bool {
	return string(a) == string(b)
}

type stubCompileDriver struct {
	outcome compiledrv.Outcome
}

func (s stubCompileDriver) Compile(ctx context.Context, sbx sandboxclient.Client, in compiledrv.CompileInput) (compiledrv.Outcome, error) {
	return s.outcome, nil
}

func TestJudgeAcceptsTrivialSubmission(t *testing.T) {
	sbx := &fakeSandbox{
		execResponses: []sandboxclient.ExecResponse{
			{Results: []sandboxclient.CmdResult{{Status: sandboxclient.StatusAccepted, Files: map[string]string{"stdout": "42\n"}}}},
		},
	}
	drv := Driver{
		Sandbox: sbx,
		Registry: compiledrv.Registry{
			submission.CompGCC: stubCompileDriver{outcome: compiledrv.Outcome{ArtifactID: "art-1", Verdict: verdict.Accepted}},
		},
	}

	ansPath := filepath.Join(t.TempDir(), "1.out")
	if err := os.WriteFile(ansPath, []byte("42\n"), 0644); err != nil {
		t.Fatalf("write answer file: %v", err)
	}

	sub := submission.Submission{
		ChalID:    1,
		CompType:  submission.CompGCC,
		CheckType: submission.CheckDiff,
		Test: []submission.TestGroup{
			{{InPath: "1.in", AnsPath: ansPath, TimeLimitNs: 1_000_000_000, MemLimitBytes: 268435456}},
		},
	}

	results, err := drv.Judge(context.Background(), sub)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if results[0].Status != verdict.Accepted {
		t.Errorf("status = %v, want Accepted", results[0].Status)
	}
	if len(sbx.deletedIDs) == 0 {
		t.Error("expected compiled artifact to be released")
	}
}

func TestJudgeRejectsUnsupportedCompType(t *testing.T) {
	drv := Driver{Sandbox: &fakeSandbox{}, Registry: compiledrv.Registry{}}
	sub := submission.Submission{ChalID: 1, CompType: "cobol"}
	if _, err := drv.Judge(context.Background(), sub); err == nil {
		t.Fatal("expected error for unsupported comp_type")
	}
}

func TestJudgePropagatesCompileErrorToAllGroups(t *testing.T) {
	sbx := &fakeSandbox{}
	drv := Driver{
		Sandbox: sbx,
		Registry: compiledrv.Registry{
			submission.CompGCC: stubCompileDriver{outcome: compiledrv.Outcome{Verdict: verdict.CompileError, Diagnostic: "syntax error"}},
		},
	}
	sub := submission.Submission{
		ChalID:   2,
		CompType: submission.CompGCC,
		Test:     []submission.TestGroup{{}, {}},
	}

	results, err := drv.Judge(context.Background(), sub)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i, r := range results {
		if r.Status != verdict.CompileError {
			t.Errorf("group %d: status = %v, want CompileError", i, r.Status)
		}
	}
}
