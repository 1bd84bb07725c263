package testrunner

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"judgecore/internal/sandboxclient"
	"judgecore/internal/submission"
	"judgecore/internal/verdict"
)

type scriptedSandbox struct {
	responses []sandboxclient.ExecResponse
	calls     int
}

func (s *scriptedSandbox) Init(ctx context.Context, cfg sandboxclient.InitConfig) error { return nil }

func (s *scriptedSandbox) Exec(ctx context.Context, req sandboxclient.ExecRequest) (sandboxclient.ExecResponse, error) {
	idx := s.calls
	s.calls++
	return s.responses[idx], nil
}

func (s *scriptedSandbox) FileDelete(ctx context.Context, fileID string) error { return nil }
func (s *scriptedSandbox) DiffStrict(a, b []byte) bool                         { return string(a) == string(b) }
func (s *scriptedSandbox) DiffIgnoreTrailingSpace(a, b []byte) bool {
	return sandboxclient.New("http://unused").DiffIgnoreTrailingSpace(a, b)
}

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "f")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	return path
}

func TestRunGroupWhitespaceTolerantAccept(t *testing.T) {
	sbx := &scriptedSandbox{responses: []sandboxclient.ExecResponse{
		{Results: []sandboxclient.CmdResult{{Status: sandboxclient.StatusAccepted, Files: map[string]string{"stdout": "hello  \n"}}}},
	}}
	ans := writeFile(t, "hello\n")
	group := submission.TestGroup{{InPath: "in", AnsPath: ans, TimeLimitNs: 1e9, MemLimitBytes: 1 << 20}}
	result := &submission.Result{}

	RunGroup(context.Background(), sbx, submission.CheckDiff, submission.CompGCC, "", "art", "", submission.Metadata{}, group, result)

	if result.Status != verdict.Accepted {
		t.Fatalf("status = %v, want Accepted", result.Status)
	}
}

func TestRunGroupStrictDiffRejectsTrailingWhitespace(t *testing.T) {
	sbx := &scriptedSandbox{responses: []sandboxclient.ExecResponse{
		{Results: []sandboxclient.CmdResult{{Status: sandboxclient.StatusAccepted, Files: map[string]string{"stdout": "hello  \n"}}}},
	}}
	ans := writeFile(t, "hello\n")
	group := submission.TestGroup{{InPath: "in", AnsPath: ans, TimeLimitNs: 1e9, MemLimitBytes: 1 << 20}}
	result := &submission.Result{}

	RunGroup(context.Background(), sbx, submission.CheckDiffStrict, submission.CompGCC, "", "art", "", submission.Metadata{}, group, result)

	if result.Status != verdict.WrongAnswer {
		t.Fatalf("status = %v, want WrongAnswer", result.Status)
	}
}

func TestRunGroupStopsAtFirstTimeLimitExceeded(t *testing.T) {
	sbx := &scriptedSandbox{responses: []sandboxclient.ExecResponse{
		{Results: []sandboxclient.CmdResult{{Status: sandboxclient.StatusTimeLimitExceeded}}},
		{Results: []sandboxclient.CmdResult{{Status: sandboxclient.StatusAccepted}}},
	}}
	ans := writeFile(t, "x")
	group := submission.TestGroup{
		{InPath: "in1", AnsPath: ans, TimeLimitNs: 1e9, MemLimitBytes: 1 << 20},
		{InPath: "in2", AnsPath: ans, TimeLimitNs: 1e9, MemLimitBytes: 1 << 20},
	}
	result := &submission.Result{}

	RunGroup(context.Background(), sbx, submission.CheckDiff, submission.CompGCC, "", "art", "", submission.Metadata{}, group, result)

	if result.Status != verdict.TimeLimitExceeded {
		t.Fatalf("status = %v, want TimeLimitExceeded", result.Status)
	}
	if sbx.calls != 1 {
		t.Fatalf("expected the second test case to be skipped, but sandbox was called %d times", sbx.calls)
	}
}

func TestRunGroupSignalMapsToMessage(t *testing.T) {
	sbx := &scriptedSandbox{responses: []sandboxclient.ExecResponse{
		{Results: []sandboxclient.CmdResult{{Status: sandboxclient.StatusSignalled, ExitStatus: 11}}},
	}}
	ans := writeFile(t, "x")
	group := submission.TestGroup{{InPath: "in", AnsPath: ans, TimeLimitNs: 1e9, MemLimitBytes: 1 << 20}}
	result := &submission.Result{}

	RunGroup(context.Background(), sbx, submission.CheckDiff, submission.CompGCC, "", "art", "", submission.Metadata{}, group, result)

	if result.Status != verdict.RuntimeErrorSignalled {
		t.Fatalf("status = %v, want RuntimeErrorSignalled", result.Status)
	}
	if result.Verdict != "segmentation fault" {
		t.Fatalf("verdict = %q, want %q", result.Verdict, "segmentation fault")
	}
}

func TestRunGroupCMSChecker(t *testing.T) {
	sbx := &scriptedSandbox{responses: []sandboxclient.ExecResponse{
		{Results: []sandboxclient.CmdResult{{Status: sandboxclient.StatusAccepted, FileIDs: map[string]string{"stdout": "cached-1"}}}},
		{Results: []sandboxclient.CmdResult{{Status: sandboxclient.StatusAccepted}}},
	}}
	ans := writeFile(t, "x")
	group := submission.TestGroup{{InPath: "in", AnsPath: ans, TimeLimitNs: 1e9, MemLimitBytes: 1 << 20}}
	result := &submission.Result{}

	RunGroup(context.Background(), sbx, submission.CheckCms, submission.CompGCC, "", "art", "check-art", submission.Metadata{}, group, result)

	if result.Status != verdict.Accepted {
		t.Fatalf("status = %v, want Accepted", result.Status)
	}
}
