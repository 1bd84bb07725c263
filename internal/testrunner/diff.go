package testrunner

import (
	"context"
	"os"

	"go.uber.org/zap"

	"judgecore/internal/judgelog"
	"judgecore/internal/sandboxclient"
	"judgecore/internal/submission"
	"judgecore/internal/verdict"
)

// runDiff executes the compiled program against one test case and compares
// its stdout to the answer file, either byte-for-byte (strict) or ignoring
// trailing whitespace per line.
func runDiff(ctx context.Context, sbx sandboxclient.Client, args []string, copyInName, artifactID string, tc submission.TestCase, result *submission.Result, strict bool) (verdict.Verdict, string) {
	req := sandboxclient.ExecRequest{Cmd: []sandboxclient.Cmd{{
		Args:              args,
		Env:               []string{"PATH=/usr/bin:/bin"},
		Files:             []sandboxclient.File{{Src: tc.InPath}, {Name: "stdout", Max: stdoutMax}, {Name: "stderr", Max: stderrMax}},
		CPULimit:          tc.TimeLimitNs,
		MemoryLimit:       tc.MemLimitBytes,
		StackLimit:        runStackLimit,
		ProcLimit:         runProcLimit,
		CPURateLimit:      runCPURateLimit,
		StrictMemoryLimit: false,
		CopyIn:            map[string]sandboxclient.CopyIn{copyInName: {FileID: artifactID}},
		CopyOut:           []string{"stdout"},
	}}}

	resp, err := sbx.Exec(ctx, req)
	if err != nil {
		judgelog.Error(ctx, "sandbox exec failed during diff run", zap.Error(err))
		return verdict.InternalError, ""
	}
	res, ok := firstResult(resp)
	if !ok {
		judgelog.Error(ctx, "sandbox returned no results during diff run")
		return verdict.InternalError, ""
	}
	applyTiming(result, res)

	if res.Status != sandboxclient.StatusAccepted {
		return applyCaseVerdict(res)
	}

	ans, err := os.ReadFile(tc.AnsPath)
	if err != nil {
		judgelog.Error(ctx, "read answer file failed", zap.Error(err))
		return verdict.InternalError, ""
	}
	out := []byte(res.Files["stdout"])

	var pass bool
	if strict {
		pass = sbx.DiffStrict(out, ans)
	} else {
		pass = sbx.DiffIgnoreTrailingSpace(out, ans)
	}
	if pass {
		return verdict.Accepted, ""
	}
	return verdict.WrongAnswer, ""
}
