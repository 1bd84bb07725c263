package testrunner

import (
	"context"

	"go.uber.org/zap"

	"judgecore/internal/judgelog"
	"judgecore/internal/sandboxclient"
	"judgecore/internal/submission"
	"judgecore/internal/verdict"
)

// runCMS runs the program, caches its stdout, then invokes the checker
// binary with (test_in, test_out, user_ans) and maps the checker's own
// process status to a verdict.
func runCMS(ctx context.Context, sbx sandboxclient.Client, args []string, copyInName, artifactID, checkerArtifactID string, tc submission.TestCase, result *submission.Result) (verdict.Verdict, string) {
	runReq := sandboxclient.ExecRequest{Cmd: []sandboxclient.Cmd{{
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
		CopyOutCached:     []string{"stdout"},
	}}}

	runResp, err := sbx.Exec(ctx, runReq)
	if err != nil {
		judgelog.Error(ctx, "sandbox exec failed during cms run", zap.Error(err))
		return verdict.InternalError, ""
	}
	res, ok := firstResult(runResp)
	if !ok {
		judgelog.Error(ctx, "sandbox returned no results during cms run")
		return verdict.InternalError, ""
	}
	applyTiming(result, res)

	if res.Status != sandboxclient.StatusAccepted {
		return applyCaseVerdict(res)
	}

	stdoutFileID := res.FileIDs["stdout"]
	checkReq := sandboxclient.ExecRequest{Cmd: []sandboxclient.Cmd{{
		Args:              []string{"check", "test_in", "test_out", "user_ans"},
		Env:               []string{"PATH=/usr/bin:/bin"},
		Files:             []sandboxclient.File{{}, {Name: "stdout", Max: stderrMax}, {Name: "stderr", Max: stderrMax}},
		CPULimit:          tc.TimeLimitNs * 2,
		MemoryLimit:       tc.MemLimitBytes,
		StackLimit:        runStackLimit,
		ProcLimit:         10,
		CPURateLimit:      runCPURateLimit,
		StrictMemoryLimit: false,
		CopyIn: map[string]sandboxclient.CopyIn{
			"check":    {FileID: checkerArtifactID},
			"test_in":  {Src: tc.InPath},
			"test_ans": {Src: tc.AnsPath},
			"user_ans": {FileID: stdoutFileID},
		},
		CopyOut: []string{"stdout", "stderr"},
	}}}

	checkResp, err := sbx.Exec(ctx, checkReq)

	if delErr := sbx.FileDelete(ctx, stdoutFileID); delErr != nil {
		judgelog.Warn(ctx, "delete cached stdout file failed", zap.Error(delErr))
	}

	if err != nil {
		judgelog.Error(ctx, "sandbox exec failed during checker run", zap.Error(err))
		return verdict.InternalError, ""
	}
	checkRes, ok := firstResult(checkResp)
	if !ok {
		judgelog.Error(ctx, "sandbox returned no results during checker run")
		return verdict.InternalError, ""
	}

	switch checkRes.Status {
	case sandboxclient.StatusAccepted:
		return verdict.Accepted, ""
	case sandboxclient.StatusNonzeroExitStatus:
		return verdict.WrongAnswer, checkRes.Files["stderr"]
	default:
		return verdict.SpecialJudgeError, ""
	}
}
