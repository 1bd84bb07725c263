// Package testrunner evaluates one TestGroup at a time against a compiled
// submission, across the four supported check types.
package testrunner

import (
	"context"

	"judgecore/internal/sandboxclient"
	"judgecore/internal/submission"
	"judgecore/internal/verdict"
)

const (
	runCPURateLimit = 1000
	runProcLimit    = 1
	runStackLimit   = 65536 * 1024 // 64 MiB
	stdoutMax       = 268435456    // 256 MiB
	stderrMax       = 10240
)

// sigPipe is the signal number delivered to a process whose stdout pipe
// closed from the reading end, used by ioredir to detect a dead checker.
const sigPipe = 13

// exactSignalMessage holds the four signal codes spec.md requires exact
// English messages for, independent of the OS's own strsignal wording.
var exactSignalMessage = map[int]string{
	4:  "illegal hardware instruction",
	6:  "abort",
	8:  "floating point exception",
	11: "segmentation fault",
}

// signalMessage returns spec.md's pinned wording for the four specified
// codes, falling back to the OS signal name for anything else so an
// unexpected signal still gets a readable diagnostic.
func signalMessage(code int) string {
	if msg, ok := exactSignalMessage[code]; ok {
		return msg
	}
	return osSignalName(code)
}

// applyCaseVerdict maps the common sandbox run result (anything but
// Accepted) to a Verdict and optional diagnostic text, factoring the
// chain repeated across all four check types.
func applyCaseVerdict(res sandboxclient.CmdResult) (verdict.Verdict, string) {
	switch res.Status {
	case sandboxclient.StatusTimeLimitExceeded:
		return verdict.TimeLimitExceeded, ""
	case sandboxclient.StatusMemoryLimitExceeded:
		return verdict.MemoryLimitExceeded, ""
	case sandboxclient.StatusOutputLimitExceeded:
		return verdict.OutputLimitExceeded, ""
	case sandboxclient.StatusNonzeroExitStatus:
		return verdict.RuntimeError, res.Files["stderr"]
	case sandboxclient.StatusSignalled:
		return verdict.RuntimeErrorSignalled, signalMessage(res.ExitStatus)
	default:
		return verdict.InternalError, ""
	}
}

// runArgsFor builds the process argv for the compiled artifact, per
// comp_type (python3 and java need an interpreter/JVM in front of it).
func runArgsFor(compType submission.CompType, mainClass string) []string {
	switch compType {
	case submission.CompPython3:
		return []string{"/usr/bin/python3", "a"}
	case submission.CompJava:
		return []string{"/usr/bin/java", mainClass}
	default:
		return []string{"a"}
	}
}

// copyInNameFor is the name the compiled artifact is copied in under,
// matching the name javac/the interpreter expects to see on disk.
func copyInNameFor(compType submission.CompType, mainClass string) string {
	if compType == submission.CompJava {
		return mainClass + ".class"
	}
	return "a"
}

// firstResult returns resp.Results[0], or false if the sandbox responded
// with no results at all — a malformed response must surface as
// InternalError rather than panic the worker (spec.md §4.1 Failure clause).
func firstResult(resp sandboxclient.ExecResponse) (sandboxclient.CmdResult, bool) {
	if len(resp.Results) == 0 {
		return sandboxclient.CmdResult{}, false
	}
	return resp.Results[0], true
}

func applyTiming(result *submission.Result, res sandboxclient.CmdResult) {
	if res.RunTime > result.Time {
		result.Time = res.RunTime
	}
	if res.Memory > result.Memory {
		result.Memory = res.Memory
	}
}

// RunGroup evaluates one TestGroup in order, stopping at the first
// terminal verdict, and writes into result in place.
func RunGroup(ctx context.Context, sbx sandboxclient.Client, checkType submission.CheckType, compType submission.CompType, mainClass, artifactID, checkerArtifactID string, metadata submission.Metadata, group submission.TestGroup, result *submission.Result) {
	args := runArgsFor(compType, mainClass)
	copyInName := copyInNameFor(compType, mainClass)

	for _, tc := range group {
		if result.Status.Terminal() {
			return
		}
		var v verdict.Verdict
		var extra string
		switch checkType {
		case submission.CheckDiffStrict:
			v, extra = runDiff(ctx, sbx, args, copyInName, artifactID, tc, result, true)
		case submission.CheckCms:
			v, extra = runCMS(ctx, sbx, args, copyInName, artifactID, checkerArtifactID, tc, result)
		case submission.CheckIoredir:
			v, extra = runIoredir(ctx, sbx, args, copyInName, artifactID, checkerArtifactID, metadata, tc, result)
		default:
			v, extra = runDiff(ctx, sbx, args, copyInName, artifactID, tc, result, false)
		}
		result.Status = v
		if extra != "" {
			result.Verdict = extra
		}
	}
}
