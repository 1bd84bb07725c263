// Package compiledrv compiles a submission's source into a cached sandbox
// artifact, one Driver implementation per comp_type.
package compiledrv

import (
	"context"

	"judgecore/internal/sandboxclient"
	"judgecore/internal/verdict"
)

// CompileInput describes one compile request.
type CompileInput struct {
	CodePath string
	// ResPath is the submission's resource directory; the makefile driver
	// reads its supporting files from the make subdirectory of it.
	ResPath string
	// ExtraFlags is an optional extra-compiler-flags string (e.g.
	// "-Wall -DDEBUG"), split with shlex before use.
	ExtraFlags string
}

// Outcome is the result of a compile attempt.
type Outcome struct {
	ArtifactID string
	Verdict    verdict.Verdict
	Diagnostic string
	Time       int64
	Memory     int64
	// MainClass is set only by the Java driver, and names the detected
	// class holding `public static void main`.
	MainClass string
}

// Driver compiles one language's source into a cached sandbox artifact.
type Driver interface {
	Compile(ctx context.Context, sbx sandboxclient.Client, in CompileInput) (Outcome, error)
}

const (
	envPath = "PATH=/usr/bin:/bin"

	defaultCompileCPULimitNs   = 10_000_000_000
	defaultCompileMemLimit     = 536_870_912 // 512 MiB
	defaultCompileProcLimit    = 10
	defaultCompileStderrMax    = 102400
	defaultCompileOutputMaxLen = 64_000_000
)

// resolveResponse guards against a malformed sandbox response (no results)
// before delegating to resolveOutcome, so a short response surfaces as
// InternalError instead of panicking the worker.
func resolveResponse(resp sandboxclient.ExecResponse, artifactName string) Outcome {
	if len(resp.Results) == 0 {
		return Outcome{Verdict: verdict.InternalError}
	}
	return resolveOutcome(resp.Results[0], artifactName)
}

// resolveOutcome maps a compiler CmdResult to a compile Outcome, mirroring
// the original's compile_update_result: Accepted yields the cached artifact
// id, a nonzero exit is a compile error carrying stderr, resource exhaustion
// is CompileLimitExceeded, anything else is InternalError.
func resolveOutcome(res sandboxclient.CmdResult, artifactName string) Outcome {
	switch res.Status {
	case sandboxclient.StatusAccepted:
		return Outcome{
			ArtifactID: res.FileIDs[artifactName],
			Verdict:    verdict.Accepted,
			Time:       res.RunTime,
			Memory:     res.Memory,
		}
	case sandboxclient.StatusNonzeroExitStatus:
		return Outcome{
			Verdict:    verdict.CompileError,
			Diagnostic: res.Files["stderr"],
			Time:       res.RunTime,
			Memory:     res.Memory,
		}
	case sandboxclient.StatusTimeLimitExceeded, sandboxclient.StatusMemoryLimitExceeded:
		return Outcome{
			Verdict:    verdict.CompileLimitExceeded,
			Diagnostic: res.Files["stderr"],
			Time:       res.RunTime,
			Memory:     res.Memory,
		}
	default:
		return Outcome{Verdict: verdict.InternalError}
	}
}
