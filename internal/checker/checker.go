// Package checker compiles the problem-supplied special judge used by the
// cms and ioredir check types.
package checker

import (
	"context"
	"os"
	"path/filepath"

	"judgecore/internal/judgeerr"
	"judgecore/internal/sandboxclient"
	"judgecore/internal/verdict"
)

const (
	artifactName  = "check"
	cpuLimitNs    = 10_000_000_000
	memLimit      = 2_147_483_647
	procLimit     = 10
	stderrMaxSize = 10240
)

// Outcome is the result of compiling the checker.
type Outcome struct {
	ArtifactID string
	Verdict    verdict.Verdict
}

// Compile builds res_path/check/build via `sh build`, copying in every
// regular file found in that directory. A successful build's `check`
// binary is returned as a cached sandbox artifact id.
func Compile(ctx context.Context, sbx sandboxclient.Client, resPath string) (Outcome, error) {
	dir := filepath.Join(resPath, "check")
	entries, err := os.ReadDir(dir)
	if err != nil {
		return Outcome{}, judgeerr.Wrapf(err, judgeerr.InternalServerError, "read checker resources: %s", dir)
	}

	copyIn := make(map[string]sandboxclient.CopyIn, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		copyIn[e.Name()] = sandboxclient.CopyIn{Src: filepath.Join(dir, e.Name())}
	}

	req := sandboxclient.ExecRequest{Cmd: []sandboxclient.Cmd{{
		Args:          []string{"/usr/bin/sh", "build"},
		Env:           []string{"PATH=/usr/bin:/bin"},
		Files:         []sandboxclient.File{{}, {Name: "stdout", Max: stderrMaxSize}, {Name: "stderr", Max: stderrMaxSize}},
		CPULimit:      cpuLimitNs,
		MemoryLimit:   memLimit,
		ProcLimit:     procLimit,
		CopyIn:        copyIn,
		CopyOut:       []string{"stderr"},
		CopyOutCached: []string{artifactName},
	}}}

	resp, err := sbx.Exec(ctx, req)
	if err != nil {
		return Outcome{}, judgeerr.Wrap(err, judgeerr.SandboxFailure)
	}

	if len(resp.Results) == 0 {
		return Outcome{Verdict: verdict.InternalError}, nil
	}
	res := resp.Results[0]
	if res.Status != sandboxclient.StatusAccepted {
		return Outcome{Verdict: verdict.InternalError}, nil
	}
	return Outcome{ArtifactID: res.FileIDs[artifactName], Verdict: verdict.Accepted}, nil
}
