package compiledrv

import (
	"context"

	"judgecore/internal/judgeerr"
	"judgecore/internal/sandboxclient"
)

type rustcDriver struct{}

func newRustc() Driver { return rustcDriver{} }

func (rustcDriver) Compile(ctx context.Context, sbx sandboxclient.Client, in CompileInput) (Outcome, error) {
	req := sandboxclient.ExecRequest{Cmd: []sandboxclient.Cmd{{
		Args:          []string{"/usr/bin/rustc", "./a.rs", "-O", "-o", "a"},
		Env:           []string{envPath},
		Files:         []sandboxclient.File{{}, {}, {Name: "stderr", Max: 10240}},
		CPULimit:      defaultCompileCPULimitNs,
		MemoryLimit:   1_073_741_824,
		ProcLimit:     defaultCompileProcLimit,
		CopyIn:        map[string]sandboxclient.CopyIn{"a.rs": {Src: in.CodePath}},
		CopyOut:       []string{"stderr"},
		CopyOutCached: []string{"a"},
		CopyOutMax:    defaultCompileOutputMaxLen,
	}}}

	resp, err := sbx.Exec(ctx, req)
	if err != nil {
		return Outcome{}, judgeerr.Wrap(err, judgeerr.SandboxFailure)
	}
	return resolveResponse(resp, "a"), nil
}
