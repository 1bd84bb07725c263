package compiledrv

import (
	"context"
	"os"
	"path/filepath"

	"judgecore/internal/judgeerr"
	"judgecore/internal/sandboxclient"
)

// makefileDriver builds a submission with a fixed `make` recipe shipped
// under the problem's res_path/make directory. The submitted source is
// always copied in as main.cpp; this matches every existing problem's
// Makefile and is kept as-is rather than generalized.
type makefileDriver struct{}

func newMakefile() Driver { return makefileDriver{} }

func (makefileDriver) Compile(ctx context.Context, sbx sandboxclient.Client, in CompileInput) (Outcome, error) {
	copyIn := map[string]sandboxclient.CopyIn{
		"main.cpp": {Src: in.CodePath},
	}
	dir := filepath.Join(in.ResPath, "make")
	entries, err := os.ReadDir(dir)
	if err != nil {
		return Outcome{}, judgeerr.Wrapf(err, judgeerr.InternalServerError, "read makefile resources: %s", dir)
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		copyIn[e.Name()] = sandboxclient.CopyIn{Src: filepath.Join(dir, e.Name())}
	}

	req := sandboxclient.ExecRequest{Cmd: []sandboxclient.Cmd{{
		Args:          []string{"/usr/bin/make"},
		Env:           []string{envPath, "OUT=./a"},
		Files:         []sandboxclient.File{{}, {Name: "stdout", Max: 10240}, {Name: "stderr", Max: 10240}},
		CPULimit:      defaultCompileCPULimitNs,
		MemoryLimit:   2_147_483_647,
		ProcLimit:     defaultCompileProcLimit,
		CopyIn:        copyIn,
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
