package compiledrv

import (
	"context"

	"judgecore/internal/judgeerr"
	"judgecore/internal/sandboxclient"
)

// pythonDriver byte-compiles the submission so later runs skip the source
// parse step; the interpreter itself still does the real work at run time.
type pythonDriver struct{}

func newPython3() Driver { return pythonDriver{} }

func (pythonDriver) Compile(ctx context.Context, sbx sandboxclient.Client, in CompileInput) (Outcome, error) {
	req := sandboxclient.ExecRequest{Cmd: []sandboxclient.Cmd{{
		Args: []string{"/usr/bin/python3", "-c",
			"import py_compile; py_compile.compile('a.py', 'a.pyc', doraise=True, optimize=2)"},
		Env:           []string{envPath},
		Files:         []sandboxclient.File{{}, {}, {Name: "stderr", Max: 10240}},
		CPULimit:      defaultCompileCPULimitNs,
		MemoryLimit:   defaultCompileMemLimit,
		ProcLimit:     defaultCompileProcLimit,
		CopyIn:        map[string]sandboxclient.CopyIn{"a.py": {Src: in.CodePath}},
		CopyOut:       []string{"stderr"},
		CopyOutCached: []string{"a.pyc"},
		CopyOutMax:    defaultCompileOutputMaxLen,
	}}}

	resp, err := sbx.Exec(ctx, req)
	if err != nil {
		return Outcome{}, judgeerr.Wrap(err, judgeerr.SandboxFailure)
	}
	return resolveResponse(resp, "a.pyc"), nil
}
