package compiledrv

import (
	"context"

	"github.com/google/shlex"

	"judgecore/internal/judgeerr"
	"judgecore/internal/sandboxclient"
)

// cFamilyDriver compiles a single C or C++ translation unit with a fixed
// toolchain (gcc, g++, clang, clang++), optionally extended by
// submission-supplied extra flags.
type cFamilyDriver struct {
	compiler   string
	standard   string
	baseFlags  []string
	sourceName string
}

func newGCC() Driver      { return cFamilyDriver{"/usr/bin/gcc", "-std=gnu11", []string{"-O2", "-pipe", "-static", "-lm"}, "a.c"} }
func newClang() Driver    { return cFamilyDriver{"/usr/bin/clang", "-std=c11", []string{"-O2", "-pipe", "-static", "-lm"}, "a.c"} }
func newGPP() Driver      { return cFamilyDriver{"/usr/bin/g++", "-std=gnu++17", []string{"-O2", "-pipe", "-static"}, "a.cpp"} }
func newClangPP() Driver  { return cFamilyDriver{"/usr/bin/clang++", "-std=c++17", []string{"-O2", "-pipe", "-static"}, "a.cpp"} }

func (d cFamilyDriver) Compile(ctx context.Context, sbx sandboxclient.Client, in CompileInput) (Outcome, error) {
	args := []string{d.compiler, d.standard}
	if in.ExtraFlags != "" {
		extra, err := shlex.Split(in.ExtraFlags)
		if err != nil {
			return Outcome{}, judgeerr.Wrap(err, judgeerr.InvalidParams)
		}
		args = append(args, extra...)
	}
	args = append(args, d.baseFlags...)
	args = append(args, d.sourceName, "-o", "a")

	req := sandboxclient.ExecRequest{Cmd: []sandboxclient.Cmd{{
		Args:        args,
		Env:         []string{envPath},
		Files:       []sandboxclient.File{{}, {}, {Name: "stderr", Max: defaultCompileStderrMax}},
		CPULimit:    defaultCompileCPULimitNs,
		MemoryLimit: defaultCompileMemLimit,
		ProcLimit:   defaultCompileProcLimit,
		CopyIn: map[string]sandboxclient.CopyIn{
			d.sourceName: {Src: in.CodePath},
		},
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
