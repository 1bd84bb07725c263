package testrunner

import (
	"context"

	"go.uber.org/zap"

	"judgecore/internal/judgelog"
	"judgecore/internal/sandboxclient"
	"judgecore/internal/submission"
	"judgecore/internal/verdict"
)

const unwiredFD = -1

// buildRedirFiles lays out the program's three standard fd slots, wiring in
// the input file at whichever fd the redirect table names and leaving the
// pipe-facing fds as nil placeholders for the sandbox to fill via pipeMapping.
// withStdout captures fd 1 unless the redirect table already claims it for a
// pipe (the pipe wiring always takes priority over a plain capture).
func buildRedirFiles(table *submission.RedirTable, inPath string, withStdout, withStderr bool) []sandboxclient.File {
	slots := make(map[int]*sandboxclient.File)
	if withStderr {
		slots[2] = &sandboxclient.File{Name: "stderr", Max: stderrMax}
	}
	if table != nil {
		slots[table.TestOut] = nil
		slots[table.PipeIn] = nil
		slots[table.PipeOut] = nil
		slots[table.TestIn] = &sandboxclient.File{Src: inPath}
	}
	if withStdout {
		if _, claimed := slots[1]; !claimed {
			slots[1] = &sandboxclient.File{Name: "stdout", Max: stderrMax}
		}
	}
	delete(slots, unwiredFD)

	maxFD := 2
	for fd := range slots {
		if fd > maxFD {
			maxFD = fd
		}
	}
	files := make([]sandboxclient.File, maxFD+1)
	for fd, f := range slots {
		if f != nil {
			files[fd] = *f
		}
	}
	return files
}

// runIoredir launches the user program and checker concurrently, wired by
// the problem's redirect tables, and treats the checker's pipe being torn
// down underneath it (SIGPIPE) as a checker failure rather than blaming the
// contestant's program.
func runIoredir(ctx context.Context, sbx sandboxclient.Client, args []string, copyInName, artifactID, checkerArtifactID string, metadata submission.Metadata, tc submission.TestCase, result *submission.Result) (verdict.Verdict, string) {
	testTable := metadata.RedirTest
	checkTable := metadata.RedirCheck

	testFiles := buildRedirFiles(testTable, tc.InPath, false, true)
	checkFiles := buildRedirFiles(checkTable, tc.InPath, true, true)
	if checkTable != nil && checkTable.AnswerIn != unwiredFD && checkTable.AnswerIn < len(checkFiles) {
		checkFiles[checkTable.AnswerIn] = sandboxclient.File{Src: tc.AnsPath}
	}

	pipeMappings := []sandboxclient.PipeMap{{
		In:    sandboxclient.PipeFD{Index: 0, FD: testTable.PipeOut},
		Out:   sandboxclient.PipeFD{Index: 1, FD: checkTable.PipeOut},
		Proxy: true,
	}}
	if testTable.PipeIn != unwiredFD && checkTable.PipeIn != unwiredFD {
		pipeMappings = append(pipeMappings, sandboxclient.PipeMap{
			In:  sandboxclient.PipeFD{Index: 1, FD: checkTable.PipeIn},
			Out: sandboxclient.PipeFD{Index: 0, FD: testTable.PipeIn},
		})
	}

	req := sandboxclient.ExecRequest{
		Cmd: []sandboxclient.Cmd{
			{
				Args:              args,
				Env:               []string{"PATH=/usr/bin:/bin"},
				Files:             testFiles,
				CPULimit:          tc.TimeLimitNs,
				MemoryLimit:       tc.MemLimitBytes,
				StackLimit:        runStackLimit,
				ProcLimit:         runProcLimit,
				CPURateLimit:      runCPURateLimit,
				StrictMemoryLimit: false,
				CopyIn:            map[string]sandboxclient.CopyIn{copyInName: {FileID: artifactID}},
			},
			{
				Args:              []string{"check"},
				Env:               []string{"PATH=/usr/bin:/bin"},
				Files:             checkFiles,
				CPULimit:          tc.TimeLimitNs,
				MemoryLimit:       536_870_912,
				ProcLimit:         10,
				StrictMemoryLimit: false,
				CopyIn:            map[string]sandboxclient.CopyIn{"check": {FileID: checkerArtifactID}},
			},
		},
		PipeMapping: pipeMappings,
	}

	resp, err := sbx.Exec(ctx, req)
	if err != nil {
		judgelog.Error(ctx, "sandbox exec failed during ioredir run", zap.Error(err))
		return verdict.InternalError, ""
	}
	if len(resp.Results) < 2 {
		judgelog.Error(ctx, "sandbox returned too few results during ioredir run")
		return verdict.InternalError, ""
	}
	res := resp.Results[0]
	checkRes := resp.Results[1]
	applyTiming(result, res)

	if res.Status == sandboxclient.StatusSignalled && res.ExitStatus == sigPipe {
		return verdict.SpecialJudgeError, ""
	}

	if res.Status == sandboxclient.StatusAccepted {
		switch checkRes.Status {
		case sandboxclient.StatusAccepted:
			return verdict.Accepted, ""
		case sandboxclient.StatusNonzeroExitStatus:
			return verdict.WrongAnswer, ""
		default:
			return verdict.SpecialJudgeError, ""
		}
	}
	return applyCaseVerdict(res)
}
