// Package judgedriver orchestrates one submission end to end: compile,
// optional checker compile, parallel per-group test evaluation, and verdict
// aggregation.
package judgedriver

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"judgecore/internal/checker"
	"judgecore/internal/compiledrv"
	"judgecore/internal/judgeerr"
	"judgecore/internal/judgelog"
	"judgecore/internal/sandboxclient"
	"judgecore/internal/submission"
	"judgecore/internal/testrunner"
	"judgecore/internal/verdict"
)

// Driver judges one submission against its registry of compiler drivers.
type Driver struct {
	Sandbox  sandboxclient.Client
	Registry compiledrv.Registry
}

func needsChecker(checkType submission.CheckType) bool {
	return checkType == submission.CheckIoredir || checkType == submission.CheckCms
}

// Judge runs the full pipeline for sub and returns one Result per TestGroup.
func (d Driver) Judge(ctx context.Context, sub submission.Submission) ([]submission.Result, error) {
	ctx = judgelog.WithChalID(ctx, sub.ChalID)
	ctx = judgelog.WithRunID(ctx, uuid.NewString())
	results := submission.NewResults(sub)

	judgelog.Info(ctx, "submission started")

	compileDriver, ok := d.Registry.Lookup(sub.CompType)
	if !ok {
		return nil, judgeerr.Newf(judgeerr.DispatchReject, "unsupported comp_type: %s", sub.CompType)
	}

	compiled, err := compileDriver.Compile(ctx, d.Sandbox, compiledrv.CompileInput{
		CodePath:   sub.CodePath,
		ResPath:    sub.ResPath,
		ExtraFlags: sub.ExtraFlags,
	})
	if err != nil {
		return nil, judgeerr.Wrap(err, judgeerr.CompileFailure)
	}
	if compiled.Verdict != verdict.Accepted {
		for i := range results {
			results[i].Status = compiled.Verdict
			results[i].Verdict = compiled.Diagnostic
			results[i].Time = compiled.Time
			results[i].Memory = compiled.Memory
		}
		return results, nil
	}

	var checkerArtifact string
	if needsChecker(sub.CheckType) {
		checkOut, err := checker.Compile(ctx, d.Sandbox, sub.ResPath)
		if err != nil {
			if delErr := d.Sandbox.FileDelete(ctx, compiled.ArtifactID); delErr != nil {
				judgelog.Warn(ctx, "delete cached program file failed", zap.Error(delErr))
			}
			return nil, judgeerr.Wrap(err, judgeerr.CheckerFailure)
		}
		if checkOut.Verdict != verdict.Accepted {
			judgelog.Warn(ctx, "checker compile failed")
			for i := range results {
				results[i].Status = verdict.InternalError
			}
			if checkOut.ArtifactID != "" {
				if err := d.Sandbox.FileDelete(ctx, checkOut.ArtifactID); err != nil {
					judgelog.Warn(ctx, "delete cached checker file failed", zap.Error(err))
				}
			}
			if err := d.Sandbox.FileDelete(ctx, compiled.ArtifactID); err != nil {
				judgelog.Warn(ctx, "delete cached program file failed", zap.Error(err))
			}
			return results, nil
		}
		checkerArtifact = checkOut.ArtifactID
	}

	judgelog.Info(ctx, "submission compiled")

	var wg sync.WaitGroup
	for i, group := range sub.Test {
		wg.Add(1)
		go func(i int, group submission.TestGroup) {
			defer wg.Done()
			gctx := judgelog.WithGroupIndex(ctx, i)
			testrunner.RunGroup(gctx, d.Sandbox, sub.CheckType, sub.CompType, compiled.MainClass,
				compiled.ArtifactID, checkerArtifact, sub.Metadata, group, &results[i])
		}(i, group)
	}
	wg.Wait()

	if checkerArtifact != "" {
		if err := d.Sandbox.FileDelete(ctx, checkerArtifact); err != nil {
			judgelog.Warn(ctx, "delete cached checker file failed", zap.Error(err))
		}
	}
	if err := d.Sandbox.FileDelete(ctx, compiled.ArtifactID); err != nil {
		judgelog.Warn(ctx, "delete cached program file failed", zap.Error(err))
	}

	aggregateVerdicts(results)

	judgelog.Info(ctx, "submission done")
	return results, nil
}

// aggregateVerdicts composes the "Task N: verdict" summary lines and backs
// any still-unset status with InternalError.
func aggregateVerdicts(results []submission.Result) {
	var lines []string
	for i, r := range results {
		if r.Verdict != "" {
			lines = append(lines, fmt.Sprintf("Task %d: %s", i+1, r.Verdict))
		}
	}
	summary := strings.Join(lines, "\n")
	for i := range results {
		if results[i].Status == verdict.None {
			results[i].Status = verdict.InternalError
		}
		results[i].Verdict = summary
	}
}
