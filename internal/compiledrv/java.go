package compiledrv

import (
	"context"
	"os"
	"regexp"
	"strings"

	"judgecore/internal/judgeerr"
	"judgecore/internal/sandboxclient"
	"judgecore/internal/verdict"
)

var (
	isClassNameInvalid = regexp.MustCompile("(^[0-9])|[`~!@#%^&*()+={}|'\"?/<>,.:;\\[\\]{}\\\\]")
	mainFuncPattern    = regexp.MustCompile(`\n\s*public static void main`)
	leadingIdentifier  = regexp.MustCompile(`\w*`)
)

// detectJavaMainClass finds the single class declaring
// `public static void main`, splitting the source on the literal "class "
// the same way the source judge did. It is deliberately not a real parser:
// a class name mentioned in a comment or string literal before the main
// method can still produce a false split, and more than one match is
// treated as ambiguous rather than disambiguated.
func detectJavaMainClass(source string) string {
	mainClass := ""
	matches := 0
	for _, part := range strings.Split(source, "class ") {
		if !mainFuncPattern.MatchString(part) {
			continue
		}
		name := leadingIdentifier.FindString(part)
		if !isClassNameInvalid.MatchString(name) {
			mainClass = name
			matches++
		}
	}
	if matches == 1 {
		return mainClass
	}
	return ""
}

type javaDriver struct{}

func newJava() Driver { return javaDriver{} }

func (javaDriver) Compile(ctx context.Context, sbx sandboxclient.Client, in CompileInput) (Outcome, error) {
	source, err := os.ReadFile(in.CodePath)
	if err != nil {
		return Outcome{}, judgeerr.Wrapf(err, judgeerr.InternalServerError, "read java source: %s", in.CodePath)
	}
	mainClass := detectJavaMainClass(string(source))
	if mainClass == "" {
		return Outcome{
			Verdict:    verdict.CompileError,
			Diagnostic: "main class not found, class name invalid, or more than one main function",
		}, nil
	}

	srcName := mainClass + ".java"
	classFile := mainClass + ".class"
	req := sandboxclient.ExecRequest{Cmd: []sandboxclient.Cmd{{
		Args:          []string{"/usr/bin/javac", srcName},
		Env:           []string{envPath, "JAVA_HOME=/lib/jvm/java-17-openjdk-amd64"},
		Files:         []sandboxclient.File{{}, {Name: "stdout", Max: 10240}, {Name: "stderr", Max: 10240}},
		CPULimit:      defaultCompileCPULimitNs,
		MemoryLimit:   2_147_483_647,
		ProcLimit:     25,
		CopyIn:        map[string]sandboxclient.CopyIn{srcName: {Src: in.CodePath}},
		CopyOut:       []string{"stdout"},
		CopyOutCached: []string{classFile},
		CopyOutMax:    defaultCompileOutputMaxLen,
	}}}

	resp, err := sbx.Exec(ctx, req)
	if err != nil {
		return Outcome{}, judgeerr.Wrap(err, judgeerr.SandboxFailure)
	}
	if len(resp.Results) == 0 {
		return Outcome{Verdict: verdict.InternalError}, nil
	}
	res := resp.Results[0]
	// javac's diagnostics can land on stdout; the original folds it into
	// stderr so compile_update_result's stderr-only read still sees it.
	if res.Files["stderr"] == "" && res.Files["stdout"] != "" {
		if res.Files == nil {
			res.Files = map[string]string{}
		}
		res.Files["stderr"] = res.Files["stdout"]
	}
	out := resolveOutcome(res, classFile)
	out.MainClass = mainClass
	return out, nil
}
