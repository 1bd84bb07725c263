package submission

import "judgecore/internal/judgeerr"

// wireTestCase mirrors the inbound JSON shape from spec.md §6, where
// timelimit arrives in milliseconds.
type wireTestCase struct {
	In        string `json:"in"`
	Ans       string `json:"ans"`
	TimeLimit int64  `json:"timelimit"`
	MemLimit  int64  `json:"memlimit"`
}

// WireSubmission is the inbound JSON frame decoded by the message endpoint.
type WireSubmission struct {
	ChalID    int64            `json:"chal_id"`
	Pri       int              `json:"pri"`
	CodePath  string           `json:"code_path"`
	ResPath   string           `json:"res_path"`
	CompType  string           `json:"comp_type"`
	CheckType string           `json:"check_type"`
	Test      [][]wireTestCase `json:"test"`
	Metadata  Metadata         `json:"metadata"`
	// ExtraFlags is an optional, problem-supplied extra-compiler-flags
	// string passed through verbatim to the c-family compiler drivers.
	ExtraFlags string `json:"extra_flags,omitempty"`
}

// WireResult is one entry of the outbound results array.
type WireResult struct {
	Status  int    `json:"status"`
	Time    int64  `json:"time"`
	Memory  int64  `json:"memory"`
	Verdict string `json:"verdict"`
}

// WireResponse is the outbound JSON frame written back over the channel.
type WireResponse struct {
	ChalID  int64        `json:"chal_id"`
	Results []WireResult `json:"results"`
}

const nsPerMs = 1_000_000

var supportedCompTypes = map[string]CompType{
	string(CompGCC): CompGCC, string(CompGPP): CompGPP,
	string(CompClang): CompClang, string(CompClangPP): CompClangPP,
	string(CompMakefile): CompMakefile, string(CompPython3): CompPython3,
	string(CompRustc): CompRustc, string(CompJava): CompJava,
}

var supportedCheckTypes = map[string]CheckType{
	string(CheckDiff): CheckDiff, string(CheckDiffStrict): CheckDiffStrict,
	string(CheckIoredir): CheckIoredir, string(CheckCms): CheckCms,
}

// ToSubmission validates and converts a decoded wire frame into a Submission,
// converting millisecond time limits to nanoseconds per spec.md §6.
func ToSubmission(w WireSubmission) (Submission, error) {
	if w.ChalID <= 0 {
		return Submission{}, judgeerr.ValidationError("chal_id", "required")
	}
	pri := Priority(w.Pri)
	if !pri.Valid() {
		return Submission{}, judgeerr.Newf(judgeerr.InvalidParams, "priority out of range: %d", w.Pri)
	}
	comp, ok := supportedCompTypes[w.CompType]
	if !ok {
		return Submission{}, judgeerr.Newf(judgeerr.DispatchReject, "unsupported comp_type: %s", w.CompType)
	}
	check, ok := supportedCheckTypes[w.CheckType]
	if !ok {
		return Submission{}, judgeerr.Newf(judgeerr.DispatchReject, "unsupported check_type: %s", w.CheckType)
	}

	groups := make([]TestGroup, 0, len(w.Test))
	for _, wg := range w.Test {
		group := make(TestGroup, 0, len(wg))
		for _, wc := range wg {
			group = append(group, TestCase{
				InPath:        wc.In,
				AnsPath:       wc.Ans,
				TimeLimitNs:   wc.TimeLimit * nsPerMs,
				MemLimitBytes: wc.MemLimit,
			})
		}
		groups = append(groups, group)
	}

	return Submission{
		ChalID:     w.ChalID,
		Pri:        pri,
		CodePath:   w.CodePath,
		ResPath:    w.ResPath,
		CompType:   comp,
		CheckType:  check,
		Test:       groups,
		Metadata:   w.Metadata,
		ExtraFlags: w.ExtraFlags,
	}, nil
}

// ToWireResults converts the internal Result vector to its wire shape.
func ToWireResults(results []Result) []WireResult {
	out := make([]WireResult, len(results))
	for i, r := range results {
		out[i] = WireResult{Status: int(r.Status), Time: r.Time, Memory: r.Memory, Verdict: r.Verdict}
	}
	return out
}
