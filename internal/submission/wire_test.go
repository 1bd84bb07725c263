package submission

import "testing"

func TestToSubmissionConvertsTimeLimitToNanoseconds(t *testing.T) {
	w := WireSubmission{
		ChalID:    42,
		Pri:       0,
		CompType:  "g++",
		CheckType: "diff",
		Test: [][]wireTestCase{
			{{In: "1.in", Ans: "1.out", TimeLimit: 1000, MemLimit: 262144}},
		},
	}

	sub, err := ToSubmission(w)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := sub.Test[0][0].TimeLimitNs; got != 1000*nsPerMs {
		t.Errorf("TimeLimitNs = %d, want %d", got, 1000*nsPerMs)
	}
}

func TestToSubmissionRejectsUnknownCompType(t *testing.T) {
	w := WireSubmission{ChalID: 1, CompType: "cobol", CheckType: "diff"}
	if _, err := ToSubmission(w); err == nil {
		t.Fatal("expected error for unsupported comp_type")
	}
}

func TestToSubmissionRejectsBadPriority(t *testing.T) {
	w := WireSubmission{ChalID: 1, Pri: 9, CompType: "gcc", CheckType: "diff"}
	if _, err := ToSubmission(w); err == nil {
		t.Fatal("expected error for priority out of range")
	}
}

func TestToWireResultsRoundTripsFields(t *testing.T) {
	results := []Result{{Status: 1, Time: 500, Memory: 1024, Verdict: "Task 1: Accepted"}}
	wire := ToWireResults(results)
	if len(wire) != 1 || wire[0].Status != 1 || wire[0].Verdict != "Task 1: Accepted" {
		t.Fatalf("unexpected wire result: %+v", wire)
	}
}
