package skillclaim

import "testing"

func TestQuestions(t *testing.T) {
	for _, skill := range []string{"javascript", "react", "python"} {
		qs := Questions(skill)
		if len(qs) != 3 {
			t.Errorf("%s: %d questions, want 3", skill, len(qs))
		}
		for _, q := range qs {
			if q.Correct < 0 || q.Correct >= len(q.Options) {
				t.Errorf("%s: correct index %d out of range for %q", skill, q.Correct, q.Question)
			}
		}
	}
	if qs := Questions("git"); qs != nil {
		t.Errorf("Questions(git) = %v, want nil", qs)
	}
}

func TestQuestionsReturnsCopy(t *testing.T) {
	qs := Questions("react")
	qs[0].Options[0] = "changed"
	if Questions("react")[0].Options[0] != "To make items clickable" {
		t.Error("question bank mutated through returned slice")
	}
}

func TestScore(t *testing.T) {
	qs := Questions("python")
	if got := Score(qs, []int{2, 1, 1}); got != 3 {
		t.Errorf("Score(all right) = %d, want 3", got)
	}
	if got := Score(qs, []int{0, 1}); got != 1 {
		t.Errorf("Score(partial) = %d, want 1", got)
	}
	if got := Score(qs, nil); got != 0 {
		t.Errorf("Score(nil) = %d, want 0", got)
	}
}

func TestAssessedSkills(t *testing.T) {
	got := AssessedSkills()
	want := []string{"javascript", "python", "react"}
	if len(got) != len(want) {
		t.Fatalf("AssessedSkills() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("AssessedSkills()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
