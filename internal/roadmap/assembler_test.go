package roadmap

import (
	"testing"

	"github.com/kalambet/skillagent/internal/profile"
)

func titles(t *testing.T, steps []Step) []string {
	t.Helper()
	return Titles(steps)
}

func assertTitles(t *testing.T, got []Step, want []string) {
	t.Helper()
	g := titles(t, got)
	if len(g) != len(want) {
		t.Fatalf("titles = %q, want %q", g, want)
	}
	for i := range want {
		if g[i] != want[i] {
			t.Errorf("titles[%d] = %q, want %q", i, g[i], want[i])
		}
	}
}

func TestAssemble_SkillCoveredByBase(t *testing.T) {
	a := NewAssembler(DefaultTemplates())

	got := a.Assemble(profile.UserProfile{
		Track:     "Web Development",
		Skills:    []string{"React"},
		Interests: []string{"gaming"},
	})

	assertTitles(t, got, []string{
		"Learn HTML, CSS, JS",
		"Build a Portfolio Website",
		"Learn React",
		"Contribute to Open Source",
		"Explore gaming in Web Development",
	})
	if got[4].Type != KindProject {
		t.Errorf("interest step type = %q, want Project", got[4].Type)
	}
}

func TestAssemble_SkillsReversedAheadOfBase(t *testing.T) {
	a := NewAssembler(DefaultTemplates())

	got := a.Assemble(profile.UserProfile{
		Track:  "AI/ML",
		Skills: []string{"Docker", "Go"},
	})

	assertTitles(t, got, []string{
		"Advanced Go",
		"Advanced Docker",
		"Python Basics",
		"Intro to Machine Learning",
		"Kaggle Competition",
		"Deep Learning Specialization",
	})
	if got[0].Type != KindCourse {
		t.Errorf("skill step type = %q, want Course", got[0].Type)
	}
}

func TestAssemble_UnknownTrack(t *testing.T) {
	a := NewAssembler(DefaultTemplates())

	got := a.Assemble(profile.UserProfile{
		Track:     "Cooking",
		Skills:    []string{"Knife work"},
		Interests: []string{"baking"},
	})

	assertTitles(t, got, []string{"Advanced Knife work", "Explore baking in Cooking"})
}

func TestAssemble_EmptyProfile(t *testing.T) {
	a := NewAssembler(DefaultTemplates())
	if got := a.Assemble(profile.UserProfile{}); len(got) != 0 {
		t.Errorf("Assemble(empty) = %q", titles(t, got))
	}
}

func TestAssemble_CaseInsensitiveAndTrimmed(t *testing.T) {
	a := NewAssembler(DefaultTemplates())

	got := a.Assemble(profile.UserProfile{
		Track:  "Data Science",
		Skills: []string{" PANDAS ", "statistics"},
	})

	assertTitles(t, got, []string{
		"Python & Pandas",
		"Statistics Fundamentals",
		"Data Visualization Project",
		"Machine Learning Basics",
	})
}

func TestAssemble_SubstringMatch(t *testing.T) {
	a := NewAssembler(DefaultTemplates())

	// "css" appears in "Learn HTML, CSS, JS"; "java" appears in no title.
	got := a.Assemble(profile.UserProfile{
		Track:  "Web Development",
		Skills: []string{"CSS", "Java"},
	})
	if got[0].Step != "Advanced Java" {
		t.Errorf("first step = %q, want Advanced Java", got[0].Step)
	}
	if len(got) != 5 {
		t.Errorf("len = %d, want 5", len(got))
	}
}

func TestAssemble_NoDeduplication(t *testing.T) {
	a := NewAssembler(DefaultTemplates())

	got := a.Assemble(profile.UserProfile{
		Track:     "Blockchain",
		Skills:    []string{"Rust", "Rust"},
		Interests: []string{"DeFi", "DeFi"},
	})

	assertTitles(t, got, []string{
		"Advanced Rust",
		"Advanced Rust",
		"Solidity Basics",
		"Build an NFT Dapp",
		"Smart Contract Security",
		"Contribute to Web3 Project",
		"Explore DeFi in Blockchain",
		"Explore DeFi in Blockchain",
	})

	ids := map[string]int{}
	for i, s := range got {
		if prev, dup := ids[s.ID]; dup {
			t.Errorf("steps %d and %d share id %s", prev, i, s.ID)
		}
		ids[s.ID] = i
	}
	if got[0].ID != StepID("Advanced Rust") {
		t.Error("first occurrence should keep the title id")
	}
	if again := a.Assemble(profile.UserProfile{Track: "Blockchain", Skills: []string{"Rust", "Rust"}}); again[1].ID != got[1].ID {
		t.Error("repeat ids are not stable across runs")
	}
}

func TestAssemble_StepIDs(t *testing.T) {
	a := NewAssembler(DefaultTemplates())
	p := profile.UserProfile{Track: "Mobile Apps", Interests: []string{"games"}}

	first := a.Assemble(p)
	second := a.Assemble(p)

	seen := map[string]bool{}
	for i, s := range first {
		if s.ID == "" || s.ID == s.Step {
			t.Errorf("step %q has id %q", s.Step, s.ID)
		}
		if s.ID != second[i].ID {
			t.Errorf("id for %q not stable", s.Step)
		}
		if seen[s.ID] {
			t.Errorf("duplicate id %q", s.ID)
		}
		seen[s.ID] = true
		if s.Resources == nil {
			t.Errorf("step %q has nil resources", s.Step)
		}
	}
	if StepID("Build a Todo App") != first[1].ID {
		t.Error("StepID does not match assembled id")
	}
}
