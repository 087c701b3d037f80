package skillclaim

import "testing"

func TestDetect(t *testing.T) {
	tests := []struct {
		name    string
		message string
		skill   string
		pct     int
		ok      bool
	}{
		{"react claim", "I know React at 80%", "react", 80, true},
		{"at threshold", "I know React at 30%", "", 0, false},
		{"just above", "python 31%", "python", 31, true},
		{"no percentage", "I am great at python", "", 0, false},
		{"no skill", "I am 90% sure", "", 0, false},
		{"table order wins", "React and JavaScript both 70%", "javascript", 70, true},
		{"substring match", "I write json configs 50%", "javascript", 50, true},
		{"first percentage used", "SQL 20% but git 90%", "", 0, false},
		{"multi-word synonym", "version control 60%", "git", 60, true},
		{"case insensitive", "HTML5 95%", "html", 95, true},
		{"clamped", "css 250%", "css", 100, true},
		{"huge number", "node 99999999999999999999999%", "node", 100, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Detect(tt.message)
			if ok != tt.ok {
				t.Fatalf("Detect(%q) ok = %v, want %v (claim %+v)", tt.message, ok, tt.ok, got)
			}
			if !ok {
				return
			}
			if got.Skill != tt.skill || got.Percentage != tt.pct {
				t.Errorf("Detect(%q) = %+v, want %s %d", tt.message, got, tt.skill, tt.pct)
			}
			if got.Message != tt.message {
				t.Errorf("Message = %q, want original text", got.Message)
			}
		})
	}
}

func TestSkills(t *testing.T) {
	got := Skills()
	want := []string{"javascript", "react", "python", "node", "sql", "html", "css", "git"}
	if len(got) != len(want) {
		t.Fatalf("Skills = %q", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Skills[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestMentions(t *testing.T) {
	text := `Experienced with Node.js, PostgreSQL and GitHub Actions.
Built dashboards in React; some Python scripting. Familiar with version control.`

	got := Mentions(text)
	want := []string{"react", "python", "node", "sql", "git"}
	if len(got) != len(want) {
		t.Fatalf("Mentions = %q, want %q", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Mentions[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestMentions_WholeWordsOnly(t *testing.T) {
	if got := Mentions("happy jsonic reactor"); len(got) != 0 {
		t.Errorf("Mentions = %q, want none", got)
	}
}
