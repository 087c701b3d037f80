// Package skillclaim recognises self-reported skill percentages in chat
// messages ("I know React 80%") and holds the assessment question bank
// used to verify them.
package skillclaim

import (
	"regexp"
	"strconv"
	"strings"
)

// Threshold is the percentage a claim has to exceed.
const Threshold = 30

// SkillClaim is a detected proficiency claim.
type SkillClaim struct {
	Skill      string `json:"skill"`
	Percentage int    `json:"percentage"`
	Message    string `json:"message"`
}

type entry struct {
	skill    string
	synonyms []string
}

// table is ordered: the first entry with a qualifying match wins.
var table = []entry{
	{"javascript", []string{"javascript", "js", "ecmascript"}},
	{"react", []string{"react", "reactjs", "react.js"}},
	{"python", []string{"python", "py"}},
	{"node", []string{"node", "nodejs", "node.js"}},
	{"sql", []string{"sql", "database", "mysql", "postgresql"}},
	{"html", []string{"html", "html5"}},
	{"css", []string{"css", "css3", "styling"}},
	{"git", []string{"git", "github", "version control"}},
}

var percentRe = regexp.MustCompile(`(\d+)%`)

// Detect returns the first skill claim in message. Synonyms match as plain
// substrings of the lower-cased message, so "js" also matches inside
// "json". The percentage is the first "<digits>%" anywhere in the message,
// whichever skill it sits next to.
func Detect(message string) (SkillClaim, bool) {
	lower := strings.ToLower(message)

	m := percentRe.FindStringSubmatch(lower)
	if m == nil {
		return SkillClaim{}, false
	}
	pct, err := strconv.Atoi(m[1])
	if err != nil {
		// Too many digits for an int; clearly above the threshold.
		pct = 100
	}
	if pct <= Threshold {
		return SkillClaim{}, false
	}
	if pct > 100 {
		pct = 100
	}

	for _, e := range table {
		for _, syn := range e.synonyms {
			if strings.Contains(lower, syn) {
				return SkillClaim{Skill: e.skill, Percentage: pct, Message: message}, true
			}
		}
	}
	return SkillClaim{}, false
}

// Skills lists the canonical skill names in table order.
func Skills() []string {
	out := make([]string, len(table))
	for i, e := range table {
		out[i] = e.skill
	}
	return out
}

var wordRe = regexp.MustCompile(`[a-z0-9.#+]+`)

// Mentions returns canonical skills whose synonyms appear as whole words
// in text, in table order. Multi-word synonyms match as phrases. Unlike
// Detect this is used on free text such as résumés, where substring
// matching would be too noisy.
func Mentions(text string) []string {
	lower := strings.ToLower(text)
	words := make(map[string]bool)
	for _, w := range wordRe.FindAllString(lower, -1) {
		words[strings.Trim(w, ".")] = true
	}

	var out []string
	for _, e := range table {
		for _, syn := range e.synonyms {
			hit := false
			if strings.Contains(syn, " ") {
				hit = strings.Contains(lower, syn)
			} else {
				hit = words[syn]
			}
			if hit {
				out = append(out, e.skill)
				break
			}
		}
	}
	return out
}
