package profile

import "strings"

// UserProfile is the learner's self-description captured at onboarding.
// JSON names match the browser client so stored documents stay compatible.
type UserProfile struct {
	Name           string   `json:"name"`
	Track          string   `json:"track"`
	Skills         []string `json:"skills"`
	Interests      []string `json:"interests"`
	Goal           string   `json:"goal,omitempty"`
	Experience     string   `json:"experience,omitempty"`
	CurrentRole    string   `json:"currentRole,omitempty"`
	TargetRole     string   `json:"targetRole,omitempty"`
	TimeCommitment string   `json:"timeCommitment,omitempty"`

	// Populated by GitHub login.
	Email          string `json:"email,omitempty"`
	GitHubUsername string `json:"githubUsername,omitempty"`
	Avatar         string `json:"avatar,omitempty"`
	GitHubID       int64  `json:"githubId,omitempty"`
}

// Normalize trims whitespace and drops empty list entries. Lists are never
// nil afterwards.
func (p UserProfile) Normalize() UserProfile {
	p.Name = strings.TrimSpace(p.Name)
	p.Track = strings.TrimSpace(p.Track)
	p.Skills = cleanList(p.Skills)
	p.Interests = cleanList(p.Interests)
	return p
}

// SplitList splits a comma-separated onboarding field.
func SplitList(s string) []string {
	return cleanList(strings.Split(s, ","))
}

func cleanList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, v := range in {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// Context is a profile with every prompt-facing field filled in.
type Context struct {
	Name           string
	Interests      string
	Skills         string
	Goal           string
	Track          string
	Experience     string
	CurrentRole    string
	TargetRole     string
	TimeCommitment string
}

// Context returns the profile with defaults for unset fields.
func (p UserProfile) Context() Context {
	return Context{
		Name:           or(p.Name, "User"),
		Interests:      or(strings.Join(p.Interests, ", "), "Not specified"),
		Skills:         or(strings.Join(p.Skills, ", "), "Not specified"),
		Goal:           or(p.Goal, "Career growth"),
		Track:          or(p.Track, "General"),
		Experience:     or(p.Experience, "beginner"),
		CurrentRole:    or(p.CurrentRole, "Student"),
		TargetRole:     or(p.TargetRole, "Software Developer"),
		TimeCommitment: or(p.TimeCommitment, "10-15 hours/week"),
	}
}

// SkillLevel is the experience level used when searching for resources.
func (p UserProfile) SkillLevel() string {
	return or(strings.TrimSpace(p.Experience), "beginner")
}

// MergeSkills appends skills not already present (case-insensitive),
// keeping the existing order. It returns the skills actually added.
func (p *UserProfile) MergeSkills(skills []string) []string {
	seen := make(map[string]bool, len(p.Skills))
	for _, s := range p.Skills {
		seen[strings.ToLower(strings.TrimSpace(s))] = true
	}
	var added []string
	for _, s := range skills {
		k := strings.ToLower(strings.TrimSpace(s))
		if k == "" || seen[k] {
			continue
		}
		seen[k] = true
		p.Skills = append(p.Skills, s)
		added = append(added, s)
	}
	return added
}

func or(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
