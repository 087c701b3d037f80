package resources

import (
	"context"
	"net/url"
	"strings"
)

// escape percent-encodes a query component the way browsers'
// encodeURIComponent does for the characters that matter here.
func escape(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

// slug is the lower-cased topic used in path segments, with spaces
// hyphenated.
func slug(topic string) string {
	return url.PathEscape(strings.Join(strings.Fields(strings.ToLower(topic)), "-"))
}

type platform struct {
	name string
	link func(topic string) string
}

var coursePlatforms = []platform{
	{"freeCodeCamp", func(t string) string { return "https://www.freecodecamp.org/learn/" + slug(t) + "/" }},
	{"Coursera", func(t string) string { return "https://www.coursera.org/search?query=" + escape(t) }},
	{"Udemy", func(t string) string { return "https://www.udemy.com/courses/search/?q=" + escape(t) }},
	{"edX", func(t string) string { return "https://www.edx.org/search?q=" + escape(t) }},
}

var practicePlatforms = []platform{
	{"HackerRank", func(t string) string { return "https://www.hackerrank.com/domains/" + slug(t) }},
	{"LeetCode", func(t string) string { return "https://leetcode.com/problemset/all/?search=" + escape(t) }},
	{"freeCodeCamp", func(t string) string { return "https://www.freecodecamp.org/learn/" + slug(t) + "/" }},
	{"CodeWars", func(t string) string { return "https://www.codewars.com/kata/search/" + escape(t) }},
}

var projectPlatforms = []platform{
	{"GitHub Topics", func(t string) string { return "https://github.com/topics/" + slug(t) }},
	{"GitHub Search", func(t string) string {
		return "https://github.com/search?q=" + escape(t+" project") + "&type=repositories"
	}},
	{"Dev.to", func(t string) string { return "https://dev.to/search?q=" + escape(t+" project ideas") }},
}

var jobPlatforms = []platform{
	{"LinkedIn", func(t string) string {
		return "https://www.linkedin.com/jobs/search/?keywords=" + escape(t+" developer")
	}},
	{"Indeed", func(t string) string { return "https://www.indeed.com/jobs?q=" + escape(t+" developer") }},
	{"Glassdoor", func(t string) string {
		return "https://www.glassdoor.com/Job/jobs.htm?sc.keyword=" + escape(t+" developer")
	}},
	{"AngelList", func(t string) string { return "https://angel.co/jobs?keywords=" + escape(t+" developer") }},
}

var internshipPlatforms = []platform{
	{"Internshala", func(t string) string { return "https://internshala.com/internships/" + slug(t) + "-internship" }},
	{"LinkedIn", func(t string) string {
		return "https://www.linkedin.com/jobs/search/?keywords=" + escape(t+" internship") + "&f_E=1"
	}},
	{"Indeed", func(t string) string {
		return "https://www.indeed.com/jobs?q=" + escape(t+" internship") + "&jt=internship"
	}},
}

// LinkSource builds a category from a fixed platform table. It never
// contacts the platforms.
type LinkSource struct {
	category  Category
	platforms []platform
	build     func(p platform, topic, level string) Resource
}

func (s *LinkSource) Category() Category { return s.category }

func (s *LinkSource) Search(_ context.Context, topic, level string) ([]Resource, error) {
	out := make([]Resource, 0, len(s.platforms))
	for _, p := range s.platforms {
		out = append(out, s.build(p, topic, level))
	}
	return out, nil
}

// NewCourseSource returns the course directory.
func NewCourseSource() *LinkSource {
	return &LinkSource{
		category:  Courses,
		platforms: coursePlatforms,
		build: func(p platform, topic, _ string) Resource {
			price := "Varies"
			if p.name == "freeCodeCamp" {
				price = "Free"
			}
			return Resource{
				Title:      topic + " Course on " + p.name,
				URL:        p.link(topic),
				Platform:   p.name,
				Instructor: "Various Instructors",
				Rating:     4.5,
				Students:   "100K+",
				Price:      price,
				Duration:   "Varies",
				SkillLevel: "All Levels",
			}
		},
	}
}

// NewPracticeSource returns the practice platform directory.
func NewPracticeSource() *LinkSource {
	return &LinkSource{
		category:  Practice,
		platforms: practicePlatforms,
		build: func(p platform, topic, _ string) Resource {
			return Resource{
				Title:      topic + " Practice on " + p.name,
				URL:        p.link(topic),
				Platform:   p.name,
				Difficulty: "All Levels",
				Problems:   "Varies",
			}
		},
	}
}

// NewProjectSource returns the project idea directory.
func NewProjectSource() *LinkSource {
	return &LinkSource{
		category:  Projects,
		platforms: projectPlatforms,
		build: func(p platform, topic, level string) Resource {
			return Resource{
				Title:         topic + " Projects on " + p.name,
				URL:           p.link(topic),
				Platform:      p.name,
				Description:   "Find " + topic + " project ideas and examples",
				Difficulty:    level,
				EstimatedTime: "1-4 weeks",
				Technologies:  []string{topic},
			}
		},
	}
}

// NewJobSource returns the job board directory.
func NewJobSource() *LinkSource {
	return &LinkSource{
		category:  Jobs,
		platforms: jobPlatforms,
		build: func(p platform, topic, _ string) Resource {
			return Resource{
				Title:       topic + " Developer Jobs",
				URL:         p.link(topic),
				Platform:    p.name,
				Company:     "Search on " + p.name,
				Location:    "remote",
				Type:        "Full-time/Contract",
				Experience:  "entry",
				Salary:      "Competitive",
				Description: "Find " + topic + " developer opportunities on " + p.name,
				Posted:      "Recently",
			}
		},
	}
}

// NewInternshipSource returns the internship board directory.
func NewInternshipSource() *LinkSource {
	return &LinkSource{
		category:  Internships,
		platforms: internshipPlatforms,
		build: func(p platform, topic, _ string) Resource {
			return Resource{
				Title:       topic + " Internship",
				URL:         p.link(topic),
				Platform:    p.name,
				Company:     "Search on " + p.name,
				Location:    "Multiple Locations",
				Duration:    "3-6 months",
				Stipend:     "Competitive",
				Description: "Find " + topic + " internship opportunities on " + p.name,
				Deadline:    "Rolling",
			}
		},
	}
}
