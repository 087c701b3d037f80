package pipeline

import "testing"

func TestTopic(t *testing.T) {
	tests := map[string]string{
		"Learn HTML, CSS, JS":               "html",
		"Build a Portfolio Website":         "portfolio",
		"Intro to Machine Learning":         "machine",
		"Python & Pandas":                   "python",
		"Explore gaming in Web Development": "gaming",
		"Advanced Go":                       "Go",
		"Advanced C":                        "C",
		"Learn":                             "Learn",
		"Advanced  Go":                      "Advanced  Go",
		"Statistics Fundamentals":           "statistics",
		"Learn Dart & Flutter":              "dart",
		"":                                  "",
	}
	for title, want := range tests {
		if got := Topic(title); got != want {
			t.Errorf("Topic(%q) = %q, want %q", title, got, want)
		}
	}
}
