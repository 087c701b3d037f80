package skillclaim

import (
	"maps"
	"slices"
)

// Question is one multiple-choice assessment question. Correct indexes
// Options.
type Question struct {
	Question    string   `json:"question"`
	Options     []string `json:"options"`
	Correct     int      `json:"correct"`
	Explanation string   `json:"explanation"`
}

var questionBank = map[string][]Question{
	"javascript": {
		{
			Question: "What is the difference between '==' and '===' in JavaScript?",
			Options: []string{
				"They are identical",
				"== checks value and type, === checks only value",
				"=== checks value and type, == checks only value",
				"== is deprecated, === is the modern way",
			},
			Correct:     2,
			Explanation: "=== (strict equality) checks both value and type, while == (loose equality) performs type coercion before comparison.",
		},
		{
			Question:    "What will console.log(typeof null) output?",
			Options:     []string{"null", "undefined", "object", "number"},
			Correct:     2,
			Explanation: "This is a known JavaScript quirk: typeof null returns 'object' because of a bug in the first JavaScript engine.",
		},
		{
			Question: "What is closure in JavaScript?",
			Options: []string{
				"A way to close browser tabs",
				"A function that has access to variables in its outer scope",
				"A method to close database connections",
				"A way to end loops",
			},
			Correct:     1,
			Explanation: "A closure is a function that retains access to variables from its outer scope even after the outer function has returned.",
		},
	},
	"react": {
		{
			Question: "What is the purpose of the 'key' prop in React lists?",
			Options: []string{
				"To make items clickable",
				"To help React identify which items have changed",
				"To style list items",
				"To add animations",
			},
			Correct:     1,
			Explanation: "The key prop helps React efficiently update the DOM by identifying which items have changed, been added, or been removed.",
		},
		{
			Question: "What is the difference between state and props in React?",
			Options: []string{
				"There is no difference",
				"Props are internal, state is external",
				"State is internal and mutable, props are external and immutable",
				"Props are for styling, state is for data",
			},
			Correct:     2,
			Explanation: "State is internal component data that can change, while props are external data passed down from parent components and are immutable.",
		},
		{
			Question:    "What hook would you use to perform side effects in functional components?",
			Options:     []string{"useState", "useEffect", "useContext", "useReducer"},
			Correct:     1,
			Explanation: "useEffect is the hook used to perform side effects like data fetching, subscriptions, or manually changing the DOM.",
		},
	},
	"python": {
		{
			Question: "What is the difference between a list and a tuple in Python?",
			Options: []string{
				"Lists are faster than tuples",
				"Tuples are mutable, lists are immutable",
				"Lists are mutable, tuples are immutable",
				"There is no difference",
			},
			Correct:     2,
			Explanation: "Lists are mutable (can be changed after creation), while tuples are immutable (cannot be changed after creation).",
		},
		{
			Question: "What does the 'self' parameter represent in Python class methods?",
			Options: []string{
				"The class itself",
				"The instance of the class",
				"A reserved keyword",
				"The parent class",
			},
			Correct:     1,
			Explanation: "self represents the instance of the class and is used to access instance variables and methods.",
		},
		{
			Question: "What is a decorator in Python?",
			Options: []string{
				"A way to style code",
				"A function that modifies another function",
				"A type of comment",
				"A way to import modules",
			},
			Correct:     1,
			Explanation: "A decorator is a function that takes another function as input and extends its behavior without explicitly modifying it.",
		},
	},
}

// Questions returns the assessment for skill, or nil when the bank has
// none.
func Questions(skill string) []Question {
	qs, ok := questionBank[skill]
	if !ok {
		return nil
	}
	out := make([]Question, len(qs))
	for i, q := range qs {
		q.Options = append([]string(nil), q.Options...)
		out[i] = q
	}
	return out
}

// Score counts correct answers. answers[i] is the chosen option for
// question i; missing answers count as wrong.
func Score(qs []Question, answers []int) int {
	n := 0
	for i, q := range qs {
		if i < len(answers) && answers[i] == q.Correct {
			n++
		}
	}
	return n
}

// AssessedSkills lists the skills that have a question bank, sorted.
func AssessedSkills() []string {
	return slices.Sorted(maps.Keys(questionBank))
}
