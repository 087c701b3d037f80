package resources

// Category names one of the six resource lists.
type Category string

const (
	Tutorials   Category = "tutorials"
	Courses     Category = "courses"
	Practice    Category = "practice"
	Projects    Category = "projects"
	Jobs        Category = "jobs"
	Internships Category = "internships"
)

// AllCategories lists categories in response order.
var AllCategories = []Category{Tutorials, Courses, Practice, Projects, Jobs, Internships}

// Resource is a link to a learning or career resource. Only Title and URL
// are always set; the rest depends on the category.
type Resource struct {
	Title       string `json:"title"`
	URL         string `json:"url"`
	Platform    string `json:"platform,omitempty"`
	Description string `json:"description,omitempty"`

	// Tutorials.
	Thumbnail string `json:"thumbnail,omitempty"`
	Channel   string `json:"channel,omitempty"`

	// Type is "video", "playlist" or "search" for tutorials and the
	// employment type for jobs.
	Type       string `json:"type,omitempty"`
	Duration   string `json:"duration,omitempty"`
	SkillLevel string `json:"skillLevel,omitempty"`

	// Courses.
	Instructor string  `json:"instructor,omitempty"`
	Rating     float64 `json:"rating,omitempty"`
	Students   string  `json:"students,omitempty"`
	Price      string  `json:"price,omitempty"`

	// Practice and projects.
	Difficulty    string   `json:"difficulty,omitempty"`
	Problems      string   `json:"problems,omitempty"`
	EstimatedTime string   `json:"estimatedTime,omitempty"`
	Technologies  []string `json:"technologies,omitempty"`

	// Jobs and internships.
	Company    string `json:"company,omitempty"`
	Location   string `json:"location,omitempty"`
	Experience string `json:"experience,omitempty"`
	Salary     string `json:"salary,omitempty"`
	Stipend    string `json:"stipend,omitempty"`
	Posted     string `json:"posted,omitempty"`
	Deadline   string `json:"deadline,omitempty"`
}

// Categories holds one list per category. Lists are never nil.
type Categories struct {
	Tutorials   []Resource `json:"tutorials"`
	Courses     []Resource `json:"courses"`
	Practice    []Resource `json:"practice"`
	Projects    []Resource `json:"projects"`
	Jobs        []Resource `json:"jobs"`
	Internships []Resource `json:"internships"`
}

func emptyCategories() Categories {
	return Categories{
		Tutorials:   []Resource{},
		Courses:     []Resource{},
		Practice:    []Resource{},
		Projects:    []Resource{},
		Jobs:        []Resource{},
		Internships: []Resource{},
	}
}

func (c *Categories) set(cat Category, list []Resource) {
	if list == nil {
		list = []Resource{}
	}
	switch cat {
	case Tutorials:
		c.Tutorials = list
	case Courses:
		c.Courses = list
	case Practice:
		c.Practice = list
	case Projects:
		c.Projects = list
	case Jobs:
		c.Jobs = list
	case Internships:
		c.Internships = list
	}
}

// Get returns the list for cat.
func (c Categories) Get(cat Category) []Resource {
	switch cat {
	case Tutorials:
		return c.Tutorials
	case Courses:
		return c.Courses
	case Practice:
		return c.Practice
	case Projects:
		return c.Projects
	case Jobs:
		return c.Jobs
	case Internships:
		return c.Internships
	}
	return nil
}

// ResourceSet is the resolver's answer for one topic.
type ResourceSet struct {
	Topic      string     `json:"topic"`
	SkillLevel string     `json:"skillLevel"`
	Timestamp  string     `json:"timestamp"`
	Error      string     `json:"error,omitempty"`
	Resources  Categories `json:"resources"`
}
