package resources

// Role is a trending job title for a track.
type Role struct {
	Title     string `json:"title"`
	AvgSalary string `json:"avgSalary"`
	Openings  int    `json:"openings"`
}

// Insights summarises the job market for a career track.
type Insights struct {
	AverageSalary  string   `json:"averageSalary"`
	TopSkills      []string `json:"topSkills"`
	TrendingRoles  []Role   `json:"trendingRoles"`
	TopCompanies   []string `json:"topCompanies"`
	JobMarketTrend string   `json:"jobMarketTrend"`
}

// TrendingSkill is a skill with its market demand.
type TrendingSkill struct {
	Name   string `json:"name"`
	Demand string `json:"demand"`
	Growth string `json:"growth"`
}

var careerInsights = map[string]Insights{
	"Web Development": {
		AverageSalary: "$85,000",
		TopSkills:     []string{"React", "JavaScript", "CSS", "Node.js"},
		TrendingRoles: []Role{
			{Title: "Frontend Developer", AvgSalary: "$80,000", Openings: 1200},
			{Title: "Full Stack Developer", AvgSalary: "$95,000", Openings: 900},
			{Title: "UI Engineer", AvgSalary: "$88,000", Openings: 500},
		},
		TopCompanies:   []string{"Google", "Meta", "Amazon", "Shopify"},
		JobMarketTrend: "Growing rapidly, especially for React and full-stack roles.",
	},
	"AI/ML": {
		AverageSalary: "$120,000",
		TopSkills:     []string{"Python", "TensorFlow", "PyTorch", "Data Science"},
		TrendingRoles: []Role{
			{Title: "Machine Learning Engineer", AvgSalary: "$125,000", Openings: 700},
			{Title: "Data Scientist", AvgSalary: "$115,000", Openings: 800},
			{Title: "AI Researcher", AvgSalary: "$130,000", Openings: 300},
		},
		TopCompanies:   []string{"OpenAI", "Google", "Microsoft", "NVIDIA"},
		JobMarketTrend: "High demand for AI/ML skills, especially in cloud and research.",
	},
}

// CareerInsights returns market data for track. For tracks without data it
// returns a placeholder with ok=false.
func CareerInsights(track string) (Insights, bool) {
	in, ok := careerInsights[track]
	if !ok {
		return Insights{
			AverageSalary:  "N/A",
			TopSkills:      []string{},
			TrendingRoles:  []Role{},
			TopCompanies:   []string{},
			JobMarketTrend: "No data available.",
		}, false
	}
	in.TopSkills = append([]string(nil), in.TopSkills...)
	in.TrendingRoles = append([]Role(nil), in.TrendingRoles...)
	in.TopCompanies = append([]string(nil), in.TopCompanies...)
	return in, true
}

// TrendingSkills lists skills currently in demand.
func TrendingSkills() []TrendingSkill {
	return []TrendingSkill{
		{Name: "React", Demand: "High", Growth: "+15%"},
		{Name: "Python", Demand: "Very High", Growth: "+20%"},
		{Name: "JavaScript", Demand: "High", Growth: "+12%"},
		{Name: "Node.js", Demand: "High", Growth: "+18%"},
		{Name: "TypeScript", Demand: "Growing", Growth: "+25%"},
		{Name: "AWS", Demand: "Very High", Growth: "+22%"},
		{Name: "Docker", Demand: "High", Growth: "+16%"},
		{Name: "Kubernetes", Demand: "Growing", Growth: "+30%"},
	}
}
