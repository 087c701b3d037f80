package chat

import "strings"

const (
	mockGreeting     = "Hi! I'm your AI career mentor. I can help you with personalized learning roadmaps, career advice, and skill assessments. What would you like to work on today?"
	mockRoadmap      = "Here's a personalized learning roadmap for you:\n\n1. **Foundation Skills** - Master the basics\n2. **Practical Projects** - Build real applications\n3. **Advanced Concepts** - Deep dive into complex topics\n4. **Industry Preparation** - Get ready for the job market"
	mockSkillAdvice  = "To improve your skills, I recommend:\n• Practice regularly with hands-on projects\n• Join coding communities and forums\n• Follow industry leaders and stay updated\n• Build a portfolio of your work"
	mockCareerTrends = "Current trends in tech include:\n• AI/ML integration in all fields\n• Cloud computing and DevOps\n• Cybersecurity and data privacy\n• Remote work and collaboration tools"
	mockApology      = "I'm having trouble connecting to my AI services right now. Please try again in a moment, or you can still use the roadmap and assessment features!"

	analysisOffline = "I'd be happy to analyze your profile and provide personalized recommendations!"
	analysisFailed  = "I'm having trouble analyzing your profile right now. Please try again later."

	demoNote = "\n\n*Note: This is a demo response due to API rate limits. Your real AI responses will be more personalized when the API is available.*"
)

type keywordReply struct {
	keywords []string
	content  string
}

// Checked in order; the first group with a keyword in the message wins.
var mockReplies = []keywordReply{
	{[]string{"roadmap", "path", "plan"}, mockRoadmap},
	{[]string{"skill", "improve", "learn"}, mockSkillAdvice},
	{[]string{"trend", "market", "industry"}, mockCareerTrends},
	{[]string{"hello", "hi", "hey"}, mockGreeting},
}

func mockResponse(message string) string {
	lower := strings.ToLower(message)
	for _, r := range mockReplies {
		for _, k := range r.keywords {
			if strings.Contains(lower, k) {
				return r.content
			}
		}
	}
	return mockApology
}

var demoReplies = []keywordReply{
	{[]string{"how can i improve my skills"}, "Great question! Here are some effective ways to improve your skills:\n\n1. **Set Clear Goals**: Define specific, measurable objectives\n2. **Practice Regularly**: Consistent practice beats occasional cramming\n3. **Learn from Others**: Find mentors, join communities, watch tutorials\n4. **Track Progress**: Use tools like this dashboard to monitor your growth\n5. **Get Feedback**: Ask for constructive criticism and act on it\n6. **Stay Updated**: Follow industry trends and new technologies\n\nWhat specific skill are you looking to improve?"},
	{[]string{"what should i learn next"}, "Based on current trends, here are some valuable skills to consider:\n\n**Tech Skills:**\n- AI/ML fundamentals\n- Data analysis\n- Cloud computing (AWS/Azure/GCP)\n- Cybersecurity basics\n\n**Soft Skills:**\n- Communication\n- Project management\n- Critical thinking\n- Adaptability\n\n**Industry-Specific:**\n- Digital marketing\n- UX/UI design\n- Blockchain basics\n- Sustainability practices\n\nWhat's your current background? I can give more targeted recommendations!"},
	{[]string{"help me create a learning plan"}, "I'll help you create a personalized learning plan! Here's a structured approach:\n\n**Step 1: Assessment**\n- Identify your current skill level\n- List your strengths and weaknesses\n- Define your career goals\n\n**Step 2: Prioritization**\n- Choose 2-3 skills to focus on\n- Rank them by importance and urgency\n- Set realistic timelines\n\n**Step 3: Resources**\n- Find quality courses and materials\n- Identify practice opportunities\n- Set up accountability systems\n\n**Step 4: Execution**\n- Create a daily/weekly schedule\n- Track your progress\n- Adjust as needed\n\nWould you like me to help you assess your current skills first?"},
}

const demoDefault = "I'm here to help you with your skill development journey! I can assist with:\n\n• Creating personalized learning plans\n• Recommending relevant skills to learn\n• Providing study strategies and tips\n• Tracking your progress\n• Answering questions about specific topics\n\nWhat would you like to work on today?"

// demoResponse is served while the model API is rate limited or out of quota.
func demoResponse(message string) string {
	lower := strings.ToLower(message)
	for _, r := range demoReplies {
		if strings.Contains(lower, r.keywords[0]) {
			return r.content + demoNote
		}
	}
	return demoDefault + demoNote
}
