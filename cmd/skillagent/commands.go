package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kalambet/skillagent/internal/chat"
	"github.com/kalambet/skillagent/internal/config"
	"github.com/kalambet/skillagent/internal/profile"
	"github.com/kalambet/skillagent/internal/resources"
	"github.com/kalambet/skillagent/internal/resume"
	"github.com/kalambet/skillagent/internal/roadmap"
	"github.com/kalambet/skillagent/internal/skillclaim"
)

// --- profile ---

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Manage the learner profile",
}

var profileShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current profile as JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newAPIClient()
		if err != nil {
			return err
		}

		p, err := fetchProfile(cmd.Context(), client)
		if isNotFound(err) {
			printWarning("No profile yet. Run: skillagent profile set track \"Web Development\"")
			return nil
		}
		if err != nil {
			return err
		}

		brief, _ := cmd.Flags().GetBool("brief")
		return writeProfile(cmd.OutOrStdout(), p, brief)
	},
}

var profileResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Forget the profile and all completed steps",
	RunE: func(cmd *cobra.Command, args []string) error {
		confirm, _ := cmd.Flags().GetBool("confirm")
		if !confirm {
			printWarning("This removes your profile and roadmap progress. Use --confirm to proceed.")
			return nil
		}

		client, err := newAPIClient()
		if err != nil {
			return err
		}
		if err := resetProfile(cmd.Context(), client); err != nil {
			return err
		}
		printSuccess("Profile and progress cleared")
		return nil
	},
}

var profileSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a profile field",
	Long: `Set a profile field. Keys: name, track, skills, interests, goal,
experience, currentRole, targetRole, timeCommitment. Skills and interests
take a comma-separated list.

Examples:
  skillagent profile set track "Web Development"
  skillagent profile set skills "HTML, CSS, Git"
  skillagent profile set experience intermediate`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, value := args[0], args[1]

		client, err := newAPIClient()
		if err != nil {
			return err
		}

		p, err := fetchProfile(cmd.Context(), client)
		if err != nil && !isNotFound(err) {
			return err
		}
		if err := setProfileField(&p, key, value); err != nil {
			return err
		}
		if err := decodeResponse(client.put(cmd.Context(), "/api/profile", p)); err != nil {
			return err
		}

		printSuccess("Set %s = %s", key, value)
		return nil
	},
}

var profileEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Open profile JSON in $EDITOR",
	RunE: func(cmd *cobra.Command, args []string) error {
		editor := os.Getenv("EDITOR")
		if editor == "" {
			editor = "vi"
		}

		client, err := newAPIClient()
		if err != nil {
			return err
		}

		p, err := fetchProfile(cmd.Context(), client)
		if err != nil && !isNotFound(err) {
			return err
		}
		p = p.Normalize()

		data, err := json.MarshalIndent(p, "", "  ")
		if err != nil {
			return err
		}

		tmpFile, err := os.CreateTemp("", "skillagent-profile-*.json")
		if err != nil {
			return fmt.Errorf("creating temp file: %w", err)
		}
		tmpPath := tmpFile.Name()
		defer os.Remove(tmpPath)

		if _, err := tmpFile.Write(data); err != nil {
			tmpFile.Close()
			return err
		}
		tmpFile.Close()

		editorCmd := exec.Command(editor, tmpPath)
		editorCmd.Stdin = os.Stdin
		editorCmd.Stdout = os.Stdout
		editorCmd.Stderr = os.Stderr
		if err := editorCmd.Run(); err != nil {
			return fmt.Errorf("editor exited with error: %w", err)
		}

		edited, err := os.ReadFile(tmpPath)
		if err != nil {
			return err
		}

		var updated profile.UserProfile
		if err := json.Unmarshal(edited, &updated); err != nil {
			return fmt.Errorf("invalid JSON: %w", err)
		}
		if err := decodeResponse(client.put(cmd.Context(), "/api/profile", updated)); err != nil {
			return err
		}

		printSuccess("Profile updated")
		return nil
	},
}

var profileImportCmd = &cobra.Command{
	Use:   "import-resume <file>",
	Short: "Add skills found in a résumé (PDF or text) to the profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		text, err := resume.ReadFile(args[0])
		if err != nil {
			return err
		}

		client, err := newAPIClient()
		if err != nil {
			return err
		}

		p, err := fetchProfile(cmd.Context(), client)
		if err != nil && !isNotFound(err) {
			return err
		}

		res := resume.Apply(&p, text)
		if len(res.Found) == 0 {
			printWarning("No known skills found in %s", args[0])
			return nil
		}
		if len(res.Added) == 0 {
			printSuccess("Found %s, all already in your profile", strings.Join(res.Found, ", "))
			return nil
		}
		if err := decodeResponse(client.put(cmd.Context(), "/api/profile", p)); err != nil {
			return err
		}

		printSuccess("Added %s to your skills", strings.Join(res.Added, ", "))
		return nil
	},
}

func init() {
	profileShowCmd.Flags().Bool("brief", false, "print a one-paragraph summary instead of JSON")
	profileResetCmd.Flags().Bool("confirm", false, "confirm removal")
	profileCmd.AddCommand(profileShowCmd)
	profileCmd.AddCommand(profileResetCmd)
	profileCmd.AddCommand(profileSetCmd)
	profileCmd.AddCommand(profileEditCmd)
	profileCmd.AddCommand(profileImportCmd)
}

func writeProfile(out io.Writer, p profile.UserProfile, brief bool) error {
	if brief {
		_, err := fmt.Fprintln(out, profile.Summary(p))
		return err
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(p)
}

func resetProfile(ctx context.Context, client *apiClient) error {
	resp, err := client.delete(ctx, "/api/profile")
	if err != nil {
		return err
	}
	return decodeJSON(resp, nil)
}

func fetchProfile(ctx context.Context, client *apiClient) (profile.UserProfile, error) {
	var p profile.UserProfile
	resp, err := client.get(ctx, "/api/profile")
	if err != nil {
		return p, err
	}
	err = decodeJSON(resp, &p)
	return p, err
}

// setProfileField assigns value to the profile field named key.
func setProfileField(p *profile.UserProfile, key, value string) error {
	switch strings.ToLower(strings.ReplaceAll(key, "_", "")) {
	case "name":
		p.Name = value
	case "track":
		p.Track = value
	case "skills":
		p.Skills = profile.SplitList(value)
	case "interests":
		p.Interests = profile.SplitList(value)
	case "goal":
		p.Goal = value
	case "experience":
		p.Experience = value
	case "currentrole":
		p.CurrentRole = value
	case "targetrole":
		p.TargetRole = value
	case "timecommitment":
		p.TimeCommitment = value
	default:
		return fmt.Errorf("unknown profile field %q", key)
	}
	return nil
}

// --- roadmap ---

type roadmapView struct {
	Track string `json:"track"`
	Steps []struct {
		roadmap.Step
		Completed bool `json:"completed"`
	} `json:"steps"`
	Completed []string `json:"completed"`
	Progress  int      `json:"progress"`
}

var roadmapCmd = &cobra.Command{
	Use:   "roadmap",
	Short: "Show your learning roadmap",
	RunE: func(cmd *cobra.Command, args []string) error {
		brief, _ := cmd.Flags().GetBool("brief")

		client, err := newAPIClient()
		if err != nil {
			return err
		}

		path := "/api/roadmap"
		if brief {
			path += "?resources=false"
		}
		resp, err := client.get(cmd.Context(), path)
		if err != nil {
			return err
		}

		var view roadmapView
		if err := decodeJSON(resp, &view); err != nil {
			if isNotFound(err) {
				printWarning("No profile yet. Set a track first: skillagent profile set track \"AI/ML\"")
				return nil
			}
			return err
		}
		writeRoadmap(cmd.OutOrStdout(), view)
		return nil
	},
}

func init() {
	roadmapCmd.Flags().Bool("brief", false, "skip resource lookup and list steps only")
}

func writeRoadmap(w io.Writer, view roadmapView) {
	title := "Your roadmap"
	if view.Track != "" {
		title = view.Track + " roadmap"
	}
	fmt.Fprintln(w, styled(headingStyle, title))
	if len(view.Steps) == 0 {
		fmt.Fprintln(w, "  No steps. Add a track, skills or interests to your profile.")
		return
	}
	fmt.Fprintf(w, "  %s\n\n", progressBar(view.Progress, 20))

	for i, s := range view.Steps {
		mark := "[ ]"
		name := s.Step.Step
		if s.Completed {
			mark = "[x]"
			name = styled(doneStyle, name)
		}
		fmt.Fprintf(w, "%s %d. %s %s\n", mark, i+1, name, styled(dimStyle, "("+string(s.Type)+")"))
		for _, r := range s.Resources {
			fmt.Fprintf(w, "      %s %s\n", r.Title, styled(dimStyle, r.URL))
		}
	}
}

var doneCmd = &cobra.Command{
	Use:   "done <step title>",
	Short: "Mark a roadmap step as completed",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		step := strings.Join(args, " ")

		client, err := newAPIClient()
		if err != nil {
			return err
		}

		resp, err := client.post(cmd.Context(), "/api/roadmap/completed", map[string]string{"step": step})
		if err != nil {
			return err
		}
		var result struct {
			Added     bool     `json:"added"`
			Completed []string `json:"completed"`
		}
		if err := decodeJSON(resp, &result); err != nil {
			return err
		}

		if !result.Added {
			printWarning("%q was already completed", step)
			return nil
		}
		printSuccess("Completed %q (%d steps done)", step, len(result.Completed))
		return nil
	},
}

// --- resources ---

var resourcesCmd = &cobra.Command{
	Use:   "resources <topic>",
	Short: "Find tutorials, courses, practice, projects and jobs for a topic",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		level, _ := cmd.Flags().GetString("level")

		client, err := newAPIClient()
		if err != nil {
			return err
		}

		q := url.Values{}
		q.Set("topic", strings.Join(args, " "))
		if level != "" {
			q.Set("level", level)
		}
		resp, err := client.get(cmd.Context(), "/api/resources?"+q.Encode())
		if err != nil {
			return err
		}

		var set resources.ResourceSet
		if err := decodeJSON(resp, &set); err != nil {
			return err
		}
		writeResources(cmd.OutOrStdout(), set)
		return nil
	},
}

func init() {
	resourcesCmd.Flags().String("level", "", "skill level (default: from profile experience)")
}

func writeResources(w io.Writer, set resources.ResourceSet) {
	fmt.Fprintln(w, styled(headingStyle, fmt.Sprintf("Resources for %s (%s)", set.Topic, set.SkillLevel)))
	if set.Error != "" {
		printWarning("%s", set.Error)
	}
	for _, cat := range resources.AllCategories {
		list := set.Resources.Get(cat)
		if len(list) == 0 {
			continue
		}
		fmt.Fprintf(w, "\n%s\n", styled(labelStyle, strings.ToUpper(string(cat)[:1])+string(cat)[1:]))
		for _, r := range list {
			line := r.Title
			if r.Platform != "" {
				line += " · " + r.Platform
			} else if r.Company != "" {
				line += " · " + r.Company
			}
			fmt.Fprintf(w, "  • %s\n    %s\n", line, styled(dimStyle, r.URL))
		}
	}
}

// --- insights ---

var insightsCmd = &cobra.Command{
	Use:   "insights",
	Short: "Show job market insights for a career track",
	RunE: func(cmd *cobra.Command, args []string) error {
		track, _ := cmd.Flags().GetString("track")
		trending, _ := cmd.Flags().GetBool("trending")

		client, err := newAPIClient()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()

		if trending {
			resp, err := client.get(cmd.Context(), "/api/trending-skills")
			if err != nil {
				return err
			}
			var result struct {
				Skills []resources.TrendingSkill `json:"skills"`
			}
			if err := decodeJSON(resp, &result); err != nil {
				return err
			}
			fmt.Fprintln(out, styled(headingStyle, "Trending skills"))
			for _, s := range result.Skills {
				fmt.Fprintf(out, "  %-12s %-10s %s\n", s.Name, s.Demand, styled(successStyle, s.Growth))
			}
			return nil
		}

		path := "/api/insights"
		if track != "" {
			path += "?" + url.Values{"track": {track}}.Encode()
		}
		resp, err := client.get(cmd.Context(), path)
		if err != nil {
			return err
		}
		var result struct {
			Track     string             `json:"track"`
			Available bool               `json:"available"`
			Insights  resources.Insights `json:"insights"`
		}
		if err := decodeJSON(resp, &result); err != nil {
			return err
		}
		if !result.Available {
			printWarning("No market data for track %q", result.Track)
			return nil
		}

		in := result.Insights
		fmt.Fprintln(out, styled(headingStyle, result.Track+" job market"))
		fmt.Fprintf(out, "  Average salary: %s\n", in.AverageSalary)
		fmt.Fprintf(out, "  Top skills:     %s\n", strings.Join(in.TopSkills, ", "))
		fmt.Fprintf(out, "  Top companies:  %s\n", strings.Join(in.TopCompanies, ", "))
		fmt.Fprintf(out, "  Trend:          %s\n", in.JobMarketTrend)
		fmt.Fprintln(out, "  Trending roles:")
		for _, r := range in.TrendingRoles {
			fmt.Fprintf(out, "    %s (%s, %d openings)\n", r.Title, r.AvgSalary, r.Openings)
		}
		return nil
	},
}

func init() {
	insightsCmd.Flags().String("track", "", "career track (default: profile track)")
	insightsCmd.Flags().Bool("trending", false, "list trending skills instead")
}

// --- assess ---

var assessCmd = &cobra.Command{
	Use:   "assess <skill>",
	Short: "Take the multiple-choice check for a skill",
	Long: fmt.Sprintf(`Take the multiple-choice check for a skill.

Skills with a question bank: %s`, strings.Join(skillclaim.AssessedSkills(), ", ")),
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newAPIClient()
		if err != nil {
			return err
		}
		return runAssessment(cmd.Context(), client, strings.ToLower(args[0]), cmd.InOrStdin(), cmd.OutOrStdout())
	},
}

// runAssessment asks each question on out, reads an option number per
// question from in and submits the answers for scoring.
func runAssessment(ctx context.Context, client *apiClient, skill string, in io.Reader, out io.Writer) error {
	resp, err := client.get(ctx, "/api/assessment/"+url.PathEscape(skill))
	if err != nil {
		return err
	}
	var quiz struct {
		Questions []skillclaim.Question `json:"questions"`
	}
	if err := decodeJSON(resp, &quiz); err != nil {
		return err
	}

	scanner := bufio.NewScanner(in)
	answers := make([]int, len(quiz.Questions))
	for i, q := range quiz.Questions {
		fmt.Fprintf(out, "\n%s\n", styled(labelStyle, fmt.Sprintf("%d. %s", i+1, q.Question)))
		for j, opt := range q.Options {
			fmt.Fprintf(out, "   %d) %s\n", j+1, opt)
		}
		answers[i] = readChoice(scanner, out, len(q.Options))
	}

	resp, err = client.post(ctx, "/api/assessment/"+url.PathEscape(skill), map[string]any{"answers": answers})
	if err != nil {
		return err
	}
	var result struct {
		Score int `json:"score"`
		Total int `json:"total"`
	}
	if err := decodeJSON(resp, &result); err != nil {
		return err
	}

	fmt.Fprintf(out, "\nScore: %d/%d\n", result.Score, result.Total)
	for i, q := range quiz.Questions {
		if answers[i] != q.Correct {
			fmt.Fprintf(out, "  %d. %s\n", i+1, styled(dimStyle, q.Explanation))
		}
	}
	return nil
}

// readChoice reads a 1-based option number and returns it 0-based, or -1
// when input ends or is not a valid option.
func readChoice(scanner *bufio.Scanner, out io.Writer, n int) int {
	fmt.Fprint(out, "Answer: ")
	if !scanner.Scan() {
		return -1
	}
	v, err := strconv.Atoi(strings.TrimSpace(scanner.Text()))
	if err != nil || v < 1 || v > n {
		return -1
	}
	return v - 1
}

// --- chat ---

var chatCmd = &cobra.Command{
	Use:   "chat [message]",
	Short: "Talk to the AI mentor",
	Long: `Talk to the AI mentor. With a message, prints one reply; without, starts
an interactive session (type "exit" to leave).

Examples:
  skillagent chat "How should I start with React?"
  skillagent chat --roadmap
  skillagent chat --clear`,
	RunE: func(cmd *cobra.Command, args []string) error {
		advice, _ := cmd.Flags().GetBool("roadmap")
		analysis, _ := cmd.Flags().GetBool("analysis")
		clearHistory, _ := cmd.Flags().GetBool("clear")

		client, err := newAPIClient()
		if err != nil {
			return err
		}
		ctx := cmd.Context()
		out := cmd.OutOrStdout()

		switch {
		case clearHistory:
			if err := decodeResponse(client.delete(ctx, "/api/chat/history")); err != nil {
				return err
			}
			printSuccess("Conversation cleared")
			return nil
		case advice:
			return chatOnce(ctx, client, out, "/api/chat/roadmap", nil)
		case analysis:
			return chatOnce(ctx, client, out, "/api/chat/analysis", nil)
		case len(args) > 0:
			return chatOnce(ctx, client, out, "/api/chat", map[string]string{"message": strings.Join(args, " ")})
		}

		scanner := bufio.NewScanner(cmd.InOrStdin())
		for {
			fmt.Fprint(out, styled(headingStyle, "you> "))
			if !scanner.Scan() {
				fmt.Fprintln(out)
				return nil
			}
			msg := strings.TrimSpace(scanner.Text())
			if msg == "" {
				continue
			}
			if msg == "exit" || msg == "quit" {
				return nil
			}
			if err := chatOnce(ctx, client, out, "/api/chat", map[string]string{"message": msg}); err != nil {
				printError("%v", err)
			}
		}
	},
}

func init() {
	chatCmd.Flags().Bool("roadmap", false, "ask for advice on your roadmap")
	chatCmd.Flags().Bool("analysis", false, "ask for an analysis of your profile")
	chatCmd.Flags().Bool("clear", false, "forget the conversation so far")
}

func chatOnce(ctx context.Context, client *apiClient, out io.Writer, path string, body any) error {
	resp, err := client.post(ctx, path, body)
	if err != nil {
		return err
	}
	var reply chat.Reply
	if err := decodeJSON(resp, &reply); err != nil {
		return err
	}
	writeReply(out, reply)
	return nil
}

func writeReply(w io.Writer, reply chat.Reply) {
	fmt.Fprintln(w, renderMarkdown(reply.Content))
	if reply.Type == chat.TypeSkillAssessment && reply.Skill != "" {
		fmt.Fprintf(w, "\n%s\n", styled(stepStyle, fmt.Sprintf("→ Run: skillagent assess %s", reply.Skill)))
	}
}

// --- interactions ---

var interactionsCmd = &cobra.Command{
	Use:   "interactions",
	Short: "Inspect or clear the mentor conversation log",
}

var interactionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent interactions",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		client, err := newAPIClient()
		if err != nil {
			return err
		}

		resp, err := client.get(cmd.Context(), fmt.Sprintf("/api/interactions?limit=%d", limit))
		if err != nil {
			return err
		}
		var result struct {
			Interactions []struct {
				ID          string `json:"id"`
				CreatedAt   string `json:"created_at"`
				Kind        string `json:"kind"`
				UserMessage string `json:"user_message"`
				Status      string `json:"status"`
			} `json:"interactions"`
		}
		if err := decodeJSON(resp, &result); err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if len(result.Interactions) == 0 {
			fmt.Fprintln(out, "No interactions found.")
			return nil
		}
		for _, ix := range result.Interactions {
			msg := ix.UserMessage
			if msg == "" {
				msg = "(" + ix.Kind + ")"
			}
			if len([]rune(msg)) > 80 {
				msg = string([]rune(msg)[:80]) + "..."
			}
			fmt.Fprintf(out, "%s  %s  %-9s %s\n", styled(stepStyle, shortID(ix.ID)), ix.CreatedAt, ix.Status, msg)
		}
		return nil
	},
}

var interactionsClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete the interaction log",
	RunE: func(cmd *cobra.Command, args []string) error {
		confirm, _ := cmd.Flags().GetBool("confirm")
		if !confirm {
			printWarning("This deletes every stored interaction. Use --confirm to proceed.")
			return nil
		}

		client, err := newAPIClient()
		if err != nil {
			return err
		}
		resp, err := client.delete(cmd.Context(), "/api/interactions")
		if err != nil {
			return err
		}
		var result struct {
			Deleted int64 `json:"deleted"`
		}
		if err := decodeJSON(resp, &result); err != nil {
			return err
		}
		printSuccess("Deleted %d interactions", result.Deleted)
		return nil
	},
}

func init() {
	interactionsListCmd.Flags().Int("limit", 20, "maximum number of interactions to list")
	interactionsClearCmd.Flags().Bool("confirm", false, "confirm deletion")
	interactionsCmd.AddCommand(interactionsListCmd)
	interactionsCmd.AddCommand(interactionsClearCmd)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// decodeResponse checks a response whose body is not needed.
func decodeResponse(resp *http.Response, err error) error {
	if err != nil {
		return err
	}
	return decodeJSON(resp, nil)
}

// --- config ---

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or update configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		for _, k := range config.ShowAll(cfg) {
			fmt.Fprintf(cmd.OutOrStdout(), "  %s = %s\n", styled(labelStyle, k.Key), k.Value)
		}
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, value := args[0], args[1]

		if err := config.SetKey(key, value); err != nil {
			return err
		}

		printSuccess("Set %s = %s", key, value)
		return nil
	},
}

var configSetSecretCmd = &cobra.Command{
	Use:   "set-secret <key>",
	Short: "Store a secret (API key or client secret) read from stdin",
	Long: `Store a secret in the platform secret store. The value is read from the
first line of stdin so it does not end up in shell history.

Example:
  echo "$OPENAI_API_KEY" | skillagent config set-secret llm.api_key`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		scanner := bufio.NewScanner(cmd.InOrStdin())
		if !scanner.Scan() {
			return fmt.Errorf("no value on stdin")
		}
		value := strings.TrimSpace(scanner.Text())
		if value == "" {
			return fmt.Errorf("empty value")
		}
		if err := config.SetSecret(args[0], value); err != nil {
			return err
		}
		printSuccess("Stored %s", args[0])
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configSetSecretCmd)
}
