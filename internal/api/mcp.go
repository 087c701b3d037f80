package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/kalambet/skillagent/internal/pipeline"
	"github.com/kalambet/skillagent/internal/profile"
	"github.com/kalambet/skillagent/internal/resources"
	"github.com/kalambet/skillagent/internal/roadmap"
	"github.com/kalambet/skillagent/internal/skillclaim"
)

// MCPDeps holds dependencies for the MCP server.
type MCPDeps struct {
	Profiles  *profile.Manager
	Assembler *roadmap.Assembler
	Enricher  *pipeline.Enricher
	Resolver  pipeline.ResourceResolver
}

// NewMCPServer creates an MCP server with the SkillAgent tools and
// resources registered.
func NewMCPServer(deps MCPDeps) *server.MCPServer {
	s := server.NewMCPServer(
		"skillagent",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(false, true),
		server.WithInstructions("SkillAgent: personalised learning roadmaps, learning resources and skill checks for the local learner profile."),
		server.WithRecovery(),
	)

	s.AddTool(
		mcp.NewTool("generate_roadmap",
			mcp.WithDescription("Build the learning roadmap for the stored profile. Optional arguments override profile fields for this call only."),
			mcp.WithString("track", mcp.Description("Career track, e.g. Web Development")),
			mcp.WithString("skills", mcp.Description("Comma-separated current skills")),
			mcp.WithString("interests", mcp.Description("Comma-separated interests")),
			mcp.WithBoolean("resources", mcp.Description("Attach tutorials and courses to each step (default true)")),
		),
		mcpGenerateRoadmap(deps),
	)

	s.AddTool(
		mcp.NewTool("find_resources",
			mcp.WithDescription("Find tutorials, courses, practice sites, projects, jobs and internships for a topic."),
			mcp.WithString("topic", mcp.Description("Topic to search for"), mcp.Required()),
			mcp.WithString("level", mcp.Description("Skill level (default: the profile's experience, else beginner)")),
		),
		mcpFindResources(deps),
	)

	s.AddTool(detectSkillClaimTool(), mcpDetectSkillClaim())

	s.AddTool(
		mcp.NewTool("complete_step",
			mcp.WithDescription("Mark a roadmap step as completed. Steps are identified by their exact title."),
			mcp.WithString("step", mcp.Description("Step title"), mcp.Required()),
		),
		mcpCompleteStep(deps),
	)

	s.AddResource(
		mcp.NewResource(
			"user://profile",
			"Learner Profile",
			mcp.WithResourceDescription("Current learner profile as JSON"),
			mcp.WithMIMEType("application/json"),
		),
		mcpResourceProfile(deps),
	)

	s.AddResource(
		mcp.NewResource(
			"user://roadmap",
			"Learning Roadmap",
			mcp.WithResourceDescription("Roadmap steps with completion flags and progress, without resources"),
			mcp.WithMIMEType("application/json"),
		),
		mcpResourceRoadmap(deps),
	)

	return s
}

func mcpGenerateRoadmap(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		p, err := deps.Profiles.Get()
		if err != nil && !errors.Is(err, profile.ErrNoProfile) {
			return mcpError(fmt.Sprintf("failed to get profile: %v", err)), nil
		}
		if v := req.GetString("track", ""); v != "" {
			p.Track = v
		}
		if v := req.GetString("skills", ""); v != "" {
			p.Skills = profile.SplitList(v)
		}
		if v := req.GetString("interests", ""); v != "" {
			p.Interests = profile.SplitList(v)
		}
		if p.Track == "" && len(p.Skills) == 0 && len(p.Interests) == 0 {
			return mcpError("no profile configured: pass track, skills or interests"), nil
		}

		var steps []roadmap.Step
		if req.GetBool("resources", true) {
			steps = deps.Enricher.Build(ctx, p)
		} else {
			steps = deps.Assembler.Assemble(p)
		}
		return mcpJSON(steps)
	}
}

func mcpFindResources(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		topic, err := req.RequireString("topic")
		if err != nil {
			return mcpError("topic is required"), nil
		}
		level := req.GetString("level", "")
		if level == "" {
			if p, err := deps.Profiles.Get(); err == nil {
				level = p.SkillLevel()
			}
		}

		set, err := deps.Resolver.Resolve(ctx, topic, level)
		if errors.Is(err, resources.ErrEmptyTopic) {
			return mcpError("topic is required"), nil
		}
		if err != nil {
			return mcpError(fmt.Sprintf("resolve failed: %v", err)), nil
		}
		return mcpJSON(set)
	}
}

func detectSkillClaimTool() mcp.Tool {
	return mcp.NewTool("detect_skill_claim",
		mcp.WithDescription(fmt.Sprintf(
			"Check whether a message claims more than %d%% proficiency in a known skill (%s), and return the matching assessment questions.",
			skillclaim.Threshold, strings.Join(skillclaim.Skills(), ", "))),
		mcp.WithString("message", mcp.Description("Free-text message"), mcp.Required()),
	)
}

func mcpDetectSkillClaim() server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		msg, err := req.RequireString("message")
		if err != nil {
			return mcpError("message is required"), nil
		}

		type detection struct {
			Detected  bool                   `json:"detected"`
			Claim     *skillclaim.SkillClaim `json:"claim,omitempty"`
			Questions []skillclaim.Question  `json:"questions,omitempty"`
		}

		claim, ok := skillclaim.Detect(msg)
		if !ok {
			return mcpJSON(detection{})
		}
		return mcpJSON(detection{
			Detected:  true,
			Claim:     &claim,
			Questions: skillclaim.Questions(claim.Skill),
		})
	}
}

func mcpCompleteStep(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		step, err := req.RequireString("step")
		if err != nil || step == "" {
			return mcpError("step is required"), nil
		}
		added, err := deps.Profiles.MarkCompleted(step)
		if err != nil {
			return mcpError(fmt.Sprintf("failed to mark step: %v", err)), nil
		}
		if !added {
			return mcpText(fmt.Sprintf("%q was already completed", step)), nil
		}
		return mcpText(fmt.Sprintf("Marked %q as completed", step)), nil
	}
}

func mcpResourceProfile(deps MCPDeps) server.ResourceHandlerFunc {
	return func(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		p, err := deps.Profiles.Get()
		if err != nil {
			return nil, fmt.Errorf("failed to get profile: %w", err)
		}
		return resourceJSON(req.Params.URI, p)
	}
}

func mcpResourceRoadmap(deps MCPDeps) server.ResourceHandlerFunc {
	return func(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		p, err := deps.Profiles.Get()
		if err != nil {
			return nil, fmt.Errorf("failed to get profile: %w", err)
		}
		completed, err := deps.Profiles.CompletedSteps()
		if err != nil {
			return nil, fmt.Errorf("failed to get completed steps: %w", err)
		}
		steps := deps.Assembler.Assemble(p)
		return resourceJSON(req.Params.URI, newRoadmapResponse(p.Track, steps, completed))
	}
}

func resourceJSON(uri string, v any) ([]mcp.ResourceContents, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s: %w", uri, err)
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(b),
		},
	}, nil
}

func mcpJSON(v any) (*mcp.CallToolResult, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return mcpError(fmt.Sprintf("failed to marshal result: %v", err)), nil
	}
	return mcpText(string(b)), nil
}

func mcpText(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: text},
		},
	}
}

func mcpError(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: msg},
		},
		IsError: true,
	}
}
