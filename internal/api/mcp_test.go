package api

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/kalambet/skillagent/internal/pipeline"
	"github.com/kalambet/skillagent/internal/profile"
	"github.com/kalambet/skillagent/internal/resources"
	"github.com/kalambet/skillagent/internal/roadmap"
	"github.com/kalambet/skillagent/internal/skillclaim"
	"github.com/kalambet/skillagent/internal/storage"
)

// --- helpers ---

func newTestMCPDeps(t *testing.T) (MCPDeps, *stubResolver) {
	t.Helper()
	store, err := storage.Open(storage.MemoryDSN)
	if err != nil {
		t.Fatalf("opening store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	assembler := roadmap.NewAssembler(roadmap.DefaultTemplates())
	resolver := &stubResolver{}
	return MCPDeps{
		Profiles:  profile.NewManager(store),
		Assembler: assembler,
		Enricher:  pipeline.NewEnricher(assembler, resolver, nil),
		Resolver:  resolver,
	}, resolver
}

func toolText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if len(result.Content) == 0 {
		t.Fatal("no content in result")
	}
	tc, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("expected TextContent, got %T", result.Content[0])
	}
	return tc.Text
}

func makeCallToolRequest(name string, args map[string]interface{}) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      name,
			Arguments: args,
		},
	}
}

func makeReadResourceRequest(uri string) mcp.ReadResourceRequest {
	return mcp.ReadResourceRequest{
		Params: mcp.ReadResourceParams{
			URI: uri,
		},
	}
}

// --- tests ---

func TestMCPTool_GenerateRoadmap_FromArguments(t *testing.T) {
	deps, resolver := newTestMCPDeps(t)
	handler := mcpGenerateRoadmap(deps)

	result, err := handler(context.Background(), makeCallToolRequest("generate_roadmap", map[string]interface{}{
		"track":     "Web Development",
		"skills":    "Git",
		"interests": "gaming",
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.IsError {
		t.Fatalf("unexpected error: %s", toolText(t, result))
	}

	var steps []roadmap.Step
	if err := json.Unmarshal([]byte(toolText(t, result)), &steps); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if len(steps) != 6 {
		t.Fatalf("expected 6 steps, got %d", len(steps))
	}
	if steps[0].Step != "Advanced Git" || steps[5].Step != "Explore gaming in Web Development" {
		t.Errorf("unexpected order: first %q, last %q", steps[0].Step, steps[5].Step)
	}
	if len(steps[0].Resources) != 1 {
		t.Errorf("expected enriched steps, got %d resources", len(steps[0].Resources))
	}
	if len(resolver.topics) != 6 {
		t.Errorf("resolver called %d times, want 6", len(resolver.topics))
	}
}

func TestMCPTool_GenerateRoadmap_StoredProfileNoResources(t *testing.T) {
	deps, resolver := newTestMCPDeps(t)
	if err := deps.Profiles.Save(profile.UserProfile{Track: "AI/ML"}); err != nil {
		t.Fatal(err)
	}

	result, _ := mcpGenerateRoadmap(deps)(context.Background(), makeCallToolRequest("generate_roadmap", map[string]interface{}{
		"resources": false,
	}))
	if result.IsError {
		t.Fatalf("unexpected error: %s", toolText(t, result))
	}
	var steps []roadmap.Step
	json.Unmarshal([]byte(toolText(t, result)), &steps)
	if len(steps) != 4 || steps[0].Step != "Python Basics" {
		t.Errorf("steps = %+v", steps)
	}
	if len(resolver.topics) != 0 {
		t.Errorf("resolver should not be called")
	}
}

func TestMCPTool_GenerateRoadmap_NoProfile(t *testing.T) {
	deps, _ := newTestMCPDeps(t)
	result, _ := mcpGenerateRoadmap(deps)(context.Background(), makeCallToolRequest("generate_roadmap", nil))
	if !result.IsError {
		t.Fatal("expected error without profile or arguments")
	}
}

func TestMCPTool_FindResources(t *testing.T) {
	deps, resolver := newTestMCPDeps(t)

	result, _ := mcpFindResources(deps)(context.Background(), makeCallToolRequest("find_resources", map[string]interface{}{
		"topic": "react",
		"level": "intermediate",
	}))
	if result.IsError {
		t.Fatalf("unexpected error: %s", toolText(t, result))
	}
	var set resources.ResourceSet
	if err := json.Unmarshal([]byte(toolText(t, result)), &set); err != nil {
		t.Fatal(err)
	}
	if set.Topic != "react" || resolver.lastLevel() != "intermediate" {
		t.Errorf("set = %+v, level = %q", set, resolver.lastLevel())
	}
}

func TestMCPTool_FindResources_MissingTopic(t *testing.T) {
	deps, _ := newTestMCPDeps(t)
	result, _ := mcpFindResources(deps)(context.Background(), makeCallToolRequest("find_resources", map[string]interface{}{}))
	if !result.IsError {
		t.Fatal("expected error for missing topic")
	}
}

func TestMCPTool_DetectSkillClaim(t *testing.T) {
	handler := mcpDetectSkillClaim()

	result, _ := handler(context.Background(), makeCallToolRequest("detect_skill_claim", map[string]interface{}{
		"message": "I know Python at 75%",
	}))
	text := toolText(t, result)
	var got struct {
		Detected bool `json:"detected"`
		Claim    struct {
			Skill      string `json:"skill"`
			Percentage int    `json:"percentage"`
		} `json:"claim"`
		Questions []json.RawMessage `json:"questions"`
	}
	if err := json.Unmarshal([]byte(text), &got); err != nil {
		t.Fatal(err)
	}
	if !got.Detected || got.Claim.Skill != "python" || got.Claim.Percentage != 75 || len(got.Questions) != 3 {
		t.Errorf("detection = %s", text)
	}

	result, _ = handler(context.Background(), makeCallToolRequest("detect_skill_claim", map[string]interface{}{
		"message": "I know React at 20%",
	}))
	if text := toolText(t, result); text != `{"detected":false}` {
		t.Errorf("below threshold = %s", text)
	}
}

func TestMCPTool_DetectSkillClaimDescription(t *testing.T) {
	tool := detectSkillClaimTool()
	if tool.Name != "detect_skill_claim" {
		t.Errorf("Name = %q", tool.Name)
	}
	for _, skill := range skillclaim.Skills() {
		if !strings.Contains(tool.Description, skill) {
			t.Errorf("description does not list %q: %s", skill, tool.Description)
		}
	}
	if !strings.Contains(tool.Description, "30%") {
		t.Errorf("description missing threshold: %s", tool.Description)
	}
}

func TestMCPTool_CompleteStep(t *testing.T) {
	deps, _ := newTestMCPDeps(t)
	handler := mcpCompleteStep(deps)

	result, _ := handler(context.Background(), makeCallToolRequest("complete_step", map[string]interface{}{"step": "Learn React"}))
	if result.IsError || !strings.Contains(toolText(t, result), "Marked") {
		t.Errorf("first = %s", toolText(t, result))
	}
	result, _ = handler(context.Background(), makeCallToolRequest("complete_step", map[string]interface{}{"step": "Learn React"}))
	if result.IsError || !strings.Contains(toolText(t, result), "already") {
		t.Errorf("second = %s", toolText(t, result))
	}

	done, _ := deps.Profiles.CompletedSteps()
	if len(done) != 1 || done[0] != "Learn React" {
		t.Errorf("completed = %v", done)
	}

	result, _ = handler(context.Background(), makeCallToolRequest("complete_step", map[string]interface{}{}))
	if !result.IsError {
		t.Error("expected error for missing step")
	}
}

func TestMCPResource_Profile(t *testing.T) {
	deps, _ := newTestMCPDeps(t)

	if _, err := mcpResourceProfile(deps)(context.Background(), makeReadResourceRequest("user://profile")); err == nil {
		t.Error("expected error before onboarding")
	}

	deps.Profiles.Save(profile.UserProfile{Name: "Ada", Track: "Blockchain"})
	contents, err := mcpResourceProfile(deps)(context.Background(), makeReadResourceRequest("user://profile"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	tc := contents[0].(mcp.TextResourceContents)
	if tc.URI != "user://profile" || !strings.Contains(tc.Text, `"name":"Ada"`) {
		t.Errorf("contents = %+v", tc)
	}
}

func TestMCPResource_Roadmap(t *testing.T) {
	deps, resolver := newTestMCPDeps(t)
	deps.Profiles.Save(profile.UserProfile{Track: "Mobile Apps"})
	deps.Profiles.MarkCompleted("Build a Todo App")

	contents, err := mcpResourceRoadmap(deps)(context.Background(), makeReadResourceRequest("user://roadmap"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var resp roadmapResponse
	if err := json.Unmarshal([]byte(contents[0].(mcp.TextResourceContents).Text), &resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Steps) != 4 || !resp.Steps[1].Completed || resp.Progress != 25 {
		t.Errorf("roadmap = %+v", resp)
	}
	if len(resolver.topics) != 0 {
		t.Error("roadmap resource must not resolve resources")
	}
}

func TestNewMCPServer(t *testing.T) {
	deps, _ := newTestMCPDeps(t)
	if s := NewMCPServer(deps); s == nil {
		t.Fatal("NewMCPServer returned nil")
	}
}
