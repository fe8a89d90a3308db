package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-auditor/internal/llm"
	"github.com/jonathan/resume-auditor/internal/scoring"
	"github.com/jonathan/resume-auditor/internal/session"
	"github.com/jonathan/resume-auditor/internal/types"
)

const analysisPayload = `{
  "detectedRole": "Backend Engineer",
  "hardSkillsFound": ["Go", "PostgreSQL"],
  "missingHardSkills": ["Kubernetes"],
  "softSkillsFound": [],
  "metrics": {"totalBulletPoints": 10, "bulletsWithMetrics": 3, "weakVerbsCount": 2},
  "formattingIssues": [],
  "criticalErrors": [],
  "strengths": [],
  "weaknesses": [],
  "summaryFeedback": "Solid.",
  "structuredSections": [
    {"id": "exp", "title": "Work Experience", "content": "<ul><li>Built APIs</li></ul>"},
    {"id": "edu", "title": "Education", "content": "BSc"},
    {"id": "skills", "title": "Skills", "content": "Go, SQL"}
  ]
}`

func mockClient() *MockLLMClient {
	return &MockLLMClient{Responses: map[llm.ModelTier]string{
		llm.TierStandard: analysisPayload,
		llm.TierLite:     `{"professional": "Professional text", "atsOptimized": "<ul><li>Cut latency 40%</li></ul>"}`,
		llm.TierAdvanced: `{"matchingKeywords": ["Go"], "missingKeywords": ["Kubernetes"], "matchFeedback": "Close.",
			"tailoredSections": [{"id": "skills", "title": "Skills", "content": "Go, SQL, Kubernetes"}]}`,
	}}
}

// analyzed runs analyze against a mock client and returns the state file path.
func analyzed(t *testing.T) string {
	t.Helper()
	useMockClient(t, mockClient())
	resume := writeTemp(t, "resume.txt", "Jane Doe\nBackend Engineer")
	statePath := filepath.Join(t.TempDir(), "out", "state.json")

	out, err := execute(t, "analyze", "--file", resume, "--state", statePath)
	require.NoError(t, err, out)
	return statePath
}

func loadState(t *testing.T, path string) session.State {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return session.Decode(data)
}

func TestAnalyzeCommand(t *testing.T) {
	useMockClient(t, mockClient())
	resume := writeTemp(t, "resume.txt", "Jane Doe\nBackend Engineer")
	statePath := filepath.Join(t.TempDir(), "out", "state.json")

	out, err := execute(t, "analyze", "--file", resume, "--state", statePath)
	require.NoError(t, err, out)
	assert.Contains(t, out, "Detected role: Backend Engineer")
	assert.Contains(t, out, "ATS score: 49 (fair)")

	state := loadState(t, statePath)
	assert.Equal(t, types.StepDashboard, state.Step)
	assert.Equal(t, "Jane Doe\nBackend Engineer", state.ResumeText)
	require.Len(t, state.Sections, 3)
}

func TestAnalyzeCommand_Verbose(t *testing.T) {
	useMockClient(t, mockClient())
	resume := writeTemp(t, "resume.txt", "Jane Doe\nBackend Engineer")

	out, err := execute(t, "analyze", "--file", resume, "--state", filepath.Join(t.TempDir(), "s.json"), "-v")
	require.NoError(t, err, out)
	assert.Contains(t, out, "ATS AUDIT")
	assert.Contains(t, out, "• Kubernetes")
}

func TestAnalyzeCommand_UnsupportedFormat(t *testing.T) {
	useMockClient(t, mockClient())
	resume := writeTemp(t, "resume.doc", "legacy")

	_, err := execute(t, "analyze", "--file", resume, "--state", filepath.Join(t.TempDir(), "s.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DOCX")
}

func TestAnalyzeCommand_RequiresAPIKey(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	resume := writeTemp(t, "resume.txt", "Jane Doe")

	_, err := execute(t, "analyze", "--file", resume, "--state", filepath.Join(t.TempDir(), "s.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API key is required")
}

func TestScoreCommand(t *testing.T) {
	statePath := analyzed(t)

	out, err := execute(t, "score", "--state", statePath)
	require.NoError(t, err)
	assert.Contains(t, out, "Overall")
	assert.Contains(t, out, "49")
	assert.Contains(t, out, "Grade: fair")
	assert.Contains(t, out, "Quantified bullets: 30%")

	out, err = execute(t, "score", "--state", statePath, "--json")
	require.NoError(t, err)
	var breakdown scoring.Breakdown
	require.NoError(t, json.Unmarshal([]byte(out), &breakdown))
	assert.Equal(t, 49, breakdown.Total)
}

func TestScoreCommand_RejectsStateWithoutAnalysis(t *testing.T) {
	data, err := session.Encode(session.DefaultState())
	require.NoError(t, err)
	statePath := writeTemp(t, "state.json", string(data))

	_, err = execute(t, "score", "--state", statePath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "run 'resume_agent analyze' first")
}

func TestImproveCommand_Apply(t *testing.T) {
	statePath := analyzed(t)

	out, err := execute(t, "improve", "--state", statePath, "--section", "exp", "--apply", "atsOptimized")
	require.NoError(t, err, out)
	assert.Contains(t, out, "== professional")
	assert.Contains(t, out, "== atsOptimized (1 bullets, 1 quantified) ==")

	state := loadState(t, statePath)
	assert.Equal(t, "<ul><li>Cut latency 40%</li></ul>", state.Sections[0].Content)
	assert.Equal(t, "<ul><li>Built APIs</li></ul>", state.Sections[0].OriginalContent)
}

func TestImproveCommand_Errors(t *testing.T) {
	statePath := analyzed(t)

	_, err := execute(t, "improve", "--state", statePath, "--section", "nope")
	assert.Error(t, err)

	_, err = execute(t, "improve", "--state", statePath, "--section", "exp", "--apply", "casual")
	assert.Error(t, err)
}

func TestRewriteCommand(t *testing.T) {
	statePath := analyzed(t)

	out, err := execute(t, "rewrite", "--state", statePath, "--mode", "professional", "--concurrency", "2")
	require.NoError(t, err, out)
	assert.Contains(t, out, "Successfully rewritten 3 sections, 0 kept unchanged")

	state := loadState(t, statePath)
	for _, s := range state.Sections {
		assert.Equal(t, "Professional text", s.Content)
		assert.NotEmpty(t, s.OriginalContent)
	}
}

func TestRewriteCommand_InvalidMode(t *testing.T) {
	statePath := analyzed(t)
	_, err := execute(t, "rewrite", "--state", statePath, "--mode", "casual")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid --mode")
}

func TestMatchCommand_Apply(t *testing.T) {
	statePath := analyzed(t)
	job := writeTemp(t, "job.html", "<div class=\"description\"><p>Go engineer who knows Kubernetes well</p></div>")
	resultPath := filepath.Join(t.TempDir(), "match.json")

	out, err := execute(t, "match", "--state", statePath, "--job", job, "--out", resultPath, "--apply")
	require.NoError(t, err, out)
	assert.Contains(t, out, "Match: 50%")
	assert.Contains(t, out, "Missing: Kubernetes")

	var result types.JobMatchResult
	data, err := os.ReadFile(resultPath)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &result))
	assert.Equal(t, 50, result.MatchPercentage)

	state := loadState(t, statePath)
	assert.Equal(t, types.StepEditor, state.Step)
	assert.Equal(t, "Go, SQL, Kubernetes", state.Sections[2].Content)
	assert.Equal(t, "Go, SQL", state.Sections[2].OriginalContent)
	assert.Equal(t, "<ul><li>Built APIs</li></ul>", state.Sections[0].Content)
}

func TestMatchCommand_JobURL(t *testing.T) {
	statePath := analyzed(t)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<html><body><nav>Jobs</nav><div class="job-description"><p>Go engineer who knows Kubernetes well</p></div></body></html>`))
	}))
	defer server.Close()

	out, err := execute(t, "match", "--state", statePath, "--job-url", server.URL)
	require.NoError(t, err, out)
	assert.Contains(t, out, "Fetched unknown posting (37 chars)")
	assert.Contains(t, out, "Match: 50%")

	// without --apply the state is untouched
	assert.Equal(t, types.StepDashboard, loadState(t, statePath).Step)
}

func TestExportCommand(t *testing.T) {
	statePath := analyzed(t)
	dir := t.TempDir()

	tests := []struct {
		format string
		prefix string
	}{
		{"txt", "WORK EXPERIENCE\n"},
		{"pdf", "%PDF"},
		{"docx", "PK"},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			outPath := filepath.Join(dir, "resume."+tt.format)
			out, err := execute(t, "export", "--state", statePath, "--format", tt.format, "--out", outPath)
			require.NoError(t, err, out)

			data, err := os.ReadFile(outPath)
			require.NoError(t, err)
			assert.True(t, strings.HasPrefix(string(data), tt.prefix))
		})
	}

	_, err := execute(t, "export", "--state", statePath, "--format", "rtf", "--out", filepath.Join(dir, "x"))
	assert.Error(t, err)
}
