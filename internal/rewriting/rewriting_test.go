package rewriting

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-auditor/internal/llm"
	"github.com/jonathan/resume-auditor/internal/types"
)

// MockLLMClient implements llm.Client for testing
type MockLLMClient struct {
	GenerateJSONFunc func(ctx context.Context, prompt string, tier llm.ModelTier) (string, error)

	mu      sync.Mutex
	prompts []string
}

func (m *MockLLMClient) GenerateJSON(ctx context.Context, prompt string, tier llm.ModelTier, _ ...llm.CallOption) (string, error) {
	m.mu.Lock()
	m.prompts = append(m.prompts, prompt)
	m.mu.Unlock()
	if m.GenerateJSONFunc != nil {
		return m.GenerateJSONFunc(ctx, prompt, tier)
	}
	return `{"professional": "p", "atsOptimized": "a"}`, nil
}

func (m *MockLLMClient) GetModel(_ llm.ModelTier) string { return "mock-model" }

func (m *MockLLMClient) Close() error { return nil }

func (m *MockLLMClient) Prompts() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.prompts...)
}

// byTitle answers with variants derived from the quoted section title in the prompt,
// and fails for titles listed in failing.
func byTitle(failing ...string) *MockLLMClient {
	return &MockLLMClient{GenerateJSONFunc: func(_ context.Context, prompt string, _ llm.ModelTier) (string, error) {
		for _, f := range failing {
			if strings.Contains(prompt, fmt.Sprintf("%q section", f)) {
				return "", errors.New("upstream 503")
			}
		}
		start := strings.Index(prompt, `"`) + 1
		end := strings.Index(prompt[start:], `"`) + start
		title := prompt[start:end]
		return fmt.Sprintf(`{"professional": "pro %s", "atsOptimized": "ats %s"}`, title, title), nil
	}}
}

func threeSections() []types.ResumeSection {
	return []types.ResumeSection{
		{ID: "1", Title: "Summary", Content: "old summary"},
		{ID: "2", Title: "Experience", Content: "old experience"},
		{ID: "3", Title: "Skills", Content: "old skills"},
	}
}

func TestKindFor(t *testing.T) {
	tests := []struct {
		title string
		want  SectionKind
	}{
		{"Professional Summary", KindSummary},
		{"About Me", KindSummary},
		{"PROFILE", KindSummary},
		{"Work Experience", KindExperience},
		{"Employment History", KindExperience},
		{"Work Profile", KindSummary},
		{"Education", KindGeneral},
		{"", KindGeneral},
	}
	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			assert.Equal(t, tt.want, KindFor(tt.title))
		})
	}
}

func TestImproveSection_UsesRulesForKind(t *testing.T) {
	client := &MockLLMClient{}
	r := NewRewriter(client)

	_, err := r.ImproveSection(context.Background(), "Professional Summary", "I am passionate about code")
	require.NoError(t, err)
	_, err = r.ImproveSection(context.Background(), "Work History", "<ul><li>did stuff</li></ul>")
	require.NoError(t, err)
	_, err = r.ImproveSection(context.Background(), "Certifications", "AWS SA")
	require.NoError(t, err)

	prompts := client.Prompts()
	require.Len(t, prompts, 3)
	assert.Contains(t, prompts[0], "RULES FOR SUMMARY REWRITE")
	assert.Contains(t, prompts[0], "I am passionate about code")
	assert.Contains(t, prompts[1], "RULES FOR EXPERIENCE REWRITE")
	assert.Contains(t, prompts[2], "RULES FOR GENERAL SECTIONS")
}

func TestImproveSection_Errors(t *testing.T) {
	t.Run("model failure", func(t *testing.T) {
		client := &MockLLMClient{GenerateJSONFunc: func(context.Context, string, llm.ModelTier) (string, error) {
			return "", errors.New("timeout")
		}}
		_, err := NewRewriter(client).ImproveSection(context.Background(), "Skills", "Go")

		var apiErr *APICallError
		assert.True(t, errors.As(err, &apiErr))
	})

	t.Run("missing variant", func(t *testing.T) {
		client := &MockLLMClient{GenerateJSONFunc: func(context.Context, string, llm.ModelTier) (string, error) {
			return `{"professional": "only one"}`, nil
		}}
		_, err := NewRewriter(client).ImproveSection(context.Background(), "Skills", "Go")

		var parseErr *ParseError
		assert.True(t, errors.As(err, &parseErr))
	})

	t.Run("nil client", func(t *testing.T) {
		_, err := NewRewriter(nil).ImproveSection(context.Background(), "Skills", "Go")
		assert.Error(t, err)
	})
}

func TestRewriteAll_IsolatesFailures(t *testing.T) {
	input := threeSections()
	r := NewRewriter(byTitle("Experience"))

	result, err := r.RewriteAll(context.Background(), input, types.ModeATSOptimized)
	require.NoError(t, err)

	assert.Equal(t, 2, result.Rewritten)
	assert.Equal(t, 1, result.Failed)

	assert.Equal(t, "ats Summary", result.Sections[0].Content)
	assert.Equal(t, "old summary", result.Sections[0].OriginalContent)

	assert.Equal(t, "old experience", result.Sections[1].Content)
	assert.Empty(t, result.Sections[1].OriginalContent)
	assert.False(t, result.Outcomes[1].OK())
	assert.Equal(t, "2", result.Outcomes[1].SectionID)

	assert.Equal(t, "ats Skills", result.Sections[2].Content)

	// input untouched
	assert.Equal(t, threeSections(), input)
}

func TestRewriteAllWithProgress(t *testing.T) {
	var seen []Outcome
	result, err := NewRewriter(byTitle("Skills")).RewriteAllWithProgress(context.Background(), threeSections(), types.ModeATSOptimized, func(o Outcome) {
		seen = append(seen, o)
	})
	require.NoError(t, err)

	require.Len(t, seen, 3)
	ids := map[string]bool{}
	failed := 0
	for _, o := range seen {
		ids[o.SectionID] = true
		if !o.OK() {
			failed++
		}
	}
	assert.Equal(t, map[string]bool{"1": true, "2": true, "3": true}, ids)
	assert.Equal(t, 1, failed)
	assert.Equal(t, result.Failed, failed)
}

func TestRewriteAll_Professional(t *testing.T) {
	result, err := NewRewriter(byTitle()).RewriteAll(context.Background(), threeSections(), types.ModeProfessional)
	require.NoError(t, err)
	assert.Equal(t, "pro Skills", result.Sections[2].Content)
	assert.Equal(t, 0, result.Failed)
}

func TestRewriteAll_OriginalCapturedOnce(t *testing.T) {
	r := NewRewriter(byTitle())

	first, err := r.RewriteAll(context.Background(), threeSections(), types.ModeATSOptimized)
	require.NoError(t, err)
	second, err := r.RewriteAll(context.Background(), first.Sections, types.ModeProfessional)
	require.NoError(t, err)

	for i, s := range second.Sections {
		assert.Equal(t, threeSections()[i].Content, s.OriginalContent)
	}
	assert.Equal(t, "pro Summary", second.Sections[0].Content)
}

func TestRewriteAll_EmptyVariantKeepsContent(t *testing.T) {
	client := &MockLLMClient{GenerateJSONFunc: func(context.Context, string, llm.ModelTier) (string, error) {
		return `{"professional": "x", "atsOptimized": "  "}`, nil
	}}

	result, err := NewRewriter(client).RewriteAll(context.Background(), threeSections(), types.ModeATSOptimized)
	require.NoError(t, err)
	assert.Equal(t, 3, result.Failed)
	assert.Equal(t, threeSections(), result.Sections)
}

func TestRewriteAll_SetupErrors(t *testing.T) {
	_, err := NewRewriter(byTitle()).RewriteAll(context.Background(), threeSections(), types.RewriteMode("casual"))
	var batchErr *BatchError
	require.True(t, errors.As(err, &batchErr))

	_, err = NewRewriter(nil).RewriteAll(context.Background(), threeSections(), types.ModeProfessional)
	assert.True(t, errors.As(err, &batchErr))
}

func TestRewriteAll_RunsConcurrently(t *testing.T) {
	const n = 3
	var arrived sync.WaitGroup
	arrived.Add(n)
	release := make(chan struct{})
	go func() {
		arrived.Wait()
		close(release)
	}()

	client := &MockLLMClient{GenerateJSONFunc: func(context.Context, string, llm.ModelTier) (string, error) {
		arrived.Done()
		select {
		case <-release:
			return `{"professional": "p", "atsOptimized": "a"}`, nil
		case <-time.After(2 * time.Second):
			return "", errors.New("calls were serialized")
		}
	}}

	result, err := NewRewriter(client).RewriteAll(context.Background(), threeSections(), types.ModeATSOptimized)
	require.NoError(t, err)
	assert.Equal(t, n, result.Rewritten)
}

func TestRewriteAll_Empty(t *testing.T) {
	result, err := NewRewriter(byTitle()).RewriteAll(context.Background(), nil, types.ModeATSOptimized)
	require.NoError(t, err)
	assert.Empty(t, result.Sections)
}

func TestMergeInto_KeepsConcurrentEdits(t *testing.T) {
	base := threeSections()
	result, err := NewRewriter(byTitle("Skills")).RewriteAll(context.Background(), base, types.ModeATSOptimized)
	require.NoError(t, err)

	// while the batch ran: section 2 was edited by hand and a fourth section appeared
	current, err := UpdateSectionContent(base, "2", "hand edit")
	require.NoError(t, err)
	current = append(current, types.ResumeSection{ID: "4", Title: "Awards", Content: "none"})

	merged, stale := MergeInto(current, base, result.Outcomes)
	assert.Equal(t, 1, stale)
	require.Len(t, merged, 4)

	assert.Equal(t, "ats Summary", merged[0].Content)
	assert.Equal(t, "old summary", merged[0].OriginalContent)
	assert.Equal(t, "hand edit", merged[1].Content)
	assert.Empty(t, merged[1].OriginalContent)
	assert.Equal(t, "old skills", merged[2].Content)
	assert.Equal(t, "none", merged[3].Content)

	// current untouched
	assert.Equal(t, "old summary", current[0].Content)
}

func TestMergeInto_SectionRemoved(t *testing.T) {
	base := threeSections()
	result, err := NewRewriter(byTitle()).RewriteAll(context.Background(), base, types.ModeProfessional)
	require.NoError(t, err)

	merged, stale := MergeInto(base[:1], base, result.Outcomes)
	assert.Equal(t, 2, stale)
	require.Len(t, merged, 1)
	assert.Equal(t, "pro Summary", merged[0].Content)
}

func TestApplyAndRevert(t *testing.T) {
	s := types.ResumeSection{ID: "1", Title: "Skills", Content: "v0"}

	s = ApplyRewrite(s, "v1")
	assert.Equal(t, "v0", s.OriginalContent)
	s = ApplyRewrite(s, "v2")
	assert.Equal(t, "v0", s.OriginalContent)
	assert.Equal(t, "v2", s.Content)

	s = RevertSection(s)
	assert.Equal(t, "v0", s.Content)
	assert.Equal(t, "v0", s.OriginalContent)

	untouched := RevertSection(types.ResumeSection{ID: "2", Content: "c"})
	assert.Equal(t, "c", untouched.Content)
}

func TestSectionEditsByID(t *testing.T) {
	sections := threeSections()

	edited, err := UpdateSectionContent(sections, "2", "manual")
	require.NoError(t, err)
	assert.Equal(t, "manual", edited[1].Content)
	assert.Empty(t, edited[1].OriginalContent)
	assert.Equal(t, "old experience", sections[1].Content)

	applied, err := ApplyToSection(edited, "3", "new skills")
	require.NoError(t, err)
	assert.Equal(t, "old skills", applied[2].OriginalContent)

	reverted, err := RevertByID(applied, "3")
	require.NoError(t, err)
	assert.Equal(t, "old skills", reverted[2].Content)

	_, err = UpdateSectionContent(sections, "missing", "x")
	var notFound *SectionNotFoundError
	assert.True(t, errors.As(err, &notFound))
	_, err = ApplyToSection(sections, "missing", "x")
	assert.True(t, errors.As(err, &notFound))
	_, err = RevertByID(sections, "missing")
	assert.True(t, errors.As(err, &notFound))
}

func TestAssess(t *testing.T) {
	content := "<ul><li>Engineered a pipeline cutting cost by 30%</li><li>Responsible for the team</li></ul><p>Passionate about Go</p>"

	q := Assess("Experience", content)
	assert.Equal(t, KindExperience, q.Kind)
	assert.Equal(t, 2, q.Bullets)
	assert.Equal(t, 1, q.StrongVerbStarts)
	assert.Equal(t, 1, q.QuantifiedLines)
	assert.Equal(t, []string{"passionate about"}, q.FluffPhrases)
}
