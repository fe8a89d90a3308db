package prompts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet_ValidPrompt(t *testing.T) {
	ClearCache()

	prompt, err := Get(AnalysisFile, "analyze-resume")
	require.NoError(t, err)
	assert.Contains(t, prompt, "{{.ResumeText}}")
}

func TestGet_InvalidFile(t *testing.T) {
	ClearCache()

	_, err := Get("nonexistent.json", "some-key")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read prompt file")
}

func TestGet_InvalidKey(t *testing.T) {
	ClearCache()

	_, err := Get(RewritingFile, "nonexistent-key")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestMustGet_Panics(t *testing.T) {
	ClearCache()

	assert.Panics(t, func() {
		MustGet("nonexistent.json", "some-key")
	})
}

func TestAllPromptFilesLoad(t *testing.T) {
	ClearCache()

	expected := map[string][]string{
		AnalysisFile:  {"analyze-resume", "system"},
		RewritingFile: {"improve-section", "rules-experience", "rules-general", "rules-summary"},
		MatchingFile:  {"match-job"},
	}
	for file, keys := range expected {
		got, err := List(file)
		require.NoError(t, err, file)
		assert.Equal(t, keys, got, file)
	}
}

func TestFormat(t *testing.T) {
	template := "Hello {{.Name}}, welcome to {{.Company}}!"
	data := map[string]string{
		"Name":    "Alice",
		"Company": "Acme Corp",
	}

	assert.Equal(t, "Hello Alice, welcome to Acme Corp!", Format(template, data))
}

func TestFormat_EmptyData(t *testing.T) {
	assert.Equal(t, "Hello {{.Name}}", Format("Hello {{.Name}}", map[string]string{}))
}

func TestFormat_DoesNotExpandSubstitutedValues(t *testing.T) {
	template := "A={{.A}} B={{.B}}"
	data := map[string]string{"A": "{{.B}}", "B": "b"}

	assert.Equal(t, "A={{.B}} B=b", Format(template, data))
}

func TestFormat_UnterminatedPlaceholder(t *testing.T) {
	assert.Equal(t, "x {{.Name", Format("x {{.Name", map[string]string{"Name": "y"}))
}

func TestRender_MissingValue(t *testing.T) {
	ClearCache()

	_, err := Render(RewritingFile, "improve-section", map[string]string{"Title": "Skills"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Content")
	assert.Contains(t, err.Error(), "Rules")
}

func TestRender_Complete(t *testing.T) {
	ClearCache()

	out, err := Render(MatchingFile, "match-job", map[string]string{
		"JobDescription": "Senior Go engineer",
		"ResumeText":     "Built services",
		"Sections":       `[{"id":"s1"}]`,
	})
	require.NoError(t, err)
	assert.Contains(t, out, "Senior Go engineer")
	assert.NotContains(t, out, "{{.")
}

func TestCaching(t *testing.T) {
	ClearCache()

	prompt1, err := Get(MatchingFile, "match-job")
	require.NoError(t, err)
	prompt2, err := Get(MatchingFile, "match-job")
	require.NoError(t, err)

	assert.Equal(t, prompt1, prompt2)
}
