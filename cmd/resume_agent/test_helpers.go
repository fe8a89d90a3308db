package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/jonathan/resume-auditor/internal/llm"
)

// getBinaryPath returns the path to the resume_agent binary for testing
func getBinaryPath(t *testing.T) string {
	binaryName := "resume_agent"
	if testing.Short() {
		t.Skip("Skipping CLI tests in short mode")
	}

	binaryPath := filepath.Join("..", "..", "bin", binaryName)
	if _, err := os.Stat(binaryPath); os.IsNotExist(err) {
		t.Skipf("Binary not found at %s, build it first with 'make build'", binaryPath)
	}

	return binaryPath
}

// MockLLMClient implements llm.Client for testing, answering per model tier.
type MockLLMClient struct {
	Responses map[llm.ModelTier]string
}

func (m *MockLLMClient) GenerateJSON(_ context.Context, _ string, tier llm.ModelTier, _ ...llm.CallOption) (string, error) {
	if resp, ok := m.Responses[tier]; ok {
		return resp, nil
	}
	return "", errors.New("no response configured")
}

func (m *MockLLMClient) GetModel(_ llm.ModelTier) string { return "mock-model" }

func (m *MockLLMClient) Close() error { return nil }

// useMockClient routes every command's model calls to client for the duration of the test.
func useMockClient(t *testing.T, client llm.Client) {
	t.Helper()
	t.Setenv("GEMINI_API_KEY", "test-key")
	prev := newLLMClient
	newLLMClient = func(context.Context, string) (llm.Client, error) { return client, nil }
	t.Cleanup(func() { newLLMClient = prev })
}

// execute runs the root command in-process with flags reset to their defaults.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	for _, cmd := range rootCmd.Commands() {
		resetFlags(cmd)
	}
	rootCmd.PersistentFlags().VisitAll(func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	})

	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return buf.String(), err
}

func resetFlags(cmd *cobra.Command) {
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	})
}

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}
