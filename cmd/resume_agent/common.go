package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-auditor/internal/llm"
	"github.com/jonathan/resume-auditor/internal/session"
)

// newLLMClient is replaced in tests.
var newLLMClient = func(ctx context.Context, apiKey string) (llm.Client, error) {
	return llm.NewClient(ctx, llm.ConfigFromEnv(), apiKey)
}

// openClient resolves the API key from the flag or GEMINI_API_KEY and opens a client.
func openClient(ctx context.Context, flagKey string) (llm.Client, error) {
	apiKey := flagKey
	if apiKey == "" {
		apiKey = os.Getenv("GEMINI_API_KEY")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required (set GEMINI_API_KEY environment variable or use --api-key flag)")
	}
	return newLLMClient(ctx, apiKey)
}

func markRequired(cmd *cobra.Command, names ...string) {
	for _, name := range names {
		if err := cmd.MarkFlagRequired(name); err != nil {
			panic(fmt.Sprintf("failed to mark %s flag as required: %v", name, err))
		}
	}
}

// readState loads a session snapshot written by analyze. A snapshot without an
// analysis is rejected since every later command needs one.
func readState(path string) (session.State, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return session.State{}, fmt.Errorf("failed to read state file: %w", err)
	}
	state := session.Decode(data)
	if state.Analysis == nil {
		return session.State{}, fmt.Errorf("state file %s has no analysis; run 'resume_agent analyze' first", path)
	}
	return state, nil
}

// writeState saves a session snapshot, creating the directory if needed.
func writeState(path string, state session.State) error {
	data, err := session.Encode(state)
	if err != nil {
		return fmt.Errorf("failed to encode state: %w", err)
	}
	return writeFile(path, data)
}

func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return nil
}
