package main

import (
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCommands_MissingRequiredFlags(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping CLI tests in short mode")
	}

	binaryPath := getBinaryPath(t)

	tests := []struct {
		name    string
		args    []string
		missing string
	}{
		{"analyze without file", []string{"analyze", "--state", "s.json"}, `"file"`},
		{"analyze without state", []string{"analyze", "--file", "r.pdf"}, `"state"`},
		{"score without state", []string{"score"}, `"state"`},
		{"improve without section", []string{"improve", "--state", "s.json"}, `"section"`},
		{"rewrite without state", []string{"rewrite", "--mode", "professional"}, `"state"`},
		{"export without state", []string{"export", "--format", "txt"}, `"state"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := exec.Command(binaryPath, tt.args...)
			output, err := cmd.CombinedOutput()

			assert.Error(t, err)
			assert.Contains(t, string(output), "required flag(s)")
			assert.Contains(t, string(output), tt.missing)
		})
	}
}

func TestMatchCommand_JobFlagGroup(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping CLI tests in short mode")
	}

	binaryPath := getBinaryPath(t)

	output, err := exec.Command(binaryPath, "match", "--state", "s.json").CombinedOutput()
	assert.Error(t, err)
	assert.Contains(t, string(output), "at least one of the flags in the group [job job-url] is required")

	output, err = exec.Command(binaryPath, "match", "--state", "s.json", "--job", "j.txt", "--job-url", "https://example.com").CombinedOutput()
	assert.Error(t, err)
	assert.Contains(t, string(output), "none of the others can be")
}

func TestRewriteCommand_MissingStateFile(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping CLI tests in short mode")
	}

	binaryPath := getBinaryPath(t)

	cmd := exec.Command(binaryPath, "rewrite", "--state", "/nonexistent/state.json")
	output, err := cmd.CombinedOutput()

	assert.Error(t, err)
	assert.Contains(t, string(output), "failed to read state file")
}
