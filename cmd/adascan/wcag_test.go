package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

// TestNewWCAGCmd tests the wcag command creation.
func TestNewWCAGCmd(t *testing.T) {
	t.Parallel()

	cmd := NewWCAGCmd()

	t.Run("has correct use", func(t *testing.T) {
		t.Parallel()
		if cmd.Use != "wcag [level|criterion-id]" {
			t.Errorf("expected use 'wcag [level|criterion-id]', got %q", cmd.Use)
		}
	})

	t.Run("has short description", func(t *testing.T) {
		t.Parallel()
		if cmd.Short == "" {
			t.Error("expected non-empty short description")
		}
	})

	t.Run("has json flag", func(t *testing.T) {
		t.Parallel()
		flag := cmd.Flags().Lookup("json")
		if flag == nil {
			t.Fatal("expected json flag")
		}
		if flag.Shorthand != "j" {
			t.Errorf("expected shorthand 'j', got %q", flag.Shorthand)
		}
	})
}

// TestRunWCAGCmd tests the wcag command execution.
func TestRunWCAGCmd(t *testing.T) {
	t.Parallel()

	t.Run("lists criteria for a level", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		cmd := NewWCAGCmd()
		cmd.SetOut(&buf)
		cmd.SetArgs([]string{"AA"})

		if err := cmd.Execute(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		if !strings.Contains(output, "WCAG Level AA") {
			t.Errorf("expected level header, got %q", output)
		}
		// Level AA listings include Level A criteria
		if !strings.Contains(output, "1.1.1") {
			t.Errorf("expected Level A criterion 1.1.1, got %q", output)
		}
		if !strings.Contains(output, "1.4.4") {
			t.Errorf("expected Level AA criterion 1.4.4, got %q", output)
		}
	})

	t.Run("accepts lowercase level", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		cmd := NewWCAGCmd()
		cmd.SetOut(&buf)
		cmd.SetArgs([]string{"aa"})

		if err := cmd.Execute(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), "WCAG Level AA") {
			t.Errorf("expected level header, got %q", buf.String())
		}
	})

	t.Run("shows criterion details", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		cmd := NewWCAGCmd()
		cmd.SetOut(&buf)
		cmd.SetArgs([]string{"1.1.1"})

		if err := cmd.Execute(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		if !strings.Contains(output, "WCAG 1.1.1") {
			t.Errorf("expected criterion header, got %q", output)
		}
		if !strings.Contains(output, "Non-text Content") {
			t.Errorf("expected criterion name, got %q", output)
		}
		if !strings.Contains(output, "Recommendation:") {
			t.Errorf("expected recommendation, got %q", output)
		}
	})

	t.Run("outputs criteria list as JSON", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		cmd := NewWCAGCmd()
		cmd.SetOut(&buf)
		cmd.SetArgs([]string{"--json", "A"})

		if err := cmd.Execute(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var items []map[string]any
		if err := json.Unmarshal(buf.Bytes(), &items); err != nil {
			t.Fatalf("output is not valid JSON: %v", err)
		}
		if len(items) == 0 {
			t.Error("expected at least one criterion in JSON output")
		}
	})

	t.Run("rejects unknown criterion", func(t *testing.T) {
		t.Parallel()
		cmd := NewWCAGCmd()
		cmd.SetOut(&bytes.Buffer{})
		cmd.SetErr(&bytes.Buffer{})
		cmd.SetArgs([]string{"9.9.9"})

		if err := cmd.Execute(); err == nil {
			t.Error("expected error for unknown criterion")
		}
	})

	t.Run("rejects invalid level", func(t *testing.T) {
		t.Parallel()
		cmd := NewWCAGCmd()
		cmd.SetOut(&bytes.Buffer{})
		cmd.SetErr(&bytes.Buffer{})
		cmd.SetArgs([]string{"B"})

		if err := cmd.Execute(); err == nil {
			t.Error("expected error for invalid level")
		}
	})
}
