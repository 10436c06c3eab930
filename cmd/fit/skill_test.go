// ABOUTME: Tests for the install-skill command.
// ABOUTME: Validates skill installation, confirmation, and file content.

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSkillFSReadEmbeddedContent(t *testing.T) {
	content, err := skillFS.ReadFile("skill/SKILL.md")
	if err != nil {
		t.Fatalf("Failed to read embedded skill: %v", err)
	}

	for _, marker := range []string{"name: fit", "fit log", "fit dashboard", "log_workout"} {
		if !strings.Contains(string(content), marker) {
			t.Errorf("Embedded skill missing %q", marker)
		}
	}
}

func TestSkillInstallWithConfirmation(t *testing.T) {
	skillSkipConfirm = false
	skillDir := filepath.Join(t.TempDir(), ".claude", "skills", "fit")

	var out bytes.Buffer
	if err := installSkill(skillDir, strings.NewReader("y\n"), &out); err != nil {
		t.Fatalf("installSkill failed: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(skillDir, "SKILL.md"))
	if err != nil {
		t.Fatalf("Skill file not created: %v", err)
	}
	embedded, _ := skillFS.ReadFile("skill/SKILL.md")
	if !bytes.Equal(data, embedded) {
		t.Error("Installed skill does not match embedded content")
	}
}

func TestSkillInstallCanceled(t *testing.T) {
	skillSkipConfirm = false
	skillDir := filepath.Join(t.TempDir(), "fit")

	var out bytes.Buffer
	if err := installSkill(skillDir, strings.NewReader("n\n"), &out); err != nil {
		t.Fatalf("installSkill failed: %v", err)
	}

	if !strings.Contains(out.String(), "Installation canceled.") {
		t.Errorf("Expected cancel message, got: %s", out.String())
	}
	if _, err := os.Stat(skillDir); !os.IsNotExist(err) {
		t.Error("Skill directory should not exist after cancel")
	}
}

func TestSkillInstallOverwritesExistingFile(t *testing.T) {
	skillSkipConfirm = true
	defer func() { skillSkipConfirm = false }()

	skillDir := t.TempDir()
	skillPath := filepath.Join(skillDir, "SKILL.md")
	if err := os.WriteFile(skillPath, []byte("old"), 0600); err != nil {
		t.Fatalf("Failed to write old skill: %v", err)
	}

	var out bytes.Buffer
	if err := installSkill(skillDir, strings.NewReader(""), &out); err != nil {
		t.Fatalf("installSkill failed: %v", err)
	}

	if !strings.Contains(out.String(), "already exists") {
		t.Error("Expected overwrite note")
	}
	data, _ := os.ReadFile(skillPath)
	if string(data) == "old" {
		t.Error("Skill file was not overwritten")
	}
}

func TestSkillInstallFilePermissions(t *testing.T) {
	skillSkipConfirm = true
	defer func() { skillSkipConfirm = false }()

	skillDir := filepath.Join(t.TempDir(), "nested", "fit")
	if err := installSkill(skillDir, strings.NewReader(""), &bytes.Buffer{}); err != nil {
		t.Fatalf("installSkill failed: %v", err)
	}

	info, err := os.Stat(filepath.Join(skillDir, "SKILL.md"))
	if err != nil {
		t.Fatalf("Stat failed: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("Expected 0600, got %o", perm)
	}
}
