package pbxproj

import (
	"errors"
	"strings"
	"testing"
)

func TestMainGroupChildByName(t *testing.T) {
	project := openFixture(t)

	if group, found := project.MainGroupChildByName("Flutter"); !found || group.UUID != "9740EEB11CF90186004384FC" {
		t.Errorf("Flutter = %v, %v", group.UUID, found)
	}
	// the Runner group only has a path attribute
	if _, found := project.MainGroupChildByName("Runner"); found {
		t.Error("groups without a name attribute should not match")
	}
	if _, found := project.MainGroupChildByName("Share Extension"); found {
		t.Error("unexpected Share Extension group")
	}
}

func TestNewGroupAndFileReference(t *testing.T) {
	project := openFixture(t)
	mainGroup, err := project.MainGroup()
	if err != nil {
		t.Fatal(err)
	}

	group, err := project.NewGroup(mainGroup.UUID, "Share Extension", "Share Extension")
	if err != nil {
		t.Fatal(err)
	}
	found, ok := project.MainGroupChildByName("Share Extension")
	if !ok || found.UUID != group.UUID {
		t.Fatalf("MainGroupChildByName = %v, %v", found.UUID, ok)
	}

	tests := []struct {
		path     string
		fileType string
	}{
		{"ShareViewController.swift", "sourcecode.swift"},
		{"MainInterface.storyboard", "file.storyboard"},
		{"Info.plist", "text.plist.xml"},
		{"Share Extension.entitlements", "text.plist.entitlements"},
	}
	for _, tt := range tests {
		ref, err := project.NewFileReference(group.UUID, tt.path)
		if err != nil {
			t.Fatal(err)
		}
		if got := unquoted(ref.GetString("lastKnownFileType")); got != tt.fileType {
			t.Errorf("%s lastKnownFileType = %q, want %q", tt.path, got, tt.fileType)
		}
		if got := FileReferencePath(ref.Object); got != tt.path {
			t.Errorf("path = %q, want %q", got, tt.path)
		}
	}

	files, err := project.GroupFiles(group.UUID)
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 4 {
		t.Errorf("GroupFiles = %d, want 4", len(files))
	}

	out := render(t, project)
	if !strings.Contains(out, `path = "Share Extension.entitlements"; sourceTree = "<group>"; };`) {
		t.Error("entitlements reference not written inline with a quoted path")
	}
	if !strings.Contains(out, "\t\t\tname = \"Share Extension\";\n\t\t\tpath = \"Share Extension\";\n\t\t\tsourceTree = \"<group>\";\n") {
		t.Error("group attributes not written")
	}
}

func TestSetFilePath(t *testing.T) {
	project := openFixture(t)
	if err := project.SetFilePath("74858FAE1ED2DC5600515810", "Classes/AppDelegate.swift"); err != nil {
		t.Fatal(err)
	}
	ref := project.section("PBXFileReference").GetObject("74858FAE1ED2DC5600515810")
	if got := FileReferencePath(ref); got != "Classes/AppDelegate.swift" {
		t.Errorf("path = %q", got)
	}
	if err := project.SetFilePath("000000000000000000000000", "x"); !errors.Is(err, ErrObjectNotFound) {
		t.Errorf("err = %v, want ErrObjectNotFound", err)
	}
}

func TestGroupErrors(t *testing.T) {
	project := openFixture(t)
	if _, err := project.NewGroup("000000000000000000000000", "x", ""); !errors.Is(err, ErrGroupNotFound) {
		t.Errorf("NewGroup err = %v", err)
	}
	if _, err := project.NewFileReference("000000000000000000000000", "x.swift"); !errors.Is(err, ErrGroupNotFound) {
		t.Errorf("NewFileReference err = %v", err)
	}
	if _, err := project.GroupFiles("000000000000000000000000"); !errors.Is(err, ErrGroupNotFound) {
		t.Errorf("GroupFiles err = %v", err)
	}
}
