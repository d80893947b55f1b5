package pbxproj

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const fixture = "testdata/Runner.xcodeproj/project.pbxproj"

// openFixture copies the Runner fixture into a temp dir and opens it.
func openFixture(t *testing.T) *PbxProject {
	t.Helper()
	data, err := os.ReadFile(fixture)
	if err != nil {
		t.Fatalf("reading fixture: %v", err)
	}
	dir := filepath.Join(t.TempDir(), "Runner.xcodeproj")
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, PROJECT_FILE_NAME), data, 0644); err != nil {
		t.Fatal(err)
	}
	project, err := Open(dir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	return project
}

func render(t *testing.T, p *PbxProject) string {
	t.Helper()
	out, err := NewPbxWriter(p).Render()
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	return out
}

func TestRoundTripIsByteIdentical(t *testing.T) {
	project := openFixture(t)
	want, err := os.ReadFile(fixture)
	if err != nil {
		t.Fatal(err)
	}
	if err := project.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := os.ReadFile(project.FilePath())
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, want) {
		gotLines := strings.Split(string(got), "\n")
		wantLines := strings.Split(string(want), "\n")
		for i := range wantLines {
			if i >= len(gotLines) || gotLines[i] != wantLines[i] {
				t.Fatalf("line %d differs:\n got: %q\nwant: %q", i+1, lineAt(gotLines, i), wantLines[i])
			}
		}
		t.Fatalf("output has %d lines, want %d", len(gotLines), len(wantLines))
	}
}

func lineAt(lines []string, i int) string {
	if i < len(lines) {
		return lines[i]
	}
	return "<missing>"
}

func TestResolvePath(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		in   string
		want string
	}{
		{"Runner.xcodeproj", filepath.Join("Runner.xcodeproj", PROJECT_FILE_NAME)},
		{dir, filepath.Join(dir, PROJECT_FILE_NAME)},
		{"ios/Runner.xcodeproj/project.pbxproj", "ios/Runner.xcodeproj/project.pbxproj"},
	}
	for _, tt := range tests {
		if got := ResolvePath(tt.in); got != tt.want {
			t.Errorf("ResolvePath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestOpenErrors(t *testing.T) {
	dir := t.TempDir()
	if _, err := Open(filepath.Join(dir, "missing.pbxproj")); err == nil {
		t.Error("Open on a missing file should fail")
	}

	noObjects := filepath.Join(dir, "empty.pbxproj")
	if err := os.WriteFile(noObjects, []byte("// !$*UTF8*$!\n{\n\tarchiveVersion = 1;\n}\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Open(noObjects); !errors.Is(err, ErrInvalidProject) {
		t.Errorf("err = %v, want ErrInvalidProject", err)
	}

	garbage := filepath.Join(dir, "garbage.pbxproj")
	if err := os.WriteFile(garbage, []byte("{ a = "), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Open(garbage); err == nil || !strings.Contains(err.Error(), "garbage.pbxproj") {
		t.Errorf("err = %v, want parse error naming the file", err)
	}
}

func TestTargetByName(t *testing.T) {
	project := openFixture(t)
	runner, found := project.TargetByName("Runner")
	if !found {
		t.Fatal("Runner target not found")
	}
	if runner.UUID != "97C146ED1CF9000F007C117D" {
		t.Errorf("Runner uuid = %s", runner.UUID)
	}
	if _, found := project.TargetByName("Share Extension"); found {
		t.Error("unexpected Share Extension target")
	}
	if len(project.Targets()) != 1 {
		t.Errorf("Targets() = %d, want 1", len(project.Targets()))
	}
}

func TestGenerateUuidIsUnique(t *testing.T) {
	project := openFixture(t)
	seen := map[string]bool{}
	for i := 0; i < 200; i++ {
		id := project.generateUuid()
		if len(id) != 24 || strings.ToUpper(id) != id {
			t.Fatalf("uuid %q is not 24 upper-case hex characters", id)
		}
		if seen[id] {
			t.Fatalf("duplicate uuid %s", id)
		}
		seen[id] = true
	}
	if _, taken := project.uuids["97C146ED1CF9000F007C117D"]; !taken {
		t.Error("existing object ids should be reserved")
	}
}

func TestAddTargetAttribute(t *testing.T) {
	project := openFixture(t)
	runner, _ := project.TargetByName("Runner")
	if err := project.AddTargetAttribute("DevelopmentTeam", "Z8C46829M8", runner); err != nil {
		t.Fatal(err)
	}
	attrs := project.getFirstProject().GetObject("attributes").GetObject("TargetAttributes").GetObject(runner.UUID)
	var order []string
	for _, item := range attrs.Items() {
		order = append(order, item.Key())
	}
	if strings.Join(order, ",") != "CreatedOnToolsVersion,DevelopmentTeam,LastSwiftMigration" {
		t.Errorf("attribute order = %v", order)
	}
}

func TestDumpFormats(t *testing.T) {
	project := openFixture(t)
	var js, ym bytes.Buffer
	if err := project.Dump(&js); err != nil {
		t.Fatalf("Dump: %v", err)
	}
	if !strings.Contains(js.String(), `"rootObject": "97C146E61CF9000F007C117D"`) {
		t.Error("JSON dump is missing rootObject")
	}
	if err := project.DumpYAML(&ym); err != nil {
		t.Fatalf("DumpYAML: %v", err)
	}
	out := ym.String()
	if !strings.HasPrefix(out, "headComment:") || !strings.Contains(out, "rootObject: 97C146E61CF9000F007C117D") {
		t.Errorf("YAML dump:\n%.300s", out)
	}
}

func TestWriterOptions(t *testing.T) {
	project := openFixture(t)
	project.Contents().GetObject("project").Set("scratch", "")

	var b strings.Builder
	out, err := NewPbxWriter(project, WithStringWriter(&b), WithOmitEmpty()).Render()
	if err != nil {
		t.Fatal(err)
	}
	if out != b.String() || strings.Contains(out, "scratch") {
		t.Error("empty value written or custom writer unused")
	}
	if !strings.Contains(render(t, project), "\tscratch = ;\n") {
		t.Error("empty value should be written without WithOmitEmpty")
	}

	project.Contents().GetObject("project").Set("broken", 1.5)
	if _, err := NewPbxWriter(project).Render(); err == nil {
		t.Error("unsupported value types should fail")
	}
}
