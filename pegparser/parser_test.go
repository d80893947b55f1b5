package pegparser

import (
	"errors"
	"strings"
	"testing"

	"go.yaml.in/yaml/v3"
)

const sample = `// !$*UTF8*$!
{
	archiveVersion = 1;
	objectVersion = 54;
	objects = {

/* Begin PBXBuildFile section */
		AAAAAAAAAAAAAAAAAAAAAAA1 /* main.swift in Sources */ = {isa = PBXBuildFile; fileRef = AAAAAAAAAAAAAAAAAAAAAAA2 /* main.swift */; };
/* End PBXBuildFile section */

/* Begin PBXFileReference section */
		AAAAAAAAAAAAAAAAAAAAAAA2 /* main.swift */ = {isa = PBXFileReference; lastKnownFileType = sourcecode.swift; path = "My App/main.swift"; sourceTree = "<group>"; };
/* End PBXFileReference section */

/* Begin XCBuildConfiguration section */
		AAAAAAAAAAAAAAAAAAAAAAA3 /* Debug */ = {
			isa = XCBuildConfiguration;
			buildSettings = {
				LD_RUNPATH_SEARCH_PATHS = (
					"$(inherited)",
					"@executable_path/Frameworks",
				);
				SWIFT_VERSION = 5.0;
			};
			name = Debug;
		};
/* End XCBuildConfiguration section */
	};
	rootObject = AAAAAAAAAAAAAAAAAAAAAAA4 /* Project object */;
}
`

func mustParse(t *testing.T, src string) Object {
	t.Helper()
	v, err := ParseReader("sample.pbxproj", strings.NewReader(src))
	if err != nil {
		t.Fatalf("ParseReader: %v", err)
	}
	return v.(Object)
}

func TestParseDocument(t *testing.T) {
	doc := mustParse(t, sample)
	if got := doc.GetString("headComment"); got != "!$*UTF8*$!" {
		t.Errorf("headComment = %q", got)
	}

	project := doc.GetObject("project")
	if got := project.GetInt("archiveVersion"); got != 1 {
		t.Errorf("archiveVersion = %d", got)
	}
	if got := project.GetString("rootObject" + COMMENT_KEY_SUFFIX); got != "Project object" {
		t.Errorf("rootObject comment = %q", got)
	}

	objects := project.GetObject("objects")
	var sections []string
	objects.Foreach(func(key string, _ interface{}) IterateActionType {
		sections = append(sections, key)
		return IterateActionContinue
	})
	if strings.Join(sections, ",") != "PBXBuildFile,PBXFileReference,XCBuildConfiguration" {
		t.Errorf("sections = %v", sections)
	}

	fileRefs := objects.GetObject("PBXFileReference")
	if got := fileRefs.GetString("AAAAAAAAAAAAAAAAAAAAAAA2" + COMMENT_KEY_SUFFIX); got != "main.swift" {
		t.Errorf("file reference comment = %q", got)
	}
	ref := fileRefs.GetObject("AAAAAAAAAAAAAAAAAAAAAAA2")
	if got := ref.GetString("path"); got != `"My App/main.swift"` {
		t.Errorf("path = %s, want raw quoted token", got)
	}

	buildFile := objects.GetObject("PBXBuildFile").GetObject("AAAAAAAAAAAAAAAAAAAAAAA1")
	if got := buildFile.GetString("fileRef" + COMMENT_KEY_SUFFIX); got != "main.swift" {
		t.Errorf("fileRef comment = %q", got)
	}
}

func TestParseScalars(t *testing.T) {
	doc := mustParse(t, sample)
	config := doc.GetObject("project").GetObject("objects").GetObject("XCBuildConfiguration").GetObject("AAAAAAAAAAAAAAAAAAAAAAA3")
	settings := config.GetObject("buildSettings")

	if got := settings.GetString("SWIFT_VERSION"); got != "5.0" {
		t.Errorf("SWIFT_VERSION = %q, want the literal kept as text", got)
	}
	paths := settings.GetArray("LD_RUNPATH_SEARCH_PATHS")
	if len(paths) != 2 || paths[0] != `"$(inherited)"` {
		t.Errorf("LD_RUNPATH_SEARCH_PATHS = %v", paths)
	}
}

func TestParseArrayComments(t *testing.T) {
	doc := mustParse(t, `{ targets = ( A /* Runner */, B, ); }`)
	targets := doc.GetObject("project").GetArray("targets")
	if len(targets) != 2 {
		t.Fatalf("targets = %v", targets)
	}
	first, ok := targets[0].(Object)
	if !ok {
		t.Fatalf("commented entry is %T, want Object", targets[0])
	}
	if first.GetString("value") != "A" || first.GetString("comment") != "Runner" {
		t.Errorf("first = %v/%v", first.GetString("value"), first.GetString("comment"))
	}
	if targets[1] != "B" {
		t.Errorf("second = %v", targets[1])
	}
}

func TestToInt(t *testing.T) {
	tests := []struct {
		lit  string
		want bool
	}{
		{"0", true},
		{"1300", true},
		{"2147483647", false},
		{"0755", false},
		{"5.0", false},
		{"97C146E61CF9000F007C117D", false},
		{"-1", false},
	}
	for _, tt := range tests {
		if _, ok := toInt(tt.lit); ok != tt.want {
			t.Errorf("toInt(%q) ok = %v, want %v", tt.lit, ok, tt.want)
		}
	}
}

func TestParseErrors(t *testing.T) {
	tests := map[string]string{
		"unterminated dict":   "{ a = 1;",
		"missing semicolon":   "{ a = 1 }",
		"unterminated string": `{ a = "x; }`,
		"trailing content":    "{ } }",
		"not a dictionary":    "( a )",
		"open comment":        "{ a = 1 /* x ; }",
	}
	for name, src := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Parse("bad.pbxproj", []byte(src))
			var perr *ParseError
			if !errors.As(err, &perr) {
				t.Fatalf("err = %v, want *ParseError", err)
			}
			if perr.Line != 1 || !strings.HasPrefix(perr.Error(), "bad.pbxproj:1:") {
				t.Errorf("err = %v", perr)
			}
		})
	}
}

func TestMarshalYAMLKeepsOrder(t *testing.T) {
	obj := NewObjectWithData([]ObjectItem{
		NewObjectItem("zeta", "1"),
		NewObjectItem("alpha", 2),
		NewObjectItem("list", []interface{}{"x"}),
	})
	out, err := yaml.Marshal(obj)
	if err != nil {
		t.Fatalf("yaml.Marshal: %v", err)
	}
	want := "zeta: \"1\"\nalpha: 2\nlist:\n    - x\n"
	if string(out) != want {
		t.Errorf("yaml =\n%s\nwant\n%s", out, want)
	}
}

func TestObjectGettersOnMissingKeys(t *testing.T) {
	var zero Object
	if !zero.IsEmpty() || zero.GetString("x") != "" || zero.GetInt("x") != 0 || zero.GetArray("x") != nil {
		t.Error("zero Object getters should return zero values")
	}
	if !zero.GetObject("x").IsEmpty() {
		t.Error("GetObject on zero Object should be empty")
	}
}
