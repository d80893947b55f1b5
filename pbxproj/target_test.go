package pbxproj

import (
	"errors"
	"strings"
	"testing"
)

func TestNewTarget(t *testing.T) {
	project := openFixture(t)
	target, err := project.NewTarget("Share Extension", "app_extension", "ios", "13.0")
	if err != nil {
		t.Fatalf("NewTarget: %v", err)
	}

	found, ok := project.TargetByName("Share Extension")
	if !ok || found.UUID != target.UUID {
		t.Fatalf("TargetByName = %v, %v", found.UUID, ok)
	}
	if got := target.GetString("productType"); got != `"com.apple.product-type.app-extension"` {
		t.Errorf("productType = %s", got)
	}

	configs, err := project.BuildConfigurations(target.UUID)
	if err != nil {
		t.Fatal(err)
	}
	var names []string
	for _, config := range configs {
		names = append(names, unquoted(config.GetString("name")))
	}
	if strings.Join(names, ",") != "Debug,Release,Profile" {
		t.Errorf("configurations = %v, want the project's", names)
	}
	if got := project.GetBuildProperty("IPHONEOS_DEPLOYMENT_TARGET", "Debug", "Share Extension"); len(got) != 1 || got[0] != "13.0" {
		t.Errorf("IPHONEOS_DEPLOYMENT_TARGET = %v", got)
	}

	product := project.section("PBXFileReference").GetObject(target.GetString("productReference"))
	if got := unquoted(product.GetString("path")); got != "Share Extension.appex" {
		t.Errorf("product path = %q", got)
	}
	if got := product.GetString("sourceTree"); got != DEFAULT_PRODUCT_SOURCETREE {
		t.Errorf("product sourceTree = %q", got)
	}
	products := project.pbxGroupByName("Products")
	if n := len(products.GetArray("children")); n != 2 {
		t.Errorf("Products children = %d, want 2", n)
	}

	phases, err := project.BuildPhases(target.UUID)
	if err != nil {
		t.Fatal(err)
	}
	var phaseNames []string
	for _, phase := range phases {
		phaseNames = append(phaseNames, BuildPhaseDisplayName(phase.Object))
	}
	if strings.Join(phaseNames, ",") != "Sources,Frameworks,Resources" {
		t.Errorf("phases = %v", phaseNames)
	}

	deps, _ := project.TargetDependencies(target.UUID)
	if len(deps) != 0 {
		t.Errorf("new target has dependencies %v", deps)
	}
}

func TestNewTargetRejectsBadInput(t *testing.T) {
	project := openFixture(t)
	tests := []struct {
		name, typ string
	}{
		{"  ", "app_extension"},
		{"X", ""},
		{"X", "widget"},
	}
	for _, tt := range tests {
		if _, err := project.NewTarget(tt.name, tt.typ, "ios", "13.0"); err == nil {
			t.Errorf("NewTarget(%q, %q) should fail", tt.name, tt.typ)
		}
	}
	if len(project.Targets()) != 1 {
		t.Error("failed NewTarget calls must not register targets")
	}
}

func TestSetBuildSetting(t *testing.T) {
	project := openFixture(t)
	runner, _ := project.TargetByName("Runner")

	if err := project.SetBuildSetting(runner.UUID, "CUSTOM_GROUP_ID", "group.ca.deobald.kaya"); err != nil {
		t.Fatal(err)
	}
	if err := project.SetBuildSetting(runner.UUID, "LD_RUNPATH_SEARCH_PATHS", []string{"$(inherited)", "@executable_path/../../Frameworks"}); err != nil {
		t.Fatal(err)
	}

	for _, build := range []string{"Debug", "Release", "Profile"} {
		got := project.GetBuildProperty("CUSTOM_GROUP_ID", build, "Runner")
		if len(got) != 1 || got[0] != "group.ca.deobald.kaya" {
			t.Errorf("%s CUSTOM_GROUP_ID = %v", build, got)
		}
		paths := project.GetBuildProperty("LD_RUNPATH_SEARCH_PATHS", build, "Runner")
		if len(paths) != 2 || paths[1] != "@executable_path/../../Frameworks" {
			t.Errorf("%s LD_RUNPATH_SEARCH_PATHS = %v", build, paths)
		}
	}

	configs, _ := project.BuildConfigurations(runner.UUID)
	settings := configs[0].GetObject("buildSettings")
	var prev string
	for _, item := range settings.Items() {
		if item.Key() < prev {
			t.Errorf("build settings out of order: %s after %s", item.Key(), prev)
		}
		prev = item.Key()
	}
	if !strings.Contains(render(t, project), "\t\t\t\tLD_RUNPATH_SEARCH_PATHS = (\n\t\t\t\t\t\"$(inherited)\",\n\t\t\t\t\t\"@executable_path/../../Frameworks\",\n\t\t\t\t);\n") {
		t.Error("LD_RUNPATH_SEARCH_PATHS not written as a quoted list")
	}

	if err := project.SetBuildSetting("000000000000000000000000", "X", "Y"); !errors.Is(err, ErrTargetNotFound) {
		t.Errorf("err = %v, want ErrTargetNotFound", err)
	}
}

func TestGetBuildPropertyWithoutTarget(t *testing.T) {
	project := openFixture(t)
	if got := project.GetBuildProperty("INFOPLIST_FILE", "", ""); len(got) != 1 || got[0] != "Runner/Info.plist" {
		t.Errorf("INFOPLIST_FILE = %v", got)
	}
	if got := project.GetBuildProperty("INFOPLIST_FILE", "", "Nope"); got != nil {
		t.Errorf("unknown target = %v", got)
	}
}

func TestAddTargetDependency(t *testing.T) {
	project := openFixture(t)
	runner, _ := project.TargetByName("Runner")
	ext, err := project.NewTarget("Share Extension", "app_extension", "ios", "13.0")
	if err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 2; i++ {
		if err := project.AddTargetDependency(runner.UUID, []string{ext.UUID}); err != nil {
			t.Fatalf("AddTargetDependency: %v", err)
		}
	}
	deps, err := project.TargetDependencies(runner.UUID)
	if err != nil {
		t.Fatal(err)
	}
	if len(deps) != 1 || deps[0] != ext.UUID {
		t.Fatalf("dependencies = %v, want exactly [%s]", deps, ext.UUID)
	}

	out := render(t, project)
	for _, want := range []string{
		"/* Begin PBXContainerItemProxy section */",
		"/* Begin PBXTargetDependency section */",
		"proxyType = 1;",
		`remoteInfo = "Share Extension";`,
		"containerPortal = 97C146E61CF9000F007C117D /* Project object */;",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output is missing %q", want)
		}
	}
	if strings.Index(out, "PBXContainerItemProxy section") > strings.Index(out, "PBXCopyFilesBuildPhase section") {
		t.Error("new sections should be inserted in alphabetical order")
	}

	if err := project.AddTargetDependency(runner.UUID, []string{"000000000000000000000000"}); !errors.Is(err, ErrTargetNotFound) {
		t.Errorf("err = %v, want ErrTargetNotFound", err)
	}
}

func TestNewTargetSurvivesRoundTrip(t *testing.T) {
	project := openFixture(t)
	if _, err := project.NewTarget("Share Extension", "app_extension", "ios", "13.0"); err != nil {
		t.Fatal(err)
	}
	first := render(t, project)
	if err := project.Save(); err != nil {
		t.Fatal(err)
	}
	reopened, err := Open(project.FilePath())
	if err != nil {
		t.Fatalf("reopening saved project: %v", err)
	}
	if second := render(t, reopened); second != first {
		t.Error("saved project does not parse back to the same document")
	}
	if _, found := reopened.TargetByName("Share Extension"); !found {
		t.Error("Share Extension missing after reopen")
	}
}
