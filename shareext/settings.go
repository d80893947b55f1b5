// Package shareext adds an iOS share extension target to a Flutter Runner
// project and repairs the file paths of its group.
package shareext

import "path"

const (
	EmbedPhaseName      = "Embed Foundation Extensions"
	ThinBinaryPhaseName = "Thin Binary"

	ViewControllerFile = "ShareViewController.swift"
	StoryboardFile     = "MainInterface.storyboard"
	InfoPlistFile      = "Info.plist"
)

// Settings is the identity of the extension and of the host app it is
// embedded in.
type Settings struct {
	Name             string
	BundleID         string
	Team             string
	AppGroup         string
	SwiftVersion     string
	DeploymentTarget string
	DeviceFamily     string
	CodeSignStyle    string

	HostName         string
	HostEntitlements string
}

func DefaultSettings() Settings {
	return Settings{
		Name:             "Share Extension",
		BundleID:         "ca.deobald.kaya.ShareExtension",
		Team:             "Z8C46829M8",
		AppGroup:         "group.ca.deobald.kaya",
		SwiftVersion:     "5.0",
		DeploymentTarget: "13.0",
		DeviceFamily:     "1,2",
		CodeSignStyle:    "Automatic",
		HostName:         "Runner",
		HostEntitlements: "Runner/Runner.entitlements",
	}
}

func (s Settings) EntitlementsFile() string {
	return s.Name + ".entitlements"
}

// InfoPlistPath and EntitlementsPath are relative to the project directory.
func (s Settings) InfoPlistPath() string {
	return path.Join(s.Name, InfoPlistFile)
}

func (s Settings) EntitlementsPath() string {
	return path.Join(s.Name, s.EntitlementsFile())
}

type buildSetting struct {
	key   string
	value interface{}
}

func (s Settings) extensionBuildSettings() []buildSetting {
	return []buildSetting{
		{"INFOPLIST_FILE", s.InfoPlistPath()},
		{"PRODUCT_BUNDLE_IDENTIFIER", s.BundleID},
		{"PRODUCT_NAME", "$(TARGET_NAME)"},
		{"SWIFT_VERSION", s.SwiftVersion},
		{"CODE_SIGN_ENTITLEMENTS", s.EntitlementsPath()},
		{"CODE_SIGN_STYLE", s.CodeSignStyle},
		{"DEVELOPMENT_TEAM", s.Team},
		{"TARGETED_DEVICE_FAMILY", s.DeviceFamily},
		{"SKIP_INSTALL", "YES"},
		{"CUSTOM_GROUP_ID", s.AppGroup},
		{"LD_RUNPATH_SEARCH_PATHS", []string{
			"$(inherited)",
			"@executable_path/Frameworks",
			"@executable_path/../../Frameworks",
		}},
	}
}

func (s Settings) hostBuildSettings() []buildSetting {
	return []buildSetting{
		{"CUSTOM_GROUP_ID", s.AppGroup},
		{"CODE_SIGN_ENTITLEMENTS", s.HostEntitlements},
	}
}
