package shareext

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"howett.net/plist"
)

type activationRule struct {
	SupportsText          bool `plist:"NSExtensionActivationSupportsText"`
	SupportsWebURLMax     int  `plist:"NSExtensionActivationSupportsWebURLWithMaxCount"`
	SupportsImageMaxCount int  `plist:"NSExtensionActivationSupportsImageWithMaxCount"`
}

type extensionAttributes struct {
	ActivationRule activationRule `plist:"NSExtensionActivationRule"`
}

type extension struct {
	Attributes      extensionAttributes `plist:"NSExtensionAttributes"`
	MainStoryboard  string              `plist:"NSExtensionMainStoryboard"`
	PointIdentifier string              `plist:"NSExtensionPointIdentifier"`
}

// Info is the Info.plist of the extension bundle. Values are build setting
// references resolved by Xcode.
type Info struct {
	AppGroupID                    string    `plist:"AppGroupId"`
	CFBundleDevelopmentRegion     string    `plist:"CFBundleDevelopmentRegion"`
	CFBundleDisplayName           string    `plist:"CFBundleDisplayName"`
	CFBundleExecutable            string    `plist:"CFBundleExecutable"`
	CFBundleIdentifier            string    `plist:"CFBundleIdentifier"`
	CFBundleInfoDictionaryVersion string    `plist:"CFBundleInfoDictionaryVersion"`
	CFBundleName                  string    `plist:"CFBundleName"`
	CFBundlePackageType           string    `plist:"CFBundlePackageType"`
	CFBundleShortVersionString    string    `plist:"CFBundleShortVersionString"`
	CFBundleVersion               string    `plist:"CFBundleVersion"`
	NSExtension                   extension `plist:"NSExtension"`
}

type Entitlements struct {
	ApplicationGroups []string `plist:"com.apple.security.application-groups"`
}

func newInfo(settings Settings) Info {
	return Info{
		AppGroupID:                    "$(CUSTOM_GROUP_ID)",
		CFBundleDevelopmentRegion:     "$(DEVELOPMENT_LANGUAGE)",
		CFBundleDisplayName:           settings.Name,
		CFBundleExecutable:            "$(EXECUTABLE_NAME)",
		CFBundleIdentifier:            "$(PRODUCT_BUNDLE_IDENTIFIER)",
		CFBundleInfoDictionaryVersion: "6.0",
		CFBundleName:                  "$(PRODUCT_NAME)",
		CFBundlePackageType:           "$(PRODUCT_BUNDLE_PACKAGE_TYPE)",
		CFBundleShortVersionString:    "$(FLUTTER_BUILD_NAME)",
		CFBundleVersion:               "$(FLUTTER_BUILD_NUMBER)",
		NSExtension: extension{
			Attributes: extensionAttributes{
				ActivationRule: activationRule{
					SupportsText:          true,
					SupportsWebURLMax:     1,
					SupportsImageMaxCount: 1,
				},
			},
			MainStoryboard:  "MainInterface",
			PointIdentifier: "com.apple.share-services",
		},
	}
}

// WriteSupportFiles creates the extension's Info.plist and the entitlements
// of both targets next to the project bundle. Existing files are kept. It
// returns the paths it wrote.
func WriteSupportFiles(projectFile string, settings Settings) ([]string, error) {
	// project.pbxproj lives in Runner.xcodeproj, whose parent holds the sources
	root := filepath.Dir(filepath.Dir(projectFile))
	entitlements := Entitlements{ApplicationGroups: []string{settings.AppGroup}}

	files := []struct {
		path  string
		value interface{}
	}{
		{filepath.Join(root, filepath.FromSlash(settings.InfoPlistPath())), newInfo(settings)},
		{filepath.Join(root, filepath.FromSlash(settings.EntitlementsPath())), entitlements},
		{filepath.Join(root, filepath.FromSlash(settings.HostEntitlements)), entitlements},
	}

	var written []string
	for _, file := range files {
		if _, err := os.Stat(file.path); err == nil {
			slog.Debug("support file exists", "path", file.path)
			continue
		} else if !errors.Is(err, fs.ErrNotExist) {
			return written, err
		}
		data, err := plist.MarshalIndent(file.value, plist.XMLFormat, "\t")
		if err != nil {
			return written, fmt.Errorf("encoding %s: %w", file.path, err)
		}
		if err := os.MkdirAll(filepath.Dir(file.path), 0755); err != nil {
			return written, err
		}
		if err := os.WriteFile(file.path, data, 0644); err != nil {
			return written, err
		}
		written = append(written, file.path)
	}
	return written, nil
}
