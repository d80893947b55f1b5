// Package config loads the project location and the extension identity from
// an optional .pbxshare.yaml, PBXSHARE_* environment variables and flags.
// Anything left unset falls back to the Kaya defaults.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/spf13/viper"

	"github.com/kaya-app/pbxshare/shareext"
)

const (
	fileName  = ".pbxshare"
	fileType  = "yaml"
	envPrefix = "PBXSHARE"

	DefaultProject = "Runner.xcodeproj"
)

const (
	KeyProject          = "project"
	KeyName             = "extension.name"
	KeyBundleID         = "extension.bundle_id"
	KeyTeam             = "extension.team"
	KeyAppGroup         = "extension.app_group"
	KeySwiftVersion     = "extension.swift_version"
	KeyDeploymentTarget = "extension.deployment_target"
	KeyDeviceFamily     = "extension.device_family"
	KeyCodeSignStyle    = "extension.code_sign_style"
	KeyHostName         = "host.name"
	KeyHostEntitlements = "host.entitlements"
)

// Oldest versions that can build a share extension.
var (
	minSwiftVersion     = semver.MustParse("4.0")
	minDeploymentTarget = semver.MustParse("8.0")
)

type Settings struct {
	Project   string
	Extension shareext.Settings
}

// New returns a viper instance with defaults, environment binding and the
// config file search path set up. configFile overrides the search.
func New(configFile string) *viper.Viper {
	v := viper.New()
	defaults := shareext.DefaultSettings()
	v.SetDefault(KeyProject, DefaultProject)
	v.SetDefault(KeyName, defaults.Name)
	v.SetDefault(KeyBundleID, defaults.BundleID)
	v.SetDefault(KeyTeam, defaults.Team)
	v.SetDefault(KeyAppGroup, defaults.AppGroup)
	v.SetDefault(KeySwiftVersion, defaults.SwiftVersion)
	v.SetDefault(KeyDeploymentTarget, defaults.DeploymentTarget)
	v.SetDefault(KeyDeviceFamily, defaults.DeviceFamily)
	v.SetDefault(KeyCodeSignStyle, defaults.CodeSignStyle)
	v.SetDefault(KeyHostName, defaults.HostName)
	v.SetDefault(KeyHostEntitlements, defaults.HostEntitlements)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName(fileName)
		v.AddConfigPath(".")
	}
	v.SetConfigType(fileType)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads the config file, if any, and returns validated settings. A
// missing .pbxshare.yaml is fine; a missing explicit config file is not.
func Load(v *viper.Viper) (Settings, error) {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Settings{}, fmt.Errorf("reading config: %w", err)
		}
	}

	settings := Settings{
		Project: v.GetString(KeyProject),
		Extension: shareext.Settings{
			Name:             v.GetString(KeyName),
			BundleID:         v.GetString(KeyBundleID),
			Team:             v.GetString(KeyTeam),
			AppGroup:         v.GetString(KeyAppGroup),
			SwiftVersion:     v.GetString(KeySwiftVersion),
			DeploymentTarget: v.GetString(KeyDeploymentTarget),
			DeviceFamily:     v.GetString(KeyDeviceFamily),
			CodeSignStyle:    v.GetString(KeyCodeSignStyle),
			HostName:         v.GetString(KeyHostName),
			HostEntitlements: v.GetString(KeyHostEntitlements),
		},
	}
	if err := settings.Validate(); err != nil {
		return Settings{}, err
	}
	return settings, nil
}

func (s Settings) Validate() error {
	ext := s.Extension
	required := map[string]string{
		KeyProject:  s.Project,
		KeyName:     ext.Name,
		KeyBundleID: ext.BundleID,
		KeyHostName: ext.HostName,
	}
	for _, key := range []string{KeyProject, KeyName, KeyBundleID, KeyHostName} {
		if strings.TrimSpace(required[key]) == "" {
			return fmt.Errorf("%s must not be empty", key)
		}
	}
	if ext.Name == ext.HostName {
		return fmt.Errorf("%s and %s must differ", KeyName, KeyHostName)
	}
	if err := checkVersion(KeySwiftVersion, ext.SwiftVersion, minSwiftVersion); err != nil {
		return err
	}
	return checkVersion(KeyDeploymentTarget, ext.DeploymentTarget, minDeploymentTarget)
}

func checkVersion(key, value string, min *semver.Version) error {
	version, err := semver.NewVersion(value)
	if err != nil {
		return fmt.Errorf("%s %q: %w", key, value, err)
	}
	if version.LessThan(min) {
		return fmt.Errorf("%s %s is older than %s", key, value, min.Original())
	}
	return nil
}
