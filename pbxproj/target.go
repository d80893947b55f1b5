/**
Licensed to the Apache Software Foundation (ASF) under one
or more contributor license agreements.  See the NOTICE file
distributed with this work for additional information
regarding copyright ownership.  The ASF licenses this file
to you under the Apache License, Version 2.0 (the
'License'); you may not use this file except in compliance
with the License.  You may obtain a copy of the License at
http://www.apache.org/licenses/LICENSE-2.0
Unless required by applicable law or agreed to in writing,
software distributed under the License is distributed on an
'AS IS' BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
KIND, either express or implied.  See the License for the
specific language governing permissions and limitations
under the License.
*/

package pbxproj

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/kaya-app/pbxshare/pegparser"
)

var SDKROOT_BY_PLATFORM = map[string]string{
	"ios":     "iphoneos",
	"osx":     "macosx",
	"tvos":    "appletvos",
	"watchos": "watchos",
}

var DEPLOYMENT_TARGET_SETTING_BY_PLATFORM = map[string]string{
	"ios":     "IPHONEOS_DEPLOYMENT_TARGET",
	"osx":     "MACOSX_DEPLOYMENT_TARGET",
	"tvos":    "TVOS_DEPLOYMENT_TARGET",
	"watchos": "WATCHOS_DEPLOYMENT_TARGET",
}

func producttypeForTargettype(targetType string) string {

	switch targetType {
	case "application":
		return "com.apple.product-type.application"
	case "app_extension":
		return "com.apple.product-type.app-extension"
	case "bundle":
		return "com.apple.product-type.bundle"
	case "command_line_tool":
		return "com.apple.product-type.tool"
	case "dynamic_library":
		return "com.apple.product-type.library.dynamic"
	case "framework":
		return "com.apple.product-type.framework"
	case "static_library":
		return "com.apple.product-type.library.static"
	case "unit_test_bundle":
		return "com.apple.product-type.bundle.unit-test"
	case "watch2_app":
		return "com.apple.product-type.application.watchapp2"
	case "watch2_extension":
		return "com.apple.product-type.watchkit2-extension"
	default:
		return ""
	}
}

func filetypeForProducttype(productType string) string {

	switch productType {
	case "com.apple.product-type.application":
		return "wrapper.application"
	case "com.apple.product-type.app-extension":
		return "wrapper.app-extension"
	case "com.apple.product-type.bundle":
		return "wrapper.plug-in"
	case "com.apple.product-type.tool":
		return "compiled.mach-o.dylib"
	case "com.apple.product-type.library.dynamic":
		return "compiled.mach-o.dylib"
	case "com.apple.product-type.framework":
		return "wrapper.framework"
	case "com.apple.product-type.library.static":
		return "archive.ar"
	case "com.apple.product-type.bundle.unit-test":
		return "wrapper.cfbundle"
	case "com.apple.product-type.application.watchapp2":
		return "wrapper.application"
	case "com.apple.product-type.watchkit2-extension":
		return "wrapper.app-extension"
	default:
		return ""
	}
}

// configurationNames returns the configuration names of the root project, so
// a new target gets one configuration for each (Debug, Release, Profile...).
func (p *PbxProject) configurationNames() []string {
	project := p.getFirstProject()
	list := p.section("XCConfigurationList").GetObject(project.GetString("buildConfigurationList"))
	var names []string
	for _, item := range list.GetArray("buildConfigurations") {
		ref, ok := item.(pegparser.Object)
		if !ok {
			continue
		}
		config := p.section("XCBuildConfiguration").GetObject(ref.GetString("value"))
		if name := unquoted(config.GetString("name")); name != "" {
			names = append(names, name)
		}
	}
	if len(names) == 0 {
		names = []string{"Debug", "Release"}
	}
	return names
}

func defaultBuildSettings(configName, targetType, platform, deploymentTarget string) map[string]interface{} {
	settings := map[string]interface{}{
		"PRODUCT_NAME": "$(TARGET_NAME)",
	}
	if sdk, ok := SDKROOT_BY_PLATFORM[platform]; ok {
		settings["SDKROOT"] = sdk
	}
	if key, ok := DEPLOYMENT_TARGET_SETTING_BY_PLATFORM[platform]; ok && deploymentTarget != "" {
		settings[key] = deploymentTarget
	}
	if platform == "ios" {
		settings["TARGETED_DEVICE_FAMILY"] = "1,2"
	}
	if targetType == "app_extension" {
		settings["LD_RUNPATH_SEARCH_PATHS"] = []string{
			"$(inherited)",
			"@executable_path/Frameworks",
			"@executable_path/../../Frameworks",
		}
		settings["SKIP_INSTALL"] = "YES"
	}
	if configName == "Debug" {
		settings["SWIFT_ACTIVE_COMPILATION_CONDITIONS"] = "DEBUG"
		settings["SWIFT_OPTIMIZATION_LEVEL"] = "-Onone"
	} else {
		settings["SWIFT_COMPILATION_MODE"] = "wholemodule"
		settings["SWIFT_OPTIMIZATION_LEVEL"] = "-O"
		settings["VALIDATE_PRODUCT"] = "YES"
	}
	return settings
}

func encodeSetting(value interface{}) interface{} {
	switch v := value.(type) {
	case []string:
		list := make([]interface{}, len(v))
		for i, s := range v {
			list[i] = pegparser.Quote(s)
		}
		return list
	case string:
		return pegparser.Quote(v)
	default:
		return v
	}
}

func newBuildSettingsObj(settings map[string]interface{}) pegparser.Object {
	keys := make([]string, 0, len(settings))
	for key := range settings {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	obj := pegparser.NewObject()
	for _, key := range keys {
		obj.Set(key, encodeSetting(settings[key]))
	}
	return obj
}

func (p *PbxProject) addXCConfigurationList(configurationObjectsArray []pegparser.Object, defaultConfigurationName, comment string) pegparser.ObjectWithUUID {
	xcConfigurationListUuid := p.generateUuid()
	buildConfigurations := make([]interface{}, 0, len(configurationObjectsArray))

	for _, configuration := range configurationObjectsArray {
		configurationUuid := p.generateUuid()
		name := unquoted(configuration.GetString("name"))
		p.addObject(configurationUuid, configuration, name)
		buildConfigurations = append(buildConfigurations, CommentValue{
			Value:   configurationUuid,
			Comment: name,
		}.ToObject())
	}

	xcConfigurationList := pegparser.NewObjectWithData([]pegparser.SliceItem{
		pegparser.NewObjectItem("isa", "XCConfigurationList"),
		pegparser.NewObjectItem("buildConfigurations", buildConfigurations),
		pegparser.NewObjectItem("defaultConfigurationIsVisible", 0),
		pegparser.NewObjectItem("defaultConfigurationName", pegparser.Quote(defaultConfigurationName)),
	})
	p.addObject(xcConfigurationListUuid, xcConfigurationList, comment)

	return pegparser.ObjectWithUUID{
		UUID:   xcConfigurationListUuid,
		Object: xcConfigurationList,
	}
}

func (p *PbxProject) addProductFile(filePath string, options PbxFileOptions) (*PbxFile, error) {
	pbxfile := newPbxFile(filePath, options)
	pbxfile.IncludeInIndex = 0
	pbxfile.FileRef = p.generateUuid()
	p.addToPbxFileReferenceSection(pbxfile)
	if err := p.addToProductsPbxGroup(pbxfile); err != nil {
		return nil, err
	}
	return pbxfile, nil
}

// NewTarget creates a native target with one build configuration per project
// configuration, a product reference in the Products group and empty Sources,
// Frameworks and Resources phases. It neither embeds the product nor adds
// dependencies.
func (p *PbxProject) NewTarget(name, targetType, platform, deploymentTarget string) (pegparser.ObjectWithUUID, error) {
	// Setup uuid and name of new target
	targetUuid := p.generateUuid()
	targetName := strings.Trim(name, " ")

	if targetName == "" {
		return pegparser.ObjectWithUUID{}, fmt.Errorf("target name missing")
	}

	if targetType == "" {
		return pegparser.ObjectWithUUID{}, fmt.Errorf("target type missing")
	}

	// Check type against list of allowed target types
	productType := producttypeForTargettype(targetType)
	if productType == "" {
		return pegparser.ObjectWithUUID{}, fmt.Errorf("target type invalid: %s", targetType)
	}

	// Build Configuration: Create
	var buildConfigurationsList []pegparser.Object
	for _, configName := range p.configurationNames() {
		buildConfigurationsList = append(buildConfigurationsList, pegparser.NewObjectWithData([]pegparser.SliceItem{
			pegparser.NewObjectItem("isa", "XCBuildConfiguration"),
			pegparser.NewObjectItem("buildSettings", newBuildSettingsObj(defaultBuildSettings(configName, targetType, platform, deploymentTarget))),
			pegparser.NewObjectItem("name", pegparser.Quote(configName)),
		}))
	}

	// Build Configuration: Add
	buildConfigurations := p.addXCConfigurationList(buildConfigurationsList, "Release", `Build configuration list for PBXNativeTarget "`+targetName+`"`)

	// Product: Create
	productFile, err := p.addProductFile(targetName, PbxFileOptions{
		Group:            "Products",
		Target:           targetUuid,
		ExplicitFileType: filetypeForProducttype(productType),
	})
	if err != nil {
		return pegparser.ObjectWithUUID{}, err
	}

	// Phases: Create
	var buildPhases []interface{}
	for _, isa := range []string{"PBXSourcesBuildPhase", "PBXFrameworksBuildPhase", "PBXResourcesBuildPhase"} {
		phase := p.addBuildPhaseObject(isa, "")
		buildPhases = append(buildPhases, CommentValue{
			Value:   phase.UUID,
			Comment: buildPhaseNameForIsa(isa),
		}.ToObject())
	}

	// Target: Create
	target := pegparser.NewObjectWithData([]pegparser.SliceItem{
		pegparser.NewObjectItem("isa", "PBXNativeTarget"),
		pegparser.NewObjectItem("buildConfigurationList", buildConfigurations.UUID),
		pegparser.NewObjectItem(toCommentKey("buildConfigurationList"), `Build configuration list for PBXNativeTarget "`+targetName+`"`),
		pegparser.NewObjectItem("buildPhases", buildPhases),
		pegparser.NewObjectItem("buildRules", []interface{}{}),
		pegparser.NewObjectItem("dependencies", []interface{}{}),
		pegparser.NewObjectItem("name", pegparser.Quote(targetName)),
		pegparser.NewObjectItem("productName", pegparser.Quote(targetName)),
		pegparser.NewObjectItem("productReference", productFile.FileRef),
		pegparser.NewObjectItem(toCommentKey("productReference"), productFile.Basename),
		pegparser.NewObjectItem("productType", pegparser.Quote(productType)),
	})

	// Target: Add to PBXNativeTarget section
	p.addToPbxNativeTargetSection(targetUuid, target)

	// Target: Add uuid to root project
	p.addToPbxProjectSection(targetUuid, target)

	slog.Debug("target created", "target", targetName, "uuid", targetUuid, "type", targetType)
	return pegparser.ObjectWithUUID{UUID: targetUuid, Object: target}, nil
}

// BuildConfigurations returns the XCBuildConfiguration objects of a target.
func (p *PbxProject) BuildConfigurations(targetKey string) ([]pegparser.ObjectWithUUID, error) {
	target, err := p.mustTarget(targetKey)
	if err != nil {
		return nil, err
	}
	listKey := target.GetString("buildConfigurationList")
	list := p.section("XCConfigurationList").GetObject(listKey)
	if list.IsEmpty() {
		return nil, fmt.Errorf("%w: configuration list %s", ErrObjectNotFound, listKey)
	}

	var configs []pegparser.ObjectWithUUID
	for _, item := range list.GetArray("buildConfigurations") {
		ref, ok := item.(pegparser.Object)
		if !ok {
			continue
		}
		configKey := ref.GetString("value")
		config := p.section("XCBuildConfiguration").GetObject(configKey)
		if config.IsEmpty() {
			return nil, fmt.Errorf("%w: build configuration %s", ErrObjectNotFound, configKey)
		}
		configs = append(configs, pegparser.ObjectWithUUID{UUID: configKey, Object: config})
	}
	return configs, nil
}

// SetBuildSetting assigns value on every configuration of a target. value is
// either a string or a []string.
func (p *PbxProject) SetBuildSetting(targetKey, key string, value interface{}) error {
	configs, err := p.BuildConfigurations(targetKey)
	if err != nil {
		return err
	}
	for _, config := range configs {
		buildSettings := config.GetObject("buildSettings")
		if !config.Has("buildSettings") {
			setSorted(config.Object, "buildSettings", buildSettings)
		}
		setSorted(buildSettings, key, encodeSetting(value))
		slog.Debug("build setting", "config", unquoted(config.GetString("name")), "key", key, "value", value)
	}
	return nil
}

// GetBuildProperty returns the unquoted value of prop in the first matching
// configuration that sets it. build and targetName narrow the search when not
// empty.
func (p *PbxProject) GetBuildProperty(prop, build, targetName string) []string {
	var configs []pegparser.ObjectWithUUID
	if targetName != "" {
		target, found := p.TargetByName(targetName)
		if !found {
			return nil
		}
		targetConfigs, err := p.BuildConfigurations(target.UUID)
		if err != nil {
			return nil
		}
		configs = targetConfigs
	} else {
		p.section("XCBuildConfiguration").ForeachWithFilter(func(key string, val interface{}) pegparser.IterateActionType {
			if isObject(val) {
				configs = append(configs, pegparser.ObjectWithUUID{UUID: key, Object: toObject(val)})
			}
			return pegparser.IterateActionContinue
		}, nonCommentsFilter)
	}

	for _, config := range configs {
		if build != "" && unquoted(config.GetString("name")) != build {
			continue
		}
		if value := config.GetObject("buildSettings").ForceGet(prop); value != nil {
			return interfaceToStringSlice(value)
		}
	}
	return nil
}

// AddTargetDependency makes target depend on each of dependencyTargets.
// Existing dependencies are left alone.
func (p *PbxProject) AddTargetDependency(target string, dependencyTargets []string) error {
	targetObj, err := p.mustTarget(target)
	if err != nil {
		return err
	}

	for _, dependencyTarget := range dependencyTargets {
		if _, err := p.mustTarget(dependencyTarget); err != nil {
			return err
		}
	}

	project := p.getFirstProject()
	for _, dependencyTargetUuid := range dependencyTargets {
		if p.hasTargetDependency(targetObj, dependencyTargetUuid) {
			continue
		}
		dependencyName := pbxNativeTargetComment(p.section("PBXNativeTarget").GetObject(dependencyTargetUuid))

		targetDependencyUuid := p.generateUuid()
		itemProxyUuid := p.generateUuid()
		itemProxy := pegparser.NewObjectWithData([]pegparser.SliceItem{
			pegparser.NewObjectItem("isa", "PBXContainerItemProxy"),
			pegparser.NewObjectItem("containerPortal", project.UUID),
			pegparser.NewObjectItem(toCommentKey("containerPortal"), "Project object"),
			pegparser.NewObjectItem("proxyType", 1),
			pegparser.NewObjectItem("remoteGlobalIDString", dependencyTargetUuid),
			pegparser.NewObjectItem("remoteInfo", pegparser.Quote(dependencyName)),
		})

		targetDependency := pegparser.NewObjectWithData([]pegparser.SliceItem{
			pegparser.NewObjectItem("isa", "PBXTargetDependency"),
			pegparser.NewObjectItem("target", dependencyTargetUuid),
			pegparser.NewObjectItem(toCommentKey("target"), dependencyName),
			pegparser.NewObjectItem("targetProxy", itemProxyUuid),
			pegparser.NewObjectItem(toCommentKey("targetProxy"), "PBXContainerItemProxy"),
		})

		p.addObject(itemProxyUuid, itemProxy, "PBXContainerItemProxy")
		p.addObject(targetDependencyUuid, targetDependency, "PBXTargetDependency")
		addToObjectList(targetObj, "dependencies", CommentValue{
			Value:   targetDependencyUuid,
			Comment: "PBXTargetDependency",
		}.ToObject())
		slog.Debug("target dependency", "target", pbxNativeTargetComment(targetObj), "dependency", dependencyName)
	}
	return nil
}

// TargetDependencies lists the uuids of the targets targetKey depends on.
func (p *PbxProject) TargetDependencies(targetKey string) ([]string, error) {
	target, err := p.mustTarget(targetKey)
	if err != nil {
		return nil, err
	}
	var deps []string
	for _, item := range target.GetArray("dependencies") {
		ref, ok := item.(pegparser.Object)
		if !ok {
			continue
		}
		dependency := p.section("PBXTargetDependency").GetObject(ref.GetString("value"))
		if uuid := dependency.GetString("target"); uuid != "" {
			deps = append(deps, uuid)
		}
	}
	return deps, nil
}

func (p *PbxProject) hasTargetDependency(target pegparser.Object, dependencyTargetUuid string) bool {
	for _, item := range target.GetArray("dependencies") {
		ref, ok := item.(pegparser.Object)
		if !ok {
			continue
		}
		dependency := p.section("PBXTargetDependency").GetObject(ref.GetString("value"))
		if dependency.GetString("target") == dependencyTargetUuid {
			return true
		}
	}
	return false
}
