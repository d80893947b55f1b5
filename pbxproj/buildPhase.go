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

	"github.com/kaya-app/pbxshare/pegparser"
)

const BUILD_ACTION_MASK = 2147483647

var DESTINATION_BY_TARGETTYPE = map[string]string{
	"application":       "wrapper",
	"app_extension":     "plugins",
	"bundle":            "wrapper",
	"command_line_tool": "wrapper",
	"dynamic_library":   "products_directory",
	"framework":         "shared_frameworks",
	"frameworks":        "frameworks",
	"static_library":    "products_directory",
	"unit_test_bundle":  "wrapper",
	"watch2_app":        "products_directory",
	"watch2_extension":  "plugins",
}

var SUBFOLDERSPEC_BY_DESTINATION = map[string]int{
	"absolute_path":      0,
	"executables":        6,
	"frameworks":         10,
	"java_resources":     15,
	"plugins":            13,
	"products_directory": 16,
	"resources":          7,
	"shared_frameworks":  11,
	"shared_support":     12,
	"wrapper":            1,
	"xpc_services":       0,
}

func buildPhaseNameForIsa(isa string) string {
	switch isa {
	case "PBXCopyFilesBuildPhase":
		return "CopyFiles"
	case "PBXResourcesBuildPhase":
		return "Resources"
	case "PBXSourcesBuildPhase":
		return "Sources"
	case "PBXFrameworksBuildPhase":
		return "Frameworks"
	case "PBXHeadersBuildPhase":
		return "Headers"
	case "PBXShellScriptBuildPhase":
		return "ShellScript"
	default:
		return ""
	}
}

// BuildPhaseDisplayName is the phase's name when it has one, otherwise the
// default name of its kind.
func BuildPhaseDisplayName(phase pegparser.Object) string {
	if name := unquoted(phase.GetString("name")); name != "" {
		return name
	}
	return buildPhaseNameForIsa(unquoted(phase.GetString("isa")))
}

func (p *PbxProject) addBuildPhaseObject(isa, name string) pegparser.ObjectWithUUID {
	buildPhaseUuid := p.generateUuid()
	buildPhase := pegparser.NewObjectWithData([]pegparser.SliceItem{
		pegparser.NewObjectItem("isa", isa),
		pegparser.NewObjectItem("buildActionMask", BUILD_ACTION_MASK),
		pegparser.NewObjectItem("files", []interface{}{}),
	})
	if name != "" {
		buildPhase.Set("name", pegparser.Quote(name))
	}
	buildPhase.Set("runOnlyForDeploymentPostprocessing", 0)

	comment := name
	if comment == "" {
		comment = buildPhaseNameForIsa(isa)
	}
	p.addObject(buildPhaseUuid, buildPhase, comment)
	return pegparser.ObjectWithUUID{UUID: buildPhaseUuid, Object: buildPhase}
}

// BuildPhases returns the phases of a target in build order.
func (p *PbxProject) BuildPhases(targetKey string) ([]pegparser.ObjectWithUUID, error) {
	target, err := p.mustTarget(targetKey)
	if err != nil {
		return nil, err
	}
	var phases []pegparser.ObjectWithUUID
	for _, item := range target.GetArray("buildPhases") {
		ref, ok := item.(pegparser.Object)
		if !ok {
			continue
		}
		phase, err := p.mustObject(ref.GetString("value"))
		if err != nil {
			return nil, err
		}
		phases = append(phases, pegparser.ObjectWithUUID{UUID: ref.GetString("value"), Object: phase})
	}
	return phases, nil
}

// BuildPhaseIndex returns the position of the first phase of a target with the
// given display name, or -1.
func (p *PbxProject) BuildPhaseIndex(targetKey, displayName string) (int, error) {
	phases, err := p.BuildPhases(targetKey)
	if err != nil {
		return -1, err
	}
	for i, phase := range phases {
		if BuildPhaseDisplayName(phase.Object) == displayName {
			return i, nil
		}
	}
	return -1, nil
}

// MoveBuildPhase takes the phase out of the target's list and inserts it at
// index, clamped to the list bounds.
func (p *PbxProject) MoveBuildPhase(targetKey, phaseKey string, index int) error {
	target, err := p.mustTarget(targetKey)
	if err != nil {
		return err
	}
	phases := target.GetArray("buildPhases")
	from := -1
	for i, item := range phases {
		if ref, ok := item.(pegparser.Object); ok && ref.GetString("value") == phaseKey {
			from = i
			break
		}
	}
	if from < 0 {
		return fmt.Errorf("%w: build phase %s in target %s", ErrObjectNotFound, phaseKey, pbxNativeTargetComment(target))
	}

	moved := phases[from]
	rest := make([]interface{}, 0, len(phases))
	rest = append(rest, phases[:from]...)
	rest = append(rest, phases[from+1:]...)
	if index < 0 {
		index = 0
	}
	if index > len(rest) {
		index = len(rest)
	}
	reordered := make([]interface{}, 0, len(phases))
	reordered = append(reordered, rest[:index]...)
	reordered = append(reordered, moved)
	reordered = append(reordered, rest[index:]...)
	target.Set("buildPhases", reordered)
	slog.Debug("build phase moved", "target", pbxNativeTargetComment(target), "phase", phaseKey, "from", from, "to", index)
	return nil
}

// AddCopyFilesBuildPhase appends a copy files phase to a target. folderType
// picks the destination the same way Xcode does for embedded products, so
// "app_extension" copies into PlugIns.
func (p *PbxProject) AddCopyFilesBuildPhase(targetKey, comment, folderType, subfolderPath string) (pegparser.ObjectWithUUID, error) {
	target, err := p.mustTarget(targetKey)
	if err != nil {
		return pegparser.ObjectWithUUID{}, err
	}
	destination, ok := DESTINATION_BY_TARGETTYPE[folderType]
	if !ok {
		return pegparser.ObjectWithUUID{}, fmt.Errorf("unknown copy files destination for %s", folderType)
	}

	if subfolderPath == "" {
		subfolderPath = `""`
	}
	buildPhase := pegparser.NewObjectWithData([]pegparser.SliceItem{
		pegparser.NewObjectItem("isa", "PBXCopyFilesBuildPhase"),
		pegparser.NewObjectItem("buildActionMask", BUILD_ACTION_MASK),
		pegparser.NewObjectItem("dstPath", subfolderPath),
		pegparser.NewObjectItem("dstSubfolderSpec", SUBFOLDERSPEC_BY_DESTINATION[destination]),
		pegparser.NewObjectItem("files", []interface{}{}),
		pegparser.NewObjectItem("name", pegparser.Quote(comment)),
		pegparser.NewObjectItem("runOnlyForDeploymentPostprocessing", 0),
	})
	buildPhaseUuid := p.generateUuid()
	p.addObject(buildPhaseUuid, buildPhase, comment)

	addToObjectList(target, "buildPhases", CommentValue{
		Value:   buildPhaseUuid,
		Comment: comment,
	}.ToObject())
	slog.Debug("build phase added", "target", pbxNativeTargetComment(target), "phase", comment)
	return pegparser.ObjectWithUUID{UUID: buildPhaseUuid, Object: buildPhase}, nil
}

// AddFileToBuildPhase creates a PBXBuildFile for fileRefKey inside the phase.
func (p *PbxProject) AddFileToBuildPhase(phaseKey, fileRefKey string) error {
	phase, err := p.mustObject(phaseKey)
	if err != nil {
		return err
	}
	fileRef := p.section("PBXFileReference").GetObject(fileRefKey)
	if fileRef.IsEmpty() {
		return fmt.Errorf("%w: file reference %s", ErrObjectNotFound, fileRefKey)
	}

	pbxfile := &PbxFile{
		Uuid:     p.generateUuid(),
		FileRef:  fileRefKey,
		Basename: p.section("PBXFileReference").GetString(toCommentKey(fileRefKey)),
		Group:    BuildPhaseDisplayName(phase),
	}
	if pbxfile.Basename == "" {
		pbxfile.Basename = fileReferenceName(fileRef)
	}
	p.addToPbxBuildFileSection(pbxfile)
	addToObjectList(phase, "files", pbxBuildPhaseObj(pbxfile))
	slog.Debug("file added to build phase", "file", pbxfile.Basename, "phase", pbxfile.Group)
	return nil
}

// targetBuildPhase finds the target's phase of one kind, creating it when the
// target has none yet.
func (p *PbxProject) targetBuildPhase(targetKey, isa string) (pegparser.ObjectWithUUID, error) {
	phases, err := p.BuildPhases(targetKey)
	if err != nil {
		return pegparser.ObjectWithUUID{}, err
	}
	for _, phase := range phases {
		if unquoted(phase.GetString("isa")) == isa {
			return phase, nil
		}
	}
	target, _ := p.mustTarget(targetKey)
	phase := p.addBuildPhaseObject(isa, "")
	addToObjectList(target, "buildPhases", CommentValue{
		Value:   phase.UUID,
		Comment: buildPhaseNameForIsa(isa),
	}.ToObject())
	return phase, nil
}

var BUILDPHASE_ISA_BY_GROUP = map[string]string{
	"Sources":    "PBXSourcesBuildPhase",
	"Frameworks": "PBXFrameworksBuildPhase",
	"Resources":  "PBXResourcesBuildPhase",
}

// AddFileReferencesToTarget adds each file to the phase matching its type:
// code to Sources, libraries to Frameworks, everything else to Resources.
func (p *PbxProject) AddFileReferencesToTarget(targetKey string, fileRefKeys ...string) error {
	for _, fileRefKey := range fileRefKeys {
		fileRef := p.section("PBXFileReference").GetObject(fileRefKey)
		if fileRef.IsEmpty() {
			return fmt.Errorf("%w: file reference %s", ErrObjectNotFound, fileRefKey)
		}
		pbxfile := newPbxFile(fileReferenceName(fileRef), PbxFileOptions{
			LastKnownFileType: unquoted(fileRef.GetString("lastKnownFileType")),
		})
		isa, ok := BUILDPHASE_ISA_BY_GROUP[pbxfile.Group]
		if !ok {
			isa = "PBXResourcesBuildPhase"
		}
		phase, err := p.targetBuildPhase(targetKey, isa)
		if err != nil {
			return err
		}
		if err := p.AddFileToBuildPhase(phase.UUID, fileRefKey); err != nil {
			return err
		}
	}
	return nil
}
