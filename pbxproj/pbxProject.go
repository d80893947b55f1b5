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
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofrs/uuid"
	"go.yaml.in/yaml/v3"

	"github.com/kaya-app/pbxshare/pegparser"
)

const PROJECT_FILE_NAME = "project.pbxproj"

var (
	ErrInvalidProject = errors.New("invalid project file")
	ErrObjectNotFound = errors.New("object not found")
	ErrTargetNotFound = errors.New("target not found")
	ErrGroupNotFound  = errors.New("group not found")
)

type CommentValue struct {
	Value   string
	Comment string
}

func (c CommentValue) ToObject() pegparser.Object {
	return pegparser.NewObjectWithData([]pegparser.SliceItem{
		pegparser.NewObjectItem("value", c.Value),
		pegparser.NewObjectItem("comment", c.Comment),
	})
}

type PbxProject struct {
	filePath          string
	pbxContents       pegparser.Object
	topProjectSection pegparser.Object
	pbxObjectSection  pegparser.Object
	uuids             map[string]struct{}
}

func NewPbxProject(filename string) PbxProject {
	return PbxProject{
		filePath: filename,
		uuids:    make(map[string]struct{}),
	}
}

// ResolvePath accepts either a .xcodeproj bundle or the project.pbxproj inside it.
func ResolvePath(path string) string {
	if filepath.Ext(path) == ".xcodeproj" {
		return filepath.Join(path, PROJECT_FILE_NAME)
	}
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		return filepath.Join(path, PROJECT_FILE_NAME)
	}
	return path
}

// Open resolves path and parses the project it points at.
func Open(path string) (*PbxProject, error) {
	project := NewPbxProject(ResolvePath(path))
	if err := project.Parse(); err != nil {
		return nil, err
	}
	return &project, nil
}

func (p *PbxProject) FilePath() string {
	return p.filePath
}

func (p *PbxProject) Contents() pegparser.Object {
	return p.pbxContents
}

func (p *PbxProject) Parse() error {
	data, err := os.ReadFile(p.filePath)
	if err != nil {
		return fmt.Errorf("reading %s: %w", p.filePath, err)
	}

	contents, err := pegparser.ParseReader(p.filePath, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("parsing %s: %w", p.filePath, err)
	}
	p.pbxContents = contents.(pegparser.Object)
	if err := p.initSections(); err != nil {
		return err
	}
	p.buildExistUuids()
	return nil
}

// Save writes the project back to the file it was read from.
func (p *PbxProject) Save() error {
	if err := NewPbxWriter(p).Write(p.filePath); err != nil {
		return fmt.Errorf("writing %s: %w", p.filePath, err)
	}
	slog.Debug("project saved", "path", p.filePath)
	return nil
}

func (p *PbxProject) Dump(writer io.Writer) error {
	jsonEncoder := json.NewEncoder(writer)
	jsonEncoder.SetEscapeHTML(false)
	jsonEncoder.SetIndent("", "  ")
	return jsonEncoder.Encode(p.Contents())
}

func (p *PbxProject) DumpYAML(writer io.Writer) error {
	yamlEncoder := yaml.NewEncoder(writer)
	yamlEncoder.SetIndent(2)
	if err := yamlEncoder.Encode(p.Contents()); err != nil {
		return err
	}
	return yamlEncoder.Close()
}

func (p *PbxProject) initSections() error {
	if !p.pbxContents.Has("project") {
		return fmt.Errorf("%w: no root dictionary", ErrInvalidProject)
	}
	p.topProjectSection = p.pbxContents.GetObject("project")
	if !p.topProjectSection.Has("objects") {
		return fmt.Errorf("%w: no objects dictionary", ErrInvalidProject)
	}
	p.pbxObjectSection = p.topProjectSection.GetObject("objects")
	if p.getFirstProject().UUID == "" {
		return fmt.Errorf("%w: no PBXProject object", ErrInvalidProject)
	}
	return nil
}

func (p *PbxProject) buildExistUuids() {
	uuids := make(map[string]struct{})
	p.pbxObjectSection.Foreach(func(_ string, v interface{}) pegparser.IterateActionType {
		fileSection, ok := v.(pegparser.Object)
		if !ok {
			return pegparser.IterateActionContinue
		}
		fileSection.ForeachWithFilter(func(key string, value interface{}) pegparser.IterateActionType {
			uuids[key] = struct{}{}
			return pegparser.IterateActionContinue
		}, nonCommentsFilter)
		return pegparser.IterateActionContinue
	})

	p.uuids = uuids
}

func (p *PbxProject) generateUuid() string {
	u, _ := uuid.NewV4()
	newUUID := strings.ToUpper(strings.ReplaceAll(u.String(), "-", "")[0:24])

	_, found := p.uuids[newUUID]
	if found {
		return p.generateUuid()
	}
	p.uuids[newUUID] = struct{}{}
	return newUUID
}

// section returns the objects of one isa. A missing section reads as empty.
func (p *PbxProject) section(isa string) pegparser.Object {
	return p.pbxObjectSection.GetObject(isa)
}

func (p *PbxProject) ensureSection(isa string) pegparser.Object {
	if v, ok := p.pbxObjectSection.Get(isa); ok {
		if section, ok := v.(pegparser.Object); ok {
			return section
		}
	}
	section := pegparser.NewObject()
	setSorted(p.pbxObjectSection, isa, section)
	return section
}

// addObject files obj under the section of its isa, keeping keys ordered.
func (p *PbxProject) addObject(uuid string, obj pegparser.Object, comment string) {
	section := p.ensureSection(unquoted(obj.GetString("isa")))
	setSorted(section, uuid, obj)
	if comment != "" {
		setSorted(section, toCommentKey(uuid), comment)
	}
}

// objectByUUID looks an object up in every section.
func (p *PbxProject) objectByUUID(uuid string) (obj pegparser.Object, found bool) {
	p.pbxObjectSection.Foreach(func(_ string, v interface{}) pegparser.IterateActionType {
		section, ok := v.(pegparser.Object)
		if !ok {
			return pegparser.IterateActionContinue
		}
		if value, ok := section.Get(uuid); ok {
			if o, ok := value.(pegparser.Object); ok {
				obj, found = o, true
				return pegparser.IterateActionBreak
			}
		}
		return pegparser.IterateActionContinue
	})
	return
}

func (p *PbxProject) mustObject(uuid string) (pegparser.Object, error) {
	obj, found := p.objectByUUID(uuid)
	if !found {
		return pegparser.Object{}, fmt.Errorf("%w: %s", ErrObjectNotFound, uuid)
	}
	return obj, nil
}

func (p *PbxProject) getFirstProject() pegparser.ObjectWithUUID {
	uuid := ""
	var project pegparser.Object
	p.section("PBXProject").ForeachWithFilter(func(key string, value interface{}) pegparser.IterateActionType {
		obj, ok := value.(pegparser.Object)
		if !ok {
			return pegparser.IterateActionContinue
		}
		uuid = key
		project = obj
		return pegparser.IterateActionBreak
	}, nonCommentsFilter)

	return pegparser.ObjectWithUUID{
		UUID:   uuid,
		Object: project,
	}
}

// Targets lists the targets of the root project in declaration order.
func (p *PbxProject) Targets() []pegparser.ObjectWithUUID {
	project := p.getFirstProject()
	var targets []pegparser.ObjectWithUUID
	for _, item := range project.GetArray("targets") {
		ref, ok := item.(pegparser.Object)
		if !ok {
			continue
		}
		uuid := ref.GetString("value")
		target, found := p.objectByUUID(uuid)
		if !found {
			continue
		}
		targets = append(targets, pegparser.ObjectWithUUID{UUID: uuid, Object: target})
	}
	return targets
}

// TargetByName returns the first target whose name matches.
func (p *PbxProject) TargetByName(name string) (pegparser.ObjectWithUUID, bool) {
	for _, target := range p.Targets() {
		if unquoted(target.GetString("name")) == name {
			return target, true
		}
	}
	return pegparser.ObjectWithUUID{}, false
}

func (p *PbxProject) mustTarget(targetKey string) (pegparser.Object, error) {
	target := p.section("PBXNativeTarget").GetObject(targetKey)
	if target.IsEmpty() {
		return pegparser.Object{}, fmt.Errorf("%w: %s", ErrTargetNotFound, targetKey)
	}
	return target, nil
}

func (p *PbxProject) addToPbxProjectSection(uuid string, target pegparser.Object) {
	newTarget := CommentValue{
		Value:   uuid,
		Comment: pbxNativeTargetComment(target),
	}
	project := p.getFirstProject()
	addToObjectList(project.Object, "targets", newTarget.ToObject())
}

func (p *PbxProject) addToPbxNativeTargetSection(uuid string, target pegparser.Object) {
	p.addObject(uuid, target, pbxNativeTargetComment(target))
}

func (p *PbxProject) addToPbxFileReferenceSection(pbxfile *PbxFile) {
	p.addObject(pbxfile.FileRef, newPbxFileReferenceObj(pbxfile), pbxFileReferenceComment(pbxfile))
}

func (p *PbxProject) addToPbxBuildFileSection(pbxfile *PbxFile) {
	p.addObject(pbxfile.Uuid, pbxBuildFileObj(pbxfile), longComment(pbxfile))
}

func pbxNativeTargetComment(target pegparser.Object) string {
	return unquoted(target.GetString("name"))
}

// AddTargetAttribute records prop in the root project's TargetAttributes for target.
func (p *PbxProject) AddTargetAttribute(prop, value string, target pegparser.ObjectWithUUID) error {
	project := p.getFirstProject()
	if project.UUID == "" {
		return errors.New("no project found")
	}
	attributes := project.Object.GetObject("attributes")
	if !project.Object.Has("attributes") {
		setSorted(project.Object, "attributes", attributes)
	}

	targetAttrs := attributes.GetObject("TargetAttributes")
	if !attributes.Has("TargetAttributes") {
		setSorted(attributes, "TargetAttributes", targetAttrs)
	}

	if target.UUID == "" {
		return ErrTargetNotFound
	}

	targetAttr := targetAttrs.GetObject(target.UUID)
	if !targetAttrs.Has(target.UUID) {
		targetAttrs.Set(target.UUID, targetAttr)
	}
	setSorted(targetAttr, prop, pegparser.Quote(value))
	return nil
}
