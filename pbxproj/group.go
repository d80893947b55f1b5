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
	"path"

	"github.com/kaya-app/pbxshare/pegparser"
)

func fileReferenceName(fileRef pegparser.Object) string {
	if name := unquoted(fileRef.GetString("name")); name != "" {
		return name
	}
	return path.Base(unquoted(fileRef.GetString("path")))
}

func groupComment(group pegparser.Object) string {
	if name := unquoted(group.GetString("name")); name != "" {
		return name
	}
	return unquoted(group.GetString("path"))
}

func (p *PbxProject) MainGroup() (pegparser.ObjectWithUUID, error) {
	project := p.getFirstProject()
	key := project.GetString("mainGroup")
	group := p.section("PBXGroup").GetObject(key)
	if key == "" || group.IsEmpty() {
		return pegparser.ObjectWithUUID{}, fmt.Errorf("%w: main group", ErrGroupNotFound)
	}
	return pegparser.ObjectWithUUID{UUID: key, Object: group}, nil
}

// children resolves the entries of a group's children list that are objects
// of the given isa.
func (p *PbxProject) children(groupKey, isa string) ([]pegparser.ObjectWithUUID, error) {
	group := p.section("PBXGroup").GetObject(groupKey)
	if group.IsEmpty() {
		return nil, fmt.Errorf("%w: %s", ErrGroupNotFound, groupKey)
	}
	var result []pegparser.ObjectWithUUID
	for _, item := range group.GetArray("children") {
		ref, ok := item.(pegparser.Object)
		if !ok {
			continue
		}
		child := p.section(isa).GetObject(ref.GetString("value"))
		if child.IsEmpty() {
			continue
		}
		result = append(result, pegparser.ObjectWithUUID{UUID: ref.GetString("value"), Object: child})
	}
	return result, nil
}

// MainGroupChildByName finds a group directly under the main group whose name
// attribute is exactly name. Groups identified only by path do not match.
func (p *PbxProject) MainGroupChildByName(name string) (pegparser.ObjectWithUUID, bool) {
	mainGroup, err := p.MainGroup()
	if err != nil {
		return pegparser.ObjectWithUUID{}, false
	}
	groups, _ := p.children(mainGroup.UUID, "PBXGroup")
	for _, group := range groups {
		if group.Has("name") && unquoted(group.GetString("name")) == name {
			return group, true
		}
	}
	return pegparser.ObjectWithUUID{}, false
}

// GroupFiles returns the file references directly inside a group.
func (p *PbxProject) GroupFiles(groupKey string) ([]pegparser.ObjectWithUUID, error) {
	return p.children(groupKey, "PBXFileReference")
}

func (p *PbxProject) pbxGroupByName(name string) pegparser.ObjectWithUUID {
	var found pegparser.ObjectWithUUID
	p.section("PBXGroup").ForeachWithFilter(func(key string, val interface{}) pegparser.IterateActionType {
		if !isObject(val) {
			return pegparser.IterateActionContinue
		}
		group := toObject(val)
		if groupComment(group) == name {
			found = pegparser.ObjectWithUUID{UUID: key, Object: group}
			return pegparser.IterateActionBreak
		}
		return pegparser.IterateActionContinue
	}, nonCommentsFilter)
	return found
}

// NewGroup creates a group and appends it to the parent's children.
// path may be empty for a purely logical group.
func (p *PbxProject) NewGroup(parentKey, name, groupPath string) (pegparser.ObjectWithUUID, error) {
	parent := p.section("PBXGroup").GetObject(parentKey)
	if parent.IsEmpty() {
		return pegparser.ObjectWithUUID{}, fmt.Errorf("%w: %s", ErrGroupNotFound, parentKey)
	}

	groupUuid := p.generateUuid()
	group := pegparser.NewObjectWithData([]pegparser.SliceItem{
		pegparser.NewObjectItem("isa", "PBXGroup"),
		pegparser.NewObjectItem("children", []interface{}{}),
	})
	if name != "" {
		group.Set("name", pegparser.Quote(name))
	}
	if groupPath != "" {
		group.Set("path", pegparser.Quote(groupPath))
	}
	group.Set("sourceTree", DEFAULT_SOURCETREE)

	p.addObject(groupUuid, group, groupComment(group))
	addToObjectList(parent, "children", CommentValue{
		Value:   groupUuid,
		Comment: groupComment(group),
	}.ToObject())
	slog.Debug("group created", "group", groupComment(group), "parent", groupComment(parent))
	return pegparser.ObjectWithUUID{UUID: groupUuid, Object: group}, nil
}

func (p *PbxProject) addToProductsPbxGroup(pbxfile *PbxFile) error {
	productsGroup := p.pbxGroupByName("Products")
	if productsGroup.UUID == "" {
		mainGroup, err := p.MainGroup()
		if err != nil {
			return err
		}
		productsGroup, err = p.NewGroup(mainGroup.UUID, "Products", "")
		if err != nil {
			return err
		}
		project := p.getFirstProject()
		if !project.Has("productRefGroup") {
			setSorted(project.Object, "productRefGroup", productsGroup.UUID)
			setSorted(project.Object, toCommentKey("productRefGroup"), "Products")
		}
	}
	addToObjectList(productsGroup.Object, "children", pbxGroupChild(pbxfile).ToObject())
	return nil
}

// NewFileReference creates a file reference for filePath, relative to the
// group, and appends it to the group's children.
func (p *PbxProject) NewFileReference(groupKey, filePath string) (pegparser.ObjectWithUUID, error) {
	group := p.section("PBXGroup").GetObject(groupKey)
	if group.IsEmpty() {
		return pegparser.ObjectWithUUID{}, fmt.Errorf("%w: %s", ErrGroupNotFound, groupKey)
	}

	pbxfile := newPbxFile(filePath, PbxFileOptions{})
	pbxfile.FileRef = p.generateUuid()
	p.addToPbxFileReferenceSection(pbxfile)
	addToObjectList(group, "children", pbxGroupChild(pbxfile).ToObject())
	slog.Debug("file reference created", "path", filePath, "group", groupComment(group))
	return pegparser.ObjectWithUUID{UUID: pbxfile.FileRef, Object: p.section("PBXFileReference").GetObject(pbxfile.FileRef)}, nil
}

// SetFilePath replaces the path of a file reference.
func (p *PbxProject) SetFilePath(fileRefKey, filePath string) error {
	fileRef := p.section("PBXFileReference").GetObject(fileRefKey)
	if fileRef.IsEmpty() {
		return fmt.Errorf("%w: file reference %s", ErrObjectNotFound, fileRefKey)
	}
	fileRef.Set("path", pegparser.Quote(filePath))
	slog.Debug("file path set", "uuid", fileRefKey, "path", filePath)
	return nil
}

// FileReferencePath returns the unquoted path of a file reference.
func FileReferencePath(fileRef pegparser.Object) string {
	return unquoted(fileRef.GetString("path"))
}
