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
	"path/filepath"
	"strings"

	"github.com/kaya-app/pbxshare/pegparser"
)

const (
	DEFAULT_SOURCETREE         = "\"<group>\""
	DEFAULT_PRODUCT_SOURCETREE = "BUILT_PRODUCTS_DIR"
	DEFAULT_GROUP              = "Resources"
	DEFAULT_FILETYPE           = "unknown"
)

var FILETYPE_BY_EXTENSION = map[string]string{
	"a":            "archive.ar",
	"app":          "wrapper.application",
	"appex":        "wrapper.app-extension",
	"bundle":       "wrapper.plug-in",
	"dylib":        "compiled.mach-o.dylib",
	"entitlements": "text.plist.entitlements",
	"framework":    "wrapper.framework",
	"h":            "sourcecode.c.h",
	"m":            "sourcecode.c.objc",
	"markdown":     "text",
	"mdimporter":   "wrapper.cfbundle",
	"pch":          "sourcecode.c.h",
	"plist":        "text.plist.xml",
	"sh":           "text.script.sh",
	"storyboard":   "file.storyboard",
	"swift":        "sourcecode.swift",
	"tbd":          "sourcecode.text-based-dylib-definition",
	"xcassets":     "folder.assetcatalog",
	"xcconfig":     "text.xcconfig",
	"xcdatamodel":  "wrapper.xcdatamodel",
	"xcodeproj":    "wrapper.pb-project",
	"xctest":       "wrapper.cfbundle",
	"xib":          "file.xib",
	"strings":      "text.plist.strings",
}

// several extensions share a file type; the product extension is the one Xcode uses
var EXTENSION_BY_FILETYPE = map[string]string{
	"wrapper.application":     "app",
	"wrapper.app-extension":   "appex",
	"wrapper.plug-in":         "bundle",
	"compiled.mach-o.dylib":   "dylib",
	"wrapper.framework":       "framework",
	"archive.ar":              "a",
	"wrapper.cfbundle":        "xctest",
	"sourcecode.swift":        "swift",
	"sourcecode.c.objc":       "m",
	"sourcecode.c.h":          "h",
	"text.plist.xml":          "plist",
	"text.plist.entitlements": "entitlements",
}

var GROUP_BY_FILETYPE = map[string]string{
	"archive.ar":                             "Frameworks",
	"compiled.mach-o.dylib":                  "Frameworks",
	"sourcecode.text-based-dylib-definition": "Frameworks",
	"wrapper.framework":                      "Frameworks",
	"sourcecode.c.h":                         "Resources",
	"sourcecode.c.objc":                      "Sources",
	"sourcecode.swift":                       "Sources",
}

var SOURCETREE_BY_FILETYPE = map[string]string{
	"compiled.mach-o.dylib":                  "SDKROOT",
	"sourcecode.text-based-dylib-definition": "SDKROOT",
	"wrapper.framework":                      "SDKROOT",
}

const DEFAULT_ENCODING_VALUE = 4

var ENCODING_BY_FILETYPE = map[string]int{
	"sourcecode.c.h":     DEFAULT_ENCODING_VALUE,
	"sourcecode.c.objc":  DEFAULT_ENCODING_VALUE,
	"sourcecode.swift":   DEFAULT_ENCODING_VALUE,
	"text":               DEFAULT_ENCODING_VALUE,
	"text.script.sh":     DEFAULT_ENCODING_VALUE,
	"text.xcconfig":      DEFAULT_ENCODING_VALUE,
	"text.plist.strings": DEFAULT_ENCODING_VALUE,
}

func unquoted(text string) string {
	return pegparser.Unquote(text)
}

type PbxFileOptions struct {
	LastKnownFileType string
	ExplicitFileType  string
	SourceTree        string
	Target            string
	Group             string
}

type PbxFile struct {
	Basename          string
	FileRef           string
	LastKnownFileType string
	Group             string
	Path              string
	FileEncoding      int
	ExplicitFileType  string
	SourceTree        string
	IncludeInIndex    int
	Uuid              string
	Target            string
}

func newPbxFile(filePath string, options PbxFileOptions) *PbxFile {
	pbxfile := PbxFile{
		IncludeInIndex: 0,
	}
	pbxfile.Basename = filepath.Base(filePath)
	if options.LastKnownFileType != "" {
		pbxfile.LastKnownFileType = options.LastKnownFileType
	} else {
		pbxfile.LastKnownFileType = pbxfile.detectType(filePath)
	}

	// When referencing products / build output files
	if options.ExplicitFileType != "" {
		pbxfile.ExplicitFileType = options.ExplicitFileType
		if ext := pbxfile.defaultExtension(); ext != "" {
			pbxfile.Basename = pbxfile.Basename + "." + ext
		}
		pbxfile.Path = pbxfile.Basename
		pbxfile.LastKnownFileType = ""
		pbxfile.Group = options.Group
	} else {
		pbxfile.FileEncoding = pbxfile.initDefaultEncoding()
		pbxfile.Group = pbxfile.detectGroup()
		pbxfile.Path = filepath.ToSlash(filePath)
	}

	if options.SourceTree != "" {
		pbxfile.SourceTree = options.SourceTree
	} else {
		pbxfile.SourceTree = pbxfile.detectSourcetree()
	}
	pbxfile.Target = options.Target
	return &pbxfile
}

func (pbxfile *PbxFile) fileType() string {
	if pbxfile.LastKnownFileType != "" && pbxfile.LastKnownFileType != DEFAULT_FILETYPE {
		return unquoted(pbxfile.LastKnownFileType)
	}
	return unquoted(pbxfile.ExplicitFileType)
}

func (pbxfile *PbxFile) defaultExtension() string {
	return EXTENSION_BY_FILETYPE[pbxfile.fileType()]
}

func (pbxfile *PbxFile) detectType(filePath string) string {
	extension := strings.TrimPrefix(filepath.Ext(filePath), ".")
	if extension == "" {
		return DEFAULT_FILETYPE
	}
	filetype, found := FILETYPE_BY_EXTENSION[strings.ToLower(extension)]
	if !found {
		return DEFAULT_FILETYPE
	}

	return filetype
}

// detectGroup names the build phase a file of this type belongs to.
func (pbxfile *PbxFile) detectGroup() string {
	groupName, ok := GROUP_BY_FILETYPE[pbxfile.fileType()]
	if !ok {
		groupName = DEFAULT_GROUP
	}
	return groupName
}

func (pbxfile *PbxFile) initDefaultEncoding() int {
	return ENCODING_BY_FILETYPE[pbxfile.fileType()]
}

func (pbxfile *PbxFile) detectSourcetree() string {
	if pbxfile.ExplicitFileType != "" {
		return DEFAULT_PRODUCT_SOURCETREE
	}

	sourcetree, ok := SOURCETREE_BY_FILETYPE[pbxfile.fileType()]
	if !ok {
		sourcetree = DEFAULT_SOURCETREE
	}
	return sourcetree
}

func newPbxFileReferenceObj(pbxfile *PbxFile) pegparser.Object {
	obj := pegparser.NewObject()
	obj.Set("isa", "PBXFileReference")
	if pbxfile.ExplicitFileType != "" {
		obj.Set("explicitFileType", pegparser.Quote(pbxfile.ExplicitFileType))
		obj.Set("includeInIndex", pbxfile.IncludeInIndex)
	}
	if pbxfile.FileEncoding != 0 {
		obj.Set("fileEncoding", pbxfile.FileEncoding)
	}
	if pbxfile.LastKnownFileType != "" {
		obj.Set("lastKnownFileType", pegparser.Quote(pbxfile.LastKnownFileType))
	}
	obj.Set("path", pegparser.Quote(pbxfile.Path))
	obj.Set("sourceTree", pbxfile.SourceTree)
	return obj
}

func pbxBuildFileObj(pbxfile *PbxFile) pegparser.Object {
	obj := pegparser.NewObject()
	obj.Set("isa", "PBXBuildFile")
	obj.Set("fileRef", pbxfile.FileRef)
	obj.Set(toCommentKey("fileRef"), pbxfile.Basename)
	return obj
}

func pbxGroupChild(pbxfile *PbxFile) CommentValue {
	return CommentValue{
		Value:   pbxfile.FileRef,
		Comment: pbxfile.Basename,
	}
}

func pbxBuildPhaseObj(pbxfile *PbxFile) pegparser.Object {
	obj := pegparser.NewObject()
	obj.Set("value", pbxfile.Uuid)
	obj.Set("comment", longComment(pbxfile))
	return obj
}

func pbxFileReferenceComment(pbxfile *PbxFile) string {
	if pbxfile.Basename != "" {
		return pbxfile.Basename
	}
	return filepath.Base(pbxfile.Path)
}

func longComment(pbxfile *PbxFile) string {
	return pbxfile.Basename + " in " + pbxfile.Group
}
