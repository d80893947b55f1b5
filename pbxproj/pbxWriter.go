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
	"os"
	"strings"

	"github.com/kaya-app/pbxshare/pegparser"
)

const (
	INDENT = "\t"
)

type StringWriter interface {
	WriteString(string) (int, error)
	String() string
}

type PbxWriterOption func(w *PbxWriter)

// WithOmitEmpty drops string values that are empty. Quoted empty strings ("")
// are values and are always written.
func WithOmitEmpty() PbxWriterOption {
	return func(w *PbxWriter) {
		w.omitEmptyValues = true
	}
}

func WithStringWriter(writer StringWriter) PbxWriterOption {
	return func(w *PbxWriter) {
		w.stringWriter = writer
	}
}

// PbxWriter serializes a project in the layout Xcode itself produces, so an
// untouched project is written back byte for byte.
type PbxWriter struct {
	stringWriter    StringWriter
	omitEmptyValues bool
	contents        pegparser.Object
	indentLevel     int
	err             error
}

func NewPbxWriter(project *PbxProject, options ...PbxWriterOption) *PbxWriter {
	w := &PbxWriter{
		contents:     project.Contents(),
		stringWriter: &strings.Builder{},
	}
	for _, option := range options {
		option(w)
	}
	return w
}

func indent(x int) string {
	if x <= 0 {
		return ""
	}
	return strings.Repeat(INDENT, x)
}

func getComment(key string, parent pegparser.Object) string {
	return parent.GetString(toCommentKey(key))
}

func withComment(value, cmt string) string {
	if cmt == "" {
		return value
	}
	return value + " /* " + cmt + " */"
}

func (w *PbxWriter) writeString(str string) {
	_, _ = w.stringWriter.WriteString(str)
}

func (w *PbxWriter) write(format string, args ...interface{}) {
	w.writeString(indent(w.indentLevel) + fmt.Sprintf(format, args...))
}

func (w *PbxWriter) fail(format string, args ...interface{}) {
	if w.err == nil {
		w.err = fmt.Errorf(format, args...)
	}
}

// Render returns the serialized project.
func (w *PbxWriter) Render() (string, error) {
	w.writeHeadComment()
	w.writeProject()
	if w.err != nil {
		return "", w.err
	}
	return w.stringWriter.String(), nil
}

func (w *PbxWriter) Write(filePath string) error {
	out, err := w.Render()
	if err != nil {
		return err
	}
	return os.WriteFile(filePath, []byte(out), 0644)
}

func (w *PbxWriter) writeHeadComment() {
	comment := w.contents.GetString("headComment")
	if comment != "" {
		w.writeString("// " + comment + "\n")
	}
}

func (w *PbxWriter) writeProject() {
	proj := w.contents.GetObject("project")

	w.write("{\n")
	w.indentLevel++
	w.writeObject(proj, true)
	w.indentLevel--
	w.write("}\n")
}

func (w *PbxWriter) writeObject(obj pegparser.Object, root bool) {
	obj.ForeachWithFilter(func(key string, val interface{}) pegparser.IterateActionType {
		cmt := getComment(key, obj)
		switch {
		case isArray(val):
			w.writeArray(toArray(val), key)
		case isObject(val):
			w.write("%s = {\n", withComment(key, cmt))
			w.indentLevel++
			if root && key == "objects" {
				w.writeObjectsSections(toObject(val))
			} else {
				w.writeObject(toObject(val), false)
			}
			w.indentLevel--
			w.write("};\n")
		case isString(val):
			str := toString(val)
			if w.omitEmptyValues && str == "" {
				return pegparser.IterateActionContinue
			}
			w.write("%s = %s;\n", key, withComment(str, cmt))
		case isInt(val):
			w.write("%s = %s;\n", key, withComment(toIntString(val), cmt))
		default:
			w.fail("unsupported value for %s: %T", key, val)
		}
		return pegparser.IterateActionContinue
	}, nonCommentsFilter)
}

func (w *PbxWriter) writeObjectsSections(obj pegparser.Object) {
	obj.ForeachWithFilter(func(key string, val interface{}) pegparser.IterateActionType {
		if !isObject(val) || toObject(val).IsEmpty() {
			return pegparser.IterateActionContinue
		}
		w.writeString("\n")
		w.writeSectionComment(key, true)
		w.writeSection(toObject(val))
		w.writeSectionComment(key, false)
		return pegparser.IterateActionContinue
	}, nonCommentsFilter)
}

func (w *PbxWriter) writeArray(arr []interface{}, name string) {
	w.write("%s = (\n", name)
	w.indentLevel++

	for _, item := range arr {
		switch {
		case isObject(item):
			val := toObject(item)
			value := val.GetString("value")
			comment := val.GetString("comment")
			if value != "" && comment != "" && val.Size() == 2 {
				w.write("%s,\n", withComment(value, comment))
			} else {
				w.write("{\n")
				w.indentLevel++
				w.writeObject(val, false)
				w.indentLevel--
				w.write("},\n")
			}
		case isString(item):
			w.write("%s,\n", toString(item))
		case isInt(item):
			w.write("%s,\n", toIntString(item))
		default:
			w.fail("unsupported array item in %s: %T", name, item)
		}
	}
	w.indentLevel--
	w.write(");\n")
}

func (w *PbxWriter) writeSectionComment(name string, begin bool) {
	if begin {
		w.writeString("/* Begin " + name + " section */\n")
	} else {
		w.writeString("/* End " + name + " section */\n")
	}
}

func (w *PbxWriter) writeSection(section pegparser.Object) {
	section.ForeachWithFilter(func(key string, val interface{}) pegparser.IterateActionType {
		if !isObject(val) {
			return pegparser.IterateActionContinue
		}
		cmt := getComment(key, section)
		obj := toObject(val)
		isa := obj.GetString("isa")
		if isa == "PBXBuildFile" || isa == "PBXFileReference" {
			w.write("%s = %s\n", withComment(key, cmt), w.inlineObject(obj))
			return pegparser.IterateActionContinue
		}
		w.write("%s = {\n", withComment(key, cmt))
		w.indentLevel++
		w.writeObject(obj, false)
		w.indentLevel--
		w.write("};\n")
		return pegparser.IterateActionContinue
	}, nonCommentsFilter)
}

// inlineObject renders a dictionary on one line, e.g.
// {isa = PBXBuildFile; fileRef = 1234 /* a.swift */; settings = {ATTRIBUTES = (Weak, ); }; };
func (w *PbxWriter) inlineObject(obj pegparser.Object) string {
	var b strings.Builder
	b.WriteString("{")
	obj.ForeachWithFilter(func(key string, val interface{}) pegparser.IterateActionType {
		cmt := getComment(key, obj)
		switch {
		case isArray(val):
			b.WriteString(key + " = (")
			for _, item := range toArray(val) {
				switch {
				case isString(item):
					b.WriteString(toString(item) + ", ")
				case isInt(item):
					b.WriteString(toIntString(item) + ", ")
				case isObject(item):
					ref := toObject(item)
					b.WriteString(withComment(ref.GetString("value"), ref.GetString("comment")) + ", ")
				default:
					w.fail("unsupported array item in %s: %T", key, item)
				}
			}
			b.WriteString("); ")
		case isObject(val):
			b.WriteString(withComment(key, cmt) + " = " + w.inlineObject(toObject(val)) + " ")
		case isString(val):
			str := toString(val)
			if w.omitEmptyValues && str == "" {
				return pegparser.IterateActionContinue
			}
			b.WriteString(key + " = " + withComment(str, cmt) + "; ")
		case isInt(val):
			b.WriteString(key + " = " + withComment(toIntString(val), cmt) + "; ")
		default:
			w.fail("unsupported value for %s: %T", key, val)
		}
		return pegparser.IterateActionContinue
	}, nonCommentsFilter)
	b.WriteString("};")
	return b.String()
}
