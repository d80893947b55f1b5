package pegparser

import (
	"encoding/json"
	"reflect"

	"go.yaml.in/yaml/v3"
)

type IterateActionType = int8

const (
	IterateActionContinue IterateActionType = iota
	IterateActionBreak
)

type ObjectItem = SliceItem

// Object is an ordered dictionary as found in a .pbxproj file. Values are
// raw strings (quotes kept), ints, []interface{} or nested Objects.
type Object struct {
	*SliceMap
}

type ObjectWithUUID struct {
	Object
	UUID string
}

func NewObjectItem(key string, value interface{}) ObjectItem {
	return SliceItem{key, value}
}

func NewObject() Object {
	return Object{
		SliceMap: NewSliceMap(),
	}
}

func NewObjectWithData(items []ObjectItem) Object {
	o := NewObject()
	for _, item := range items {
		o.Set(item.key, item.data)
	}

	return o
}

func (o Object) toMarshalJSONData() map[string]interface{} {
	dataMap := make(map[string]interface{})
	o.Foreach(func(key string, val interface{}) IterateActionType {
		obj, ok := val.(Object)
		if ok {
			dataMap[key] = obj.toMarshalJSONData()
		} else {
			dataMap[key] = val
		}
		return IterateActionContinue
	})
	return dataMap
}

func (o Object) MarshalJSON() ([]byte, error) {
	return json.Marshal(o.toMarshalJSONData())
}

// MarshalYAML keeps the key order of the project file.
func (o Object) MarshalYAML() (interface{}, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	var err error
	o.Foreach(func(key string, val interface{}) IterateActionType {
		valueNode := &yaml.Node{}
		if err = valueNode.Encode(val); err != nil {
			return IterateActionBreak
		}
		keyNode := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key}
		node.Content = append(node.Content, keyNode, valueNode)
		return IterateActionContinue
	})
	if err != nil {
		return nil, err
	}
	return node, nil
}

func (o Object) IsEmpty() bool {
	if o.SliceMap == nil || o.sl == nil {
		return true
	}
	return o.Size() == 0
}

func (o Object) GetObject(key string) Object {
	if o.SliceMap == nil {
		return NewObject()
	}
	if value, ok := o.Get(key); ok {
		if obj, ok := value.(Object); ok {
			return obj
		}
	}
	return NewObject()
}

func (o Object) GetString(key string) string {
	if o.SliceMap == nil {
		return ""
	}
	if value, ok := o.Get(key); ok {
		switch v := value.(type) {
		case string:
			return v
		default:
			return ""
		}
	}
	return ""
}

func (o Object) GetInt(key string) int {
	if o.SliceMap == nil {
		return 0
	}
	if value, ok := o.Get(key); ok {
		switch value.(type) {
		case int, int8, int16, int32, int64:
			return int(reflect.ValueOf(value).Int())
		}
	}
	return 0
}

func (o Object) GetArray(key string) []interface{} {
	if o.SliceMap == nil {
		return nil
	}
	if value, ok := o.Get(key); ok {
		if arr, ok := value.([]interface{}); ok {
			return arr
		}
	}
	return nil
}

type ApplyFunc = func(key string, val interface{}) IterateActionType
type FilterFunc = func(key string, val interface{}) bool

func (o Object) Foreach(apply ApplyFunc) {
	if o.IsEmpty() {
		return
	}
	for _, item := range o.Items() {
		if item.data == nil {
			continue
		}
		action := apply(item.key.(string), item.data)
		if action == IterateActionBreak {
			break
		}
	}
}

func (o Object) ForeachWithFilter(apply ApplyFunc, filter FilterFunc) {
	if o.IsEmpty() {
		return
	}
	for _, item := range o.Items() {
		key := item.key.(string)
		val := item.data
		if val == nil {
			continue
		}
		if filter(key, val) {
			action := apply(key, val)
			if action == IterateActionBreak {
				break
			}
		}
	}
}
