package pbxproj

import (
	"reflect"
	"strconv"
	"strings"

	"github.com/kaya-app/pbxshare/pegparser"
)

const COMMENT_KEY_SUFFIX = pegparser.COMMENT_KEY_SUFFIX

func isObject(obj interface{}) bool {
	_, ok := obj.(pegparser.Object)
	return ok
}
func toObject(obj interface{}) pegparser.Object {
	return obj.(pegparser.Object)
}

func isArray(obj interface{}) bool {
	_, ok := obj.([]interface{})
	return ok
}

func toArray(obj interface{}) []interface{} {
	return obj.([]interface{})
}

func isString(obj interface{}) bool {
	_, ok := obj.(string)
	return ok
}
func toString(obj interface{}) string {
	return obj.(string)
}

func isInt(obj interface{}) bool {
	switch obj.(type) {
	case int, int8, int16, int32, int64:
		return true
	}
	return false
}
func toIntString(obj interface{}) string {
	switch obj.(type) {
	case int, int8, int16, int32, int64:
		return strconv.FormatInt(reflect.ValueOf(obj).Int(), 10)
	}

	return ""
}

func toCommentKey(key string) string {
	return key + COMMENT_KEY_SUFFIX
}

func isCommentKey(key string) bool {
	return strings.HasSuffix(key, COMMENT_KEY_SUFFIX)
}

func nonCommentsFilter(key string, v interface{}) bool {
	return !onlyCommentsFilter(key, v)
}

func onlyCommentsFilter(key string, _ interface{}) bool {
	return isCommentKey(key)
}

// interfaceToStringSlice unquotes every string element; other elements are skipped.
func interfaceToStringSlice(val interface{}) []string {
	if val == nil {
		return nil
	}
	switch val := val.(type) {
	case []interface{}:
		result := make([]string, 0, len(val))
		for _, v := range val {
			if s, ok := v.(string); ok {
				result = append(result, unquoted(s))
			}
		}
		return result
	case string:
		return []string{unquoted(val)}
	default:
		return nil
	}
}

func addToObjectList(obj pegparser.Object, key string, val interface{}) {
	if obj.IsEmpty() {
		return
	}
	list := obj.ForceGet(key)
	if list == nil {
		list = []interface{}{val}
	} else {
		list = append(list.([]interface{}), val)
	}
	obj.Set(key, list)
}

// setSorted inserts a new key where Xcode would put it in an alphabetically
// ordered dictionary. Existing keys keep their position.
func setSorted(obj pegparser.Object, key string, val interface{}) {
	if obj.Has(key) {
		obj.Set(key, val)
		return
	}
	idx := 0
	for i, item := range obj.Items() {
		if item.Key() < key {
			idx = i + 1
		}
	}
	obj.InsertAt(idx, key, val)
}
