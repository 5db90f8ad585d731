package cache

import (
	"fmt"
	"reflect"
	"strings"
)

// KeySeparator defines the delimiter used between cache key segments.
const KeySeparator = "/"

// pathKeySerializer joins segments into hierarchical path keys such as
// menus/{id}/submenus. Every descendant key of a resource shares the
// resource key followed by KeySeparator as a prefix.
type pathKeySerializer struct {
	namespace string
}

// NewDefaultKeySerializer creates a path serializer without namespace.
func NewDefaultKeySerializer() KeySerializer {
	return &pathKeySerializer{}
}

// NewNamespacedKeySerializer prefixes every key with namespace and KeySeparator.
// An empty namespace is the same as NewDefaultKeySerializer.
func NewNamespacedKeySerializer(namespace string) KeySerializer {
	return &pathKeySerializer{namespace: strings.Trim(namespace, KeySeparator)}
}

// SerializeKey builds a key from the leading segment and args.
func (s *pathKeySerializer) SerializeKey(method string, args ...any) string {
	parts := make([]string, 0, len(args)+2)
	if s.namespace != "" {
		parts = append(parts, s.namespace)
	}
	parts = append(parts, method)

	for _, arg := range args {
		parts = append(parts, s.serializeValue(arg))
	}

	return strings.Join(parts, KeySeparator)
}

// PrefixOf returns the prefix shared by every key nested below key.
func PrefixOf(key string) string {
	return key + KeySeparator
}

func (s *pathKeySerializer) serializeValue(v any) string {
	if v == nil {
		return "nil"
	}

	if str, ok := v.(fmt.Stringer); ok {
		rv := reflect.ValueOf(v)
		if rv.Kind() == reflect.Ptr && rv.IsNil() {
			return "nil"
		}
		return str.String()
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return "nil"
		}
		return s.serializeValue(rv.Elem().Interface())
	}

	return fmt.Sprintf("%v", v)
}
