package debugui

import "reflect"

// editKind selects the widget used to show and edit a value.
type editKind uint8

const (
	editReadOnly editKind = iota
	editInt
	editUint
	editFloat
	editBool
	editString
	editNested
)

type FieldInfo struct {
	Name  string
	Type  reflect.Type
	Index int
	Edit  editKind
}

// ReflectionCache remembers the exported fields of the component types the
// inspector has shown. Like the store it is meant for a single goroutine.
type ReflectionCache struct {
	fieldCache map[reflect.Type][]FieldInfo
}

func NewReflectionCache() *ReflectionCache {
	return &ReflectionCache{
		fieldCache: make(map[reflect.Type][]FieldInfo),
	}
}

// GetFields lists the exported fields of a struct type. Non-struct types
// have no fields.
func (rc *ReflectionCache) GetFields(t reflect.Type) []FieldInfo {
	if cached, ok := rc.fieldCache[t]; ok {
		return cached
	}

	var fields []FieldInfo
	if t.Kind() == reflect.Struct {
		for i := 0; i < t.NumField(); i++ {
			field := t.Field(i)
			if !field.IsExported() {
				continue
			}
			fields = append(fields, FieldInfo{
				Name:  field.Name,
				Type:  field.Type,
				Index: i,
				Edit:  editKindOf(field.Type),
			})
		}
	}

	rc.fieldCache[t] = fields
	return fields
}

func editKindOf(t reflect.Type) editKind {
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return editInt
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return editUint
	case reflect.Float32, reflect.Float64:
		return editFloat
	case reflect.Bool:
		return editBool
	case reflect.String:
		return editString
	case reflect.Struct:
		return editNested
	}
	return editReadOnly
}

var globalReflectionCache = NewReflectionCache()
