package reflectx

import (
	"reflect"

	"github.com/duke-git/lancet/v2/maputil"
)

const nilTypeName = "<nil>"

var names = maputil.NewConcurrentMap[reflect.Type, string](16)

// TypeFullName 包路径加类型名，指针会被解引用
func TypeFullName(v interface{}) string {
	t := reflect.TypeOf(v)
	if t == nil {
		return nilTypeName
	}
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.PkgPath() + ":" + t.Name()
}

// NameOf 返回值的动态类型名 (如 *ptero.Read)，结果按类型缓存
func NameOf(v interface{}) string {
	return nameOfType(reflect.TypeOf(v))
}

// NameFor 返回类型参数 T 的名字，T 为接口类型时同样适用
func NameFor[T any]() string {
	return nameOfType(reflect.TypeOf((*T)(nil)).Elem())
}

func nameOfType(t reflect.Type) string {
	if t == nil {
		return nilTypeName
	}
	if v, ok := names.Get(t); ok {
		return v
	}
	v, _ := names.GetOrSet(t, t.String())
	return v
}
