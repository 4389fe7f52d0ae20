// Copyright 2023 the Firebase REST Firestore Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package firestore

// Encoding and decoding between Go values and the Firestore REST value
// representation. A Firestore value on the wire is a JSON object with
// exactly one of the tagged fields below populated.

import (
	"encoding/base64"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"time"
)

// A Value is the wire representation of a single document field.
// Exactly one field is set.
type Value struct {
	NullValue      *string     `json:"nullValue,omitempty"`
	BooleanValue   *bool       `json:"booleanValue,omitempty"`
	IntegerValue   *string     `json:"integerValue,omitempty"`
	DoubleValue    *float64    `json:"doubleValue,omitempty"`
	TimestampValue *string     `json:"timestampValue,omitempty"`
	StringValue    *string     `json:"stringValue,omitempty"`
	BytesValue     *string     `json:"bytesValue,omitempty"`
	ReferenceValue *string     `json:"referenceValue,omitempty"`
	ArrayValue     *ArrayValue `json:"arrayValue,omitempty"`
	MapValue       *MapValue   `json:"mapValue,omitempty"`
}

// An ArrayValue is the wire representation of an ordered list of values.
type ArrayValue struct {
	Values []Value `json:"values,omitempty"`
}

// A MapValue is the wire representation of a nested object.
type MapValue struct {
	Fields map[string]Value `json:"fields,omitempty"`
}

// A Document is the wire representation of a Firestore document.
type Document struct {
	Name       string           `json:"name,omitempty"`
	Fields     map[string]Value `json:"fields,omitempty"`
	CreateTime string           `json:"createTime,omitempty"`
	UpdateTime string           `json:"updateTime,omitempty"`
}

// The service encodes int64 as a decimal string (proto3 JSON), and the
// NullValue enum by its name.
const wireNull = "NULL_VALUE"

// maxSafeInteger is the largest float64 whose integer value is exact.
// Whole numbers up to this magnitude encode as integers, larger ones
// as doubles.
const maxSafeInteger = 1<<53 - 1

// EncodeValue encodes a Go value as a Firestore Value.
//
// Supported types are nil, bool, string, all Go integer kinds, float32,
// float64, time.Time, []byte, slices and maps with string keys (elements
// encoded recursively). Any other value degrades to its fmt.Sprint string
// form rather than failing.
func EncodeValue(x interface{}) Value {
	switch v := x.(type) {
	case nil:
		null := wireNull
		return Value{NullValue: &null}
	case time.Time:
		s := v.UTC().Format(time.RFC3339Nano)
		return Value{TimestampValue: &s}
	case string:
		return Value{StringValue: &v}
	case bool:
		return Value{BooleanValue: &v}
	case []byte:
		s := base64.StdEncoding.EncodeToString(v)
		return Value{BytesValue: &s}
	case int:
		return integerValue(int64(v))
	case int8:
		return integerValue(int64(v))
	case int16:
		return integerValue(int64(v))
	case int32:
		return integerValue(int64(v))
	case int64:
		return integerValue(v)
	case uint:
		return integerValue(int64(v))
	case uint8:
		return integerValue(int64(v))
	case uint16:
		return integerValue(int64(v))
	case uint32:
		return integerValue(int64(v))
	case uint64:
		return integerValue(int64(v))
	case float32:
		return floatValue(float64(v))
	case float64:
		return floatValue(v)
	case []interface{}:
		vals := make([]Value, len(v))
		for i, e := range v {
			vals[i] = EncodeValue(e)
		}
		return Value{ArrayValue: &ArrayValue{Values: vals}}
	case map[string]interface{}:
		fields := make(map[string]Value, len(v))
		for k, e := range v {
			fields[k] = EncodeValue(e)
		}
		return Value{MapValue: &MapValue{Fields: fields}}
	}
	return encodeReflect(reflect.ValueOf(x))
}

// encodeReflect handles typed slices and maps (e.g. []string,
// map[string]int) that don't match the interface cases above.
func encodeReflect(rv reflect.Value) Value {
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		vals := make([]Value, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			vals[i] = EncodeValue(rv.Index(i).Interface())
		}
		return Value{ArrayValue: &ArrayValue{Values: vals}}
	case reflect.Map:
		if rv.Type().Key().Kind() == reflect.String {
			fields := make(map[string]Value, rv.Len())
			iter := rv.MapRange()
			for iter.Next() {
				fields[iter.Key().String()] = EncodeValue(iter.Value().Interface())
			}
			return Value{MapValue: &MapValue{Fields: fields}}
		}
	case reflect.Ptr, reflect.Interface:
		if rv.IsNil() {
			null := wireNull
			return Value{NullValue: &null}
		}
		return EncodeValue(rv.Elem().Interface())
	}
	// Fall back to string coercion; encoding is total.
	s := fmt.Sprint(rv.Interface())
	return Value{StringValue: &s}
}

func integerValue(n int64) Value {
	s := strconv.FormatInt(n, 10)
	return Value{IntegerValue: &s}
}

// floatValue encodes a whole number within the safe-integer range as an
// integer, everything else as a double. The distinction is inferred from
// the number's shape, so a round trip may change float64(3) to int64(3).
func floatValue(f float64) Value {
	if f == math.Trunc(f) && math.Abs(f) <= maxSafeInteger {
		return integerValue(int64(f))
	}
	return Value{DoubleValue: &f}
}

// DecodeValue converts a Firestore Value into the corresponding Go value:
// string, int64, float64, bool, time.Time, []byte, []interface{} or
// map[string]interface{}. A value with no populated tag decodes to nil.
func DecodeValue(v Value) interface{} {
	switch {
	case v.NullValue != nil:
		return nil
	case v.BooleanValue != nil:
		return *v.BooleanValue
	case v.IntegerValue != nil:
		n, err := strconv.ParseInt(*v.IntegerValue, 10, 64)
		if err != nil {
			return *v.IntegerValue
		}
		return n
	case v.DoubleValue != nil:
		return *v.DoubleValue
	case v.TimestampValue != nil:
		t, err := time.Parse(time.RFC3339Nano, *v.TimestampValue)
		if err != nil {
			return *v.TimestampValue
		}
		return t.UTC()
	case v.StringValue != nil:
		return *v.StringValue
	case v.BytesValue != nil:
		b, err := base64.StdEncoding.DecodeString(*v.BytesValue)
		if err != nil {
			return *v.BytesValue
		}
		return b
	case v.ReferenceValue != nil:
		return *v.ReferenceValue
	case v.ArrayValue != nil:
		s := make([]interface{}, len(v.ArrayValue.Values))
		for i, e := range v.ArrayValue.Values {
			s[i] = DecodeValue(e)
		}
		return s
	case v.MapValue != nil:
		m := make(map[string]interface{}, len(v.MapValue.Fields))
		for k, e := range v.MapValue.Fields {
			m[k] = DecodeValue(e)
		}
		return m
	}
	return nil
}

// EncodeDocument encodes a field map into a wire document.
func EncodeDocument(data map[string]interface{}) *Document {
	fields := make(map[string]Value, len(data))
	for k, v := range data {
		fields[k] = EncodeValue(v)
	}
	return &Document{Fields: fields}
}

// DecodeDocument decodes a wire document into a field map, attaching the
// document's ID under the "id" key. The ID is the trailing segment of the
// document's resource name. A document with no fields decodes to a map
// holding only the ID.
func DecodeDocument(doc *Document) map[string]interface{} {
	m := make(map[string]interface{}, len(doc.Fields)+1)
	for k, v := range doc.Fields {
		m[k] = DecodeValue(v)
	}
	m["id"] = DocumentID(doc.Name)
	return m
}
