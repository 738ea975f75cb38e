package serialization

import (
	"reflect"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
)

// Serializer converts application payloads and error details to and from
// their wire representation. Implementations must be safe for concurrent
// use.
type Serializer interface {
	// Serialize encodes v and returns the bytes together with the type
	// name a receiver needs to pick a target for Deserialize.
	Serialize(v interface{}) ([]byte, string, error)
	// Deserialize decodes data into v.
	Deserialize(data []byte, v interface{}) error
	// TypeOf reports the type name Serialize would attach to v.
	TypeOf(v interface{}) string
}

type jsonSerializer struct {
	api jsoniter.API
}

// NewJSON returns a Serializer backed by json-iterator with standard
// library compatible behavior.
func NewJSON() Serializer {
	return &jsonSerializer{api: jsoniter.ConfigCompatibleWithStandardLibrary}
}

func (s *jsonSerializer) Serialize(v interface{}) ([]byte, string, error) {
	data, err := s.api.Marshal(v)
	if err != nil {
		return nil, "", errors.Wrap(err, "serializing payload")
	}
	return data, s.TypeOf(v), nil
}

func (s *jsonSerializer) Deserialize(data []byte, v interface{}) error {
	if err := s.api.Unmarshal(data, v); err != nil {
		return errors.Wrap(err, "deserializing payload")
	}
	return nil
}

func (s *jsonSerializer) TypeOf(v interface{}) string {
	if v == nil {
		return ""
	}
	t := reflect.TypeOf(v)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Name() != "" {
		return t.String()
	}
	return t.Kind().String()
}
