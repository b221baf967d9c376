package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"io"
)

// JSONMap stores an opaque key/value bag (population row data, saved answers)
// as a JSON column.
type JSONMap map[string]string

func (m JSONMap) Value() (driver.Value, error) {
	if m == nil {
		return nil, nil
	}
	return json.Marshal(m)
}

func (m *JSONMap) Scan(value interface{}) error {
	if value == nil {
		*m = nil
		return nil
	}
	b, ok := value.([]byte)
	if !ok {
		s, ok := value.(string)
		if !ok {
			return errors.New("unsupported type for JSONMap")
		}
		b = []byte(s)
	}
	return json.Unmarshal(b, m)
}

func (m JSONMap) MarshalGQL(w io.Writer) {
	b, err := json.Marshal(m)
	if err != nil {
		w.Write([]byte("null"))
		return
	}
	w.Write(b)
}

func (m *JSONMap) UnmarshalGQL(i interface{}) error {
	raw, ok := i.(map[string]interface{})
	if !ok {
		return errors.New("map must be a json object")
	}
	out := make(JSONMap, len(raw))
	for k, v := range raw {
		s, ok := v.(string)
		if !ok {
			return errors.New("map values must be strings")
		}
		out[k] = s
	}
	*m = out
	return nil
}

// StringList stores an ordered list of strings as a JSON column.
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return nil, nil
	}
	return json.Marshal(l)
}

func (l *StringList) Scan(value interface{}) error {
	if value == nil {
		*l = nil
		return nil
	}
	b, ok := value.([]byte)
	if !ok {
		s, ok := value.(string)
		if !ok {
			return errors.New("unsupported type for StringList")
		}
		b = []byte(s)
	}
	return json.Unmarshal(b, l)
}

func (l StringList) MarshalGQL(w io.Writer) {
	b, err := json.Marshal(l)
	if err != nil {
		w.Write([]byte("null"))
		return
	}
	w.Write(b)
}

func (l *StringList) UnmarshalGQL(i interface{}) error {
	raw, ok := i.([]interface{})
	if !ok {
		// single bare string is accepted as a one-element list
		if s, ok := i.(string); ok {
			*l = StringList{s}
			return nil
		}
		return errors.New("string list must be an array of strings")
	}
	out := make(StringList, 0, len(raw))
	for _, v := range raw {
		s, ok := v.(string)
		if !ok {
			return errors.New("string list values must be strings")
		}
		out = append(out, s)
	}
	*l = out
	return nil
}

func (l StringList) Contains(v string) bool {
	for _, s := range l {
		if s == v {
			return true
		}
	}
	return false
}

// QuestionList and FilterList persist the configuration pipeline state.
type QuestionList []ConfigurationQuestion

func (l QuestionList) Value() (driver.Value, error) {
	if l == nil {
		return nil, nil
	}
	return json.Marshal(l)
}

func (l *QuestionList) Scan(value interface{}) error {
	if value == nil {
		*l = nil
		return nil
	}
	b, ok := value.([]byte)
	if !ok {
		s, ok := value.(string)
		if !ok {
			return errors.New("unsupported type for QuestionList")
		}
		b = []byte(s)
	}
	return json.Unmarshal(b, l)
}

type FilterList []ConfigurationFilter

func (l FilterList) Value() (driver.Value, error) {
	if l == nil {
		return nil, nil
	}
	return json.Marshal(l)
}

func (l *FilterList) Scan(value interface{}) error {
	if value == nil {
		*l = nil
		return nil
	}
	b, ok := value.([]byte)
	if !ok {
		s, ok := value.(string)
		if !ok {
			return errors.New("unsupported type for FilterList")
		}
		b = []byte(s)
	}
	return json.Unmarshal(b, l)
}
