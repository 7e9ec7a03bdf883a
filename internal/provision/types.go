package provision

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// ID is a remote identifier. Teams use string identifiers while projects use numbers;
// ID keeps the wire form so it is sent back exactly as received.
type ID struct {
	value   string
	numeric bool
}

// StringID builds a string-typed identifier.
func StringID(v string) ID { return ID{value: v} }

// NumericID builds a number-typed identifier.
func NumericID(v int64) ID { return ID{value: strconv.FormatInt(v, 10), numeric: true} }

// String returns the identifier text.
func (id ID) String() string { return id.value }

// IsZero reports whether the identifier is empty.
func (id ID) IsZero() bool { return id.value == "" }

// MarshalJSON implements json.Marshaler.
func (id ID) MarshalJSON() ([]byte, error) {
	if id.numeric {
		return []byte(id.value), nil
	}
	return json.Marshal(id.value)
}

// UnmarshalJSON implements json.Unmarshaler.
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ID{}
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = StringID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("decode id: %w", err)
	}
	*id = ID{value: n.String(), numeric: true}
	return nil
}

// Team is a remote team.
type Team struct {
	ID         ID     `json:"id"`
	Name       string `json:"name"`
	Visibility string `json:"visibility,omitempty"`
}

// Project is a remote project. DSN is only populated by the details endpoint.
type Project struct {
	ID         ID     `json:"id"`
	Team       ID     `json:"team"`
	Name       string `json:"name"`
	Visibility string `json:"visibility,omitempty"`
	DSN        string `json:"dsn,omitempty"`
}

type listResponse[T any] struct {
	Results []T `json:"results"`
}

type createTeamRequest struct {
	Name       string `json:"name"`
	Visibility string `json:"visibility"`
}

type createProjectRequest struct {
	Team       ID     `json:"team"`
	Name       string `json:"name"`
	Visibility string `json:"visibility"`
}
