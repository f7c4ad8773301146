package payloadcms

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// ID is a document id. Payload emits numbers on SQL adapters and strings on Mongo.
type ID string

func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("payloadcms: id must be string or number: %w", err)
	}
	*id = ID(n.String())
	return nil
}

func (id ID) String() string { return string(id) }

// Relation is a relationship field. With depth=0 it is a bare id; otherwise the related
// document is populated.
type Relation[T any] struct {
	ID    ID
	Value *T
}

func (r *Relation[T]) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*r = Relation[T]{}
		return nil
	}
	if len(data) > 0 && data[0] != '{' {
		var id ID
		if err := json.Unmarshal(data, &id); err != nil {
			return err
		}
		*r = Relation[T]{ID: id}
		return nil
	}

	var head struct {
		ID ID `json:"id"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return err
	}
	var value T
	if err := json.Unmarshal(data, &value); err != nil {
		return err
	}
	*r = Relation[T]{ID: head.ID, Value: &value}
	return nil
}

func (r Relation[T]) MarshalJSON() ([]byte, error) {
	if r.Value != nil {
		return json.Marshal(r.Value)
	}
	if r.ID == "" {
		return []byte("null"), nil
	}
	if _, err := strconv.ParseInt(string(r.ID), 10, 64); err == nil {
		return []byte(r.ID), nil
	}
	return json.Marshal(string(r.ID))
}

// Populated reports whether the related document was included.
func (r Relation[T]) Populated() bool {
	return r.Value != nil
}

// Media is the upload collection document.
type Media struct {
	ID       ID     `json:"id"`
	Alt      string `json:"alt,omitempty"`
	URL      string `json:"url,omitempty"`
	Filename string `json:"filename,omitempty"`
	MimeType string `json:"mimeType,omitempty"`
	Width    int    `json:"width,omitempty"`
	Height   int    `json:"height,omitempty"`
}

// AbsoluteURL resolves a relative media path against base.
func (m Media) AbsoluteURL(base string) string {
	u := strings.TrimSpace(m.URL)
	if u == "" || strings.HasPrefix(u, "http://") || strings.HasPrefix(u, "https://") {
		return u
	}
	base = strings.TrimRight(strings.TrimSpace(base), "/")
	if base == "" {
		return u
	}
	return base + "/" + strings.TrimLeft(u, "/")
}
