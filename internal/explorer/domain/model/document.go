package model

import (
	"strings"
)

// Reserved system properties carried by retrieved documents.
const (
	FieldID       = "id"
	FieldSelfLink = "_self"
)

// Document is one retrieved document record: field name to value, with a
// required "id" field.
type Document map[string]interface{}

// ID returns the document id, or "" when the record has none.
func (d Document) ID() string {
	id, _ := d[FieldID].(string)
	return id
}

// SelfLink returns the server-issued self link, or "" when absent.
func (d Document) SelfLink() string {
	link, _ := d[FieldSelfLink].(string)
	return link
}

// Value resolves a partition-key style path such as "/address/city" against the
// document. Missing segments or non-object intermediates report false.
func (d Document) Value(path string) (interface{}, bool) {
	segments := strings.Split(strings.Trim(path, "/"), "/")
	if len(segments) == 0 || segments[0] == "" {
		return nil, false
	}

	var current interface{} = map[string]interface{}(d)
	for _, segment := range segments {
		var obj map[string]interface{}
		switch v := current.(type) {
		case map[string]interface{}:
			obj = v
		case Document:
			obj = v
		default:
			return nil, false
		}
		next, ok := obj[segment]
		if !ok {
			return nil, false
		}
		current = next
	}
	return current, true
}
