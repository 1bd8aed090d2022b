/*
Package factory provides JSON to stored-document conversion.

PURPOSE:
  Converts JSON exported from the record store (or posted by a client) into
  generic.StoredDocument values ready for persistence. The document body is
  kept as delivered; the factory only lifts the lookup fields (id, name,
  code, status) using the same alias tables the calculator reads.

ACCEPTED SHAPES:
  A single object:           {"employee": "Sam Carter", "startDate": "2024-06-10"}
  An array of objects:       [{...}, {...}]
  A wrapped export:          {"documents": [{...}]} (also "requests", "employees", "items")
  Firestore REST documents:  {"name": ".../leaveRequests/abc", "fields": {...}}

NUMBERS:
  Decoding uses json.Number so epoch timestamps and integer allowances are
  not rounded through float64.

USAGE:
  f := NewDocumentFactory()
  docs, err := f.ParseRequests(r.Body)
  for _, d := range docs {
      store.SaveRequest(ctx, d)
  }

  // From a preset
  f.ParseEmployee(EmployeeJSON("Sam Carter", "SC", 2024, 20, 3))

SEE ALSO:
  - leave/record.go: Alias tables and decoding
  - factory/presets.go: Employee and leave presets for demo scenarios
*/
package factory

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/warp/leave-engine/generic"
	"github.com/warp/leave-engine/leave"
)

// ErrEmptyDocument is returned when the input holds no documents.
var ErrEmptyDocument = errors.New("no documents in input")

// wrapperKeys name the array fields accepted around a batch of documents.
var wrapperKeys = []string{"documents", "requests", "employees", "items"}

// DocumentFactory lifts lookup fields out of raw documents.
type DocumentFactory struct {
	// NewID generates IDs for documents that carry none.
	NewID func() string
}

// NewDocumentFactory creates a factory that assigns UUIDs.
func NewDocumentFactory() *DocumentFactory {
	return &DocumentFactory{NewID: uuid.NewString}
}

// =============================================================================
// PARSING
// =============================================================================

// Parse decodes one or many raw documents from r.
func Parse(r io.Reader) ([]generic.Document, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("invalid document JSON: %w", err)
	}

	var docs []generic.Document
	switch v := raw.(type) {
	case []any:
		for i, item := range v {
			doc, ok := asDocument(item)
			if !ok {
				return nil, fmt.Errorf("item %d: %w", i, errNotObject)
			}
			docs = append(docs, doc)
		}
	case map[string]any:
		if items, ok := wrapped(v); ok {
			for i, item := range items {
				doc, ok := asDocument(item)
				if !ok {
					return nil, fmt.Errorf("item %d: %w", i, errNotObject)
				}
				docs = append(docs, doc)
			}
		} else {
			doc, _ := asDocument(v)
			docs = append(docs, doc)
		}
	default:
		return nil, errNotObject
	}

	if len(docs) == 0 {
		return nil, ErrEmptyDocument
	}
	return docs, nil
}

// ParseString is Parse over a string.
func ParseString(s string) ([]generic.Document, error) {
	return Parse(strings.NewReader(s))
}

var errNotObject = errors.New("document must be a JSON object")

func wrapped(m map[string]any) ([]any, bool) {
	for _, key := range wrapperKeys {
		if items, ok := m[key].([]any); ok {
			return items, true
		}
	}
	return nil, false
}

// asDocument accepts a plain object or a Firestore REST document.
func asDocument(v any) (generic.Document, bool) {
	m, ok := v.(map[string]any)
	if !ok {
		return nil, false
	}
	fields, ok := m["fields"].(map[string]any)
	if !ok {
		return generic.Document(m), true
	}

	doc := generic.Document{}
	for k, fv := range fields {
		doc[k] = firestoreValue(fv)
	}
	if _, has := doc["id"]; !has {
		if name, ok := m["name"].(string); ok && name != "" {
			doc["id"] = path.Base(name)
		}
	}
	return doc, true
}

// firestoreValue unwraps a typed Firestore REST value
// ({"stringValue": "x"}, {"integerValue": "3"}, {"mapValue": {"fields": ...}}).
func firestoreValue(v any) any {
	m, ok := v.(map[string]any)
	if !ok || len(m) != 1 {
		return v
	}
	for kind, inner := range m {
		switch kind {
		case "stringValue", "booleanValue", "doubleValue", "timestampValue", "referenceValue":
			return inner
		case "integerValue":
			if s, ok := inner.(string); ok {
				return json.Number(s)
			}
			return inner
		case "nullValue":
			return nil
		case "mapValue":
			out := map[string]any{}
			if mv, ok := inner.(map[string]any); ok {
				if fields, ok := mv["fields"].(map[string]any); ok {
					for k, fv := range fields {
						out[k] = firestoreValue(fv)
					}
				}
			}
			return out
		case "arrayValue":
			var out []any
			if av, ok := inner.(map[string]any); ok {
				if values, ok := av["values"].([]any); ok {
					for _, item := range values {
						out = append(out, firestoreValue(item))
					}
				}
			}
			return out
		}
	}
	return v
}

// =============================================================================
// STORED DOCUMENTS
// =============================================================================

// Request lifts the lookup fields of a leave-request document. A missing ID
// is generated and written back into the document.
func (f *DocumentFactory) Request(doc generic.Document) generic.StoredDocument {
	r := leave.DecodeRequest(doc)
	id := f.ensureID(doc, r.ID)
	return generic.StoredDocument{
		ID:     id,
		Name:   r.EmployeeName,
		Code:   r.EmployeeCode,
		Status: string(r.Status),
		Data:   doc,
	}
}

// Employee lifts the lookup fields of an employee document.
func (f *DocumentFactory) Employee(doc generic.Document) generic.StoredDocument {
	emp := leave.DecodeEmployee(doc)
	id := f.ensureID(doc, emp.ID)
	return generic.StoredDocument{
		ID:   id,
		Name: emp.Name,
		Code: emp.Code,
		Data: doc,
	}
}

// ParseRequests decodes request documents from r.
func (f *DocumentFactory) ParseRequests(r io.Reader) ([]generic.StoredDocument, error) {
	docs, err := Parse(r)
	if err != nil {
		return nil, err
	}
	out := make([]generic.StoredDocument, len(docs))
	for i, d := range docs {
		out[i] = f.Request(d)
	}
	return out, nil
}

// ParseEmployees decodes employee documents from r.
func (f *DocumentFactory) ParseEmployees(r io.Reader) ([]generic.StoredDocument, error) {
	docs, err := Parse(r)
	if err != nil {
		return nil, err
	}
	out := make([]generic.StoredDocument, len(docs))
	for i, d := range docs {
		out[i] = f.Employee(d)
	}
	return out, nil
}

// ParseRequest decodes exactly one request document from a JSON string.
func (f *DocumentFactory) ParseRequest(jsonStr string) (generic.StoredDocument, error) {
	docs, err := f.ParseRequests(bytes.NewBufferString(jsonStr))
	if err != nil {
		return generic.StoredDocument{}, err
	}
	if len(docs) != 1 {
		return generic.StoredDocument{}, fmt.Errorf("expected one document, got %d", len(docs))
	}
	return docs[0], nil
}

// ParseEmployee decodes exactly one employee document from a JSON string.
func (f *DocumentFactory) ParseEmployee(jsonStr string) (generic.StoredDocument, error) {
	docs, err := f.ParseEmployees(bytes.NewBufferString(jsonStr))
	if err != nil {
		return generic.StoredDocument{}, err
	}
	if len(docs) != 1 {
		return generic.StoredDocument{}, fmt.Errorf("expected one document, got %d", len(docs))
	}
	return docs[0], nil
}

func (f *DocumentFactory) ensureID(doc generic.Document, id string) string {
	if id != "" {
		return id
	}
	newID := uuid.NewString
	if f != nil && f.NewID != nil {
		newID = f.NewID
	}
	id = newID()
	doc["id"] = id
	return id
}
