package record

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// wireField is the loose field object served by the API. Value and the two
// flag attributes arrive in whatever scalar type the PHP side felt like
// emitting, so they are captured raw and coerced here.
type wireField struct {
	FieldName string          `json:"fieldname"`
	Label     string          `json:"label"`
	Type      FieldType       `json:"type"`
	Value     json.RawMessage `json:"value"`
	Mandatory json.RawMessage `json:"mandatory"`
	Editable  json.RawMessage `json:"editable"`
	Options   []string        `json:"options"`
}

// NormalizeFields converts any of the payload shapes the API serves into a
// uniform ordered field list plus a flat fieldname -> value snapshot.
//
// Accepted shapes:
//   - a flat array of field objects
//   - a nested array whose first element is the field array (bulk list entry)
//   - an object with a "sections" mapping from section name to field arrays
//   - an object with a "fields" or "rawData" field array
//
// Normalization is total over missing optional attributes: an absent label
// defaults to the field name, mandatory to false, editable to true, and a
// missing value to the empty string. Only top-level malformed JSON errors.
func NormalizeFields(raw json.RawMessage) ([]FieldDescriptor, map[string]string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, map[string]string{}, nil
	}

	var wires []wireField
	var err error
	switch raw[0] {
	case '[':
		wires, err = decodeFieldArray(raw)
	case '{':
		wires, err = decodeFieldObject(raw)
	default:
		return nil, nil, fmt.Errorf("normalize: unsupported payload shape")
	}
	if err != nil {
		return nil, nil, err
	}

	fields := make([]FieldDescriptor, 0, len(wires))
	values := make(map[string]string, len(wires))
	for _, w := range wires {
		if w.FieldName == "" {
			continue
		}
		fields = append(fields, descriptorOf(w))
		values[w.FieldName] = CoerceScalar(w.Value)
	}
	return fields, values, nil
}

func descriptorOf(w wireField) FieldDescriptor {
	fd := FieldDescriptor{
		FieldName: w.FieldName,
		Label:     w.Label,
		Type:      w.Type,
		Mandatory: truthy(w.Mandatory),
		Editable:  true,
		Options:   w.Options,
	}
	if fd.Label == "" {
		fd.Label = fd.FieldName
	}
	if len(w.Editable) > 0 {
		fd.Editable = truthy(w.Editable)
	}
	return fd
}

// decodeFieldArray handles both a plain field array and the bulk-list
// convention of wrapping it in a single-element outer array.
func decodeFieldArray(raw json.RawMessage) ([]wireField, error) {
	var wires []wireField
	if err := json.Unmarshal(raw, &wires); err == nil {
		return wires, nil
	}
	var nested [][]wireField
	if err := json.Unmarshal(raw, &nested); err != nil {
		return nil, fmt.Errorf("normalize: decode field array: %w", err)
	}
	if len(nested) == 0 {
		return nil, nil
	}
	return nested[0], nil
}

// decodeFieldObject handles the object shapes: {"sections": {...}} and
// {"fields": [...]} / {"rawData": [...]}. Section order follows document
// order, which requires walking tokens instead of unmarshalling into a map.
func decodeFieldObject(raw json.RawMessage) ([]wireField, error) {
	var probe struct {
		Sections json.RawMessage `json:"sections"`
		Fields   []wireField     `json:"fields"`
		RawData  []wireField     `json:"rawData"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil {
		return nil, fmt.Errorf("normalize: decode record object: %w", err)
	}
	if len(probe.Sections) > 0 {
		return decodeSections(probe.Sections)
	}
	if probe.Fields != nil {
		return probe.Fields, nil
	}
	return probe.RawData, nil
}

func decodeSections(raw json.RawMessage) ([]wireField, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("normalize: decode sections: %w", err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, fmt.Errorf("normalize: sections is not an object")
	}

	var wires []wireField
	for dec.More() {
		if _, err := dec.Token(); err != nil { // section name
			return nil, fmt.Errorf("normalize: decode sections: %w", err)
		}
		var section []wireField
		if err := dec.Decode(&section); err != nil {
			return nil, fmt.Errorf("normalize: decode section fields: %w", err)
		}
		wires = append(wires, section...)
	}
	return wires, nil
}
