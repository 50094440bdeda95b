package approute

import (
	"encoding/json"
	"fmt"
)

// JSON encoding uses externally tagged objects, one key per segment:
//
//	{"Static":"blog"} {"Dynamic":"id"} {"PageType":"Page"}
//
// Pages and paths encode as arrays of segments.

var pageTypeJSONNames = map[PageType]string{
	PageTypePage:  "Page",
	PageTypeRoute: "Route",
}

// MarshalJSON implements json.Marshaler.
func (t PageType) MarshalJSON() ([]byte, error) {
	name, ok := pageTypeJSONNames[t]
	if !ok {
		return nil, fmt.Errorf("approute: unknown page type %d", uint8(t))
	}
	return json.Marshal(name)
}

// UnmarshalJSON implements json.Unmarshaler.
func (t *PageType) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	for pt, n := range pageTypeJSONNames {
		if n == name {
			*t = pt
			return nil
		}
	}
	return fmt.Errorf("approute: unknown page type %q", name)
}

// MarshalJSON implements json.Marshaler.
func (s PageSegment) MarshalJSON() ([]byte, error) {
	if s.Kind == KindPageType {
		return json.Marshal(map[string]PageType{s.Kind.String(): s.Type})
	}
	if s.Kind > KindPageType {
		return nil, fmt.Errorf("approute: unknown segment kind %d", uint8(s.Kind))
	}
	return json.Marshal(map[string]string{s.Kind.String(): s.Name})
}

// UnmarshalJSON implements json.Unmarshaler.
func (s *PageSegment) UnmarshalJSON(data []byte) error {
	tag, raw, err := decodeTagged(data)
	if err != nil {
		return err
	}
	for k, name := range segmentKindNames {
		if name != tag {
			continue
		}
		kind := SegmentKind(k)
		if kind == KindPageType {
			var t PageType
			if err := json.Unmarshal(raw, &t); err != nil {
				return err
			}
			*s = TypeMarker(t)
			return nil
		}
		var value string
		if err := json.Unmarshal(raw, &value); err != nil {
			return fmt.Errorf("approute: %s segment: %w", tag, err)
		}
		*s = PageSegment{Kind: kind, Name: value}
		return nil
	}
	return fmt.Errorf("approute: unknown segment kind %q", tag)
}

// MarshalJSON implements json.Marshaler.
func (s PathSegment) MarshalJSON() ([]byte, error) {
	if int(s.Kind) >= len(pathKindNames) {
		return nil, fmt.Errorf("approute: unknown path segment kind %d", uint8(s.Kind))
	}
	return json.Marshal(map[string]string{s.Kind.String(): s.Name})
}

// UnmarshalJSON implements json.Unmarshaler.
func (s *PathSegment) UnmarshalJSON(data []byte) error {
	tag, raw, err := decodeTagged(data)
	if err != nil {
		return err
	}
	for k, name := range pathKindNames {
		if name != tag {
			continue
		}
		var value string
		if err := json.Unmarshal(raw, &value); err != nil {
			return fmt.Errorf("approute: %s segment: %w", tag, err)
		}
		*s = PathSegment{Kind: PathKind(k), Name: value}
		return nil
	}
	return fmt.Errorf("approute: unknown path segment kind %q", tag)
}

// MarshalJSON implements json.Marshaler.
func (p AppPage) MarshalJSON() ([]byte, error) {
	if p.segments == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(p.segments)
}

// UnmarshalJSON implements json.Unmarshaler. Segments are re-appended, so a
// decoded page never has anything but a page type marker after a
// catch-all.
func (p *AppPage) UnmarshalJSON(data []byte) error {
	var segments []PageSegment
	if err := json.Unmarshal(data, &segments); err != nil {
		return err
	}
	page, err := NewAppPage(segments...)
	if err != nil {
		return err
	}
	*p = page
	return nil
}

// MarshalJSON implements json.Marshaler.
func (p AppPath) MarshalJSON() ([]byte, error) {
	if p.segments == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(p.segments)
}

// UnmarshalJSON implements json.Unmarshaler.
func (p *AppPath) UnmarshalJSON(data []byte) error {
	var segments []PathSegment
	if err := json.Unmarshal(data, &segments); err != nil {
		return err
	}
	*p = AppPath{segments: segments}
	return nil
}

// decodeTagged decodes a single-key object.
func decodeTagged(data []byte) (string, json.RawMessage, error) {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(data, &obj); err != nil {
		return "", nil, err
	}
	if len(obj) != 1 {
		return "", nil, fmt.Errorf("approute: segment must have exactly one tag, got %d", len(obj))
	}
	for tag, raw := range obj {
		return tag, raw, nil
	}
	return "", nil, nil
}
