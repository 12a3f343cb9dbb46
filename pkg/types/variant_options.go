package types

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// VariantOptions lists the option names chosen for a product configuration,
// persisted as a JSON array.
type VariantOptions []string

// Value marshals the options into JSON.
func (v VariantOptions) Value() (driver.Value, error) {
	if v == nil {
		return "[]", nil
	}
	buf, err := json.Marshal([]string(v))
	if err != nil {
		return nil, err
	}
	return string(buf), nil
}

// Scan decodes a JSON array into the options.
func (v *VariantOptions) Scan(value interface{}) error {
	if value == nil {
		*v = nil
		return nil
	}

	var raw []byte
	switch typed := value.(type) {
	case string:
		raw = []byte(typed)
	case []byte:
		raw = typed
	default:
		return fmt.Errorf("variant options: unsupported scan type %T", value)
	}

	var result []string
	if err := json.Unmarshal(raw, &result); err != nil {
		return err
	}
	*v = result
	return nil
}

// Normalized returns the trimmed, lower-cased, de-duplicated and sorted option names.
// Empty names are dropped.
func (v VariantOptions) Normalized() []string {
	seen := make(map[string]struct{}, len(v))
	out := make([]string, 0, len(v))
	for _, option := range v {
		name := strings.ToLower(strings.TrimSpace(option))
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Signature joins the normalized option names into a stable key fragment.
func (v VariantOptions) Signature() string {
	return strings.Join(v.Normalized(), "|")
}

// Label renders the options for display, ordered like the signature.
func (v VariantOptions) Label() string {
	return strings.Join(v.Normalized(), ", ")
}
