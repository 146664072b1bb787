// Package naming implements the cache-node naming convention and the
// instance-namespace allocation protocol used when loading prefab rigs.
package naming

import (
	"fmt"
	"strings"
)

// FieldCount is the exact number of underscore-separated fields a cache node
// short name must carry.
const FieldCount = 6

// FieldSeparator joins the cache name fields.
const FieldSeparator = "_"

// FormatError reports a cache node name that does not follow the convention.
type FormatError struct {
	Name   string
	Fields int
}

func (e FormatError) Error() string {
	return fmt.Sprintf("invalid cache name %q: expected %d underscore-separated fields "+
		"(asset_code, asset_descriptor, asset_mod, cycle_name, cycle_descriptor, cache_version), got %d",
		e.Name, FieldCount, e.Fields)
}

// CacheName is the parsed form of a cache node short name, for example
// "c027_shepherd_m00_tall_dancing_03".
type CacheName struct {
	AssetCode       string `json:"asset_code"`
	AssetDescriptor string `json:"asset_descriptor"`
	AssetMod        string `json:"asset_mod"`
	CycleName       string `json:"cycle_name"`
	CycleDescriptor string `json:"cycle_descriptor"`
	CacheVersion    string `json:"cache_version"`
}

// ParseCacheName splits a cache node short name into its six fields. Only the
// field count is validated; field content is not inspected. Callers rely on
// rigs authored to the convention.
func ParseCacheName(name string) (CacheName, error) {
	parts := strings.Split(name, FieldSeparator)
	if len(parts) != FieldCount {
		return CacheName{}, FormatError{Name: name, Fields: len(parts)}
	}
	return CacheName{
		AssetCode:       parts[0],
		AssetDescriptor: parts[1],
		AssetMod:        parts[2],
		CycleName:       parts[3],
		CycleDescriptor: parts[4],
		CacheVersion:    parts[5],
	}, nil
}

// String reassembles the six fields in order.
func (c CacheName) String() string {
	return strings.Join([]string{
		c.AssetCode, c.AssetDescriptor, c.AssetMod,
		c.CycleName, c.CycleDescriptor, c.CacheVersion,
	}, FieldSeparator)
}

// Base returns the namespace base derived from the cache name: the first five
// fields joined, with the cache version dropped.
func (c CacheName) Base() string {
	return strings.Join([]string{
		c.AssetCode, c.AssetDescriptor, c.AssetMod,
		c.CycleName, c.CycleDescriptor,
	}, FieldSeparator)
}
