package binding

import (
	"errors"
	"fmt"

	"github.com/goccy/go-json"

	"github.com/yourusername/minicache/pkg/cache"
)

// ErrDecode wraps every JSON decoding failure of this package.
var ErrDecode = errors.New("binding: decode")

func decode(data []byte, what string, v any) error {
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w %s: %w", ErrDecode, what, err)
	}
	return nil
}

// ParseOptions decodes options such as {"cleanupIntervalMs": 30000}.
// Empty input yields nil options, which select the defaults.
func ParseOptions(data []byte) (*Options, error) {
	if len(data) == 0 {
		return nil, nil
	}
	var opts Options
	if err := decode(data, "options", &opts); err != nil {
		return nil, err
	}
	return &opts, nil
}

// NewFromJSON creates a StringCache from JSON options.
func NewFromJSON(data []byte) (*StringCache, error) {
	opts, err := ParseOptions(data)
	if err != nil {
		return nil, err
	}
	return New(opts), nil
}

// SetManyJSON decodes an array of SetItem and applies it.
// Nothing is stored when decoding fails.
func (s *StringCache) SetManyJSON(data []byte) error {
	var items []SetItem
	if err := decode(data, "set items", &items); err != nil {
		return err
	}
	s.SetMany(items)
	return nil
}

// GetManyJSON decodes an array of keys and returns the found entries as JSON.
func (s *StringCache) GetManyJSON(data []byte) ([]byte, error) {
	var keys []string
	if err := decode(data, "keys", &keys); err != nil {
		return nil, err
	}
	return json.Marshal(s.GetMany(keys))
}

// EntriesJSON returns Entries encoded as a JSON array.
func (s *StringCache) EntriesJSON() ([]byte, error) {
	return json.Marshal(s.Entries())
}

// InfoJSON returns the implementation metadata as JSON.
func InfoJSON() ([]byte, error) {
	return json.Marshal(cache.GetInfo())
}
