// Package storage provides the synchronous key-value persistence layer that
// stands in for a database. Values are JSON documents stored under named keys;
// each store owns its own keys so stores never contend on the same key.
package storage

import (
	"encoding/json"

	apperrors "github.com/utafrali/storefront/pkg/errors"
)

// Storage keys, partitioned by purpose.
const (
	KeyProducts        = "products"
	KeyCart            = "cart"
	KeyUsers           = "users"
	KeyUserOrders      = "userOrders"
	KeyUserPreferences = "userPreferences"
)

// Adapter is the interface for the durable string-keyed storage medium.
// All operations are synchronous and side-effect only the named key.
type Adapter interface {
	// Read returns the raw value for a key. The boolean return value
	// indicates whether a value for the key was found.
	Read(key string) (value []byte, found bool, err error)

	// Write inserts or replaces the value for a key.
	Write(key string, value []byte) error

	// Remove deletes a key and its value. Removing an absent key is not an error.
	Remove(key string) error
}

// ReadJSON reads and decodes the JSON value stored under key.
// An absent key yields the given empty default rather than an error.
func ReadJSON[T any](a Adapter, key string, empty T) (T, error) {
	data, found, err := a.Read(key)
	if err != nil {
		return empty, err
	}
	if !found {
		return empty, nil
	}

	var out T
	if err := json.Unmarshal(data, &out); err != nil {
		return empty, apperrors.Persistence("decode", key, err)
	}
	return out, nil
}

// WriteJSON encodes value as JSON and stores it under key.
func WriteJSON(a Adapter, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return apperrors.Persistence("encode", key, err)
	}
	return a.Write(key, data)
}
