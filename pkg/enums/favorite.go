package enums

import "fmt"

// FavoriteKind distinguishes whether a favorite points at a store or an item.
type FavoriteKind string

const (
	FavoriteKindStore FavoriteKind = "store"
	FavoriteKindItem  FavoriteKind = "item"
)

var validFavoriteKinds = []FavoriteKind{
	FavoriteKindStore,
	FavoriteKindItem,
}

// IsValid checks whether the given kind matches the canonical enum.
func (k FavoriteKind) IsValid() bool {
	for _, candidate := range validFavoriteKinds {
		if candidate == k {
			return true
		}
	}
	return false
}

// ParseFavoriteKind converts raw strings into FavoriteKind.
func ParseFavoriteKind(value string) (FavoriteKind, error) {
	for _, candidate := range validFavoriteKinds {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid favorite kind %q", value)
}
