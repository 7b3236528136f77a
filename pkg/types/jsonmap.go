package types

// JSONMap is a free-form jsonb object column.
type JSONMap map[string]any
