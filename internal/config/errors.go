package config

import "errors"

// ErrInvalidConfig indicates a setting holds an unusable value.
var ErrInvalidConfig = errors.New("invalid config")
