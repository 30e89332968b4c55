package store

import "github.com/user/meetscribe/internal/captions"

// Compile-time interface compliance check.
var _ captions.Log = (*Store)(nil)
