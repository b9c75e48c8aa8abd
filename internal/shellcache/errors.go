package shellcache

import "errors"

var (
	ErrNotCached   = errors.New("asset not cached")
	ErrBadAssetKey = errors.New("invalid asset path")
)
