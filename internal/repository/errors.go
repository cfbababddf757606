package repository

import "errors"

// ErrNotFound means the cache slot or setting holds no value. Callers compare
// against it directly; the SQL driver error never leaks out.
var ErrNotFound = errors.New("repository: no stored value")
