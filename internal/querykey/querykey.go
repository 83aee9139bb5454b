// Package querykey builds hierarchical cache keys of the form
// [resourceKind, "list"|"detail", filterOrID] so callers can invalidate a
// whole resource kind, every list of it, or one detail.
package querykey

import (
	"net/url"
	"strconv"
	"strings"
)

const separator = ":"

// Key is a hierarchical cache key.
type Key []string

// String renders the key for storage backends.
func (k Key) String() string {
	return strings.Join(k, separator)
}

// Pattern matches every key nested under k, segment by segment. It does not
// match k itself.
func (k Key) Pattern() string {
	return k.String() + separator + "*"
}

// HasPrefix reports whether prefix is an ancestor of (or equal to) k.
func (k Key) HasPrefix(prefix Key) bool {
	if len(prefix) > len(k) {
		return false
	}
	for i := range prefix {
		if k[i] != prefix[i] {
			return false
		}
	}
	return true
}

// Resource produces keys for one resource kind.
type Resource string

// Resource kinds used by the portal.
const (
	Galleries    Resource = "galleries"
	Repositories Resource = "repositories"
	Requests     Resource = "requests"
	Uploads      Resource = "uploads"
	Me           Resource = "me"
)

// All is the root key for the resource kind.
func (r Resource) All() Key {
	return Key{string(r)}
}

// Lists covers every list query of the kind.
func (r Resource) Lists() Key {
	return Key{string(r), "list"}
}

// List is one list query; params are canonicalised through url.Values.Encode
// so equal filters produce equal keys.
func (r Resource) List(params url.Values) Key {
	encoded := params.Encode()
	if encoded == "" {
		encoded = "all"
	}
	return Key{string(r), "list", encoded}
}

// Details covers every detail query of the kind.
func (r Resource) Details() Key {
	return Key{string(r), "detail"}
}

// Detail is one entity by id.
func (r Resource) Detail(id int64) Key {
	return Key{string(r), "detail", strconv.FormatInt(id, 10)}
}
