package service

import (
	"net/url"
	"strconv"
	"strings"
)

// query builds filter query strings, skipping zero values. Encoding goes
// through url.Values so keys come out sorted and equal filters give equal URLs.
type query url.Values

func (q query) str(key, value string) query {
	if v := strings.TrimSpace(value); v != "" {
		url.Values(q).Set(key, v)
	}
	return q
}

func (q query) num(key string, value int) query {
	if value > 0 {
		url.Values(q).Set(key, strconv.Itoa(value))
	}
	return q
}

func (q query) values() url.Values {
	return url.Values(q)
}

func idPath(prefix string, id int64, suffix ...string) string {
	parts := append([]string{prefix, strconv.FormatInt(id, 10)}, suffix...)
	return strings.Join(parts, "/")
}
