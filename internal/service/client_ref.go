package service

import (
	"strconv"
	"strings"
)

// ClientRef names a client either by id or by exact name.
type ClientRef struct {
	id   int64
	name string
}

// ClientByID references a client by its database id.
func ClientByID(id int64) ClientRef {
	return ClientRef{id: id}
}

// ClientByName references a client by its exact name.
func ClientByName(name string) ClientRef {
	return ClientRef{name: name}
}

// ParseClientRef reads command-line input: a positive integer is an id,
// anything else a name. Names are kept byte for byte.
func ParseClientRef(s string) ClientRef {
	if id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64); err == nil && id > 0 {
		return ClientByID(id)
	}
	return ClientByName(s)
}

// ID returns the referenced id and true when the ref is by id.
func (r ClientRef) ID() (int64, bool) {
	return r.id, r.id > 0
}

// Name returns the referenced name; empty for by-id refs.
func (r ClientRef) Name() string {
	return r.name
}

func (r ClientRef) String() string {
	if id, ok := r.ID(); ok {
		return "#" + strconv.FormatInt(id, 10)
	}
	return strconv.Quote(r.name)
}
