package store

import (
	"context"
	"errors"
)

// ErrNodeNotFound is returned when a path does not exist in the tree.
var ErrNodeNotFound = errors.New("node not found")

// ErrNodeExists is returned when a create targets an existing path.
var ErrNodeExists = errors.New("node already exists")

// ContentStore is a thin adapter over a hierarchical coordination store.
// Nodes are addressed by slash-delimited paths and hold opaque payloads.
// Create is atomic create-if-absent: when two processes race on the same
// path, exactly one succeeds and the other observes ErrNodeExists.
type ContentStore interface {
	// Exists reports whether a node is present at the given path.
	Exists(ctx context.Context, path string) (bool, error)

	// Get returns the payload stored at the given path.
	Get(ctx context.Context, path string) ([]byte, error)

	// Create stores a new node at the given path. When createParents is
	// set, missing intermediate nodes are created with empty payloads.
	Create(ctx context.Context, path string, data []byte, createParents bool) error

	// Set overwrites the payload of an existing node.
	Set(ctx context.Context, path string, data []byte) error

	// DeleteRecursive removes the node at the given path along with its
	// entire subtree.
	DeleteRecursive(ctx context.Context, path string) error

	// Children lists the child segments of the node at the given path.
	Children(ctx context.Context, path string) ([]string, error)

	// Ping verifies connectivity to the store.
	Ping(ctx context.Context) error

	// Close releases the underlying connection.
	Close()
}
