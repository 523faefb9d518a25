package store

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// MemoryStore is an in-process ContentStore with the same tree and
// error semantics as the ZooKeeper implementation. It backs tests.
type MemoryStore struct {
	mu   sync.RWMutex
	root *treeNode
}

type treeNode struct {
	data     []byte
	children map[string]*treeNode
}

func newTreeNode() *treeNode {
	return &treeNode{children: make(map[string]*treeNode)}
}

// NewMemoryStore creates an empty in-memory tree.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{root: newTreeNode()}
}

// Exists reports whether a node is present at the given path.
func (s *MemoryStore) Exists(ctx context.Context, path string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lookup(path) != nil, nil
}

// Get returns the payload stored at the given path.
func (s *MemoryStore) Get(ctx context.Context, path string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	node := s.lookup(path)
	if node == nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, ErrNodeNotFound)
	}
	return append([]byte(nil), node.data...), nil
}

// Create stores a new node at the given path.
func (s *MemoryStore) Create(ctx context.Context, path string, data []byte, createParents bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	segments := splitPath(path)
	if len(segments) == 0 {
		return fmt.Errorf("failed to create %s: %w", path, ErrNodeExists)
	}
	node := s.root
	for _, segment := range segments[:len(segments)-1] {
		child, ok := node.children[segment]
		if !ok {
			if !createParents {
				return fmt.Errorf("failed to create %s: %w", path, ErrNodeNotFound)
			}
			child = newTreeNode()
			node.children[segment] = child
		}
		node = child
	}

	leaf := segments[len(segments)-1]
	if _, ok := node.children[leaf]; ok {
		return fmt.Errorf("failed to create %s: %w", path, ErrNodeExists)
	}
	created := newTreeNode()
	created.data = append([]byte(nil), data...)
	node.children[leaf] = created
	return nil
}

// Set overwrites the payload of an existing node.
func (s *MemoryStore) Set(ctx context.Context, path string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	node := s.lookup(path)
	if node == nil {
		return fmt.Errorf("failed to write %s: %w", path, ErrNodeNotFound)
	}
	node.data = append([]byte(nil), data...)
	return nil
}

// DeleteRecursive removes the node at the given path and its subtree.
func (s *MemoryStore) DeleteRecursive(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	segments := splitPath(path)
	if len(segments) == 0 {
		return fmt.Errorf("failed to delete %s: root is not deletable", path)
	}
	node := s.root
	for _, segment := range segments[:len(segments)-1] {
		child, ok := node.children[segment]
		if !ok {
			return fmt.Errorf("failed to delete %s: %w", path, ErrNodeNotFound)
		}
		node = child
	}
	leaf := segments[len(segments)-1]
	if _, ok := node.children[leaf]; !ok {
		return fmt.Errorf("failed to delete %s: %w", path, ErrNodeNotFound)
	}
	delete(node.children, leaf)
	return nil
}

// Children lists the child segments of the node at the given path.
func (s *MemoryStore) Children(ctx context.Context, path string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	node := s.lookup(path)
	if node == nil {
		return nil, fmt.Errorf("failed to list children of %s: %w", path, ErrNodeNotFound)
	}
	children := make([]string, 0, len(node.children))
	for segment := range node.children {
		children = append(children, segment)
	}
	return children, nil
}

// Ping always succeeds for the in-memory tree.
func (s *MemoryStore) Ping(ctx context.Context) error {
	return ctx.Err()
}

// Close is a no-op for the in-memory tree.
func (s *MemoryStore) Close() {}

// lookup walks the tree without locking; callers hold s.mu.
func (s *MemoryStore) lookup(path string) *treeNode {
	node := s.root
	for _, segment := range splitPath(path) {
		child, ok := node.children[segment]
		if !ok {
			return nil
		}
		node = child
	}
	return node
}

func splitPath(path string) []string {
	trimmed := strings.Trim(path, "/")
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, "/")
}
