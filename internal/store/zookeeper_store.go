package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-zookeeper/zk"
	"go.uber.org/zap"
)

// ZookeeperStore implements ContentStore against a ZooKeeper ensemble.
// Every call is a synchronous round trip; the store performs no
// client-side caching, so staleness is bounded by round-trip latency.
type ZookeeperStore struct {
	conn   *zk.Conn
	logger *zap.Logger
}

// NewZookeeperStore connects to the given ensemble and returns a store
// bound to the session. Session state transitions are logged at debug
// level; reconnection is handled by the client library.
func NewZookeeperStore(hosts []string, sessionTimeout time.Duration, logger *zap.Logger) (*ZookeeperStore, error) {
	conn, events, err := zk.Connect(hosts, sessionTimeout, zk.WithLogInfo(false))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to zookeeper: %w", err)
	}

	go func() {
		for event := range events {
			logger.Debug("Zookeeper session event",
				zap.String("type", event.Type.String()),
				zap.String("state", event.State.String()))
		}
	}()

	return &ZookeeperStore{conn: conn, logger: logger}, nil
}

// Exists reports whether a node is present at the given path.
func (s *ZookeeperStore) Exists(ctx context.Context, path string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	exists, _, err := s.conn.Exists(path)
	if err != nil {
		return false, fmt.Errorf("failed to check existence of %s: %w", path, err)
	}
	return exists, nil
}

// Get returns the payload stored at the given path.
func (s *ZookeeperStore) Get(ctx context.Context, path string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, _, err := s.conn.Get(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, mapZkError(err))
	}
	return data, nil
}

// Create stores a new node at the given path. Creation of the leaf is
// atomic create-if-absent; parent creation tolerates concurrent racers.
func (s *ZookeeperStore) Create(ctx context.Context, path string, data []byte, createParents bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if createParents {
		if err := s.ensureParents(path); err != nil {
			return err
		}
	}
	if _, err := s.conn.Create(path, data, 0, zk.WorldACL(zk.PermAll)); err != nil {
		return fmt.Errorf("failed to create %s: %w", path, mapZkError(err))
	}
	return nil
}

// Set overwrites the payload of an existing node. Last writer wins; no
// version check is applied.
func (s *ZookeeperStore) Set(ctx context.Context, path string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := s.conn.Set(path, data, -1); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, mapZkError(err))
	}
	return nil
}

// DeleteRecursive removes the node at the given path and its subtree,
// children first.
func (s *ZookeeperStore) DeleteRecursive(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	children, _, err := s.conn.Children(path)
	if err != nil {
		return fmt.Errorf("failed to list children of %s: %w", path, mapZkError(err))
	}
	for _, child := range children {
		if err := s.DeleteRecursive(ctx, path+"/"+child); err != nil {
			return err
		}
	}
	if err := s.conn.Delete(path, -1); err != nil {
		return fmt.Errorf("failed to delete %s: %w", path, mapZkError(err))
	}
	return nil
}

// Children lists the child segments of the node at the given path.
func (s *ZookeeperStore) Children(ctx context.Context, path string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	children, _, err := s.conn.Children(path)
	if err != nil {
		return nil, fmt.Errorf("failed to list children of %s: %w", path, mapZkError(err))
	}
	return children, nil
}

// Ping verifies connectivity with a read against the tree root.
func (s *ZookeeperStore) Ping(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, _, err := s.conn.Exists("/"); err != nil {
		return fmt.Errorf("zookeeper ping failed: %w", err)
	}
	return nil
}

// Close closes the ZooKeeper session.
func (s *ZookeeperStore) Close() {
	s.conn.Close()
}

// ensureParents creates every missing ancestor of path with an empty
// payload. Concurrent creators of the same ancestor are tolerated.
func (s *ZookeeperStore) ensureParents(path string) error {
	segments := strings.Split(strings.Trim(path, "/"), "/")
	current := ""
	for _, segment := range segments[:len(segments)-1] {
		current = current + "/" + segment
		_, err := s.conn.Create(current, nil, 0, zk.WorldACL(zk.PermAll))
		if err != nil && err != zk.ErrNodeExists {
			return fmt.Errorf("failed to create parent %s: %w", current, mapZkError(err))
		}
	}
	return nil
}

// mapZkError translates ZooKeeper error codes into store sentinels so
// callers never depend on the client library directly.
func mapZkError(err error) error {
	switch err {
	case zk.ErrNoNode:
		return ErrNodeNotFound
	case zk.ErrNodeExists:
		return ErrNodeExists
	default:
		return err
	}
}
