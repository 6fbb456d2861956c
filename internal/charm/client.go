// ABOUTME: Charm KV storage backend for weather history slots
// ABOUTME: Short-lived transactional connections so several processes can share the database

package charm

import (
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/charm/kv"
	"github.com/harper/wxhistory/internal/storage"
)

const (
	// DBName is the name of the Charm KV database for weather history.
	DBName = "wxhistory"

	// DefaultCharmHost is the default Charm server to use.
	DefaultCharmHost = "charm.2389.dev"

	// SlotPrefix namespaces slot keys inside the KV database.
	SlotPrefix = "slot:"
)

// Client is a storage backend over Charm KV.
// It does NOT hold a persistent connection. Each operation opens the
// database, performs the operation, and closes it.
type Client struct {
	dbName   string
	autoSync bool
}

// Compile-time check that Client implements storage.Backend.
var _ storage.Backend = (*Client)(nil)

// Config holds client configuration options.
type Config struct {
	// CharmHost is the Charm server to use (default: charm.2389.dev).
	CharmHost string
	// AutoSync enables automatic sync after writes.
	AutoSync bool
	// DBName overrides the KV database name.
	DBName string
}

// DefaultConfig returns the default client configuration.
func DefaultConfig() *Config {
	host := os.Getenv("CHARM_HOST")
	if host == "" {
		host = DefaultCharmHost
	}
	return &Config{
		CharmHost: host,
		AutoSync:  true,
		DBName:    DBName,
	}
}

// NewClient creates a new client with the given config.
func NewClient(cfg *Config) (*Client, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	name := cfg.DBName
	if name == "" {
		name = DBName
	}

	// Set CHARM_HOST before any KV operations
	if cfg.CharmHost != "" {
		if err := os.Setenv("CHARM_HOST", cfg.CharmHost); err != nil {
			return nil, err
		}
	}

	return &Client{
		dbName:   name,
		autoSync: cfg.AutoSync,
	}, nil
}

// NewTestClient creates a client for testing without network access.
func NewTestClient(dbName string) (*Client, error) {
	return &Client{
		dbName:   dbName,
		autoSync: false,
	}, nil
}

func slotKey(slot string) []byte {
	return []byte(SlotPrefix + slot)
}

// Read returns the slot contents, or nil if the slot was never written.
// Reads are read-only and take no write lock.
func (c *Client) Read(slot string) ([]byte, error) {
	var val []byte
	err := kv.DoReadOnly(c.dbName, func(k *kv.KV) error {
		data, err := k.Get(slotKey(slot))
		if errors.Is(err, kv.ErrMissingKey) {
			return nil
		}
		if err != nil {
			return err
		}
		val = data
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("charm get %s: %w", slot, err)
	}
	return val, nil
}

// Write replaces the slot contents and syncs if auto-sync is on.
func (c *Client) Write(slot string, data []byte) error {
	err := kv.Do(c.dbName, func(k *kv.KV) error {
		if err := k.Set(slotKey(slot), data); err != nil {
			return err
		}
		if c.autoSync {
			return k.Sync()
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("charm set %s: %w", slot, err)
	}
	return nil
}

// Slots lists the slot names present in the database.
func (c *Client) Slots() ([]string, error) {
	var slots []string
	err := kv.DoReadOnly(c.dbName, func(k *kv.KV) error {
		keys, err := k.Keys()
		if err != nil {
			return err
		}
		for _, key := range keys {
			if s := string(key); len(s) > len(SlotPrefix) && s[:len(SlotPrefix)] == SlotPrefix {
				slots = append(slots, s[len(SlotPrefix):])
			}
		}
		return nil
	})
	return slots, err
}

// Sync triggers a manual sync with the charm server.
func (c *Client) Sync() error {
	return kv.Do(c.dbName, func(k *kv.KV) error {
		return k.Sync()
	})
}

// Reset clears all data (nuclear option).
func (c *Client) Reset() error {
	return kv.Do(c.dbName, func(k *kv.KV) error {
		return k.Reset()
	})
}

// Close is a no-op. Connections are closed after each operation.
func (c *Client) Close() error {
	return nil
}
