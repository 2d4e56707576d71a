package uid

import (
	"errors"
	"hash/fnv"
	"os"
	"strings"

	"github.com/bwmarrin/snowflake"
)

// ErrNodeIdentityUnavailable indicates no stable node identity could be derived.
var ErrNodeIdentityUnavailable = errors.New("uid: cannot determine node identity (machine-id/hostname unavailable)")

// Snowflake generates 63-bit snowflake IDs.
type Snowflake struct {
	node *snowflake.Node
}

// NewSnowflake derives the node number from the machine identity so replicas
// on different hosts do not collide.
func NewSnowflake() (*Snowflake, error) {
	src, err := machineIdentity()
	if err != nil {
		return nil, err
	}

	h := fnv.New32a()
	_, _ = h.Write([]byte(src))

	return NewSnowflakeNode(int64(h.Sum32() % 1024))
}

// NewSnowflakeNode builds a generator for an explicit node number (0-1023).
func NewSnowflakeNode(node int64) (*Snowflake, error) {
	n, err := snowflake.NewNode(node)
	if err != nil {
		return nil, err
	}
	return &Snowflake{node: n}, nil
}

func (s *Snowflake) Generate() int64 {
	return s.node.Generate().Int64()
}

func machineIdentity() (string, error) {
	if b, err := os.ReadFile("/etc/machine-id"); err == nil {
		if s := strings.TrimSpace(string(b)); s != "" {
			return s, nil
		}
	}

	if h, err := os.Hostname(); err == nil {
		if h = strings.TrimSpace(h); h != "" {
			return h, nil
		}
	}

	return "", ErrNodeIdentityUnavailable
}
