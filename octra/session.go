package octra

import (
	"sync"

	"github.com/hiepntnaa/octra-pre-client/internal/client"
	"github.com/hiepntnaa/octra-pre-client/internal/common"
	"github.com/hiepntnaa/octra-pre-client/internal/crypto"

	"github.com/sirupsen/logrus"
)

// Session is the per-run context: the account keys, the node connection pool
// and the time/random providers. Build one per run and pass it by reference;
// parallel runs must each own a Session.
type Session struct {
	Keys   *crypto.KeyMaterial
	RPC    *client.RPCClient
	Node   *client.NodeClient
	Clock  common.Clock
	Rand   common.Random
	Logger logrus.FieldLogger

	closeOnce sync.Once
}

// Option customizes a Session.
type Option func(*Session)

// WithClock replaces the system clock.
func WithClock(c common.Clock) Option {
	return func(s *Session) { s.Clock = c }
}

// WithRandom replaces the time-seeded random source.
func WithRandom(r common.Random) Option {
	return func(s *Session) { s.Rand = r }
}

// NewSession creates a session against the node at rpcURL.
func NewSession(keys *crypto.KeyMaterial, rpcURL string, logger logrus.FieldLogger, opts ...Option) *Session {
	rpc := client.NewRPCClient(rpcURL, logger)
	s := &Session{
		Keys:   keys,
		RPC:    rpc,
		Node:   client.NewNodeClient(rpc),
		Clock:  common.SystemClock{},
		Rand:   common.NewRandom(),
		Logger: logger.WithField("address", keys.Address()),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Close releases the connection pool exactly once.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		s.RPC.Close()
		s.Logger.Debug("session closed")
	})
}

// Address is the account this session drives.
func (s *Session) Address() string {
	return s.Keys.Address()
}

func (s *Session) Resolver() *StateResolver {
	return NewStateResolver(s.Node, s.Logger)
}

func (s *Session) Builder() *Builder {
	return NewBuilder(s.Keys, s.Clock, s.Rand, s.Logger)
}

func (s *Session) Submitter() *Submitter {
	return NewSubmitter(s.Node, s.Clock, s.Logger)
}

func (s *Session) Shielder() *Shielder {
	return NewShielder(s.Node, s.Keys, s.Logger)
}
