package auth

import "sync"

// Credentials holds the current admin token. It is safe for concurrent use.
//
// Set notifies every subscriber; each subscription channel has a buffer of one, so a slow
// subscriber sees a single pending signal rather than one per change.
type Credentials struct {
	mu          sync.RWMutex
	token       string
	subscribers []chan struct{}
}

func NewCredentials(token string) *Credentials {
	return &Credentials{token: token}
}

// Token implements client.TokenSource
func (c *Credentials) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// Set replaces the token and signals subscribers. Setting the current value is a no-op.
func (c *Credentials) Set(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if token == c.token {
		return
	}
	c.token = token

	for _, ch := range c.subscribers {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// Subscribe returns a channel that receives a value after each token change
func (c *Credentials) Subscribe() <-chan struct{} {
	c.mu.Lock()
	defer c.mu.Unlock()

	ch := make(chan struct{}, 1)
	c.subscribers = append(c.subscribers, ch)
	return ch
}

// StaticToken is a fixed token, for one-shot commands and tests
type StaticToken string

func (s StaticToken) Token() string {
	return string(s)
}
