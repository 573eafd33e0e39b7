package providerfakes

import (
	"context"
	"sync"

	"github.com/jrsteele09/go-oauth-client/authflow"
	"github.com/jrsteele09/go-oauth-client/token"
)

var _ authflow.TokenProvider = (*FakeTokenProvider)(nil)

// FakeTokenProvider hands out queued records and counts calls, so dispatcher
// tests can assert exactly how many fetches and invalidations happened.
type FakeTokenProvider struct {
	lock            sync.Mutex
	queue           []token.Record
	current         token.Record
	err             error
	tokenCalls      int
	invalidateCalls int
}

func NewFakeTokenProvider(records ...token.Record) *FakeTokenProvider {
	fake := &FakeTokenProvider{}
	if len(records) > 0 {
		fake.current = records[0]
		fake.queue = records[1:]
	}
	return fake
}

// SetErr makes every subsequent Token call fail with err.
func (f *FakeTokenProvider) SetErr(err error) {
	f.lock.Lock()
	defer f.lock.Unlock()
	f.err = err
}

func (f *FakeTokenProvider) Token(context.Context) (token.Record, error) {
	f.lock.Lock()
	defer f.lock.Unlock()

	f.tokenCalls++
	if f.err != nil {
		return token.Record{}, f.err
	}
	return f.current, nil
}

// Invalidate advances to the next queued record, imitating a cache drop
// followed by a fresh fetch.
func (f *FakeTokenProvider) Invalidate() {
	f.lock.Lock()
	defer f.lock.Unlock()

	f.invalidateCalls++
	if len(f.queue) > 0 {
		f.current = f.queue[0]
		f.queue = f.queue[1:]
	}
}

func (f *FakeTokenProvider) TokenCallCount() int {
	f.lock.Lock()
	defer f.lock.Unlock()
	return f.tokenCalls
}

func (f *FakeTokenProvider) InvalidateCallCount() int {
	f.lock.Lock()
	defer f.lock.Unlock()
	return f.invalidateCalls
}
