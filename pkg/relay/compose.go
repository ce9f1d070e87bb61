package relay

import (
	"github.com/relayhttp/relay/internal/errors"
)

// Compose builds a single handler from an ordered handler list.
//
// Handlers run strictly in slice order. Handler i receives a continuation
// that invokes handler i+1; the last handler's continuation invokes the next
// passed to the composed handler (or yields no response when that is nil).
//
// The dispatch index guarding against repeated next() calls lives in the
// invocation's closure, so a composed handler is safe to reuse across
// concurrent requests and to embed inside another composed chain.
//
// Compose panics if any handler is nil; a broken chain is a programming
// error caught at wiring time, not at request time.
func Compose(handlers []Handler) Handler {
	for i, h := range handlers {
		if h == nil {
			panic(errors.New("E101").WithDetailf("handler %d of %d in composed chain is nil", i, len(handlers)))
		}
	}

	// Copy so later appends by the caller cannot change the chain.
	chain := make([]Handler, len(handlers))
	copy(chain, handlers)

	return HandlerFunc(func(ctx *Context, next Next) (*Response, error) {
		index := -1

		var dispatch func(i int) (*Response, error)
		dispatch = func(i int) (*Response, error) {
			if i <= index {
				return nil, ErrMultipleNext
			}
			index = i
			if i == len(chain) {
				if next == nil {
					return nil, nil
				}
				return next()
			}
			h := chain[i]
			return h.Serve(ctx, func() (*Response, error) {
				return dispatch(i + 1)
			})
		}

		return dispatch(0)
	})
}
