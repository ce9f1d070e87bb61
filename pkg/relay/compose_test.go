package relay

import (
	"errors"
	"testing"
)

func record(name string, log *[]string) Handler {
	return HandlerFunc(func(ctx *Context, next Next) (*Response, error) {
		*log = append(*log, name)
		return next()
	})
}

func testContext() *Context {
	return &Context{Params: make(map[string]string)}
}

func TestComposeOrder(t *testing.T) {
	var log []string
	chain := Compose([]Handler{record("a", &log), record("b", &log), record("c", &log)})

	res, err := chain.Serve(testContext(), func() (*Response, error) {
		log = append(log, "terminal")
		return Text(200, "done"), nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res == nil || res.Body.(StringBody) != "done" {
		t.Fatalf("terminal response not propagated: %+v", res)
	}

	want := []string{"a", "b", "c", "terminal"}
	if len(log) != len(want) {
		t.Fatalf("log = %v, want %v", log, want)
	}
	for i := range want {
		if log[i] != want[i] {
			t.Errorf("log[%d] = %q, want %q", i, log[i], want[i])
		}
	}
}

func TestComposeNextCalledTwice(t *testing.T) {
	chain := Compose([]Handler{
		HandlerFunc(func(ctx *Context, next Next) (*Response, error) {
			if _, err := next(); err != nil {
				return nil, err
			}
			return next()
		}),
	})

	_, err := chain.Serve(testContext(), nil)
	if !errors.Is(err, ErrMultipleNext) {
		t.Fatalf("err = %v, want ErrMultipleNext", err)
	}
}

func TestComposeShortCircuit(t *testing.T) {
	var log []string
	chain := Compose([]Handler{
		record("a", &log),
		HandlerFunc(func(ctx *Context, next Next) (*Response, error) {
			log = append(log, "stop")
			return Text(403, "denied"), nil
		}),
		record("never", &log),
	})

	res, err := chain.Serve(testContext(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Status != 403 {
		t.Errorf("Status = %d, want 403", res.Status)
	}
	for _, entry := range log {
		if entry == "never" {
			t.Error("later handler ran after short-circuit")
		}
	}
}

func TestComposeTransformsDownstreamResult(t *testing.T) {
	chain := Compose([]Handler{
		HandlerFunc(func(ctx *Context, next Next) (*Response, error) {
			res, err := next()
			if err != nil {
				return nil, err
			}
			res.Status = 201
			return res, nil
		}),
		HandlerFunc(func(ctx *Context, next Next) (*Response, error) {
			return Text(200, "created"), nil
		}),
	})

	res, err := chain.Serve(testContext(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Status != 201 {
		t.Errorf("Status = %d, want 201", res.Status)
	}
}

func TestComposeErrorPropagates(t *testing.T) {
	boom := errors.New("boom")
	chain := Compose([]Handler{
		record("a", new([]string)),
		HandlerFunc(func(ctx *Context, next Next) (*Response, error) {
			return nil, boom
		}),
	})

	_, err := chain.Serve(testContext(), nil)
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want boom", err)
	}
}

func TestComposeReusableAcrossInvocations(t *testing.T) {
	// The dispatch index must live per invocation, not on the composed
	// handler: running the same chain twice must behave identically.
	calls := 0
	chain := Compose([]Handler{
		HandlerFunc(func(ctx *Context, next Next) (*Response, error) {
			calls++
			return next()
		}),
	})

	for i := 0; i < 2; i++ {
		if _, err := chain.Serve(testContext(), nil); err != nil {
			t.Fatalf("run %d: unexpected error: %v", i, err)
		}
	}
	if calls != 2 {
		t.Errorf("calls = %d, want 2", calls)
	}
}

func TestComposeReentrant(t *testing.T) {
	// A composed chain used as a handler inside another composed chain must
	// not trip the double-next detection.
	var log []string
	inner := Compose([]Handler{record("inner", &log)})
	outer := Compose([]Handler{record("outer", &log), inner})

	_, err := outer.Serve(testContext(), func() (*Response, error) {
		log = append(log, "terminal")
		return nil, nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(log) != 3 || log[0] != "outer" || log[1] != "inner" || log[2] != "terminal" {
		t.Errorf("log = %v", log)
	}
}

func TestComposeEmptyChain(t *testing.T) {
	chain := Compose(nil)

	res, err := chain.Serve(testContext(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res != nil {
		t.Errorf("res = %+v, want nil", res)
	}
}

func TestComposeNilHandlerPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for nil handler")
		}
	}()
	Compose([]Handler{nil})
}

func TestComposeChainSnapshot(t *testing.T) {
	var log []string
	handlers := []Handler{record("a", &log)}
	chain := Compose(handlers)

	// Appending to the source slice after composing must not grow the chain.
	handlers = append(handlers, record("b", &log))
	_ = handlers

	if _, err := chain.Serve(testContext(), nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(log) != 1 || log[0] != "a" {
		t.Errorf("log = %v, want [a]", log)
	}
}
