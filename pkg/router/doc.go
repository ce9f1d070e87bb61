// Package router implements ordered route matching and dispatch for Relay.
//
// The router provides:
//   - Per-verb registration (Get, Post, ...), All, and generic Use/Mount
//   - Pattern matching with named parameters, optional groups, and regex
//     literals (compiled by pkg/routepath)
//   - Router nesting with structural cloning: mounting another router's
//     Middleware() copies and re-prefixes its layers, so the child can keep
//     evolving without affecting the parent
//   - The OPTIONS/405/501 decision procedure via AllowedMethods
//
// # Usage
//
//	r := router.New()
//	r.Get("/users/:id", relay.HandlerFunc(func(ctx *relay.Context, next relay.Next) (*relay.Response, error) {
//	    return relay.JSON(200, store.User(ctx.Params["id"])), nil
//	}))
//
//	app := relay.New()
//	app.Use(r.Middleware())
//	app.Use(r.AllowedMethods(router.AllowedOptions{}))
//
// # Nesting
//
//	posts := router.New(router.WithPrefix("/:fid/posts"))
//	posts.Get("/:pid", showPost)
//
//	forums := router.New(router.WithPrefix("/forums"))
//	forums.Use(posts.Middleware())
//
// A request for /forums/1/posts/2 reaches showPost with
// ctx.Params == {"fid": "1", "pid": "2"}.
//
// Registration happens during application wiring. Mutating a router while
// requests are dispatched against it is a precondition violation.
package router
