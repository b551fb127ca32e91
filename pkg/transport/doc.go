// Package transport is the HTTP collaborator of the engine: verb-based
// request builders that return a Deferred handle.
//
//	client := transport.NewClient(
//	    transport.WithBaseURL("https://api.example.com"),
//	    transport.WithExecutor(app.Dispatch),
//	)
//	client.Get("/chats").JSON(map[string]any{"limit": 20}).Tries(2).Send(ctx).
//	    Then(func(r *transport.Response) { list.SetProps(map[string]any{"chats": r.JSON}) }).
//	    Catch(func(err error) { app.Logger().Warn("chats", "error", err) })
//
// A request with Tries(n) is attempted up to n+1 times while the failure
// is a transport error (network error, timeout, abort). A response with
// status 400 or above is never retried; it rejects the Deferred with a
// *StatusError. A successful response whose JSON body does not parse is
// logged and delivered with a nil JSON payload.
//
// Settlement callbacks run through the client's Executor. With the App's
// Dispatch as executor they run on the rendering loop, where calling
// SetProps is safe.
package transport
