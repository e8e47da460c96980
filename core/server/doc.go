// Package server runs the lazyacme HTTP API with graceful shutdown.
//
// The listener is bound synchronously in Start so a port conflict surfaces
// as an error instead of a silently dead API.
//
//	srv, err := server.NewFromConfig(cfg.Server, server.WithLogger(log))
//	if err != nil {
//		return err
//	}
//
//	eg, ctx := errgroup.WithContext(ctx)
//	eg.Go(srv.Run(ctx, router))
//	return eg.Wait()
//
// Run stops the server when ctx is canceled and treats that as a clean exit.
package server
