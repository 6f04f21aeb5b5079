package main

import (
	"context"

	"github.com/yeqown/avltree/registry"
)

type registryContextKey struct{}

type session struct {
	reg   *registry.Registry
	path  string
	dirty bool
}

func contextWithSession(ctx context.Context, s *session) context.Context {
	return context.WithValue(ctx, registryContextKey{}, s)
}

func sessionFromContext(ctx context.Context) *session {
	v := ctx.Value(registryContextKey{})
	if v == nil {
		panic("no registry in context")
	}

	return v.(*session)
}
