package main

import (
	"context"

	"github.com/manasnilorout-blv/decode-contacts/internal/store"
)

func initStore(ctx context.Context) (store.Store, error) {
	dsn := cfg.Store.DatabaseURL
	if dsn == "" && cfg.Store.Driver != "postgres" {
		dsn = "decoded_contacts.db"
	}
	return store.Open(ctx, cfg.Store.Driver, dsn)
}
