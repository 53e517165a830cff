package main

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/rendetalje/lead-cli/internal/config"
	"github.com/rendetalje/lead-cli/internal/store"
)

// initStore opens the run ledger. Commands that only read the ledger need
// a real driver.
func initStore(ctx context.Context, c config.StoreConfig) (store.Store, error) {
	st, err := store.Open(ctx, c)
	if err != nil {
		return nil, err
	}
	if st == nil {
		return nil, eris.New("run ledger is disabled (store.driver = none)")
	}
	return st, nil
}
