// Package deckstore provides unified deck storage for deck-builder clients.
//
// A Store presents one logical deck collection regardless of authentication
// state. Anonymous users read and write a local on-disk document;
// authenticated users read and write the deck API. Logging in drains local
// decks to the server, one create per deck, and reports the outcome.
//
// # Basic Usage
//
//	cfg := deckstore.Config{
//	    DataDir: "/path/to/data",
//	}
//
//	store, err := deckstore.New(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	deck, err := store.SaveDeck(ctx, draft)
//	if err != nil {
//	    var verr *deckstore.ValidationError
//	    if errors.As(err, &verr) {
//	        // the draft broke a deck invariant; fix and retry
//	    }
//	}
//
// # Sessions and Migration
//
// Authentication itself happens outside this package. Once the auth flow
// produces a [Session], pass it to [Store.Login]:
//
//	summary, err := store.Login(ctx, session)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("migrated %d decks, %d stayed local\n",
//	    summary.MigratedCount, summary.FailedCount)
//
// Decks that fail to migrate stay in the local store and are retried on the
// next login. [Store.Logout] returns to the local store without moving any
// data.
//
// # Event Handling
//
// Implement [EventHandler] and pass it via [WithEventHandler] to observe
// session state changes and, with Config.WatchStore enabled, on-disk changes
// to the local deck document made by other processes.
//
// # Dependency Injection
//
// For testing, inject custom implementations of external dependencies:
//
//	store, err := deckstore.New(cfg,
//	    deckstore.WithHTTPClient(mockClient),
//	    deckstore.WithLogger(customLogger),
//	)
package deckstore
