// Package cuemusic embeds the cuemusic sound catalogue in a Go program without
// running the HTTP server. It talks to the same Redis or Valkey keys as the
// service, so both can share one database.
//
//	client, _ := cuemusic.New(ctx, cuemusic.WithRedis("localhost:6379", ""))
//	defer client.Close()
//
//	ctx = cuemusic.ContextWithUser(ctx, cuemusic.User{ID: "u1"})
//	lib, _ := client.Libraries().Default(ctx)
//	_, _ = client.Sounds().Create(ctx, cuemusic.NewSound{
//	    Name:      "Deep Bass Loop",
//	    Tags:      []string{"bass", "loop"},
//	    BPM:       120,
//	    LibraryID: lib.ID,
//	})
//	hits, _ := client.Search(ctx, cuemusic.Query{Text: "bass", BPM: 122})
//
// Searches count against the user's quota; a denied search returns an error
// matching ErrSearchQuotaExceeded, and QuotaExceeded extracts the details.
package cuemusic
