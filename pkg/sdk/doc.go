// Package chronofeed provides an embedded Go client for the chronofeed
// timeline service backed by Redis with the JSON module.
//
// The client wires the timeline repositories and ranking engine directly
// over a database connection, so it needs no running API server:
//
//	client, _ := chronofeed.New(ctx, chronofeed.WithRedis("localhost:6379", ""))
//	defer client.Close()
//
//	res, _ := client.Search(ctx, chronofeed.SearchRequest{
//	    Query: "deployment pipeline",
//	    Mode:  chronofeed.ModeText,
//	})
//
// Hybrid and vector search modes need an embedding provider, configured
// with WithEmbedder. Without one, text mode still works and vector mode
// returns an error.
package chronofeed
