// Package resumatch embeds the resumatch scoring engine in a Go program.
//
// The client runs the same extraction and similarity pipeline as the HTTP
// service, in process. Results are kept in memory unless a Redis address is
// given; semantic similarity uses TF-IDF unless an embedder is configured.
//
//	client, _ := resumatch.New(ctx, resumatch.WithEmbedder("openai", emb))
//	defer client.Close()
//
//	match, _ := client.Score(ctx, resumeText, jobText)
//	fmt.Println(match.Score, match.MissingSkills)
//
//	ranked, _ := client.Rank(ctx, jobText, []resumatch.Candidate{
//	    {Name: "alice.txt", Text: alice},
//	    {Name: "bob.txt", Text: bob},
//	})
package resumatch
