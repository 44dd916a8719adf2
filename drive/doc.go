// Package drive fetches document comments from the Google Drive v3 API and
// converts them into [coding.Documents].
//
// A [Client] lists the most recent files visible to the credentials,
// optionally keeping only those whose name contains a search string, then
// collects every page of comments for each file:
//
//	client, err := drive.NewClient(ctx,
//	    drive.WithSearch("interview"),
//	    drive.WithClientOptions(option.WithCredentialsFile("credentials.json")),
//	)
//	docs, err := client.Documents(ctx)
//	table, err := coding.BuildTable(docs, nil)
//
// Calls are sequential and are not retried. Without explicit client
// options, Application Default Credentials are used with the read-only
// Drive scope.
package drive
