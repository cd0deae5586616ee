// Package gmail fetches messages from the Gmail API and maps them to mail records.
//
// The client lists message ids matching a Gmail search query, loads each message in full
// format and converts headers, body parts and attachments into mail.Record values that the
// thread pipeline consumes. It never modifies the mailbox.
//
//	client, err := gmail.NewClientForAccount(ctx, "work")
//	if err != nil {
//	    return err
//	}
//	records, err := client.FetchRecords(ctx, "from:landlord@example.com after:2024/01/01", 500)
package gmail
