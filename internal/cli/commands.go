package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/dsmirnov/docshare/internal/docs"
	"github.com/dsmirnov/docshare/internal/session"
	"github.com/dsmirnov/docshare/internal/share"
)

func (a *App) login(ctx context.Context) {
	username, err := a.readLine("Username: ")
	if err != nil {
		fmt.Printf("Input error: %v\n", err)
		return
	}
	token, err := readSecret("Hub token (leave empty to skip): ")
	if err != nil {
		fmt.Printf("Input error: %v\n", err)
		return
	}

	if token != "" {
		s, err := session.FromToken(token)
		if err != nil {
			fmt.Printf("Token rejected: %v\n", err)
			return
		}
		a.sess.Username = s.Username
		a.sess.HubToken = s.HubToken
	} else {
		a.sess.Username = session.FullyQualified(username)
		a.sess.HubToken = ""
	}
	fmt.Printf("Logged in as %s\n", a.sess.Username)
}

func printDocuments(list []*docs.Document) {
	for _, doc := range list {
		parts := ""
		if doc.NumParts > 0 {
			parts = fmt.Sprintf(" (%d parts)", doc.NumParts)
		}
		fmt.Printf("  %s  %-30s %8s%s  %s\n",
			doc.Id,
			doc.FileName(),
			humanize.Bytes(uint64(doc.FileSize)),
			parts,
			doc.CreatedAt.Format("2006-01-02 15:04"),
		)
	}
}

func (a *App) list(ctx context.Context) {
	docsList := a.remote.Documents()
	if !a.remoteReady {
		var err error
		if docsList, err = a.local.Load(ctx); err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}
	}
	if len(docsList) == 0 {
		fmt.Println("No documents.")
		return
	}
	printDocuments(docsList)
}

func (a *App) put(ctx context.Context, args []string) {
	if len(args) != 1 {
		fmt.Println("Usage: put <file>")
		return
	}

	content, err := os.ReadFile(args[0])
	if err != nil {
		fmt.Printf("Error reading file: %v\n", err)
		return
	}

	doc := docs.NewFromFile(filepath.Base(args[0]), content)
	if err := doc.OnUploadProgress(printProgress("Uploading")); err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	if a.remoteReady {
		err = a.remote.AddDocument(ctx, doc)
	} else {
		err = a.parkLocally(ctx, doc)
	}
	if err != nil {
		fmt.Printf("\nUpload failed: %v\n", err)
		return
	}
	fmt.Printf("\nStored %s as %s\n", doc.FileName(), doc.Id)
}

// parkLocally uploads the document and records it in the local pending
// index, to be migrated once the remote index is reachable.
func (a *App) parkLocally(ctx context.Context, doc *docs.Document) error {
	if err := a.store.Save(ctx, doc); err != nil {
		return err
	}
	pending, err := a.local.Load(ctx)
	if err != nil {
		return err
	}
	return a.local.SetTempDocuments(ctx, append(pending, doc))
}

func (a *App) get(ctx context.Context, args []string) {
	if len(args) < 1 || len(args) > 2 {
		fmt.Println("Usage: get <id> [out]")
		return
	}

	doc := a.findDocument(args[0])
	if doc == nil {
		fmt.Printf("No document with id %q\n", args[0])
		return
	}
	a.download(ctx, doc, args[1:])
}

func (a *App) open(ctx context.Context, args []string) {
	if len(args) < 1 || len(args) > 2 {
		fmt.Println("Usage: open </username/contentId> [out]")
		return
	}

	username, contentID, err := share.ParseLocator(args[0])
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	doc, err := a.resolver.Resolve(ctx, username, contentID)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	a.download(ctx, doc, args[1:])
}

func (a *App) download(ctx context.Context, doc *docs.Document, out []string) {
	if err := doc.OnDownloadProgress(printProgress("Downloading")); err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	dl, err := doc.Download(ctx, a.backend)
	if err != nil {
		fmt.Printf("\nDownload failed: %v\n", err)
		return
	}

	if dl.URL != "" {
		fmt.Printf("\nFetch directly: %s\n", dl.URL)
		return
	}

	target := doc.FileName()
	if len(out) == 1 {
		target = out[0]
	}
	if err := os.WriteFile(target, dl.Data, 0o600); err != nil {
		fmt.Printf("\nError writing %s: %v\n", target, err)
		return
	}
	fmt.Printf("\nSaved %s (%s)\n", target, humanize.Bytes(uint64(len(dl.Data))))
}

func (a *App) shareCmd(args []string) {
	if len(args) != 1 {
		fmt.Println("Usage: share <id>")
		return
	}
	doc := a.findDocument(args[0])
	if doc == nil {
		fmt.Printf("No document with id %q\n", args[0])
		return
	}
	fmt.Println(share.FormatLocator(a.sess.Username, doc.Id))
}

func (a *App) rm(ctx context.Context, args []string) {
	if len(args) != 1 {
		fmt.Println("Usage: rm <id>")
		return
	}
	doc := a.findDocument(args[0])
	if doc == nil {
		fmt.Printf("No document with id %q\n", args[0])
		return
	}
	if err := a.remote.DeleteDocument(ctx, doc); err != nil {
		fmt.Printf("Delete failed: %v\n", err)
		return
	}
	fmt.Printf("Deleted %s\n", doc.FileName())
}

// findDocument matches by full id or unique prefix.
func (a *App) findDocument(id string) *docs.Document {
	var match *docs.Document
	for _, doc := range a.remote.Documents() {
		if doc.Id == id {
			return doc
		}
		if strings.HasPrefix(doc.Id, id) {
			if match != nil {
				return nil // ambiguous
			}
			match = doc
		}
	}
	return match
}

func printProgress(verb string) func(float64) {
	return func(fraction float64) {
		fmt.Printf("\r%s... %3.0f%%", verb, fraction*100)
	}
}
