// Command audit checks per-user storage namespaces against the metadata
// store and reports orphaned records, orphaned blobs and hash mismatches.
// With -n it audits a single user, otherwise every registered user.
package main

import (
	"context"
	"flag"
	"log"
	"os"

	"github.com/dmitrijs2005/filekeeper/internal/flagx"
	"github.com/dmitrijs2005/filekeeper/internal/server"
	"github.com/dmitrijs2005/filekeeper/internal/server/config"
)

func main() {

	ctx := context.Background()
	cfg := config.LoadConfig()

	var username string
	fs := flag.NewFlagSet("audit", flag.ExitOnError)
	fs.StringVar(&username, "n", "", "audit a single username")
	_ = fs.Parse(flagx.FilterArgs(os.Args[1:], []string{"-n"}))

	app, err := server.NewApp(ctx, cfg)
	if err != nil {
		log.Printf("%v", err)
		os.Exit(1)
	}
	defer app.Close()

	if err := app.RunAudit(ctx, username); err != nil {
		log.Printf("%v", err)
		os.Exit(1)
	}
}
