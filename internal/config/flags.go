package config

import (
	"flag"
	"os"

	"github.com/dsmirnov/docshare/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags:
//
//	-u string   username (storage namespace)
//	-b string   S3 bucket
//	-e string   S3 base endpoint
//	-d string   local database path
//	-p int      part size in bytes for partitioned transfers
//	-w int      parts transferred at once (1 = sequential)
//
// The function filters os.Args to only the flags it knows about, so it
// does not interfere with flags owned by other packages.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-u", "-b", "-e", "-d", "-p", "-w"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.Username, "u", cfg.Username, "username (storage namespace)")
	fs.StringVar(&cfg.S3Bucket, "b", cfg.S3Bucket, "S3 bucket")
	fs.StringVar(&cfg.S3BaseEndpoint, "e", cfg.S3BaseEndpoint, "S3 base endpoint")
	fs.StringVar(&cfg.DatabasePath, "d", cfg.DatabasePath, "local database path")
	fs.Int64Var(&cfg.PartSize, "p", cfg.PartSize, "part size in bytes")
	fs.IntVar(&cfg.UploadConcurrency, "w", cfg.UploadConcurrency, "parts transferred at once")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
