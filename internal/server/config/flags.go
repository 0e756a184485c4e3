package config

import (
	"flag"
	"os"

	"github.com/avolkov/filedrop/internal/flagx"
)

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":8080")
//	-d string   upload directory
//	-u string   public upload URL prefix
//	-m int      max file size, bytes (0 = unlimited)
//	-v          debug mode (surface internal errors)
//
// The function first filters os.Args to only the flags it recognizes using
// flagx.FilterArgs, avoiding collisions with other components.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-u", "-m", "-v"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.Addr, "a", config.Addr, "address and port to run server")
	fs.StringVar(&config.UploadDir, "d", config.UploadDir, "upload directory")
	fs.StringVar(&config.UploadURL, "u", config.UploadURL, "public upload URL prefix")
	fs.Int64Var(&config.MaxFileSize, "m", config.MaxFileSize, "max file size in bytes")
	fs.BoolVar(&config.Debug, "v", config.Debug, "debug mode")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
