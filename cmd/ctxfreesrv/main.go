/*
Ctxfreesrv starts a ctxfree server and begins listening for new connections.

Usage:

	ctxfreesrv [flags]
	ctxfreesrv [flags] -l [[ADDRESS]:PORT]

Once started, the ctxfree server will listen for HTTP requests and respond to
them using REST protocol. By default, it will listen on localhost:8080. This
can be changed with the --listen/-l flag (or config via environment var).

If a JWT token secret is not given, one will be automatically generated and
seeded with crypto/rand. As a consequence, in this mode of operation all
tokens are rendered invalid as soon as the server shuts down. This is
suitable for testing, but must be given via either CLI flags, environment
variable, or config file if running in production.

The flags are:

	-v, --version
		Give the current version of the ctxfree server and then exit.

	-l, --listen LISTEN_ADDRESS
		Listen on the given address. Must be in BIND_ADDRESS:PORT or :PORT
		format. If not given, will default to the value of environment
		variable CTXFREE_LISTEN_ADDRESS, and if that is not given, will
		default to localhost:8080.

	-s, --secret TOKEN_SECRET
		Use the provided secret for signing JWT tokens. If there are less than
		32 bytes in the secret, it will be repeated until it is. The maximum
		size is 64 bytes. If not given, will default to the value of
		environment variable CTXFREE_TOKEN_SECRET. If no secret is specified
		a random secret will be automatically generated.

	--db DRIVER:PARAMS
		Use the given DB connection string. DRIVER must be "sqlite", and
		PARAMS is the path to the data directory, e.g. sqlite:path/to/db_dir.
		If not given, will default to the value of environment variable
		CTXFREE_DATABASE, and if that is not given either, will default to
		sqlite:./ctxfree-data.

	-c, --config CONFIG_FILE
		Load a TOML config file for the db and unauth-delay settings before
		applying flags/environment variables on top of it.
*/
package main

import (
	"context"
	"crypto/rand"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/dekarrin/ctxfree/internal/version"
	"github.com/dekarrin/ctxfree/server"
	"github.com/spf13/pflag"
)

const (
	EnvListen = "CTXFREE_LISTEN_ADDRESS"
	EnvSecret = "CTXFREE_TOKEN_SECRET"
	EnvDB     = "CTXFREE_DATABASE"
)

var (
	flagVersion = pflag.BoolP("version", "v", false, "Give the current version of the ctxfree server and then exit.")
	flagListen  = pflag.StringP("listen", "l", "", "Listen on the given address.")
	flagSecret  = pflag.StringP("secret", "s", "", "Use the given secret for token generation.")
	flagDB      = pflag.String("db", "", "Use the given DB connection string.")
	flagConfig  = pflag.StringP("config", "c", "", "Load settings from a TOML config file.")
)

func main() {
	pflag.Parse()

	if *flagVersion {
		fmt.Printf("%s (ctxfree v%s)\n", version.ServerCurrent, version.Current)
		return
	}

	args := pflag.Args()
	if len(args) > 0 {
		fmt.Fprintf(os.Stderr, "Too many arguments\nDo -h for help.\n")
		os.Exit(1)
	}

	var cfg server.Config
	if *flagConfig != "" {
		var err error
		cfg, err = server.LoadConfigFile(*flagConfig)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Could not load config file: %s\n", err)
			os.Exit(1)
		}
	}

	listenAddr := os.Getenv(EnvListen)
	if pflag.Lookup("listen").Changed {
		listenAddr = *flagListen
	}
	if listenAddr == "" {
		listenAddr = "localhost:8080"
	}

	dbConnStr := os.Getenv(EnvDB)
	if pflag.Lookup("db").Changed {
		dbConnStr = *flagDB
	}
	if dbConnStr != "" {
		db, err := server.ParseDBConnString(dbConnStr)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s\nDo -h for help.\n", err)
			os.Exit(1)
		}
		cfg.DB = db
	}

	tokSecStr := os.Getenv(EnvSecret)
	if pflag.Lookup("secret").Changed {
		tokSecStr = *flagSecret
	}
	if tokSecStr != "" {
		tokSecret := []byte(tokSecStr)
		for len(tokSecret) < server.MinSecretSize {
			doubled := make([]byte, len(tokSecret)*2)
			copy(doubled, tokSecret)
			copy(doubled[len(tokSecret):], tokSecret)
			tokSecret = doubled
		}
		if len(tokSecret) > server.MaxSecretSize {
			fmt.Fprintf(os.Stderr, "Token secret is %d bytes, but it must be <= %d bytes\nDo -h for help.\n", len(tokSecret), server.MaxSecretSize)
			os.Exit(1)
		}
		cfg.TokenSecret = tokSecret
	} else if cfg.TokenSecret == nil {
		tokSecret := make([]byte, server.MaxSecretSize)
		if _, err := rand.Read(tokSecret); err != nil {
			fmt.Fprintf(os.Stderr, "Could not generate token secret: %s\n", err)
			os.Exit(1)
		}
		cfg.TokenSecret = tokSecret
		log.Printf("WARN  Using generated token secret; all tokens issued will become invalid at shutdown")
	}

	cfg = cfg.FillDefaults()
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %s\nDo -h for help.\n", err)
		os.Exit(1)
	}

	srv, err := server.New(cfg)
	if err != nil {
		log.Fatalf("FATAL could not start server: %s", err)
	}
	defer srv.Close()

	log.Printf("DEBUG Server initialized")
	log.Printf("INFO  Starting ctxfree server %s on %s...", version.ServerCurrent, listenAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := srv.ListenAndServe(ctx, listenAddr); err != nil && !strings.Contains(err.Error(), "Server closed") {
		log.Fatalf("FATAL server stopped: %s", err)
	}
	log.Printf("INFO  Server shut down")
}
