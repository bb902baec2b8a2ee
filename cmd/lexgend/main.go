/*
Lexgend is an optional HTTP server wrapping the lexer-generator pipeline:
clients POST a rule file and get back either a compiled table (as Go
source) or a diagnostic report. It is not required by mklex or by any
core pipeline component; it exists to exercise the module's networking,
auth, and storage dependencies against the compiler.

Usage:

	lexgend [flags]

The flags are:

	-a, --addr ADDR
		Address to listen on. Defaults to ":8080".

	-k, --api-key KEY
		The single API key accepted by POST /session. Required.

	-d, --data-dir DIR
		Directory holding the audit log database. Defaults to ".".
*/
package main

import (
	"crypto/rand"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/spf13/pflag"
)

var (
	flagAddr    = pflag.StringP("addr", "a", ":8080", "address to listen on")
	flagAPIKey  = pflag.StringP("api-key", "k", "", "the single API key accepted by POST /session")
	flagDataDir = pflag.StringP("data-dir", "d", ".", "directory holding the audit log database")
)

func main() {
	pflag.Parse()

	if *flagAPIKey == "" {
		fmt.Fprintln(os.Stderr, "ERROR: -k/--api-key is required")
		os.Exit(1)
	}

	jwtSecret := make([]byte, 32)
	if _, err := rand.Read(jwtSecret); err != nil {
		log.Fatalf("generate session signing secret: %s", err)
	}

	auth, err := newSessionMinter(*flagAPIKey, jwtSecret)
	if err != nil {
		log.Fatalf("init auth: %s", err)
	}

	audit, err := openAuditStore(*flagDataDir + "/lexgend.db")
	if err != nil {
		log.Fatalf("init audit store: %s", err)
	}
	defer audit.Close()

	s := &server{auth: auth, audit: audit}

	r := chi.NewRouter()
	r.Post("/session", s.postSession)
	r.Group(func(r chi.Router) {
		r.Use(auth.requireAuth)
		r.Post("/compile", s.postCompile)
		r.Get("/compile/{id}", s.getCompile)
	})

	log.Printf("lexgend listening on %s", *flagAddr)
	if err := http.ListenAndServe(*flagAddr, r); err != nil {
		log.Fatalf("serve: %s", err)
	}
}
