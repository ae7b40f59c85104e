// atsmock serves the in-memory mock ATS backend for local development, so
// the ingestion CLI and frontend can be exercised without a real server.
package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"

	"github.com/decipher6/greenstoneResume-sub000/internal/atstest"
)

func main() {
	addr := flag.String("addr", "127.0.0.1:8000", "listen address")
	flag.Parse()

	srv := atstest.New()
	fmt.Printf("Mock ATS backend listening on http://%s\n", *addr)
	if err := http.ListenAndServe(*addr, srv.Handler()); err != nil {
		fmt.Printf("Server stopped: %v\n", err)
		os.Exit(1)
	}
}
