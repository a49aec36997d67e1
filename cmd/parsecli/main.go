// Command parsecli uploads a resume to the API and prints the parsed
// profile, reporting progress while the parse runs.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"jobportal/resume-parser/internal/client"
)

func main() {
	serverURL := flag.String("server", "http://localhost:3000", "base URL of the resume parser API")
	quiet := flag.Bool("quiet", false, "suppress progress messages")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "Usage: %s [flags] <resume-file>\n", os.Args[0])
		flag.PrintDefaults()
		os.Exit(2)
	}
	path := flag.Arg(0)

	onProgress := func(state client.State, message string) {
		if !*quiet {
			log.Printf("🔄 [%s] %s\n", state, message)
		}
	}

	poller := client.NewPoller(client.New(*serverURL))
	profile, err := poller.Run(context.Background(), path, onProgress)
	if err != nil {
		log.Fatalf("❌ %v", err)
	}

	out, err := json.MarshalIndent(profile, "", "  ")
	if err != nil {
		log.Fatalf("❌ Failed to render profile: %v", err)
	}
	fmt.Println(string(out))

	if !profile.Success() {
		os.Exit(1)
	}
}
