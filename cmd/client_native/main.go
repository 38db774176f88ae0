// Command client_native parses each argument as a statement through a
// running parse server and prints the canonical SQL or the error.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/tuannm99/novaparse/sqlclient"
)

func main() {
	addr := flag.String("addr", "127.0.0.1:5544", "parse server address")
	flag.Parse()

	c, err := sqlclient.Dial(*addr, 2*time.Second)
	if err != nil {
		fmt.Fprintf(os.Stderr, "dial: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = c.Close() }()

	c.SetRWTimeout(5 * time.Second)

	failed := false
	for _, stmt := range flag.Args() {
		_, sql, err := c.ParseStatement(context.Background(), stmt)
		if err != nil {
			fmt.Printf("error: %v\n", err)
			failed = true
			continue
		}
		fmt.Println(sql)
	}
	if failed {
		_ = c.Close()
		os.Exit(1)
	}
}
