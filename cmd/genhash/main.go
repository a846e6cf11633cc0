// cmd/genhash prints a bcrypt hash for a password read from stdin.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/Sabharish-Varshaan/Inventory-management/internal/service"
)

func main() {
	cost := flag.Int("cost", 12, "bcrypt cost")
	flag.Parse()

	password, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && password == "" {
		fmt.Fprintln(os.Stderr, "genhash: no password on stdin")
		os.Exit(1)
	}
	h, err := service.HashPassword(strings.TrimRight(password, "\r\n"), *cost)
	if err != nil {
		fmt.Fprintln(os.Stderr, "genhash:", err)
		os.Exit(1)
	}
	fmt.Println(h)
}
