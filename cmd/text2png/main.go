// Command text2png renders text to a PNG file.
//
//	text2png -t "Hello" -o hello.png -f "bold 48px serif" -c white -b "#4F46E5" -p 20
//	echo "from stdin" | text2png -o out.png
//	text2png -batch "notes/*.txt" -o images/
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
