// Command actionnode stands in for a temporal_planning action node in tests.
// It prints the node identity it was remapped to and waits for SIGINT.
//
// Behavior is driven by environment variables:
//
//	ACTION_NODE_EXIT=<code>   exit immediately with code
//	ACTION_NODE_STUBBORN=1    ignore SIGINT and SIGTERM until killed
package main

import (
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"
)

func main() {
	name, ns := "unnamed", "/"
	for i, arg := range os.Args {
		if i == 0 || arg != "-r" || i+1 >= len(os.Args) {
			continue
		}
		rule := os.Args[i+1]
		if v, ok := strings.CutPrefix(rule, "__node:="); ok {
			name = v
		}
		if v, ok := strings.CutPrefix(rule, "__ns:="); ok {
			ns = v
		}
	}

	fmt.Printf("node %s started in %s\n", name, ns)
	fmt.Printf("args %s\n", strings.Join(os.Args[1:], " "))

	if code, ok := os.LookupEnv("ACTION_NODE_EXIT"); ok {
		n, _ := strconv.Atoi(code)
		fmt.Fprintf(os.Stderr, "node %s exiting with %d\n", name, n)
		os.Exit(n)
	}

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)

	if os.Getenv("ACTION_NODE_STUBBORN") == "1" {
		go func() {
			for s := range sigs {
				fmt.Printf("ignoring %v\n", s)
			}
		}()
		for {
			time.Sleep(time.Second)
		}
	}

	select {
	case s := <-sigs:
		fmt.Printf("node %s received %v, shutting down\n", name, s)
	case <-time.After(time.Minute):
		fmt.Println("idle timeout")
	}
}
