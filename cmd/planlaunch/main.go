// Command planlaunch launches the temporal planning stack of a ROS 2 workspace.
package main

import "os"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
