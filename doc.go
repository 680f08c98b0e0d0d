/*
Package planlaunch launches the temporal planning stack of a ROS 2 workspace.

The stack is a plansys2 bringup driven by the durative-actions PDDL domain of
the temporal_planning package, plus the five action executor nodes of that
package. Launching happens in two phases, as with any launch system: a
declarative description is composed first (see package planning), then it is
resolved against launch arguments and the package index into a plan of
concrete processes, which are finally started and supervised.

# Usage

	package main

	import (
		"context"
		"log"
		"os/signal"
		"syscall"

		"github.com/aretw0/planlaunch"
	)

	func main() {
		l, err := planlaunch.New() // packages from AMENT_PREFIX_PATH
		if err != nil {
			log.Fatal(err)
		}

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		run, err := l.Run(ctx, map[string]string{"namespace": "robot1"})
		if err != nil {
			log.Fatal(err)
		}
		log.Printf("run %s finished: %s", run.ID, run.Status)
	}

# Architecture

  - pkg/launch: the launch model (actions, substitutions) and the resolver.
  - pkg/ament: package index lookups over install prefixes.
  - pkg/planning: the temporal planning composer.
  - pkg/adapters: launch sources (YAML files, memory), process execution, run
    stores (memory, Redis, SQLite), namespace leases and the HTTP status surface.
  - internal/runtime: the process supervisor.

Only one launch may hold a namespace at a time. Runs are recorded in the
configured store so they can be listed after the launcher exits.
*/
package planlaunch
