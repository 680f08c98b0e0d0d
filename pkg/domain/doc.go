/*
Package domain contains the records planlaunch keeps about launches.

It is kept free of I/O: stores, lockers and the supervisor exchange these
types through the interfaces in package ports.

# Key Entities

  - Run: one invocation of a launch description, with its arguments and final status.
  - ProcessRecord: the observed state of a single launched node.
  - LifecycleHooks: callbacks fired when processes start and exit.
*/
package domain
