// Package planning composes the launch description of the temporal planning
// stack: a plansys2 bringup driven by the durative-actions PDDL domain plus
// the five action executor nodes.
package planning
