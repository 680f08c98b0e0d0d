// Package runtime supervises the processes of a resolved launch plan.
package runtime
