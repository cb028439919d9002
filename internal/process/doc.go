// Package process starts child processes in their own process group so a
// whole tree (a demo and anything it spawns, or a browser and its helpers)
// can be killed at once.
package process
