// Package utils holds small helpers shared by the drivers and commands.
package utils
