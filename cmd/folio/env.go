package main

import (
	"io"
	"os"
	"time"

	"github.com/alnah/go-folio/internal/config"
)

// Environment holds injectable dependencies for testability.
type Environment struct {
	Now    func() time.Time
	Stdout io.Writer
	Stderr io.Writer

	// Config is the base configuration when no config file is named.
	// Nil uses config.DefaultConfig.
	Config *config.Config
}

// DefaultEnv returns the production environment.
func DefaultEnv() *Environment {
	return &Environment{
		Now:    time.Now,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}
}
