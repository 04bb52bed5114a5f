package main

import (
	"testing"

	"github.com/strob0t/ruffls/internal/config"
)

func TestBindTransportRejectsPipe(t *testing.T) {
	_, err := bindTransport(config.Server{Transport: "pipe", PipeName: "foo"})
	if err == nil {
		t.Fatal("expected an error binding the reserved pipe transport")
	}
}

func TestBindTransportRejectsUnknownKind(t *testing.T) {
	_, err := bindTransport(config.Server{Transport: "carrier-pigeon"})
	if err == nil {
		t.Fatal("expected an error for an unknown transport kind")
	}
}

func TestBindTransportSocketDialFailure(t *testing.T) {
	// Port 1 is privileged and unlikely to have a listener in test
	// environments, so dialing it should fail fast rather than hang.
	_, err := bindTransport(config.Server{Transport: "socket", Port: 1})
	if err == nil {
		t.Fatal("expected a dial error connecting to a closed port")
	}
}
