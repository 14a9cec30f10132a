//go:build integration

// Package testutil runs a disposable MongoDB for integration tests.
package testutil

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go/modules/mongodb"
)

// MongoImage is the server image the label stores are tested against.
const MongoImage = "mongo:7.0"

var shared struct {
	mu        sync.RWMutex
	container *mongodb.MongoDBContainer
	uri       string
}

// RunWithMongoDB starts one MongoDB container for the whole package, runs
// the tests and terminates the container. Use it from TestMain:
//
//	func TestMain(m *testing.M) { os.Exit(testutil.RunWithMongoDB(m)) }
func RunWithMongoDB(m *testing.M) int {
	ctx := context.Background()

	container, err := mongodb.Run(ctx, MongoImage)
	if err != nil {
		fmt.Fprintf(os.Stderr, "start %s: %v\n", MongoImage, err)
		return 1
	}
	uri, err := container.ConnectionString(ctx)
	if err != nil {
		_ = container.Terminate(ctx)
		fmt.Fprintf(os.Stderr, "mongodb connection string: %v\n", err)
		return 1
	}

	shared.mu.Lock()
	shared.container, shared.uri = container, uri
	shared.mu.Unlock()

	code := m.Run()

	if err := container.Terminate(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "warning: terminate mongodb container: %v\n", err)
	}
	return code
}

// MongoURI returns the shared container's connection string.
func MongoURI(t testing.TB) string {
	t.Helper()
	shared.mu.RLock()
	defer shared.mu.RUnlock()
	require.NotEmpty(t, shared.uri, "MongoDB not started; call RunWithMongoDB from TestMain")
	return shared.uri
}

// DatabaseName returns a database name unique to the test.
func DatabaseName(t testing.TB) string {
	name := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			return r
		default:
			return '_'
		}
	}, t.Name())
	if len(name) > 40 {
		name = name[:40]
	}
	return name + "_" + uuid.NewString()[:8]
}
