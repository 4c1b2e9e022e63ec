// Package platform holds OS-facing helpers: the single-instance lock,
// launch at login and idle detection.
package platform

import (
	"errors"
	"fmt"
	"hash/fnv"
	"net"
)

// ErrAlreadyRunning indicates another instance already holds the lock.
var ErrAlreadyRunning = errors.New("instance already running")

// Instance is the single-instance lock: a listener on a localhost port
// derived from the app name. The control API is served on it.
type Instance struct {
	listener net.Listener
	address  string
}

// Acquire binds the instance port for appName.
func Acquire(appName string) (*Instance, error) {
	address := InstanceAddress(appName)
	listener, err := net.Listen("tcp", address)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAlreadyRunning, err)
	}
	return &Instance{listener: listener, address: address}, nil
}

// InstanceAddress returns the address the running instance listens on.
func InstanceAddress(appName string) string {
	return fmt.Sprintf("127.0.0.1:%d", portFromName(appName))
}

// Listener returns the bound listener.
func (instance *Instance) Listener() net.Listener {
	return instance.listener
}

// Address returns the bound address.
func (instance *Instance) Address() string {
	if instance == nil {
		return ""
	}
	return instance.address
}

// Release frees the lock. Safe to call more than once.
func (instance *Instance) Release() error {
	if instance == nil || instance.listener == nil {
		return nil
	}
	err := instance.listener.Close()
	instance.listener = nil
	if errors.Is(err, net.ErrClosed) {
		return nil
	}
	return err
}

func portFromName(appName string) int {
	const (
		minPort = 20000
		maxPort = 39999
	)
	hash := fnv.New32a()
	_, _ = hash.Write([]byte(appName))
	rangeSize := maxPort - minPort + 1
	return minPort + int(hash.Sum32()%uint32(rangeSize))
}
