package socket

import "errors"

// ErrNoFreePort means every port in the configured dynamic range was
// already bound on a given interface.
var ErrNoFreePort = errors.New("socket: no free port in dynamic range")

// ErrNoInterfaces means interface enumeration found no usable non-loopback
// IPv4 interface to bind to.
var ErrNoInterfaces = errors.New("socket: no non-loopback IPv4 interface found")

// ErrNoRoute means destinationFor/socketForTarget found no binding whose
// interface shares a subnet with the target address.
var ErrNoRoute = errors.New("socket: no route to target")

// ErrClosed is returned by operations on a Table after Close.
var ErrClosed = errors.New("socket: table is closed")
