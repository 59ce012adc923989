// Package udpcluster is a reliable chunked-datagram transport for small,
// same-subnet clusters of Go processes: members discover each other's
// unicast and broadcast sockets per network interface, fragment payloads
// larger than a single datagram into chunks, and negotiate retransmission
// of anything lost using receipts and missing-chunk lists instead of a
// TCP-style byte stream.
//
// GetCluster returns the process-wide transport instance for an
// (appName, groupName) pair, creating one on first use; GetCluster does not
// start it, Startup does. Send unicasts to a known ClusterIdentity or
// broadcasts when none is given; processMessage-style delivery happens
// through the MessageHandler or ActorRegistry supplied via Option.
package udpcluster

import "github.com/udpcluster/udpcluster/internal/obslog"

var log = obslog.Logger("udpcluster")
