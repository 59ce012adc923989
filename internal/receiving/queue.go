package receiving

import (
	"github.com/udpcluster/udpcluster/internal/waitqueue"
	"github.com/udpcluster/udpcluster/pkg/types"
)

// Queue and Entry specialize waitqueue for ReceivingMessage, used for the
// received-waiting queue (ReceivedWaitingProcessor) and the
// received-completed queue (ReceivedCompletedCleaner).
type Queue = waitqueue.Queue[types.UUID, *Message]
type Entry = waitqueue.Entry[types.UUID, *Message]

// NewQueue constructs an empty Queue.
func NewQueue() *Queue {
	return waitqueue.New[types.UUID, *Message]()
}
