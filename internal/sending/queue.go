package sending

import (
	"github.com/udpcluster/udpcluster/internal/waitqueue"
	"github.com/udpcluster/udpcluster/pkg/types"
)

// Queue and Entry specialize waitqueue for SendingMessage, used for both
// the sent-waiting queue (SentWaitingProcessor) and the sent-completed
// queue (SentCompletedCleaner).
type Queue = waitqueue.Queue[types.UUID, *Message]
type Entry = waitqueue.Entry[types.UUID, *Message]

// NewQueue constructs an empty Queue.
func NewQueue() *Queue {
	return waitqueue.New[types.UUID, *Message]()
}
