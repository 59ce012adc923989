package sending

import "errors"

// ErrAlreadySent describes a message whose UUID is already tracked in the
// sent table. Nothing in this package returns it: Sender.Enqueue reports
// no error, and Table.Insert keeps the existing entry for a repeated UUID.
var ErrAlreadySent = errors.New("sending: message with this UUID is already tracked")
