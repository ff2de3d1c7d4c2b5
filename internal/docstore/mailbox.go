package docstore

import "encoding/json"

// offer puts v into a single-slot channel, replacing any value the consumer
// has not taken yet. Callers must serialise offers on the same channel.
func offer(ch chan json.RawMessage, v json.RawMessage) {
	select {
	case <-ch:
	default:
	}
	select {
	case ch <- v:
	default:
	}
}
