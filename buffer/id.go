package buffer

import (
	"cmp"
	"fmt"
	"sync/atomic"
)

// ID identifies a buffer across replicas.
type ID struct {
	RemoteID  uint64
	ReplicaID uint16
}

// Compare orders IDs by remote id, then replica id.
func (id ID) Compare(other ID) int {
	if c := cmp.Compare(id.RemoteID, other.RemoteID); c != 0 {
		return c
	}
	return cmp.Compare(id.ReplicaID, other.ReplicaID)
}

// String returns a string representation of the ID.
func (id ID) String() string {
	return fmt.Sprintf("Buf(%d:%d)", id.RemoteID, id.ReplicaID)
}

var nextRemoteID atomic.Uint64

func allocRemoteID() uint64 {
	return nextRemoteID.Add(1)
}
