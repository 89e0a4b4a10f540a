package sync

import "fmt"

type OpType uint8

var opTypeNames = []string{
	"Upload",
	"Delete",
}

const (
	OpUpload OpType = iota
	OpDelete
)

func (op OpType) String() string {
	if int(op) >= len(opTypeNames) {
		return fmt.Sprintf("OpType(%d)", op)
	}
	return opTypeNames[op]
}
