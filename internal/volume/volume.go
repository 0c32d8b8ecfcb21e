// Package volume classifies the volume a path lives on. The search timeout
// is longer on network volumes.
package volume

// Kind is the class of a volume
type Kind int

const (
	Local Kind = iota
	Network
)

func (k Kind) String() string {
	if k == Network {
		return "network"
	}
	return "local"
}

// Classify reports whether path lives on a network volume. Any failure to
// query the OS is reported as Local.
func Classify(path string) Kind {
	network, err := isNetwork(path)
	if err != nil || !network {
		return Local
	}
	return Network
}

// IsNetwork is shorthand for Classify(path) == Network
func IsNetwork(path string) bool {
	return Classify(path) == Network
}
