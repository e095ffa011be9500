package metadata

import "fmt"

// Channel classifies a variant's release track.
type Channel string

const (
	// ChannelAlpha marks pre-release builds for early testers.
	ChannelAlpha Channel = "alpha"
	// ChannelBeta marks pre-release builds for wider testing.
	ChannelBeta Channel = "beta"
	// ChannelStable marks production builds.
	ChannelStable Channel = "stable"
	// ChannelOld marks previous versions kept on disk so in-flight client
	// downloads don't 404. Old variants are validated but never advertised.
	ChannelOld Channel = "old"
)

// InvalidChannelError reports a channel value outside the fixed enumeration.
type InvalidChannelError struct {
	// Value is the rejected channel string.
	Value string
}

func (e *InvalidChannelError) Error() string {
	return fmt.Sprintf("invalid release channel %q", e.Value)
}

// ParseChannel validates a channel string against the fixed enumeration.
func ParseChannel(s string) (Channel, error) {
	switch c := Channel(s); c {
	case ChannelAlpha, ChannelBeta, ChannelStable, ChannelOld:
		return c, nil
	default:
		return "", &InvalidChannelError{Value: s}
	}
}

// Published reports whether variants on this channel appear in the manifest.
func (c Channel) Published() bool {
	return c != ChannelOld
}
