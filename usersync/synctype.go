package usersync

// SyncType specifies the mechanism used to perform a user sync.
type SyncType string

const (
	// SyncTypeUnknown specifies the user sync type is invalid or not specified.
	SyncTypeUnknown SyncType = ""

	// SyncTypeIFrame specifies the user sync is to be performed within an HTML iframe
	// and to expect the server to return a valid HTML page with an embedded script.
	SyncTypeIFrame SyncType = "iframe"

	// SyncTypeImage specifies the user sync is to be performed within an HTML image pixel.
	SyncTypeImage SyncType = "image"
)

// Options are the sync mechanisms the page allows.
type Options struct {
	PixelEnabled  bool `json:"pixelEnabled"`
	IFrameEnabled bool `json:"iframeEnabled"`
}

// Preferred returns the sync type to use, iframe before image.
func (o Options) Preferred() SyncType {
	switch {
	case o.IFrameEnabled:
		return SyncTypeIFrame
	case o.PixelEnabled:
		return SyncTypeImage
	default:
		return SyncTypeUnknown
	}
}
